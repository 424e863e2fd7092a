package roi

import "errors"

var (
	// ErrNoScene is returned when an operation needs a scene that was never
	// constructed or has already been torn down.
	ErrNoScene = errors.New("roi: scene not initialised")
	// ErrNoBackground is returned when a session is initialised without an image.
	ErrNoBackground = errors.New("roi: background image missing")
)

// Snapshot is an opaque serialised copy of the scene. Only the Scene that
// produced it knows its layout.
type Snapshot []byte

// Snapshotter serialises and restores full scene contents. Shape kinds must
// survive the round-trip.
type Snapshotter interface {
	Snapshot() (Snapshot, error)
	Restore(Snapshot) error
}

// Brush captures freehand strokes. End adds the finished stroke to the
// scene it belongs to and returns it, or nil when the stroke is too short.
type Brush interface {
	SetColor(c string)
	SetWidth(w float64)
	Width() float64
	Begin(p Point)
	Extend(p Point)
	End() *Shape
}

// Scene is the drawing surface the editor orchestrates. Shapes returns a
// copy of the z-ordered list; the *Shape values themselves are live.
type Scene interface {
	Snapshotter

	Add(s *Shape)
	Remove(id string) bool
	Shapes() []*Shape

	Active() *Shape
	SetActive(id string) bool
	DiscardActive()
	HitTest(p Point) *Shape

	Background() *Background
	SetBackground(bg *Background)

	// Pointer maps a view position to scene coordinates.
	Pointer(x, y float64) Point

	SetDrawingMode(on bool)
	SetMultiSelect(on bool)
	SetCursors(def, hover string)
	NewBrush() Brush
	RequestRender()
}

// Affordances receives the toolbar state the editor derives from its own.
type Affordances interface {
	SetUndoEnabled(bool)
	SetRedoEnabled(bool)
	SetActiveTool(Tool)
	ShowPolygonHelp(bool)
	ShowBrushOptions(bool)
}

type noAffordances struct{}

func (noAffordances) SetUndoEnabled(bool)   {}
func (noAffordances) SetRedoEnabled(bool)   {}
func (noAffordances) SetActiveTool(Tool)    {}
func (noAffordances) ShowPolygonHelp(bool)  {}
func (noAffordances) ShowBrushOptions(bool) {}
