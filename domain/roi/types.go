package roi

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Tool enumerates the persistent interaction modes of the editor.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPolygon
	ToolFreehand
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPolygon:
		return "polygon"
	case ToolFreehand:
		return "freehand"
	default:
		return "unknown"
	}
}

// Action enumerates one-shot toolbar actions. They are not stored as the
// active tool; running one always leaves the editor in ToolSelect.
type Action int

const (
	ActionDelete Action = iota
	ActionUndo
	ActionRedo
)

func (a Action) String() string {
	switch a {
	case ActionDelete:
		return "delete"
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// ParseTool maps a toolbar target name to a Tool.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "select":
		return ToolSelect, nil
	case "polygon":
		return ToolPolygon, nil
	case "freehand":
		return ToolFreehand, nil
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", name)
}

// ParseAction maps a toolbar target name to a one-shot Action.
func ParseAction(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "delete":
		return ActionDelete, nil
	case "undo":
		return ActionUndo, nil
	case "redo":
		return ActionRedo, nil
	}
	return ActionDelete, fmt.Errorf("unknown action %q", name)
}

// ShapeKind is the discriminant carried by every shape on the scene.
type ShapeKind int

const (
	// KindUnknown marks a shape that has not been claimed by the editor yet,
	// e.g. a stroke freshly emitted by the brush.
	KindUnknown ShapeKind = iota
	KindBackground
	KindRoiPolygon
	KindRoiStroke
	KindHelperMarker
	KindHelperLine
)

var kindNames = map[ShapeKind]string{
	KindUnknown:      "unknown",
	KindBackground:   "background",
	KindRoiPolygon:   "roi-polygon",
	KindRoiStroke:    "roi-stroke",
	KindHelperMarker: "helper-marker",
	KindHelperLine:   "helper-line",
}

func (k ShapeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsRoi reports whether shapes of this kind are exported and user-deletable.
func (k ShapeKind) IsRoi() bool { return k == KindRoiPolygon || k == KindRoiStroke }

// IsHelper reports whether shapes of this kind are transient drawing guidance.
func (k ShapeKind) IsHelper() bool { return k == KindHelperMarker || k == KindHelperLine }

// MarshalText keeps the tag readable inside snapshots.
func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText restores a tag written by MarshalText.
func (k *ShapeKind) UnmarshalText(b []byte) error {
	s := string(b)
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown shape kind %q", s)
}

// Style holds CSS-like colour strings ("#rrggbb" or "rgba(r,g,b,a)") and a stroke width.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Transform places a shape on the scene: scale, then rotation (degrees,
// about the local origin), then translation. A zero scale means unscaled.
type Transform struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	ScaleX float64 `json:"scaleX,omitempty"`
	ScaleY float64 `json:"scaleY,omitempty"`
	Angle  float64 `json:"angle,omitempty"`
}

// Matrix composes the transform into an affine matrix.
func (t Transform) Matrix() f64.Aff3 {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	rad := t.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return f64.Aff3{
		cos * sx, -sin * sy, t.Left,
		sin * sx, cos * sy, t.Top,
	}
}

// Apply maps a local point through m.
func Apply(m f64.Aff3, p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Segment is one drawing-path command: Op is "M", "L", "Q" or "C" and Args
// holds its coordinates with the terminal point last.
type Segment struct {
	Op   string    `json:"op"`
	Args []float64 `json:"args"`
}

// End returns the terminal point of the segment.
func (s Segment) End() (Point, bool) {
	n := len(s.Args)
	if n < 2 {
		return Point{}, false
	}
	return Point{X: s.Args[n-2], Y: s.Args[n-1]}, true
}

// Shape is a scene object. Points holds polygon vertices, line endpoints or
// a marker centre depending on Kind; Path holds a freehand stroke.
type Shape struct {
	ID         string    `json:"id"`
	Kind       ShapeKind `json:"kind"`
	Points     []Point   `json:"points,omitempty"`
	Path       []Segment `json:"path,omitempty"`
	Radius     float64   `json:"radius,omitempty"`
	Transform  Transform `json:"transform"`
	Style      Style     `json:"style"`
	Selectable bool      `json:"selectable"`
	Evented    bool      `json:"evented"`
}

// Background is the image the user annotates and its placement on the scene.
// DisplayWidth/DisplayHeight are the on-screen pixel size, which can differ
// slightly from Native*Scale once the view rounds the resized image.
type Background struct {
	Ref           string      `json:"ref"`
	Image         image.Image `json:"-"`
	NativeWidth   int         `json:"nativeWidth"`
	NativeHeight  int         `json:"nativeHeight"`
	Left          float64     `json:"left"`
	Top           float64     `json:"top"`
	ScaleX        float64     `json:"scaleX"`
	ScaleY        float64     `json:"scaleY"`
	DisplayWidth  float64     `json:"displayWidth"`
	DisplayHeight float64     `json:"displayHeight"`
}

// ratios returns displayed/native size ratios, falling back to the scale
// factors when the displayed size is unknown.
func (b *Background) ratios() (float64, float64) {
	rx, ry := b.ScaleX, b.ScaleY
	if b.NativeWidth > 0 && b.DisplayWidth > 0 {
		rx = b.DisplayWidth / float64(b.NativeWidth)
	}
	if b.NativeHeight > 0 && b.DisplayHeight > 0 {
		ry = b.DisplayHeight / float64(b.NativeHeight)
	}
	return rx, ry
}

// ToImage converts a scene point to original-image pixel coordinates.
func (b *Background) ToImage(p Point) (float64, float64) {
	rx, ry := b.ratios()
	return (p.X - b.Left) / rx, (p.Y - b.Top) / ry
}
