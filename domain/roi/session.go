package roi

import (
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Options configures an editing session.
type Options struct {
	// CloseThreshold is the scene distance from the first vertex within
	// which a click closes the polygon.
	CloseThreshold float64
	BrushWidth     float64
	HistoryLimit   int

	RoiStyle        Style
	FreehandStyle   Style
	MarkerStyle     Style
	MarkerRadius    float64
	LineStyle       Style
	RubberBandStyle Style
}

// DefaultOptions returns the stock ROI tones and thresholds.
func DefaultOptions() Options {
	return Options{
		CloseThreshold:  10,
		BrushWidth:      3,
		HistoryLimit:    100,
		RoiStyle:        Style{Fill: "rgba(255, 0, 0, 0.3)", Stroke: "#ff0000", StrokeWidth: 1.5},
		FreehandStyle:   Style{Fill: "rgba(255, 0, 0, 0.2)", Stroke: "rgba(255, 0, 0, 0.7)"},
		MarkerStyle:     Style{Fill: "red"},
		MarkerRadius:    4,
		LineStyle:       Style{Stroke: "red", StrokeWidth: 1},
		RubberBandStyle: Style{Stroke: "rgba(255, 0, 0, 0.5)", StrokeWidth: 1},
	}
}

// PolygonDraft accumulates vertices while the polygon tool is active.
type PolygonDraft struct {
	Points     []Point
	RubberBand *Shape
}

type dragState struct {
	id    string
	last  Point
	moved bool
}

// Session is one editing session over a single background image. All
// methods must be called from the UI goroutine.
type Session struct {
	scene   Scene
	opts    Options
	ui      Affordances
	logger  *slog.Logger
	history *History

	tool       Tool
	draft      PolygonDraft
	brush      Brush
	brushWidth float64
	drag       *dragState
}

// NewSession binds a session to scene. ui and logger may be nil.
func NewSession(scene Scene, opts Options, ui Affordances, logger *slog.Logger) (*Session, error) {
	if scene == nil {
		return nil, ErrNoScene
	}
	if ui == nil {
		ui = noAffordances{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.CloseThreshold <= 0 {
		opts.CloseThreshold = 10
	}
	if opts.BrushWidth <= 0 {
		opts.BrushWidth = 3
	}
	return &Session{
		scene:      scene,
		opts:       opts,
		ui:         ui,
		logger:     logger,
		history:    NewHistory(opts.HistoryLimit),
		brushWidth: opts.BrushWidth,
	}, nil
}

// Init installs bg and establishes the undo floor: stale ROIs are dropped
// without recording, the stack is reset and the bare background saved once.
func (s *Session) Init(bg *Background) error {
	if s.scene == nil {
		return ErrNoScene
	}
	if bg == nil {
		return ErrNoBackground
	}
	s.scene.SetBackground(bg)
	s.scene.RequestRender()
	s.ClearAll(false)
	s.ResetHistory()
	if err := s.Save(); err != nil {
		return err
	}
	return s.SetTool(ToolSelect)
}

// Close tears the session down. Any later tool switch reports ErrNoScene.
func (s *Session) Close() {
	if s == nil || s.scene == nil {
		return
	}
	s.cleanupPolygon()
	s.scene.SetDrawingMode(false)
	s.scene = nil
	s.brush = nil
	s.drag = nil
	s.history.Reset()
}

func (s *Session) Tool() Tool               { return s.tool }
func (s *Session) Draft() PolygonDraft      { return s.draft }
func (s *Session) History() *History        { return s.history }
func (s *Session) Scene() Scene             { return s.scene }
func (s *Session) BrushWidth() float64      { return s.brushWidth }
func (s *Session) Options() Options         { return s.opts }
func (s *Session) Logger() *slog.Logger     { return s.logger }
func (s *Session) Affordances() Affordances { return s.ui }

// SetTool leaves the current mode and enters t.
func (s *Session) SetTool(t Tool) error {
	if s.scene == nil {
		s.logger.Error("tool switch without scene", "tool", t.String())
		return ErrNoScene
	}
	prev := s.tool
	s.scene.DiscardActive()
	s.scene.SetDrawingMode(false)
	s.scene.SetMultiSelect(false)
	s.scene.SetCursors("default", "default")
	s.ui.ShowBrushOptions(false)
	s.ui.ShowPolygonHelp(false)
	s.drag = nil
	s.cleanupPolygon()

	switch t {
	case ToolSelect:
		s.scene.SetMultiSelect(true)
		s.scene.SetCursors("default", "move")
	case ToolPolygon:
		s.scene.SetCursors("crosshair", "crosshair")
		s.ui.ShowPolygonHelp(true)
	case ToolFreehand:
		s.scene.SetDrawingMode(true)
		if s.brush == nil {
			s.brush = s.scene.NewBrush()
		}
		s.brush.SetColor(s.opts.FreehandStyle.Stroke)
		s.brush.SetWidth(s.brushWidth)
		s.ui.ShowBrushOptions(true)
	}
	s.tool = t
	s.ui.SetActiveTool(t)
	s.logger.Debug("tool transition", "from", prev.String(), "to", t.String())
	return nil
}

// Perform runs a one-shot action and returns to ToolSelect.
func (s *Session) Perform(a Action) error {
	if s.scene == nil {
		return ErrNoScene
	}
	var err error
	switch a {
	case ActionDelete:
		s.DeleteSelected()
	case ActionUndo:
		err = s.Undo()
	case ActionRedo:
		err = s.Redo()
	}
	if terr := s.SetTool(ToolSelect); err == nil {
		err = terr
	}
	return err
}

// SetBrushWidth feeds the brush-size control; the brush follows it live.
func (s *Session) SetBrushWidth(w float64) {
	if w <= 0 {
		return
	}
	s.brushWidth = w
	if s.brush != nil && s.tool == ToolFreehand {
		s.brush.SetWidth(w)
	}
}

// Save records the current scene as a new snapshot.
func (s *Session) Save() error {
	if s.scene == nil {
		return ErrNoScene
	}
	snap, err := s.scene.Snapshot()
	if err != nil {
		s.logger.Error("history snapshot failed", "error", err)
		return err
	}
	s.history.Push(snap)
	s.logger.Debug("history saved", "index", s.history.Index(), "total", s.history.Len(), "size", humanize.Bytes(uint64(s.history.Size())))
	s.refreshHistory()
	return nil
}

// Load replaces the scene with snapshot i. Out-of-range i is a no-op.
func (s *Session) Load(i int) error {
	if s.scene == nil {
		return ErrNoScene
	}
	snap, ok := s.history.At(i)
	if !ok {
		return nil
	}
	// Draft helpers would not survive the restore.
	if len(s.draft.Points) > 0 || s.draft.RubberBand != nil {
		s.cleanupPolygon()
	}
	s.drag = nil
	if err := s.scene.Restore(snap); err != nil {
		s.logger.Error("history restore failed", "index", i, "error", err)
		return err
	}
	for _, sh := range s.scene.Shapes() {
		if sh.Kind.IsHelper() {
			sh.Selectable = false
			sh.Evented = false
		}
	}
	s.history.Seek(i)
	s.scene.RequestRender()
	s.logger.Debug("history loaded", "index", i, "total", s.history.Len())
	s.refreshHistory()
	return nil
}

// Undo loads the previous snapshot, if any.
func (s *Session) Undo() error {
	if !s.history.CanUndo() {
		s.logger.Debug("nothing to undo")
		return nil
	}
	return s.Load(s.history.Index() - 1)
}

// Redo loads the next snapshot, if any.
func (s *Session) Redo() error {
	if !s.history.CanRedo() {
		s.logger.Debug("nothing to redo")
		return nil
	}
	return s.Load(s.history.Index() + 1)
}

// ResetHistory empties the stack.
func (s *Session) ResetHistory() {
	s.history.Reset()
	s.refreshHistory()
}

func (s *Session) refreshHistory() {
	s.ui.SetUndoEnabled(s.history.CanUndo())
	s.ui.SetRedoEnabled(s.history.CanRedo())
}

// ClearAll removes every ROI. A snapshot is recorded only when record is
// set and something was removed.
func (s *Session) ClearAll(record bool) {
	if s.scene == nil {
		return
	}
	removed := false
	for _, sh := range s.scene.Shapes() {
		if sh.Kind.IsRoi() {
			s.scene.Remove(sh.ID)
			removed = true
		}
	}
	if !removed {
		return
	}
	s.scene.RequestRender()
	if record {
		_ = s.Save()
	}
}

// DeleteSelected removes the active shape when it is an ROI.
func (s *Session) DeleteSelected() bool {
	if s.scene == nil {
		return false
	}
	active := s.scene.Active()
	if active == nil {
		s.logger.Debug("delete: nothing selected")
		return false
	}
	if !active.Kind.IsRoi() {
		s.logger.Debug("delete: selection is not an roi", "kind", active.Kind.String())
		return false
	}
	s.scene.Remove(active.ID)
	s.scene.DiscardActive()
	s.scene.RequestRender()
	_ = s.Save()
	return true
}
