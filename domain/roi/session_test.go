package roi_test

import (
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/soocke/roi-annotator/domain/roi"
	"github.com/soocke/roi-annotator/domain/scene"
)

var discardLogger = slog.New(slog.DiscardHandler)

// affordanceRecorder keeps the last value pushed for each toolbar affordance.
type affordanceRecorder struct {
	undo, redo   bool
	tool         roi.Tool
	polygonHelp  bool
	brushOptions bool
}

func (a *affordanceRecorder) SetUndoEnabled(v bool)    { a.undo = v }
func (a *affordanceRecorder) SetRedoEnabled(v bool)    { a.redo = v }
func (a *affordanceRecorder) SetActiveTool(t roi.Tool) { a.tool = t }
func (a *affordanceRecorder) ShowPolygonHelp(v bool)   { a.polygonHelp = v }
func (a *affordanceRecorder) ShowBrushOptions(v bool)  { a.brushOptions = v }

// unitBackground is a 100x100 image shown unscaled at the scene origin.
func unitBackground() *roi.Background {
	return &roi.Background{
		Ref: "test.png", NativeWidth: 100, NativeHeight: 100,
		ScaleX: 1, ScaleY: 1, DisplayWidth: 100, DisplayHeight: 100,
	}
}

func newTestSession(t *testing.T, bg *roi.Background) (*roi.Session, *scene.Canvas, *affordanceRecorder) {
	t.Helper()
	c := scene.New(800, 600, discardLogger)
	ui := &affordanceRecorder{}
	s, err := roi.NewSession(c, roi.DefaultOptions(), ui, discardLogger)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Init(bg); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s, c, ui
}

func drawPolygon(t *testing.T, s *roi.Session, pts ...roi.Point) {
	t.Helper()
	if err := s.SetTool(roi.ToolPolygon); err != nil {
		t.Fatalf("polygon tool: %v", err)
	}
	for _, p := range pts {
		s.PointerDown(p.X, p.Y)
	}
	s.DoubleClick()
}

func countKind(c *scene.Canvas, pred func(roi.ShapeKind) bool) int {
	n := 0
	for _, sh := range c.Shapes() {
		if pred(sh.Kind) {
			n++
		}
	}
	return n
}

func TestNewSession_NilScene(t *testing.T) {
	if _, err := roi.NewSession(nil, roi.DefaultOptions(), nil, nil); !errors.Is(err, roi.ErrNoScene) {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}
}

func TestInit_EstablishesUndoFloor(t *testing.T) {
	s, _, ui := newTestSession(t, unitBackground())
	h := s.History()
	if h.Len() != 1 || h.Index() != 0 {
		t.Fatalf("len=%d index=%d, want 1/0", h.Len(), h.Index())
	}
	if ui.undo || ui.redo {
		t.Fatalf("undo/redo must start disabled")
	}
	if s.Tool() != roi.ToolSelect || ui.tool != roi.ToolSelect {
		t.Fatalf("tool = %v", s.Tool())
	}
}

func TestInit_RequiresBackground(t *testing.T) {
	c := scene.New(10, 10, discardLogger)
	s, _ := roi.NewSession(c, roi.DefaultOptions(), nil, discardLogger)
	if err := s.Init(nil); !errors.Is(err, roi.ErrNoBackground) {
		t.Fatalf("expected ErrNoBackground, got %v", err)
	}
}

func TestPolygon_DoubleClickFinishes(t *testing.T) {
	s, c, ui := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})

	got := s.Export()
	want := []roi.ROI{{{0, 0}, {10, 0}, {10, 10}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("export = %v, want %v", got, want)
	}
	if n := countKind(c, roi.ShapeKind.IsHelper); n != 0 {
		t.Fatalf("%d helper shapes left behind", n)
	}
	if s.Tool() != roi.ToolSelect {
		t.Fatalf("tool after finish = %v, want select", s.Tool())
	}
	if s.History().Len() != 2 || !ui.undo {
		t.Fatalf("finish must record one snapshot: len=%d undo=%v", s.History().Len(), ui.undo)
	}
}

func TestPolygon_ClickNearFirstVertexCloses(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolPolygon)
	for _, p := range []roi.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}} {
		s.PointerDown(p.X, p.Y)
	}
	s.PointerDown(3, 3)

	var polys []*roi.Shape
	for _, sh := range c.Shapes() {
		if sh.Kind == roi.KindRoiPolygon {
			polys = append(polys, sh)
		}
	}
	if len(polys) != 1 || len(polys[0].Points) != 4 {
		t.Fatalf("expected one 4-vertex polygon, got %+v", polys)
	}
	if len(s.Draft().Points) != 0 {
		t.Fatalf("draft not reset")
	}
}

func TestPolygon_NearFirstVertexWithTwoPointsAddsVertex(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolPolygon)
	s.PointerDown(0, 0)
	s.PointerDown(1, 1)
	if got := len(s.Draft().Points); got != 2 {
		t.Fatalf("draft points = %d, want 2", got)
	}
	if countKind(c, roi.ShapeKind.IsRoi) != 0 {
		t.Fatalf("polygon closed with two points")
	}
}

func TestPolygon_EscapeCancelsDraft(t *testing.T) {
	s, c, ui := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolPolygon)
	s.PointerDown(0, 0)
	s.PointerDown(10, 0)
	s.PointerMove(20, 20, false)

	if err := s.Dispatch(roi.KeyDown{Key: roi.KeyEscape}); err != nil {
		t.Fatalf("escape: %v", err)
	}
	if len(c.Shapes()) != 0 {
		t.Fatalf("shapes left after cancel: %d", len(c.Shapes()))
	}
	if s.History().Len() != 1 {
		t.Fatalf("cancel must not record history, len=%d", s.History().Len())
	}
	if s.Tool() != roi.ToolPolygon {
		t.Fatalf("tool after cancel = %v, want polygon", s.Tool())
	}
	if ui.polygonHelp {
		t.Fatalf("polygon help still shown")
	}
}

func TestPolygon_RubberBandFollowsPointer(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolPolygon)
	s.PointerDown(5, 5)
	s.PointerMove(30, 40, false)
	rb := s.Draft().RubberBand
	if rb == nil || rb.Points[0] != (roi.Point{X: 5, Y: 5}) || rb.Points[1] != (roi.Point{X: 30, Y: 40}) {
		t.Fatalf("rubber band = %+v", rb)
	}
}

func TestSetTool_ClearsDraftOnEveryTransition(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolPolygon)
	s.PointerDown(0, 0)
	s.PointerDown(10, 10)
	_ = s.SetTool(roi.ToolFreehand)
	if countKind(c, roi.ShapeKind.IsHelper) != 0 || len(s.Draft().Points) != 0 {
		t.Fatalf("draft survived tool switch")
	}
	if !c.DrawingMode() {
		t.Fatalf("freehand must enable drawing mode")
	}
	_ = s.SetTool(roi.ToolSelect)
	if c.DrawingMode() || !c.MultiSelect() {
		t.Fatalf("select: drawing=%v multi=%v", c.DrawingMode(), c.MultiSelect())
	}
}

func TestUndoRedo_RestoresExport(t *testing.T) {
	s, _, ui := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	drawPolygon(t, s, roi.Point{X: 50, Y: 50}, roi.Point{X: 60, Y: 50}, roi.Point{X: 60, Y: 60})
	before := s.Export()

	if err := s.Perform(roi.ActionUndo); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := s.Export(); len(got) != 1 {
		t.Fatalf("after undo export = %v", got)
	}
	if !ui.redo {
		t.Fatalf("redo should be enabled after undo")
	}
	if err := s.Perform(roi.ActionRedo); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := s.Export(); !reflect.DeepEqual(got, before) {
		t.Fatalf("redo export = %v, want %v", got, before)
	}
	if ui.redo {
		t.Fatalf("redo should be disabled at the tail")
	}
}

func TestUndo_AtFloorIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if s.History().Index() != 0 {
		t.Fatalf("index moved below floor")
	}
}

func TestSaveAfterUndo_PrunesRedoBranch(t *testing.T) {
	s, _, ui := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	drawPolygon(t, s, roi.Point{X: 20, Y: 20}, roi.Point{X: 30, Y: 20}, roi.Point{X: 30, Y: 30})
	_ = s.Undo()
	drawPolygon(t, s, roi.Point{X: 70, Y: 70}, roi.Point{X: 80, Y: 70}, roi.Point{X: 80, Y: 80})

	h := s.History()
	if h.Len() != 3 || h.Index() != 2 {
		t.Fatalf("len=%d index=%d, want 3/2", h.Len(), h.Index())
	}
	if ui.redo {
		t.Fatalf("redo must be disabled after a new save")
	}
	want := []roi.ROI{
		{{0, 0}, {10, 0}, {10, 10}},
		{{70, 70}, {80, 70}, {80, 80}},
	}
	if got := s.Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("export = %v, want %v", got, want)
	}
}

func TestUndo_DuringDraftCleansHelpers(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	_ = s.SetTool(roi.ToolPolygon)
	s.PointerDown(40, 40)
	s.PointerDown(50, 40)
	if _, err := s.HandleKey(roi.KeyDown{Key: "z", Ctrl: true}); err != nil {
		t.Fatalf("ctrl+z: %v", err)
	}
	if countKind(c, roi.ShapeKind.IsHelper) != 0 || len(s.Draft().Points) != 0 {
		t.Fatalf("helpers survived undo")
	}
	if len(s.Export()) != 0 {
		t.Fatalf("undo should have removed the polygon")
	}
}

func TestExport_IgnoresNonRoiShapes(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	c.Add(&roi.Shape{Kind: roi.KindUnknown, Points: []roi.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}}})
	c.Add(&roi.Shape{Kind: roi.KindHelperMarker, Points: []roi.Point{{X: 1, Y: 1}}})
	if got := s.Export(); len(got) != 1 {
		t.Fatalf("export = %v, want one roi", got)
	}
}

func TestExport_MapsThroughBackgroundPlacement(t *testing.T) {
	bg := &roi.Background{
		Ref: "wide.png", NativeWidth: 200, NativeHeight: 100,
		Left: 10, Top: 20, ScaleX: 0.5, ScaleY: 0.5, DisplayWidth: 100, DisplayHeight: 50,
	}
	s, _, _ := newTestSession(t, bg)
	drawPolygon(t, s, roi.Point{X: 10, Y: 20}, roi.Point{X: 110, Y: 20}, roi.Point{X: 110, Y: 70})
	want := []roi.ROI{{{0, 0}, {200, 0}, {200, 100}}}
	if got := s.Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("export = %v, want %v", got, want)
	}
}

func TestExport_SkipsNonFiniteShape(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	c.Add(&roi.Shape{Kind: roi.KindRoiPolygon, Points: []roi.Point{{X: math.NaN(), Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}})
	if got := s.Export(); len(got) != 0 {
		t.Fatalf("export = %v, want empty", got)
	}
}

func TestExport_WithoutBackgroundIsEmpty(t *testing.T) {
	c := scene.New(10, 10, discardLogger)
	c.Add(&roi.Shape{Kind: roi.KindRoiPolygon, Points: []roi.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}})
	got := roi.ExportScene(c, discardLogger)
	if got == nil || len(got) != 0 {
		t.Fatalf("export = %#v, want empty non-nil", got)
	}
}

func TestDelete_NonRoiLeavesHistoryUnchanged(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	other := &roi.Shape{Kind: roi.KindUnknown, Points: []roi.Point{{X: 0, Y: 0}}, Selectable: true, Evented: true}
	c.Add(other)
	c.SetActive(other.ID)
	if s.DeleteSelected() {
		t.Fatalf("non-roi deleted")
	}
	if len(c.Shapes()) != 1 || s.History().Len() != 1 {
		t.Fatalf("shapes=%d history=%d", len(c.Shapes()), s.History().Len())
	}
}

func TestDelete_ActiveRoiViaKeyboard(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 40, Y: 0}, roi.Point{X: 40, Y: 40})
	s.PointerDown(30, 10)
	if c.Active() == nil {
		t.Fatalf("click inside polygon should select it")
	}
	handled, err := s.HandleKey(roi.KeyDown{Key: roi.KeyBackspace})
	if err != nil || !handled {
		t.Fatalf("backspace handled=%v err=%v", handled, err)
	}
	if len(s.Export()) != 0 || s.History().Len() != 3 {
		t.Fatalf("export=%v history=%d", s.Export(), s.History().Len())
	}
}

func TestKeys_SuppressedInTextInput(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	for _, k := range []roi.KeyDown{
		{Key: "z", Ctrl: true, InTextInput: true},
		{Key: "p", InTextInput: true},
		{Key: roi.KeyDelete, InTextInput: true},
	} {
		if handled, _ := s.HandleKey(k); handled {
			t.Fatalf("%+v handled inside text input", k)
		}
	}
	if s.History().Index() != 1 || s.Tool() != roi.ToolSelect {
		t.Fatalf("state changed: index=%d tool=%v", s.History().Index(), s.Tool())
	}
}

func TestKeys_ToolShortcutsAndRedo(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	_, _ = s.HandleKey(roi.KeyDown{Key: "f"})
	if s.Tool() != roi.ToolFreehand {
		t.Fatalf("f -> %v", s.Tool())
	}
	_, _ = s.HandleKey(roi.KeyDown{Key: "P"})
	if s.Tool() != roi.ToolPolygon {
		t.Fatalf("P -> %v", s.Tool())
	}
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	_, _ = s.HandleKey(roi.KeyDown{Key: "z", Meta: true})
	_, _ = s.HandleKey(roi.KeyDown{Key: "y", Meta: true})
	if s.History().Index() != 1 {
		t.Fatalf("meta+z then meta+y index=%d", s.History().Index())
	}
}

func TestFreehand_StrokeBecomesRoi(t *testing.T) {
	s, c, ui := newTestSession(t, unitBackground())
	_ = s.Dispatch(roi.SelectTool{Tool: roi.ToolFreehand})
	if !ui.brushOptions {
		t.Fatalf("brush options hidden in freehand")
	}
	s.PointerDown(0, 0)
	s.PointerMove(10, 0, true)
	s.PointerMove(10, 10, true)
	s.PointerMove(0, 10, true)
	s.PointerUp(0, 10)

	var strokes []*roi.Shape
	for _, sh := range c.Shapes() {
		if sh.Kind == roi.KindRoiStroke {
			strokes = append(strokes, sh)
		}
	}
	if len(strokes) != 1 {
		t.Fatalf("strokes = %d", len(strokes))
	}
	if w := strokes[0].Style.StrokeWidth; w != 3 {
		t.Fatalf("stroke width = %v, want brush width 3", w)
	}
	want := []roi.ROI{{{0, 0}, {10, 5}, {5, 10}, {0, 10}}}
	if got := s.Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("export = %v, want %v", got, want)
	}
	if s.History().Len() != 2 {
		t.Fatalf("history len = %d", s.History().Len())
	}
	if s.Tool() != roi.ToolFreehand {
		t.Fatalf("freehand stays active after a stroke")
	}
}

func TestFreehand_BrushWidthFollowsControl(t *testing.T) {
	s, c, _ := newTestSession(t, unitBackground())
	_ = s.SetTool(roi.ToolFreehand)
	_ = s.Dispatch(roi.SetBrush{Width: 12})
	s.PointerDown(0, 0)
	s.PointerMove(20, 20, true)
	s.PointerUp(40, 0)
	for _, sh := range c.Shapes() {
		if sh.Kind == roi.KindRoiStroke && sh.Style.StrokeWidth != 12 {
			t.Fatalf("stroke width = %v", sh.Style.StrokeWidth)
		}
	}
	if s.BrushWidth() != 12 {
		t.Fatalf("brush width = %v", s.BrushWidth())
	}
}

func TestSelect_DragMovesAndRecords(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 40, Y: 0}, roi.Point{X: 40, Y: 40})
	s.PointerDown(30, 10)
	s.PointerMove(35, 15, true)
	s.PointerUp(35, 15)
	want := []roi.ROI{{{5, 5}, {45, 5}, {45, 45}}}
	if got := s.Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("export = %v, want %v", got, want)
	}
	if s.History().Len() != 3 {
		t.Fatalf("drag should record a snapshot, len=%d", s.History().Len())
	}

	s.PointerDown(40, 20)
	s.PointerUp(40, 20)
	if s.History().Len() != 3 {
		t.Fatalf("click without movement recorded a snapshot")
	}
}

func TestClose_ToolSwitchFails(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	s.Close()
	if err := s.SetTool(roi.ToolPolygon); !errors.Is(err, roi.ErrNoScene) {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}
	if got := s.Export(); len(got) != 0 {
		t.Fatalf("export after close = %v", got)
	}
}

func TestClearAll_RecordsOnlyWhenAsked(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	drawPolygon(t, s, roi.Point{X: 0, Y: 0}, roi.Point{X: 10, Y: 0}, roi.Point{X: 10, Y: 10})
	s.ClearAll(true)
	if s.History().Len() != 3 || len(s.Export()) != 0 {
		t.Fatalf("len=%d export=%v", s.History().Len(), s.Export())
	}
	s.ClearAll(true)
	if s.History().Len() != 3 {
		t.Fatalf("empty clear recorded a snapshot")
	}
}

func TestHistory_IndexStaysInRange(t *testing.T) {
	s, _, _ := newTestSession(t, unitBackground())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		saved := false
		switch rng.Intn(4) {
		case 0:
			x := float64(rng.Intn(80))
			drawPolygon(t, s, roi.Point{X: x, Y: 0}, roi.Point{X: x + 10, Y: 0}, roi.Point{X: x + 10, Y: 10})
			saved = true
		case 1:
			_ = s.Perform(roi.ActionUndo)
		case 2:
			_ = s.Perform(roi.ActionRedo)
		case 3:
			before := len(s.Export())
			_ = s.Perform(roi.ActionDelete)
			saved = len(s.Export()) < before
		}
		h := s.History()
		if h.Index() < 0 || h.Index() > h.Len()-1 {
			t.Fatalf("step %d: index %d out of [0,%d]", i, h.Index(), h.Len()-1)
		}
		if saved && h.Len() != h.Index()+1 {
			t.Fatalf("step %d: save left redo entries: index %d len %d", i, h.Index(), h.Len())
		}
	}
}
