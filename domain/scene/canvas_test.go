package scene

import (
	"image"
	"log/slog"
	"testing"

	"github.com/soocke/roi-annotator/domain/roi"
)

var discardLogger = slog.New(slog.DiscardHandler)

func TestCanvas_AddAssignsIDs(t *testing.T) {
	c := New(100, 100, discardLogger)
	a := &roi.Shape{Kind: roi.KindRoiPolygon}
	b := &roi.Shape{ID: "fixed", Kind: roi.KindHelperLine}
	c.Add(a)
	c.Add(b)
	if a.ID == "" || b.ID != "fixed" {
		t.Fatalf("ids: %q %q", a.ID, b.ID)
	}
	if !c.Remove("fixed") || c.Remove("fixed") {
		t.Fatalf("remove should succeed once")
	}
	if len(c.Shapes()) != 1 {
		t.Fatalf("shapes = %d", len(c.Shapes()))
	}
}

func TestCanvas_RemoveClearsActive(t *testing.T) {
	c := New(100, 100, discardLogger)
	s := &roi.Shape{Kind: roi.KindRoiPolygon}
	c.Add(s)
	if !c.SetActive(s.ID) || c.Active() != s {
		t.Fatalf("active not set")
	}
	c.Remove(s.ID)
	if c.Active() != nil {
		t.Fatalf("active survived removal")
	}
	if c.SetActive("missing") {
		t.Fatalf("unknown id activated")
	}
}

func TestCanvas_SnapshotRoundTripKeepsKinds(t *testing.T) {
	c := New(100, 100, discardLogger)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	c.SetBackground(&roi.Background{Ref: "a.png", Image: img, NativeWidth: 4, NativeHeight: 4, ScaleX: 1, ScaleY: 1})
	kinds := []roi.ShapeKind{roi.KindRoiPolygon, roi.KindRoiStroke, roi.KindHelperMarker, roi.KindHelperLine, roi.KindUnknown}
	for _, k := range kinds {
		c.Add(&roi.Shape{Kind: k, Points: []roi.Point{{X: 1, Y: 2}}})
	}
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	c.Add(&roi.Shape{Kind: roi.KindRoiPolygon})
	if err := c.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got := c.Shapes()
	if len(got) != len(kinds) {
		t.Fatalf("restored %d shapes, want %d", len(got), len(kinds))
	}
	for i, k := range kinds {
		if got[i].Kind != k {
			t.Errorf("shape %d kind = %v, want %v", i, got[i].Kind, k)
		}
	}
	if c.Background().Image != img {
		t.Fatalf("decoded image not carried over for the same ref")
	}
}

func TestCanvas_RestoreRejectsGarbage(t *testing.T) {
	c := New(10, 10, discardLogger)
	if err := c.Restore(roi.Snapshot("not json")); err == nil {
		t.Fatalf("expected error")
	}
	if err := c.Restore(roi.Snapshot(`{"version":99,"objects":[]}`)); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestCanvas_RenderRequests(t *testing.T) {
	c := New(10, 10, discardLogger)
	calls := 0
	c.OnRender(func() { calls++ })
	c.RequestRender()
	c.RequestRender()
	if calls != 2 || c.RenderRequests() != 2 {
		t.Fatalf("calls=%d requests=%d", calls, c.RenderRequests())
	}
}

func TestHitTest_TopmostEvented(t *testing.T) {
	c := New(100, 100, discardLogger)
	square := []roi.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}
	below := &roi.Shape{Kind: roi.KindRoiPolygon, Points: square, Evented: true}
	above := &roi.Shape{Kind: roi.KindRoiPolygon, Points: square, Evented: true}
	ghost := &roi.Shape{Kind: roi.KindRoiPolygon, Points: square}
	c.Add(below)
	c.Add(above)
	c.Add(ghost)
	if hit := c.HitTest(roi.Point{X: 10, Y: 10}); hit != above {
		t.Fatalf("hit = %+v, want topmost evented", hit)
	}
	if hit := c.HitTest(roi.Point{X: 50, Y: 50}); hit != nil {
		t.Fatalf("miss returned %+v", hit)
	}
}

func TestHitTest_TransformedAndStroke(t *testing.T) {
	c := New(100, 100, discardLogger)
	moved := &roi.Shape{
		Kind:      roi.KindRoiPolygon,
		Points:    []roi.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Transform: roi.Transform{Left: 50, Top: 50},
		Evented:   true,
	}
	stroke := &roi.Shape{
		Kind:    roi.KindRoiStroke,
		Path:    []roi.Segment{{Op: "M", Args: []float64{0, 80}}, {Op: "L", Args: []float64{40, 80}}},
		Style:   roi.Style{StrokeWidth: 2},
		Evented: true,
	}
	c.Add(moved)
	c.Add(stroke)
	if c.HitTest(roi.Point{X: 5, Y: 5}) != nil {
		t.Fatalf("hit at untransformed position")
	}
	if c.HitTest(roi.Point{X: 55, Y: 55}) != moved {
		t.Fatalf("transformed polygon missed")
	}
	if c.HitTest(roi.Point{X: 20, Y: 82}) != stroke {
		t.Fatalf("stroke within tolerance missed")
	}
	if c.HitTest(roi.Point{X: 20, Y: 90}) != nil {
		t.Fatalf("stroke hit outside tolerance")
	}
}

func TestPencilBrush_SmoothPath(t *testing.T) {
	c := New(100, 100, discardLogger)
	c.SetDrawingMode(true)
	b := NewPencilBrush(c)
	b.SetWidth(5)
	b.Begin(roi.Point{X: 0, Y: 0})
	b.Extend(roi.Point{X: 10, Y: 0})
	b.Extend(roi.Point{X: 10, Y: 0})
	b.Extend(roi.Point{X: 10, Y: 10})
	path := b.End()
	if path == nil {
		t.Fatalf("no path")
	}
	ops := ""
	for _, seg := range path.Path {
		ops += seg.Op
	}
	if ops != "MQL" {
		t.Fatalf("ops = %q, want MQL", ops)
	}
	if end, _ := path.Path[1].End(); end != (roi.Point{X: 10, Y: 5}) {
		t.Fatalf("quadratic end = %v", end)
	}
	if path.Style.StrokeWidth != 5 || path.Kind != roi.KindUnknown {
		t.Fatalf("style=%+v kind=%v", path.Style, path.Kind)
	}
	if len(c.Shapes()) != 1 {
		t.Fatalf("stroke not added to canvas")
	}
}

func TestPencilBrush_IgnoredOutsideDrawingMode(t *testing.T) {
	c := New(100, 100, discardLogger)
	b := NewPencilBrush(c)
	b.Begin(roi.Point{X: 0, Y: 0})
	b.Extend(roi.Point{X: 5, Y: 5})
	if b.End() != nil || len(c.Shapes()) != 0 {
		t.Fatalf("brush drew without drawing mode")
	}
	c.SetDrawingMode(true)
	b.Begin(roi.Point{X: 0, Y: 0})
	if b.End() != nil {
		t.Fatalf("single-sample stroke must be dropped")
	}
}
