package scene

import "github.com/soocke/roi-annotator/domain/roi"

// PencilBrush records pointer positions during a stroke and turns them into
// a smoothed path: a move, quadratic segments through the midpoints of
// consecutive samples, and a final line to the last sample.
type PencilBrush struct {
	canvas *Canvas
	color  string
	width  float64
	points []roi.Point
	active bool
}

// NewPencilBrush returns a brush that adds its strokes to c.
func NewPencilBrush(c *Canvas) *PencilBrush {
	return &PencilBrush{canvas: c, color: "black", width: 1}
}

func (b *PencilBrush) SetColor(c string)  { b.color = c }
func (b *PencilBrush) Color() string      { return b.color }
func (b *PencilBrush) SetWidth(w float64) { b.width = w }
func (b *PencilBrush) Width() float64     { return b.width }

// Points returns the samples of the stroke in progress.
func (b *PencilBrush) Points() []roi.Point { return b.points }

func (b *PencilBrush) Begin(p roi.Point) {
	if b.canvas != nil && !b.canvas.drawingMode {
		return
	}
	b.points = append(b.points[:0], p)
	b.active = true
}

func (b *PencilBrush) Extend(p roi.Point) {
	if !b.active {
		return
	}
	if last := b.points[len(b.points)-1]; last == p {
		return
	}
	b.points = append(b.points, p)
}

func (b *PencilBrush) End() *roi.Shape {
	if !b.active {
		return nil
	}
	b.active = false
	pts := b.points
	b.points = nil
	if len(pts) < 2 {
		return nil
	}
	path := &roi.Shape{
		Kind:       roi.KindUnknown,
		Path:       smoothPath(pts),
		Transform:  roi.Transform{ScaleX: 1, ScaleY: 1},
		Style:      roi.Style{Stroke: b.color, StrokeWidth: b.width},
		Selectable: true,
		Evented:    true,
	}
	if b.canvas != nil {
		b.canvas.Add(path)
	}
	return path
}

func smoothPath(pts []roi.Point) []roi.Segment {
	segs := make([]roi.Segment, 0, len(pts)+1)
	segs = append(segs, roi.Segment{Op: "M", Args: []float64{pts[0].X, pts[0].Y}})
	for i := 1; i < len(pts)-1; i++ {
		p, next := pts[i], pts[i+1]
		mid := roi.Point{X: (p.X + next.X) / 2, Y: (p.Y + next.Y) / 2}
		segs = append(segs, roi.Segment{Op: "Q", Args: []float64{p.X, p.Y, mid.X, mid.Y}})
	}
	last := pts[len(pts)-1]
	segs = append(segs, roi.Segment{Op: "L", Args: []float64{last.X, last.Y}})
	return segs
}
