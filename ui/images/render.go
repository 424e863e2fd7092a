package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/soocke/roi-annotator/domain/roi"
	"github.com/soocke/roi-annotator/domain/scene"
)

const (
	curveSteps   = 8
	circleSides  = 16
	handleRadius = 3
)

// Renderer rasterises a scene into an image the view can show.
type Renderer struct {
	width, height int
	backdrop      color.NRGBA
	selection     color.NRGBA

	z       *vector.Rasterizer
	source  image.Image
	resized *lru.Cache[string, image.Image]
	colors  map[string]color.NRGBA
}

// NewRenderer returns a renderer for a width x height view. backdrop fills
// the area outside the image; selection outlines the active shape.
func NewRenderer(width, height int, backdrop, selection color.NRGBA) (*Renderer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("render size %dx%d", width, height)
	}
	cache, err := lru.New[string, image.Image](4)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		width:     width,
		height:    height,
		backdrop:  backdrop,
		selection: selection,
		z:         vector.NewRasterizer(width, height),
		resized:   cache,
		colors:    map[string]color.NRGBA{},
	}, nil
}

// SetColors replaces the backdrop and selection colors.
func (r *Renderer) SetColors(backdrop, selection color.NRGBA) {
	r.backdrop, r.selection = backdrop, selection
}

// Size returns the output size.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render draws bg and shapes bottom to top, then the selection outline.
func (r *Renderer) Render(bg *roi.Background, shapes []*roi.Shape, active *roi.Shape) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.backdrop), image.Point{}, draw.Src)
	if img := r.background(bg); img != nil {
		at := image.Pt(int(math.Round(bg.Left)), int(math.Round(bg.Top)))
		draw.Draw(dst, img.Bounds().Add(at), img, img.Bounds().Min, draw.Over)
	}
	for _, s := range shapes {
		r.shape(dst, s)
	}
	if active != nil {
		r.outline(dst, active)
	}
	return dst
}

func (r *Renderer) background(bg *roi.Background) image.Image {
	if bg == nil || bg.Image == nil {
		return nil
	}
	w, h := int(math.Round(bg.DisplayWidth)), int(math.Round(bg.DisplayHeight))
	if w < 1 || h < 1 {
		return bg.Image
	}
	b := bg.Image.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return bg.Image
	}
	// Cached copies belong to one source image; refs like "screen" repeat.
	if r.source != bg.Image {
		r.resized.Purge()
		r.source = bg.Image
	}
	key := fmt.Sprintf("%dx%d", w, h)
	if img, ok := r.resized.Get(key); ok {
		return img
	}
	img := imaging.Resize(bg.Image, w, h, imaging.Lanczos)
	r.resized.Add(key, img)
	return img
}

func (r *Renderer) color(s string) (color.NRGBA, bool) {
	if s == "" {
		return color.NRGBA{}, false
	}
	if c, ok := r.colors[s]; ok {
		return c, c.A > 0
	}
	c, err := roi.ParseColor(s)
	if err != nil {
		c = color.NRGBA{}
	}
	r.colors[s] = c
	return c, c.A > 0
}

func (r *Renderer) shape(dst draw.Image, s *roi.Shape) {
	m := s.Transform.Matrix()
	switch s.Kind {
	case roi.KindHelperMarker:
		if len(s.Points) == 0 {
			return
		}
		if c, ok := r.color(s.Style.Fill); ok {
			r.fill(dst, circle(roi.Apply(m, s.Points[0]), s.Radius), c)
		}
	case roi.KindHelperLine:
		if c, ok := r.color(s.Style.Stroke); ok {
			r.stroke(dst, transform(m, s.Points), strokeWidth(s), false, c)
		}
	case roi.KindRoiPolygon, roi.KindBackground:
		pts := transform(m, s.Points)
		if c, ok := r.color(s.Style.Fill); ok {
			r.fill(dst, pts, c)
		}
		if c, ok := r.color(s.Style.Stroke); ok {
			r.stroke(dst, pts, strokeWidth(s), true, c)
		}
	default:
		pts := transform(m, flatten(s.Path))
		if len(s.Path) == 0 {
			pts = transform(m, s.Points)
		}
		if c, ok := r.color(s.Style.Fill); ok && len(pts) > 2 {
			r.fill(dst, pts, c)
		}
		if c, ok := r.color(s.Style.Stroke); ok {
			r.stroke(dst, pts, strokeWidth(s), false, c)
		}
	}
}

// outline draws the bounding box of s with corner handles.
func (r *Renderer) outline(dst draw.Image, s *roi.Shape) {
	pts := scene.WorldPoints(s)
	if len(pts) == 0 {
		return
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	box := []roi.Point{{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY}}
	r.stroke(dst, box, 2, true, r.selection)
	for _, p := range box {
		r.fill(dst, circle(p, handleRadius), r.selection)
	}
}

func (r *Renderer) fill(dst draw.Image, pts []roi.Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	r.z.Reset(r.width, r.height)
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
	r.z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// stroke covers each segment with a quad and each vertex with a disc. All
// sub-paths share one winding so overlaps saturate instead of cancelling.
func (r *Renderer) stroke(dst draw.Image, pts []roi.Point, width float64, closed bool, c color.NRGBA) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	half := width / 2
	r.z.Reset(r.width, r.height)
	segment := func(a, b roi.Point) {
		d := a.Dist(b)
		if d == 0 {
			return
		}
		nx, ny := -(b.Y-a.Y)/d*half, (b.X-a.X)/d*half
		r.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		r.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
		r.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
		r.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
		r.z.ClosePath()
	}
	for i := 0; i+1 < len(pts); i++ {
		segment(pts[i], pts[i+1])
	}
	if closed && len(pts) > 2 {
		segment(pts[len(pts)-1], pts[0])
	}
	if half > 1 {
		for _, p := range pts {
			disc := circle(p, half)
			r.z.MoveTo(float32(disc[0].X), float32(disc[0].Y))
			for _, q := range disc[1:] {
				r.z.LineTo(float32(q.X), float32(q.Y))
			}
			r.z.ClosePath()
		}
	}
	r.z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func strokeWidth(s *roi.Shape) float64 {
	if s.Style.StrokeWidth > 0 {
		return s.Style.StrokeWidth
	}
	return 1
}

func transform(m f64.Aff3, pts []roi.Point) []roi.Point {
	out := make([]roi.Point, len(pts))
	for i, p := range pts {
		out[i] = roi.Apply(m, p)
	}
	return out
}

// circle approximates a disc; vertices run in the same rotational sense as
// the stroke quads.
func circle(c roi.Point, radius float64) []roi.Point {
	pts := make([]roi.Point, circleSides)
	for i := range pts {
		a := -2 * math.Pi * float64(i) / circleSides
		pts[i] = roi.Point{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
	}
	return pts
}

// flatten turns a drawing path into a polyline, subdividing curves.
func flatten(path []roi.Segment) []roi.Point {
	var pts []roi.Point
	var cur roi.Point
	for _, seg := range path {
		a := seg.Args
		switch seg.Op {
		case "M", "L":
			if len(a) < 2 {
				continue
			}
			cur = roi.Point{X: a[0], Y: a[1]}
			pts = append(pts, cur)
		case "Q":
			if len(a) < 4 {
				continue
			}
			ctrl, end := roi.Point{X: a[0], Y: a[1]}, roi.Point{X: a[2], Y: a[3]}
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				pts = append(pts, roi.Point{
					X: u*u*cur.X + 2*u*t*ctrl.X + t*t*end.X,
					Y: u*u*cur.Y + 2*u*t*ctrl.Y + t*t*end.Y,
				})
			}
			cur = end
		case "C":
			if len(a) < 6 {
				continue
			}
			c1, c2, end := roi.Point{X: a[0], Y: a[1]}, roi.Point{X: a[2], Y: a[3]}, roi.Point{X: a[4], Y: a[5]}
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				pts = append(pts, roi.Point{
					X: u*u*u*cur.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*end.X,
					Y: u*u*u*cur.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*end.Y,
				})
			}
			cur = end
		}
	}
	return pts
}
