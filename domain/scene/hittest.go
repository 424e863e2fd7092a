package scene

import (
	"math"

	"github.com/soocke/roi-annotator/domain/roi"
)

const lineTolerance = 3

// HitTest returns the topmost evented shape under p.
func (c *Canvas) HitTest(p roi.Point) *roi.Shape {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if s.Evented && contains(s, p) {
			return s
		}
	}
	return nil
}

// WorldPoints returns the outline of s in scene coordinates.
func WorldPoints(s *roi.Shape) []roi.Point {
	m := s.Transform.Matrix()
	var local []roi.Point
	if len(s.Path) > 0 {
		for _, seg := range s.Path {
			if p, ok := seg.End(); ok {
				local = append(local, p)
			}
		}
	} else {
		local = s.Points
	}
	out := make([]roi.Point, len(local))
	for i, p := range local {
		out[i] = roi.Apply(m, p)
	}
	return out
}

func contains(s *roi.Shape, p roi.Point) bool {
	pts := WorldPoints(s)
	switch s.Kind {
	case roi.KindHelperMarker:
		return len(pts) == 1 && pts[0].Dist(p) <= s.Radius
	case roi.KindRoiPolygon, roi.KindBackground:
		return insidePolygon(pts, p) || nearPolyline(pts, p, lineTolerance, true)
	default:
		tol := math.Max(s.Style.StrokeWidth/2, lineTolerance)
		return nearPolyline(pts, p, tol, false)
	}
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(pts []roi.Point, p roi.Point) bool {
	if len(pts) < 3 {
		return false
	}
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func nearPolyline(pts []roi.Point, p roi.Point, tol float64, closed bool) bool {
	n := len(pts)
	if n == 1 {
		return pts[0].Dist(p) <= tol
	}
	for i := 0; i+1 < n; i++ {
		if segmentDist(pts[i], pts[i+1], p) <= tol {
			return true
		}
	}
	return closed && n > 2 && segmentDist(pts[n-1], pts[0], p) <= tol
}

func segmentDist(a, b, p roi.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return a.Dist(p)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(roi.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
