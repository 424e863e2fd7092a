package roi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// ROI is one exported region: integer [x, y] pairs in original-image pixels.
type ROI [][2]int

// Export maps every ROI on the scene to original-image coordinates.
func (s *Session) Export() []ROI {
	if s == nil {
		return []ROI{}
	}
	return ExportScene(s.scene, s.logger)
}

// ExportScene returns the ROIs of scene in original-image pixel space.
// Shapes that cannot be exported are logged and skipped; the result is
// empty, never nil, when the scene or its background is not ready.
func ExportScene(scene Scene, logger *slog.Logger) []ROI {
	rois := []ROI{}
	if scene == nil {
		return rois
	}
	bg := scene.Background()
	if bg == nil {
		return rois
	}
	for _, sh := range scene.Shapes() {
		if !sh.Kind.IsRoi() {
			continue
		}
		r, err := exportShape(sh, bg)
		if err != nil {
			if logger != nil {
				logger.Warn("roi skipped on export", "id", sh.ID, "kind", sh.Kind.String(), "reason", err.Error())
			}
			continue
		}
		rois = append(rois, r)
	}
	return rois
}

func exportShape(sh *Shape, bg *Background) (ROI, error) {
	local, err := localPoints(sh)
	if err != nil {
		return nil, err
	}
	m := sh.Transform.Matrix()
	out := make(ROI, 0, len(local))
	for _, p := range local {
		x, y := bg.ToImage(Apply(m, p))
		if !finite(x) || !finite(y) {
			return nil, fmt.Errorf("non-finite coordinate (%v, %v)", x, y)
		}
		out = append(out, [2]int{int(math.Round(x)), int(math.Round(y))})
	}
	if len(out) < 3 {
		return nil, fmt.Errorf("only %d points", len(out))
	}
	return out, nil
}

// localPoints extracts untransformed vertices. Strokes contribute the
// terminal point of each segment, so curves are approximated by their
// segment endpoints.
func localPoints(sh *Shape) ([]Point, error) {
	switch sh.Kind {
	case KindRoiPolygon:
		return sh.Points, nil
	case KindRoiStroke:
		var pts []Point
		for _, seg := range sh.Path {
			op := strings.ToUpper(seg.Op)
			if op == "L" || op == "C" || op == "Q" || (op == "M" && len(pts) == 0) {
				if p, ok := seg.End(); ok {
					pts = append(pts, p)
				}
			}
		}
		return pts, nil
	default:
		return nil, fmt.Errorf("unsupported shape kind %s", sh.Kind)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// EncodePayload renders rois as the JSON array submitted with the form.
func EncodePayload(rois []ROI) ([]byte, error) {
	if rois == nil {
		rois = []ROI{}
	}
	return json.Marshal(rois)
}

// DecodePayload parses and validates a payload: a list of polygons with at
// least three [x, y] pairs each.
func DecodePayload(data []byte) ([]ROI, error) {
	var rois []ROI
	if err := json.Unmarshal(data, &rois); err != nil {
		return nil, fmt.Errorf("roi payload: %w", err)
	}
	if rois == nil {
		return nil, fmt.Errorf("roi payload: expected a list")
	}
	for i, r := range rois {
		if len(r) < 3 {
			return nil, fmt.Errorf("roi payload: polygon %d has %d vertices, need at least 3", i, len(r))
		}
	}
	return rois, nil
}
