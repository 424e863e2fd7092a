package roi

// polygonPointerDown closes the polygon when p lands near the first vertex
// of a draft with more than two points, and appends a vertex otherwise.
func (s *Session) polygonPointerDown(p Point) {
	pts := s.draft.Points
	if len(pts) > 2 && p.Dist(pts[0]) < s.opts.CloseThreshold {
		s.logger.Debug("polygon closed near first vertex", "points", len(pts))
		s.finishPolygon()
		return
	}
	s.addPolygonPoint(p)
}

func (s *Session) addPolygonPoint(p Point) {
	s.draft.Points = append(s.draft.Points, p)
	s.scene.Add(&Shape{
		Kind:   KindHelperMarker,
		Points: []Point{p},
		Radius: s.opts.MarkerRadius,
		Style:  s.opts.MarkerStyle,
	})
	if n := len(s.draft.Points); n > 1 {
		prev := s.draft.Points[n-2]
		s.scene.Add(&Shape{
			Kind:   KindHelperLine,
			Points: []Point{prev, p},
			Style:  s.opts.LineStyle,
		})
	}
	if s.draft.RubberBand != nil {
		s.scene.Remove(s.draft.RubberBand.ID)
	}
	s.draft.RubberBand = &Shape{
		Kind:   KindHelperLine,
		Points: []Point{p, p},
		Style:  s.opts.RubberBandStyle,
	}
	s.scene.Add(s.draft.RubberBand)
	s.scene.RequestRender()
}

func (s *Session) polygonPointerMove(p Point) {
	if len(s.draft.Points) == 0 || s.draft.RubberBand == nil {
		return
	}
	s.draft.RubberBand.Points[1] = p
	s.scene.RequestRender()
}

// DoubleClick finishes a draft of at least three points.
func (s *Session) DoubleClick() {
	if s.scene == nil || s.tool != ToolPolygon || len(s.draft.Points) < 3 {
		return
	}
	s.finishPolygon()
}

// Cancel abandons the draft; the polygon tool stays active.
func (s *Session) Cancel() bool {
	if s.scene == nil || s.tool != ToolPolygon || len(s.draft.Points) == 0 {
		return false
	}
	s.logger.Debug("polygon draft cancelled", "points", len(s.draft.Points))
	s.cleanupPolygon()
	return true
}

func (s *Session) finishPolygon() {
	if len(s.draft.Points) < 3 {
		s.logger.Warn("polygon needs at least 3 points", "points", len(s.draft.Points))
		s.cleanupPolygon()
		return
	}
	pts := make([]Point, len(s.draft.Points))
	copy(pts, s.draft.Points)
	s.scene.Add(&Shape{
		Kind:       KindRoiPolygon,
		Points:     pts,
		Transform:  Transform{ScaleX: 1, ScaleY: 1},
		Style:      s.opts.RoiStyle,
		Selectable: true,
		Evented:    true,
	})
	s.cleanupPolygon()
	_ = s.Save()
	s.logger.Debug("polygon finished", "points", len(pts))
	_ = s.SetTool(ToolSelect)
}

// cleanupPolygon removes every helper shape and the rubber band and resets the draft.
func (s *Session) cleanupPolygon() {
	if s.scene != nil {
		for _, sh := range s.scene.Shapes() {
			if sh.Kind.IsHelper() {
				s.scene.Remove(sh.ID)
			}
		}
		if s.draft.RubberBand != nil {
			s.scene.Remove(s.draft.RubberBand.ID)
		}
		s.scene.RequestRender()
	}
	s.draft = PolygonDraft{}
	s.ui.ShowPolygonHelp(false)
}
