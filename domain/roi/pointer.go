package roi

// PointerDown handles a primary-button press at view position (x, y).
func (s *Session) PointerDown(x, y float64) {
	if s.scene == nil {
		return
	}
	p := s.scene.Pointer(x, y)
	switch s.tool {
	case ToolPolygon:
		s.polygonPointerDown(p)
	case ToolFreehand:
		if s.brush != nil {
			s.brush.Begin(p)
		}
	case ToolSelect:
		s.selectAt(p)
	}
}

// PointerMove handles pointer motion. pressed reports whether the primary
// button is held.
func (s *Session) PointerMove(x, y float64, pressed bool) {
	if s.scene == nil {
		return
	}
	p := s.scene.Pointer(x, y)
	switch s.tool {
	case ToolPolygon:
		s.polygonPointerMove(p)
	case ToolFreehand:
		if pressed && s.brush != nil {
			s.brush.Extend(p)
			s.scene.RequestRender()
		}
	case ToolSelect:
		if pressed {
			s.dragTo(p)
		}
	}
}

// PointerUp ends a freehand stroke or a drag.
func (s *Session) PointerUp(x, y float64) {
	if s.scene == nil {
		return
	}
	switch s.tool {
	case ToolFreehand:
		if s.brush == nil {
			return
		}
		s.brush.Extend(s.scene.Pointer(x, y))
		if path := s.brush.End(); path != nil {
			s.StrokeCompleted(path)
		}
	case ToolSelect:
		d := s.drag
		s.drag = nil
		if d != nil && d.moved {
			_ = s.Save()
		}
	}
}

// StrokeCompleted claims a stroke emitted by the brush as a freehand ROI.
func (s *Session) StrokeCompleted(path *Shape) {
	if s.scene == nil || path == nil || s.tool != ToolFreehand {
		return
	}
	width := s.brushWidth
	if s.brush != nil {
		width = s.brush.Width()
	}
	path.Kind = KindRoiStroke
	path.Style = Style{
		Fill:        s.opts.FreehandStyle.Fill,
		Stroke:      s.opts.FreehandStyle.Stroke,
		StrokeWidth: width,
	}
	path.Selectable = true
	path.Evented = true
	s.scene.RequestRender()
	_ = s.Save()
	s.logger.Debug("freehand stroke captured", "segments", len(path.Path), "width", width)
}

func (s *Session) selectAt(p Point) {
	hit := s.scene.HitTest(p)
	if hit == nil || !hit.Selectable {
		s.scene.DiscardActive()
		s.drag = nil
		s.scene.RequestRender()
		return
	}
	s.scene.SetActive(hit.ID)
	s.drag = &dragState{id: hit.ID, last: p}
	s.scene.RequestRender()
}

func (s *Session) dragTo(p Point) {
	if s.drag == nil {
		return
	}
	active := s.scene.Active()
	if active == nil || active.ID != s.drag.id {
		s.drag = nil
		return
	}
	dx, dy := p.X-s.drag.last.X, p.Y-s.drag.last.Y
	if dx == 0 && dy == 0 {
		return
	}
	active.Transform.Left += dx
	active.Transform.Top += dy
	s.drag.last = p
	s.drag.moved = true
	s.scene.RequestRender()
}
