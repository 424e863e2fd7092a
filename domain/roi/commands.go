package roi

import "strings"

// Command is a UI event routed to Session.Dispatch.
type Command interface{ command() }

// PointerDown is a primary-button press at view position (X, Y).
type PointerDown struct{ X, Y float64 }

// PointerMove is pointer motion; Pressed reports a held primary button.
type PointerMove struct {
	X, Y    float64
	Pressed bool
}

type PointerUp struct{ X, Y float64 }

type DoubleClick struct{}

type SelectTool struct{ Tool Tool }

type RunAction struct{ Action Action }

// SetBrush carries the brush-size control value.
type SetBrush struct{ Width float64 }

// StrokeDone is the brush's stroke-completed notification.
type StrokeDone struct{ Path *Shape }

// KeyDown carries a normalised key name ("Delete", "Backspace", "Escape",
// or a single character) and its modifiers.
type KeyDown struct {
	Key         string
	Ctrl, Meta  bool
	InTextInput bool
}

func (PointerDown) command() {}
func (PointerMove) command() {}
func (PointerUp) command()   {}
func (DoubleClick) command() {}
func (SelectTool) command()  {}
func (RunAction) command()   {}
func (SetBrush) command()    {}
func (StrokeDone) command()  {}
func (KeyDown) command()     {}

const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// Dispatch routes cmd to the matching handler. Only tool switches and
// actions can fail.
func (s *Session) Dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case PointerDown:
		s.PointerDown(c.X, c.Y)
	case PointerMove:
		s.PointerMove(c.X, c.Y, c.Pressed)
	case PointerUp:
		s.PointerUp(c.X, c.Y)
	case DoubleClick:
		s.DoubleClick()
	case SelectTool:
		return s.SetTool(c.Tool)
	case RunAction:
		return s.Perform(c.Action)
	case SetBrush:
		s.SetBrushWidth(c.Width)
	case StrokeDone:
		s.StrokeCompleted(c.Path)
	case KeyDown:
		_, err := s.HandleKey(c)
		return err
	}
	return nil
}

// HandleKey applies the keyboard shortcuts. handled reports whether the
// key was consumed. Everything is suppressed while a text input has focus.
func (s *Session) HandleKey(k KeyDown) (handled bool, err error) {
	if k.InTextInput || s.scene == nil {
		return false, nil
	}
	switch {
	case k.Key == KeyDelete || k.Key == KeyBackspace:
		if a := s.scene.Active(); a != nil && a.Kind.IsRoi() {
			s.DeleteSelected()
			return true, nil
		}
		return false, nil
	case k.Ctrl || k.Meta:
		switch strings.ToLower(k.Key) {
		case "z":
			return true, s.Undo()
		case "y":
			return true, s.Redo()
		}
		return false, nil
	case k.Key == KeyEscape:
		return s.Cancel(), nil
	}
	switch strings.ToLower(k.Key) {
	case "s":
		return true, s.SetTool(ToolSelect)
	case "p":
		return true, s.SetTool(ToolPolygon)
	case "f":
		return true, s.SetTool(ToolFreehand)
	}
	return false, nil
}
