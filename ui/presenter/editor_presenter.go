package presenter

import (
	"errors"
	"log/slog"

	"github.com/soocke/roi-annotator/domain/roi"
)

// Editor is the slice of the editing session the presenter drives.
type Editor interface {
	Dispatch(cmd roi.Command) error
}

// TextFocus reports whether a text input currently has keyboard focus.
type TextFocus interface{ InTextInput() bool }

// EditorPresenter turns raw view events into editor commands. Without an
// attached editor every event is dropped.
type EditorPresenter struct {
	editor Editor
	focus  TextFocus
	logger *slog.Logger

	pressed bool
}

func NewEditorPresenter(focus TextFocus, logger *slog.Logger) *EditorPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EditorPresenter{focus: focus, logger: logger}
}

// Attach routes subsequent events to e.
func (p *EditorPresenter) Attach(e Editor) {
	if p == nil {
		return
	}
	p.editor = e
	p.pressed = false
}

// Detach drops the current editor.
func (p *EditorPresenter) Detach() {
	if p == nil {
		return
	}
	p.editor = nil
	p.pressed = false
}

func (p *EditorPresenter) PointerDown(x, y int) {
	if p == nil {
		return
	}
	p.pressed = true
	p.dispatch(roi.PointerDown{X: float64(x), Y: float64(y)})
}

// PointerMove reports motion; the pressed state comes from the last down/up.
func (p *EditorPresenter) PointerMove(x, y int) {
	if p == nil {
		return
	}
	p.dispatch(roi.PointerMove{X: float64(x), Y: float64(y), Pressed: p.pressed})
}

func (p *EditorPresenter) PointerUp(x, y int) {
	if p == nil {
		return
	}
	p.pressed = false
	p.dispatch(roi.PointerUp{X: float64(x), Y: float64(y)})
}

func (p *EditorPresenter) DoubleClick() {
	if p == nil {
		return
	}
	p.dispatch(roi.DoubleClick{})
}

// Key forwards a Tk keysym with its modifiers.
func (p *EditorPresenter) Key(keysym string, ctrl, meta bool) {
	if p == nil {
		return
	}
	inText := p.focus != nil && p.focus.InTextInput()
	p.dispatch(roi.KeyDown{Key: NormalizeKey(keysym), Ctrl: ctrl, Meta: meta, InTextInput: inText})
}

// Toolbar handles a toolbar button by target name: a tool or a one-shot action.
func (p *EditorPresenter) Toolbar(target string) {
	if p == nil {
		return
	}
	if tool, err := roi.ParseTool(target); err == nil {
		p.dispatch(roi.SelectTool{Tool: tool})
		return
	}
	if action, err := roi.ParseAction(target); err == nil {
		p.dispatch(roi.RunAction{Action: action})
		return
	}
	p.logger.Warn("unknown toolbar target", "target", target)
}

// BrushWidth forwards the brush-size control value.
func (p *EditorPresenter) BrushWidth(w float64) {
	if p == nil {
		return
	}
	p.dispatch(roi.SetBrush{Width: w})
}

func (p *EditorPresenter) dispatch(cmd roi.Command) {
	if p.editor == nil {
		return
	}
	if err := p.editor.Dispatch(cmd); err != nil {
		if errors.Is(err, roi.ErrNoScene) {
			p.logger.Error("editor command without scene", "command", commandName(cmd))
			return
		}
		p.logger.Error("editor command failed", "command", commandName(cmd), "error", err)
	}
}

func commandName(cmd roi.Command) string {
	switch c := cmd.(type) {
	case roi.SelectTool:
		return "tool:" + c.Tool.String()
	case roi.RunAction:
		return "action:" + c.Action.String()
	case roi.KeyDown:
		return "key:" + c.Key
	case roi.PointerDown:
		return "pointer-down"
	case roi.PointerMove:
		return "pointer-move"
	case roi.PointerUp:
		return "pointer-up"
	case roi.DoubleClick:
		return "double-click"
	case roi.SetBrush:
		return "brush"
	default:
		return "command"
	}
}
