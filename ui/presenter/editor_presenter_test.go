package presenter

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/soocke/roi-annotator/domain/roi"
)

var discardLogger = slog.New(slog.DiscardHandler)

type recordingEditor struct {
	cmds []roi.Command
	err  error
}

func (e *recordingEditor) Dispatch(cmd roi.Command) error {
	e.cmds = append(e.cmds, cmd)
	return e.err
}

func (e *recordingEditor) last() roi.Command {
	if len(e.cmds) == 0 {
		return nil
	}
	return e.cmds[len(e.cmds)-1]
}

func TestEditorPresenter_DropsEventsWithoutEditor(t *testing.T) {
	p := NewEditorPresenter(nil, discardLogger)
	p.PointerDown(1, 2)
	p.Key("z", true, false)

	ed := &recordingEditor{}
	p.Attach(ed)
	p.Detach()
	p.PointerUp(1, 2)
	if len(ed.cmds) != 0 {
		t.Fatalf("expected no commands after detach, got %d", len(ed.cmds))
	}

	var nilP *EditorPresenter
	nilP.PointerDown(0, 0)
	nilP.Toolbar("polygon")
}

func TestEditorPresenter_PointerPressedState(t *testing.T) {
	ed := &recordingEditor{}
	p := NewEditorPresenter(nil, discardLogger)
	p.Attach(ed)

	p.PointerMove(1, 1)
	if mv := ed.last().(roi.PointerMove); mv.Pressed {
		t.Fatalf("move before press should not be pressed")
	}
	p.PointerDown(2, 3)
	if d := ed.last().(roi.PointerDown); d.X != 2 || d.Y != 3 {
		t.Fatalf("unexpected down %+v", d)
	}
	p.PointerMove(4, 5)
	if mv := ed.last().(roi.PointerMove); !mv.Pressed || mv.X != 4 || mv.Y != 5 {
		t.Fatalf("unexpected move %+v", mv)
	}
	p.PointerUp(6, 7)
	p.PointerMove(8, 9)
	if mv := ed.last().(roi.PointerMove); mv.Pressed {
		t.Fatalf("move after release should not be pressed")
	}
	p.DoubleClick()
	if _, ok := ed.last().(roi.DoubleClick); !ok {
		t.Fatalf("expected DoubleClick, got %T", ed.last())
	}
}

func TestEditorPresenter_KeysUseFocus(t *testing.T) {
	ed := &recordingEditor{}
	focus := NewFocusWatcher()
	p := NewEditorPresenter(focus, discardLogger)
	p.Attach(ed)

	p.Key("BackSpace", false, false)
	if k := ed.last().(roi.KeyDown); k.Key != roi.KeyBackspace || k.InTextInput {
		t.Fatalf("unexpected key %+v", k)
	}
	focus.FocusIn("path")
	p.Key("Z", true, false)
	if k := ed.last().(roi.KeyDown); k.Key != "z" || !k.Ctrl || !k.InTextInput {
		t.Fatalf("unexpected key %+v", k)
	}
	focus.FocusOut("path")
	p.Key("y", false, true)
	if k := ed.last().(roi.KeyDown); !k.Meta || k.InTextInput {
		t.Fatalf("unexpected key %+v", k)
	}
}

func TestEditorPresenter_ToolbarTargets(t *testing.T) {
	ed := &recordingEditor{}
	p := NewEditorPresenter(nil, discardLogger)
	p.Attach(ed)

	p.Toolbar("freehand")
	if c, ok := ed.last().(roi.SelectTool); !ok || c.Tool != roi.ToolFreehand {
		t.Fatalf("expected freehand tool, got %#v", ed.last())
	}
	p.Toolbar("undo")
	if c, ok := ed.last().(roi.RunAction); !ok || c.Action != roi.ActionUndo {
		t.Fatalf("expected undo action, got %#v", ed.last())
	}
	n := len(ed.cmds)
	p.Toolbar("lasso")
	if len(ed.cmds) != n {
		t.Fatalf("unknown target should not dispatch")
	}
	p.BrushWidth(7)
	if c := ed.last().(roi.SetBrush); c.Width != 7 {
		t.Fatalf("unexpected brush %+v", c)
	}
}

func TestEditorPresenter_ErrorsAreLoggedNotPropagated(t *testing.T) {
	ed := &recordingEditor{err: errors.New("boom")}
	p := NewEditorPresenter(nil, discardLogger)
	p.Attach(ed)
	p.Toolbar("polygon")
	ed.err = roi.ErrNoScene
	p.Toolbar("select")
	if len(ed.cmds) != 2 {
		t.Fatalf("expected both commands dispatched, got %d", len(ed.cmds))
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"BackSpace": roi.KeyBackspace,
		"Delete":    roi.KeyDelete,
		"KP_Delete": roi.KeyDelete,
		"Escape":    roi.KeyEscape,
		"P":         "p",
		"s":         "s",
		"Shift_L":   "Shift_L",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q)=%q want %q", in, got, want)
		}
	}
}

func TestFocusWatcher(t *testing.T) {
	var w FocusWatcher
	if w.InTextInput() {
		t.Fatalf("zero value should not be focused")
	}
	w.FocusIn("a")
	w.FocusIn("b")
	w.FocusOut("a")
	if !w.InTextInput() {
		t.Fatalf("b still focused")
	}
	w.Reset()
	if w.InTextInput() {
		t.Fatalf("reset should clear focus")
	}
	var nilW *FocusWatcher
	nilW.FocusIn("x")
	if nilW.InTextInput() {
		t.Fatalf("nil watcher reports focus")
	}
}
