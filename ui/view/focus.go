package view

//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
import . "modernc.org/tk9.0"

// FocusTracker is told when a named text input gains or loses focus.
type FocusTracker interface {
	FocusIn(input string)
	FocusOut(input string)
}

func trackFocus(w *TextWidget, name string, f FocusTracker) {
	if w == nil || f == nil {
		return
	}
	Bind(w, "<FocusIn>", Command(func() { f.FocusIn(name) }))
	Bind(w, "<FocusOut>", Command(func() { f.FocusOut(name) }))
}
