package presenter

// FocusWatcher tracks which text inputs hold keyboard focus so editor
// shortcuts can be suppressed while the user types. Inputs report focus
// changes by name. The zero value is ready to use.
type FocusWatcher struct {
	focused map[string]bool
}

func NewFocusWatcher() *FocusWatcher { return &FocusWatcher{} }

// FocusIn records that input gained focus.
func (w *FocusWatcher) FocusIn(input string) {
	if w == nil {
		return
	}
	if w.focused == nil {
		w.focused = map[string]bool{}
	}
	w.focused[input] = true
}

// FocusOut records that input lost focus.
func (w *FocusWatcher) FocusOut(input string) {
	if w == nil {
		return
	}
	delete(w.focused, input)
}

// InTextInput reports whether any tracked input has focus.
func (w *FocusWatcher) InTextInput() bool {
	return w != nil && len(w.focused) > 0
}

// Reset forgets all focus state, e.g. after the inputs were destroyed.
func (w *FocusWatcher) Reset() {
	if w != nil {
		w.focused = nil
	}
}
