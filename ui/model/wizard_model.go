package model

// Step is a page of the annotation wizard.
type Step int

const (
	StepUpload Step = iota
	StepAnnotate
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepAnnotate:
		return "annotate"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// WizardModel tracks the current wizard step, the image being annotated and
// the last error or status message shown to the user. The zero value starts
// at the upload step.
type WizardModel struct {
	step     Step
	imageRef string
	errMsg   string
	status   string
	changed  bool
}

func NewWizardModel() *WizardModel { return &WizardModel{changed: true} }

func (m *WizardModel) Step() Step {
	if m == nil {
		return StepUpload
	}
	return m.step
}

func (m *WizardModel) ImageRef() string {
	if m == nil {
		return ""
	}
	return m.imageRef
}

// Begin moves to the annotate step for ref and clears any error.
func (m *WizardModel) Begin(ref string) {
	if m == nil {
		return
	}
	m.step = StepAnnotate
	m.imageRef = ref
	m.errMsg = ""
	m.status = ""
	m.changed = true
}

// Fail returns to the upload step with msg as the visible error.
func (m *WizardModel) Fail(msg string) {
	if m == nil {
		return
	}
	m.step = StepUpload
	m.errMsg = msg
	m.changed = true
}

// Finish moves to the done step with a status line.
func (m *WizardModel) Finish(status string) {
	if m == nil {
		return
	}
	m.step = StepDone
	m.status = status
	m.errMsg = ""
	m.changed = true
}

// Restart returns to the upload step keeping the last image reference.
func (m *WizardModel) Restart() {
	if m == nil {
		return
	}
	m.step = StepUpload
	m.status = ""
	m.errMsg = ""
	m.changed = true
}

// SetStatus replaces the status line without changing step.
func (m *WizardModel) SetStatus(s string) {
	if m == nil || m.status == s {
		return
	}
	m.status = s
	m.changed = true
}

func (m *WizardModel) Error() string {
	if m == nil {
		return ""
	}
	return m.errMsg
}

func (m *WizardModel) Status() string {
	if m == nil {
		return ""
	}
	return m.status
}

// TakeChanged reports whether anything changed since the last call.
func (m *WizardModel) TakeChanged() bool {
	if m == nil {
		return false
	}
	c := m.changed
	m.changed = false
	return c
}
