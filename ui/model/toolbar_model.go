package model

import "github.com/soocke/roi-annotator/domain/roi"

// ToolbarState is what the toolbar view renders.
type ToolbarState struct {
	Tool         roi.Tool
	UndoEnabled  bool
	RedoEnabled  bool
	PolygonHelp  bool
	BrushOptions bool
}

// ToolbarModel receives affordance updates from the editor session and
// records whether the view needs a refresh. The zero value is usable.
// Not synchronised: the session and the view both run on the UI thread.
type ToolbarModel struct {
	state ToolbarState
	dirty bool
}

var _ roi.Affordances = (*ToolbarModel)(nil)

func NewToolbarModel() *ToolbarModel { return &ToolbarModel{dirty: true} }

func (m *ToolbarModel) SetUndoEnabled(b bool) {
	if m == nil || m.state.UndoEnabled == b {
		return
	}
	m.state.UndoEnabled = b
	m.dirty = true
}

func (m *ToolbarModel) SetRedoEnabled(b bool) {
	if m == nil || m.state.RedoEnabled == b {
		return
	}
	m.state.RedoEnabled = b
	m.dirty = true
}

func (m *ToolbarModel) SetActiveTool(t roi.Tool) {
	if m == nil || m.state.Tool == t {
		return
	}
	m.state.Tool = t
	m.dirty = true
}

func (m *ToolbarModel) ShowPolygonHelp(b bool) {
	if m == nil || m.state.PolygonHelp == b {
		return
	}
	m.state.PolygonHelp = b
	m.dirty = true
}

func (m *ToolbarModel) ShowBrushOptions(b bool) {
	if m == nil || m.state.BrushOptions == b {
		return
	}
	m.state.BrushOptions = b
	m.dirty = true
}

// State returns the current toolbar state.
func (m *ToolbarModel) State() ToolbarState {
	if m == nil {
		return ToolbarState{}
	}
	return m.state
}

// TakeDirty reports whether anything changed since the last call and clears the flag.
func (m *ToolbarModel) TakeDirty() bool {
	if m == nil {
		return false
	}
	d := m.dirty
	m.dirty = false
	return d
}
