package presenter

import (
	"time"

	"github.com/soocke/roi-annotator/ui/model"
)

// ToolbarSource provides the toolbar state the session pushes.
type ToolbarSource interface {
	State() model.ToolbarState
	TakeDirty() bool
}

// ToolbarView renders toolbar affordances.
type ToolbarView interface {
	SetActiveTool(name string)
	SetUndoEnabled(bool)
	SetRedoEnabled(bool)
	ShowPolygonHelp(bool)
	ShowBrushOptions(bool)
}

// ToolbarPresenter flushes toolbar model changes to the view on Tick.
type ToolbarPresenter struct {
	src  ToolbarSource
	view ToolbarView
}

func NewToolbarPresenter(src ToolbarSource, view ToolbarView) *ToolbarPresenter {
	return &ToolbarPresenter{src: src, view: view}
}

// Tick pushes the state when it changed since the last tick.
func (p *ToolbarPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	if !p.src.TakeDirty() {
		return
	}
	st := p.src.State()
	p.view.SetActiveTool(st.Tool.String())
	p.view.SetUndoEnabled(st.UndoEnabled)
	p.view.SetRedoEnabled(st.RedoEnabled)
	p.view.ShowPolygonHelp(st.PolygonHelp)
	p.view.ShowBrushOptions(st.BrushOptions)
}
