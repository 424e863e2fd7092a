package presenter

import (
	"image"
	"time"

	"github.com/soocke/roi-annotator/domain/roi"
)

// SceneSource exposes what the renderer needs from the scene.
type SceneSource interface {
	Background() *roi.Background
	Shapes() []*roi.Shape
	Active() *roi.Shape
}

// Renderer rasterises a scene.
type Renderer interface {
	Render(bg *roi.Background, shapes []*roi.Shape, active *roi.Shape) *image.NRGBA
}

// CanvasView shows rendered frames.
type CanvasView interface {
	SetFrame(img image.Image)
}

// RenderPresenter coalesces render requests and redraws at most once per tick.
type RenderPresenter struct {
	scene    SceneSource
	renderer Renderer
	view     CanvasView
	dirty    bool
	frames   uint64
}

func NewRenderPresenter(renderer Renderer, view CanvasView) *RenderPresenter {
	return &RenderPresenter{renderer: renderer, view: view}
}

// SetScene swaps the scene being shown and schedules a redraw. nil clears it.
func (p *RenderPresenter) SetScene(s SceneSource) {
	if p == nil {
		return
	}
	p.scene = s
	p.dirty = true
}

// Invalidate marks the frame stale. Scenes call it from their render hook.
func (p *RenderPresenter) Invalidate() {
	if p != nil {
		p.dirty = true
	}
}

// Frames counts frames pushed to the view.
func (p *RenderPresenter) Frames() uint64 {
	if p == nil {
		return 0
	}
	return p.frames
}

// Tick redraws when something changed.
func (p *RenderPresenter) Tick(now time.Time) {
	if p == nil || !p.dirty || p.renderer == nil || p.view == nil {
		return
	}
	p.dirty = false
	if p.scene == nil {
		p.view.SetFrame(p.renderer.Render(nil, nil, nil))
	} else {
		p.view.SetFrame(p.renderer.Render(p.scene.Background(), p.scene.Shapes(), p.scene.Active()))
	}
	p.frames++
}
