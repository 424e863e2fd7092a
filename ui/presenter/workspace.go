package presenter

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/roi-annotator/domain/roi"
	"github.com/soocke/roi-annotator/domain/scene"
)

// Workspace owns the canvas and editing session for the image being
// annotated. Starting a new session closes the previous one.
type Workspace struct {
	width, height int
	options       func() roi.Options
	ui            roi.Affordances
	editor        *EditorPresenter
	render        *RenderPresenter
	logger        *slog.Logger
	onStart       func(ref string, s *roi.Session)

	canvas  *scene.Canvas
	session *roi.Session
}

// NewWorkspace creates a workspace for a w x h canvas. options is read at
// every session start so settings changes apply to the next image.
func NewWorkspace(w, h int, options func() roi.Options, ui roi.Affordances, editor *EditorPresenter, render *RenderPresenter, logger *slog.Logger) *Workspace {
	if options == nil {
		options = roi.DefaultOptions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{width: w, height: h, options: options, ui: ui, editor: editor, render: render, logger: logger}
}

// OnStart registers a hook run after a session started successfully.
func (w *Workspace) OnStart(fn func(ref string, s *roi.Session)) { w.onStart = fn }

// StartSession fits img onto a fresh canvas and starts editing it.
func (w *Workspace) StartSession(ref string, img image.Image) error {
	if img == nil {
		return errors.New("no image")
	}
	w.EndSession()
	bg, fallback := roi.FitImage(ref, img, w.width, w.height)
	if fallback {
		w.logger.Warn("image placement fell back to scale 1", "ref", ref)
	}
	canvas := scene.New(w.width, w.height, w.logger)
	if w.render != nil {
		canvas.OnRender(w.render.Invalidate)
	}
	sess, err := roi.NewSession(canvas, w.options(), w.ui, w.logger)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	if err := sess.Init(bg); err != nil {
		sess.Close()
		return fmt.Errorf("init session: %w", err)
	}
	w.canvas, w.session = canvas, sess
	w.editor.Attach(sess)
	w.render.SetScene(canvas)
	w.logger.Debug("session started", "ref", ref, "scale", bg.ScaleX)
	if w.onStart != nil {
		w.onStart(ref, sess)
	}
	return nil
}

// EndSession closes the running session, if any.
func (w *Workspace) EndSession() {
	if w.session == nil {
		return
	}
	w.editor.Detach()
	w.session.Close()
	w.session, w.canvas = nil, nil
	w.render.SetScene(nil)
}

// Export returns the ROIs in image pixels with the background they refer to.
func (w *Workspace) Export() ([]roi.ROI, *roi.Background, bool) {
	if w.session == nil || w.canvas == nil || w.canvas.Background() == nil {
		return nil, nil, false
	}
	return w.session.Export(), w.canvas.Background(), true
}

// Stats reports ROI count and history position of the running session.
func (w *Workspace) Stats() (rois, historyIndex, historyLen int, ok bool) {
	if w.session == nil || w.canvas == nil {
		return 0, 0, 0, false
	}
	for _, s := range w.canvas.Shapes() {
		if s.Kind.IsRoi() {
			rois++
		}
	}
	h := w.session.History()
	return rois, h.Index(), h.Len(), true
}

// Session returns the running session or nil.
func (w *Workspace) Session() *roi.Session { return w.session }
