package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/roi-annotator/domain/roi"
	"github.com/soocke/roi-annotator/domain/store"
	"github.com/soocke/roi-annotator/ui/model"
)

// ImageLoader resolves an image reference (path, data URI or screen).
type ImageLoader interface {
	Load(ref string) (image.Image, error)
}

// SessionController starts and stops editing sessions on the canvas.
type SessionController interface {
	StartSession(ref string, img image.Image) error
	EndSession()
	// Export returns the current ROIs and the background they refer to.
	Export() ([]roi.ROI, *roi.Background, bool)
}

// AnnotationSaver persists exported ROIs.
type AnnotationSaver interface {
	Save(ctx context.Context, bg *roi.Background, rois []roi.ROI) (store.Annotation, error)
	List(ctx context.Context, imageRef string, limit int) ([]store.Annotation, error)
}

// WizardView shows the current wizard page and its messages.
type WizardView interface {
	ShowStep(step model.Step)
	SetError(msg string)
	SetStatus(msg string)
}

// historyListLimit caps the saved annotations counted for an image.
const historyListLimit = 50

// WizardPresenter moves the user through upload, annotate and done.
type WizardPresenter struct {
	wiz      *model.WizardModel
	loader   ImageLoader
	sessions SessionController
	saver    AnnotationSaver
	view     WizardView
	logger   *slog.Logger
	timeout  time.Duration
}

func NewWizardPresenter(wiz *model.WizardModel, loader ImageLoader, sessions SessionController, saver AnnotationSaver, view WizardView, logger *slog.Logger) *WizardPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WizardPresenter{wiz: wiz, loader: loader, sessions: sessions, saver: saver, view: view, logger: logger, timeout: 5 * time.Second}
}

// Open loads ref and starts annotating it. Failures stay on the upload step
// with an error message.
func (p *WizardPresenter) Open(ref string) {
	if p == nil || p.wiz == nil {
		return
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		p.wiz.Fail("Enter an image path or capture the screen.")
		return
	}
	if p.loader == nil || p.sessions == nil {
		p.wiz.Fail("Editor is not available.")
		return
	}
	img, err := p.loader.Load(ref)
	if err != nil {
		p.logger.Error("image load failed", "ref", ref, "error", err)
		p.wiz.Fail(fmt.Sprintf("Could not load image: %v", err))
		return
	}
	if err := p.sessions.StartSession(ref, img); err != nil {
		p.logger.Error("session start failed", "ref", ref, "error", err)
		p.wiz.Fail(fmt.Sprintf("Could not start editor: %v", err))
		return
	}
	p.wiz.Begin(ref)
	p.logger.Info("annotating", "ref", ref, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
}

// Submit exports and stores the ROIs, then shows the done step. The editor
// stays open when saving fails.
func (p *WizardPresenter) Submit(ctx context.Context) {
	if p == nil || p.wiz == nil || p.wiz.Step() != model.StepAnnotate || p.sessions == nil {
		return
	}
	rois, bg, ok := p.sessions.Export()
	if !ok {
		p.wiz.SetStatus("Nothing to save: no image loaded.")
		return
	}
	if p.saver == nil {
		p.wiz.Finish(fmt.Sprintf("Exported %d ROIs.", len(rois)))
		p.sessions.EndSession()
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	a, err := p.saver.Save(ctx, bg, rois)
	if err != nil {
		p.logger.Error("saving annotation failed", "error", err)
		msg := "Saving failed: " + err.Error()
		if errors.Is(err, roi.ErrNoBackground) {
			msg = "Nothing to save: no image loaded."
		}
		p.wiz.SetStatus(msg)
		return
	}
	p.sessions.EndSession()
	msg := fmt.Sprintf("Saved %d ROIs as %s.", len(rois), a.ID)
	if prev, err := p.saver.List(ctx, a.ImageRef, historyListLimit); err != nil {
		p.logger.Warn("listing annotations failed", "ref", a.ImageRef, "error", err)
	} else if len(prev) > 1 {
		msg += fmt.Sprintf(" %d annotations stored for this image.", len(prev))
	}
	p.wiz.Finish(msg)
}

// Restart abandons the current image and returns to upload.
func (p *WizardPresenter) Restart() {
	if p == nil || p.wiz == nil {
		return
	}
	if p.sessions != nil && p.wiz.Step() == model.StepAnnotate {
		p.sessions.EndSession()
	}
	p.wiz.Restart()
}

// Tick pushes wizard changes to the view.
func (p *WizardPresenter) Tick(now time.Time) {
	if p == nil || p.wiz == nil || p.view == nil {
		return
	}
	if !p.wiz.TakeChanged() {
		return
	}
	p.view.ShowStep(p.wiz.Step())
	p.view.SetError(p.wiz.Error())
	p.view.SetStatus(p.wiz.Status())
}
