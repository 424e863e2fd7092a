package app

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/soocke/roi-annotator/capture"
	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/domain/roi"
	"github.com/soocke/roi-annotator/domain/store"
	"github.com/soocke/roi-annotator/ui/images"
	"github.com/soocke/roi-annotator/ui/model"
	"github.com/soocke/roi-annotator/ui/presenter"
	"github.com/soocke/roi-annotator/ui/theme"
	"github.com/soocke/roi-annotator/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Toolbar *model.ToolbarModel
	Wizard  *model.WizardModel
	Session *model.SessionModel
	Focus   *presenter.FocusWatcher

	Loader   *images.Loader
	Store    *store.Store // nil when the database could not be opened
	Renderer *images.Renderer

	RootView *view.RootView
	UI       view.UI

	// Presenters
	EditorPresenter  *presenter.EditorPresenter
	ToolbarPresenter *presenter.ToolbarPresenter
	RenderPresenter  *presenter.RenderPresenter
	SessionPresenter *presenter.SessionPresenter
	WizardPresenter  *presenter.WizardPresenter
	Workspace        *presenter.Workspace
	Loop             *presenter.Loop

	// Counters mirrored for the debug goroutine.
	rois   atomic.Int64
	images atomic.Int64
}

// BuildContainer constructs models, services and the root view. Presenters
// that need built widgets are created by WirePresenters.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	c.Toolbar = model.NewToolbarModel()
	c.Wizard = model.NewWizardModel()
	c.Session = model.NewSessionModel()
	c.Focus = presenter.NewFocusWatcher()

	loader, err := images.NewLoader(cfg.ImageCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("image loader: %w", err)
	}
	c.Loader = loader
	backdrop, selection := theme.CanvasColors()
	c.Renderer, err = images.NewRenderer(cfg.CanvasWidth, cfg.CanvasHeight, backdrop, selection)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	// Annotating still works without storage; Submit then only exports.
	if st, err := store.Open(cfg.ResolvedStorePath(), logger); err != nil {
		logger.Error("annotation store unavailable", "path", cfg.ResolvedStorePath(), "error", err)
	} else {
		c.Store = st
	}

	c.EditorPresenter = presenter.NewEditorPresenter(c.Focus, logger)
	c.RootView = view.NewRootView(cfg, cfgPath, c.Focus, logger)
	c.UI = c.RootView
	return c, nil
}

// WirePresenters connects presenters to the built view. schedule is called
// after every loop tick.
func (c *AppContainer) WirePresenters(schedule func()) {
	rv := c.RootView
	c.ToolbarPresenter = presenter.NewToolbarPresenter(c.Toolbar, rv.Editor)
	c.RenderPresenter = presenter.NewRenderPresenter(c.Renderer, rv.Editor)
	c.Workspace = presenter.NewWorkspace(c.Config.CanvasWidth, c.Config.CanvasHeight,
		c.Config.SessionOptions, c.Toolbar, c.EditorPresenter, c.RenderPresenter, c.Logger)
	c.Workspace.OnStart(c.sessionStarted)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Wizard, c.Workspace, c.UI)

	var saver presenter.AnnotationSaver
	if c.Store != nil {
		saver = c.Store
	}
	c.WizardPresenter = presenter.NewWizardPresenter(c.Wizard, c.Loader, c.Workspace, saver, c.UI, c.Logger)
	c.Loop = presenter.NewLoop(c.WizardPresenter, c.ToolbarPresenter, c.SessionPresenter, c.RenderPresenter, func() {
		c.mirrorStats()
		if schedule != nil {
			schedule()
		}
	})
}

func (c *AppContainer) sessionStarted(ref string, s *roi.Session) {
	if c.RootView != nil && c.RootView.Editor != nil {
		c.RootView.Editor.SetBrushWidth(s.BrushWidth())
	}
	if !rememberable(ref) || c.Config.LastImage == ref {
		return
	}
	c.Config.LastImage = ref
	if err := c.Config.Save(c.CfgPath); err != nil {
		c.Logger.Warn("config save failed", "error", err)
	}
}

// rememberable reports whether ref is worth offering again next start.
func rememberable(ref string) bool {
	return ref != capture.ScreenRef && !strings.HasPrefix(ref, capture.ScreenRef+":") && !strings.HasPrefix(ref, "data:")
}

func (c *AppContainer) mirrorStats() {
	if rois, _, _, ok := c.Workspace.Stats(); ok {
		c.rois.Store(int64(rois))
	}
	c.images.Store(int64(c.Session.ImagesAnnotated()))
}

// DebugAttrs reports counters for the debug loggers; safe from any goroutine.
func (c *AppContainer) DebugAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int64("rois", c.rois.Load()),
		slog.Int64("images_annotated", c.images.Load()),
	}
}

// Close ends the running session and releases the store.
func (c *AppContainer) Close() {
	if c.Workspace != nil {
		c.Workspace.EndSession()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Error("store close failed", "error", err)
		}
	}
}
