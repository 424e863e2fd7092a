package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/debug"
	"github.com/soocke/roi-annotator/ui/theme"
	"github.com/soocke/roi-annotator/ui/view"
)

const (
	tick = 40 * time.Millisecond
)

// Application owns the Tk main window and the update loop.
type Application struct {
	title   string
	width   int
	height  int
	logger  *slog.Logger
	c       *AppContainer
	afterID string
	cancel  context.CancelFunc
}

func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*Application, error) {
	c, err := BuildContainer(cfg, cfgPath, logger)
	if err != nil {
		return nil, err
	}
	a := &Application{
		title:  title,
		width:  cfg.CanvasWidth + 40,
		height: cfg.CanvasHeight + 260,
		logger: logger,
		c:      c,
	}
	return a, nil
}

// Start builds the UI, optionally opens initialRef and blocks in the Tk
// event loop until the window closes.
func (a *Application) Start(initialRef string) {
	theme.InitStyles()
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))

	c := a.c
	c.RootView.Build(view.Handlers{
		Open:        func(ref string) { c.WizardPresenter.Open(ref) },
		Submit:      func() { c.WizardPresenter.Submit(context.Background()) },
		Restart:     func() { c.WizardPresenter.Restart() },
		Exit:        a.exitHandler,
		ToggleTheme: a.toggleTheme,
	}, c.EditorPresenter)
	c.WirePresenters(a.scheduleUpdate)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if c.Config.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, a.logger, c.DebugAttrs)
		debug.StartMemLogger(ctx, 5*time.Second, a.logger)
	}
	if initialRef != "" {
		c.WizardPresenter.Open(initialRef)
	}

	a.scheduleUpdate()
	App.Wait()
	cancel()
	c.Close()
}

func (a *Application) update() {
	defer a.recoverLog("update loop")
	a.c.Loop.Tick()
}

// recoverLog keeps a panicking handler from taking down the event loop.
// The next tick is scheduled again if the loop did not get to it.
func (a *Application) recoverLog(where string) {
	if r := recover(); r != nil {
		a.logger.Error("recovered panic", "where", where, "panic", r)
		a.scheduleUpdate()
	}
}

func (a *Application) toggleTheme() {
	dark := theme.ToggleDark()
	backdrop, selection := theme.CanvasColors()
	a.c.Renderer.SetColors(backdrop, selection)
	a.c.RenderPresenter.Invalidate()
	a.logger.Debug("theme toggled", "dark", dark)
}

func (a *Application) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	if a.cancel != nil {
		a.cancel()
	}
	Destroy(App)
}

func (a *Application) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.update() })
}
