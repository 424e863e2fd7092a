package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/roi-annotator/assets"
	"github.com/soocke/roi-annotator/config"
	"github.com/soocke/roi-annotator/ui/images"
	"github.com/soocke/roi-annotator/ui/model"
	"github.com/soocke/roi-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the wizard-level user actions.
type Handlers struct {
	Open        func(ref string)
	Submit      func()
	Restart     func()
	Exit        func()
	ToggleTheme func()
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the wizard pages and exposes the editor subview for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	focus   FocusTracker

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Editor      EditorView
	Region      RegionOverlay

	// Widgets
	StepLabel   *TLabelWidget
	ErrorLabel  *LabelWidget
	StatusLabel *TLabelWidget
	PathInput   *TextWidget
	DoneLabel   *LabelWidget

	pages map[model.Step]*FrameWidget
	shown *FrameWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	ShowStep(step model.Step)
	SetError(msg string)
	SetStatus(msg string)
	SetSession(image, total time.Duration)
	SetCounts(rois, historyIndex, historyLen int)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, focus FocusTracker, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, focus: focus, logger: logger, pages: map[model.Step]*FrameWidget{}}
}

const pageRow = 2

// Build constructs the layout. Editor events go to input; wizard actions
// to h.
func (rv *RootView) Build(h Handlers, input EditorInput) {
	if rv == nil {
		return
	}
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, pageRow, Weight(1))

	// Row 0: step label, session stats, buttons
	header := Frame()
	Grid(header, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.StepLabel = TLabel(Txt(stepTitle(model.StepUpload)), Style(theme.StyleStateLabel))
	Grid(rv.StepLabel, In(header), Row(0), Column(0), Sticky("w"), Padx("0.4m"))
	rv.Session = NewSessionStats(header, 0, 1)
	GridColumnConfigure(header.Window, 4, Weight(1))
	Grid(Button(Txt("Theme"), Command(call(h.ToggleTheme))), In(header), Row(0), Column(5), Sticky("e"), Padx("0.2m"))
	Grid(Button(Txt("Exit"), Command(call(h.Exit))), In(header), Row(0), Column(6), Sticky("e"), Padx("0.2m"))

	// Row 1: error and status lines
	msgs := Frame()
	Grid(msgs, Row(1), Column(0), Sticky("we"), Padx("0.4m"))
	rv.ErrorLabel = Label(Txt(""), Anchor("w"), Foreground(theme.ColorDanger))
	Grid(rv.ErrorLabel, In(msgs), Row(0), Column(0), Sticky("we"))
	rv.StatusLabel = TLabel(Txt(""), Anchor("w"), Style(theme.StyleAccentLabel))
	Grid(rv.StatusLabel, In(msgs), Row(1), Column(0), Sticky("we"))

	rv.buildUpload(h)
	rv.buildAnnotate(h, input)
	rv.buildDone(h)

	// Row 3: settings
	settings := Frame(Borderwidth(1), Relief("groove"))
	Grid(settings, Row(pageRow+1), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.focus, rv.logger)
	rv.ConfigPanel.Build(settings, 0)

	rv.Region = NewRegionOverlay(rv.logger)
	rv.ShowStep(model.StepUpload)
}

func (rv *RootView) buildUpload(h Handlers) {
	page := Frame()
	rv.pages[model.StepUpload] = page
	Grid(Label(Txt("Image file, data: URI or \"screen\""), Anchor("w")), In(page), Row(0), Column(0), Columnspan(4), Sticky("w"), Pady("0.3m"))
	rv.PathInput = Text(Height(1), Width(60))
	Grid(rv.PathInput, In(page), Row(1), Column(0), Sticky("we"), Padx("0.3m"))
	if rv.cfg != nil && rv.cfg.LastImage != "" {
		rv.PathInput.Insert("1.0", rv.cfg.LastImage)
	}
	trackFocus(rv.PathInput, "path", rv.focus)
	open := func() { call1(h.Open, rv.path()) }
	Bind(rv.PathInput, "<Return>", Command(open))
	Grid(TButton(Txt("Open"), Style(theme.StylePrimaryButton), Command(open)), In(page), Row(1), Column(1), Padx("0.3m"))
	Grid(Button(Txt("Capture Screen"), Command(func() { call1(h.Open, "screen") })), In(page), Row(1), Column(2), Padx("0.3m"))
	Grid(Button(Txt("Capture Region..."), Command(func() {
		rv.Region.OpenOrFocus(func(r image.Rectangle) {
			// let the overlay disappear before the grab
			TclAfter(200*time.Millisecond, func() { call1(h.Open, images.RegionRef(r)) })
		})
	})), In(page), Row(1), Column(3), Padx("0.3m"))
	GridColumnConfigure(page.Window, 0, Weight(1))
	Grid(Label(Txt(assets.MustHelp("shortcuts")), Anchor("w"), Justify("left")), In(page), Row(2), Column(0), Columnspan(4), Sticky("w"), Pady("0.6m"))
}

func (rv *RootView) buildAnnotate(h Handlers, input EditorInput) {
	page := Frame()
	rv.pages[model.StepAnnotate] = page
	w, ht := 960, 640
	brush := BrushRange{Min: 1, Max: 50, Step: 1}
	if rv.cfg != nil {
		w, ht = rv.cfg.CanvasWidth, rv.cfg.CanvasHeight
		brush = BrushRange{Min: rv.cfg.BrushMin, Max: rv.cfg.BrushMax, Step: 1}
	}
	rv.Editor = NewEditorView(page, 0, w, ht, brush, input)
	actions := Frame()
	Grid(actions, In(page), Row(2), Column(0), Sticky("we"), Pady("0.3m"))
	Grid(TButton(Txt("Save ROIs"), Style(theme.StylePrimaryButton), Command(call(h.Submit))), In(actions), Row(0), Column(0), Padx("0.3m"))
	Grid(TButton(Txt("Discard"), Style(theme.StyleDangerButton), Command(call(h.Restart))), In(actions), Row(0), Column(1), Padx("0.3m"))
}

func (rv *RootView) buildDone(h Handlers) {
	page := Frame()
	rv.pages[model.StepDone] = page
	rv.DoneLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.DoneLabel, In(page), Row(0), Column(0), Sticky("we"), Pady("0.6m"))
	Grid(TButton(Txt("Annotate Another Image"), Style(theme.StylePrimaryButton), Command(call(h.Restart))), In(page), Row(1), Column(0), Sticky("w"))
}

// ShowStep swaps the visible page and locks settings outside the upload step.
func (rv *RootView) ShowStep(step model.Step) {
	if rv == nil {
		return
	}
	page := rv.pages[step]
	if page == nil {
		return
	}
	if rv.shown != nil && rv.shown != page {
		GridForget(rv.shown.Window)
	}
	Grid(page, Row(pageRow), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.3m"))
	rv.shown = page
	if rv.StepLabel != nil {
		rv.StepLabel.Configure(Txt(stepTitle(step)))
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(step == model.StepUpload)
	}
}

func (rv *RootView) SetError(msg string) {
	if rv != nil && rv.ErrorLabel != nil {
		rv.ErrorLabel.Configure(Txt(msg))
	}
}

// SetStatus updates the status line and the done page summary.
func (rv *RootView) SetStatus(msg string) {
	if rv == nil {
		return
	}
	if rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(msg))
	}
	if rv.DoneLabel != nil {
		rv.DoneLabel.Configure(Txt(msg))
	}
}

func (rv *RootView) SetSession(image, total time.Duration) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetSession(image, total)
	}
}

func (rv *RootView) SetCounts(rois, historyIndex, historyLen int) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetCounts(rois, historyIndex, historyLen)
	}
}

func (rv *RootView) path() string {
	if rv.PathInput == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(rv.PathInput.Get("1.0", END), ""))
}

func stepTitle(step model.Step) string {
	switch step {
	case model.StepAnnotate:
		return "2. Annotate"
	case model.StepDone:
		return "3. Done"
	default:
		return "1. Choose Image"
	}
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}

func call1(fn func(string), s string) {
	if fn != nil {
		fn(s)
	}
}
