package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/roi-annotator/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the editor settings form. It writes back into
// *config.Config on ApplyChanges; new values apply to the next session.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	SetEditable(enabled bool)
	ApplyChanges()
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	focus    FocusTracker
	applyBtn *ButtonWidget
	errLbl   *LabelWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, focus FocusTracker, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, focus: focus, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	col := 0
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(col), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(22))
		Grid(w, In(parent), Row(row), Column(col+1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		trackFocus(w, "config."+id, v.focus)
		v.widgets[id] = w
		// two columns of fields
		if col == 0 {
			col = 2
		} else {
			col = 0
			row++
		}
	}
	makeRow("closeThreshold", "Close Threshold Px", fmt.Sprintf("%g", c.CloseThreshold))
	makeRow("historyLimit", "History Limit", fmt.Sprintf("%d", c.HistoryLimit))
	makeRow("brushWidth", "Brush Width", fmt.Sprintf("%g", c.BrushWidth))
	makeRow("roiStrokeWidth", "ROI Stroke Width", fmt.Sprintf("%g", c.RoiStrokeWidth))
	makeRow("roiFill", "ROI Fill", c.RoiFill)
	makeRow("roiStroke", "ROI Stroke", c.RoiStroke)
	makeRow("freehandFill", "Freehand Fill", c.FreehandFill)
	makeRow("freehandStroke", "Freehand Stroke", c.FreehandStroke)
	makeRow("storePath", "Store Path (restart)", c.StorePath)
	if col != 0 {
		row++
	}
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	v.errLbl = Label(Txt(""), Anchor("w"), Foreground("#dc2626"))
	Grid(v.errLbl, In(parent), Row(row), Column(2), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		if f, ok := parseFloatField(v.text(v.widgets[id])); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(v.text(v.widgets[id])); ok {
			*dst = i
		}
	}
	assignString := func(id string, dst *string) {
		if w := v.widgets[id]; w != nil {
			if s := strings.TrimSpace(v.text(w)); s != "" {
				*dst = s
			}
		}
	}
	assignFloat("closeThreshold", &cfg.CloseThreshold)
	assignInt("historyLimit", &cfg.HistoryLimit)
	assignFloat("brushWidth", &cfg.BrushWidth)
	assignFloat("roiStrokeWidth", &cfg.RoiStrokeWidth)
	assignString("roiFill", &cfg.RoiFill)
	assignString("roiStroke", &cfg.RoiStroke)
	assignString("freehandFill", &cfg.FreehandFill)
	assignString("freehandStroke", &cfg.FreehandStroke)
	if w := v.widgets["storePath"]; w != nil {
		cfg.StorePath = strings.TrimSpace(v.text(w))
	}
	// Validate fixes values in place; the error lists what was reset.
	verr := cfg.Validate()
	v.setError(verr)
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

func (v *configPanel) setError(err error) {
	if v.errLbl == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	v.errLbl.Configure(Txt(msg))
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
