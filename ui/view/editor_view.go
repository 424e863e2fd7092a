package view

import (
	"fmt"
	"image"

	"github.com/soocke/roi-annotator/assets"
	"github.com/soocke/roi-annotator/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// EditorInput receives raw canvas, keyboard and toolbar events.
type EditorInput interface {
	PointerDown(x, y int)
	PointerMove(x, y int)
	PointerUp(x, y int)
	DoubleClick()
	Key(keysym string, ctrl, meta bool)
	Toolbar(target string)
	BrushWidth(w float64)
}

// BrushRange bounds the brush-size control.
type BrushRange struct{ Min, Max, Step float64 }

// EditorView is the toolbar plus the rendered canvas. It satisfies the
// toolbar and canvas view contracts of the presenters.
type EditorView interface {
	SetActiveTool(name string)
	SetUndoEnabled(bool)
	SetRedoEnabled(bool)
	ShowPolygonHelp(bool)
	ShowBrushOptions(bool)
	SetBrushWidth(w float64)
	SetFrame(img image.Image)
}

type editorView struct {
	input EditorInput
	brush BrushRange
	width float64

	bar        *FrameWidget
	brushCol   int
	tools      map[string]*ButtonWidget
	undoBtn    *ButtonWidget
	redoBtn    *ButtonWidget
	brushFrame *FrameWidget
	brushLbl   *LabelWidget
	helpLbl    *LabelWidget
	canvas     *LabelWidget
	photo      *Img // last Tk photo image instance for the canvas
}

// NewEditorView builds the toolbar at row and the canvas at row+1 inside
// parent. The canvas starts as a blank w x h placeholder.
func NewEditorView(parent *FrameWidget, row, w, h int, brush BrushRange, input EditorInput) EditorView {
	v := &editorView{input: input, brush: brush, width: brush.Min, tools: map[string]*ButtonWidget{}}

	bar := Frame()
	v.bar = bar
	Grid(bar, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	place := func(b *ButtonWidget) {
		Grid(b, In(bar), Row(0), Column(col), Sticky("w"), Padx("0.2m"))
		col++
	}
	for _, name := range []string{"select", "polygon", "freehand"} {
		target := name
		b := Button(Txt(label(name)), Relief("raised"), Command(func() { v.toolbar(target) }))
		v.tools[name] = b
		place(b)
	}
	v.undoBtn = Button(Txt("Undo"), State("disabled"), Command(func() { v.toolbar("undo") }))
	place(v.undoBtn)
	v.redoBtn = Button(Txt("Redo"), State("disabled"), Command(func() { v.toolbar("redo") }))
	place(v.redoBtn)
	place(Button(Txt("Delete"), Command(func() { v.toolbar("delete") })))

	v.brushFrame = Frame()
	Grid(Label(Txt("Brush")), In(v.brushFrame), Row(0), Column(0), Padx("0.2m"))
	Grid(Button(Txt("-"), Width(2), Command(func() { v.stepBrush(-1) })), In(v.brushFrame), Row(0), Column(1))
	v.brushLbl = Label(Width(4))
	Grid(v.brushLbl, In(v.brushFrame), Row(0), Column(2))
	Grid(Button(Txt("+"), Width(2), Command(func() { v.stepBrush(1) })), In(v.brushFrame), Row(0), Column(3))
	v.brushCol = col
	col++

	v.helpLbl = Label(Txt(""), Anchor("w"))
	Grid(v.helpLbl, In(bar), Row(0), Column(col), Sticky("we"), Padx("0.6m"))
	GridColumnConfigure(bar.Window, col, Weight(1))

	v.photo = NewPhoto(Data(images.EncodePNG(image.NewNRGBA(image.Rect(0, 0, w, h)))))
	v.canvas = Label(Image(v.photo), Borderwidth(0), Padx(0), Pady(0), Anchor("nw"))
	Grid(v.canvas, In(parent), Row(row+1), Column(0), Sticky("nw"), Padx("0.3m"), Pady("0.3m"))
	v.bind()
	v.SetBrushWidth(brush.Min)
	return v
}

func label(tool string) string {
	switch tool {
	case "select":
		return "Select [S]"
	case "polygon":
		return "Polygon [P]"
	case "freehand":
		return "Freehand [F]"
	}
	return tool
}

func (v *editorView) bind() {
	in := v.input
	if in == nil {
		return
	}
	Bind(v.canvas, "<ButtonPress-1>", Command(func(e *Event) { in.PointerDown(e.X, e.Y) }))
	Bind(v.canvas, "<B1-Motion>", Command(func(e *Event) { in.PointerMove(e.X, e.Y) }))
	Bind(v.canvas, "<Motion>", Command(func(e *Event) { in.PointerMove(e.X, e.Y) }))
	Bind(v.canvas, "<ButtonRelease-1>", Command(func(e *Event) { in.PointerUp(e.X, e.Y) }))
	Bind(v.canvas, "<Double-ButtonPress-1>", Command(func() { in.DoubleClick() }))

	// Shortcuts live on the toplevel so they work wherever focus is; the
	// presenter drops them while a text input is focused.
	for _, k := range []string{"s", "p", "f", "S", "P", "F"} {
		key := k
		Bind(App, "<KeyPress-"+key+">", Command(func() { in.Key(key, false, false) }))
	}
	for _, k := range []string{"Delete", "BackSpace", "Escape"} {
		key := k
		Bind(App, "<"+key+">", Command(func() { in.Key(key, false, false) }))
	}
	for _, k := range []string{"z", "y", "Z", "Y"} {
		key := k
		Bind(App, "<Control-"+key+">", Command(func() { in.Key(key, true, false) }))
		Bind(App, "<Command-"+key+">", Command(func() { in.Key(key, false, true) }))
	}
}

func (v *editorView) toolbar(target string) {
	if v.input != nil {
		v.input.Toolbar(target)
	}
}

func (v *editorView) stepBrush(dir float64) {
	step := v.brush.Step
	if step <= 0 {
		step = 1
	}
	v.SetBrushWidth(v.width + dir*step)
	if v.input != nil {
		v.input.BrushWidth(v.width)
	}
}

// SetBrushWidth shows w clamped to the brush range.
func (v *editorView) SetBrushWidth(w float64) {
	if v == nil {
		return
	}
	if v.brush.Max > v.brush.Min {
		w = min(max(w, v.brush.Min), v.brush.Max)
	}
	v.width = w
	if v.brushLbl != nil {
		v.brushLbl.Configure(Txt(fmt.Sprintf("%g", w)))
	}
}

func (v *editorView) SetActiveTool(name string) {
	for n, b := range v.tools {
		relief := "raised"
		if n == name {
			relief = "sunken"
		}
		b.Configure(Relief(relief))
	}
}

func (v *editorView) SetUndoEnabled(b bool) { setEnabled(v.undoBtn, b) }
func (v *editorView) SetRedoEnabled(b bool) { setEnabled(v.redoBtn, b) }

func (v *editorView) ShowPolygonHelp(b bool) {
	txt := ""
	if b {
		txt = assets.MustHelp("polygon")
	}
	v.helpLbl.Configure(Txt(txt))
}

// ShowBrushOptions grids the brush control into the toolbar or removes it.
func (v *editorView) ShowBrushOptions(b bool) {
	if v.brushFrame == nil {
		return
	}
	if !b {
		GridForget(v.brushFrame.Window)
		return
	}
	Grid(v.brushFrame, In(v.bar), Row(0), Column(v.brushCol), Sticky("w"), Padx("0.4m"))
	if v.helpLbl != nil {
		v.helpLbl.Configure(Txt(assets.MustHelp("freehand")))
	}
}

// SetFrame replaces the canvas image, deleting the previous Tk photo.
func (v *editorView) SetFrame(img image.Image) {
	if v.canvas == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(pngBytes))
	v.canvas.Configure(Image(v.photo))
}

func setEnabled(b *ButtonWidget, enabled bool) {
	if b == nil {
		return
	}
	state := "disabled"
	if enabled {
		state = "normal"
	}
	b.Configure(State(state))
}
