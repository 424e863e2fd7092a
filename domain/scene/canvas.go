package scene

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soocke/roi-annotator/domain/roi"
)

// Canvas is a retained 2D scene: a background image plus z-ordered shapes,
// an active selection and the interaction flags the editor toggles.
// It is not safe for concurrent use.
type Canvas struct {
	width, height int
	logger        *slog.Logger

	bg     *roi.Background
	shapes []*roi.Shape
	active string

	drawingMode   bool
	multiSelect   bool
	defaultCursor string
	hoverCursor   string

	renders  uint64
	onRender func()
}

// New returns an empty canvas of the given view size.
func New(width, height int, logger *slog.Logger) *Canvas {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Canvas{
		width:         width,
		height:        height,
		logger:        logger,
		defaultCursor: "default",
		hoverCursor:   "default",
	}
}

// Size returns the view size the canvas was built with.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// OnRender registers fn to run on every RequestRender.
func (c *Canvas) OnRender(fn func()) { c.onRender = fn }

// RenderRequests counts RequestRender calls.
func (c *Canvas) RenderRequests() uint64 { return c.renders }

func (c *Canvas) RequestRender() {
	c.renders++
	if c.onRender != nil {
		c.onRender()
	}
}

// Add appends s on top of the z-order, assigning an ID when missing.
func (c *Canvas) Add(s *roi.Shape) {
	if s == nil {
		return
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	c.shapes = append(c.shapes, s)
}

func (c *Canvas) Remove(id string) bool {
	for i, s := range c.shapes {
		if s.ID == id {
			c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
			if c.active == id {
				c.active = ""
			}
			return true
		}
	}
	return false
}

func (c *Canvas) Shapes() []*roi.Shape {
	out := make([]*roi.Shape, len(c.shapes))
	copy(out, c.shapes)
	return out
}

func (c *Canvas) find(id string) *roi.Shape {
	for _, s := range c.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (c *Canvas) Active() *roi.Shape {
	if c.active == "" {
		return nil
	}
	return c.find(c.active)
}

func (c *Canvas) SetActive(id string) bool {
	if c.find(id) == nil {
		return false
	}
	c.active = id
	return true
}

func (c *Canvas) DiscardActive() { c.active = "" }

func (c *Canvas) Background() *roi.Background { return c.bg }

func (c *Canvas) SetBackground(bg *roi.Background) { c.bg = bg }

// Pointer maps view coordinates to scene coordinates. The view shows the
// scene unscaled at its origin, so the mapping is the identity.
func (c *Canvas) Pointer(x, y float64) roi.Point { return roi.Point{X: x, Y: y} }

func (c *Canvas) SetDrawingMode(on bool) { c.drawingMode = on }
func (c *Canvas) DrawingMode() bool      { return c.drawingMode }
func (c *Canvas) SetMultiSelect(on bool) { c.multiSelect = on }
func (c *Canvas) MultiSelect() bool      { return c.multiSelect }

func (c *Canvas) SetCursors(def, hover string) {
	c.defaultCursor, c.hoverCursor = def, hover
}

// Cursors returns the default and hover cursor names.
func (c *Canvas) Cursors() (string, string) { return c.defaultCursor, c.hoverCursor }

func (c *Canvas) NewBrush() roi.Brush { return NewPencilBrush(c) }

// document is the dataless snapshot layout: pixels are never serialised,
// the background is kept by reference.
type document struct {
	Version    int             `json:"version"`
	Background *roi.Background `json:"background,omitempty"`
	Objects    []*roi.Shape    `json:"objects"`
}

const documentVersion = 1

func (c *Canvas) Snapshot() (roi.Snapshot, error) {
	doc := document{Version: documentVersion, Background: c.bg, Objects: c.shapes}
	if doc.Objects == nil {
		doc.Objects = []*roi.Shape{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("scene snapshot: %w", err)
	}
	return b, nil
}

// Restore replaces every shape and the background placement. The decoded
// image is carried over when the snapshot refers to the same image.
func (c *Canvas) Restore(snap roi.Snapshot) error {
	var doc document
	if err := json.Unmarshal(snap, &doc); err != nil {
		return fmt.Errorf("scene restore: %w", err)
	}
	if doc.Version != documentVersion {
		return fmt.Errorf("scene restore: unsupported version %d", doc.Version)
	}
	if doc.Background != nil && c.bg != nil && doc.Background.Ref == c.bg.Ref {
		doc.Background.Image = c.bg.Image
	}
	c.bg = doc.Background
	c.shapes = doc.Objects
	c.active = ""
	return nil
}

var _ roi.Scene = (*Canvas)(nil)
