package roi

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"red":   "#ff0000",
	"white": "#ffffff",
	"black": "#000000",
}

// ParseColor understands "#rgb", "#rrggbb", "rgba(r, g, b, a)", "rgb(r, g, b)"
// and a few names. Alpha in rgba() is a 0..1 fraction.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case strings.HasPrefix(s, "rgba("):
		var r, g, b int
		var a float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse %q: %w", s, err)
		}
		return color.NRGBA{R: clamp8(float64(r)), G: clamp8(float64(g)), B: clamp8(float64(b)), A: clamp8(a * 255)}, nil
	case strings.HasPrefix(s, "rgb("):
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("parse %q: %w", s, err)
		}
		return color.NRGBA{R: clamp8(float64(r)), G: clamp8(float64(g)), B: clamp8(float64(b)), A: 255}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unsupported colour %q", s)
}

// WithAlpha renders a hex colour as an rgba() string with the given opacity.
func WithAlpha(hex string, alpha float64) (string, error) {
	c, err := ParseColor(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha), nil
}

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
