package capture

import (
	"errors"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenRef is the image reference that selects a live screen grab instead
// of a file.
const ScreenRef = "screen"

// Grab returns a capture of the primary screen.
func Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// GrabRect captures area, clipped to the screen bounds.
func GrabRect(area image.Rectangle) (*image.RGBA, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	area = area.Intersect(screen)
	if area.Empty() {
		return nil, errors.New("capture area outside screen")
	}
	return screenshot.CaptureRect(area)
}
