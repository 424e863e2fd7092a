package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/evilsocket/islazy/fs"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/soocke/roi-annotator/capture"
)

// ErrEmptyRef is returned when no image reference was supplied.
var ErrEmptyRef = errors.New("images: empty image reference")

// Loader resolves image references to decoded images. A reference is a file
// path (with ~ and $VAR expansion), a data: URI, "screen" for a full screen
// grab, or "screen:x,y,w,h" for a region. Decoded files and data URIs are
// kept in an LRU cache; screen grabs are always fresh.
type Loader struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, image.Image]
	logger *slog.Logger

	grab     func() (*image.RGBA, error)
	grabRect func(image.Rectangle) (*image.RGBA, error)
}

// NewLoader returns a loader caching up to size images.
func NewLoader(size int, logger *slog.Logger) (*Loader, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}
	return &Loader{
		cache:    cache,
		logger:   logger,
		grab:     capture.Grab,
		grabRect: capture.GrabRect,
	}, nil
}

// Load resolves ref.
func (l *Loader) Load(ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrEmptyRef
	case ref == capture.ScreenRef:
		return screenImage(l.grab())
	case strings.HasPrefix(ref, capture.ScreenRef+":"):
		rect, err := parseRect(strings.TrimPrefix(ref, capture.ScreenRef+":"))
		if err != nil {
			return nil, err
		}
		return screenImage(l.grabRect(rect))
	case strings.HasPrefix(ref, "data:"):
		return l.cached(ref, func() (image.Image, error) { return decodeDataURI(ref) })
	}
	path, err := fs.Expand(ref)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", ref, err)
	}
	return l.cached(path, func() (image.Image, error) {
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		if st, err := os.Stat(path); err == nil {
			l.logger.Info("image loaded", "path", path, "size", humanize.Bytes(uint64(st.Size())),
				"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
		}
		return img, nil
	})
}

func (l *Loader) cached(key string, load func() (image.Image, error)) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}
	img, err := load()
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, img)
	return img, nil
}

// Cached reports how many decoded images are held.
func (l *Loader) Cached() int { return l.cache.Len() }

// Evict drops every cached image.
func (l *Loader) Evict() { l.cache.Purge() }

func screenImage(img *image.RGBA, err error) (image.Image, error) {
	if err != nil {
		return nil, fmt.Errorf("screen capture: %w", err)
	}
	return img, nil
}

func decodeDataURI(uri string) (image.Image, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("data uri: missing payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("data uri: only base64 payloads are supported")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return img, nil
}

// RegionRef formats r as a screen region reference Load understands.
func RegionRef(r image.Rectangle) string {
	return fmt.Sprintf("%s:%d,%d,%d,%d", capture.ScreenRef, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// parseRect reads "x,y,w,h".
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("screen region %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("screen region %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("screen region %q: empty size", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
