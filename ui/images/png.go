package images

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

// encoder favours speed; frames are re-encoded on every scene change.
var encoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &bufferPool{},
}

type bufferPool struct{ p sync.Pool }

func (b *bufferPool) Get() *png.EncoderBuffer {
	if buf, ok := b.p.Get().(*png.EncoderBuffer); ok {
		return buf
	}
	return nil
}

func (b *bufferPool) Put(buf *png.EncoderBuffer) { b.p.Put(buf) }

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = encoder.Encode(&buf, img)
	return buf.Bytes()
}
