package camera

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/cjeanneret/ScanGo/internal/debug"
)

// Mock produces a synthetic gradient JPEG. Used for development on PC.
type Mock struct {
	width, height int
	open          bool
	frames        slot
}

// NewMock creates a mock device producing width x height frames.
func NewMock(width, height int) *Mock {
	return &Mock{width: width, height: height}
}

func (m *Mock) Init() error {
	debug.Trace("Camera Init (mock)")
	m.open = true
	return nil
}

func (m *Mock) Deinit() error {
	debug.Trace("Camera Deinit (mock)")
	m.open = false
	return nil
}

func (m *Mock) Capture() (*Frame, error) {
	if !m.open {
		return nil, ErrNotInitialized
	}
	if err := m.frames.check(); err != nil {
		return nil, err
	}

	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("encode mock frame: %w", err)
	}
	return m.frames.claim(buf.Bytes())
}

func (m *Mock) Release(f *Frame) {
	m.frames.release(f)
}
