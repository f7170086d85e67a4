package camera

import (
	"errors"
	"sync/atomic"
	"time"
)

var (
	// ErrNotInitialized is returned by Capture before Init succeeded.
	ErrNotInitialized = errors.New("camera: device not initialized")
	// ErrNoFrame is returned when the sensor produced nothing in time.
	ErrNoFrame = errors.New("camera: no frame")
	// ErrFrameOutstanding is returned by Capture while the previous frame
	// has not been released yet.
	ErrFrameOutstanding = errors.New("camera: previous frame not released")
)

// Frame is one encoded JPEG image. It belongs to the caller between Capture
// and Release and must not be used after Release.
type Frame struct {
	Seq        uint64
	CapturedAt time.Time
	Data       []byte
}

// Device is the high-level interface of the image sensor used by the rest of
// the application, regardless of how frames are produced.
type Device interface {
	// Init opens and configures the sensor. Calling it on an initialized
	// device is a no-op.
	Init() error
	// Deinit closes the sensor. Calling it on a closed device is a no-op.
	Deinit() error
	// Capture grabs one frame. At most one frame may be live at a time.
	Capture() (*Frame, error)
	// Release hands the frame back to the device.
	Release(f *Frame)
}

// slot enforces the single-live-frame rule for Device implementations.
type slot struct {
	seq  atomic.Uint64
	live *Frame
}

func (s *slot) claim(data []byte) (*Frame, error) {
	if s.live != nil {
		return nil, ErrFrameOutstanding
	}
	f := &Frame{Seq: s.seq.Add(1), CapturedAt: time.Now(), Data: data}
	s.live = f
	return f, nil
}

func (s *slot) check() error {
	if s.live != nil {
		return ErrFrameOutstanding
	}
	return nil
}

// release reports whether f was the live frame.
func (s *slot) release(f *Frame) bool {
	if f == nil || s.live != f {
		return false
	}
	s.live = nil
	f.Data = nil
	return true
}
