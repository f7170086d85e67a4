package camera

import (
	"bytes"
	"errors"
	"image/jpeg"
	"strings"
	"testing"
	"time"
)

func TestMock_CaptureBeforeInit(t *testing.T) {
	m := NewMock(32, 24)
	if _, err := m.Capture(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Capture before Init: err = %v, want ErrNotInitialized", err)
	}
}

func TestMock_CaptureProducesJPEG(t *testing.T) {
	m := NewMock(32, 24)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f, err := m.Capture()
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	defer m.Release(f)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatalf("frame is not a JPEG: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 24 {
		t.Errorf("frame size = %dx%d, want 32x24", cfg.Width, cfg.Height)
	}
	if f.Seq != 1 {
		t.Errorf("Seq = %d, want 1", f.Seq)
	}
}

func TestMock_SingleLiveFrame(t *testing.T) {
	m := NewMock(8, 8)
	_ = m.Init()

	f, err := m.Capture()
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if _, err := m.Capture(); !errors.Is(err, ErrFrameOutstanding) {
		t.Errorf("second Capture: err = %v, want ErrFrameOutstanding", err)
	}

	m.Release(f)
	if f.Data != nil {
		t.Error("Release should drop the frame data")
	}

	f2, err := m.Capture()
	if err != nil {
		t.Fatalf("Capture after Release: %v", err)
	}
	if f2.Seq != 2 {
		t.Errorf("Seq = %d, want 2", f2.Seq)
	}
	m.Release(f2)
}

func TestMock_ReleaseForeignFrameIgnored(t *testing.T) {
	m := NewMock(8, 8)
	_ = m.Init()
	f, _ := m.Capture()

	m.Release(&Frame{Seq: 99})
	m.Release(nil)

	if _, err := m.Capture(); !errors.Is(err, ErrFrameOutstanding) {
		t.Errorf("foreign release must not free the live frame, err = %v", err)
	}
	m.Release(f)
}

func TestMock_InitDeinitIdempotent(t *testing.T) {
	m := NewMock(8, 8)
	for i := 0; i < 2; i++ {
		if err := m.Init(); err != nil {
			t.Fatalf("Init #%d: %v", i, err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := m.Deinit(); err != nil {
			t.Fatalf("Deinit #%d: %v", i, err)
		}
	}
	if _, err := m.Capture(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Capture after Deinit: err = %v, want ErrNotInitialized", err)
	}
}

func TestGStreamer_LaunchLine(t *testing.T) {
	g := NewGStreamer(GStreamerConfig{
		Source:  "v4l2src",
		Width:   640,
		Height:  480,
		Quality: 85,
		Timeout: time.Second,
	})
	line := g.LaunchLine()

	for _, want := range []string{
		"v4l2src !",
		"width=640,height=480",
		"jpegenc quality=85",
		"appsink name=sink",
		"max-buffers=1 drop=true",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("launch line %q missing %q", line, want)
		}
	}
}

func TestGStreamer_CaptureBeforeInit(t *testing.T) {
	g := NewGStreamer(GStreamerConfig{Source: "videotestsrc"})
	if _, err := g.Capture(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Capture before Init: err = %v, want ErrNotInitialized", err)
	}
	if err := g.Deinit(); err != nil {
		t.Errorf("Deinit on closed device: %v", err)
	}
}

func TestDevicesImplementInterface(t *testing.T) {
	var _ Device = NewMock(1, 1)
	var _ Device = NewGStreamer(GStreamerConfig{})
}
