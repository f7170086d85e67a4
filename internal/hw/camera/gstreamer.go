package camera

import (
	"fmt"
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// GStreamerConfig describes the still-capture pipeline.
type GStreamerConfig struct {
	Source  string        // source element, e.g. "libcamerasrc" or "v4l2src"
	Width   int           // frame width in pixels
	Height  int           // frame height in pixels
	Quality int           // jpegenc quality (1-100)
	Timeout time.Duration // max wait for one frame
}

// GStreamer grabs JPEG frames from a live pipeline:
//
//	<source> → capsfilter → videoconvert → jpegenc → appsink
//
// The appsink keeps only the latest buffer, so a capture always returns a
// fresh frame instead of one queued during the idle wait.
type GStreamer struct {
	cfg      GStreamerConfig
	pipeline *gst.Pipeline
	sink     *app.Sink
	frames   slot
}

// NewGStreamer creates an uninitialized device; call Init before Capture.
func NewGStreamer(cfg GStreamerConfig) *GStreamer {
	return &GStreamer{cfg: cfg}
}

// LaunchLine returns the gst-launch description of the pipeline.
func (g *GStreamer) LaunchLine() string {
	return fmt.Sprintf(
		"%s ! video/x-raw,width=%d,height=%d ! videoconvert ! jpegenc quality=%d ! appsink name=sink max-buffers=1 drop=true sync=false",
		g.cfg.Source, g.cfg.Width, g.cfg.Height, g.cfg.Quality,
	)
}

func (g *GStreamer) Init() error {
	if g.pipeline != nil {
		return nil
	}

	gst.Init(nil)

	debug.Verbose("Camera: building pipeline %q", g.LaunchLine())
	pipeline, err := gst.NewPipelineFromString(g.LaunchLine())
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	elem, err := pipeline.GetElementByName("sink")
	if err != nil {
		return fmt.Errorf("find appsink: %w", err)
	}
	sink := app.SinkFromElement(elem)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		_ = pipeline.SetState(gst.StateNull)
		return fmt.Errorf("start pipeline: %w", err)
	}

	g.pipeline = pipeline
	g.sink = sink
	debug.Live("Camera: pipeline playing (%dx%d, q=%d)", g.cfg.Width, g.cfg.Height, g.cfg.Quality)
	return nil
}

func (g *GStreamer) Deinit() error {
	if g.pipeline == nil {
		return nil
	}
	err := g.pipeline.SetState(gst.StateNull)
	g.pipeline = nil
	g.sink = nil
	if err != nil {
		return fmt.Errorf("stop pipeline: %w", err)
	}
	debug.Verbose("Camera: pipeline stopped")
	return nil
}

func (g *GStreamer) Capture() (*Frame, error) {
	if g.sink == nil {
		return nil, ErrNotInitialized
	}
	if err := g.frames.check(); err != nil {
		return nil, err
	}

	sample := g.sink.TryPullSample(g.cfg.Timeout)
	if sample == nil {
		return nil, ErrNoFrame
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return nil, ErrNoFrame
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return nil, ErrNoFrame
	}
	// GStreamer reuses the buffer once unmapped.
	jpeg := make([]byte, len(data))
	copy(jpeg, data)
	buffer.Unmap()

	f, err := g.frames.claim(jpeg)
	if err != nil {
		return nil, err
	}
	debug.Verbose("Camera: frame %d captured (%d bytes)", f.Seq, len(jpeg))
	return f, nil
}

func (g *GStreamer) Release(f *Frame) {
	if !g.frames.release(f) {
		debug.Verbose("Camera: ignoring release of a frame that is not live")
	}
}
