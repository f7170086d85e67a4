package scan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/camera"
	"github.com/cjeanneret/ScanGo/internal/hw/display"
	"github.com/cjeanneret/ScanGo/internal/upload"
)

// Light is a switchable output bracketing the capture (the flash).
type Light interface {
	On() error
	Off() error
}

// Submitter sends one frame to the classifier.
type Submitter interface {
	Submit(ctx context.Context, data []byte, traceID string) upload.Result
}

// Timing holds the fixed delays of one cycle.
type Timing struct {
	ReinitSettle time.Duration // between camera deinit and init
	Stabilize    time.Duration // sensor settle after init
	FlashLead    time.Duration // flash on before the shutter
}

// Executor runs capture → submit → classify cycles.
type Executor struct {
	camera   camera.Device
	flash    Light
	uploader Submitter
	display  display.Display
	timing   Timing
	cycles   int
}

func NewExecutor(cam camera.Device, flash Light, up Submitter, disp display.Display, timing Timing) *Executor {
	return &Executor{
		camera:   cam,
		flash:    flash,
		uploader: up,
		display:  disp,
		timing:   timing,
	}
}

// RunCycle performs one full attempt and always returns exactly one outcome.
// A captured frame is released before RunCycle returns, whatever happened
// to the upload.
func (e *Executor) RunCycle(ctx context.Context) Outcome {
	e.cycles++
	traceID := uuid.NewString()
	debug.Cycle(e.cycles, traceID)

	// 1. Re-initialize the camera (guards against sensor lock-up)
	debug.Step(1, "Re-initializing camera")
	if err := e.reinit(); err != nil {
		debug.Error(err)
		return Outcome{Kind: CaptureDeviceReinitFailed}
	}
	time.Sleep(e.timing.Stabilize)

	// 2. Capture one frame under the flash
	debug.Step(2, "Capturing frame")
	e.show("Scanning...")
	frame, err := e.capture()
	if err != nil {
		debug.Error(err)
		return Outcome{Kind: CaptureFailed}
	}
	defer e.camera.Release(frame)

	// 3. Upload and classify
	debug.Step(3, "Uploading frame")
	e.show("Uploading...")
	res := e.uploader.Submit(ctx, frame.Data, traceID)
	if !res.Positive() {
		return Outcome{Kind: ServerUnreachable}
	}
	return Classify(res.Body)
}

func (e *Executor) reinit() error {
	if err := e.camera.Deinit(); err != nil {
		debug.Verbose("Camera deinit failed, continuing: %v", err)
	}
	time.Sleep(e.timing.ReinitSettle)
	return e.camera.Init()
}

func (e *Executor) capture() (*camera.Frame, error) {
	if err := e.flash.On(); err != nil {
		debug.Verbose("Flash on failed, capturing anyway: %v", err)
	}
	time.Sleep(e.timing.FlashLead)
	frame, err := e.camera.Capture()
	if offErr := e.flash.Off(); offErr != nil {
		debug.Verbose("Flash off failed: %v", offErr)
	}
	return frame, err
}

func (e *Executor) show(lines ...string) {
	if err := e.display.Show(lines...); err != nil {
		debug.Verbose("Display failed: %v", err)
	}
}
