// Package board assembles the node's hardware from configuration.
package board

import (
	"errors"
	"fmt"
	"time"

	"github.com/cjeanneret/ScanGo/internal/config"
	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/buzzer"
	"github.com/cjeanneret/ScanGo/internal/hw/camera"
	"github.com/cjeanneret/ScanGo/internal/hw/display"
	"github.com/cjeanneret/ScanGo/internal/hw/gpio"
	"github.com/cjeanneret/ScanGo/internal/hw/led"
	"github.com/cjeanneret/ScanGo/internal/hw/power"
	"github.com/cjeanneret/ScanGo/internal/hw/wifi"
	"github.com/cjeanneret/ScanGo/internal/upload"
)

// Board is every peripheral of one boot. It is built once and closed before
// the node suspends.
type Board struct {
	GPIO      gpio.Driver
	Flash     *led.LED
	Red       *led.LED
	Green     *led.LED
	Buzzer    *buzzer.Buzzer
	Camera    camera.Device
	Display   display.Display
	Network   wifi.Network
	Uploader  *upload.Client
	Suspender power.Suspender

	closers []func() error
}

// New builds the board described by cfg. Extra displays (e.g. the web status
// board) receive every screen the node shows.
func New(cfg *config.Config, extra ...display.Display) (*Board, error) {
	b := &Board{}

	debug.Step(1, "Initializing GPIO driver")
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	g, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return nil, fmt.Errorf("init GPIO: %w", err)
	}
	b.GPIO = g
	b.closers = append(b.closers, g.Close)

	debug.Step(2, "Initializing outputs")
	b.Flash = led.New(g, cfg.Pins.Flash, "flash")
	b.Red = led.New(g, cfg.Pins.RedLED, "red")
	b.Green = led.New(g, cfg.Pins.GreenLED, "green")
	b.Buzzer = buzzer.New(g, cfg.Pins.Buzzer)
	debug.PrintStruct("Pins", cfg.Pins)

	debug.Step(3, "Initializing display")
	disp, err := newDisplay(cfg.Display)
	if err != nil {
		b.Close()
		return nil, err
	}
	if c, ok := disp.(interface{ Close() error }); ok {
		b.closers = append(b.closers, c.Close)
	}
	if len(extra) > 0 {
		b.Display = append(display.Tee{disp}, extra...)
	} else {
		b.Display = disp
	}

	debug.Step(4, "Preparing camera")
	cam, err := newCamera(cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Camera = cam
	b.closers = append(b.closers, cam.Deinit)
	debug.Value("Camera type", cfg.Camera.Type)

	debug.Step(5, "Preparing network and uploader")
	net, err := newNetwork(cfg.WiFi)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Network = net
	b.Uploader = upload.New(cfg.Server.UploadURL, cfg.UploadTimeout())
	debug.Value("Upload URL", cfg.Server.UploadURL)

	sus, err := newSuspender(cfg.Power)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Suspender = sus
	debug.Value("Power type", cfg.Power.Type)

	return b, nil
}

// Close releases the peripherals in reverse order of acquisition.
func (b *Board) Close() error {
	if b.Flash != nil {
		b.Flash.Off()
	}
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func newDisplay(cfg config.DisplayConfig) (display.Display, error) {
	switch cfg.Type {
	case "ssd1306":
		oled, err := display.NewOLED(cfg.I2CBus, cfg.Width, cfg.Height)
		if err != nil {
			return nil, fmt.Errorf("init display: %w", err)
		}
		return oled, nil
	case "console":
		return display.Console{}, nil
	default:
		return nil, fmt.Errorf("unsupported display type: %s", cfg.Type)
	}
}

func newCamera(cfg *config.Config) (camera.Device, error) {
	switch cfg.Camera.Type {
	case "gstreamer":
		return camera.NewGStreamer(camera.GStreamerConfig{
			Source:  cfg.Camera.Source,
			Width:   cfg.Camera.Width,
			Height:  cfg.Camera.Height,
			Quality: cfg.Camera.JPEGQuality,
			Timeout: cfg.CaptureTimeout(),
		}), nil
	case "mock":
		return camera.NewMock(cfg.Camera.Width, cfg.Camera.Height), nil
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
}

func newNetwork(cfg config.WiFiConfig) (wifi.Network, error) {
	switch cfg.Type {
	case "nmcli":
		return wifi.NewNMCLI(cfg.Interface), nil
	case "mock":
		return &wifi.Mock{JoinAfter: time.Second}, nil
	default:
		return nil, fmt.Errorf("unsupported wifi type: %s", cfg.Type)
	}
}

func newSuspender(cfg config.PowerConfig) (power.Suspender, error) {
	switch cfg.Type {
	case "rtcwake":
		return power.NewRTCWake(cfg.RTCWakeMode), nil
	case "mock":
		return &power.Mock{}, nil
	default:
		return nil, fmt.Errorf("unsupported power type: %s", cfg.Type)
	}
}
