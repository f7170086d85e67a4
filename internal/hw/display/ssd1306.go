package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/cjeanneret/ScanGo/internal/debug"
)

// Baselines of the text rows, in pixels from the top. The first two match
// the two-line layout used for every message; further rows are spaced evenly.
var rowBaselines = []int{25, 45, 60}

// OLED drives a 128x64 monochrome panel over I2C using a 7x13 bitmap font.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// NewOLED opens the I2C bus (empty name = first available) and the panel.
func NewOLED(busName string, width, height int) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	opts := ssd1306.DefaultOpts
	opts.W = width
	opts.H = height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}
	debug.Info("OLED display ready (%dx%d on %q)", width, height, busName)
	return &OLED{bus: bus, dev: dev}, nil
}

func (o *OLED) Show(lines ...string) error {
	debug.Display(lines)
	img := Render(o.dev.Bounds(), lines...)
	if err := o.dev.Draw(img.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	_ = o.dev.Halt()
	return o.bus.Close()
}

// Render draws lines onto a fresh 1-bit image of the given bounds. Lines
// beyond the available rows are dropped.
func Render(bounds image.Rectangle, lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		if i >= len(rowBaselines) {
			break
		}
		d.Dot = fixed.P(0, rowBaselines[i])
		d.DrawString(line)
	}
	return img
}
