package led

import (
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/gpio"
)

// LED is a single active-HIGH digital output: an indicator LED or the
// camera flash.
type LED struct {
	gpio gpio.Driver
	pin  int
	name string
}

// New configures pin as an output and switches it off.
func New(g gpio.Driver, pin int, name string) *LED {
	_ = g.SetupPin(pin, gpio.Output)
	_ = g.WritePin(pin, gpio.Low)
	return &LED{gpio: g, pin: pin, name: name}
}

// On drives the pin HIGH.
func (l *LED) On() error {
	debug.Trace("LED %s on (pin %d)", l.name, l.pin)
	return l.gpio.WritePin(l.pin, gpio.High)
}

// Off drives the pin LOW.
func (l *LED) Off() error {
	debug.Trace("LED %s off (pin %d)", l.name, l.pin)
	return l.gpio.WritePin(l.pin, gpio.Low)
}

// Blink switches the LED on then off n times, holding each state for half.
// The LED is always left off, even if a write fails midway.
func (l *LED) Blink(n int, half time.Duration) error {
	debug.Verbose("LED %s: blinking %d times (%v)", l.name, n, half)
	for i := 0; i < n; i++ {
		if err := l.On(); err != nil {
			_ = l.Off()
			return err
		}
		time.Sleep(half)
		if err := l.Off(); err != nil {
			return err
		}
		time.Sleep(half)
	}
	return nil
}

// Name returns the label given at construction.
func (l *LED) Name() string { return l.name }
