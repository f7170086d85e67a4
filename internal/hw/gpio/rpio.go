package gpio

import (
	"fmt"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// toneCycleLen is the PWM range used for tones. The PWM clock runs at
// hz*toneCycleLen, which keeps the lowest tone we play (200 Hz) above the
// 4688 Hz minimum clock of the BCM283x.
const toneCycleLen = 32

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins  map[int]rpio.Pin
	modes map[int]PinMode
}

// NewRPiRealDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
// Tones additionally need /dev/mem (root) because PWM lives outside gpiomem.
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pins:  make(map[int]rpio.Pin),
		modes: make(map[int]PinMode),
	}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)

	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
	case PWM:
		p.Pwm()
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}

	r.pins[pin] = p
	r.modes[pin] = mode
	return nil
}

func (r *RPiDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)

	p, ok := r.pins[pin]
	if !ok || r.modes[pin] != Output {
		if err := r.SetupPin(pin, Output); err != nil {
			return err
		}
		p = r.pins[pin]
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

func (r *RPiDriver) ReadPin(pin int) (Level, error) {
	debug.GPIO("ReadPin", pin, nil)

	p, ok := r.pins[pin]
	if !ok {
		if err := r.SetupPin(pin, Input); err != nil {
			return Low, err
		}
		p = r.pins[pin]
	}

	if p.Read() == rpio.High {
		return High, nil
	}
	return Low, nil
}

// Tone uses the hardware PWM channel behind pin at a 50% duty cycle.
func (r *RPiDriver) Tone(pin int, hz int) error {
	debug.GPIO("Tone", pin, hz)

	if hz < 0 {
		return fmt.Errorf("tone frequency must be >= 0, got %d", hz)
	}
	if r.modes[pin] != PWM {
		if err := r.SetupPin(pin, PWM); err != nil {
			return err
		}
	}
	p := r.pins[pin]

	if hz == 0 {
		p.DutyCycle(0, toneCycleLen)
		return nil
	}
	p.Freq(hz * toneCycleLen)
	p.DutyCycle(toneCycleLen/2, toneCycleLen)
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	// Reset all pins to input (safe state)
	for pin, p := range r.pins {
		debug.Verbose("Resetting pin %d to input", pin)
		if r.modes[pin] == PWM {
			p.DutyCycle(0, toneCycleLen)
		}
		p.Input()
	}

	return rpio.Close()
}
