package buzzer

import (
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/gpio"
)

// Note is one tone of a melody.
type Note struct {
	Hz       int
	Duration time.Duration
}

// Melodies played by the node.
var (
	SuccessMelody = []Note{{1500, 100 * time.Millisecond}, {1800, 150 * time.Millisecond}}
	ErrorMelody   = []Note{{400, 200 * time.Millisecond}, {200, 300 * time.Millisecond}}
	WakeMelody    = []Note{{1200, 150 * time.Millisecond}, {1600, 150 * time.Millisecond}, {2000, 200 * time.Millisecond}}
)

// Buzzer plays blocking melodies on a passive piezo wired to a PWM pin.
type Buzzer struct {
	gpio  gpio.Driver
	pin   int
	sleep func(time.Duration)
}

// New configures pin for PWM and silences it.
func New(g gpio.Driver, pin int) *Buzzer {
	_ = g.SetupPin(pin, gpio.PWM)
	_ = g.Tone(pin, 0)
	return &Buzzer{gpio: g, pin: pin, sleep: time.Sleep}
}

// Play emits each note for its duration and leaves the buzzer silent.
func (b *Buzzer) Play(notes []Note) error {
	for _, n := range notes {
		debug.Tone(b.pin, n.Hz, n.Duration)
		if err := b.gpio.Tone(b.pin, n.Hz); err != nil {
			_ = b.gpio.Tone(b.pin, 0)
			return err
		}
		b.sleep(n.Duration)
		if err := b.gpio.Tone(b.pin, 0); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buzzer) Success() error { return b.Play(SuccessMelody) }
func (b *Buzzer) Error() error   { return b.Play(ErrorMelody) }
func (b *Buzzer) Wake() error    { return b.Play(WakeMelody) }
