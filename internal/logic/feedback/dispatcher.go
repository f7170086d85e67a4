// Package feedback turns a cycle outcome into screen, sound and light.
package feedback

import (
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/display"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
)

// Indicator is a status LED.
type Indicator interface {
	Blink(n int, half time.Duration) error
}

// Sounder plays the two feedback melodies.
type Sounder interface {
	Success() error
	Error() error
}

// Timing holds the feedback holds and the blink pattern.
type Timing struct {
	ResultHold     time.Duration // after a classifier verdict
	ReinitFailHold time.Duration // after a failed camera re-init
	BlinkHalf      time.Duration // LED on (and off) time per blink
	BlinkCount     int
}

// Screen texts.
const (
	ResultTitle      = "Result:"
	ServerEndedText  = "SERVER ENDED"
	ReinitFailedText = "Cam Re-Init Fail"
	CaptureFailText  = "Capture Failed"
)

// Dispatcher performs the feedback for one outcome.
type Dispatcher struct {
	display display.Display
	sound   Sounder
	green   Indicator
	red     Indicator
	timing  Timing
	sleep   func(time.Duration)
}

func NewDispatcher(disp display.Display, sound Sounder, green, red Indicator, timing Timing) *Dispatcher {
	return &Dispatcher{
		display: disp,
		sound:   sound,
		green:   green,
		red:     red,
		timing:  timing,
		sleep:   time.Sleep,
	}
}

// Indicate shows the outcome, plays its melody, blinks its LED if it has one
// and holds the screen. Hardware errors are logged, never returned: feedback
// must not change what the controller decides next.
func (d *Dispatcher) Indicate(o scan.Outcome) {
	debug.Live("Feedback for %v", o)

	switch o.Kind {
	case scan.Identified:
		d.show(ResultTitle, o.Verdict)
		d.play(d.sound.Success)
		d.blink(d.green)
		d.hold(d.timing.ResultHold)
	case scan.Unknown:
		d.show(ResultTitle, scan.UnknownVerdict)
		d.play(d.sound.Error)
		d.blink(d.red)
		d.hold(d.timing.ResultHold)
	case scan.TimeLimitReached:
		d.show(ResultTitle, scan.TimeLimitVerdict)
		d.play(d.sound.Error)
		d.hold(d.timing.ResultHold)
	case scan.ServerUnreachable:
		d.show(ServerEndedText)
		d.play(d.sound.Error)
	case scan.CaptureDeviceReinitFailed:
		d.show(ReinitFailedText)
		d.play(d.sound.Error)
		d.hold(d.timing.ReinitFailHold)
	case scan.CaptureFailed:
		d.show(CaptureFailText)
		d.play(d.sound.Error)
	default:
		debug.Verbose("No feedback for outcome %v", o)
	}
}

func (d *Dispatcher) show(lines ...string) {
	if err := d.display.Show(lines...); err != nil {
		debug.Verbose("Display failed: %v", err)
	}
}

func (d *Dispatcher) play(melody func() error) {
	if err := melody(); err != nil {
		debug.Verbose("Buzzer failed: %v", err)
	}
}

func (d *Dispatcher) blink(led Indicator) {
	if err := led.Blink(d.timing.BlinkCount, d.timing.BlinkHalf); err != nil {
		debug.Verbose("LED failed: %v", err)
	}
}

func (d *Dispatcher) hold(t time.Duration) {
	if t > 0 {
		d.sleep(t)
	}
}
