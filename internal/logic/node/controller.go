// Package node drives one boot of the attendance node: join the network,
// poll the classifier until a failure calls for sleep, then suspend.
package node

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/display"
	"github.com/cjeanneret/ScanGo/internal/hw/power"
	"github.com/cjeanneret/ScanGo/internal/logic/netjoin"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
	"github.com/cjeanneret/ScanGo/internal/metrics"
)

// State is the controller's lifecycle phase.
type State int

const (
	Booting State = iota
	Polling
	Suspending
)

func (s State) String() string {
	switch s {
	case Booting:
		return "booting"
	case Polling:
		return "polling"
	case Suspending:
		return "suspending"
	default:
		return "unknown"
	}
}

// Joiner brings the network up once.
type Joiner interface {
	Join(maxWait time.Duration) netjoin.Result
}

// CycleRunner performs one scan cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) scan.Outcome
}

// Indicator performs the feedback for an outcome.
type Indicator interface {
	Indicate(o scan.Outcome)
}

// Sounder plays the boot and failure melodies.
type Sounder interface {
	Wake() error
	Error() error
}

// Camera is the part of the capture device the controller touches at boot.
type Camera interface {
	Init() error
}

// Observer is notified of lifecycle events. Callbacks run on the controller
// goroutine and must not block.
type Observer interface {
	StateChanged(s State)
	CycleFinished(n int, o scan.Outcome)
	Suspending(p SleepPolicy)
}

// Timing holds the controller's own delays.
type Timing struct {
	Splash       time.Duration
	JoinTimeout  time.Duration
	Idle         time.Duration
	SleepMessage time.Duration
}

// Deps groups the collaborators of a Controller.
type Deps struct {
	Display   display.Display
	Sound     Sounder
	Camera    Camera
	Network   Joiner
	Cycles    CycleRunner
	Feedback  Indicator
	Suspender power.Suspender
	Observer  Observer // optional
}

// Controller runs the boot → poll → suspend sequence.
type Controller struct {
	deps     Deps
	policies Policies
	timing   Timing

	sleep func(time.Duration)
	wait  func(ctx context.Context, d time.Duration) error
}

func NewController(deps Deps, policies Policies, timing Timing) *Controller {
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	return &Controller{
		deps:     deps,
		policies: policies,
		timing:   timing,
		sleep:    time.Sleep,
		wait:     waitContext,
	}
}

// Run boots the node, polls until a failure calls for sleep, then arms the
// wake timer. It returns the applied policy; the node keeps no state across
// a suspension, so the caller is expected to exit (or boot again).
// A cancelled ctx stops the loop between cycles and returns ctx.Err().
func (c *Controller) Run(ctx context.Context) (SleepPolicy, error) {
	c.setState(Booting)
	debug.Summary("ScanGo boot")

	c.play(c.deps.Sound.Wake)
	c.show("MSEC SMART", "ATTENDANCE")
	c.sleep(c.timing.Splash)

	c.show("Connecting WiFi...")
	joined := c.deps.Network.Join(c.timing.JoinTimeout)
	if policy, ok := PolicyForJoin(joined, c.policies); ok {
		c.show(policy.Message)
		c.play(c.deps.Sound.Error)
		return c.suspend(policy)
	}

	// A camera that fails here is re-initialized by every cycle anyway.
	if err := c.deps.Camera.Init(); err != nil {
		debug.Error(fmt.Errorf("camera init: %w", err))
		c.show("Camera Init FAILED")
	} else {
		c.show("WiFi OK", "Starting Scan...")
	}

	c.setState(Polling)
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return SleepPolicy{}, err
		}

		outcome := c.deps.Cycles.RunCycle(ctx)
		if err := ctx.Err(); err != nil {
			// An upload cut short by shutdown is not a server failure.
			return SleepPolicy{}, err
		}
		debug.Outcome(n, outcome.Kind.String(), outcome.Detail())
		metrics.RecordOutcome(outcome.Kind.String())
		c.deps.Observer.CycleFinished(n, outcome)

		c.deps.Feedback.Indicate(outcome)

		if policy, ok := PolicyFor(outcome, c.policies); ok {
			return c.suspend(policy)
		}

		c.show(fmt.Sprintf("Waiting %ds...", int(c.timing.Idle/time.Second)))
		if err := c.wait(ctx, c.timing.Idle); err != nil {
			return SleepPolicy{}, err
		}
	}
}

func (c *Controller) suspend(p SleepPolicy) (SleepPolicy, error) {
	c.setState(Suspending)
	c.deps.Observer.Suspending(p)
	debug.Suspend(p.Reason, p.Duration)
	metrics.RecordSuspension(p.Reason)

	c.show(p.Message, "Sleeping...")
	c.sleep(c.timing.SleepMessage)

	if err := c.deps.Suspender.Suspend(p.Duration); err != nil {
		return p, fmt.Errorf("suspend for %v: %w", p.Duration, err)
	}
	return p, nil
}

func (c *Controller) setState(s State) {
	debug.Verbose("State: %s", s)
	c.deps.Observer.StateChanged(s)
}

func (c *Controller) show(lines ...string) {
	if err := c.deps.Display.Show(lines...); err != nil {
		debug.Verbose("Display failed: %v", err)
	}
}

func (c *Controller) play(melody func() error) {
	if err := melody(); err != nil {
		debug.Verbose("Buzzer failed: %v", err)
	}
}

func waitContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type nopObserver struct{}

func (nopObserver) StateChanged(State)              {}
func (nopObserver) CycleFinished(int, scan.Outcome) {}
func (nopObserver) Suspending(SleepPolicy)          {}
