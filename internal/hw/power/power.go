package power

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/sysexec"
)

// Suspender arms a wake timer and powers the board down.
type Suspender interface {
	// Suspend arms the wake timer for d and halts. On real hardware it does
	// not come back: the next thing that runs is a fresh boot.
	Suspend(d time.Duration) error
}

// RTCWake suspends with util-linux rtcwake, which programs the RTC alarm and
// enters the requested sleep mode ("off" for a full power-down).
type RTCWake struct {
	mode string
	run  sysexec.Runner
}

// NewRTCWake creates a suspender using rtcwake -m mode.
func NewRTCWake(mode string) *RTCWake {
	return &RTCWake{mode: mode, run: sysexec.Run}
}

func (r *RTCWake) Suspend(d time.Duration) error {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	debug.Info("Power: rtcwake -m %s for %ds", r.mode, secs)
	if _, err := r.run(context.Background(), "rtcwake", "-m", r.mode, "-s", strconv.Itoa(secs)); err != nil {
		return fmt.Errorf("rtcwake: %w", err)
	}
	return nil
}

// Mock records the requested suspension without sleeping. Used for
// development on PC or testing.
type Mock struct {
	Calls []time.Duration
}

func (m *Mock) Suspend(d time.Duration) error {
	debug.Info("Power: suspend for %v (mock)", d)
	m.Calls = append(m.Calls, d)
	return nil
}
