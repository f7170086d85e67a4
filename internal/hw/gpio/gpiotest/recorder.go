// Package gpiotest provides a recording gpio.Driver for tests.
package gpiotest

import (
	"sync"

	"github.com/cjeanneret/ScanGo/internal/hw/gpio"
)

// Call is one recorded driver operation.
type Call struct {
	Op    string // "setup", "write", "tone"
	Pin   int
	Level gpio.Level
	Hz    int
}

// Recorder records GPIO calls for verification.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// WriteErr, when set, is returned by every WritePin call.
	WriteErr error
}

func (r *Recorder) SetupPin(pin int, mode gpio.PinMode) error {
	r.record(Call{Op: "setup", Pin: pin})
	return nil
}

func (r *Recorder) WritePin(pin int, level gpio.Level) error {
	r.record(Call{Op: "write", Pin: pin, Level: level})
	return r.WriteErr
}

func (r *Recorder) ReadPin(pin int) (gpio.Level, error) {
	return gpio.Low, nil
}

func (r *Recorder) Tone(pin int, hz int) error {
	r.record(Call{Op: "tone", Pin: pin, Hz: hz})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns every recorded call with the given op, or all calls if op is "".
func (r *Recorder) Calls(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Call
	for _, c := range r.calls {
		if op == "" || c.Op == op {
			result = append(result, c)
		}
	}
	return result
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
