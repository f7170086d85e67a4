// Package netjoin brings the network up once per boot.
package netjoin

import (
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/wifi"
	"github.com/cjeanneret/ScanGo/internal/metrics"
)

// Result is the outcome of the boot-time join.
type Result int

const (
	Joined Result = iota
	TimedOut
)

func (r Result) String() string {
	if r == Joined {
		return "joined"
	}
	return "timed_out"
}

// Bootstrapper joins a single configured network.
type Bootstrapper struct {
	net      wifi.Network
	ssid     string
	password string
	poll     time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func New(net wifi.Network, ssid, password string, poll time.Duration) *Bootstrapper {
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	return &Bootstrapper{
		net:      net,
		ssid:     ssid,
		password: password,
		poll:     poll,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Join starts the association and polls its status until the link is up or
// maxWait has elapsed. Status errors count as "not yet".
func (b *Bootstrapper) Join(maxWait time.Duration) Result {
	start := b.now()
	debug.Info("Joining network %q (timeout %v)", b.ssid, maxWait)

	if err := b.net.Begin(b.ssid, b.password); err != nil {
		// The link may still come up on its own (autoconnect profile).
		debug.Error(err)
	}

	deadline := start.Add(maxWait)
	polls := 0
	for {
		up, err := b.net.Connected()
		polls++
		if err != nil {
			debug.Verbose("Link status: %v", err)
		}
		if up {
			elapsed := b.now().Sub(start)
			debug.Info("Network joined after %v (%d polls)", elapsed, polls)
			metrics.RecordJoin(Joined.String(), elapsed)
			return Joined
		}
		if !b.now().Before(deadline) {
			break
		}
		b.sleep(b.poll)
	}

	elapsed := b.now().Sub(start)
	debug.Info("Network join timed out after %v (%d polls)", elapsed, polls)
	metrics.RecordJoin(TimedOut.String(), elapsed)
	return TimedOut
}
