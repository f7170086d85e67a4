package node

import (
	"time"

	"github.com/cjeanneret/ScanGo/internal/logic/netjoin"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
)

// Suspension reasons, used as metric labels.
const (
	ReasonNetworkDown = "network_down"
	ReasonServerDown  = "server_down"
)

// SleepPolicy says how long to sleep and what to show before doing so.
type SleepPolicy struct {
	Reason   string
	Duration time.Duration
	Message  string
}

// Policies holds the two configured suspensions.
type Policies struct {
	NetworkDown SleepPolicy
	ServerDown  SleepPolicy
}

// DefaultPolicies builds the policies from the configured durations.
func DefaultPolicies(networkDown, serverDown time.Duration) Policies {
	return Policies{
		NetworkDown: SleepPolicy{Reason: ReasonNetworkDown, Duration: networkDown, Message: "WIFI OFFLINE"},
		ServerDown:  SleepPolicy{Reason: ReasonServerDown, Duration: serverDown, Message: "SERVER ENDED"},
	}
}

// PolicyFor returns the suspension a cycle outcome calls for. Only an
// unreachable server suspends; every other outcome keeps polling.
func PolicyFor(o scan.Outcome, p Policies) (SleepPolicy, bool) {
	if o.Kind == scan.ServerUnreachable {
		return p.ServerDown, true
	}
	return SleepPolicy{}, false
}

// PolicyForJoin returns the suspension the boot-time join calls for.
func PolicyForJoin(r netjoin.Result, p Policies) (SleepPolicy, bool) {
	if r == netjoin.TimedOut {
		return p.NetworkDown, true
	}
	return SleepPolicy{}, false
}
