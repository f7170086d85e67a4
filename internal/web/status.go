package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cjeanneret/ScanGo/internal/logic/node"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
)

// Snapshot is the JSON body of GET /status.
type Snapshot struct {
	BootID      string          `json:"boot_id"`
	BootedAt    time.Time       `json:"booted_at"`
	State       string          `json:"state"`
	Cycles      int             `json:"cycles"`
	LastOutcome string          `json:"last_outcome,omitempty"`
	LastVerdict string          `json:"last_verdict,omitempty"`
	LastCycleAt *time.Time      `json:"last_cycle_at,omitempty"`
	Screen      []string        `json:"screen"`
	Outcomes    map[string]int  `json:"outcomes"`
	Suspension  *SuspensionInfo `json:"suspension,omitempty"`
}

// SuspensionInfo describes the sleep the node is entering.
type SuspensionInfo struct {
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

// StatusBoard follows the node as an observer and a display, and keeps the
// latest state for the status page. It never drives the node.
type StatusBoard struct {
	b   *StatusBroadcaster
	now func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

// NewStatusBoard creates a board. b may be nil.
func NewStatusBoard(b *StatusBroadcaster) *StatusBoard {
	s := &StatusBoard{b: b, now: time.Now}
	s.Reset()
	return s
}

// Reset starts a new boot: fresh boot ID, no cycles, no suspension.
func (s *StatusBoard) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{
		BootID:   uuid.NewString(),
		BootedAt: s.now(),
		State:    node.Booting.String(),
		Screen:   []string{},
		Outcomes: map[string]int{},
	}
}

func (s *StatusBoard) StateChanged(st node.State) {
	s.mu.Lock()
	s.snap.State = st.String()
	s.mu.Unlock()
	if s.b != nil {
		s.b.BroadcastState(st.String())
	}
}

func (s *StatusBoard) CycleFinished(n int, o scan.Outcome) {
	at := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cycles = n
	s.snap.LastOutcome = o.Kind.String()
	s.snap.LastVerdict = o.Detail()
	s.snap.LastCycleAt = &at
	s.snap.Outcomes[o.Kind.String()]++
}

func (s *StatusBoard) Suspending(p node.SleepPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Suspension = &SuspensionInfo{
		Reason:   p.Reason,
		Message:  p.Message,
		Duration: p.Duration.String(),
	}
}

// Show implements display.Display.
func (s *StatusBoard) Show(lines ...string) error {
	screen := append([]string{}, lines...)
	s.mu.Lock()
	s.snap.Screen = screen
	s.mu.Unlock()
	if s.b != nil {
		s.b.BroadcastScreen(screen)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *StatusBoard) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Screen = append([]string{}, s.snap.Screen...)
	out.Outcomes = make(map[string]int, len(s.snap.Outcomes))
	for k, v := range s.snap.Outcomes {
		out.Outcomes[k] = v
	}
	if s.snap.Suspension != nil {
		sus := *s.snap.Suspension
		out.Suspension = &sus
	}
	return out
}
