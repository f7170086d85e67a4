package web

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cjeanneret/ScanGo/internal/logic/node"
	"github.com/cjeanneret/ScanGo/internal/logic/scan"
)

func TestStatusBoard_Lifecycle(t *testing.T) {
	s := NewStatusBoard(nil)
	at := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	if got := s.Snapshot().State; got != "booting" {
		t.Errorf("initial state = %q, want booting", got)
	}

	s.StateChanged(node.Polling)
	s.CycleFinished(1, scan.Outcome{Kind: scan.ServerUnreachable})
	s.StateChanged(node.Suspending)
	s.Suspending(node.SleepPolicy{Reason: node.ReasonServerDown, Duration: 30 * time.Second, Message: "SERVER ENDED"})

	snap := s.Snapshot()
	if snap.State != "suspending" {
		t.Errorf("state = %q, want suspending", snap.State)
	}
	if snap.LastCycleAt == nil || !snap.LastCycleAt.Equal(at) {
		t.Errorf("last cycle at = %v, want %v", snap.LastCycleAt, at)
	}
	want := &SuspensionInfo{Reason: "server_down", Message: "SERVER ENDED", Duration: "30s"}
	if diff := cmp.Diff(want, snap.Suspension); diff != "" {
		t.Errorf("suspension mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusBoard_SnapshotIsACopy(t *testing.T) {
	s := NewStatusBoard(nil)
	s.Show("Result:", "Alice")
	s.CycleFinished(1, scan.Outcome{Kind: scan.Identified, Verdict: "Alice"})

	snap := s.Snapshot()
	snap.Screen[0] = "tampered"
	snap.Outcomes["identified"] = 99

	again := s.Snapshot()
	if again.Screen[0] != "Result:" {
		t.Errorf("screen mutated through snapshot: %q", again.Screen)
	}
	if again.Outcomes["identified"] != 1 {
		t.Errorf("outcomes mutated through snapshot: %v", again.Outcomes)
	}
}

func TestStatusBoard_ShowBroadcastsScreen(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()
	s := NewStatusBoard(b)

	if err := s.Show("SERVER ENDED", "Sleeping..."); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	select {
	case msg := <-ch:
		if want := `"lines":["SERVER ENDED","Sleeping..."]`; !strings.Contains(msg, want) {
			t.Errorf("event %q missing %q", msg, want)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestStatusBoard_ImplementsObserver(t *testing.T) {
	var _ node.Observer = NewStatusBoard(nil)
}

func TestStatusBoard_ResetStartsNewBoot(t *testing.T) {
	s := NewStatusBoard(nil)
	first := s.Snapshot().BootID
	s.CycleFinished(4, scan.Outcome{Kind: scan.CaptureFailed})
	s.StateChanged(node.Suspending)

	s.Reset()

	snap := s.Snapshot()
	if snap.BootID == first {
		t.Error("Reset should issue a new boot ID")
	}
	if snap.Cycles != 0 || snap.State != "booting" || len(snap.Outcomes) != 0 {
		t.Errorf("after Reset: cycles=%d state=%q outcomes=%v", snap.Cycles, snap.State, snap.Outcomes)
	}
}
