package wifi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cjeanneret/ScanGo/internal/debug"
	"github.com/cjeanneret/ScanGo/internal/hw/sysexec"
)

// Network is the join capability of the network stack.
type Network interface {
	// Begin starts joining the network and returns without waiting for the
	// association to complete.
	Begin(ssid, password string) error
	// Connected reports whether the link is up with an address.
	Connected() (bool, error)
}

// nmStateConnected is NetworkManager's NM_DEVICE_STATE_ACTIVATED.
const nmStateConnected = 100

// NMCLI joins through NetworkManager.
type NMCLI struct {
	iface string
	run   sysexec.Runner
}

// NewNMCLI creates a NetworkManager-backed network for iface (e.g. "wlan0").
func NewNMCLI(iface string) *NMCLI {
	return &NMCLI{iface: iface, run: sysexec.Run}
}

func (n *NMCLI) Begin(ssid, password string) error {
	debug.Live("WiFi: joining %q on %s", ssid, n.iface)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// --wait 0 returns as soon as activation is queued.
	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	args = append(args, "ifname", n.iface)
	if _, err := n.run(ctx, "nmcli", args...); err != nil {
		return fmt.Errorf("nmcli connect: %w", err)
	}
	return nil
}

func (n *NMCLI) Connected() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := n.run(ctx, "nmcli", "-g", "GENERAL.STATE", "device", "show", n.iface)
	if err != nil {
		return false, fmt.Errorf("nmcli device show: %w", err)
	}
	state, err := parseDeviceState(string(out))
	if err != nil {
		return false, err
	}
	debug.Trace("WiFi: %s state %d", n.iface, state)
	return state == nmStateConnected, nil
}

// parseDeviceState extracts the numeric state from "100 (connected)".
func parseDeviceState(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	state, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unexpected device state %q", s)
	}
	return state, nil
}

// Mock is a network that joins after a fixed delay. Used for development on
// PC or testing. A negative JoinAfter never joins.
type Mock struct {
	JoinAfter time.Duration
	started   time.Time
}

func (m *Mock) Begin(ssid, _ string) error {
	debug.Trace("WiFi Begin %q (mock)", ssid)
	m.started = time.Now()
	return nil
}

func (m *Mock) Connected() (bool, error) {
	if m.started.IsZero() || m.JoinAfter < 0 {
		return false, nil
	}
	return time.Since(m.started) >= m.JoinAfter, nil
}
