package display

import "github.com/cjeanneret/ScanGo/internal/debug"

// Console writes screens to the debug log. Used for development on PC.
type Console struct{}

func (Console) Show(lines ...string) error {
	debug.Display(lines)
	return nil
}
