package display

import (
	"errors"
)

// Display renders short text lines, one screen at a time.
type Display interface {
	// Show clears the screen and draws lines top to bottom.
	Show(lines ...string) error
}

// Tee mirrors every screen to several displays, e.g. the OLED panel and the
// web status stream.
type Tee []Display

func (t Tee) Show(lines ...string) error {
	var errs []error
	for _, d := range t {
		if err := d.Show(lines...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a function to the Display interface.
type Func func(lines ...string) error

func (f Func) Show(lines ...string) error { return f(lines...) }
