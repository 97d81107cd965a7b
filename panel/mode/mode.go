// Package mode holds the three toggled display/LED modes. Every field is
// written from the edge path and read by the main cycle.
package mode

import (
	"sync/atomic"

	"joypanel/panel"
)

// Modes is a point-in-time copy of the mode flags.
type Modes struct {
	LEDsEnabled   bool
	BorderVisible bool
	GridVisible   bool
}

// Defaults returns the power-on modes.
func Defaults() Modes {
	return Modes{LEDsEnabled: true}
}

type State struct {
	_      [0]func() // prevent accidental copying.
	leds   atomic.Bool
	border atomic.Bool
	grid   atomic.Bool
}

func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset restores the power-on modes.
func (s *State) Reset() {
	d := Defaults()
	s.leds.Store(d.LEDsEnabled)
	s.border.Store(d.BorderVisible)
	s.grid.Store(d.GridVisible)
}

func (s *State) LEDsEnabled() bool   { return s.leds.Load() }
func (s *State) BorderVisible() bool { return s.border.Load() }
func (s *State) GridVisible() bool   { return s.grid.Load() }

// Flip inverts the mode owned by l and returns the new value.
func (s *State) Flip(l panel.Line) bool {
	switch l {
	case panel.JoystickButton:
		return flip(&s.border)
	case panel.ButtonA:
		return flip(&s.leds)
	case panel.ButtonB:
		return flip(&s.grid)
	}
	return false
}

func (s *State) Snapshot() Modes {
	return Modes{
		LEDsEnabled:   s.leds.Load(),
		BorderVisible: s.border.Load(),
		GridVisible:   s.grid.Load(),
	}
}

func flip(b *atomic.Bool) bool {
	for {
		v := b.Load()
		if b.CompareAndSwap(v, !v) {
			return !v
		}
	}
}
