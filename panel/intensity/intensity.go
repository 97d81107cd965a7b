// Package intensity maps raw joystick axis samples to PWM duty values.
package intensity

import (
	"errors"
	"fmt"

	"joypanel/panel"
)

// Mapper converts one raw axis value into a duty value. Readings within
// DeadZone of Center map to zero; the rest scale linearly so that a
// deflection of MaxIn yields MaxOut.
type Mapper struct {
	Center   uint16
	DeadZone uint16
	MaxOut   uint16
	MaxIn    uint16
}

// DefaultMapper matches a 12-bit ADC driving a 16-bit PWM.
var DefaultMapper = Mapper{
	Center:   2048,
	DeadZone: 100,
	MaxOut:   0xFFFF,
	MaxIn:    2048,
}

var ErrInvalidMapper = errors.New("intensity: invalid mapper")

func (m Mapper) Validate() error {
	if m.MaxIn == 0 {
		return fmt.Errorf("%w: MaxIn must be positive", ErrInvalidMapper)
	}
	if m.DeadZone >= m.MaxIn {
		return fmt.Errorf("%w: DeadZone %d swallows the whole range", ErrInvalidMapper, m.DeadZone)
	}
	return nil
}

// Map returns the duty value for raw. A deflection larger than MaxIn is
// treated as MaxIn, so the result never exceeds MaxOut.
func (m Mapper) Map(raw uint16) uint16 {
	var diff uint32
	if raw >= m.Center {
		diff = uint32(raw - m.Center)
	} else {
		diff = uint32(m.Center - raw)
	}
	if diff <= uint32(m.DeadZone) || m.MaxIn == 0 {
		return 0
	}
	if diff > uint32(m.MaxIn) {
		diff = uint32(m.MaxIn)
	}
	return uint16(diff * uint32(m.MaxOut) / uint32(m.MaxIn))
}

// Map applies DefaultMapper.
func Map(raw uint16) uint16 { return DefaultMapper.Map(raw) }

// Pair holds the two channel duties: X drives red, Y drives blue.
type Pair struct {
	Red  uint16
	Blue uint16
}

// Derive computes the pair for one sample. Disabled LEDs yield zero on
// both channels.
func (m Mapper) Derive(s panel.Sample, enabled bool) Pair {
	if !enabled {
		return Pair{}
	}
	return Pair{Red: m.Map(s.X), Blue: m.Map(s.Y)}
}
