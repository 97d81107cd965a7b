// Package panel holds the types shared by the controller packages: the
// monitored button lines and the per-cycle joystick sample.
package panel

// Line identifies one monitored button.
type Line uint8

const (
	JoystickButton Line = iota
	ButtonA
	ButtonB

	NumLines = 3
)

// Lines lists every monitored line in reconcile order.
var Lines = [NumLines]Line{JoystickButton, ButtonA, ButtonB}

func (l Line) String() string {
	switch l {
	case JoystickButton:
		return "joystick button"
	case ButtonA:
		return "button A"
	case ButtonB:
		return "button B"
	default:
		return "unknown line"
	}
}

// AxisMax is the largest raw value an axis sample can take (12-bit ADC).
const AxisMax = 4095

// Sample is one raw two-axis joystick reading, refreshed every cycle.
type Sample struct {
	X uint16
	Y uint16
}
