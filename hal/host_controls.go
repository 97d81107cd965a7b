//go:build !tinygo

package hal

// control is one simulated input the front-ends can hold down.
type control uint8

const (
	ctlJoystickButton control = iota
	ctlButtonA
	ctlButtonB
	ctlLeft
	ctlRight
	ctlUp
	ctlDown

	numControls
)

// keyHelp describes the key bindings shared by the window and terminal
// front-ends.
const keyHelp = "arrows/WASD stick  space/J joy  Z/K A  X/L B  esc/Q quit"

// controlState records which controls are held.
type controlState [numControls]bool

// runeControl maps a typed character to a control.
func runeControl(r rune) (control, bool) {
	switch r {
	case ' ', 'j', 'J':
		return ctlJoystickButton, true
	case 'z', 'Z', 'k', 'K':
		return ctlButtonA, true
	case 'x', 'X', 'l', 'L':
		return ctlButtonB, true
	case 'a', 'A':
		return ctlLeft, true
	case 'd', 'D':
		return ctlRight, true
	case 'w', 'W':
		return ctlUp, true
	case 's', 'S':
		return ctlDown, true
	}
	return 0, false
}

// stick converts held directions to axis readings. Each direction deflects
// fully; opposite directions cancel.
func (s controlState) stick() (x, y uint16) {
	x, y = stickCenter, stickCenter
	switch {
	case s[ctlLeft] && !s[ctlRight]:
		x = 0
	case s[ctlRight] && !s[ctlLeft]:
		x = 4095
	}
	switch {
	case s[ctlUp] && !s[ctlDown]:
		y = 4095
	case s[ctlDown] && !s[ctlUp]:
		y = 0
	}
	return x, y
}

// applyControls drives the simulated buttons on every change between prev
// and cur and moves the stick to cur.
func (h *hostHAL) applyControls(prev, cur controlState) {
	for c := ctlJoystickButton; c <= ctlButtonB; c++ {
		id := int(c - ctlJoystickButton)
		switch {
		case cur[c] && !prev[c]:
			h.pressButton(id)
		case !cur[c] && prev[c]:
			h.releaseButton(id)
		}
	}
	h.stick.set(cur.stick())
}
