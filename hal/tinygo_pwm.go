//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

// pwmPeriodNs gives ~477 Hz with the full 16-bit wrap (125 MHz / 4 / 65536).
const pwmPeriodNs = 2_097_152

type pwmOut struct {
	pwm pwmDevice
	ch  uint8
	top uint32
}

func newPWMOut(pin machine.Pin) (pwmOut, error) {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return pwmOut{}, fmt.Errorf("pwm: pin %d has no slice", pin)
	}
	if err := pwm.Configure(machine.PWMConfig{Period: pwmPeriodNs}); err != nil {
		return pwmOut{}, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return pwmOut{}, err
	}
	pwm.SetTop(0xFFFF)
	pwm.Set(ch, 0)
	pwm.Enable(true)
	return pwmOut{pwm: pwm, ch: ch, top: pwm.Top()}, nil
}

func (o pwmOut) set(duty uint16) error {
	if o.pwm == nil {
		return errPWMOffline
	}
	o.pwm.Set(o.ch, uint32(duty)*o.top/0xFFFF)
	return nil
}

// pwmPair drives the red and blue intensity LEDs. Set is a register write,
// so SetDuty is safe from interrupt context.
type pwmPair struct {
	out [2]pwmOut
}

func newPWMPair(red, blue machine.Pin) (*pwmPair, error) {
	p := &pwmPair{}
	var err error
	if p.out[PWMRed], err = newPWMOut(red); err != nil {
		return p, fmt.Errorf("red: %w", err)
	}
	if p.out[PWMBlue], err = newPWMOut(blue); err != nil {
		return p, fmt.Errorf("blue: %w", err)
	}
	return p, nil
}

// SetDuty never allocates; it is called from the button interrupt.
func (p *pwmPair) SetDuty(ch PWMChannel, duty uint16) error {
	if int(ch) >= len(p.out) {
		return errPWMChannel
	}
	return p.out[ch].set(duty)
}
