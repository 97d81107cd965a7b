//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"
)

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoClock struct{}

func (tinyGoClock) Now() time.Time        { return time.Now() }
func (tinyGoClock) Sleep(d time.Duration) { time.Sleep(d) }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// machinePin is a GPIOPin on an RP2040 pin. It holds no lock: Write and
// Read are single register accesses and are safe from interrupt context.
type machinePin struct {
	name string
	pin  machine.Pin
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown | GPIOCapEdge
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	var cfg machine.PinConfig
	switch mode {
	case GPIOModeOutput:
		if pull != GPIOPullNone {
			return fmt.Errorf("gpio: pin %s: pull on output unsupported", p.name)
		}
		cfg.Mode = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullNone:
			cfg.Mode = machine.PinInput
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		default:
			return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	p.pin.Set(level)
	return nil
}

func (p *machinePin) SetEdgeHandler(edge GPIOEdge, fn func()) error {
	var change machine.PinChange
	if edge&GPIOEdgeFalling != 0 {
		change |= machine.PinFalling
	}
	if edge&GPIOEdgeRising != 0 {
		change |= machine.PinRising
	}
	if fn == nil {
		return p.pin.SetInterrupt(change, nil)
	}
	if err := p.pin.SetInterrupt(change, func(machine.Pin) { fn() }); err != nil {
		return fmt.Errorf("gpio: pin %s: %w", p.name, err)
	}
	return nil
}

// adcJoystick reads both axes. machine.ADC.Get returns a 16-bit scaled
// value; the panel works in the native 12-bit range.
type adcJoystick struct {
	x machine.ADC
	y machine.ADC
}

func newADCJoystick(xPin, yPin machine.Pin) *adcJoystick {
	machine.InitADC()
	j := &adcJoystick{x: machine.ADC{Pin: xPin}, y: machine.ADC{Pin: yPin}}
	j.x.Configure(machine.ADCConfig{})
	j.y.Configure(machine.ADCConfig{})
	return j
}

func (j *adcJoystick) ReadAxis(axis Axis) (uint16, error) {
	switch axis {
	case AxisX:
		return j.x.Get() >> 4, nil
	case AxisY:
		return j.y.Get() >> 4, nil
	}
	return 0, fmt.Errorf("analog: axis %d: %w", axis, ErrPeripheralUnavailable)
}
