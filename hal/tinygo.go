//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	analog *adcJoystick
	pwm    *pwmPair
	fb     Framebuffer
	clock  tinyGoClock
}

// New returns the RP2040 panel HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Buttons (active-low, pull-up, falling-edge IRQ): joystick GP22, A GP5, B GP6.
// Status LED GP11. Joystick X on ADC1 (GP27), Y on ADC0 (GP26).
// PWM: red GP13 follows X, blue GP12 follows Y.
// SSD1306 128x64 on I2C1, SDA GP14 / SCL GP15, 400 kHz, address 0x3C.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.GP11
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	gpio := newVirtualGPIO([]GPIOPin{
		PinJoystickButton: newMachinePin("JOY", machine.GP22),
		PinButtonA:        newMachinePin("BTNA", machine.GP5),
		PinButtonB:        newMachinePin("BTNB", machine.GP6),
		PinStatusLED:      newMachinePin("LED", ledPin),
	})

	pwm, err := newPWMPair(machine.GP13, machine.GP12)
	if err != nil {
		logger.WriteLineString("pwm: " + err.Error())
	}

	var fb Framebuffer
	oled, err := newSSD1306Framebuffer(machine.I2C1, machine.GP14, machine.GP15)
	if err != nil {
		logger.WriteLineString("display: " + err.Error())
		fb = &stubFramebuffer{w: 128, h: 64, err: err}
	} else {
		fb = oled
	}

	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio:   gpio,
		analog: newADCJoystick(machine.ADC1, machine.ADC0),
		pwm:    pwm,
		fb:     fb,
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Analog() Analog   { return h.analog }
func (h *tinyGoHAL) PWM() PWM         { return h.pwm }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
