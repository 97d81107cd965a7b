package hal

import (
	"errors"
	"fmt"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrPeripheralUnavailable wraps any failure of a device the panel
	// depends on. The cycle that hits it is skipped, not the process.
	ErrPeripheralUnavailable = errors.New("peripheral unavailable")
)

// PWM errors are built once: SetDuty runs from pin interrupts, where the
// MCU cannot allocate.
var (
	errPWMChannel = fmt.Errorf("pwm: unknown channel: %w", ErrPeripheralUnavailable)
	errPWMOffline = fmt.Errorf("pwm: output not configured: %w", ErrPeripheralUnavailable)
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatMono1Paged is 1bpp in SSD1306 page order: pixel (x, y) is
	// bit y%8 of byte x + (y/8)*width.
	PixelFormatMono1Paged PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	Clear()
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Axis selects one joystick axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Analog samples the joystick. Readings are 12-bit: 0..4095.
type Analog interface {
	ReadAxis(axis Axis) (uint16, error)
}

// PWMChannel selects one intensity output.
type PWMChannel uint8

const (
	// PWMRed follows the X axis.
	PWMRed PWMChannel = iota
	// PWMBlue follows the Y axis.
	PWMBlue
)

// PWM sets the duty of an intensity output, 0..65535.
type PWM interface {
	SetDuty(ch PWMChannel, duty uint16) error
}

// Clock is the time base for the cycle pause and the debounce waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Fixed GPIO pin IDs. Button pins are active-low inputs with pull-ups that
// report falling edges.
const (
	PinJoystickButton = iota
	PinButtonA
	PinButtonB
	PinStatusLED

	pinCount
)

// HAL is the hardware abstraction boundary for the panel.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Analog() Analog
	PWM() PWM
	Display() Display
	Clock() Clock
}
