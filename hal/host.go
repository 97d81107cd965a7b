//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// RunFunc runs the panel against h until ctx is done.
type RunFunc func(ctx context.Context, h HAL) error

// HostConfig tunes the simulated devices shared by all host front-ends.
type HostConfig struct {
	// Bounce adds that many spurious contact edges to every simulated
	// press and release.
	Bounce int
	// FastClock replaces wall-clock sleeping with a virtual clock.
	FastClock bool
	// Log receives log lines; nil means stdout.
	Log io.Writer
}

type hostHAL struct {
	cfg    HostConfig
	logger Logger
	led    *hostLED
	gpio   GPIO
	pins   [PinStatusLED]*virtualPin
	stick  *virtualStick
	pwm    *hostPWM
	fb     *hostFramebuffer
	clock  Clock
}

// New returns a host HAL with default simulated devices.
func New() HAL {
	return newHost(HostConfig{})
}

func newHost(cfg HostConfig) *hostHAL {
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	logger := &hostLogger{w: w}
	led := &hostLED{logger: logger}

	h := &hostHAL{
		cfg:    cfg,
		logger: logger,
		led:    led,
		stick:  newVirtualStick(),
		pwm:    &hostPWM{},
		fb:     newHostFramebuffer(128, 64),
	}
	names := [PinStatusLED]string{"JOY", "BTNA", "BTNB"}
	pins := make([]GPIOPin, 0, pinCount)
	for i, name := range names {
		h.pins[i] = newVirtualPin(name, GPIOCapInput|GPIOCapPullUp|GPIOCapEdge)
		pins = append(pins, h.pins[i])
	}
	pins = append(pins, newLEDPin("LED", led))
	h.gpio = newVirtualGPIO(pins)

	if cfg.FastClock {
		h.clock = newVirtualClock()
	} else {
		h.clock = hostClock{}
	}
	return h
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Analog() Analog   { return h.stick }
func (h *hostHAL) PWM() PWM         { return h.pwm }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Clock() Clock     { return h.clock }

// pressButton and releaseButton simulate a physical button on pin id.
func (h *hostHAL) pressButton(id int) {
	if id < 0 || id >= len(h.pins) || h.pins[id].pressed() {
		return
	}
	h.pins[id].press(h.cfg.Bounce)
}

func (h *hostHAL) releaseButton(id int) {
	if id < 0 || id >= len(h.pins) || !h.pins[id].pressed() {
		return
	}
	h.pins[id].release(h.cfg.Bounce)
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	on     atomic.Bool
	logger Logger
}

func (l *hostLED) High() {
	l.on.Store(true)
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.on.Store(false)
	l.logger.WriteLineString("led: LOW")
}

// virtualStick is a joystick whose axes a front-end moves.
type virtualStick struct {
	x atomic.Uint32
	y atomic.Uint32
}

const stickCenter = 2048

func newVirtualStick() *virtualStick {
	s := &virtualStick{}
	s.set(stickCenter, stickCenter)
	return s
}

func (s *virtualStick) set(x, y uint16) {
	s.x.Store(uint32(min(x, 4095)))
	s.y.Store(uint32(min(y, 4095)))
}

func (s *virtualStick) ReadAxis(axis Axis) (uint16, error) {
	switch axis {
	case AxisX:
		return uint16(s.x.Load()), nil
	case AxisY:
		return uint16(s.y.Load()), nil
	}
	return 0, fmt.Errorf("analog: axis %d: %w", axis, ErrPeripheralUnavailable)
}

// hostPWM records the last duty written to each channel.
type hostPWM struct {
	duty [2]atomic.Uint32
}

func (p *hostPWM) SetDuty(ch PWMChannel, duty uint16) error {
	if int(ch) >= len(p.duty) {
		return errPWMChannel
	}
	p.duty[ch].Store(uint32(duty))
	return nil
}

func (p *hostPWM) Duty(ch PWMChannel) uint16 {
	if int(ch) >= len(p.duty) {
		return 0
	}
	return uint16(p.duty[ch].Load())
}
