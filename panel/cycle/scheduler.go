// Package cycle runs the panel: button edges flip modes as they arrive, and
// a fixed-period loop reconciles the debounce guards, samples the
// joystick, drives the intensity LEDs and redraws the display.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"joypanel/hal"
	"joypanel/panel"
	"joypanel/panel/debounce"
	"joypanel/panel/events"
	"joypanel/panel/frame"
	"joypanel/panel/intensity"
	"joypanel/panel/mode"
)

type Config struct {
	// Period is the pause between the end of one cycle and the start of
	// the next.
	Period   time.Duration
	Debounce debounce.Config
	Mapper   intensity.Mapper
}

func DefaultConfig() Config {
	return Config{
		Period:   50 * time.Millisecond,
		Debounce: debounce.DefaultConfig(),
		Mapper:   intensity.DefaultMapper,
	}
}

var linePins = [panel.NumLines]int{
	panel.JoystickButton: hal.PinJoystickButton,
	panel.ButtonA:        hal.PinButtonA,
	panel.ButtonB:        hal.PinButtonB,
}

// Snapshot is what the most recent completed cycle saw and produced.
type Snapshot struct {
	Cycle     uint64
	Sample    panel.Sample
	Modes     mode.Modes
	Intensity intensity.Pair
}

type Scheduler struct {
	cfg Config

	log     hal.Logger
	clock   hal.Clock
	analog  hal.Analog
	pwm     hal.PWM
	fb      hal.Framebuffer
	buttons [panel.NumLines]hal.GPIOPin
	status  hal.GPIOPin

	modes  *mode.State
	det    *debounce.Detector
	events events.Queue
	canvas *frame.Canvas

	// OnPanic, when set, is called with the recovered value of a cycle
	// that panicked, before the next cycle starts.
	OnPanic func(v any)

	edgeFaults atomic.Uint32

	cycles      uint64
	skipped     uint64
	stuckLogged bool
	last        Snapshot
}

// New configures the button, LED, PWM and display devices of h and returns
// a scheduler ready to Run. Button edge handlers are live on return.
func New(h hal.HAL, cfg Config) (*Scheduler, error) {
	if cfg.Period <= 0 {
		cfg.Period = DefaultConfig().Period
	}
	if err := cfg.Mapper.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		cfg:    cfg,
		log:    h.Logger(),
		clock:  h.Clock(),
		analog: h.Analog(),
		pwm:    h.PWM(),
		modes:  mode.New(),
	}
	if s.analog == nil || s.pwm == nil || s.clock == nil {
		return nil, fmt.Errorf("cycle: %w: analog, pwm and clock are required", hal.ErrPeripheralUnavailable)
	}

	if err := s.setupDisplay(h.Display()); err != nil {
		return nil, err
	}
	if err := s.setupPins(h.GPIO()); err != nil {
		return nil, err
	}

	s.det = debounce.New(cfg.Debounce, debounce.ReaderFunc(s.isAsserted), s.clock.Sleep, s.press)

	_ = s.pwm.SetDuty(hal.PWMRed, 0)
	_ = s.pwm.SetDuty(hal.PWMBlue, 0)

	for _, l := range panel.Lines {
		l := l
		if err := s.buttons[l].SetEdgeHandler(hal.GPIOEdgeFalling, func() { s.OnRawEdge(l) }); err != nil {
			return nil, fmt.Errorf("cycle: %s: %w: %v", l, hal.ErrPeripheralUnavailable, err)
		}
	}
	return s, nil
}

func (s *Scheduler) setupDisplay(d hal.Display) error {
	if d == nil || d.Framebuffer() == nil {
		return fmt.Errorf("cycle: %w: no display", hal.ErrPeripheralUnavailable)
	}
	fb := d.Framebuffer()
	if fb.Format() != hal.PixelFormatMono1Paged {
		return fmt.Errorf("cycle: display format %d unsupported", fb.Format())
	}
	bmp := frame.WrapBitmap(fb.Buffer(), fb.Width(), fb.Height())
	if bmp == nil || fb.Width() < frame.Width || fb.Height() < frame.Height {
		return fmt.Errorf("cycle: display %dx%d too small", fb.Width(), fb.Height())
	}
	s.fb = fb
	s.canvas = frame.NewCanvas(bmp, func(*frame.Bitmap) error { return fb.Present() })
	return nil
}

func (s *Scheduler) setupPins(gpio hal.GPIO) error {
	if gpio == nil {
		return fmt.Errorf("cycle: %w: no gpio", hal.ErrPeripheralUnavailable)
	}
	for _, l := range panel.Lines {
		pin := gpio.Pin(linePins[l])
		if pin == nil {
			return fmt.Errorf("cycle: %s: %w: pin %d missing", l, hal.ErrPeripheralUnavailable, linePins[l])
		}
		if err := pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return fmt.Errorf("cycle: %s: %w: %v", l, hal.ErrPeripheralUnavailable, err)
		}
		s.buttons[l] = pin
	}

	// The status LED is optional.
	if pin := gpio.Pin(hal.PinStatusLED); pin != nil {
		if err := pin.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err == nil {
			s.status = pin
			_ = pin.Write(s.modes.BorderVisible())
		}
	}
	return nil
}

// isAsserted reads an active-low button.
func (s *Scheduler) isAsserted(l panel.Line) (bool, error) {
	level, err := s.buttons[l].Read()
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", hal.ErrPeripheralUnavailable, l, err)
	}
	return !level, nil
}

// OnRawEdge feeds a falling edge on l to the debounce detector. It is what
// the GPIO edge handlers call and is safe from interrupt context.
func (s *Scheduler) OnRawEdge(l panel.Line) bool {
	return s.det.OnRawEdge(l)
}

// press is the clean-press action. It runs on the edge path: it flips the
// mode, applies the mode's immediate side effect and queues the event for
// logging on the next cycle.
func (s *Scheduler) press(l panel.Line) {
	st := enterCritical()
	on := s.modes.Flip(l)
	switch l {
	case panel.JoystickButton:
		if s.status != nil {
			_ = s.status.Write(on)
		}
	case panel.ButtonA:
		if !on {
			errRed := s.pwm.SetDuty(hal.PWMRed, 0)
			errBlue := s.pwm.SetDuty(hal.PWMBlue, 0)
			if errRed != nil || errBlue != nil {
				s.edgeFaults.Add(1)
			}
		}
	}
	exitCritical(st)

	s.events.TrySend(events.Press{Line: l, On: on})
}

// Step runs one cycle: report queued presses, reconcile every line, sample
// the joystick, drive the LEDs, then compose and flush one frame. An error
// wrapping hal.ErrPeripheralUnavailable means the frame was not drawn.
func (s *Scheduler) Step() error {
	s.report()

	if err := s.det.ReconcileAll(); err != nil {
		if errors.Is(err, hal.ErrPeripheralUnavailable) {
			return fmt.Errorf("cycle: reconcile: %w", err)
		}
		if !s.stuckLogged {
			s.logf("debounce: %v", err)
			s.stuckLogged = true
		}
	} else {
		s.stuckLogged = false
	}

	sample, err := s.sample()
	if err != nil {
		return err
	}

	pair, err := s.applyIntensity(sample)
	if err != nil {
		return err
	}

	modes := s.modes.Snapshot()
	if err := frame.Compose(sample, modes, s.canvas); err != nil {
		return peripheralErr("flush", err)
	}

	s.cycles++
	s.last = Snapshot{Cycle: s.cycles, Sample: sample, Modes: modes, Intensity: pair}
	return nil
}

func (s *Scheduler) sample() (panel.Sample, error) {
	x, err := s.analog.ReadAxis(hal.AxisX)
	if err != nil {
		return panel.Sample{}, peripheralErr("sample x", err)
	}
	y, err := s.analog.ReadAxis(hal.AxisY)
	if err != nil {
		return panel.Sample{}, peripheralErr("sample y", err)
	}
	return panel.Sample{X: x, Y: y}, nil
}

// applyIntensity writes both duties while the LEDs are enabled. The check
// and the writes share one critical section with press, so a disable that
// lands mid-cycle cannot be overwritten by stale duties.
func (s *Scheduler) applyIntensity(sample panel.Sample) (intensity.Pair, error) {
	st := enterCritical()
	defer exitCritical(st)

	if !s.modes.LEDsEnabled() {
		return intensity.Pair{}, nil
	}
	pair := s.cfg.Mapper.Derive(sample, true)
	if err := s.pwm.SetDuty(hal.PWMRed, pair.Red); err != nil {
		return pair, peripheralErr("pwm red", err)
	}
	if err := s.pwm.SetDuty(hal.PWMBlue, pair.Blue); err != nil {
		return pair, peripheralErr("pwm blue", err)
	}
	return pair, nil
}

func (s *Scheduler) report() {
	s.events.Drain(func(ev events.Press) {
		s.logf("%s pressed: %s %s", ev.Line, modeName(ev.Line), onOff(ev.On))
	})
	if n := s.events.Dropped(); n > 0 {
		s.logf("events: dropped %d", n)
	}
	if n := s.edgeFaults.Swap(0); n > 0 {
		s.logf("pwm: %d zeroing writes failed", n)
	}
}

// Run steps until ctx is done, pausing Period between cycles. A failed or
// panicking cycle is logged and skipped; it never stops the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.safeStep(); err != nil {
			s.skipped++
			s.logf("cycle %d skipped: %v", s.cycles+s.skipped, err)
		}
		s.clock.Sleep(s.cfg.Period)
	}
}

func (s *Scheduler) safeStep() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle: panic: %v", r)
			if s.OnPanic != nil {
				s.OnPanic(r)
			}
		}
	}()
	return s.Step()
}

// Modes returns the current mode flags.
func (s *Scheduler) Modes() mode.Modes { return s.modes.Snapshot() }

// Last returns the outcome of the most recent completed cycle.
func (s *Scheduler) Last() Snapshot { return s.last }

// Skipped returns how many cycles Run has skipped.
func (s *Scheduler) Skipped() uint64 { return s.skipped }

func (s *Scheduler) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

// peripheralErr tags err as a peripheral failure unless it already is one.
func peripheralErr(op string, err error) error {
	if errors.Is(err, hal.ErrPeripheralUnavailable) {
		return fmt.Errorf("cycle: %s: %w", op, err)
	}
	return fmt.Errorf("cycle: %s: %w: %v", op, hal.ErrPeripheralUnavailable, err)
}

func modeName(l panel.Line) string {
	switch l {
	case panel.JoystickButton:
		return "border"
	case panel.ButtonA:
		return "leds"
	case panel.ButtonB:
		return "grid"
	}
	return "?"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
