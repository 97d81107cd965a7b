package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
	GPIOCapEdge
)

// GPIOEdge selects which level transition fires an edge handler.
type GPIOEdge uint8

const (
	GPIOEdgeFalling GPIOEdge = 1 << iota
	GPIOEdgeRising
)

// GPIO provides access to general-purpose IO pins.
//
// Implementations may return nil if GPIO is unsupported.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
//
// Edge handlers may run in interrupt context and must not block.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
	SetEdgeHandler(edge GPIOEdge, fn func()) error
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int      { return 0 }
func (nullGPIO) Pin(id int) GPIOPin { return nil }

type virtualGPIO struct {
	pins []GPIOPin
}

func newVirtualGPIO(pins []GPIOPin) GPIO {
	if len(pins) == 0 {
		return nullGPIO{}
	}
	return &virtualGPIO{pins: pins}
}

func (g *virtualGPIO) PinCount() int {
	if g == nil {
		return 0
	}
	return len(g.pins)
}

func (g *virtualGPIO) Pin(id int) GPIOPin {
	if g == nil || id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

// virtualPin is a simulated input whose level is driven by a front-end.
// Edge handlers run synchronously on the goroutine that drives the level.
type virtualPin struct {
	mu         sync.Mutex
	name       string
	caps       GPIOCaps
	mode       GPIOMode
	pull       GPIOPull
	configured bool
	level      bool
	edge       GPIOEdge
	handler    func()
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{
		name: name,
		caps: caps,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
		p.level = true
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
		p.level = false
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	p.configured = true
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured || p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

func (p *virtualPin) SetEdgeHandler(edge GPIOEdge, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.caps&GPIOCapEdge == 0 {
		return fmt.Errorf("gpio: pin %s: edge interrupts: %w", p.name, ErrNotImplemented)
	}
	p.edge = edge
	p.handler = fn
	return nil
}

// drive sets the external level of an input and fires the edge handler on
// a matching transition. The handler runs without the pin lock held.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	prev := p.level
	p.level = level
	fn := p.handler
	edge := p.edge
	p.mu.Unlock()

	if fn == nil || prev == level {
		return
	}
	if (!level && edge&GPIOEdgeFalling != 0) || (level && edge&GPIOEdgeRising != 0) {
		fn()
	}
}

// press pulls an active-low button to ground. bounce adds that many
// release/contact pairs after the first contact, each one another falling
// edge.
func (p *virtualPin) press(bounce int) {
	p.drive(false)
	for i := 0; i < bounce; i++ {
		p.drive(true)
		p.drive(false)
	}
}

// release lets the pull-up win again, chattering bounce times first.
func (p *virtualPin) release(bounce int) {
	p.drive(true)
	for i := 0; i < bounce; i++ {
		p.drive(false)
		p.drive(true)
	}
}

func (p *virtualPin) pressed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.level
}

type ledPin struct {
	mu    sync.Mutex
	led   LED
	name  string
	level bool
}

func newLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string   { return p.name }
func (p *ledPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *ledPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}

func (p *ledPin) SetEdgeHandler(GPIOEdge, func()) error {
	return fmt.Errorf("gpio: pin %s: edge interrupts: %w", p.name, ErrNotImplemented)
}
