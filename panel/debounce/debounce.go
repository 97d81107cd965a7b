// Package debounce turns raw falling edges on the button lines into exactly
// one press per physical press-and-release.
//
// OnRawEdge runs on the edge path (an interrupt handler on hardware) and
// never blocks: it arms the line's guard flag and fires the press action
// once. Reconcile runs on the main cycle and clears the guard only after
// the line has been seen released across two settle pauses, so contact
// bounce on either transition cannot produce a second press.
package debounce

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"joypanel/panel"
)

// ErrStuck reports a line that stayed asserted for the whole bounded
// release wait. The guard stays armed; the next Reconcile tries again.
var ErrStuck = errors.New("debounce: line did not release")

// Reader reports whether a line is currently asserted (pressed).
type Reader interface {
	IsAsserted(l panel.Line) (bool, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(l panel.Line) (bool, error)

func (f ReaderFunc) IsAsserted(l panel.Line) (bool, error) { return f(l) }

type Config struct {
	// SettleDelay is each of the two pauses of the release-settle wait.
	SettleDelay time.Duration
	// PollInterval is the first pause while waiting out a bounce; it
	// doubles on every poll up to SettleDelay.
	PollInterval time.Duration
	// MaxPolls bounds the bounce wait. With the defaults a line that never
	// releases blocks the cycle for about two seconds.
	MaxPolls int
}

func DefaultConfig() Config {
	return Config{
		SettleDelay:  50 * time.Millisecond,
		PollInterval: time.Millisecond,
		MaxPolls:     40,
	}
}

type Detector struct {
	cfg   Config
	read  Reader
	sleep func(time.Duration)
	press func(panel.Line)

	armed [panel.NumLines]atomic.Bool
}

// New returns a detector that calls press once per accepted edge. sleep
// implements the settle pauses; nil uses time.Sleep.
func New(cfg Config, read Reader, sleep func(time.Duration), press func(panel.Line)) *Detector {
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = DefaultConfig().MaxPolls
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	if press == nil {
		press = func(panel.Line) {}
	}
	return &Detector{cfg: cfg, read: read, sleep: sleep, press: press}
}

// OnRawEdge handles a released-to-asserted transition on l. It reports
// whether the edge was accepted as a new press.
func (d *Detector) OnRawEdge(l panel.Line) bool {
	if int(l) >= panel.NumLines {
		return false
	}
	if !d.armed[l].CompareAndSwap(false, true) {
		return false
	}
	d.press(l)
	return true
}

// Armed reports whether a press on l is still being resolved.
func (d *Detector) Armed(l panel.Line) bool {
	if int(l) >= panel.NumLines {
		return false
	}
	return d.armed[l].Load()
}

// Reconcile runs the release-settle wait for l when its guard is armed and
// the line reads released. It blocks the caller for the wait.
func (d *Detector) Reconcile(l panel.Line, asserted bool) error {
	if int(l) >= panel.NumLines {
		return fmt.Errorf("debounce: unknown line %d", l)
	}
	if asserted || !d.armed[l].Load() {
		return nil
	}

	d.sleep(d.cfg.SettleDelay)

	asserted, err := d.read.IsAsserted(l)
	if err != nil {
		return fmt.Errorf("debounce: %s: %w", l, err)
	}
	if asserted {
		if err := d.awaitRelease(l); err != nil {
			return err
		}
	}

	d.sleep(d.cfg.SettleDelay)
	d.armed[l].Store(false)
	return nil
}

func (d *Detector) awaitRelease(l panel.Line) error {
	wait := d.cfg.PollInterval
	for polls := 0; polls < d.cfg.MaxPolls; polls++ {
		d.sleep(wait)
		asserted, err := d.read.IsAsserted(l)
		if err != nil {
			return fmt.Errorf("debounce: %s: %w", l, err)
		}
		if !asserted {
			return nil
		}
		if wait < d.cfg.SettleDelay {
			wait *= 2
			if wait > d.cfg.SettleDelay {
				wait = d.cfg.SettleDelay
			}
		}
	}
	return fmt.Errorf("%w: %s after %d polls", ErrStuck, l, d.cfg.MaxPolls)
}

// ReconcileAll reads and reconciles every line. A failure on one line does
// not stop the others; all failures are joined.
func (d *Detector) ReconcileAll() error {
	var errs []error
	for _, l := range panel.Lines {
		asserted, err := d.read.IsAsserted(l)
		if err != nil {
			errs = append(errs, fmt.Errorf("debounce: %s: %w", l, err))
			continue
		}
		if err := d.Reconcile(l, asserted); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
