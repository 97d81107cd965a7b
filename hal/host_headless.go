//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig
	// Frames stops the run after that many presented frames; 0 runs until
	// ctx is done.
	Frames uint64
	// Snapshot, when set, receives the last presented frame as ASCII art.
	Snapshot string
	// HoldStick holds the joystick at StickX, StickY for the whole run;
	// otherwise it stays centred.
	HoldStick      bool
	StickX, StickY uint16
	// Press lists button pin IDs pressed and released after the first frame.
	Press []int
}

// RunHeadless runs the panel without opening a window.
func RunHeadless(ctx context.Context, run RunFunc, cfg HeadlessConfig) error {
	if run == nil {
		return errors.New("headless: nil run func")
	}
	h := newHost(cfg.Host)
	if cfg.HoldStick {
		h.stick.set(cfg.StickX, cfg.StickY)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var budgetHit atomic.Bool
	h.fb.setPresentHook(func(n uint64) {
		// Buttons are pressed once the pins are configured, i.e. after the
		// first frame.
		if n == 1 {
			for _, id := range cfg.Press {
				h.pressButton(id)
				h.releaseButton(id)
			}
		}
		if cfg.Frames > 0 && n >= cfg.Frames {
			budgetHit.Store(true)
			cancel()
		}
	})

	err := run(ctx, h)
	if budgetHit.Load() && errors.Is(err, context.Canceled) {
		err = nil
	}

	if cfg.Snapshot != "" {
		if werr := os.WriteFile(cfg.Snapshot, []byte(h.fb.ascii()), 0o644); werr != nil {
			return errors.Join(err, fmt.Errorf("headless: write snapshot: %w", werr))
		}
	}
	return err
}
