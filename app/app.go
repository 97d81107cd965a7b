package app

import (
	"context"
	"fmt"
	"time"

	"joypanel/hal"
	"joypanel/internal/buildinfo"
	"joypanel/panel/cycle"
)

type Config struct {
	Cycle cycle.Config
}

func DefaultConfig() Config {
	return Config{Cycle: cycle.DefaultConfig()}
}

// New sets up the panel on h and logs the boot banner. A cycle that panics
// paints the panic screen before the loop carries on.
func New(h hal.HAL, cfg Config) (*cycle.Scheduler, error) {
	s, err := cycle.New(h, cfg.Cycle)
	if err != nil {
		return nil, err
	}
	s.OnPanic = panicHandler(h)
	logLine(h, fmt.Sprintf("joypanel %s ready", buildinfo.Short()))
	return s, nil
}

// Serve runs the panel on h until ctx is done.
func Serve(ctx context.Context, h hal.HAL, cfg Config) error {
	s, err := New(h, cfg)
	if err != nil {
		logLine(h, "joypanel: "+err.Error())
		return err
	}
	return s.Run(ctx)
}

// Run starts the panel and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func RunWithConfig(h hal.HAL, cfg Config) {
	_ = Serve(context.Background(), h, cfg)
	fault(h)
}

const faultBlink = 250 * time.Millisecond

// fault blinks the board LED forever. Only reached when setup failed.
func fault(h hal.HAL) {
	led, clock := h.LED(), h.Clock()
	if led == nil || clock == nil {
		select {}
	}
	for {
		led.High()
		clock.Sleep(faultBlink)
		led.Low()
		clock.Sleep(faultBlink)
	}
}

func logLine(h hal.HAL, s string) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(s)
	}
}
