//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	"joypanel/app"
	"joypanel/hal"
	"joypanel/internal/buildinfo"
	"joypanel/panel/cycle"
)

func main() {
	a := cli.NewApp()
	a.Name = "joypanel"
	a.Usage = "simulate the joystick panel on the host"
	a.Version = buildinfo.String()
	a.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "frontend",
			Value: "window",
			Usage: "window, terminal or headless",
		},
		cli.DurationFlag{
			Name:  "period",
			Value: cycle.DefaultConfig().Period,
			Usage: "pause between cycles",
		},
		cli.DurationFlag{
			Name:  "settle",
			Value: cycle.DefaultConfig().Debounce.SettleDelay,
			Usage: "button release settle delay",
		},
		cli.IntFlag{
			Name:  "bounce",
			Usage: "spurious contact edges added to every simulated press and release",
		},
		cli.BoolFlag{
			Name:  "fast",
			Usage: "use a virtual clock instead of sleeping",
		},
		cli.Uint64Flag{
			Name:  "frames",
			Usage: "stop after N frames in headless mode (0 = run until interrupted)",
		},
		cli.StringFlag{
			Name:  "snapshot",
			Usage: "write the last headless frame as ASCII art to this file",
		},
		cli.IntFlag{
			Name:  "stick-x",
			Value: 2048,
			Usage: "joystick X reading held in headless mode",
		},
		cli.IntFlag{
			Name:  "stick-y",
			Value: 2048,
			Usage: "joystick Y reading held in headless mode",
		},
		cli.StringFlag{
			Name:  "press",
			Usage: "comma-separated buttons (joy, a, b) pressed after the first headless frame",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "log at debug level",
		},
	}
	a.Action = runPanel

	if err := a.Run(os.Args); err != nil {
		slog.Error("joypanel failed", "error", err)
		os.Exit(1)
	}
}

func runPanel(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := app.DefaultConfig()
	cfg.Cycle.Period = c.Duration("period")
	cfg.Cycle.Debounce.SettleDelay = c.Duration("settle")

	host := hal.HostConfig{
		Bounce:    c.Int("bounce"),
		FastClock: c.Bool("fast"),
	}
	run := func(ctx context.Context, h hal.HAL) error {
		return app.Serve(ctx, h, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frontend := c.String("frontend")
	slog.Debug("starting", "frontend", frontend, "period", cfg.Cycle.Period, "bounce", host.Bounce, "fast", host.FastClock)

	var err error
	switch frontend {
	case "window":
		err = hal.RunWindow(ctx, host, run)
	case "terminal":
		err = hal.RunTerminal(ctx, host, run)
	case "headless":
		var presses []int
		presses, err = parsePresses(c.String("press"))
		if err != nil {
			return err
		}
		host.FastClock = host.FastClock || c.Uint64("frames") > 0
		err = hal.RunHeadless(ctx, run, hal.HeadlessConfig{
			Host:      host,
			Frames:    c.Uint64("frames"),
			Snapshot:  c.String("snapshot"),
			Press:     presses,
			HoldStick: true,
			StickX:    clampAxis(c.Int("stick-x")),
			StickY:    clampAxis(c.Int("stick-y")),
		})
		if err == nil && c.String("snapshot") != "" {
			slog.Info("snapshot written", "path", c.String("snapshot"))
		}
	default:
		return fmt.Errorf("unknown frontend %q", frontend)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func parsePresses(s string) ([]int, error) {
	var ids []int
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "joy", "joystick":
			ids = append(ids, hal.PinJoystickButton)
		case "a":
			ids = append(ids, hal.PinButtonA)
		case "b":
			ids = append(ids, hal.PinButtonB)
		default:
			return nil, fmt.Errorf("unknown button %q", name)
		}
	}
	return ids, nil
}

func clampAxis(v int) uint16 {
	return uint16(max(0, min(v, 4095)))
}
