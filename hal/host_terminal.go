//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	terminalFrameTime = time.Second / 30

	// Terminals report key presses but never releases; a control counts as
	// held until no repeat arrives for this long.
	terminalKeyTimeout = 150 * time.Millisecond

	terminalLogLines = 6
)

// RunTerminal shows the simulated panel in the terminal using half-block
// characters, with a status line and a log pane below it. run executes on
// its own goroutine; panel log lines and slog output go to the pane.
func RunTerminal(ctx context.Context, cfg HostConfig, run RunFunc) error {
	if run == nil {
		return errors.New("terminal: nil run func")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	logs := NewLogBuffer(64)
	prev := slog.Default()
	slog.SetDefault(slog.New(logs.Handler(slog.LevelInfo)))
	defer slog.SetDefault(prev)

	h := newHost(cfg)
	h.logger = logs
	h.led.logger = logs

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	t := &terminalView{
		screen:  screen,
		h:       h,
		logs:    logs,
		seen:    make(map[control]time.Time),
		scratch: make([]byte, len(h.fb.buf)),
	}

	ticker := time.NewTicker(terminalFrameTime)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case now := <-ticker.C:
			if t.pollEvents(now) {
				cancel()
			}
			t.expire(now)
			t.draw()
		}
	}
}

type terminalView struct {
	screen  tcell.Screen
	h       *hostHAL
	logs    *LogBuffer
	seen    map[control]time.Time
	held    controlState
	scratch []byte
}

// pollEvents drains pending terminal events and reports whether quit was
// requested.
func (t *terminalView) pollEvents(now time.Time) bool {
	quit := false
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if c, ok := terminalControl(ev); ok {
				t.seen[c] = now
				continue
			}
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				quit = true
			case tcell.KeyRune:
				if ev.Rune() == 'q' || ev.Rune() == 'Q' {
					quit = true
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	return quit
}

func terminalControl(ev *tcell.EventKey) (control, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return ctlLeft, true
	case tcell.KeyRight:
		return ctlRight, true
	case tcell.KeyUp:
		return ctlUp, true
	case tcell.KeyDown:
		return ctlDown, true
	case tcell.KeyRune:
		return runeControl(ev.Rune())
	}
	return 0, false
}

// expire recomputes which controls are held and forwards the changes.
func (t *terminalView) expire(now time.Time) {
	var cur controlState
	for c, last := range t.seen {
		if now.Sub(last) < terminalKeyTimeout {
			cur[c] = true
		} else {
			delete(t.seen, c)
		}
	}
	t.h.applyControls(t.held, cur)
	t.held = cur
}

func (t *terminalView) draw() {
	s := t.screen
	s.Clear()

	v := t.h.view(t.scratch)
	w, hgt := t.h.fb.width, t.h.fb.height
	on := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	// Two pixel rows per terminal row.
	for row := 0; row < hgt/2; row++ {
		for x := 0; x < w; x++ {
			top := monoPixel(v.frame, w, x, row*2)
			bottom := monoPixel(v.frame, w, x, row*2+1)
			r := ' '
			switch {
			case top && bottom:
				r = '█'
			case top:
				r = '▀'
			case bottom:
				r = '▄'
			}
			s.SetContent(x, row, r, nil, on)
		}
	}

	y := hgt / 2
	led := "off"
	if v.led {
		led = "ON "
	}
	status := fmt.Sprintf("status LED %s  red %3d%%  blue %3d%%", led, dutyPercent(v.red), dutyPercent(v.blue))
	drawText(s, 0, y, status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	drawText(s, 0, y+1, keyHelp, tcell.StyleDefault.Foreground(tcell.ColorGray))

	entries := t.logs.Recent(terminalLogLines)
	for i := range entries {
		// oldest at the top
		e := entries[len(entries)-1-i]
		drawText(s, 0, y+2+i, FormatLogEntry(e), tcell.StyleDefault.Foreground(tcell.ColorSilver))
	}

	s.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
