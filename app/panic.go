package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"joypanel/hal"
	"joypanel/internal/buildinfo"
	"joypanel/panel/frame"
)

// panicHold keeps the panic screen up before the next cycle redraws.
const panicHold = 2 * time.Second

func panicHandler(h hal.HAL) func(v any) {
	return func(v any) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("joypanel panic: %v", v))
			for _, line := range strings.Split(string(debug.Stack()), "\n") {
				if line == "" {
					continue
				}
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil || fb.Format() != hal.PixelFormatMono1Paged {
			return
		}
		b := frame.WrapBitmap(fb.Buffer(), fb.Width(), fb.Height())
		if b == nil {
			return
		}
		drawPanic(b, v)
		if err := fb.Present(); err != nil {
			return
		}
		if c := h.Clock(); c != nil {
			c.Sleep(panicHold)
		}
	}
}

const (
	panicLineHeight = 10
	panicBaseline   = 8
	panicMargin     = 3
)

var panicFont = &proggy.TinySZ8pt7b

// drawPanic paints a framed panic report onto b.
func drawPanic(b *frame.Bitmap, v any) {
	b.Clear()
	w, h := b.Size()
	b.FillRect(0, 0, w, h, false)

	_, glyphW := tinyfont.LineWidth(panicFont, "0")
	if glyphW == 0 {
		return
	}
	cols := (w - 2*panicMargin) / int16(glyphW)

	lines := []string{"PANIC " + buildinfo.Short()}
	msg := fmt.Sprint(v)
	for len(msg) > 0 {
		chunk, rest := takeRunes(msg, cols)
		lines = append(lines, chunk)
		msg = strings.TrimLeft(rest, " ")
	}

	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	y := int16(panicMargin)
	for _, line := range lines {
		if y+panicLineHeight > h-panicMargin {
			break
		}
		tinyfont.WriteLine(b, panicFont, panicMargin, y+panicBaseline, line, fg)
		y += panicLineHeight
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, int16(0)
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
