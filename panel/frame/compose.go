// Package frame builds the 128x64 monochrome panel image from the current
// joystick sample and modes.
package frame

import (
	"joypanel/panel"
	"joypanel/panel/mode"
)

// Sink receives the drawing instructions for one frame. Compose calls
// Clear, then FillRect any number of times, then Flush exactly once.
type Sink interface {
	Clear()
	FillRect(x, y, w, h int16, filled bool)
	Flush() error
}

const (
	CursorSize = 8

	GridCell   = 5
	GridStep   = 20
	GridOffset = 10
	gridLimitX = Width - CursorSize
	gridLimitY = Height - CursorSize
)

// Cursor returns the top-left corner of the cursor square for s. Raising
// the Y reading moves the cursor up.
func Cursor(s panel.Sample) (x, y int16) {
	rx := uint32(min(s.X, panel.AxisMax))
	ry := uint32(min(s.Y, panel.AxisMax))
	x = int16(rx * (Width - CursorSize) / panel.AxisMax)
	y = int16((panel.AxisMax - ry) * (Height - CursorSize) / panel.AxisMax)
	return x, y
}

// GridSquares returns the number of squares drawn when the grid is visible.
func GridSquares() int {
	n := 0
	for x := GridOffset; x < gridLimitX; x += GridStep {
		for y := GridOffset; y < gridLimitY; y += GridStep {
			n++
		}
	}
	return n
}

// Compose draws one frame into dst. The output depends on s and m only.
func Compose(s panel.Sample, m mode.Modes, dst Sink) error {
	dst.Clear()

	cx, cy := Cursor(s)
	dst.FillRect(cx, cy, CursorSize, CursorSize, true)

	if m.BorderVisible {
		dst.FillRect(0, 0, Width, Height, false)
	}

	if m.GridVisible {
		for x := int16(GridOffset); x < gridLimitX; x += GridStep {
			for y := int16(GridOffset); y < gridLimitY; y += GridStep {
				dst.FillRect(x, y, GridCell, GridCell, true)
			}
		}
	}

	return dst.Flush()
}

// Canvas is a Sink that draws into a Bitmap and hands it to present on
// Flush.
type Canvas struct {
	*Bitmap
	present func(*Bitmap) error
}

func NewCanvas(b *Bitmap, present func(*Bitmap) error) *Canvas {
	return &Canvas{Bitmap: b, present: present}
}

func (c *Canvas) Flush() error {
	if c.present == nil {
		return nil
	}
	return c.present(c.Bitmap)
}
