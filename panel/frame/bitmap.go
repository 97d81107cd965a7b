package frame

import (
	"image/color"

	"tinygo.org/x/drivers"
)

const (
	Width  = 128
	Height = 64

	// BufferSize is the byte length of a Width x Height 1bpp bitmap.
	BufferSize = Width * Height / 8
)

// Bitmap is a 1bpp image in SSD1306 page order: pixel (x, y) lives in byte
// x + (y/8)*width, bit y%8. The same bytes can be flushed to the panel
// as-is.
type Bitmap struct {
	w, h int
	buf  []byte
}

var _ drivers.Displayer = (*Bitmap)(nil)

// NewBitmap allocates a Width x Height bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{w: Width, h: Height, buf: make([]byte, BufferSize)}
}

// WrapBitmap draws into buf, which must hold at least w*h/8 bytes with h a
// multiple of 8. It returns nil when buf is too short.
func WrapBitmap(buf []byte, w, h int) *Bitmap {
	if w <= 0 || h <= 0 || h%8 != 0 || len(buf) < w*h/8 {
		return nil
	}
	return &Bitmap{w: w, h: h, buf: buf[:w*h/8]}
}

func (b *Bitmap) Width() int    { return b.w }
func (b *Bitmap) Height() int   { return b.h }
func (b *Bitmap) Bytes() []byte { return b.buf }

func (b *Bitmap) Clear() {
	for i := range b.buf {
		b.buf[i] = 0
	}
}

func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return
	}
	i := x + (y/8)*b.w
	mask := byte(1) << uint(y%8)
	if on {
		b.buf[i] |= mask
	} else {
		b.buf[i] &^= mask
	}
}

func (b *Bitmap) Pixel(x, y int) bool {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return false
	}
	return b.buf[x+(y/8)*b.w]&(1<<uint(y%8)) != 0
}

// FillRect lights a w x h rectangle at (x, y), clipped to the bitmap.
// With filled false only the one-pixel outline is drawn.
func (b *Bitmap) FillRect(x, y, w, h int16, filled bool) {
	if w <= 0 || h <= 0 {
		return
	}
	if filled {
		x0 := clampInt(int(x), 0, b.w)
		y0 := clampInt(int(y), 0, b.h)
		x1 := clampInt(int(x)+int(w), 0, b.w)
		y1 := clampInt(int(y)+int(h), 0, b.h)
		for py := y0; py < y1; py++ {
			for px := x0; px < x1; px++ {
				b.Set(px, py, true)
			}
		}
		return
	}

	right := int(x) + int(w) - 1
	bottom := int(y) + int(h) - 1
	for px := int(x); px <= right; px++ {
		b.Set(px, int(y), true)
		b.Set(px, bottom, true)
	}
	for py := int(y); py <= bottom; py++ {
		b.Set(int(x), py, true)
		b.Set(right, py, true)
	}
}

// Count returns the number of lit pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.buf {
		for ; v != 0; v &= v - 1 {
			n++
		}
	}
	return n
}

// Size, SetPixel and Display let tinyfont draw into the bitmap. Any
// non-black colour lights the pixel.
func (b *Bitmap) Size() (x, y int16) { return int16(b.w), int16(b.h) }

func (b *Bitmap) SetPixel(x, y int16, c color.RGBA) {
	b.Set(int(x), int(y), c.R|c.G|c.B != 0)
}

func (b *Bitmap) Display() error { return nil }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
