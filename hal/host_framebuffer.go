//go:build !tinygo

package hal

import (
	"strings"
	"sync"
)

// hostFramebuffer is a simulated 1bpp panel. The cycle draws into buf;
// Present copies it to shown, which is what front-ends render.
type hostFramebuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	buf      []byte
	shown    []byte
	presents uint64

	onPresent func(n uint64)
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	n := width * ((height + 7) / 8)
	return &hostFramebuffer{
		width:  width,
		height: height,
		buf:    make([]byte, n),
		shown:  make([]byte, n),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatMono1Paged }
func (f *hostFramebuffer) StrideBytes() int    { return f.width }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	copy(f.shown, f.buf)
	f.presents++
	n := f.presents
	hook := f.onPresent
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

// snapshot copies the last presented frame into dst and returns the number
// of frames presented so far.
func (f *hostFramebuffer) snapshot(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.shown)
	return f.presents
}

func (f *hostFramebuffer) presentCount() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

func (f *hostFramebuffer) setPresentHook(fn func(n uint64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPresent = fn
}

// ascii renders the last presented frame, '#' for lit pixels.
func (f *hostFramebuffer) ascii() string {
	buf := make([]byte, len(f.shown))
	f.snapshot(buf)

	var b strings.Builder
	b.Grow((f.width + 1) * f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if monoPixel(buf, f.width, x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
