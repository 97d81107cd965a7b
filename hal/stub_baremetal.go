//go:build tinygo && baremetal

package hal

import "fmt"

// stubFramebuffer stands in for a display that failed to initialize. The
// cycle still draws into it; every Present reports the failure.
type stubFramebuffer struct {
	w   int
	h   int
	buf []byte
	err error
}

func (f *stubFramebuffer) Width() int          { return f.w }
func (f *stubFramebuffer) Height() int         { return f.h }
func (f *stubFramebuffer) Format() PixelFormat { return PixelFormatMono1Paged }
func (f *stubFramebuffer) StrideBytes() int    { return f.w }

func (f *stubFramebuffer) Buffer() []byte {
	if f.buf == nil {
		f.buf = make([]byte, f.w*f.h/8)
	}
	return f.buf
}

func (f *stubFramebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

func (f *stubFramebuffer) Present() error {
	if f.err != nil {
		return fmt.Errorf("display: %w: %v", ErrPeripheralUnavailable, f.err)
	}
	return fmt.Errorf("display: %w", ErrPeripheralUnavailable)
}
