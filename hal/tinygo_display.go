//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
)

const (
	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64
)

// ssd1306Framebuffer keeps a page-ordered buffer and pushes it whole on
// Present.
type ssd1306Framebuffer struct {
	dev *ssd1306.Device
	buf []byte
}

func newSSD1306Framebuffer(bus *machine.I2C, sda, scl machine.Pin) (*ssd1306Framebuffer, error) {
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       sda,
		SCL:       scl,
	}); err != nil {
		return nil, fmt.Errorf("i2c: %w", err)
	}
	time.Sleep(10 * time.Millisecond)

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address:  oledAddress,
		Width:    oledWidth,
		Height:   oledHeight,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()

	return &ssd1306Framebuffer{
		dev: &dev,
		buf: make([]byte, oledWidth*oledHeight/8),
	}, nil
}

func (f *ssd1306Framebuffer) Width() int          { return oledWidth }
func (f *ssd1306Framebuffer) Height() int         { return oledHeight }
func (f *ssd1306Framebuffer) Format() PixelFormat { return PixelFormatMono1Paged }
func (f *ssd1306Framebuffer) StrideBytes() int    { return oledWidth }
func (f *ssd1306Framebuffer) Buffer() []byte      { return f.buf }

func (f *ssd1306Framebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

func (f *ssd1306Framebuffer) Present() error {
	if err := f.dev.SetBuffer(f.buf); err != nil {
		return fmt.Errorf("display: %w: %v", ErrPeripheralUnavailable, err)
	}
	if err := f.dev.Display(); err != nil {
		return fmt.Errorf("display: %w: %v", ErrPeripheralUnavailable, err)
	}
	return nil
}
