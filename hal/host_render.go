//go:build !tinygo

package hal

import (
	"fmt"
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const statusStripHeight = 14

var (
	pixelOn    = color.RGBA{R: 0xC8, G: 0xE8, B: 0xFF, A: 0xFF}
	pixelOff   = color.RGBA{A: 0xFF}
	stripBG    = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
	stripText  = color.RGBA{R: 0xD0, G: 0xD0, B: 0xD0, A: 0xFF}
	ledGreenOn = color.RGBA{G: 0xFF, A: 0xFF}
	ledOff     = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
)

// panelView is everything a front-end shows for one redraw.
type panelView struct {
	frame []byte
	led   bool
	red   uint16
	blue  uint16
}

func (h *hostHAL) view(frame []byte) panelView {
	h.fb.snapshot(frame)
	return panelView{
		frame: frame,
		led:   h.led.on.Load(),
		red:   h.pwm.Duty(PWMRed),
		blue:  h.pwm.Duty(PWMBlue),
	}
}

// rgbaDisplay lets tinyfont draw into an image.RGBA.
type rgbaDisplay struct {
	img *image.RGBA
}

var _ drivers.Displayer = rgbaDisplay{}

func (d rgbaDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d rgbaDisplay) SetPixel(x, y int16, c color.RGBA) { d.img.SetRGBA(int(x), int(y), c) }
func (d rgbaDisplay) Display() error                   { return nil }

// renderPanel draws the simulated OLED into the top of img and a status
// strip (duty readout, status LED, two intensity swatches) below it.
func renderPanel(img *image.RGBA, width, height int, v panelView) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixelOff
			if monoPixel(v.frame, width, x, y) {
				c = pixelOn
			}
			img.SetRGBA(x, y, c)
		}
	}

	fillRGBA(img, image.Rect(0, height, width, height+statusStripHeight), stripBG)

	text := fmt.Sprintf("R%3d%% B%3d%%", dutyPercent(v.red), dutyPercent(v.blue))
	tinyfont.WriteLine(rgbaDisplay{img: img}, &proggy.TinySZ8pt7b, 2, int16(height+10), text, stripText)

	sw := image.Rect(0, 0, 10, 8)
	top := height + 3
	led := ledOff
	if v.led {
		led = ledGreenOn
	}
	fillRGBA(img, sw.Add(image.Pt(width-38, top)), led)
	fillRGBA(img, sw.Add(image.Pt(width-25, top)), color.RGBA{R: pwmLevel(v.red), A: 0xFF})
	fillRGBA(img, sw.Add(image.Pt(width-12, top)), color.RGBA{B: pwmLevel(v.blue), A: 0xFF})
}

func fillRGBA(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func dutyPercent(duty uint16) int {
	return int(duty) * 100 / 0xFFFF
}
