//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"

	"joypanel/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const windowScale = 5

// RunWindow opens a desktop window that shows the simulated panel and maps
// the keyboard onto its buttons and joystick. run executes on its own
// goroutine. It blocks until the window closes, ctx is done or run
// returns.
func RunWindow(ctx context.Context, cfg HostConfig, run RunFunc) error {
	if run == nil {
		return errors.New("window: nil run func")
	}
	h := newHost(cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{h: h, ctx: ctx, done: done}
	ebiten.SetWindowTitle("joypanel (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, (h.fb.height+statusStripHeight)*windowScale)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(g)
	cancel()
	if !g.finished {
		g.runErr = <-done
	}
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err == nil && g.runErr != nil && !errors.Is(g.runErr, context.Canceled) {
		err = g.runErr
	}
	return err
}

type hostGame struct {
	h        *hostHAL
	ctx      context.Context
	done     <-chan error
	finished bool
	runErr   error
	held     controlState

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.runErr = err
		g.finished = true
		return ebiten.Termination
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if quit := g.pollKeys(); quit {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.width, fb.height+statusStripHeight
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(w, h)
	}

	renderPanel(g.img, fb.width, fb.height, g.h.view(g.scratch))

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + statusStripHeight
}
