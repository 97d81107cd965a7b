//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var controlKeys = [numControls][]ebiten.Key{
	ctlJoystickButton: {ebiten.KeySpace, ebiten.KeyJ},
	ctlButtonA:        {ebiten.KeyZ, ebiten.KeyK},
	ctlButtonB:        {ebiten.KeyX, ebiten.KeyL},
	ctlLeft:           {ebiten.KeyArrowLeft, ebiten.KeyA},
	ctlRight:          {ebiten.KeyArrowRight, ebiten.KeyD},
	ctlUp:             {ebiten.KeyArrowUp, ebiten.KeyW},
	ctlDown:           {ebiten.KeyArrowDown, ebiten.KeyS},
}

// pollKeys forwards keyboard state to the simulated devices and reports
// whether quit was requested.
func (g *hostGame) pollKeys() bool {
	var cur controlState
	for c, keys := range controlKeys {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				cur[c] = true
				break
			}
		}
	}
	g.h.applyControls(g.held, cur)
	g.held = cur

	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
}
