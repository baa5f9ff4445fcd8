//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func (in *hostInput) poll() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		in.emit(InputEncoderUp, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		in.emit(InputEncoderDown, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		in.emit(InputClick, 0)
	}

	// Wheel notches map to encoder detents.
	if _, dy := ebiten.Wheel(); dy > 0 {
		in.emit(InputEncoderUp, 1)
	} else if dy < 0 {
		in.emit(InputEncoderDown, 1)
	}

	// Space holds the raw button pin, which is what the halt screens poll.
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		in.setButton(true)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		in.setButton(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		in.toggleFilament()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		in.thermalRunaway()
	}
}
