package main

import (
	"github.com/n-ulricksen/nes-emulator/nes"

	"github.com/faiface/pixel/pixelgl"
)

var controllerKeys = map[byte]pixelgl.Button{
	nes.ButtonRight:  pixelgl.KeyD,
	nes.ButtonLeft:   pixelgl.KeyA,
	nes.ButtonDown:   pixelgl.KeyS,
	nes.ButtonUp:     pixelgl.KeyW,
	nes.ButtonStart:  pixelgl.KeyEnter,
	nes.ButtonSelect: pixelgl.KeyRightShift,
	nes.ButtonB:      pixelgl.KeyK,
	nes.ButtonA:      pixelgl.KeyJ,
}

// Emulator controls.
const (
	keyReset        = pixelgl.KeyR
	keyQuit         = pixelgl.KeyEscape
	keyDebugPalette = pixelgl.KeyP
	keyDumpMem      = pixelgl.KeyM
)

// controllerState returns a byte, with each bit representing the state of a
// button on the controller.
func controllerState(win *pixelgl.Window) byte {
	var state byte

	for button, key := range controllerKeys {
		if win.Pressed(key) {
			state |= button
		}
	}

	return state
}
