package main

import (
	"image"
	"image/color"
	"log"

	"github.com/n-ulricksen/nes-emulator/nes"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

type Display struct {
	rgba *image.RGBA // Rectangle of RGBA points, used to manipulate pixels on the screen.

	window     *pixelgl.Window
	gameMatrix pixel.Matrix // Scale and position to render the running NES game.

	// Debug panel, nil when disabled.
	debugText    *text.Text
	patternRGBA  [2]*image.RGBA
	debugPalette byte
}

const (
	// Main NES display settings
	nesResW    float64 = nes.ScreenWidth
	nesResH    float64 = nes.ScreenHeight
	screenPosX float64 = 600 // Where to render the display on the user's monitor.
	screenPosY float64 = 400

	// Debug display settings
	debugResW    float64 = 300
	patternTileW float64 = 128
)

func NewDisplay(scale float64, debug bool) *Display {
	rect := image.Rect(0, 0, int(nesResW), int(nesResH))
	rgba := image.NewRGBA(rect)

	screenW := nesResW * scale
	screenH := nesResH * scale

	width := screenW
	if debug {
		width += debugResW
	}

	config := pixelgl.WindowConfig{
		Title:    "NES Emulator",
		Bounds:   pixel.R(0, 0, width, screenH),
		Position: pixel.V(screenPosX, screenPosY),
		VSync:    true,
	}
	window, err := pixelgl.NewWindow(config)
	if err != nil {
		log.Fatal("Unable to create new PixelGl window...\n", err)
	}

	// Calculate matrix recquired to render game to display based on the set scale.
	pic := pixel.PictureDataFromImage(rgba)

	matrix := pixel.IM.Moved(pic.Bounds().Center().Scaled(scale))
	matrix = matrix.Scaled(pic.Bounds().Center().Scaled(scale), scale)

	d := &Display{
		rgba:       rgba,
		window:     window,
		gameMatrix: matrix,
	}

	if debug {
		atlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
		d.debugText = text.New(pixel.V(screenW+8, screenH-16), atlas)
		d.debugText.Color = colornames.White

		for i := range d.patternRGBA {
			d.patternRGBA[i] = image.NewRGBA(image.Rect(0, 0, 128, 128))
		}
	}

	return d
}

// DrawFrame converts a frame of system palette indices to RGB.
func (d *Display) DrawFrame(screen []byte, palette *Palette) {
	for y := 0; y < nes.ScreenHeight; y++ {
		for x := 0; x < nes.ScreenWidth; x++ {
			d.DrawPixel(x, y, palette.Color(screen[y*nes.ScreenWidth+x]))
		}
	}
}

func (d *Display) DrawPixel(x, y int, c color.RGBA) {
	d.rgba.SetRGBA(x, y, c)
}

// DrawDebug fills the debug panel with the console state.
func (d *Display) DrawDebug(bus *nes.Bus, palette *Palette) {
	if d.debugText == nil {
		return
	}

	d.debugText.Clear()
	printDebugCpu(d.debugText, bus)
	printDebugDisassembly(d.debugText, bus)

	for i, rgba := range d.patternRGBA {
		table := bus.PatternTable(i, d.debugPalette)
		for y := 0; y < 128; y++ {
			for x := 0; x < 128; x++ {
				rgba.SetRGBA(x, y, palette.Color(table[y*128+x]))
			}
		}
	}
}

// NextDebugPalette cycles the palette used to draw the pattern tables.
func (d *Display) NextDebugPalette() {
	d.debugPalette = (d.debugPalette + 1) & 0x07
}

func (d *Display) UpdateScreen() {
	d.window.Clear(colornames.Black)

	pic := pixel.PictureDataFromImage(d.rgba)

	sprite := pixel.NewSprite(pic, pic.Bounds())
	sprite.Draw(d.window, d.gameMatrix)

	if d.debugText != nil {
		d.debugText.Draw(d.window, pixel.IM)

		// Pattern tables side by side along the bottom of the panel.
		left := d.window.Bounds().Max.X - debugResW
		for i, rgba := range d.patternRGBA {
			pic := pixel.PictureDataFromImage(rgba)
			pos := pixel.V(left+patternTileW/2+8+float64(i)*(patternTileW+8), patternTileW/2+8)
			pixel.NewSprite(pic, pic.Bounds()).Draw(d.window, pixel.IM.Moved(pos))
		}
	}

	d.window.Update()
}

func (d *Display) Closed() bool {
	return d.window.Closed()
}
