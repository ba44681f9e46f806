package main

import (
	"image/color"
	"io/ioutil"

	"github.com/pkg/errors"
)

const paletteSize = 64

// Palette maps the 64 NES system palette indices to RGB.
type Palette [paletteSize]color.RGBA

// Color returns the RGB color for a system palette index.
func (p *Palette) Color(index byte) color.RGBA {
	return p[index&(paletteSize-1)]
}

// 2C02 palette. Reference: https://wiki.nesdev.com/w/index.php/PPU_palettes
var defaultPalette = Palette{
	{84, 84, 84, 255}, {0, 30, 116, 255}, {8, 16, 144, 255}, {48, 0, 136, 255},
	{68, 0, 100, 255}, {92, 0, 48, 255}, {84, 4, 0, 255}, {60, 24, 0, 255},
	{32, 42, 0, 255}, {8, 58, 0, 255}, {0, 64, 0, 255}, {0, 60, 0, 255},
	{0, 50, 60, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},

	{152, 150, 152, 255}, {8, 76, 196, 255}, {48, 50, 236, 255}, {92, 30, 228, 255},
	{136, 20, 176, 255}, {160, 20, 100, 255}, {152, 34, 32, 255}, {120, 60, 0, 255},
	{84, 90, 0, 255}, {40, 114, 0, 255}, {8, 124, 0, 255}, {0, 118, 40, 255},
	{0, 102, 120, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},

	{236, 238, 236, 255}, {76, 154, 236, 255}, {120, 124, 236, 255}, {176, 98, 236, 255},
	{228, 84, 236, 255}, {236, 88, 180, 255}, {236, 106, 100, 255}, {212, 136, 32, 255},
	{160, 170, 0, 255}, {116, 196, 0, 255}, {76, 208, 32, 255}, {56, 204, 108, 255},
	{56, 180, 204, 255}, {60, 60, 60, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},

	{236, 238, 236, 255}, {168, 204, 236, 255}, {188, 188, 236, 255}, {212, 178, 236, 255},
	{236, 174, 236, 255}, {236, 174, 212, 255}, {236, 180, 176, 255}, {228, 196, 144, 255},
	{204, 210, 120, 255}, {180, 222, 120, 255}, {168, 226, 144, 255}, {152, 226, 180, 255},
	{160, 214, 228, 255}, {160, 162, 160, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
}

// loadPalette loads an NES palette from the specified file path. The file holds
// 64 RGB triplets, any extra data (emphasis variants) is ignored.
func loadPalette(filepath string) (*Palette, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open palette file")
	}

	return parsePalette(data)
}

func parsePalette(data []byte) (*Palette, error) {
	if len(data) < paletteSize*3 {
		return nil, errors.Errorf("palette is %d bytes, want at least %d", len(data), paletteSize*3)
	}

	palette := &Palette{}
	for i := range palette {
		r := data[i*3]
		g := data[i*3+1]
		b := data[i*3+2]
		palette[i] = color.RGBA{r, g, b, 255}
	}

	return palette, nil
}
