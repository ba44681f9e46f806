package nes

// Object attribute memory: 64 sprites of 4 bytes each.
//
// Reference: https://wiki.nesdev.com/w/index.php/PPU_OAM
type objectAttributeMemory [oamSize]byte

const (
	oamSize        = 256
	oamSpriteCount = 64
)

// oamSprite represents one entry, or sprite, in the Object Attribute memory.
type oamSprite struct {
	y         byte // Y position of the sprite
	id        byte // pattern memory ID
	attribute byte // flag specifying rendering attributes
	x         byte // X position of the sprite
}

func (oam *objectAttributeMemory) read(addr byte) byte {
	return oam[addr]
}

func (oam *objectAttributeMemory) write(addr byte, data byte) {
	oam[addr] = data
}

// sprite returns a copy of the i-th OAM entry.
func (oam *objectAttributeMemory) sprite(i int) oamSprite {
	base := i * 4
	return oamSprite{
		y:         oam[base],
		id:        oam[base+1],
		attribute: oam[base+2],
		x:         oam[base+3],
	}
}

// Palette number 4-7, stored as 0-3.
func (s oamSprite) palette() byte {
	return s.attribute & 0x03
}

// isBehindBackground returns true if the sprite is drawn behind opaque
// background pixels.
func (s oamSprite) isBehindBackground() bool {
	return (s.attribute & 0x20) > 0
}

// isFlippedVertical returns true if the oamSprite's vertical flip flag is set.
func (s oamSprite) isFlippedVertical() bool {
	return (s.attribute & 0x80) > 0
}

// isFlippedHorizontal returns true if the oamSprite's horizontal flip flag is set.
func (s oamSprite) isFlippedHorizontal() bool {
	return (s.attribute & 0x40) > 0
}
