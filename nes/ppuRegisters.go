package nes

// PPU Registers. Each register is a byte with named flag accessors.
//
// Reference: http://wiki.nesdev.com/w/index.php/PPU_registers
type PpuReg byte
type PpuRegFlag byte

// PPUCTRL flags - $2000
const (
	ctrlNameTblLo PpuRegFlag = 1 << iota
	ctrlNameTblHi
	ctrlVramInc
	ctrlSpritePatternTbl
	ctrlBgPatternTbl
	ctrlSpriteSize
	ctrlExtMode
	ctrlNmi
)

// PPUMASK flags - $2001
const (
	maskGreyscale PpuRegFlag = 1 << iota
	maskBgLeft
	maskSpriteLeft
	maskBgShow
	maskSpriteShow
	maskEmphasizeRed
	maskEmphasizeGreen
	maskEmphasizeBlue
)

// PPUSTATUS flags - $2002
const (
	statusSpriteOverflow PpuRegFlag = 1 << (iota + 5)
	statusSprite0Hit
	statusVBlank
)

func (r *PpuReg) setFlag(flag PpuRegFlag) {
	*r |= PpuReg(flag)
}

func (r *PpuReg) clearFlag(flag PpuRegFlag) {
	*r &^= PpuReg(flag)
}

func (r PpuReg) getFlag(flag PpuRegFlag) byte {
	if (r & PpuReg(flag)) == 0 {
		return 0
	}
	return 1
}

func (r PpuReg) hasFlag(flag PpuRegFlag) bool {
	return r&PpuReg(flag) != 0
}

// PPUCTRL accessors.

func (r PpuReg) nametable() byte { return byte(r) & 0x03 }

// VRAM address increment per PPUDATA access: 1 across, 32 down.
func (r PpuReg) vramIncrement() uint16 {
	if r.hasFlag(ctrlVramInc) {
		return 32
	}
	return 1
}

func (r PpuReg) spritePatternTable() uint16 { return uint16(r.getFlag(ctrlSpritePatternTbl)) * 0x1000 }
func (r PpuReg) bgPatternTable() uint16     { return uint16(r.getFlag(ctrlBgPatternTbl)) * 0x1000 }

// Sprite height in pixels, 8 or 16.
func (r PpuReg) spriteHeight() int {
	if r.hasFlag(ctrlSpriteSize) {
		return 16
	}
	return 8
}

// PPUMASK accessors.

func (r PpuReg) renderingEnabled() bool {
	return r.hasFlag(maskBgShow) || r.hasFlag(maskSpriteShow)
}
