package nes

// Loopy registers are 15 bit internal PPU registers used for implementing
// scrolling.
// Loopy register layout:
//   yyy NN YYYYY XXXXX
//
//   yyy   - fine Y scroll
//   NN    - nametable select
//   YYYYY - coarse Y scroll
//   XXXXX - coarse X scroll
//
// Reference: https://wiki.nesdev.com/w/index.php/PPU_scrolling
type PpuLoopyReg uint16

const (
	loopyCoarseX    PpuLoopyReg = 0b11111
	loopyCoarseY    PpuLoopyReg = 0b11111 << 5
	loopyNametableX PpuLoopyReg = 0b1 << 10
	loopyNametableY PpuLoopyReg = 0b1 << 11
	loopyNametable              = loopyNametableX | loopyNametableY
	loopyFineY      PpuLoopyReg = 0b111 << 12
)

// Returns the value of the loopy register as a unsigned 16-bit integer.
func (r PpuLoopyReg) value() uint16 {
	return uint16(r) & 0x7FFF
}

// set clears the bits in mask and sets them from val, shifted into place.
func (r *PpuLoopyReg) set(mask PpuLoopyReg, shift uint, val byte) {
	*r = (*r &^ mask) | ((PpuLoopyReg(val) << shift) & mask)
}

// Sets coarse X (bits 0-4) with the low 5 bits of the given value.
func (r *PpuLoopyReg) setCoarseX(val byte) { r.set(loopyCoarseX, 0, val) }

// Sets coarse Y (bits 5-9) with the low 5 bits of the given value.
func (r *PpuLoopyReg) setCoarseY(val byte) { r.set(loopyCoarseY, 5, val) }

// Sets both nametable select bits (10-11) with the low 2 bits of the given value.
func (r *PpuLoopyReg) setNametable(val byte) { r.set(loopyNametable, 10, val) }

func (r *PpuLoopyReg) setNametableX(val byte) { r.set(loopyNametableX, 10, val) }
func (r *PpuLoopyReg) setNametableY(val byte) { r.set(loopyNametableY, 11, val) }

// Sets fine Y (bits 12-14) with the low 3 bits of the given value.
func (r *PpuLoopyReg) setFineY(val byte) { r.set(loopyFineY, 12, val) }

func (r PpuLoopyReg) getCoarseX() byte    { return byte(r & loopyCoarseX) }
func (r PpuLoopyReg) getCoarseY() byte    { return byte((r & loopyCoarseY) >> 5) }
func (r PpuLoopyReg) getNametable() byte  { return byte((r & loopyNametable) >> 10) }
func (r PpuLoopyReg) getNametableX() byte { return byte((r & loopyNametableX) >> 10) }
func (r PpuLoopyReg) getNametableY() byte { return byte((r & loopyNametableY) >> 11) }
func (r PpuLoopyReg) getFineY() byte      { return byte((r & loopyFineY) >> 12) }

// Scrolling helpers, used while rendering.

// incrementX moves to the next tile horizontally, wrapping into the
// neighbouring nametable.
func (r *PpuLoopyReg) incrementX() {
	if r.getCoarseX() == 31 {
		r.setCoarseX(0)
		r.setNametableX(r.getNametableX() ^ 1)
	} else {
		r.setCoarseX(r.getCoarseX() + 1)
	}
}

// incrementY moves down one pixel row. Coarse Y wraps at 29 into the
// neighbouring nametable, or at 31 without switching (attribute area).
func (r *PpuLoopyReg) incrementY() {
	if fineY := r.getFineY(); fineY < 7 {
		r.setFineY(fineY + 1)
		return
	}

	r.setFineY(0)

	switch coarseY := r.getCoarseY(); coarseY {
	case 29:
		r.setCoarseY(0)
		r.setNametableY(r.getNametableY() ^ 1)
	case 31:
		r.setCoarseY(0)
	default:
		r.setCoarseY(coarseY + 1)
	}
}

// transferX copies the horizontal position bits from t.
func (r *PpuLoopyReg) transferX(t PpuLoopyReg) {
	mask := loopyCoarseX | loopyNametableX
	*r = (*r &^ mask) | (t & mask)
}

// transferY copies the vertical position bits from t.
func (r *PpuLoopyReg) transferY(t PpuLoopyReg) {
	mask := loopyCoarseY | loopyNametableY | loopyFineY
	*r = (*r &^ mask) | (t & mask)
}
