package nes

// UxROM. The CPU window at 0x8000-0xBFFF is switchable in 16KB banks, while
// 0xC000-0xFFFF is fixed to the last bank. CHR is usually 8KB of RAM.
//
// Reference: https://wiki.nesdev.com/w/index.php/UxROM
type Mapper002 struct {
	PrgBanks byte
	ChrBanks byte

	selected byte // Bank mapped to 0x8000-0xBFFF
}

func NewMapper002(prgRomChunks, chrRomChunks byte) *Mapper002 {
	return &Mapper002{
		PrgBanks: prgRomChunks,
		ChrBanks: chrRomChunks,
	}
}

const prgBankSize uint32 = 0x4000

func (m *Mapper002) cpuMapRead(addr uint16) (uint32, bool) {
	switch {
	case addr >= 0x8000 && addr <= 0xBFFF:
		bank := uint32(m.selected)
		if m.PrgBanks > 0 {
			bank %= uint32(m.PrgBanks)
		}
		return bank*prgBankSize + uint32(addr&0x3FFF), true
	case addr >= 0xC000:
		last := uint32(0)
		if m.PrgBanks > 0 {
			last = uint32(m.PrgBanks) - 1
		}
		return last*prgBankSize + uint32(addr&0x3FFF), true
	}

	return 0, false
}

// Any write to ROM space selects the switchable bank. The write itself never
// reaches PRG memory.
func (m *Mapper002) cpuMapWrite(addr uint16, data byte) (uint32, bool) {
	if addr >= 0x8000 {
		m.selected = data & 0x07
	}

	return 0, false
}

func (m *Mapper002) ppuMapRead(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF {
		return uint32(addr), true
	}

	return 0, false
}

func (m *Mapper002) ppuMapWrite(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF && m.ChrBanks == 0 {
		return uint32(addr), true
	}

	return 0, false
}

func (m *Mapper002) reset() {
	m.selected = 0
}
