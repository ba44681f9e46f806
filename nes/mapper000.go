package nes

// NROM. No bank switching, 16KB or 32KB of PRG ROM and 8KB of CHR.
type Mapper000 struct {
	PrgBanks byte
	ChrBanks byte
}

func NewMapper000(prgRomChunks, chrRomChunks byte) *Mapper000 {
	return &Mapper000{
		PrgBanks: prgRomChunks,
		ChrBanks: chrRomChunks,
	}
}

// Address Mapping
//
// if 16KB ROM size:
//   0x8000-0xBFFF -> 0x0000-0x3FFF
//   0xC000-0xFFFF -> 0x0000-0x3FFF (mirror)
//
// if 32KB ROM size:
//   0x8000-0xFFFF -> 0x0000-0x7FFF

func (m *Mapper000) cpuMapRead(addr uint16) (uint32, bool) {
	if addr < 0x8000 {
		return 0, false
	}

	if m.PrgBanks > 1 {
		return uint32(addr & 0x7FFF), true // 32KB ROM
	}

	return uint32(addr & 0x3FFF), true // 16KB ROM, mirrored
}

// PRG is read only.
func (m *Mapper000) cpuMapWrite(addr uint16, data byte) (uint32, bool) {
	return 0, false
}

func (m *Mapper000) ppuMapRead(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF {
		return uint32(addr), true
	}

	return 0, false
}

// Only CHR RAM can be written to.
func (m *Mapper000) ppuMapWrite(addr uint16) (uint32, bool) {
	if addr <= 0x1FFF && m.ChrBanks == 0 {
		return uint32(addr), true
	}

	return 0, false
}

func (m *Mapper000) reset() {}
