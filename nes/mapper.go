package nes

import "fmt"

// Mapper translates CPU and PPU bus addresses into offsets within the
// cartridge's PRG and CHR memory. Each function returns whether or not the
// given address was successfully mapped.
type Mapper interface {
	cpuMapRead(addr uint16) (uint32, bool)
	cpuMapWrite(addr uint16, data byte) (uint32, bool)
	ppuMapRead(addr uint16) (uint32, bool)
	ppuMapWrite(addr uint16) (uint32, bool)

	// Restore the power-on bank configuration.
	reset()
}

// UnsupportedMapperError is returned when a cartridge requests a mapper that
// has not been implemented.
type UnsupportedMapperError struct {
	ID byte
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %03d", e.ID)
}

func newMapper(id, prgBanks, chrBanks byte) (Mapper, error) {
	switch id {
	case 0:
		return NewMapper000(prgBanks, chrBanks), nil
	case 2:
		return NewMapper002(prgBanks, chrBanks), nil
	}

	return nil, &UnsupportedMapperError{ID: id}
}
