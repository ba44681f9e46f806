package nes

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Nametable mirroring arrangement, hard wired on the cartridge board.
type Mirroring byte

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
)

func (m Mirroring) String() string {
	if m == MirrorVertical {
		return "vertical"
	}
	return "horizontal"
}

// Header holds the fields of the 16 byte iNES header.
//
// Reference: https://wiki.nesdev.com/w/index.php/INES
type Header struct {
	PrgBanks    byte // 16KB units of PRG ROM
	ChrBanks    byte // 8KB units of CHR ROM, 0 means the board uses CHR RAM
	Mirroring   Mirroring
	Battery     bool // PRG RAM is battery backed
	Trainer     bool // 512 byte trainer precedes PRG data
	FourScreen  bool // Alternative nametable layout
	MapperID    byte
	ConsoleType byte // 0: NES, 1: Vs. System, 2: Playchoice 10, 3: extended
	Nes2        bool // NES 2.0 header format
	PrgRamSize  byte // 8KB units of PRG RAM, 0 infers 8KB
	TvSystem    byte // 0: NTSC, 1: PAL
}

const (
	headerSize        = 16
	trainerSize       = 512
	prgChunkSize      = 0x4000
	chrChunkSize      = 0x2000
	prgRamSize        = 0x2000
	prgRamMinAddr     = 0x6000
	prgRamMaxAddr     = 0x7FFF
	playchoiceSize    = 0x2000
	consolePlaychoice = 2
)

var (
	// ErrBadMagic is returned when the file does not start with "NES\x1A".
	ErrBadMagic = errors.New("invalid iNES header")

	// ErrTruncated is returned when the file ends before the sizes announced in
	// its header.
	ErrTruncated = errors.New("truncated iNES file")

	// ErrNoPrgRom is returned when the header announces no PRG ROM banks.
	ErrNoPrgRom = errors.New("iNES file has no PRG ROM")

	inesMagic = []byte{0x4E, 0x45, 0x53, 0x1A}
)

// parseHeader decodes the 16 byte iNES header.
func parseHeader(h []byte) (Header, error) {
	if len(h) < headerSize {
		return Header{}, ErrTruncated
	}
	if !bytes.Equal(h[0:4], inesMagic) {
		return Header{}, ErrBadMagic
	}

	flag6, flag7 := h[6], h[7]

	return Header{
		PrgBanks:    h[4],
		ChrBanks:    h[5],
		Mirroring:   Mirroring(flag6 & 0x01),
		Battery:     flag6&0x02 > 0,
		Trainer:     flag6&0x04 > 0,
		FourScreen:  flag6&0x08 > 0,
		MapperID:    (flag7 & 0xF0) | (flag6 >> 4),
		ConsoleType: flag7 & 0x03,
		Nes2:        (flag7>>2)&0x03 == 0x02,
		PrgRamSize:  h[8],
		TvSystem:    h[9] & 0x01,
	}, nil
}

// NES Cartridge. Holds the PRG and CHR memory and the mapper used to access
// them from the CPU and PPU buses.
type Cartridge struct {
	Header  Header
	Trainer []byte // Loaded but never mapped

	prg      []byte
	chr      []byte
	chrIsRam bool
	prgRam   [prgRamSize]byte

	mapper Mapper
}

// NewCartridge loads an iNES ROM file from the given path.
func NewCartridge(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open cartridge")
	}
	defer f.Close()

	cart, err := ReadCartridge(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	return cart, nil
}

// ReadCartridge parses an iNES image from r.
func ReadCartridge(r io.Reader) (*Cartridge, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(ErrTruncated, "reading header")
		}
		return nil, errors.Wrap(err, "reading header")
	}

	header, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	var trainer []byte
	if header.Trainer {
		trainer = make([]byte, trainerSize)
		if err := readSection(r, trainer, "trainer"); err != nil {
			return nil, err
		}
	}

	prg := make([]byte, int(header.PrgBanks)*prgChunkSize)
	if err := readSection(r, prg, "PRG ROM"); err != nil {
		return nil, err
	}

	var chr []byte
	if header.ChrBanks > 0 {
		chr = make([]byte, int(header.ChrBanks)*chrChunkSize)
		if err := readSection(r, chr, "CHR ROM"); err != nil {
			return nil, err
		}
	}

	// Playchoice INST-ROM and PROM data are not used. Dumps often leave them
	// out, so only a failing reader is an error.
	if header.ConsoleType == consolePlaychoice {
		if _, err := io.CopyN(io.Discard, r, playchoiceSize); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading Playchoice data")
		}
	}

	cart, err := NewCartridgeFromData(header, prg, chr)
	if err != nil {
		return nil, err
	}
	cart.Trainer = trainer

	return cart, nil
}

func readSection(r io.Reader, buf []byte, name string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrTruncated, "reading %s", name)
		}
		return errors.Wrapf(err, "reading %s", name)
	}
	return nil
}

// NewCartridgeFromData builds a cartridge from an already decoded header and its
// PRG and CHR data. An empty chr allocates 8KB of CHR RAM.
func NewCartridgeFromData(header Header, prg, chr []byte) (*Cartridge, error) {
	if header.PrgBanks == 0 {
		return nil, ErrNoPrgRom
	}

	mapper, err := newMapper(header.MapperID, header.PrgBanks, header.ChrBanks)
	if err != nil {
		return nil, err
	}

	if len(prg) < int(header.PrgBanks)*prgChunkSize {
		return nil, errors.Wrapf(ErrTruncated, "PRG ROM is %d bytes", len(prg))
	}

	cart := &Cartridge{
		Header: header,
		prg:    prg,
		chr:    chr,
		mapper: mapper,
	}

	if header.ChrBanks == 0 {
		cart.chr = make([]byte, chrChunkSize)
		cart.chrIsRam = true
	} else if len(chr) < int(header.ChrBanks)*chrChunkSize {
		return nil, errors.Wrapf(ErrTruncated, "CHR ROM is %d bytes", len(chr))
	}

	return cart, nil
}

// Mirroring returns the nametable arrangement of the cartridge.
func (c *Cartridge) Mirroring() Mirroring {
	return c.Header.Mirroring
}

// Communicate with main (CPU) bus. Returns false if the cartridge does not
// respond to the address.
func (c *Cartridge) cpuRead(addr uint16) (byte, bool) {
	if addr >= prgRamMinAddr && addr <= prgRamMaxAddr {
		return c.prgRam[addr-prgRamMinAddr], true
	}

	if mapped, ok := c.mapper.cpuMapRead(addr); ok {
		return c.prg[mapped], true
	}

	return 0, false
}

func (c *Cartridge) cpuWrite(addr uint16, data byte) bool {
	if addr >= prgRamMinAddr && addr <= prgRamMaxAddr {
		c.prgRam[addr-prgRamMinAddr] = data
		return true
	}

	if mapped, ok := c.mapper.cpuMapWrite(addr, data); ok {
		c.prg[mapped] = data
		return true
	}

	return false
}

// Communicate with PPU bus.
func (c *Cartridge) ppuRead(addr uint16) (byte, bool) {
	if mapped, ok := c.mapper.ppuMapRead(addr); ok {
		return c.chr[mapped], true
	}

	return 0, false
}

func (c *Cartridge) ppuWrite(addr uint16, data byte) bool {
	if mapped, ok := c.mapper.ppuMapWrite(addr); ok {
		c.chr[mapped] = data
		return true
	}

	return false
}

func (c *Cartridge) reset() {
	c.mapper.reset()
}
