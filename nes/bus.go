package nes

// Main bus. Owns every device of the console and routes the CPU and PPU
// address spaces to them.
type Bus struct {
	Cpu  *Cpu6502   // NES CPU.
	Ppu  *Ppu       // Picture processing unit.
	Cart *Cartridge // NES Cartridge.

	ControllerA *Controller
	ControllerB *Controller

	Ram          [2 * 1024]byte                   // 2KB internal RAM.
	nameTable    [2][1024]byte                    // NES allows storage for 2 nametables
	paletteTable [32]byte                         // Palette RAM
	screen       [ScreenWidth * ScreenHeight]byte // System palette index per pixel

	ClockCount uint64 // Master clock, one PPU cycle per tick
	cpuCycles  uint64 // CPU slots, DMA alignment depends on their parity

	dma        dma
	nmiPending bool
}

const (
	// RAM
	ramMinAddr uint16 = 0x0000
	ramMaxAddr uint16 = 0x1FFF
	ramMirror  uint16 = 0x07FF // mirror every 2KB.

	// PPU
	ppuMinAddr uint16 = 0x2000
	ppuMaxAddr uint16 = 0x3FFF
	ppuMirror  uint16 = 0x0007 // mirror every 8 bytes.

	// APU and I/O
	oamDmaAddr  uint16 = 0x4014
	controllerA uint16 = 0x4016
	controllerB uint16 = 0x4017
	ioMaxAddr   uint16 = 0x401F

	// Cartridge
	cartMinAddr uint16 = 0x4020
	cartMaxAddr uint16 = 0xFFFF
)

// NewBus creates a console with nothing inserted. Options are applied in
// order.
func NewBus(options ...Option) (*Bus, error) {
	// Attach devices to the bus.
	bus := &Bus{
		Cpu:         NewCpu6502(),
		Ppu:         NewPpu(),
		ControllerA: NewController(),
		ControllerB: NewController(),
	}

	if err := bus.setOptions(options...); err != nil {
		return nil, err
	}

	return bus, nil
}

// Load creates a console with the iNES ROM at path inserted, and resets it.
func Load(path string, options ...Option) (*Bus, error) {
	bus, err := NewBus(append(options, WithCartridge(path))...)
	if err != nil {
		return nil, err
	}

	bus.Reset()

	return bus, nil
}

// Used by the CPU to read data from the main bus at a specified address.
func (b *Bus) CpuRead(addr uint16) byte {
	var data byte

	switch {
	case addr <= ramMaxAddr:
		data = b.Ram[addr&ramMirror]
	case addr <= ppuMaxAddr:
		data = b.Ppu.cpuRead(b, addr&ppuMirror)
	case addr == controllerA:
		data = b.ControllerA.Read()
	case addr == controllerB:
		data = b.ControllerB.Read()
	case addr <= ioMaxAddr:
		// APU registers are not emulated.
	case b.Cart != nil:
		data, _ = b.Cart.cpuRead(addr)
	}

	return data
}

// CpuPeek reads the main bus without disturbing any device, for debuggers and
// disassembly.
func (b *Bus) CpuPeek(addr uint16) byte {
	var data byte

	switch {
	case addr <= ramMaxAddr:
		data = b.Ram[addr&ramMirror]
	case addr <= ppuMaxAddr:
		data = b.Ppu.cpuPeek(addr & ppuMirror)
	case addr == controllerA:
		data = b.ControllerA.peek()
	case addr == controllerB:
		data = b.ControllerB.peek()
	case addr <= ioMaxAddr:
	case b.Cart != nil:
		data, _ = b.Cart.cpuRead(addr)
	}

	return data
}

// Used by the CPU to write data to the main bus at a specified address.
func (b *Bus) CpuWrite(addr uint16, data byte) {
	switch {
	case addr <= ramMaxAddr:
		b.Ram[addr&ramMirror] = data
	case addr <= ppuMaxAddr:
		b.Ppu.cpuWrite(b, addr&ppuMirror, data)
	case addr == oamDmaAddr:
		b.dma.start(data)
	case addr == controllerA:
		// Both controllers latch on a write to $4016.
		b.ControllerA.Write(data)
		b.ControllerB.Write(data)
	case addr == controllerB:
		b.ControllerB.Write(data)
	case addr <= ioMaxAddr:
		// APU registers are not emulated.
	case b.Cart != nil:
		b.Cart.cpuWrite(addr, data)
	}
}

// Used by the PPU to read from its own address space.
func (b *Bus) PpuRead(addr uint16) byte {
	addr &= ppuMaxAddr

	var data byte

	switch {
	case addr <= patternTblAddrEnd:
		if b.Cart != nil {
			data, _ = b.Cart.ppuRead(addr)
		}
	case addr <= nameTblAddrEnd:
		table, offset := b.nameTableIndex(addr)
		data = b.nameTable[table][offset]
	default:
		data = b.paletteTable[paletteIndex(addr)]
	}

	return data
}

// PpuPeek reads the PPU address space. PPU memory has no read side effects.
func (b *Bus) PpuPeek(addr uint16) byte {
	return b.PpuRead(addr)
}

// Used by the PPU to write to its own address space.
func (b *Bus) PpuWrite(addr uint16, data byte) {
	addr &= ppuMaxAddr

	switch {
	case addr <= patternTblAddrEnd:
		if b.Cart != nil {
			b.Cart.ppuWrite(addr, data)
		}
	case addr <= nameTblAddrEnd:
		table, offset := b.nameTableIndex(addr)
		b.nameTable[table][offset] = data
	default:
		b.paletteTable[paletteIndex(addr)] = data
	}
}

// nameTableIndex maps one of the 4 logical nametables onto the 2 physical
// ones according to the cartridge's mirroring.
func (b *Bus) nameTableIndex(addr uint16) (int, uint16) {
	addr &= 0x0FFF
	quadrant := addr >> 10
	offset := addr & 0x03FF

	mirroring := MirrorHorizontal
	if b.Cart != nil {
		mirroring = b.Cart.Mirroring()
	}

	if mirroring == MirrorVertical {
		return int(quadrant & 0x01), offset
	}
	return int(quadrant >> 1), offset
}

// Sprite palette entry 0 mirrors the matching background entry.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x001F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

// SetPixel is used by the PPU to output a pixel.
func (b *Bus) SetPixel(x, y int, color byte) {
	b.screen[y*ScreenWidth+x] = color
}

// GetPixel returns the system palette index (0-63) of a pixel of the last
// rendered frame.
func (b *Bus) GetPixel(x, y int) byte {
	return b.screen[y*ScreenWidth+x]
}

// Screen returns the frame buffer, one system palette index per pixel, row
// by row. The slice is reused by the next frame.
func (b *Bus) Screen() []byte {
	return b.screen[:]
}

// TriggerNmi is used by the PPU to raise a non-maskable interrupt. It is
// delivered to the CPU on its next cycle.
func (b *Bus) TriggerNmi() {
	b.nmiPending = true
}

// SetControllerA sets the state of controller one's buttons.
func (b *Bus) SetControllerA(state byte) { b.ControllerA.SetState(state) }

// SetControllerB sets the state of controller two's buttons.
func (b *Bus) SetControllerB(state byte) { b.ControllerB.SetState(state) }

// PatternTable decodes pattern table i for debug displays.
func (b *Bus) PatternTable(i int, palette byte) []byte {
	return b.Ppu.PatternTable(b, i, palette)
}

// Load a cartridge to the NES. The cartridge is connected to both the CPU and PPU.
func (b *Bus) InsertCartridge(cart *Cartridge) {
	b.Cart = cart
}

// Reset the NES.
func (b *Bus) Reset() {
	if b.Cart != nil {
		b.Cart.reset()
	}

	b.Ppu.Reset()
	b.Cpu.Reset(b)

	b.dma = dma{}
	b.nmiPending = false
	b.ClockCount = 0
	b.cpuCycles = 0
}

// 1 NES clock cycle.
func (b *Bus) Clock() {
	b.Ppu.Clock(b)

	// CPU runs 3 times slower than PPU.
	if b.ClockCount%3 == 0 {
		if b.dma.active {
			// The CPU is suspended while OAM DMA runs.
			b.dma.clock(b, b.cpuCycles%2 == 0)
		} else {
			if b.nmiPending {
				b.nmiPending = false
				b.Cpu.NMI(b)
			}
			b.Cpu.Clock(b)
		}
		b.cpuCycles++
	}

	b.ClockCount++
}

// Frame clocks the console until the PPU completes a frame.
func (b *Bus) Frame() {
	for !b.Ppu.FrameComplete {
		b.Clock()
	}

	b.Ppu.FrameComplete = false
}
