package nes

// PpuHost is everything the PPU needs from the rest of the console: its own
// address space, a screen to draw to, and the CPU's NMI line.
type PpuHost interface {
	PpuRead(addr uint16) byte
	PpuWrite(addr uint16, data byte)
	SetPixel(x, y int, color byte)
	TriggerNmi()
}

const (
	// PPU addresses
	patternTblAddr    uint16 = 0x0000
	patternTblAddrEnd uint16 = 0x1FFF
	patternTblSize    uint16 = 0x1000 // Single pattern table - size in bytes

	nameTblAddr    uint16 = 0x2000
	nameTblAddrEnd uint16 = 0x3EFF
	attributeAddr  uint16 = 0x23C0

	paletteAddr    uint16 = 0x3F00
	paletteAddrEnd uint16 = 0x3FFF

	// Frame timing
	cyclesPerScanline = 341
	preRenderScanline = -1
	lastScanline      = 260
	vblankScanline    = 241

	ScreenWidth  = 256
	ScreenHeight = 240

	bgBufferSize = 33 * 8 // One extra tile for fine X scrolling
)

type pixelPriority byte

const (
	priorityUnset pixelPriority = iota
	priorityFront
	priorityMiddle
	priorityBack
)

// pixelInfo is a pixel before palette lookup.
type pixelInfo struct {
	color    byte // 0-3, 0 is transparent
	palette  byte // 0-3 background, 4-7 sprites
	priority pixelPriority
}

// References:
// http://wiki.nesdev.com/w/index.php/PPU_registers
// http://wiki.nesdev.com/w/index.php/PPU_rendering
// https://www.youtube.com/watch?v=xdzOvpYPmGE (javidx9)
type Ppu struct {
	ctrl   PpuReg
	mask   PpuReg
	status PpuReg

	oam     objectAttributeMemory
	oamAddr byte

	fineX       byte
	dataBuffer  byte // Delayed PPUDATA read
	writeToggle bool // First or second write to PPUSCROLL/PPUADDR

	vramAddr PpuLoopyReg // v: current VRAM address
	tramAddr PpuLoopyReg // t: temporary VRAM address, top left of the screen

	// Intertal PPU variables
	scanline      int  // Scanline count in the current frame
	cycle         int  // Cycle count in the current scanline
	FrameComplete bool // Whether or not the current frame is finished rendering
	FrameCount    uint64
	oddFrame      bool

	bgBuffer [bgBufferSize]pixelInfo
	fgBuffer [ScreenWidth]pixelInfo

	// Sprite zero, for the next scanline
	sprite0X      int  // -1 when sprite zero is not on the line
	sprite0Alpha  byte // Opaque pixels of sprite zero's row, MSB is leftmost
	sprite0HitPos int  // Screen X of the pending hit, -1 for none
}

func NewPpu() *Ppu {
	p := &Ppu{}
	p.Reset()
	return p
}

// Reset puts the PPU in its power-up state, at the start of a frame.
func (p *Ppu) Reset() {
	*p = Ppu{
		scanline:      preRenderScanline,
		sprite0X:      -1,
		sprite0HitPos: -1,
	}
}

// Scanline returns the current scanline, -1 to 260.
func (p *Ppu) Scanline() int { return p.scanline }

// Cycle returns the current cycle within the scanline, 0 to 340.
func (p *Ppu) Cycle() int { return p.cycle }

// PPU clock cycle.
// 1 frame = 262 scanlines (-1 to 260)
// 1 scanline = 341 PPU clock cycles
func (p *Ppu) Clock(host PpuHost) {
	switch {
	case p.scanline == preRenderScanline:
		p.handlePreRender()
	case p.scanline < ScreenHeight:
		p.handleVisible(host)
	case p.scanline == vblankScanline && p.cycle == 1:
		p.status.setFlag(statusVBlank)
		if p.ctrl.hasFlag(ctrlNmi) {
			host.TriggerNmi()
		}
	}

	p.cycle++
	if p.cycle >= cyclesPerScanline {
		p.cycle = 0
		p.scanline++

		if p.scanline > lastScanline {
			p.scanline = preRenderScanline
			p.FrameComplete = true
			p.FrameCount++
			p.oddFrame = !p.oddFrame
		} else if p.scanline == 0 && p.oddFrame && p.mask.renderingEnabled() {
			// Odd frames are one cycle shorter while rendering.
			p.cycle = 1
		}
	}
}

func (p *Ppu) handlePreRender() {
	switch p.cycle {
	case 1:
		p.status.clearFlag(statusVBlank)
		p.status.clearFlag(statusSprite0Hit)
		p.status.clearFlag(statusSpriteOverflow)
		p.sprite0X = -1
		p.sprite0Alpha = 0
		p.sprite0HitPos = -1
	case 257:
		p.transferX()
		p.fgBuffer = [ScreenWidth]pixelInfo{}
	case 304:
		p.transferY()
	}
}

func (p *Ppu) handleVisible(host PpuHost) {
	if p.cycle == 1 {
		p.renderScanline(host)
	}

	if p.cycle >= 1 && p.cycle <= ScreenWidth && p.sprite0HitPos == p.cycle-1 {
		p.status.setFlag(statusSprite0Hit)
	}

	if p.cycle == 257 {
		p.evaluateSprites(host)
		if p.mask.renderingEnabled() {
			p.vramAddr.incrementY()
		}
		p.transferX()
	}
}

// Scroll position copies from t to v, only while rendering.
func (p *Ppu) transferX() {
	if p.mask.renderingEnabled() {
		p.vramAddr.transferX(p.tramAddr)
	}
}

func (p *Ppu) transferY() {
	if p.mask.renderingEnabled() {
		p.vramAddr.transferY(p.tramAddr)
	}
}

// incrementVram advances v after a PPUDATA access.
func (p *Ppu) incrementVram() {
	p.vramAddr = PpuLoopyReg((p.vramAddr.value() + p.ctrl.vramIncrement()) & 0x7FFF)
}

// Communicate with main (CPU) bus - used for PPU register access. addr is the
// register number, 0-7.
func (p *Ppu) cpuRead(host PpuHost, addr uint16) byte {
	var data byte

	switch addr {
	case 0x0002: // Status
		// Low bits are stale bus contents.
		data = (byte(p.status) & 0xE0) | (p.dataBuffer & 0x1F)
		p.status.clearFlag(statusVBlank)
		p.writeToggle = false
	case 0x0004: // OAM Data
		data = p.oam.read(p.oamAddr)
	case 0x0007: // Data
		// Reads below the palette are delayed by one read.
		data = p.dataBuffer
		p.dataBuffer = host.PpuRead(p.vramAddr.value())
		if p.vramAddr.value()&ppuMaxAddr >= paletteAddr {
			data = p.dataBuffer
		}
		p.incrementVram()
	}

	return data
}

// cpuPeek reads a register without side effects.
func (p *Ppu) cpuPeek(addr uint16) byte {
	switch addr {
	case 0x0000: // Controller
		return byte(p.ctrl)
	case 0x0001: // Mask
		return byte(p.mask)
	case 0x0002: // Status
		return (byte(p.status) & 0xE0) | (p.dataBuffer & 0x1F)
	case 0x0003: // OAM Address
		return p.oamAddr
	case 0x0004: // OAM Data
		return p.oam.read(p.oamAddr)
	case 0x0007: // Data
		return p.dataBuffer
	}

	return 0
}

func (p *Ppu) cpuWrite(host PpuHost, addr uint16, data byte) {
	switch addr {
	case 0x0000: // Controller
		nmiWasOn := p.ctrl.hasFlag(ctrlNmi)
		p.ctrl = PpuReg(data)
		p.tramAddr.setNametable(p.ctrl.nametable())

		// Enabling NMI during vertical blank raises it straight away.
		if !nmiWasOn && p.ctrl.hasFlag(ctrlNmi) && p.status.hasFlag(statusVBlank) {
			host.TriggerNmi()
		}
	case 0x0001: // Mask
		p.mask = PpuReg(data)
	case 0x0003: // OAM Address
		p.oamAddr = data
	case 0x0004: // OAM Data
		p.oam.write(p.oamAddr, data)
		p.oamAddr++
	case 0x0005: // Scroll
		if !p.writeToggle {
			p.fineX = data & 0x07
			p.tramAddr.setCoarseX(data >> 3)
		} else {
			p.tramAddr.setFineY(data & 0x07)
			p.tramAddr.setCoarseY(data >> 3)
		}
		p.writeToggle = !p.writeToggle
	case 0x0006: // Address
		if !p.writeToggle {
			p.tramAddr = PpuLoopyReg(uint16(data&0x3F)<<8 | p.tramAddr.value()&0x00FF)
		} else {
			p.tramAddr = PpuLoopyReg(p.tramAddr.value()&0xFF00 | uint16(data))
			p.vramAddr = p.tramAddr
		}
		p.writeToggle = !p.writeToggle
	case 0x0007: // Data
		host.PpuWrite(p.vramAddr.value(), data)
		p.incrementVram()
	}
}

// Convenience functions for development.

// PatternTable decodes pattern table i (0 or 1) into a 128x128 image of system
// palette indices, colored with the given palette (0-7). Pattern tables are
// 16x16 grids of tiles, each tile is 8x8 pixels and 16 bytes of memory.
func (p *Ppu) PatternTable(host PpuHost, i int, palette byte) []byte {
	img := make([]byte, 128*128)

	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			memOffset := patternTblSize*uint16(i) + uint16(tileY*256+tileX*16)

			for row := 0; row < 8; row++ {
				// 2 bytes represent an 8 pixel row.
				lo := host.PpuRead(memOffset + uint16(row))
				hi := host.PpuRead(memOffset + uint16(row) + 8)

				for col := 0; col < 8; col++ {
					px := pixelInfo{color: patternPixel(lo, hi, col), palette: palette & 0x07}
					img[(tileY*8+row)*128+tileX*8+col] = p.pixelColor(host, px)
				}
			}
		}
	}

	return img
}
