package nes

// Scanline rendering. The background for a whole line is decoded at cycle 1
// into bgBuffer, sprites for the next line are decoded at cycle 257 into
// fgBuffer, and the two are composited pixel by pixel.

// renderScanline draws the current scanline.
func (p *Ppu) renderScanline(host PpuHost) {
	p.preRenderBackground(host)

	p.sprite0HitPos = -1

	for x := 0; x < ScreenWidth; x++ {
		bg := p.bgPixel(x)
		fg := p.fgPixel(x)

		p.checkSprite0(x, bg)

		host.SetPixel(x, p.scanline, p.pixelColor(host, composite(bg, fg)))
	}
}

// preRenderBackground decodes the 33 tiles visible on this line, starting at
// the tile v points to.
func (p *Ppu) preRenderBackground(host PpuHost) {
	p.bgBuffer = [bgBufferSize]pixelInfo{}

	if !p.mask.hasFlag(maskBgShow) {
		return
	}

	for tile := 0; tile < 33; tile++ {
		p.preRenderTile(host, tile)
		if tile < 32 {
			p.vramAddr.incrementX()
		}
	}
}

func (p *Ppu) preRenderTile(host PpuHost, tile int) {
	v := p.vramAddr.value()

	id := host.PpuRead(nameTblAddr | (v & 0x0FFF))

	// Each attribute byte covers 4x4 tiles, 2 bits per 2x2 quadrant.
	attr := host.PpuRead(attributeAddr | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07))
	shift := ((p.vramAddr.getCoarseY() & 0x02) << 1) | (p.vramAddr.getCoarseX() & 0x02)
	palette := (attr >> shift) & 0x03

	addr := p.ctrl.bgPatternTable() + uint16(id)*16 + uint16(p.vramAddr.getFineY())
	lo := host.PpuRead(addr)
	hi := host.PpuRead(addr + 8)

	for i := 0; i < 8; i++ {
		p.bgBuffer[tile*8+i] = pixelInfo{
			color:    patternPixel(lo, hi, i),
			palette:  palette,
			priority: priorityMiddle,
		}
	}
}

// patternPixel returns the 2 bit color of pixel i (0 is leftmost) of a
// pattern row.
func patternPixel(lo, hi byte, i int) byte {
	shift := 7 - uint(i)
	return ((hi>>shift)&0x01)<<1 | (lo>>shift)&0x01
}

func (p *Ppu) bgPixel(x int) pixelInfo {
	if x < 8 && !p.mask.hasFlag(maskBgLeft) {
		return pixelInfo{}
	}
	return p.bgBuffer[x+int(p.fineX)]
}

func (p *Ppu) fgPixel(x int) pixelInfo {
	if x < 8 && !p.mask.hasFlag(maskSpriteLeft) {
		return pixelInfo{}
	}
	return p.fgBuffer[x]
}

// composite picks the visible pixel out of a background and sprite pixel.
func composite(bg, fg pixelInfo) pixelInfo {
	switch {
	case fg.priority == priorityUnset:
		return bg
	case bg.color == 0 && fg.color == 0:
		return pixelInfo{}
	case bg.color == 0:
		return fg
	case fg.color == 0:
		return bg
	case fg.priority == priorityFront:
		return fg
	}
	return bg
}

// pixelColor looks up the system palette index of a pixel.
func (p *Ppu) pixelColor(host PpuHost, px pixelInfo) byte {
	// Transparent pixels show the universal background color.
	if px.color == 0 {
		px.palette = 0
	}

	color := host.PpuRead(paletteAddr+uint16(px.palette)*4+uint16(px.color)) & 0x3F

	if p.mask.hasFlag(maskGreyscale) {
		color &= 0x30
	}

	return color
}

// checkSprite0 records the first x where an opaque sprite zero pixel overlaps
// an opaque background pixel. The flag is raised when the PPU reaches that
// cycle.
func (p *Ppu) checkSprite0(x int, bg pixelInfo) {
	if p.sprite0HitPos >= 0 || p.sprite0X < 0 {
		return
	}
	if !p.mask.hasFlag(maskBgShow) || !p.mask.hasFlag(maskSpriteShow) {
		return
	}
	if x == ScreenWidth-1 {
		return
	}
	if x < 8 && (!p.mask.hasFlag(maskBgLeft) || !p.mask.hasFlag(maskSpriteLeft)) {
		return
	}

	offset := x - p.sprite0X
	if offset < 0 || offset > 7 {
		return
	}

	if p.sprite0Alpha&(0x80>>uint(offset)) > 0 && bg.color != 0 {
		p.sprite0HitPos = x
	}
}

// evaluateSprites finds the sprites on the next scanline and decodes them into
// fgBuffer. Only 8 sprites fit on a line, a 9th sets the overflow flag.
func (p *Ppu) evaluateSprites(host PpuHost) {
	p.fgBuffer = [ScreenWidth]pixelInfo{}
	p.sprite0X = -1
	p.sprite0Alpha = 0

	if !p.mask.renderingEnabled() {
		return
	}

	height := p.ctrl.spriteHeight()
	count := 0

	for i := 0; i < oamSpriteCount; i++ {
		s := p.oam.sprite(i)

		// OAM Y is one less than the first line the sprite appears on.
		row := p.scanline - int(s.y)
		if row < 0 || row >= height {
			continue
		}

		if count == 8 {
			p.status.setFlag(statusSpriteOverflow)
			break
		}
		count++

		lo, hi := p.spriteRow(host, s, row, height)

		if i == 0 {
			p.sprite0X = int(s.x)
			p.sprite0Alpha = lo | hi
		}

		if p.mask.hasFlag(maskSpriteShow) {
			p.drawSprite(s, lo, hi)
		}
	}
}

// spriteRow fetches the pattern bytes of one row of a sprite, with flipping
// applied.
func (p *Ppu) spriteRow(host PpuHost, s oamSprite, row, height int) (byte, byte) {
	if s.isFlippedVertical() {
		row = height - 1 - row
	}

	var addr uint16
	if height == 16 {
		// 8x16 sprites select their pattern table with bit 0 of the tile id.
		table := uint16(s.id&0x01) * patternTblSize
		tile := uint16(s.id & 0xFE)
		if row >= 8 {
			tile++
			row -= 8
		}
		addr = table + tile*16 + uint16(row)
	} else {
		addr = p.ctrl.spritePatternTable() + uint16(s.id)*16 + uint16(row)
	}

	lo := host.PpuRead(addr)
	hi := host.PpuRead(addr + 8)

	if s.isFlippedHorizontal() {
		lo, hi = flipByte(lo), flipByte(hi)
	}

	return lo, hi
}

// drawSprite writes the opaque pixels of a sprite row to fgBuffer. Sprites
// earlier in OAM have already claimed their pixels and stay on top.
func (p *Ppu) drawSprite(s oamSprite, lo, hi byte) {
	priority := priorityFront
	if s.isBehindBackground() {
		priority = priorityBack
	}

	for i := 0; i < 8; i++ {
		x := int(s.x) + i
		if x >= ScreenWidth {
			break
		}

		color := patternPixel(lo, hi, i)
		if color == 0 || p.fgBuffer[x].priority != priorityUnset {
			continue
		}

		p.fgBuffer[x] = pixelInfo{
			color:    color,
			palette:  s.palette() + 4,
			priority: priority,
		}
	}
}
