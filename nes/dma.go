package nes

// OAM DMA copies a 256 byte page of CPU memory into OAM. Writing the page
// number to $4014 starts the transfer. It takes 512 CPU cycles, plus one if it
// starts on an odd cycle, during which the CPU is halted.
type dma struct {
	active  bool
	aligned bool // The first read happens on an even cycle
	page    byte
	offset  byte // Next byte of the page to copy
	count   int  // Bytes copied so far
	data    byte
}

func (d *dma) start(page byte) {
	*d = dma{
		active: true,
		page:   page,
	}
}

// clock runs one CPU cycle of the transfer. Reads happen on even cycles and
// writes on odd cycles. Byte i of the page lands in OAM[i].
func (d *dma) clock(b *Bus, even bool) {
	if !d.aligned {
		if !even {
			return
		}
		d.aligned = true
	}

	if even {
		d.data = b.CpuRead(uint16(d.page)<<8 | uint16(d.offset))
		d.offset++
		return
	}

	b.Ppu.oam.write(d.offset-1, d.data)

	d.count++
	if d.count == oamSize {
		d.active = false
	}
}
