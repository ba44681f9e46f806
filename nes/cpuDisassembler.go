package nes

import (
	"bytes"
	"fmt"
)

// Disassemble the loaded 6502 program into human-readable CPU instructions
// mapped to their respective memory address. Memory is read with CpuPeek so
// disassembling never disturbs device registers.
//
// Much help from https://github.com/OneLoneCoder/olcNES
func (cpu *Cpu6502) Disassemble(mem CpuMemory, startAddr, endAddr uint16) map[uint16]string {
	// Current CPU instruction, disassembled
	var lineDiss bytes.Buffer
	var value, lo, hi byte

	// this needs to be bigger than uint16, to determine when larger than endAddr
	var addr uint32 = uint32(startAddr)

	next := func() byte {
		b := mem.CpuPeek(uint16(addr))
		addr++
		return b
	}

	disassembly := make(map[uint16]string)

	for addr <= uint32(endAddr) {
		// Instruction memory address
		lineAddr := uint16(addr)
		lineDiss.WriteString(fmt.Sprintf("$%04X: ", lineAddr))

		// Readable instruction name
		opcode := next()
		inst := cpu.InstLookup[opcode]
		lineDiss.WriteString(fmt.Sprintf("%s ", inst.Name))

		switch inst.Mode {
		case IMP:
			lineDiss.WriteString("{IMP}")
		case ACC:
			lineDiss.WriteString("A {ACC}")
		case IMM:
			value = next()
			lineDiss.WriteString(fmt.Sprintf("#$%02X {IMM}", value))
		case REL:
			value = next()
			target := uint16(addr) + uint16(int8(value))
			lineDiss.WriteString(fmt.Sprintf("$%02X [$%04X] {REL}", value, target))
		case ZP0:
			lo = next()
			lineDiss.WriteString(fmt.Sprintf("$%02X {ZP0}", lo))
		case ZPX:
			lo = next()
			lineDiss.WriteString(fmt.Sprintf("$%02X, X {ZPX}", lo))
		case ZPY:
			lo = next()
			lineDiss.WriteString(fmt.Sprintf("$%02X, Y {ZPY}", lo))
		case ABS:
			lo, hi = next(), next()
			lineDiss.WriteString(fmt.Sprintf("$%04X {ABS}", uint16(hi)<<8|uint16(lo)))
		case ABX:
			lo, hi = next(), next()
			lineDiss.WriteString(fmt.Sprintf("$%04X, X {ABX}", uint16(hi)<<8|uint16(lo)))
		case ABY:
			lo, hi = next(), next()
			lineDiss.WriteString(fmt.Sprintf("$%04X, Y {ABY}", uint16(hi)<<8|uint16(lo)))
		case IND:
			lo, hi = next(), next()
			lineDiss.WriteString(fmt.Sprintf("($%04X) {IND}", uint16(hi)<<8|uint16(lo)))
		case IZX:
			lo = next()
			lineDiss.WriteString(fmt.Sprintf("($%02X, X) {IZX}", lo))
		case IZY:
			lo = next()
			lineDiss.WriteString(fmt.Sprintf("($%02X), Y {IZY}", lo))
		}

		// Add to map
		disassembly[lineAddr] = lineDiss.String()
		lineDiss.Reset()
	}

	return disassembly
}
