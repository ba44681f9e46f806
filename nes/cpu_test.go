package nes

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"testing"
)

// testMemory is a flat 64KB address space with no devices.
type testMemory struct {
	ram [0x10000]byte
}

func (m *testMemory) CpuRead(addr uint16) byte        { return m.ram[addr] }
func (m *testMemory) CpuWrite(addr uint16, data byte) { m.ram[addr] = data }
func (m *testMemory) CpuPeek(addr uint16) byte        { return m.ram[addr] }

type expect struct {
	got  interface{}
	want interface{}
}

func checkAll(t *testing.T, tests []expect) {
	t.Helper()

	for i, test := range tests {
		if test.got != test.want {
			t.Errorf("%d: got %v, want %v\n", i, test.got, test.want)
		}
	}
}

// newTestCpu loads program at $8000, points the reset vector at it and resets
// the CPU. The reset cycles are skipped.
func newTestCpu(program ...byte) (*Cpu6502, *testMemory) {
	mem := &testMemory{}
	copy(mem.ram[0x8000:], program)
	mem.ram[resetVectAddr] = 0x00
	mem.ram[resetVectAddr+1] = 0x80

	cpu := NewCpu6502()
	cpu.Reset(mem)
	cpu.Cycles = 0

	return cpu, mem
}

func TestReset(t *testing.T) {
	mem := &testMemory{}
	mem.ram[resetVectAddr] = 0x34
	mem.ram[resetVectAddr+1] = 0x12

	cpu := NewCpu6502()
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.Reset(mem)
	cycles := cpu.Cycles

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x1234)},
		{cpu.Sp, byte(0xFD)},
		{cpu.Status, byte(0x24)},
		{cpu.A, byte(0)},
		{cpu.X, byte(0)},
		{cpu.Y, byte(0)},
		{cycles, byte(7)},
	})

	steps := cpu.Step(mem)

	checkAll(t, []expect{
		{steps, 7},
		{cpu.Cycles, byte(0)},
	})
}

////////////////////////////////////////////////////////////////
// Addressing Modes

func TestAmZPXWrap(t *testing.T) {
	// LDX #$01, LDA $FF,X
	cpu, mem := newTestCpu(0xA2, 0x01, 0xB5, 0xFF)
	mem.ram[0x0000] = 0x42
	mem.ram[0x0100] = 0x99

	cpu.Step(mem)
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.A, byte(0x42)},
		{cpu.AddrAbs, uint16(0x0000)},
		{cycles, 4},
	})
}

func TestAmIZX(t *testing.T) {
	// LDX #$04, LDA ($FD,X): pointer at $01, $02
	cpu, mem := newTestCpu(0xA2, 0x04, 0xA1, 0xFD)
	mem.ram[0x0001] = 0x00
	mem.ram[0x0002] = 0x03
	mem.ram[0x0300] = 0x5A

	cpu.Step(mem)
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.A, byte(0x5A)},
		{cycles, 6},
	})
}

func TestAmIZYWrap(t *testing.T) {
	// LDY #$10, LDA ($FF),Y: pointer low at $FF, high at $00
	cpu, mem := newTestCpu(0xA0, 0x10, 0xB1, 0xFF)
	mem.ram[0x00FF] = 0xF8
	mem.ram[0x0000] = 0x02
	mem.ram[0x0100] = 0x07 // Must not be used for the high byte
	mem.ram[0x0308] = 0x77

	cpu.Step(mem)
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.AddrAbs, uint16(0x0308)},
		{cpu.A, byte(0x77)},
		{cycles, 6}, // Page crossed
	})
}

func TestAmIND(t *testing.T) {
	// JMP ($02FF)
	cpu, mem := newTestCpu(0x6C, 0xFF, 0x02)
	mem.ram[0x02FF] = 0x34
	mem.ram[0x0300] = 0x56
	mem.ram[0x0200] = 0x12

	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x1234)},
		{cycles, 5},
	})
}

func TestAmREL(t *testing.T) {
	cpu, mem := newTestCpu(0xD0, 0xFC)
	cpu.Pc = 0x8001 // Past the opcode
	cpu.amREL(mem)

	checkAll(t, []expect{
		{cpu.AddrRel, uint16(0xFFFC)},
		{cpu.Pc, uint16(0x8002)},
	})
}

func TestPageCrossCycles(t *testing.T) {
	cpu, mem := newTestCpu(
		0xA2, 0x01, // LDX #$01
		0xBD, 0xFF, 0x80, // LDA $80FF,X
		0xBD, 0x00, 0x80, // LDA $8000,X
		0x9D, 0xFF, 0x02, // STA $02FF,X
		0x9D, 0x00, 0x02, // STA $0200,X
		0xBE, 0xFF, 0x80, // LDX $80FF,Y
	)

	want := []int{2, 5, 4, 5, 5, 4}
	for i, w := range want {
		if got := cpu.Step(mem); got != w {
			t.Errorf("instruction %d: got %v cycles, want %v\n", i, got, w)
		}
	}
}

////////////////////////////////////////////////////////////////
// Instructions

func TestOpLDA(t *testing.T) {
	tests := []struct {
		operand byte
		status  byte
	}{
		{0x10, 0x24},
		{0x00, 0x26},
		{0x80, 0xA4},
	}

	for _, test := range tests {
		cpu, mem := newTestCpu(0xA9, test.operand)
		cycles := cpu.Step(mem)

		checkAll(t, []expect{
			{cpu.A, test.operand},
			{cpu.Status, test.status},
			{cpu.Pc, uint16(0x8002)},
			{cycles, 2},
		})
	}
}

func TestOpADC(t *testing.T) {
	tests := []struct {
		a, m, carry byte
		want        byte
		c, z, v, n  byte
	}{
		{0x01, 0x01, 0, 0x02, 0, 0, 0, 0},
		{0x50, 0x50, 0, 0xA0, 0, 0, 1, 1},
		{0xFF, 0x01, 0, 0x00, 1, 1, 0, 0},
		{0xD0, 0x90, 0, 0x60, 1, 0, 1, 0},
		{0x01, 0x01, 1, 0x03, 0, 0, 0, 0},
	}

	for _, test := range tests {
		cpu, mem := newTestCpu(0x69, test.m)
		cpu.A = test.a
		cpu.setFlag(StatusFlagC, test.carry == 1)
		cpu.Step(mem)

		checkAll(t, []expect{
			{cpu.A, test.want},
			{cpu.getFlag(StatusFlagC), test.c},
			{cpu.getFlag(StatusFlagZ), test.z},
			{cpu.getFlag(StatusFlagV), test.v},
			{cpu.getFlag(StatusFlagN), test.n},
		})
	}
}

func TestOpSBC(t *testing.T) {
	tests := []struct {
		a, m, carry byte
		want        byte
		c, v        byte
	}{
		{0x05, 0x03, 1, 0x02, 1, 0},
		{0x05, 0x06, 1, 0xFF, 0, 0},
		{0x05, 0x03, 0, 0x01, 1, 0},
		{0x80, 0x01, 1, 0x7F, 1, 1},
	}

	for _, test := range tests {
		cpu, mem := newTestCpu(0xE9, test.m)
		cpu.A = test.a
		cpu.setFlag(StatusFlagC, test.carry == 1)
		cpu.Step(mem)

		checkAll(t, []expect{
			{cpu.A, test.want},
			{cpu.getFlag(StatusFlagC), test.c},
			{cpu.getFlag(StatusFlagV), test.v},
		})
	}
}

func TestDecimalMode(t *testing.T) {
	tests := []struct {
		opcode   byte
		a, m     byte
		carry    byte
		decimal  bool
		want     byte
		wantC    byte
		wantZero byte
	}{
		{0x69, 0x09, 0x01, 0, true, 0x10, 0, 0},
		{0x69, 0x99, 0x01, 0, true, 0x00, 1, 0},
		{0x69, 0x09, 0x01, 1, true, 0x11, 0, 0},
		{0xE9, 0x10, 0x01, 1, true, 0x09, 1, 0},
		{0xE9, 0x00, 0x01, 1, true, 0x99, 0, 0},
		// Decimal flag set but the NES CPU ignores it.
		{0x69, 0x09, 0x01, 0, false, 0x0A, 0, 0},
	}

	for _, test := range tests {
		cpu, mem := newTestCpu(test.opcode, test.m)
		cpu.DecimalEnabled = test.decimal
		cpu.A = test.a
		cpu.setFlag(StatusFlagD, true)
		cpu.setFlag(StatusFlagC, test.carry == 1)
		cpu.Step(mem)

		checkAll(t, []expect{
			{cpu.A, test.want},
			{cpu.getFlag(StatusFlagC), test.wantC},
			{cpu.getFlag(StatusFlagZ), test.wantZero},
		})
	}
}

func TestOpASLAccumulator(t *testing.T) {
	cpu, mem := newTestCpu(0x0A)
	cpu.A = 0x81
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.A, byte(0x02)},
		{cpu.getFlag(StatusFlagC), byte(1)},
		{cpu.getFlag(StatusFlagN), byte(0)},
		{cycles, 2},
	})
}

func TestOpRORMemory(t *testing.T) {
	// ROR $10
	cpu, mem := newTestCpu(0x66, 0x10)
	mem.ram[0x10] = 0x01
	cpu.A = 0x55
	cpu.setFlag(StatusFlagC, true)
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{mem.ram[0x10], byte(0x80)},
		{cpu.A, byte(0x55)},
		{cpu.getFlag(StatusFlagC), byte(1)},
		{cpu.getFlag(StatusFlagN), byte(1)},
		{cycles, 5},
	})
}

func TestOpAND(t *testing.T) {
	cpu, mem := newTestCpu(0x29, 0x0F)
	cpu.A = 0xF0
	flags := cpu.Status
	cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.A, byte(0x00)},
		{cpu.getFlag(StatusFlagZ), byte(1)},
		{cpu.getFlag(StatusFlagN), byte(0)},
		{cpu.Status &^ byte(StatusFlagZ), flags}, // others unchanged
	})
}

func TestOpBIT(t *testing.T) {
	// BIT $20
	cpu, mem := newTestCpu(0x24, 0x20)
	mem.ram[0x20] = 0xC0
	cpu.A = 0x01
	cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.getFlag(StatusFlagZ), byte(1)},
		{cpu.getFlag(StatusFlagV), byte(1)},
		{cpu.getFlag(StatusFlagN), byte(1)},
		{cpu.A, byte(0x01)},
	})
}

func TestOpCMP(t *testing.T) {
	tests := []struct {
		a, m    byte
		c, z, n byte
	}{
		{0x10, 0x10, 1, 1, 0},
		{0x20, 0x10, 1, 0, 0},
		{0x10, 0x20, 0, 0, 1},
	}

	for _, test := range tests {
		cpu, mem := newTestCpu(0xC9, test.m)
		cpu.A = test.a
		cpu.Step(mem)

		checkAll(t, []expect{
			{cpu.getFlag(StatusFlagC), test.c},
			{cpu.getFlag(StatusFlagZ), test.z},
			{cpu.getFlag(StatusFlagN), test.n},
		})
	}
}

func TestBranchCycles(t *testing.T) {
	tests := []struct {
		offset     byte
		zero       bool
		wantCycles int
		wantPc     uint16
	}{
		{0x02, true, 2, 0x8002},  // Not taken
		{0x02, false, 3, 0x8004}, // Taken, same page
		{0xFC, false, 4, 0x7FFE}, // Taken, previous page
	}

	for _, test := range tests {
		// BNE
		cpu, mem := newTestCpu(0xD0, test.offset)
		cpu.setFlag(StatusFlagZ, test.zero)
		cycles := cpu.Step(mem)

		checkAll(t, []expect{
			{cycles, test.wantCycles},
			{cpu.Pc, test.wantPc},
		})
	}
}

func TestOpJSRRTS(t *testing.T) {
	// JSR $9000
	cpu, mem := newTestCpu(0x20, 0x00, 0x90)
	mem.ram[0x9000] = 0x60 // RTS

	jsrCycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x9000)},
		{cpu.Sp, byte(0xFB)},
		{mem.ram[0x01FD], byte(0x80)},
		{mem.ram[0x01FC], byte(0x02)},
		{jsrCycles, 6},
	})

	rtsCycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x8003)},
		{cpu.Sp, byte(0xFD)},
		{rtsCycles, 6},
	})
}

func TestOpBRKRTI(t *testing.T) {
	cpu, mem := newTestCpu(0x00, 0xEA)
	mem.ram[irqVectAddr] = 0x00
	mem.ram[irqVectAddr+1] = 0x90
	mem.ram[0x9000] = 0x40 // RTI
	cpu.Status = byte(StatusFlagU) | byte(StatusFlagC)

	brkCycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x9000)},
		{cpu.Sp, byte(0xFA)},
		{mem.ram[0x01FD], byte(0x80)},
		{mem.ram[0x01FC], byte(0x02)},
		{mem.ram[0x01FB], byte(0x31)}, // B and U set on the stack
		{cpu.getFlag(StatusFlagI), byte(1)},
		{brkCycles, 7},
	})

	rtiCycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x8002)},
		{cpu.Sp, byte(0xFD)},
		{cpu.Status, byte(0x21)},
		{rtiCycles, 6},
	})
}

func TestOpPHPPLP(t *testing.T) {
	// PHP, PLP
	cpu, mem := newTestCpu(0x08, 0x28)
	cpu.Status = byte(StatusFlagU) | byte(StatusFlagC)

	cpu.Step(mem)
	pushed := mem.ram[0x01FD]

	mem.ram[0x01FD] = 0xFF
	cpu.Step(mem)

	checkAll(t, []expect{
		{pushed, byte(0x31)},
		{cpu.Status, byte(0xEF)}, // B never set in the register
		{cpu.Sp, byte(0xFD)},
	})
}

func TestOpTXS(t *testing.T) {
	// LDX #$00, TXS
	cpu, mem := newTestCpu(0xA2, 0x00, 0x9A)
	cpu.Step(mem)
	flags := cpu.Status
	cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Sp, byte(0x00)},
		{cpu.Status, flags}, // TXS sets no flags
	})
}

func TestIllegalOpcode(t *testing.T) {
	cpu, mem := newTestCpu(0x02)
	cycles := cpu.Step(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0x8001)},
		{cycles, 2},
	})
}

////////////////////////////////////////////////////////////////
// Interrupts

func TestNMI(t *testing.T) {
	cpu, mem := newTestCpu(0xEA)
	mem.ram[nmiVectAddr] = 0x00
	mem.ram[nmiVectAddr+1] = 0xA0
	cpu.Status = byte(StatusFlagU) | byte(StatusFlagI)

	cpu.NMI(mem)

	checkAll(t, []expect{
		{cpu.Pc, uint16(0xA000)},
		{cpu.Sp, byte(0xFA)},
		{mem.ram[0x01FD], byte(0x80)},
		{mem.ram[0x01FC], byte(0x00)},
		{mem.ram[0x01FB], byte(0x24)}, // B clear, U set
		{cpu.getFlag(StatusFlagI), byte(1)},
		{cpu.Cycles, byte(7)},
	})
}

func TestIRQ(t *testing.T) {
	cpu, mem := newTestCpu(0xEA)
	mem.ram[irqVectAddr] = 0x00
	mem.ram[irqVectAddr+1] = 0xB0

	// Masked after reset.
	cpu.IRQ(mem)
	masked := cpu.Pc

	cpu.setFlag(StatusFlagI, false)
	cpu.IRQ(mem)

	checkAll(t, []expect{
		{masked, uint16(0x8000)},
		{cpu.Pc, uint16(0xB000)},
		{mem.ram[0x01FB], byte(0x20)},
		{cpu.getFlag(StatusFlagI), byte(1)},
		{cpu.Cycles, byte(7)},
	})
}

////////////////////////////////////////////////////////////////
// Logging and disassembly

func TestCpuLogger(t *testing.T) {
	var buf bytes.Buffer

	cpu, mem := newTestCpu(0xA9, 0x10)
	cpu.Logger = log.New(&buf, "", 0)
	cpu.Step(mem)

	if !strings.HasPrefix(buf.String(), "8000\tA9 - LDA ") {
		t.Errorf("got %q, want an LDA trace line\n", buf.String())
	}
	if !strings.Contains(buf.String(), "P:24 SP:FD") {
		t.Errorf("got %q, want the state before the instruction\n", buf.String())
	}
}

func TestDisassemble(t *testing.T) {
	cpu, mem := newTestCpu(
		0xA9, 0x10, // LDA #$10
		0x8D, 0x00, 0x02, // STA $0200
		0x4C, 0x03, 0x80, // JMP $8003
		0xD0, 0xFE, // BNE
		0x0A, // ASL A
	)

	diss := cpu.Disassemble(mem, 0x8000, 0x800A)

	checkAll(t, []expect{
		{diss[0x8000], "$8000: LDA #$10 {IMM}"},
		{diss[0x8002], "$8002: STA $0200 {ABS}"},
		{diss[0x8005], "$8005: JMP $8003 {ABS}"},
		{diss[0x8008], "$8008: BNE $FE [$8008] {REL}"},
		{diss[0x800A], "$800A: ASL A {ACC}"},
		{len(diss), 5},
	})
}

////////////////////////////////////////////////////////////////
// Opcode table

// documentedOpcodes lists every documented 6502 instruction with its base
// cycle count, from the R650X datasheet.
var documentedOpcodes = map[byte]struct {
	name   string
	mode   AddressingMode
	cycles byte
}{
	0x69: {"ADC", IMM, 2}, 0x65: {"ADC", ZP0, 3}, 0x75: {"ADC", ZPX, 4}, 0x6D: {"ADC", ABS, 4},
	0x7D: {"ADC", ABX, 4}, 0x79: {"ADC", ABY, 4}, 0x61: {"ADC", IZX, 6}, 0x71: {"ADC", IZY, 5},

	0x29: {"AND", IMM, 2}, 0x25: {"AND", ZP0, 3}, 0x35: {"AND", ZPX, 4}, 0x2D: {"AND", ABS, 4},
	0x3D: {"AND", ABX, 4}, 0x39: {"AND", ABY, 4}, 0x21: {"AND", IZX, 6}, 0x31: {"AND", IZY, 5},

	0x0A: {"ASL", ACC, 2}, 0x06: {"ASL", ZP0, 5}, 0x16: {"ASL", ZPX, 6}, 0x0E: {"ASL", ABS, 6},
	0x1E: {"ASL", ABX, 7},

	0x90: {"BCC", REL, 2}, 0xB0: {"BCS", REL, 2}, 0xF0: {"BEQ", REL, 2}, 0x30: {"BMI", REL, 2},
	0xD0: {"BNE", REL, 2}, 0x10: {"BPL", REL, 2}, 0x50: {"BVC", REL, 2}, 0x70: {"BVS", REL, 2},

	0x24: {"BIT", ZP0, 3}, 0x2C: {"BIT", ABS, 4},

	0x00: {"BRK", IMP, 7},

	0x18: {"CLC", IMP, 2}, 0xD8: {"CLD", IMP, 2}, 0x58: {"CLI", IMP, 2}, 0xB8: {"CLV", IMP, 2},

	0xC9: {"CMP", IMM, 2}, 0xC5: {"CMP", ZP0, 3}, 0xD5: {"CMP", ZPX, 4}, 0xCD: {"CMP", ABS, 4},
	0xDD: {"CMP", ABX, 4}, 0xD9: {"CMP", ABY, 4}, 0xC1: {"CMP", IZX, 6}, 0xD1: {"CMP", IZY, 5},

	0xE0: {"CPX", IMM, 2}, 0xE4: {"CPX", ZP0, 3}, 0xEC: {"CPX", ABS, 4},
	0xC0: {"CPY", IMM, 2}, 0xC4: {"CPY", ZP0, 3}, 0xCC: {"CPY", ABS, 4},

	0xC6: {"DEC", ZP0, 5}, 0xD6: {"DEC", ZPX, 6}, 0xCE: {"DEC", ABS, 6}, 0xDE: {"DEC", ABX, 7},
	0xCA: {"DEX", IMP, 2}, 0x88: {"DEY", IMP, 2},

	0x49: {"EOR", IMM, 2}, 0x45: {"EOR", ZP0, 3}, 0x55: {"EOR", ZPX, 4}, 0x4D: {"EOR", ABS, 4},
	0x5D: {"EOR", ABX, 4}, 0x59: {"EOR", ABY, 4}, 0x41: {"EOR", IZX, 6}, 0x51: {"EOR", IZY, 5},

	0xE6: {"INC", ZP0, 5}, 0xF6: {"INC", ZPX, 6}, 0xEE: {"INC", ABS, 6}, 0xFE: {"INC", ABX, 7},
	0xE8: {"INX", IMP, 2}, 0xC8: {"INY", IMP, 2},

	0x4C: {"JMP", ABS, 3}, 0x6C: {"JMP", IND, 5}, 0x20: {"JSR", ABS, 6},

	0xA9: {"LDA", IMM, 2}, 0xA5: {"LDA", ZP0, 3}, 0xB5: {"LDA", ZPX, 4}, 0xAD: {"LDA", ABS, 4},
	0xBD: {"LDA", ABX, 4}, 0xB9: {"LDA", ABY, 4}, 0xA1: {"LDA", IZX, 6}, 0xB1: {"LDA", IZY, 5},

	0xA2: {"LDX", IMM, 2}, 0xA6: {"LDX", ZP0, 3}, 0xB6: {"LDX", ZPY, 4}, 0xAE: {"LDX", ABS, 4},
	0xBE: {"LDX", ABY, 4},

	0xA0: {"LDY", IMM, 2}, 0xA4: {"LDY", ZP0, 3}, 0xB4: {"LDY", ZPX, 4}, 0xAC: {"LDY", ABS, 4},
	0xBC: {"LDY", ABX, 4},

	0x4A: {"LSR", ACC, 2}, 0x46: {"LSR", ZP0, 5}, 0x56: {"LSR", ZPX, 6}, 0x4E: {"LSR", ABS, 6},
	0x5E: {"LSR", ABX, 7},

	0xEA: {"NOP", IMP, 2},

	0x09: {"ORA", IMM, 2}, 0x05: {"ORA", ZP0, 3}, 0x15: {"ORA", ZPX, 4}, 0x0D: {"ORA", ABS, 4},
	0x1D: {"ORA", ABX, 4}, 0x19: {"ORA", ABY, 4}, 0x01: {"ORA", IZX, 6}, 0x11: {"ORA", IZY, 5},

	0x48: {"PHA", IMP, 3}, 0x08: {"PHP", IMP, 3}, 0x68: {"PLA", IMP, 4}, 0x28: {"PLP", IMP, 4},

	0x2A: {"ROL", ACC, 2}, 0x26: {"ROL", ZP0, 5}, 0x36: {"ROL", ZPX, 6}, 0x2E: {"ROL", ABS, 6},
	0x3E: {"ROL", ABX, 7},

	0x6A: {"ROR", ACC, 2}, 0x66: {"ROR", ZP0, 5}, 0x76: {"ROR", ZPX, 6}, 0x6E: {"ROR", ABS, 6},
	0x7E: {"ROR", ABX, 7},

	0x40: {"RTI", IMP, 6}, 0x60: {"RTS", IMP, 6},

	0xE9: {"SBC", IMM, 2}, 0xE5: {"SBC", ZP0, 3}, 0xF5: {"SBC", ZPX, 4}, 0xED: {"SBC", ABS, 4},
	0xFD: {"SBC", ABX, 4}, 0xF9: {"SBC", ABY, 4}, 0xE1: {"SBC", IZX, 6}, 0xF1: {"SBC", IZY, 5},

	0x38: {"SEC", IMP, 2}, 0xF8: {"SED", IMP, 2}, 0x78: {"SEI", IMP, 2},

	0x85: {"STA", ZP0, 3}, 0x95: {"STA", ZPX, 4}, 0x8D: {"STA", ABS, 4}, 0x9D: {"STA", ABX, 5},
	0x99: {"STA", ABY, 5}, 0x81: {"STA", IZX, 6}, 0x91: {"STA", IZY, 6},

	0x86: {"STX", ZP0, 3}, 0x96: {"STX", ZPY, 4}, 0x8E: {"STX", ABS, 4},
	0x84: {"STY", ZP0, 3}, 0x94: {"STY", ZPX, 4}, 0x8C: {"STY", ABS, 4},

	0xAA: {"TAX", IMP, 2}, 0xA8: {"TAY", IMP, 2}, 0xBA: {"TSX", IMP, 2},
	0x8A: {"TXA", IMP, 2}, 0x9A: {"TXS", IMP, 2}, 0x98: {"TYA", IMP, 2},
}

// Reads through an indexed mode pay for a page crossing. Stores and
// read-modify-write instructions always take the long path.
var pageCrossReads = map[string]bool{
	"ADC": true, "AND": true, "CMP": true, "EOR": true, "LDA": true,
	"LDX": true, "LDY": true, "ORA": true, "SBC": true,
}

func TestInstructionTable(t *testing.T) {
	cpu := NewCpu6502()

	if len(documentedOpcodes) != 151 {
		t.Fatalf("got %v documented opcodes, want 151", len(documentedOpcodes))
	}

	for op := 0; op < 256; op++ {
		inst := cpu.InstLookup[op]
		doc, ok := documentedOpcodes[byte(op)]
		if !ok {
			// Undocumented opcodes run as 2 cycle no-ops.
			doc.name, doc.mode, doc.cycles = "XXX", IMP, 2
		}

		indexed := doc.mode == ABX || doc.mode == ABY || doc.mode == IZY
		pageCross := indexed && pageCrossReads[doc.name]

		tests := []expect{
			{inst.Name, doc.name},
			{inst.Mode, doc.mode},
			{inst.Cycles, doc.cycles},
			{inst.PageCross, pageCross},
		}
		for _, test := range tests {
			if test.got != test.want {
				t.Errorf("opcode $%02X: got %v, want %v\n", op, test.got, test.want)
			}
		}
		if inst.Execute == nil {
			t.Errorf("opcode $%02X: no Execute function\n", op)
		}
	}
}

////////////////////////////////////////////////////////////////
// Single step vectors in the format of the TomHarte ProcessorTests suite.
// Files from https://github.com/TomHarte/ProcessorTests/tree/main/6502/v1 can
// be dropped into testdata/6502/v1 to run the full suite.

type cpuVectorState struct {
	Pc  uint16     `json:"pc"`
	S   byte       `json:"s"`
	A   byte       `json:"a"`
	X   byte       `json:"x"`
	Y   byte       `json:"y"`
	P   byte       `json:"p"`
	Ram [][2]int64 `json:"ram"`
}

type cpuVector struct {
	Name    string            `json:"name"`
	Initial cpuVectorState    `json:"initial"`
	Final   cpuVectorState    `json:"final"`
	Cycles  []json.RawMessage `json:"cycles"`
}

func runCpuVectors(t *testing.T, path string) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read %v: %v", path, err)
	}

	var vectors []cpuVector
	if err := json.Unmarshal(data, &vectors); err != nil {
		t.Fatalf("unable to parse %v: %v", path, err)
	}

	for _, v := range vectors {
		mem := &testMemory{}
		for _, cell := range v.Initial.Ram {
			mem.ram[cell[0]] = byte(cell[1])
		}

		cpu := NewCpu6502()
		cpu.DecimalEnabled = true
		cpu.Pc = v.Initial.Pc
		cpu.Sp = v.Initial.S
		cpu.A = v.Initial.A
		cpu.X = v.Initial.X
		cpu.Y = v.Initial.Y
		cpu.Status = v.Initial.P

		if cpu.InstLookup[mem.ram[cpu.Pc]].Name == "XXX" {
			continue
		}

		cycles := cpu.Step(mem)

		// B and U are not real register bits.
		const statusMask = 0xCF

		tests := []expect{
			{cpu.Pc, v.Final.Pc},
			{cpu.Sp, v.Final.S},
			{cpu.A, v.Final.A},
			{cpu.X, v.Final.X},
			{cpu.Y, v.Final.Y},
			{cpu.Status & statusMask, v.Final.P & statusMask},
			{cycles, len(v.Cycles)},
		}
		for _, cell := range v.Final.Ram {
			tests = append(tests, expect{mem.ram[cell[0]], byte(cell[1])})
		}

		for _, test := range tests {
			if test.got != test.want {
				t.Errorf("%s: got %v, want %v\n", v.Name, test.got, test.want)
			}
		}
	}
}

func TestCpuVectors(t *testing.T) {
	runCpuVectors(t, filepath.Join("testdata", "6502", "handwritten.json"))

	files, _ := filepath.Glob(filepath.Join("testdata", "6502", "v1", "*.json"))
	if len(files) == 0 {
		t.Skip("ProcessorTests suite not present in testdata/6502/v1")
	}

	for _, f := range files {
		runCpuVectors(t, f)
	}
}
