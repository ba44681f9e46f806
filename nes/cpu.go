package nes

import (
	"bytes"
	"fmt"
	"log"
)

// CpuMemory is the CPU's view of the main bus.
type CpuMemory interface {
	CpuRead(addr uint16) byte
	CpuWrite(addr uint16, data byte)

	// Read without side effects, used for disassembly.
	CpuPeek(addr uint16) byte
}

type Cpu6502 struct {
	Pc     uint16 // Program Counter
	Sp     byte   // Stack Pointer: low 8 bits of next free location on stack.
	A      byte   // Accumulator Register
	X      byte   // X Register
	Y      byte   // Y Register
	Status byte   // Processor Status Flags

	// Internal variables
	Cycles        byte   // Remaining cycles for current insturction
	Opcode        byte   // Opcode representing next instruction to be executed
	AddrAbs       uint16 // Set by addressing mode functions, used by instructions
	AddrRel       uint16 // Relative displacement address used for branching
	Fetched       byte   // Byte of memory used by CPU instructions
	CycleCount    uint32 // Total # of cycles executed by the CPU
	isImpliedAddr bool   // Whether the current instruction operates on the accumulator or nothing

	// Binary coded decimal arithmetic for ADC and SBC. The NES variant of the
	// 6502 has decimal mode disconnected.
	DecimalEnabled bool

	InstLookup [16 * 16]Instruction // Instruction operation lookup
	addrModes  [addrModeCount]func(CpuMemory) bool

	OpDiss string // Dissasembly for the current instruction, used for debug

	Logger *log.Logger // CPU logging, nil disables tracing
}

const (
	stackBase uint16 = 0x0100
)

func NewCpu6502() *Cpu6502 {
	cpu := &Cpu6502{
		Sp:     0xFD,
		Status: byte(StatusFlagU),
	}

	cpu.addrModes = [addrModeCount]func(CpuMemory) bool{
		IMP: cpu.amIMP,
		ACC: cpu.amACC,
		IMM: cpu.amIMM,
		REL: cpu.amREL,
		ZP0: cpu.amZP0,
		ZPX: cpu.amZPX,
		ZPY: cpu.amZPY,
		ABS: cpu.amABS,
		ABX: cpu.amABX,
		ABY: cpu.amABY,
		IND: cpu.amIND,
		IZX: cpu.amIZX,
		IZY: cpu.amIZY,
	}

	// Create the lookup table containing all the CPU instructions.
	// Reference: http://archive.6502.org/datasheets/rockwell_r650x_r651x.pdf
	cpu.InstLookup = [16 * 16]Instruction{
		{"BRK", cpu.opBRK, IMP, 7, false}, {"ORA", cpu.opORA, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ORA", cpu.opORA, ZP0, 3, false}, {"ASL", cpu.opASL, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"PHP", cpu.opPHP, IMP, 3, false}, {"ORA", cpu.opORA, IMM, 2, false}, {"ASL", cpu.opASL, ACC, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ORA", cpu.opORA, ABS, 4, false}, {"ASL", cpu.opASL, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BPL", cpu.opBPL, REL, 2, false}, {"ORA", cpu.opORA, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ORA", cpu.opORA, ZPX, 4, false}, {"ASL", cpu.opASL, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CLC", cpu.opCLC, IMP, 2, false}, {"ORA", cpu.opORA, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ORA", cpu.opORA, ABX, 4, true}, {"ASL", cpu.opASL, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"JSR", cpu.opJSR, ABS, 6, false}, {"AND", cpu.opAND, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"BIT", cpu.opBIT, ZP0, 3, false}, {"AND", cpu.opAND, ZP0, 3, false}, {"ROL", cpu.opROL, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"PLP", cpu.opPLP, IMP, 4, false}, {"AND", cpu.opAND, IMM, 2, false}, {"ROL", cpu.opROL, ACC, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"BIT", cpu.opBIT, ABS, 4, false}, {"AND", cpu.opAND, ABS, 4, false}, {"ROL", cpu.opROL, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BMI", cpu.opBMI, REL, 2, false}, {"AND", cpu.opAND, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"AND", cpu.opAND, ZPX, 4, false}, {"ROL", cpu.opROL, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"SEC", cpu.opSEC, IMP, 2, false}, {"AND", cpu.opAND, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"AND", cpu.opAND, ABX, 4, true}, {"ROL", cpu.opROL, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"RTI", cpu.opRTI, IMP, 6, false}, {"EOR", cpu.opEOR, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"EOR", cpu.opEOR, ZP0, 3, false}, {"LSR", cpu.opLSR, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"PHA", cpu.opPHA, IMP, 3, false}, {"EOR", cpu.opEOR, IMM, 2, false}, {"LSR", cpu.opLSR, ACC, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"JMP", cpu.opJMP, ABS, 3, false}, {"EOR", cpu.opEOR, ABS, 4, false}, {"LSR", cpu.opLSR, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BVC", cpu.opBVC, REL, 2, false}, {"EOR", cpu.opEOR, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"EOR", cpu.opEOR, ZPX, 4, false}, {"LSR", cpu.opLSR, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CLI", cpu.opCLI, IMP, 2, false}, {"EOR", cpu.opEOR, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"EOR", cpu.opEOR, ABX, 4, true}, {"LSR", cpu.opLSR, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"RTS", cpu.opRTS, IMP, 6, false}, {"ADC", cpu.opADC, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ADC", cpu.opADC, ZP0, 3, false}, {"ROR", cpu.opROR, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"PLA", cpu.opPLA, IMP, 4, false}, {"ADC", cpu.opADC, IMM, 2, false}, {"ROR", cpu.opROR, ACC, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"JMP", cpu.opJMP, IND, 5, false}, {"ADC", cpu.opADC, ABS, 4, false}, {"ROR", cpu.opROR, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BVS", cpu.opBVS, REL, 2, false}, {"ADC", cpu.opADC, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ADC", cpu.opADC, ZPX, 4, false}, {"ROR", cpu.opROR, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"SEI", cpu.opSEI, IMP, 2, false}, {"ADC", cpu.opADC, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"ADC", cpu.opADC, ABX, 4, true}, {"ROR", cpu.opROR, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"XXX", cpu.opXXX, IMP, 2, false}, {"STA", cpu.opSTA, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"STY", cpu.opSTY, ZP0, 3, false}, {"STA", cpu.opSTA, ZP0, 3, false}, {"STX", cpu.opSTX, ZP0, 3, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"DEY", cpu.opDEY, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"TXA", cpu.opTXA, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"STY", cpu.opSTY, ABS, 4, false}, {"STA", cpu.opSTA, ABS, 4, false}, {"STX", cpu.opSTX, ABS, 4, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BCC", cpu.opBCC, REL, 2, false}, {"STA", cpu.opSTA, IZY, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"STY", cpu.opSTY, ZPX, 4, false}, {"STA", cpu.opSTA, ZPX, 4, false}, {"STX", cpu.opSTX, ZPY, 4, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"TYA", cpu.opTYA, IMP, 2, false}, {"STA", cpu.opSTA, ABY, 5, false}, {"TXS", cpu.opTXS, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"STA", cpu.opSTA, ABX, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"LDY", cpu.opLDY, IMM, 2, false}, {"LDA", cpu.opLDA, IZX, 6, false}, {"LDX", cpu.opLDX, IMM, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"LDY", cpu.opLDY, ZP0, 3, false}, {"LDA", cpu.opLDA, ZP0, 3, false}, {"LDX", cpu.opLDX, ZP0, 3, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"TAY", cpu.opTAY, IMP, 2, false}, {"LDA", cpu.opLDA, IMM, 2, false}, {"TAX", cpu.opTAX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"LDY", cpu.opLDY, ABS, 4, false}, {"LDA", cpu.opLDA, ABS, 4, false}, {"LDX", cpu.opLDX, ABS, 4, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BCS", cpu.opBCS, REL, 2, false}, {"LDA", cpu.opLDA, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"LDY", cpu.opLDY, ZPX, 4, false}, {"LDA", cpu.opLDA, ZPX, 4, false}, {"LDX", cpu.opLDX, ZPY, 4, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CLV", cpu.opCLV, IMP, 2, false}, {"LDA", cpu.opLDA, ABY, 4, true}, {"TSX", cpu.opTSX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"LDY", cpu.opLDY, ABX, 4, true}, {"LDA", cpu.opLDA, ABX, 4, true}, {"LDX", cpu.opLDX, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"CPY", cpu.opCPY, IMM, 2, false}, {"CMP", cpu.opCMP, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CPY", cpu.opCPY, ZP0, 3, false}, {"CMP", cpu.opCMP, ZP0, 3, false}, {"DEC", cpu.opDEC, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"INY", cpu.opINY, IMP, 2, false}, {"CMP", cpu.opCMP, IMM, 2, false}, {"DEX", cpu.opDEX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CPY", cpu.opCPY, ABS, 4, false}, {"CMP", cpu.opCMP, ABS, 4, false}, {"DEC", cpu.opDEC, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BNE", cpu.opBNE, REL, 2, false}, {"CMP", cpu.opCMP, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CMP", cpu.opCMP, ZPX, 4, false}, {"DEC", cpu.opDEC, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CLD", cpu.opCLD, IMP, 2, false}, {"CMP", cpu.opCMP, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CMP", cpu.opCMP, ABX, 4, true}, {"DEC", cpu.opDEC, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"CPX", cpu.opCPX, IMM, 2, false}, {"SBC", cpu.opSBC, IZX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CPX", cpu.opCPX, ZP0, 3, false}, {"SBC", cpu.opSBC, ZP0, 3, false}, {"INC", cpu.opINC, ZP0, 5, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"INX", cpu.opINX, IMP, 2, false}, {"SBC", cpu.opSBC, IMM, 2, false}, {"NOP", cpu.opNOP, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"CPX", cpu.opCPX, ABS, 4, false}, {"SBC", cpu.opSBC, ABS, 4, false}, {"INC", cpu.opINC, ABS, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false},

		{"BEQ", cpu.opBEQ, REL, 2, false}, {"SBC", cpu.opSBC, IZY, 5, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"SBC", cpu.opSBC, ZPX, 4, false}, {"INC", cpu.opINC, ZPX, 6, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"SED", cpu.opSED, IMP, 2, false}, {"SBC", cpu.opSBC, ABY, 4, true}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"XXX", cpu.opXXX, IMP, 2, false}, {"SBC", cpu.opSBC, ABX, 4, true}, {"INC", cpu.opINC, ABX, 7, false}, {"XXX", cpu.opXXX, IMP, 2, false},
	}

	return cpu
}

// Read a word from memory (little endian order).
func readWord(mem CpuMemory, addr uint16) uint16 {
	lo := mem.CpuRead(addr)
	hi := mem.CpuRead(addr + 1)

	return (uint16(hi) << 8) | uint16(lo)
}

// Read a byte from memory at the address previously set by the appropriate
// addressing mode function. Avoid if current instruction's address mode is implied.
func (cpu *Cpu6502) fetch(mem CpuMemory) byte {
	if !cpu.isImpliedAddr {
		cpu.Fetched = mem.CpuRead(cpu.AddrAbs)
	}
	return cpu.Fetched
}

// Write the result of a read-modify-write instruction back to the accumulator
// or memory, depending on the addressing mode.
func (cpu *Cpu6502) writeBack(mem CpuMemory, data byte) {
	if cpu.isImpliedAddr {
		cpu.A = data
	} else {
		mem.CpuWrite(cpu.AddrAbs, data)
	}
}

// Functions to push and pop from the stack.
func (cpu *Cpu6502) stackPush(mem CpuMemory, data byte) {
	mem.CpuWrite(stackBase|uint16(cpu.Sp), data)
	cpu.Sp--
}

func (cpu *Cpu6502) stackPop(mem CpuMemory) byte {
	cpu.Sp++
	return mem.CpuRead(stackBase | uint16(cpu.Sp))
}

func (cpu *Cpu6502) stackPushWord(mem CpuMemory, data uint16) {
	cpu.stackPush(mem, byte(data>>8))
	cpu.stackPush(mem, byte(data))
}

func (cpu *Cpu6502) stackPopWord(mem CpuMemory) uint16 {
	lo := cpu.stackPop(mem)
	hi := cpu.stackPop(mem)

	return uint16(hi)<<8 | uint16(lo)
}

////////////////////////////////////////////////////////////////
// Status Flags
type SF6502 byte // 6502 Status Flag

const (
	StatusFlagC SF6502 = 1 << iota // Carry
	StatusFlagZ                    // Zero
	StatusFlagI                    // Interrupt Disable
	StatusFlagD                    // Decimal Mode
	StatusFlagB                    // Break Command
	StatusFlagU                    // Unused, always 1 when pushed
	StatusFlagV                    // Overflow
	StatusFlagN                    // Negative
)

// Convenience functions used to get and set CPU status flags.
func (cpu *Cpu6502) getFlag(f SF6502) byte {
	if cpu.Status&byte(f) == 0 {
		return 0
	}
	return 1
}

func (cpu *Cpu6502) setFlag(f SF6502, b bool) {
	if b {
		cpu.Status |= byte(f)
	} else {
		cpu.Status &^= byte(f)
	}
}

func (cpu *Cpu6502) setZN(v byte) {
	cpu.setFlag(StatusFlagZ, v == 0)
	cpu.setFlag(StatusFlagN, v&(1<<7) > 0)
}

////////////////////////////////////////////////////////////////
// Interrupts
const (
	nmiVectAddr   uint16 = 0xFFFA
	resetVectAddr uint16 = 0xFFFC
	irqVectAddr   uint16 = 0xFFFE
)

func (cpu *Cpu6502) Reset(mem CpuMemory) {
	// Clear registers, reset stack pointer
	cpu.A = 0x00
	cpu.X = 0x00
	cpu.Y = 0x00
	cpu.Status = byte(StatusFlagU) | byte(StatusFlagI)
	cpu.Sp = 0xFD

	// Get the program counter from the reset vector location in RAM.
	cpu.Pc = readWord(mem, resetVectAddr)

	cpu.AddrAbs = 0x0000
	cpu.AddrRel = 0x0000
	cpu.Fetched = 0x00
	cpu.isImpliedAddr = false

	// Spend time on reset
	cpu.Cycles = 7
}

// interrupt pushes the program counter and status, then jumps through the
// given vector.
func (cpu *Cpu6502) interrupt(mem CpuMemory, vector uint16) {
	cpu.stackPushWord(mem, cpu.Pc)

	status := (cpu.Status | byte(StatusFlagU)) &^ byte(StatusFlagB)
	cpu.stackPush(mem, status)

	cpu.setFlag(StatusFlagI, true)
	cpu.Pc = readWord(mem, vector)
}

// Interrupt Request. Ignored while the interrupt disable flag is set.
func (cpu *Cpu6502) IRQ(mem CpuMemory) {
	if cpu.getFlag(StatusFlagI) != 0 {
		return
	}

	cpu.interrupt(mem, irqVectAddr)
	cpu.Cycles += 7
}

// Non-Maskable Interrupt
func (cpu *Cpu6502) NMI(mem CpuMemory) {
	cpu.interrupt(mem, nmiVectAddr)
	cpu.Cycles += 7
}

// Clock represents one CPU clock cycle. The whole instruction is executed on
// its first cycle, the remaining cycles are spent idle.
func (cpu *Cpu6502) Clock(mem CpuMemory) {
	if cpu.Cycles == 0 {
		// Get the next opcode by reading from the bus at the location of the
		// current program counter.
		cpu.Opcode = mem.CpuRead(cpu.Pc)

		var cpuState string
		if cpu.Logger != nil {
			cpuState = fmt.Sprintf("\t\tA:%02X X:%02X Y:%02X P:%02X SP:%02X\tCYC:%d",
				cpu.A, cpu.X, cpu.Y, cpu.Status, cpu.Sp, cpu.CycleCount)
		}
		oldpc := cpu.Pc

		// Lookup by opcode the instruction to be executed.
		inst := &cpu.InstLookup[cpu.Opcode]

		cpu.Pc++

		// Set required cycles for instruction execution.
		cpu.Cycles = inst.Cycles

		cpu.isImpliedAddr = false
		pageCrossed := cpu.addrModes[inst.Mode](mem)

		inst.Execute(mem)

		// Only some instructions take an extra cycle to fix up the high byte of
		// the effective address.
		if inst.PageCross && pageCrossed {
			cpu.Cycles++
		}

		// Log CPU instructions.
		if cpu.Logger != nil {
			var buf bytes.Buffer
			buf.WriteString(fmt.Sprintf("%04X\t%02X - %s ", oldpc, cpu.Opcode, inst.Name))
			buf.WriteString(cpuState)
			cpu.OpDiss = buf.String()
			cpu.Logger.Print(cpu.OpDiss)
		}
	}

	cpu.CycleCount++

	cpu.Cycles--
}

// Complete returns true when the current instruction has used all of its
// cycles.
func (cpu *Cpu6502) Complete() bool {
	return cpu.Cycles == 0
}

// Step clocks the CPU through one whole instruction and returns the number of
// cycles it took.
func (cpu *Cpu6502) Step(mem CpuMemory) int {
	n := 0
	for {
		cpu.Clock(mem)
		n++
		if cpu.Complete() {
			return n
		}
	}
}

////////////////////////////////////////////////////////////////
// Addressing Modes
// These functions return true when indexing crossed a page boundary.

// Implied:
func (cpu *Cpu6502) amIMP(mem CpuMemory) bool {
	cpu.isImpliedAddr = true

	cpu.Fetched = cpu.A
	return false
}

// Accumulator: operates directly on the accumulator.
func (cpu *Cpu6502) amACC(mem CpuMemory) bool {
	return cpu.amIMP(mem)
}

// Immediate:
func (cpu *Cpu6502) amIMM(mem CpuMemory) bool {
	// The second byte of the instruction contains the operand.
	cpu.AddrAbs = cpu.Pc
	cpu.Pc++

	return false
}

// Relative:
func (cpu *Cpu6502) amREL(mem CpuMemory) bool {
	offset := mem.CpuRead(cpu.Pc)
	cpu.Pc++

	cpu.AddrRel = uint16(offset)

	// Pad left 8 bits if value is negative.
	if offset&0x80 > 0 {
		cpu.AddrRel |= 0xFF00
	}

	return false
}

// Zero Page:
func (cpu *Cpu6502) amZP0(mem CpuMemory) bool {
	// Use the second byte of the instruction to index into page zero.
	cpu.AddrAbs = uint16(mem.CpuRead(cpu.Pc))
	cpu.Pc++

	return false
}

// Zero Page, X: the sum wraps within page zero.
func (cpu *Cpu6502) amZPX(mem CpuMemory) bool {
	cpu.AddrAbs = uint16(mem.CpuRead(cpu.Pc) + cpu.X)
	cpu.Pc++

	return false
}

// Zero Page, Y
func (cpu *Cpu6502) amZPY(mem CpuMemory) bool {
	cpu.AddrAbs = uint16(mem.CpuRead(cpu.Pc) + cpu.Y)
	cpu.Pc++

	return false
}

// Absolute:
func (cpu *Cpu6502) amABS(mem CpuMemory) bool {
	// The second byte of the instruction contains the low order byte of the
	// address. The third byte of the instruction contains the high order byte.
	cpu.AddrAbs = readWord(mem, cpu.Pc)
	cpu.Pc += 2

	return false
}

// Absolute, X:
func (cpu *Cpu6502) amABX(mem CpuMemory) bool {
	addr := readWord(mem, cpu.Pc)
	cpu.Pc += 2

	cpu.AddrAbs = addr + uint16(cpu.X)

	return cpu.AddrAbs&0xFF00 != addr&0xFF00
}

// Absolute, Y:
func (cpu *Cpu6502) amABY(mem CpuMemory) bool {
	addr := readWord(mem, cpu.Pc)
	cpu.Pc += 2

	cpu.AddrAbs = addr + uint16(cpu.Y)

	return cpu.AddrAbs&0xFF00 != addr&0xFF00
}

// Indirect:
func (cpu *Cpu6502) amIND(mem CpuMemory) bool {
	// The next 16 bits contain a memory address pointing to the effective address.
	ptr := readWord(mem, cpu.Pc)
	cpu.Pc += 2

	// Hardware bug: the high byte is not fetched from the next page when the
	// pointer sits on a page boundary.
	lo := mem.CpuRead(ptr)
	hi := mem.CpuRead((ptr & 0xFF00) | ((ptr + 1) & 0x00FF))

	cpu.AddrAbs = uint16(hi)<<8 | uint16(lo)

	return false
}

// Indexed Indirect:
func (cpu *Cpu6502) amIZX(mem CpuMemory) bool {
	// Add the second byte of the instruction with the contents of register X.
	// This result is a zero page memory location pointing to the low order byte
	// of the effective address. Both memory locations must be in page zero.
	ptr := mem.CpuRead(cpu.Pc) + cpu.X
	cpu.Pc++

	lo := mem.CpuRead(uint16(ptr))
	hi := mem.CpuRead(uint16(ptr + 1)) // Zero page wraparound
	cpu.AddrAbs = uint16(hi)<<8 | uint16(lo)

	return false
}

// Indirect Indexed:
func (cpu *Cpu6502) amIZY(mem CpuMemory) bool {
	// The second byte of the instruction points to a zero page memory location
	// holding a base address, which is offset by register Y.
	ptr := mem.CpuRead(cpu.Pc)
	cpu.Pc++

	lo := mem.CpuRead(uint16(ptr))
	hi := mem.CpuRead(uint16(ptr + 1)) // Zero page wraparound

	base := uint16(hi)<<8 | uint16(lo)
	cpu.AddrAbs = base + uint16(cpu.Y)

	return cpu.AddrAbs&0xFF00 != base&0xFF00
}

////////////////////////////////////////////////////////////////
// Instructions
type Instruction struct {
	Name      string
	Execute   func(mem CpuMemory)
	Mode      AddressingMode
	Cycles    byte
	PageCross bool // Takes an extra cycle when indexing crosses a page
}

// ADC - Add with Carry
func (cpu *Cpu6502) opADC(mem CpuMemory) {
	m := cpu.fetch(mem)

	if cpu.DecimalEnabled && cpu.getFlag(StatusFlagD) != 0 {
		cpu.adcDecimal(m)
		return
	}

	cpu.addBinary(m)
}

// addBinary adds m and the carry flag to the accumulator.
func (cpu *Cpu6502) addBinary(m byte) {
	// 16-bit to keep any carry.
	result := uint16(cpu.A) + uint16(m) + uint16(cpu.getFlag(StatusFlagC))

	cpu.setFlag(StatusFlagC, result > 0xFF)

	// Overflow when both operands share a sign that differs from the result.
	cpu.setFlag(StatusFlagV, (^(cpu.A^m))&(cpu.A^byte(result))&0x80 > 0)

	cpu.A = byte(result)
	cpu.setZN(cpu.A)
}

// NMOS decimal mode addition. Z comes from the binary sum while N and V are
// taken before the high nibble is adjusted.
//
// Reference: http://www.6502.org/tutorials/decimal_mode.html
func (cpu *Cpu6502) adcDecimal(m byte) {
	carry := uint16(cpu.getFlag(StatusFlagC))
	binary := byte(uint16(cpu.A) + uint16(m) + carry)

	lo := uint16(cpu.A&0x0F) + uint16(m&0x0F) + carry
	if lo >= 0x0A {
		lo = ((lo + 0x06) & 0x0F) + 0x10
	}
	result := uint16(cpu.A&0xF0) + uint16(m&0xF0) + lo

	cpu.setFlag(StatusFlagZ, binary == 0)
	cpu.setFlag(StatusFlagN, result&0x80 > 0)
	cpu.setFlag(StatusFlagV, (^(cpu.A^m))&(cpu.A^byte(result))&0x80 > 0)

	if result >= 0xA0 {
		result += 0x60
	}
	cpu.setFlag(StatusFlagC, result >= 0x100)

	cpu.A = byte(result)
}

// AND - Logical AND
func (cpu *Cpu6502) opAND(mem CpuMemory) {
	cpu.A &= cpu.fetch(mem)

	cpu.setZN(cpu.A)
}

// ASL - Arithmetic Shift Left
func (cpu *Cpu6502) opASL(mem CpuMemory) {
	m := cpu.fetch(mem)

	// Set carry flag to old bit 7.
	cpu.setFlag(StatusFlagC, m&(1<<7) > 0)

	result := m << 1
	cpu.setZN(result)
	cpu.writeBack(mem, result)
}

// branch is shared by all the conditional branch instructions. A taken
// branch costs one extra cycle, or two if the target is on another page.
func (cpu *Cpu6502) branch(cond bool) {
	if !cond {
		return
	}

	cpu.Cycles++

	cpu.AddrAbs = cpu.Pc + cpu.AddrRel

	if cpu.AddrAbs&0xFF00 != cpu.Pc&0xFF00 {
		cpu.Cycles++
	}

	cpu.Pc = cpu.AddrAbs
}

// BCC - Branch if Carry Clear
func (cpu *Cpu6502) opBCC(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagC) == 0) }

// BCS - Branch if Carry Set
func (cpu *Cpu6502) opBCS(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagC) != 0) }

// BEQ - Branch if Equal
func (cpu *Cpu6502) opBEQ(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagZ) != 0) }

// BIT - Bit Test
func (cpu *Cpu6502) opBIT(mem CpuMemory) {
	m := cpu.fetch(mem)

	cpu.setFlag(StatusFlagZ, m&cpu.A == 0)

	// Bits 6 and 7 of memory are copied to V and N.
	cpu.setFlag(StatusFlagV, m&(1<<6) > 0)
	cpu.setFlag(StatusFlagN, m&(1<<7) > 0)
}

// BMI - Branch if Minus
func (cpu *Cpu6502) opBMI(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagN) != 0) }

// BNE - Branch if Not Equal
func (cpu *Cpu6502) opBNE(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagZ) == 0) }

// BPL - Branch if Positive
func (cpu *Cpu6502) opBPL(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagN) == 0) }

// BRK - Force Interrupt
func (cpu *Cpu6502) opBRK(mem CpuMemory) {
	// The byte following BRK is padding and is skipped on return.
	cpu.Pc++

	cpu.stackPushWord(mem, cpu.Pc)

	// Set B flag according to: http://visual6502.org/wiki/index.php?title=6502_BRK_and_B_bit
	cpu.stackPush(mem, cpu.Status|byte(StatusFlagB)|byte(StatusFlagU))

	cpu.setFlag(StatusFlagI, true)

	// Load the IRQ interrupt vector at $FFFE/F to the PC.
	cpu.Pc = readWord(mem, irqVectAddr)
}

// BVC - Branch if Overflow Clear
func (cpu *Cpu6502) opBVC(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagV) == 0) }

// BVS - Branch if Overflow Set
func (cpu *Cpu6502) opBVS(mem CpuMemory) { cpu.branch(cpu.getFlag(StatusFlagV) != 0) }

// CLC - Clear Carry Flag
func (cpu *Cpu6502) opCLC(mem CpuMemory) { cpu.setFlag(StatusFlagC, false) }

// CLD - Clear Decimal Mode
func (cpu *Cpu6502) opCLD(mem CpuMemory) { cpu.setFlag(StatusFlagD, false) }

// CLI - Clear Interrupt Disable
func (cpu *Cpu6502) opCLI(mem CpuMemory) { cpu.setFlag(StatusFlagI, false) }

// CLV - Clear Overflow Flag
func (cpu *Cpu6502) opCLV(mem CpuMemory) { cpu.setFlag(StatusFlagV, false) }

// compare sets flags as if m was subtracted from reg.
func (cpu *Cpu6502) compare(reg, m byte) {
	cpu.setFlag(StatusFlagC, reg >= m)
	cpu.setZN(reg - m)
}

// CMP - Compare (Accumulator)
func (cpu *Cpu6502) opCMP(mem CpuMemory) { cpu.compare(cpu.A, cpu.fetch(mem)) }

// CPX - Compare X Register
func (cpu *Cpu6502) opCPX(mem CpuMemory) { cpu.compare(cpu.X, cpu.fetch(mem)) }

// CPY - Compare Y Register
func (cpu *Cpu6502) opCPY(mem CpuMemory) { cpu.compare(cpu.Y, cpu.fetch(mem)) }

// DEC - Decrement Memory
func (cpu *Cpu6502) opDEC(mem CpuMemory) {
	result := cpu.fetch(mem) - 1

	mem.CpuWrite(cpu.AddrAbs, result)
	cpu.setZN(result)
}

// DEX - Decrement X Register
func (cpu *Cpu6502) opDEX(mem CpuMemory) {
	cpu.X--
	cpu.setZN(cpu.X)
}

// DEY - Decrement Y Register
func (cpu *Cpu6502) opDEY(mem CpuMemory) {
	cpu.Y--
	cpu.setZN(cpu.Y)
}

// EOR - Exclusive OR
func (cpu *Cpu6502) opEOR(mem CpuMemory) {
	cpu.A ^= cpu.fetch(mem)
	cpu.setZN(cpu.A)
}

// INC - Increment Memory
func (cpu *Cpu6502) opINC(mem CpuMemory) {
	result := cpu.fetch(mem) + 1

	mem.CpuWrite(cpu.AddrAbs, result)
	cpu.setZN(result)
}

// INX - Increment X Register
func (cpu *Cpu6502) opINX(mem CpuMemory) {
	cpu.X++
	cpu.setZN(cpu.X)
}

// INY - Increment Y Register
func (cpu *Cpu6502) opINY(mem CpuMemory) {
	cpu.Y++
	cpu.setZN(cpu.Y)
}

// JMP - Jump
func (cpu *Cpu6502) opJMP(mem CpuMemory) {
	cpu.Pc = cpu.AddrAbs
}

// JSR - Jump to Subroutine
func (cpu *Cpu6502) opJSR(mem CpuMemory) {
	// The pushed return address points at the last byte of the JSR
	// instruction, RTS adds one.
	cpu.stackPushWord(mem, cpu.Pc-1)

	cpu.Pc = cpu.AddrAbs
}

// LDA - Load Accumulator
func (cpu *Cpu6502) opLDA(mem CpuMemory) {
	cpu.A = cpu.fetch(mem)
	cpu.setZN(cpu.A)
}

// LDX - Load X Register
func (cpu *Cpu6502) opLDX(mem CpuMemory) {
	cpu.X = cpu.fetch(mem)
	cpu.setZN(cpu.X)
}

// LDY - Load Y Register
func (cpu *Cpu6502) opLDY(mem CpuMemory) {
	cpu.Y = cpu.fetch(mem)
	cpu.setZN(cpu.Y)
}

// LSR - Logical Shift Right
func (cpu *Cpu6502) opLSR(mem CpuMemory) {
	m := cpu.fetch(mem)

	// Set carry flag to old bit 0.
	cpu.setFlag(StatusFlagC, m&0x1 > 0)

	result := m >> 1
	cpu.setZN(result)
	cpu.writeBack(mem, result)
}

// NOP - No Operation
func (cpu *Cpu6502) opNOP(mem CpuMemory) {}

// ORA - Logical Inclusive OR
func (cpu *Cpu6502) opORA(mem CpuMemory) {
	cpu.A |= cpu.fetch(mem)
	cpu.setZN(cpu.A)
}

// PHA - Push Accumulator
func (cpu *Cpu6502) opPHA(mem CpuMemory) {
	cpu.stackPush(mem, cpu.A)
}

// PHP - Push Processor Status
func (cpu *Cpu6502) opPHP(mem CpuMemory) {
	cpu.stackPush(mem, cpu.Status|byte(StatusFlagB)|byte(StatusFlagU))
}

// PLA - Pull Accumulator
func (cpu *Cpu6502) opPLA(mem CpuMemory) {
	cpu.A = cpu.stackPop(mem)
	cpu.setZN(cpu.A)
}

// pullStatus loads the status register from the stack. B only exists on the
// stack, bit 5 always reads as set.
func (cpu *Cpu6502) pullStatus(mem CpuMemory) {
	cpu.Status = cpu.stackPop(mem)
	cpu.setFlag(StatusFlagB, false)
	cpu.setFlag(StatusFlagU, true)
}

// PLP - Pull Processor Status
func (cpu *Cpu6502) opPLP(mem CpuMemory) {
	cpu.pullStatus(mem)
}

// ROL - Rotate Left
func (cpu *Cpu6502) opROL(mem CpuMemory) {
	m := cpu.fetch(mem)
	carry := cpu.getFlag(StatusFlagC)

	// Set carry flag to bit 7 of old value.
	cpu.setFlag(StatusFlagC, m&(1<<7) > 0)

	// Shift left one, set bit 0 to old carry.
	result := (m << 1) | carry
	cpu.setZN(result)
	cpu.writeBack(mem, result)
}

// ROR - Rotate Right
func (cpu *Cpu6502) opROR(mem CpuMemory) {
	m := cpu.fetch(mem)
	carry := cpu.getFlag(StatusFlagC)

	// Set carry flag to bit 0 of old value.
	cpu.setFlag(StatusFlagC, m&1 > 0)

	// Shift right one, set bit 7 to old carry.
	result := (m >> 1) | (carry << 7)
	cpu.setZN(result)
	cpu.writeBack(mem, result)
}

// RTI - Return from Interrupt
func (cpu *Cpu6502) opRTI(mem CpuMemory) {
	cpu.pullStatus(mem)
	cpu.Pc = cpu.stackPopWord(mem)
}

// RTS - Return from Subroutine
func (cpu *Cpu6502) opRTS(mem CpuMemory) {
	cpu.Pc = cpu.stackPopWord(mem) + 1
}

// SBC - Subtract with Carry
func (cpu *Cpu6502) opSBC(mem CpuMemory) {
	m := cpu.fetch(mem)

	if cpu.DecimalEnabled && cpu.getFlag(StatusFlagD) != 0 {
		cpu.sbcDecimal(m)
		return
	}

	// Subtraction is addition of the inverted operand.
	cpu.addBinary(^m)
}

// NMOS decimal mode subtraction. All flags are set as for binary
// subtraction, only the accumulator is adjusted.
func (cpu *Cpu6502) sbcDecimal(m byte) {
	borrow := 1 - int(cpu.getFlag(StatusFlagC))
	a := cpu.A

	lo := int(a&0x0F) - int(m&0x0F) - borrow
	if lo < 0 {
		lo = ((lo - 0x06) & 0x0F) - 0x10
	}
	result := int(a&0xF0) - int(m&0xF0) + lo
	if result < 0 {
		result -= 0x60
	}

	cpu.addBinary(^m)

	cpu.A = byte(result)
}

// SEC - Set Carry Flag
func (cpu *Cpu6502) opSEC(mem CpuMemory) { cpu.setFlag(StatusFlagC, true) }

// SED - Set Decimal Flag
func (cpu *Cpu6502) opSED(mem CpuMemory) { cpu.setFlag(StatusFlagD, true) }

// SEI - Set Interrupt Disable
func (cpu *Cpu6502) opSEI(mem CpuMemory) { cpu.setFlag(StatusFlagI, true) }

// STA - Store Accumulator
func (cpu *Cpu6502) opSTA(mem CpuMemory) { mem.CpuWrite(cpu.AddrAbs, cpu.A) }

// STX - Store X Register
func (cpu *Cpu6502) opSTX(mem CpuMemory) { mem.CpuWrite(cpu.AddrAbs, cpu.X) }

// STY - Store Y Register
func (cpu *Cpu6502) opSTY(mem CpuMemory) { mem.CpuWrite(cpu.AddrAbs, cpu.Y) }

// TAX - Transfer Accumulator to X
func (cpu *Cpu6502) opTAX(mem CpuMemory) {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
}

// TAY - Transfer Accumulator to Y
func (cpu *Cpu6502) opTAY(mem CpuMemory) {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
}

// TSX - Transfer Stack Pointer to X
func (cpu *Cpu6502) opTSX(mem CpuMemory) {
	cpu.X = cpu.Sp
	cpu.setZN(cpu.X)
}

// TXA - Transfer X to Accumulator
func (cpu *Cpu6502) opTXA(mem CpuMemory) {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
}

// TXS - Transfer X to Stack Pointer
func (cpu *Cpu6502) opTXS(mem CpuMemory) {
	cpu.Sp = cpu.X
}

// TYA - Transfer Y to Accumulator
func (cpu *Cpu6502) opTYA(mem CpuMemory) {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
}

// Catch-all instruction for illegal opcodes.
func (cpu *Cpu6502) opXXX(mem CpuMemory) {}
