package nes

type AddressingMode int

const (
	IMP AddressingMode = iota
	ACC
	IMM
	REL
	ZP0
	ZPX
	ZPY
	ABS
	ABX
	ABY
	IND
	IZX
	IZY

	addrModeCount
)

var addrModeNames = [addrModeCount]string{
	"IMP", "ACC", "IMM", "REL", "ZP0", "ZPX", "ZPY", "ABS", "ABX", "ABY", "IND", "IZX", "IZY",
}

func (m AddressingMode) String() string {
	if m < 0 || m >= addrModeCount {
		return "???"
	}
	return addrModeNames[m]
}
