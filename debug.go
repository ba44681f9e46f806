package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/n-ulricksen/nes-emulator/nes"

	"github.com/bradleyjkemp/memviz"
	"github.com/faiface/pixel/text"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/errors"
)

const (
	statsviewAddr = "localhost:12600"
	statsviewURL  = "/debug/statsview"

	// Bytes of instructions shown in the debug panel, starting at the PC.
	disassemblyWindow = 0x18
)

// launchStatsview serves runtime charts (heap, goroutines, GC) in a new
// goroutine.
func launchStatsview(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsviewAddr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at %s%s\n", statsviewAddr, statsviewURL)
}

// dumpMemviz writes a graphviz diagram of the CPU and cartridge header to
// path.
func dumpMemviz(path string, nesEmu *nes.Bus) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create memviz output")
	}
	defer f.Close()

	memviz.Map(f, nesEmu.Cpu, &nesEmu.Cart.Header)

	return nil
}

func printDebugCpu(t *text.Text, nesEmu *nes.Bus) {
	fmt.Fprintf(t, "Flags: %08b\n", nesEmu.Cpu.Status)
	fmt.Fprintf(t, "       NV-BDIZC\n")
	fmt.Fprintf(t, "PC: $%04X\n", nesEmu.Cpu.Pc)
	fmt.Fprintf(t, "A: $%02X  X: $%02X  Y: $%02X\n", nesEmu.Cpu.A, nesEmu.Cpu.X, nesEmu.Cpu.Y)
	fmt.Fprintf(t, "SP: $%02X\n\n", nesEmu.Cpu.Sp)

	// Cycles
	fmt.Fprintf(t, "Cycle Count: %d\n", nesEmu.Cpu.CycleCount)
	fmt.Fprintf(t, "Frame: %d\n\n", nesEmu.Ppu.FrameCount)
}

// printDebugDisassembly lists the instructions starting at the PC.
func printDebugDisassembly(t *text.Text, nesEmu *nes.Bus) {
	pc := nesEmu.Cpu.Pc
	end := pc + disassemblyWindow
	if end < pc {
		end = 0xFFFF
	}

	diss := nesEmu.Cpu.Disassemble(nesEmu, pc, end)

	addrs := make([]int, 0, len(diss))
	for addr := range diss {
		addrs = append(addrs, int(addr))
	}
	sort.Ints(addrs)

	for _, addr := range addrs {
		marker := "  "
		if uint16(addr) == pc {
			marker = "> "
		}
		fmt.Fprintf(t, "%s%s\n", marker, diss[uint16(addr)])
	}
	fmt.Fprintf(t, "\n")
}

// printDebugMem dumps zero page, 16 bytes per line.
func printDebugMem(w io.Writer, nesEmu *nes.Bus) {
	ramRowLimit := 0x0010

	for i := 0x0000; i < 0x0100; i += ramRowLimit {
		fmt.Fprintf(w, "$%04X: % x\n", i, nesEmu.Ram[i:i+ramRowLimit])
	}
}
