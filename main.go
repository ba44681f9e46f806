package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/n-ulricksen/nes-emulator/nes"

	"github.com/faiface/pixel/pixelgl"
)

// Command line flags
var (
	flagRom       string
	flagDebug     bool
	flagLogging   bool
	flagPalette   string
	flagScale     float64
	flagStatsview bool
	flagMemviz    string
)

const (
	fps     float64 = 60.0988 // NTSC frame rate
	logsDir         = "./logs"
)

func main() {
	parseFlags()

	if flagStatsview {
		launchStatsview(os.Stdout)
	}

	var options []nes.Option
	if flagLogging {
		options = append(options, nes.WithLogFile(logsDir))
	}

	fmt.Println("Starting NES...")
	nesEmulator, err := nes.Load(flagRom, options...)
	if err != nil {
		log.Fatalf("Unable to start NES: %+v\n", err)
	}
	fmt.Printf("Loaded %s: mapper %03d, %d PRG banks, %d CHR banks, %s mirroring\n",
		flagRom, nesEmulator.Cart.Header.MapperID, nesEmulator.Cart.Header.PrgBanks,
		nesEmulator.Cart.Header.ChrBanks, nesEmulator.Cart.Mirroring())

	palette := &defaultPalette
	if flagPalette != "" {
		palette, err = loadPalette(flagPalette)
		if err != nil {
			log.Fatalf("%+v\n", err)
		}
	}

	if flagMemviz != "" {
		if err := dumpMemviz(flagMemviz, nesEmulator); err != nil {
			log.Fatalf("%+v\n", err)
		}
	}

	pixelgl.Run(func() {
		run(nesEmulator, palette)
	})
}

func parseFlags() {
	flag.StringVar(&flagRom, "rom", "./roms/DK.nes", "iNES ROM to run")
	flag.BoolVar(&flagDebug, "d", false, "enable debug panel")
	flag.BoolVar(&flagLogging, "l", false, "enable CPU logging to "+logsDir)
	flag.StringVar(&flagPalette, "palette", "", "load a .pal palette file")
	flag.Float64Var(&flagScale, "scale", 2, "scale at which to render the NES display")
	flag.BoolVar(&flagStatsview, "statsview", false, "serve runtime stats on "+statsviewAddr+statsviewURL)
	flag.StringVar(&flagMemviz, "memviz", "", "write a graphviz dump of the CPU state to this file")

	flag.Parse()
}

// run is the main loop. Frames are rendered steadily at a set FPS.
func run(nesEmulator *nes.Bus, palette *Palette) {
	display := NewDisplay(flagScale, flagDebug)

	interval := time.Duration(float64(time.Second) / fps)
	fmt.Println("Frame refresh time:", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !display.Closed() {
		win := display.window

		switch {
		case win.JustPressed(keyQuit):
			return
		case win.JustPressed(keyReset):
			fmt.Println("Resetting NES...")
			nesEmulator.Reset()
		case flagDebug && win.JustPressed(keyDebugPalette):
			display.NextDebugPalette()
		case flagDebug && win.JustPressed(keyDumpMem):
			printDebugMem(os.Stdout, nesEmulator)
		}

		nesEmulator.SetControllerA(controllerState(win))

		runFrame(nesEmulator)

		display.DrawFrame(nesEmulator.Screen(), palette)
		if flagDebug {
			display.DrawDebug(nesEmulator, palette)
		}
		display.UpdateScreen()

		<-ticker.C
	}
}

func runFrame(nesEmulator *nes.Bus) {
	if flagDebug && nesEmulator.Ppu.FrameCount%600 == 0 {
		defer nes.TimeTrack(time.Now())
	}

	nesEmulator.Frame()
}
