package nes

import (
	"fmt"
	"log"
	"regexp"
	"runtime"
	"time"
)

var runtimeFunc = regexp.MustCompile(`^.*\.(.*)$`)

// TimeTrack logs the time elapsed since start, labelled with the calling
// function's name. Use with defer.
func TimeTrack(start time.Time) {
	elapsed := time.Since(start)

	// Skip this function, and fetch the PC for its parent.
	pc, _, _, _ := runtime.Caller(1)
	name := runtimeFunc.ReplaceAllString(runtime.FuncForPC(pc).Name(), "$1")

	log.Println(fmt.Sprintf("%s took %s", name, elapsed))
}

// Flip a byte's bits, used for horizontally mirrored sprites.
func flipByte(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
