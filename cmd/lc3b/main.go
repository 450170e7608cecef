package main

import (
	"flag"
	"log"
	"math"
	"os"

	"github.com/ezrec/lc3b/emulator"
	"github.com/ezrec/lc3b/io"
	"github.com/ezrec/lc3b/machine"
)

func main() {
	var limit int
	var raw bool
	var trace bool
	var verbose bool

	flag.IntVar(&limit, "m", 0, "Instruction budget, 0 for unlimited")
	flag.BoolVar(&raw, "r", false, "Raw terminal input")
	flag.BoolVar(&trace, "t", false, "Trace execution")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] program.asm", os.Args[0])
	}

	source := flag.Arg(0)
	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	console := &io.Stdio{}

	if raw {
		term, err := io.MakeRaw(os.Stdin)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		defer term.Restore()
	}

	var observer machine.Observer = machine.NopObserver{}
	if trace {
		observer = &machine.TraceObserver{}
	}

	emu := emulator.NewEmulatorObserved(console, observer)
	emu.Verbose = verbose

	err = emu.Assemble(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if limit == 0 {
		limit = math.MaxInt
	}

	count, err := emu.Run(limit)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if verbose {
		log.Printf("%v: %v instructions executed", source, count)
	}
}
