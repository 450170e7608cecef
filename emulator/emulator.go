// Package emulator hosts an assembled program on a machine, mapping
// runtime errors back to their source lines.
package emulator

import (
	stdio "io"

	"github.com/ezrec/lc3b/asm"
	"github.com/ezrec/lc3b/io"
	"github.com/ezrec/lc3b/machine"
)

// Emulator state. Machine + program listing + console.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	*machine.Machine
	Program *asm.Program // Currently loaded program listing.
}

// NewEmulator creates an emulator around a console.
func NewEmulator(console io.Console) (emu *Emulator) {
	return NewEmulatorObserved(console, machine.NopObserver{})
}

// NewEmulatorObserved creates an emulator with an execution observer.
func NewEmulatorObserved(console io.Console, observer machine.Observer) (emu *Emulator) {
	emu = &Emulator{
		Machine: machine.NewMachineObserved(console, observer),
		Program: &asm.Program{},
	}

	return
}

// Assemble assembles a source stream and loads the result.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}

	prog, err := assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Load(prog)

	return
}

// Load loads an assembled program and keeps its listing for diagnostics.
func (emu *Emulator) Load(prog *asm.Program) {
	emu.Program = prog
	emu.Machine.LoadProgram(prog.Words(), prog.Origin)
}

// LineNo returns the source line of the next instruction, or 0 when the
// PC is outside the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.PC())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Step executes a single instruction, attributing any failure to its
// source line.
func (emu *Emulator) Step() (err error) {
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.NextInstruction()

	return
}

// Run steps until the console halts or the budget is exhausted, returning
// the number of instructions executed.
func (emu *Emulator) Run(maxInstructions int) (count int, err error) {
	for !emu.Machine.Console().IsHalted() && count < maxInstructions {
		err = emu.Step()
		if err != nil {
			return
		}
		count++
	}

	return
}
