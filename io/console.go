// Package io provides console implementations for the LC-3b TRAP services.
// It includes a buffered variant for embedding and tests, and a direct
// standard I/O variant for interactive use.
package io

// Console is the character-level peripheral visible to TRAP handling.
// Reads are non-blocking by contract: when no input is available, ReadChar
// reports ok false and the machine proceeds without stalling. A host that
// wants blocking input implements it inside its own Console value.
type Console interface {
	// WriteChar writes one character to the console.
	WriteChar(ch byte)
	// ReadChar reads one character, reporting ok false when none is
	// available right now.
	ReadChar() (ch byte, ok bool)
	// ReadCharWithEcho prompts, reads one character, and echoes it.
	ReadCharWithEcho() (ch byte, ok bool)
	// Halt sets the halted latch.
	Halt()
	// IsHalted queries the halted latch.
	IsHalted() bool
}

// WriteString writes a string through a Console one character at a time.
func WriteString(console Console, text string) {
	for n := range len(text) {
		console.WriteChar(text[n])
	}
}

// readWithEcho is the shared prompt-then-echo behavior behind
// ReadCharWithEcho.
func readWithEcho(console Console) (ch byte, ok bool) {
	WriteString(console, "Input a character> ")
	ch, ok = console.ReadChar()
	if ok {
		console.WriteChar(ch)
	}
	return
}
