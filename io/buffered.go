package io

import (
	"strings"
)

// Buffered collects output in a string and serves input from a queue.
// It is the Console of choice for embedding and tests: seed input with
// PushInput, run, then inspect Output.
type Buffered struct {
	output strings.Builder
	input  []byte
	halted bool
}

var _ Console = (*Buffered)(nil)

// Output returns all output written so far.
func (bc *Buffered) Output() string {
	return bc.output.String()
}

// ClearOutput discards the collected output.
func (bc *Buffered) ClearOutput() {
	bc.output.Reset()
}

// PushInput queues characters for subsequent reads.
func (bc *Buffered) PushInput(text string) {
	bc.input = append(bc.input, text...)
}

// Reset clears the halted latch and both buffers so a program can rerun.
func (bc *Buffered) Reset() {
	bc.halted = false
	bc.input = bc.input[:0]
	bc.output.Reset()
}

func (bc *Buffered) WriteChar(ch byte) {
	bc.output.WriteByte(ch)
}

func (bc *Buffered) ReadChar() (ch byte, ok bool) {
	if len(bc.input) == 0 {
		return
	}
	ch = bc.input[0]
	bc.input = bc.input[1:]
	ok = true
	return
}

func (bc *Buffered) ReadCharWithEcho() (ch byte, ok bool) {
	return readWithEcho(bc)
}

func (bc *Buffered) Halt() {
	bc.halted = true
}

func (bc *Buffered) IsHalted() bool {
	return bc.halted
}
