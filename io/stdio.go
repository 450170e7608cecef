package io

import (
	"io"
	"os"
)

// Stdio is a direct console over a byte stream pair. Input and Output
// default to the process standard streams; either can be redirected for
// piped use. Pair it with MakeRaw for unbuffered, non-blocking terminal
// reads.
type Stdio struct {
	Input  io.Reader
	Output io.Writer

	halted bool
}

var _ Console = (*Stdio)(nil)

func (sc *Stdio) in() io.Reader {
	if sc.Input == nil {
		return os.Stdin
	}
	return sc.Input
}

func (sc *Stdio) out() io.Writer {
	if sc.Output == nil {
		return os.Stdout
	}
	return sc.Output
}

func (sc *Stdio) WriteChar(ch byte) {
	sc.out().Write([]byte{ch})
}

// ReadChar reads one byte. A read that returns no data, including the
// zero-byte read of a raw terminal with no pending key, reports ok false.
func (sc *Stdio) ReadChar() (ch byte, ok bool) {
	var one [1]byte
	n, err := sc.in().Read(one[:])
	if err != nil || n == 0 {
		return
	}
	ch = one[0]
	ok = true
	return
}

func (sc *Stdio) ReadCharWithEcho() (ch byte, ok bool) {
	return readWithEcho(sc)
}

func (sc *Stdio) Halt() {
	sc.halted = true
}

func (sc *Stdio) IsHalted() bool {
	return sc.halted
}
