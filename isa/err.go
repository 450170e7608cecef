package isa

import (
	"github.com/ezrec/lc3b/translate"
)

var f = translate.From

// DecodeError reports a word whose opcode selector matches no instruction
// family. It carries the offending word and the reason.
type DecodeError struct {
	Word   uint16
	Reason string
}

func (err *DecodeError) Error() string {
	return f("failed to decode %#04x: %v", err.Word, err.Reason)
}

// ErrOutOfRange reports an operand magnitude rejected at construction.
type ErrOutOfRange struct {
	Kind  string
	Value int
	Min   int
	Max   int
}

func (err ErrOutOfRange) Error() string {
	return f("%v out of range: %v (valid %v to %v)", err.Kind, err.Value, err.Min, err.Max)
}
