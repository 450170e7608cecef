package machine

import (
	"github.com/ezrec/lc3b/translate"
)

var f = translate.From

// ErrDecode is fatal to the running program, not to the host process: the
// word at Address matched no opcode family. The machine leaves PC at
// Address; the caller must not retry the step.
type ErrDecode struct {
	Address uint16
	Err     error
}

func (err *ErrDecode) Error() string {
	return f("instruction decode at %#06x: %v", err.Address, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrUnimplemented reports an instruction that decodes but cannot execute,
// currently only RTI.
type ErrUnimplemented string

func (err ErrUnimplemented) Error() string {
	return f("unimplemented instruction: %v", string(err))
}

// ErrInvalidAccess is reserved for bounded-memory variants of the machine;
// the full-span Memory cannot produce it.
type ErrInvalidAccess uint16

func (err ErrInvalidAccess) Error() string {
	return f("invalid memory access at %#06x", uint16(err))
}
