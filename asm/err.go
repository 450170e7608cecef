package asm

import (
	"errors"

	"github.com/ezrec/lc3b/translate"
)

var f = translate.From

var (
	// Directive errors
	ErrOrigLate        = errors.New(f(".ORIG must come before any code"))
	ErrEquateSyntax    = errors.New(f(".EQU syntax"))
	ErrEquateDuplicate = errors.New(f(".EQU duplicated"))
	ErrBlkwSyntax      = errors.New(f(".BLKW syntax"))
	ErrStringzSyntax   = errors.New(f(".STRINGZ syntax"))

	// Operand errors
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrOffsetOdd       = errors.New(f("offset to odd word delta"))

	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
