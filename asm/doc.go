// Package asm is a single pass assembler for the LC-3b instruction set.
//
// The source syntax takes one instruction or directive per line, with an
// optional "name:" label prefix and ';' comments. Operands separate on
// commas or spaces. Numbers are written as #decimal, xHEX, or any base
// strconv accepts; $(...) expressions are evaluated at assembly time with
// Starlark, with all current equates in scope.
//
// Directives: .ORIG, .END, .FILL, .BLKW, .STRINGZ, and .EQU. The origin
// defaults to the user program start (x3000); .ORIG overrides it and must
// come before any code. The trap
// service aliases GETC, OUT, PUTS, IN, PUTSP, and HALT assemble as their
// TRAP forms.
//
// PC-relative operands of BR, JSR, and LEA may be a label or a raw offset
// field value. Label offsets are computed against the incremented PC in
// the units the instruction uses: words for BR, halved word deltas for JSR
// and LEA. A JSR or LEA label at an odd word delta is unreachable and is
// an assembly error.
package asm
