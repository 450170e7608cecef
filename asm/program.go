package asm

import (
	"iter"
)

// Opcode is one assembled source line: the words it parsed from, the code
// words it produced, and where they land.
type Opcode struct {
	LineNo int      // Source line number.
	Addr   uint16   // Address of the first code word.
	Words  []string // Parsed source words, after substitutions.
	Code   []uint16 // Generated code words.

	LinkLabel    string // Label to link, if any.
	LinkAbsolute bool   // Link as an absolute address, not PC-relative.
}

// Program is an assembled program: an origin and the code words to load
// there, with the per-line listing that produced them.
type Program struct {
	Origin  uint16
	Opcodes []Opcode
}

// Debug finds the source line whose code covers addr.
type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+uint16(len(op.Code)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Words flattens the program into the loadable image.
func (prog *Program) Words() (words []uint16) {
	for _, word := range prog.Codes() {
		words = append(words, word)
	}

	return
}

// Codes yields each code word with its address.
func (prog *Program) Codes() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for _, op := range prog.Opcodes {
			for n, word := range op.Code {
				if !yield(op.Addr+uint16(n), word) {
					return
				}
			}
		}
	}
}
