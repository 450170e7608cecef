// Package isa implements the LC-3b instruction format: a total, reversible
// mapping between 16-bit instruction words and a closed set of typed
// instruction variants.
//
// The 4 most significant bits of a word select the opcode family; the
// remaining subfields sit at fixed positions. Operand magnitudes are checked
// by the operand constructors, so Encode never fails. Sign extension of
// offset and immediate fields is applied on demand, never baked into the
// stored field bits.
//
// Two mnemonics alias another family's bit pattern: NOT is XOR-immediate
// with an all-ones imm5, and RET is JMP R7. The XOR and JMP forms are the
// canonical decoded representations; Not and Ret are constructor aliases.
package isa
