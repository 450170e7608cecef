package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		inst Instruction
		word uint16
	}){
		{"add_reg", AddReg{DR: R1, SR1: R2, SR2: R3}, 0b0001_001_010_000_011},
		{"add_imm", AddImm{DR: R1, SR1: R2, Imm: Imm5(0x1f)}, 0b0001_001_010_1_11111},
		{"and_reg", AndReg{DR: R0, SR1: R0, SR2: R0}, 0b0101_000_000_000_000},
		{"and_imm", AndImm{DR: R7, SR1: R7, Imm: Imm5(0)}, 0b0101_111_111_1_00000},
		{"xor_reg", XorReg{DR: R4, SR1: R5, SR2: R6}, 0b1001_100_101_000_110},
		{"not", Not(R3, R4), 0b1001_011_100_1_11111},
		{"br_nzp", Br{Cond: Condition{N: true, Z: true, P: true}, Offset: Offset9(0x1ff)}, 0b0000_111_111111111},
		{"br_z", Br{Cond: Condition{Z: true}, Offset: Offset9(1)}, 0b0000_010_000000001},
		{"jmp", Jmp{Base: R2}, 0b1100_000_010_000000},
		{"ret", Ret(), 0b1100_000_111_000000},
		{"jsr", Jsr{Offset: Offset11(0x400)}, 0b0100_1_10000000000},
		{"jsrr", Jsrr{Base: R5}, 0b0100_0_00_101_000000},
		{"ldb", Ldb{DR: R1, Base: R2, Offset: Offset6(0x20)}, 0b0010_001_010_100000},
		{"ldi", Ldi{DR: R1, Base: R2, Offset: Offset6(1)}, 0b1010_001_010_000001},
		{"ldr", Ldr{DR: R1, Base: R2, Offset: Offset6(0x3f)}, 0b0110_001_010_111111},
		{"lea", Lea{DR: R6, Offset: Offset9(0x100)}, 0b1110_110_100000000},
		{"rti", Rti{}, 0b1000_000000000000},
		{"lshf", Shf{DR: R2, SR: R3, Amount: Amount4(3)}, 0b1101_010_011_0_0_0011},
		{"rshfl", Shf{DR: R2, SR: R3, Right: true, Amount: Amount4(15)}, 0b1101_010_011_1_0_1111},
		{"rshfa", Shf{DR: R2, SR: R3, Right: true, Arith: true, Amount: Amount4(1)}, 0b1101_010_011_1_1_0001},
		{"stb", Stb{SR: R7, Base: R0, Offset: Offset6(0)}, 0b0011_111_000_000000},
		{"sti", Sti{SR: R1, Base: R2, Offset: Offset6(2)}, 0b1011_001_010_000010},
		{"str", Str{SR: R1, Base: R2, Offset: Offset6(0x3e)}, 0b0111_001_010_111110},
		{"trap", Trap{Vector: TrapVect8(0x25)}, 0b1111_0000_00100101},
	}

	for _, entry := range table {
		assert.Equal(entry.word, entry.inst.Encode(), entry.name)

		decoded, err := Decode(entry.word)
		assert.NoError(err, entry.name)
		assert.Equal(entry.inst, decoded, entry.name)
	}
}
