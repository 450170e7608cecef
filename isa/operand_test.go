package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		field    uint16
		width    uint
		expected uint16
	}){
		{"imm5_pos_max", 0b01111, 5, 15},
		{"imm5_neg_one", 0b11111, 5, 0xffff},
		{"imm5_neg_max", 0b10000, 5, 0xfff0},
		{"imm5_zero", 0b00000, 5, 0},
		{"offset6_neg", 0b100000, 6, 0xffe0},
		{"offset9_pos", 0b011111111, 9, 255},
		{"offset9_neg", 0b100000000, 9, 0xff00},
		{"offset11_neg", 0b10000000000, 11, 0xfc00},
		{"byte_neg", 0x80, 8, 0xff80},
		{"junk_high_bits", 0xffe1, 5, 1},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, SignExtend(entry.field, entry.width), entry.name)
	}
}

func TestOperandRange(t *testing.T) {
	assert := assert.New(t)

	imm, err := NewImm5(-16)
	assert.NoError(err)
	assert.Equal(int16(-16), imm.Int())

	imm, err = NewImm5(15)
	assert.NoError(err)
	assert.Equal(int16(15), imm.Int())

	_, err = NewImm5(16)
	assert.ErrorIs(err, ErrOutOfRange{Kind: "imm5", Value: 16, Min: -16, Max: 15})

	_, err = NewImm5(-17)
	assert.Error(err)

	offset9, err := NewOffset9(-256)
	assert.NoError(err)
	assert.Equal(int16(-256), offset9.Int())

	_, err = NewOffset9(256)
	assert.Error(err)

	offset11, err := NewOffset11(1023)
	assert.NoError(err)
	assert.Equal(int16(1023), offset11.Int())

	_, err = NewOffset11(-1025)
	assert.Error(err)

	_, err = NewAmount4(16)
	assert.Error(err)

	_, err = NewTrapVect8(256)
	assert.Error(err)
}

func TestConditionFor(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		value    uint16
		expected Condition
	}){
		{"zero", 0x0000, Condition{Z: true}},
		{"one", 0x0001, Condition{P: true}},
		{"positive_max", 0x7fff, Condition{P: true}},
		{"negative_min", 0x8000, Condition{N: true}},
		{"negative_one", 0xffff, Condition{N: true}},
	}

	for _, entry := range table {
		cond := ConditionFor(entry.value)
		assert.Equal(entry.expected, cond, entry.name)

		// Exactly one flag is set.
		count := 0
		for _, flag := range []bool{cond.N, cond.Z, cond.P} {
			if flag {
				count++
			}
		}
		assert.Equal(1, count, entry.name)
	}
}

func TestConditionIntersects(t *testing.T) {
	assert := assert.New(t)

	nzp := Condition{N: true, Z: true, P: true}
	assert.True(nzp.Intersects(Condition{Z: true}))
	assert.True(Condition{Z: true}.Intersects(Condition{Z: true}))
	assert.False(Condition{N: true, P: true}.Intersects(Condition{Z: true}))
	assert.False(Condition{}.Intersects(nzp))
	assert.False(nzp.Intersects(Condition{}))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		expected string
		inst     Instruction
	}){
		{"ADD R1, R2, R3", AddReg{DR: R1, SR1: R2, SR2: R3}},
		{"ADD R1, R2, #-1", AddImm{DR: R1, SR1: R2, Imm: Imm5(0x1f)}},
		{"NOT R3, R4", Not(R3, R4)},
		{"XOR R3, R4, #5", XorImm{DR: R3, SR1: R4, Imm: Imm5(5)}},
		{"BRnzp #-1", Br{Cond: Condition{N: true, Z: true, P: true}, Offset: Offset9(0x1ff)}},
		{"BRz #1", Br{Cond: Condition{Z: true}, Offset: Offset9(1)}},
		{"RET", Ret()},
		{"JMP R2", Jmp{Base: R2}},
		{"JSR #-1024", Jsr{Offset: Offset11(0x400)}},
		{"LSHF R2, R3, #3", Shf{DR: R2, SR: R3, Amount: Amount4(3)}},
		{"RSHFA R2, R3, #1", Shf{DR: R2, SR: R3, Right: true, Arith: true, Amount: Amount4(1)}},
		{"TRAP x25", Trap{Vector: TrapVect8(0x25)}},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, entry.inst.String())
	}
}
