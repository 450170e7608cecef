package isa

// Register names one of the eight 16-bit general purpose registers.
// R7 doubles as the link register for JSR/JSRR by convention.
type Register uint16

//go:generate go tool stringer -linecomment -type=Register
const (
	R0 Register = iota // R0
	R1                 // R1
	R2                 // R2
	R3                 // R3
	R4                 // R4
	R5                 // R5
	R6                 // R6
	R7                 // R7
)

// SignExtend replicates the sign bit of a width-bit field into the unused
// high bits of a 16-bit value.
func SignExtend(field uint16, width uint) uint16 {
	field &= 1<<width - 1
	if field&(1<<(width-1)) != 0 {
		field |= ^uint16(0) << width
	}
	return field
}

// Imm5 is a 5-bit two's-complement immediate, stored as raw field bits.
type Imm5 uint16

// NewImm5 builds an Imm5 from a signed value.
func NewImm5(value int) (imm Imm5, err error) {
	if value < -16 || value > 15 {
		err = ErrOutOfRange{Kind: "imm5", Value: value, Min: -16, Max: 15}
		return
	}
	imm = Imm5(uint16(value) & 0x1f)
	return
}

// Sext returns the field sign-extended to 16 bits.
func (imm Imm5) Sext() uint16 { return SignExtend(uint16(imm), 5) }

// Int returns the signed value of the field.
func (imm Imm5) Int() int16 { return int16(imm.Sext()) }

// Offset6 is a 6-bit two's-complement offset, stored as raw field bits.
type Offset6 uint16

// NewOffset6 builds an Offset6 from a signed value.
func NewOffset6(value int) (offset Offset6, err error) {
	if value < -32 || value > 31 {
		err = ErrOutOfRange{Kind: "offset6", Value: value, Min: -32, Max: 31}
		return
	}
	offset = Offset6(uint16(value) & 0x3f)
	return
}

// Sext returns the field sign-extended to 16 bits.
func (offset Offset6) Sext() uint16 { return SignExtend(uint16(offset), 6) }

// Int returns the signed value of the field.
func (offset Offset6) Int() int16 { return int16(offset.Sext()) }

// Offset9 is a 9-bit two's-complement PC-relative offset, stored as raw
// field bits.
type Offset9 uint16

// NewOffset9 builds an Offset9 from a signed value.
func NewOffset9(value int) (offset Offset9, err error) {
	if value < -256 || value > 255 {
		err = ErrOutOfRange{Kind: "offset9", Value: value, Min: -256, Max: 255}
		return
	}
	offset = Offset9(uint16(value) & 0x1ff)
	return
}

// Sext returns the field sign-extended to 16 bits.
func (offset Offset9) Sext() uint16 { return SignExtend(uint16(offset), 9) }

// Int returns the signed value of the field.
func (offset Offset9) Int() int16 { return int16(offset.Sext()) }

// Offset11 is an 11-bit two's-complement PC-relative offset, stored as raw
// field bits.
type Offset11 uint16

// NewOffset11 builds an Offset11 from a signed value.
func NewOffset11(value int) (offset Offset11, err error) {
	if value < -1024 || value > 1023 {
		err = ErrOutOfRange{Kind: "offset11", Value: value, Min: -1024, Max: 1023}
		return
	}
	offset = Offset11(uint16(value) & 0x7ff)
	return
}

// Sext returns the field sign-extended to 16 bits.
func (offset Offset11) Sext() uint16 { return SignExtend(uint16(offset), 11) }

// Int returns the signed value of the field.
func (offset Offset11) Int() int16 { return int16(offset.Sext()) }

// Amount4 is a 4-bit unsigned shift amount.
type Amount4 uint16

// NewAmount4 builds an Amount4.
func NewAmount4(value int) (amount Amount4, err error) {
	if value < 0 || value > 15 {
		err = ErrOutOfRange{Kind: "amount4", Value: value, Min: 0, Max: 15}
		return
	}
	amount = Amount4(value)
	return
}

// TrapVect8 is an 8-bit trap vector.
type TrapVect8 uint16

// NewTrapVect8 builds a TrapVect8.
func NewTrapVect8(value int) (vector TrapVect8, err error) {
	if value < 0 || value > 255 {
		err = ErrOutOfRange{Kind: "trapvect8", Value: value, Min: 0, Max: 255}
		return
	}
	vector = TrapVect8(value)
	return
}

// Condition is the n/z/p condition flag tuple. Flag-setting instructions
// leave exactly one flag set; a BR instruction may name any subset.
type Condition struct {
	N bool
	Z bool
	P bool
}

// ConditionFor returns the flag tuple for the signed interpretation of
// value.
func ConditionFor(value uint16) Condition {
	signed := int16(value)
	return Condition{N: signed < 0, Z: signed == 0, P: signed > 0}
}

// Intersects reports whether any flag set in cond is also set in other.
func (cond Condition) Intersects(other Condition) bool {
	return (cond.N && other.N) || (cond.Z && other.Z) || (cond.P && other.P)
}

// String returns the flag subset as the mnemonic suffix letters.
func (cond Condition) String() (out string) {
	if cond.N {
		out += "n"
	}
	if cond.Z {
		out += "z"
	}
	if cond.P {
		out += "p"
	}
	return
}
