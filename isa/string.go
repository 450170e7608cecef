package isa

import (
	"fmt"
)

// The String methods render assembly text. NOT and RET print under their
// friendly mnemonics; everything else prints its canonical family.

func (inst AddReg) String() string {
	return fmt.Sprintf("ADD %v, %v, %v", inst.DR, inst.SR1, inst.SR2)
}

func (inst AddImm) String() string {
	return fmt.Sprintf("ADD %v, %v, #%v", inst.DR, inst.SR1, inst.Imm.Int())
}

func (inst AndReg) String() string {
	return fmt.Sprintf("AND %v, %v, %v", inst.DR, inst.SR1, inst.SR2)
}

func (inst AndImm) String() string {
	return fmt.Sprintf("AND %v, %v, #%v", inst.DR, inst.SR1, inst.Imm.Int())
}

func (inst XorReg) String() string {
	return fmt.Sprintf("XOR %v, %v, %v", inst.DR, inst.SR1, inst.SR2)
}

func (inst XorImm) String() string {
	if inst.Imm == Imm5(0x1f) {
		return fmt.Sprintf("NOT %v, %v", inst.DR, inst.SR1)
	}
	return fmt.Sprintf("XOR %v, %v, #%v", inst.DR, inst.SR1, inst.Imm.Int())
}

func (inst Br) String() string {
	return fmt.Sprintf("BR%v #%v", inst.Cond, inst.Offset.Int())
}

func (inst Jmp) String() string {
	if inst.Base == R7 {
		return "RET"
	}
	return fmt.Sprintf("JMP %v", inst.Base)
}

func (inst Jsr) String() string {
	return fmt.Sprintf("JSR #%v", inst.Offset.Int())
}

func (inst Jsrr) String() string {
	return fmt.Sprintf("JSRR %v", inst.Base)
}

func (inst Ldb) String() string {
	return fmt.Sprintf("LDB %v, %v, #%v", inst.DR, inst.Base, inst.Offset.Int())
}

func (inst Ldi) String() string {
	return fmt.Sprintf("LDI %v, %v, #%v", inst.DR, inst.Base, inst.Offset.Int())
}

func (inst Ldr) String() string {
	return fmt.Sprintf("LDR %v, %v, #%v", inst.DR, inst.Base, inst.Offset.Int())
}

func (inst Lea) String() string {
	return fmt.Sprintf("LEA %v, #%v", inst.DR, inst.Offset.Int())
}

func (inst Rti) String() string {
	return "RTI"
}

func (inst Shf) String() string {
	mnemonic := "LSHF"
	if inst.Right {
		if inst.Arith {
			mnemonic = "RSHFA"
		} else {
			mnemonic = "RSHFL"
		}
	}
	return fmt.Sprintf("%v %v, %v, #%v", mnemonic, inst.DR, inst.SR, uint16(inst.Amount))
}

func (inst Stb) String() string {
	return fmt.Sprintf("STB %v, %v, #%v", inst.SR, inst.Base, inst.Offset.Int())
}

func (inst Sti) String() string {
	return fmt.Sprintf("STI %v, %v, #%v", inst.SR, inst.Base, inst.Offset.Int())
}

func (inst Str) String() string {
	return fmt.Sprintf("STR %v, %v, #%v", inst.SR, inst.Base, inst.Offset.Int())
}

func (inst Trap) String() string {
	return fmt.Sprintf("TRAP x%02X", uint16(inst.Vector))
}
