package machine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/lc3b/io"
	"github.com/ezrec/lc3b/isa"
)

// loadInstructions encodes a program at the default origin.
func loadInstructions(mc *Machine, insts ...isa.Instruction) {
	words := make([]uint16, 0, len(insts))
	for _, inst := range insts {
		words = append(words, inst.Encode())
	}
	mc.LoadProgram(words, USER_PROGRAM_START)
}

func TestBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		cond     isa.Condition
		setup    isa.Instruction
		expected uint16
	}){
		// AND R0, R0, #0 leaves Z; ADD R0, R0, #1 leaves P;
		// ADD R0, R0, #-1 leaves N.
		{"z_taken", isa.Condition{Z: true}, isa.AndImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0)}, 0x3003},
		{"z_not_taken", isa.Condition{Z: true}, isa.AddImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(1)}, 0x3002},
		{"p_taken", isa.Condition{P: true}, isa.AddImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(1)}, 0x3003},
		{"n_taken", isa.Condition{N: true}, isa.AddImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0x1f)}, 0x3003},
		{"nzp_taken", isa.Condition{N: true, Z: true, P: true}, isa.AndImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0)}, 0x3003},
		{"never_taken", isa.Condition{}, isa.AndImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0)}, 0x3002},
	}

	for _, entry := range table {
		mc := NewMachine(&io.Buffered{})
		loadInstructions(mc,
			entry.setup,
			isa.Br{Cond: entry.cond, Offset: isa.Offset9(1)},
		)

		assert.NoError(mc.NextInstruction(), entry.name)
		assert.NoError(mc.NextInstruction(), entry.name)
		assert.Equal(entry.expected, mc.PC(), entry.name)
	}
}

func TestBranchBeforeFlags(t *testing.T) {
	assert := assert.New(t)

	// All flags start clear, so even BRnzp falls through until some
	// instruction has set them.
	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.Br{Cond: isa.Condition{N: true, Z: true, P: true}, Offset: isa.Offset9(0x10)},
	)

	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0x3001), mc.PC())
}

func TestBranchBackward(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.AndImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0)},
		isa.Br{Cond: isa.Condition{Z: true}, Offset: isa.Offset9(0x1fe)}, // #-2
	)

	assert.NoError(mc.NextInstruction())
	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0x3000), mc.PC())
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		insts    []isa.Instruction
		reg      isa.Register
		expected uint16
		cond     isa.Condition
	}){
		{"add_imm", []isa.Instruction{
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(5)},
		}, isa.R1, 5, isa.Condition{P: true}},
		{"add_overflow_wraps", []isa.Instruction{
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(1)},
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(0x1f)}, // #-1
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(0x1f)}, // #-1
		}, isa.R1, 0xffff, isa.Condition{N: true}},
		{"and_imm_zero", []isa.Instruction{
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(0xf)},
			isa.AndImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(0x10)}, // #-16
		}, isa.R1, 0, isa.Condition{Z: true}},
		{"xor_self_clears", []isa.Instruction{
			isa.AddImm{DR: isa.R2, SR1: isa.R2, Imm: isa.Imm5(7)},
			isa.XorReg{DR: isa.R2, SR1: isa.R2, SR2: isa.R2},
		}, isa.R2, 0, isa.Condition{Z: true}},
		{"not", []isa.Instruction{
			isa.Not(isa.R3, isa.R0),
		}, isa.R3, 0xffff, isa.Condition{N: true}},
		{"add_reg", []isa.Instruction{
			isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(3)},
			isa.AddImm{DR: isa.R2, SR1: isa.R2, Imm: isa.Imm5(4)},
			isa.AddReg{DR: isa.R3, SR1: isa.R1, SR2: isa.R2},
		}, isa.R3, 7, isa.Condition{P: true}},
	}

	for _, entry := range table {
		mc := NewMachine(&io.Buffered{})
		loadInstructions(mc, entry.insts...)

		count, err := mc.Run(len(entry.insts))
		assert.NoError(err, entry.name)
		assert.Equal(len(entry.insts), count, entry.name)
		assert.Equal(entry.expected, mc.Register(entry.reg), entry.name)
		assert.Equal(entry.cond, mc.Condition(), entry.name)
	}
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		input    uint16
		shf      isa.Shf
		expected uint16
		cond     isa.Condition
	}){
		{"lshf", 0x0001, isa.Shf{DR: isa.R2, SR: isa.R1, Amount: isa.Amount4(4)}, 0x0010, isa.Condition{P: true}},
		{"lshf_into_sign", 0x0001, isa.Shf{DR: isa.R2, SR: isa.R1, Amount: isa.Amount4(15)}, 0x8000, isa.Condition{N: true}},
		{"rshfl_zero_fill", 0x8000, isa.Shf{DR: isa.R2, SR: isa.R1, Right: true, Amount: isa.Amount4(15)}, 0x0001, isa.Condition{P: true}},
		{"rshfa_sign_fill", 0x8000, isa.Shf{DR: isa.R2, SR: isa.R1, Right: true, Arith: true, Amount: isa.Amount4(15)}, 0xffff, isa.Condition{N: true}},
		{"rshfa_positive", 0x0040, isa.Shf{DR: isa.R2, SR: isa.R1, Right: true, Arith: true, Amount: isa.Amount4(3)}, 0x0008, isa.Condition{P: true}},
		{"amount_zero", 0x1234, isa.Shf{DR: isa.R2, SR: isa.R1, Amount: isa.Amount4(0)}, 0x1234, isa.Condition{P: true}},
	}

	for _, entry := range table {
		mc := NewMachine(&io.Buffered{})
		mc.SetRegister(isa.R1, entry.input)
		loadInstructions(mc, entry.shf)

		assert.NoError(mc.NextInstruction(), entry.name)
		assert.Equal(entry.expected, mc.Register(isa.R2), entry.name)
		assert.Equal(entry.cond, mc.Condition(), entry.name)
	}
}

func TestLoadStoreWord(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	mc.SetRegister(isa.R1, 0x4000)
	mc.SetRegister(isa.R2, 0xbeef)
	loadInstructions(mc,
		isa.Str{SR: isa.R2, Base: isa.R1, Offset: isa.Offset6(2)},
		isa.Ldr{DR: isa.R3, Base: isa.R1, Offset: isa.Offset6(2)},
	)

	count, err := mc.Run(2)
	assert.NoError(err)
	assert.Equal(2, count)
	// The offset is in words, shifted once by the machine.
	assert.Equal(uint16(0xbeef), mc.ReadMemory(0x4004))
	assert.Equal(uint16(0xbeef), mc.Register(isa.R3))
	assert.Equal(isa.Condition{N: true}, mc.Condition())
}

func TestLoadStoreByte(t *testing.T) {
	assert := assert.New(t)

	// Byte addresses interleave within the word store: even byte in the
	// low half, odd byte in the high half.
	mc := NewMachine(&io.Buffered{})
	mc.WriteMemory(0x1000, 0x4142)
	mc.SetRegister(isa.R1, 0x2000) // byte address of word 0x1000
	loadInstructions(mc,
		isa.Ldb{DR: isa.R2, Base: isa.R1, Offset: isa.Offset6(0)},
		isa.Ldb{DR: isa.R3, Base: isa.R1, Offset: isa.Offset6(1)},
		isa.Stb{SR: isa.R3, Base: isa.R1, Offset: isa.Offset6(2)},
	)

	count, err := mc.Run(3)
	assert.NoError(err)
	assert.Equal(3, count)
	assert.Equal(uint16(0x42), mc.Register(isa.R2))
	assert.Equal(uint16(0x41), mc.Register(isa.R3))
	assert.Equal(uint16(0x0041), mc.ReadMemory(0x1001))
}

func TestLoadByteSignExtends(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	mc.WriteMemory(0x1000, 0x0080)
	mc.SetRegister(isa.R1, 0x2000)
	loadInstructions(mc,
		isa.Ldb{DR: isa.R2, Base: isa.R1, Offset: isa.Offset6(0)},
	)

	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0xff80), mc.Register(isa.R2))
	assert.Equal(isa.Condition{N: true}, mc.Condition())
}

func TestStoreBytePreservesOtherHalf(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	mc.WriteMemory(0x1000, 0x4142)
	mc.SetRegister(isa.R1, 0x2000)
	mc.SetRegister(isa.R2, 0xaacc)
	loadInstructions(mc,
		isa.Stb{SR: isa.R2, Base: isa.R1, Offset: isa.Offset6(0)},
	)

	assert.NoError(mc.NextInstruction())
	// Only the low byte of R2 lands; the high half of the word survives.
	assert.Equal(uint16(0x41cc), mc.ReadMemory(0x1000))
}

func TestLoadStoreIndirect(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	mc.WriteMemory(0x4000, 0x5000) // pointer
	mc.WriteMemory(0x5000, 0x1234)
	mc.SetRegister(isa.R1, 0x4000)
	mc.SetRegister(isa.R2, 0x4321)
	loadInstructions(mc,
		isa.Ldi{DR: isa.R3, Base: isa.R1, Offset: isa.Offset6(0)},
		isa.Sti{SR: isa.R2, Base: isa.R1, Offset: isa.Offset6(0)},
	)

	count, err := mc.Run(2)
	assert.NoError(err)
	assert.Equal(2, count)
	assert.Equal(uint16(0x1234), mc.Register(isa.R3))
	assert.Equal(uint16(0x4321), mc.ReadMemory(0x5000))
}

func TestLea(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.Lea{DR: isa.R1, Offset: isa.Offset9(4)},
		isa.Lea{DR: isa.R2, Offset: isa.Offset9(0x1ff)}, // #-1
	)

	count, err := mc.Run(2)
	assert.NoError(err)
	assert.Equal(2, count)
	assert.Equal(uint16(0x3000+1+8), mc.Register(isa.R1))
	assert.Equal(uint16(0x3001+1-2), mc.Register(isa.R2))
}

func TestJumpAndLink(t *testing.T) {
	assert := assert.New(t)

	// JSR forward to a subroutine that returns with RET.
	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.Jsr{Offset: isa.Offset11(1)},                            // 0x3000 -> 0x3003
		isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(1)},       // 0x3001, after return
		isa.Trap{Vector: isa.TrapVect8(TRAP_HALT)},                  // 0x3002
		isa.AddImm{DR: isa.R2, SR1: isa.R2, Imm: isa.Imm5(2)},       // 0x3003, subroutine
		isa.Ret(),                                                   // 0x3004
	)

	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0x3003), mc.PC())
	assert.Equal(uint16(0x3001), mc.Register(isa.R7))

	_, err := mc.Run(16)
	assert.NoError(err)
	assert.True(mc.Console().IsHalted())
	assert.Equal(uint16(2), mc.Register(isa.R2))
	assert.Equal(uint16(1), mc.Register(isa.R1))
}

func TestJumpRegister(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	mc.SetRegister(isa.R3, 0x3100)
	loadInstructions(mc,
		isa.Jmp{Base: isa.R3},
	)

	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0x3100), mc.PC())
}

func TestJsrrThroughLinkRegister(t *testing.T) {
	assert := assert.New(t)

	// JSRR R7 must use the pre-link value of R7 as the target.
	mc := NewMachine(&io.Buffered{})
	mc.SetRegister(isa.R7, 0x3200)
	loadInstructions(mc,
		isa.Jsrr{Base: isa.R7},
	)

	assert.NoError(mc.NextInstruction())
	assert.Equal(uint16(0x3200), mc.PC())
	assert.Equal(uint16(0x3001), mc.Register(isa.R7))
}

func TestRtiUnimplemented(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc, isa.Rti{})

	err := mc.NextInstruction()
	assert.ErrorIs(err, ErrUnimplemented("RTI"))
	// PC stays at the faulting instruction.
	assert.Equal(uint16(USER_PROGRAM_START), mc.PC())
}

func TestRunBudget(t *testing.T) {
	assert := assert.New(t)

	// Tight loop: set a flag, branch back forever.
	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.AndImm{DR: isa.R0, SR1: isa.R0, Imm: isa.Imm5(0)},
		isa.Br{Cond: isa.Condition{N: true, Z: true, P: true}, Offset: isa.Offset9(0x1fe)}, // #-2
	)

	count, err := mc.Run(100)
	assert.NoError(err)
	assert.Equal(100, count)
	assert.False(mc.Console().IsHalted())
}

func TestHaltIdempotent(t *testing.T) {
	assert := assert.New(t)

	mc := NewMachine(&io.Buffered{})
	loadInstructions(mc,
		isa.Trap{Vector: isa.TrapVect8(TRAP_HALT)},
	)

	count, err := mc.Run(100)
	assert.NoError(err)
	assert.Equal(1, count)
	pc := mc.PC()

	// Post-halt steps are no-op successes; nothing moves.
	assert.NoError(mc.NextInstruction())
	count, err = mc.Run(100)
	assert.NoError(err)
	assert.Equal(0, count)
	assert.Equal(pc, mc.PC())
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	console := &io.Buffered{}
	mc := NewMachine(console)
	loadInstructions(mc,
		isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(5)},
		isa.Trap{Vector: isa.TrapVect8(TRAP_HALT)},
	)

	_, err := mc.Run(100)
	assert.NoError(err)

	mc.Reset()
	console.Reset()

	assert.Equal(uint16(USER_PROGRAM_START), mc.PC())
	assert.Equal(isa.Condition{}, mc.Condition())
	assert.Equal([8]uint16{}, mc.Registers())
	assert.Equal(uint16(0), mc.ReadMemory(USER_PROGRAM_START))
	assert.False(console.IsHalted())
}

func TestObserver(t *testing.T) {
	assert := assert.New(t)

	recorder := &recordingObserver{}
	mc := NewMachineObserved(&io.Buffered{}, recorder)
	loadInstructions(mc,
		isa.AddImm{DR: isa.R1, SR1: isa.R1, Imm: isa.Imm5(5)},
		isa.Str{SR: isa.R1, Base: isa.R0, Offset: isa.Offset6(8)},
	)

	count, err := mc.Run(2)
	assert.NoError(err)
	assert.Equal(2, count)

	assert.Equal([]string{
		"start 3000 ADD R1, R1, #5",
		"reg R1 0000 -> 0005",
		"cond p",
		"end 3000",
		"pc 3000 -> 3001",
		"start 3001 STR R1, R0, #8",
		"mem[0010] 0000 -> 0005",
		"end 3001",
		"pc 3001 -> 3002",
	}, recorder.events)
}

// recordingObserver captures each notification as a formatted line.
type recordingObserver struct {
	events []string
}

func (ro *recordingObserver) record(format string, args ...any) {
	ro.events = append(ro.events, fmt.Sprintf(format, args...))
}

func (ro *recordingObserver) OnRegisterWrite(reg isa.Register, old, new uint16) {
	ro.record("reg %v %04x -> %04x", reg, old, new)
}

func (ro *recordingObserver) OnMemoryWrite(addr uint16, old, new uint16) {
	ro.record("mem[%04x] %04x -> %04x", addr, old, new)
}

func (ro *recordingObserver) OnPCChange(old, new uint16) {
	ro.record("pc %04x -> %04x", old, new)
}

func (ro *recordingObserver) OnConditionChange(cond isa.Condition) {
	ro.record("cond %v", cond)
}

func (ro *recordingObserver) OnInstructionStart(pc uint16, inst isa.Instruction) {
	ro.record("start %04x %v", pc, inst)
}

func (ro *recordingObserver) OnInstructionEnd(pc uint16, inst isa.Instruction) {
	ro.record("end %04x", pc)
}
