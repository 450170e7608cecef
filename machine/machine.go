package machine

import (
	"log"

	"github.com/ezrec/lc3b/io"
	"github.com/ezrec/lc3b/isa"
)

const (
	USER_PROGRAM_START = 0x3000 // Default program counter after reset.
)

// Machine is one LC-3b computer.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	pc       uint16
	cond     isa.Condition
	register [8]uint16
	memory   Memory
	console  io.Console
	observer Observer
}

// NewMachine creates a machine with the given console and no observer.
func NewMachine(console io.Console) *Machine {
	return NewMachineObserved(console, NopObserver{})
}

// NewMachineObserved creates a machine with a console and an observer.
func NewMachineObserved(console io.Console, observer Observer) *Machine {
	return &Machine{
		pc:       USER_PROGRAM_START,
		console:  console,
		observer: observer,
	}
}

// PC returns the address of the next instruction to fetch.
func (mc *Machine) PC() uint16 {
	return mc.pc
}

// Condition returns the current condition flag tuple.
func (mc *Machine) Condition() isa.Condition {
	return mc.cond
}

// Register returns the value of one register.
func (mc *Machine) Register(reg isa.Register) uint16 {
	return mc.register[reg]
}

// SetRegister stores value into one register without touching the flags.
// This is the debug-style direct write; the observer is notified like any
// other store.
func (mc *Machine) SetRegister(reg isa.Register, value uint16) {
	mc.storeRegister(reg, value)
}

// Registers returns a copy of the register file.
func (mc *Machine) Registers() [8]uint16 {
	return mc.register
}

// Console returns the attached console.
func (mc *Machine) Console() io.Console {
	return mc.console
}

// ReadMemory returns the word at addr.
func (mc *Machine) ReadMemory(addr uint16) uint16 {
	return mc.memory.ReadWord(addr)
}

// WriteMemory stores value at addr. This is the debug-style direct write;
// the observer is notified like any other store.
func (mc *Machine) WriteMemory(addr uint16, value uint16) {
	mc.writeWord(addr, value)
}

// LoadProgram bulk-writes words starting at origin and sets the program
// counter to origin.
func (mc *Machine) LoadProgram(words []uint16, origin uint16) {
	if mc.Verbose {
		log.Printf("machine: load %v words at %04x", len(words), origin)
	}

	mc.memory.LoadWords(origin, words)
	mc.setPC(origin)
}

// Reset clears the registers, flags, and memory, and restores the program
// counter to the default origin. The console's halted latch is its own; a
// host reruns by resetting both.
func (mc *Machine) Reset() {
	if mc.Verbose {
		log.Printf("machine: reset")
	}

	clear(mc.register[:])
	clear(mc.memory[:])
	mc.cond = isa.Condition{}
	mc.setPC(USER_PROGRAM_START)
}

func (mc *Machine) loadRegister(reg isa.Register) uint16 {
	return mc.register[reg]
}

func (mc *Machine) storeRegister(reg isa.Register, value uint16) {
	old := mc.register[reg]
	mc.register[reg] = value
	mc.observer.OnRegisterWrite(reg, old, value)
}

func (mc *Machine) writeWord(addr uint16, value uint16) {
	old := mc.memory.ReadWord(addr)
	mc.memory.WriteWord(addr, value)
	mc.observer.OnMemoryWrite(addr, old, value)
}

func (mc *Machine) setCondition(value uint16) {
	cond := isa.ConditionFor(value)
	if cond != mc.cond {
		mc.cond = cond
		mc.observer.OnConditionChange(cond)
	}
}

func (mc *Machine) setPC(pc uint16) {
	old := mc.pc
	mc.pc = pc
	if old != pc {
		mc.observer.OnPCChange(old, pc)
	}
}

// aluResult stores an instruction result and recomputes the flags from its
// signed interpretation.
func (mc *Machine) aluResult(dr isa.Register, value uint16) {
	mc.storeRegister(dr, value)
	mc.setCondition(value)
}

// NextInstruction executes a single step. After the console halts, a step
// is a no-op success, which keeps Run idempotent post-halt. A decode
// failure is fatal to the running program: PC stays at the faulting
// address and the caller must not retry.
func (mc *Machine) NextInstruction() (err error) {
	if mc.console.IsHalted() {
		return
	}

	pc := mc.pc
	word := mc.memory.ReadWord(pc)

	inst, err := isa.Decode(word)
	if err != nil {
		err = &ErrDecode{Address: pc, Err: err}
		return
	}

	if mc.Verbose {
		log.Printf("machine: %04x: %v", pc, inst)
	}

	mc.observer.OnInstructionStart(pc, inst)

	err = mc.execute(inst)
	if err != nil {
		return
	}

	mc.observer.OnInstructionEnd(pc, inst)

	// The trailing increment supplies the PC+1 base the PC-relative
	// instructions assume.
	mc.setPC(mc.pc + 1)

	return
}

// Run steps until the console halts or the budget is exhausted, returning
// the number of instructions actually executed. A fatal step failure stops
// the loop and propagates immediately.
func (mc *Machine) Run(maxInstructions int) (count int, err error) {
	for !mc.console.IsHalted() && count < maxInstructions {
		err = mc.NextInstruction()
		if err != nil {
			return
		}
		count++
	}

	return
}

func (mc *Machine) execute(inst isa.Instruction) (err error) {
	switch op := inst.(type) {
	case isa.AddReg:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)+mc.loadRegister(op.SR2))
	case isa.AddImm:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)+op.Imm.Sext())
	case isa.AndReg:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)&mc.loadRegister(op.SR2))
	case isa.AndImm:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)&op.Imm.Sext())
	case isa.XorReg:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)^mc.loadRegister(op.SR2))
	case isa.XorImm:
		mc.aluResult(op.DR, mc.loadRegister(op.SR1)^op.Imm.Sext())
	case isa.Br:
		if op.Cond.Intersects(mc.cond) {
			mc.pc += op.Offset.Sext()
		}
	case isa.Jmp:
		// Compensate the trailing +1.
		mc.pc = mc.loadRegister(op.Base) - 1
	case isa.Jsr:
		mc.storeRegister(isa.R7, mc.pc+1)
		mc.pc += op.Offset.Sext() << 1
	case isa.Jsrr:
		// Base is read before the R7 write, in case base is R7.
		target := mc.loadRegister(op.Base)
		mc.storeRegister(isa.R7, mc.pc+1)
		mc.pc = target - 1
	case isa.Ldb:
		byteAddr := mc.loadRegister(op.Base) + op.Offset.Sext()
		word := mc.memory.ReadWord(byteAddr >> 1)
		half := word & 0xff
		if byteAddr&1 != 0 {
			half = word >> 8 & 0xff
		}
		mc.aluResult(op.DR, isa.SignExtend(half, 8))
	case isa.Ldi:
		addr := mc.loadRegister(op.Base) + op.Offset.Sext()<<1
		mc.aluResult(op.DR, mc.memory.ReadWord(mc.memory.ReadWord(addr)))
	case isa.Ldr:
		addr := mc.loadRegister(op.Base) + op.Offset.Sext()<<1
		mc.aluResult(op.DR, mc.memory.ReadWord(addr))
	case isa.Lea:
		mc.aluResult(op.DR, mc.pc+1+op.Offset.Sext()<<1)
	case isa.Rti:
		err = ErrUnimplemented("RTI")
	case isa.Shf:
		value := mc.loadRegister(op.SR)
		amount := uint(op.Amount)
		switch {
		case !op.Right:
			value <<= amount
		case !op.Arith:
			value >>= amount
		default:
			value = uint16(int16(value) >> amount)
		}
		mc.aluResult(op.DR, value)
	case isa.Stb:
		byteAddr := mc.loadRegister(op.Base) + op.Offset.Sext()
		word := mc.memory.ReadWord(byteAddr >> 1)
		half := mc.loadRegister(op.SR) & 0xff
		if byteAddr&1 == 0 {
			word = word&0xff00 | half
		} else {
			word = word&0x00ff | half<<8
		}
		mc.writeWord(byteAddr>>1, word)
	case isa.Sti:
		addr := mc.loadRegister(op.Base) + op.Offset.Sext()<<1
		mc.writeWord(mc.memory.ReadWord(addr), mc.loadRegister(op.SR))
	case isa.Str:
		addr := mc.loadRegister(op.Base) + op.Offset.Sext()<<1
		mc.writeWord(addr, mc.loadRegister(op.SR))
	case isa.Trap:
		mc.trap(op.Vector)
	}

	return
}
