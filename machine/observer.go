package machine

import (
	"github.com/ezrec/lc3b/isa"
)

// Observer receives machine state-change notifications. Notifications for
// one instruction arrive in execution order, bracketed by
// OnInstructionStart and OnInstructionEnd; the trailing PC increment is
// reported after the bracket. OnPCChange and OnConditionChange fire only
// when the value actually changed. Observer calls must not fail.
type Observer interface {
	// OnRegisterWrite is called for every register store.
	OnRegisterWrite(reg isa.Register, old, new uint16)
	// OnMemoryWrite is called for every memory store.
	OnMemoryWrite(addr uint16, old, new uint16)
	// OnPCChange is called when the program counter changes.
	OnPCChange(old, new uint16)
	// OnConditionChange is called when the flag tuple changes.
	OnConditionChange(cond isa.Condition)
	// OnInstructionStart is called after a successful decode, before
	// execution.
	OnInstructionStart(pc uint16, inst isa.Instruction)
	// OnInstructionEnd is called after execution completes.
	OnInstructionEnd(pc uint16, inst isa.Instruction)
}

// NopObserver discards every notification. Its empty methods inline away,
// so an unobserved machine pays nothing.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) OnRegisterWrite(reg isa.Register, old, new uint16)  {}
func (NopObserver) OnMemoryWrite(addr uint16, old, new uint16)         {}
func (NopObserver) OnPCChange(old, new uint16)                         {}
func (NopObserver) OnConditionChange(cond isa.Condition)               {}
func (NopObserver) OnInstructionStart(pc uint16, inst isa.Instruction) {}
func (NopObserver) OnInstructionEnd(pc uint16, inst isa.Instruction)   {}
