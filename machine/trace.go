package machine

import (
	"log"

	"github.com/ezrec/lc3b/isa"
)

// TraceObserver logs every notification, one line each. Logger defaults to
// the standard logger.
type TraceObserver struct {
	Logger *log.Logger
}

var _ Observer = (*TraceObserver)(nil)

func (tr *TraceObserver) printf(format string, args ...any) {
	if tr.Logger != nil {
		tr.Logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

func (tr *TraceObserver) OnRegisterWrite(reg isa.Register, old, new uint16) {
	tr.printf("trace: %v %04x -> %04x", reg, old, new)
}

func (tr *TraceObserver) OnMemoryWrite(addr uint16, old, new uint16) {
	tr.printf("trace: mem[%04x] %04x -> %04x", addr, old, new)
}

func (tr *TraceObserver) OnPCChange(old, new uint16) {
	tr.printf("trace: pc %04x -> %04x", old, new)
}

func (tr *TraceObserver) OnConditionChange(cond isa.Condition) {
	tr.printf("trace: cond %v", cond)
}

func (tr *TraceObserver) OnInstructionStart(pc uint16, inst isa.Instruction) {
	tr.printf("trace: %04x: %v", pc, inst)
}

func (tr *TraceObserver) OnInstructionEnd(pc uint16, inst isa.Instruction) {
}
