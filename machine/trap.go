package machine

import (
	"github.com/ezrec/lc3b/isa"
)

// Trap vectors dispatched by the machine. This table is the machine's
// contract; the Console supplies only character-level primitives.
const (
	TRAP_GETC  = 0x20 // Read one character into R0, flags unaffected.
	TRAP_OUT   = 0x21 // Write the low byte of R0.
	TRAP_PUTS  = 0x22 // Write words at R0 as characters until a zero word.
	TRAP_IN    = 0x23 // Prompt, echo-read one character into R0.
	TRAP_PUTSP = 0x24 // Write two packed characters per word at R0.
	TRAP_HALT  = 0x25 // Set the console's halted latch.
)

func (mc *Machine) trap(vector isa.TrapVect8) {
	switch uint16(vector) {
	case TRAP_GETC:
		// Nothing available leaves R0 unmodified rather than stalling.
		if ch, ok := mc.console.ReadChar(); ok {
			mc.storeRegister(isa.R0, uint16(ch))
		}
	case TRAP_OUT:
		mc.console.WriteChar(byte(mc.register[0]))
	case TRAP_PUTS:
		addr := mc.register[0]
		for {
			word := mc.memory.ReadWord(addr)
			if word == 0 {
				break
			}
			mc.console.WriteChar(byte(word))
			addr++
		}
	case TRAP_IN:
		if ch, ok := mc.console.ReadCharWithEcho(); ok {
			mc.storeRegister(isa.R0, uint16(ch))
		}
	case TRAP_PUTSP:
		// Low byte first; the first zero byte in either position stops.
		addr := mc.register[0]
		for {
			word := mc.memory.ReadWord(addr)
			low := byte(word)
			if low == 0 {
				break
			}
			mc.console.WriteChar(low)
			high := byte(word >> 8)
			if high == 0 {
				break
			}
			mc.console.WriteChar(high)
			addr++
		}
	case TRAP_HALT:
		mc.console.Halt()
	default:
		// Unmapped vectors are a deliberate no-op.
	}
}
