package machine

import (
	"fmt"
	"iter"
	"maps"
)

var _machine_defines = map[string]string{
	"USER_PROGRAM_START": fmt.Sprintf("%#v", USER_PROGRAM_START),
	"MEMORY_WORDS":       fmt.Sprintf("%#v", MEMORY_WORDS),
	"TRAP_GETC":          fmt.Sprintf("%#v", TRAP_GETC),
	"TRAP_OUT":           fmt.Sprintf("%#v", TRAP_OUT),
	"TRAP_PUTS":          fmt.Sprintf("%#v", TRAP_PUTS),
	"TRAP_IN":            fmt.Sprintf("%#v", TRAP_IN),
	"TRAP_PUTSP":         fmt.Sprintf("%#v", TRAP_PUTSP),
	"TRAP_HALT":          fmt.Sprintf("%#v", TRAP_HALT),
}

// Defines returns the machine constants an assembler exposes as predefined
// equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}
