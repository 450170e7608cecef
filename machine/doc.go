// Package machine implements the LC-3b fetch-decode-execute engine.
//
// A Machine owns its register file, condition flags, program counter, and
// Memory, plus one Console for TRAP services and one Observer for
// instrumentation. All state has a single writer, the execution loop, so
// multiple independent machines coexist without synchronization. Execution
// is fully synchronous: each step completes atomically and nothing blocks,
// including console reads.
package machine
