package machine

const (
	MEMORY_WORDS = 1 << 16 // Words in the flat address space.
)

// Memory is the flat 65536-word store. Every 16-bit address is valid by
// construction, so reads and writes are total. Byte instructions
// reinterpret half-words within a word; they do not change the addressing
// granularity of the storage itself.
type Memory [MEMORY_WORDS]uint16

// ReadWord returns the word at addr.
func (mem *Memory) ReadWord(addr uint16) uint16 {
	return mem[addr]
}

// WriteWord stores value at addr.
func (mem *Memory) WriteWord(addr uint16, value uint16) {
	mem[addr] = value
}

// LoadWords bulk-writes words starting at start, wrapping modulo the
// address space.
func (mem *Memory) LoadWords(start uint16, words []uint16) {
	for n, word := range words {
		mem[start+uint16(n)] = word
	}
}
