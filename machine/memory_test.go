package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWrap(t *testing.T) {
	assert := assert.New(t)

	var mem Memory

	mem.WriteWord(0xffff, 0x1234)
	assert.Equal(uint16(0x1234), mem.ReadWord(0xffff))

	// LoadWords wraps past the top of the address space.
	mem.LoadWords(0xfffe, []uint16{1, 2, 3, 4})
	assert.Equal(uint16(1), mem.ReadWord(0xfffe))
	assert.Equal(uint16(2), mem.ReadWord(0xffff))
	assert.Equal(uint16(3), mem.ReadWord(0x0000))
	assert.Equal(uint16(4), mem.ReadWord(0x0001))
}

func TestMemoryZeroValue(t *testing.T) {
	assert := assert.New(t)

	var mem Memory

	assert.Equal(uint16(0), mem.ReadWord(0))
	assert.Equal(uint16(0), mem.ReadWord(0xffff))
	assert.Equal(uint16(0), mem.ReadWord(USER_PROGRAM_START))
}
