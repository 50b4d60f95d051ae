package memory_test

import (
	"testing"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/word"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCellIsZeroAndUntainted(t *testing.T) {
	m := memory.New(0)
	assert.Equal(t, ir.Value{}, m.Get(0x1000))
}

func TestWriteReadIdentity(t *testing.T) {
	assert := assert.New(t)

	m := memory.New(0)
	v := ir.Value{Word: word.New(30), Tainted: true}
	m.Set(0x1000, v)

	assert.Equal(v, m.Get(0x1000))
}

func TestPageLaziness(t *testing.T) {
	assert := assert.New(t)

	m := memory.New(0)
	assert.Equal(0, m.PageCount())

	m.Set(0x800000, ir.Value{Word: word.New(10)})
	assert.Equal(1, m.PageCount())

	// A second write inside the same page must not allocate another one.
	m.Set(0x800004, ir.Value{Word: word.New(20)})
	assert.Equal(1, m.PageCount())
}

func TestPagesAreIndependent(t *testing.T) {
	assert := assert.New(t)

	m := memory.New(1024)
	m.Set(0, ir.Value{Word: word.New(1)})
	m.Set(1024*4, ir.Value{Word: word.New(2)})
	assert.Equal(2, m.PageCount())
	assert.Equal(word.New(1), m.Get(0).Word)
	assert.Equal(word.New(2), m.Get(1024*4).Word)
}

func TestAddressTaintBit(t *testing.T) {
	assert := assert.New(t)

	m := memory.New(0)
	assert.False(m.GetTaint(0x2000))
	m.SetTaint(0x2000, true)
	assert.True(m.GetTaint(0x2000))

	// The address-taint bit is independent of the cell's own data taint.
	m.Set(0x2000, ir.Value{Word: word.New(5), Tainted: false})
	assert.True(m.GetTaint(0x2000))
}

func TestCustomPageSize(t *testing.T) {
	m := memory.New(16)
	assert.Equal(t, uint32(16), m.PageSize())
}
