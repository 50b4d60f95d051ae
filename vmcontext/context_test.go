package vmcontext_test

import (
	"testing"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(instrs []ir.Instr) *vmcontext.Context {
	return vmcontext.NewContext(memory.New(0), vmcontext.NewProgram(instrs))
}

func TestCurrentInstrPastEnd(t *testing.T) {
	ctx := newContext([]ir.Instr{ir.NewAssign("foo", ir.Literal(word.New(1)))})
	ctx.PC = word.New(1)
	_, ok := ctx.CurrentInstr()
	assert.False(t, ok)
}

func TestResolveUnboundVariable(t *testing.T) {
	ctx := newContext(nil)
	_, err := ctx.Resolve("foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, vmcontext.ErrUnboundVariable)
}

func TestCopySharesMemoryAndVars(t *testing.T) {
	assert := assert.New(t)

	ctx := newContext(nil)
	ctx.Vars["foo"] = ir.Literal(word.New(1))

	clone := ctx.Copy()
	clone.Vars["foo"] = ir.Literal(word.New(2))

	// Copy shares the map by reference, so mutating through the clone
	// is visible on the original too.
	assert.Equal(ir.Literal(word.New(2)), ctx.Vars["foo"])
	assert.Same(ctx.Mem, clone.Mem)
}

func TestDeepCopyIsolatesMemoryAndVars(t *testing.T) {
	assert := assert.New(t)

	ctx := newContext(nil)
	ctx.Vars["foo"] = ir.Literal(word.New(1))
	ctx.Mem.Set(0, ir.Value{Word: word.New(7)})

	clone := ctx.DeepCopy()
	clone.Vars["foo"] = ir.Literal(word.New(2))
	clone.Mem.Set(0, ir.Value{Word: word.New(9)})

	assert.Equal(ir.Literal(word.New(1)), ctx.Vars["foo"])
	assert.Equal(word.New(7), ctx.Mem.Get(0).Word)
	assert.NotSame(ctx.Mem, clone.Mem)
}

func TestDefaultTaintPolicy(t *testing.T) {
	assert := assert.New(t)

	p := vmcontext.NewDefaultTaintPolicy()
	assert.True(p.InputPolicy("anything"))
	assert.True(p.GotoCheck(ir.Value{Tainted: false}))
	assert.False(p.GotoCheck(ir.Value{Tainted: true}))

	tainted := ir.Value{Tainted: true}
	untainted := ir.Value{Tainted: false}
	assert.True(p.TaintedAddress(tainted, untainted))
	assert.False(p.TaintedAddress(untainted, tainted))
}

func TestStrictTaintedAddressPolicy(t *testing.T) {
	assert := assert.New(t)

	p := vmcontext.NewStrictTaintedAddressPolicy()
	tainted := ir.Value{Tainted: true}
	untainted := ir.Value{Tainted: false}

	assert.True(p.TaintedAddress(untainted, tainted))
	assert.True(p.TaintedAddress(tainted, untainted))
	assert.False(p.TaintedAddress(untainted, untainted))
}

func TestDefaultTaintCheckHandlerRaisesAttack(t *testing.T) {
	h := vmcontext.DefaultTaintCheckHandler{}
	instr := ir.NewGoto(ir.NewVar("blah"))
	err := h.HandleGoto(word.New(3), instr)
	require.Error(t, err)
	assert.ErrorIs(t, err, vmcontext.ErrAttack)
}
