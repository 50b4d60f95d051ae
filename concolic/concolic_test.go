package concolic_test

import (
	"testing"

	"github.com/dcrain/concolic/concolic"
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// e6Program builds spec scenario E6: two GetInputs, two Ifs, both
// taking the Then branch.
func e6Program() []ir.Instr {
	x := ir.NewVar("X")
	y := ir.NewVar("Y")
	return []ir.Instr{
		ir.NewAssign("X", ir.NewBinOp(ir.Mul, ir.Literal(word.New(2)), ir.NewGetInput(ir.NewInputQueue(), ""))),
		ir.NewIf(
			ir.NewBinOp(ir.Eq,
				ir.NewBinOp(ir.Sub, x, ir.NewBinOp(ir.Add, ir.Literal(word.New(3)), ir.Literal(word.New(2)))),
				ir.Literal(word.New(15)),
			),
			ir.Literal(word.New(2)),
			ir.Literal(word.New(3)),
		),
		ir.NewAssign("Y", ir.NewBinOp(ir.Add, ir.Literal(word.New(3)), x)),
		ir.NewIf(
			ir.NewBinOp(ir.Gt, y, ir.NewBinOp(ir.Sub, ir.NewGetInput(ir.NewInputQueue(), ""), ir.Literal(word.New(20)))),
			ir.Literal(word.New(4)),
			ir.Literal(word.New(5)),
		),
	}
}

func TestE6ConcolicBed(t *testing.T) {
	ctx := vmcontext.NewContext(memory.New(0), vmcontext.NewProgram(e6Program()))
	engine := concolic.New(vmcontext.NewDefaultTaintPolicy(), vmcontext.DefaultTaintCheckHandler{}, false)

	out, err := engine.Run(ctx)
	require.NoError(t, err)

	x, err := out.Resolve("X")
	require.NoError(t, err)
	assert.Equal(t, "(2) * (s_1)", x.String())

	want := "True AND (((2) * (s_1)) - (5)) == (15) AND ((3) + ((2) * (s_1))) > ((s_2) - (20))"
	assert.Equal(t, want, engine.Constraints().String())
}

// Property 6: two independent runs of the same concolic program, each
// with its own IdProvider, produce structurally identical constraint
// trees (the symbol numbering restarts from s_1 every time because
// each Interpreter owns its own IdProvider).
func TestConcolicPathConditionIdempotence(t *testing.T) {
	run := func() string {
		ctx := vmcontext.NewContext(memory.New(0), vmcontext.NewProgram(e6Program()))
		engine := concolic.New(vmcontext.NewDefaultTaintPolicy(), vmcontext.DefaultTaintCheckHandler{}, false)
		_, err := engine.Run(ctx)
		require.NoError(t, err)
		return engine.Constraints().String()
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestConcolicGetInputNeverTouchesSource(t *testing.T) {
	// Passing nil as the InputSource proves the concolic strategy never
	// calls PopFront on it.
	instrs := []ir.Instr{
		ir.NewAssign("x", ir.NewGetInput(nil, "")),
	}
	ctx := vmcontext.NewContext(memory.New(0), vmcontext.NewProgram(instrs))
	engine := concolic.New(vmcontext.NewDefaultTaintPolicy(), vmcontext.DefaultTaintCheckHandler{}, false)

	out, err := engine.Run(ctx)
	require.NoError(t, err)

	x, err := out.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, "s_1", x.String())
}
