// Package concolic builds the concolic (concrete + symbolic) variant
// of the interpreter on top of package interpreter's shared loop: it
// implements interpreter.Strategy so GetInput produces a fresh named
// symbolic value instead of popping the concrete queue, and If always
// takes the Then branch while conjoining the condition, as evaluated,
// onto the running path constraint. Grounded on
// original_source's ConcolicInterpreter.
package concolic

import (
	"github.com/dcrain/concolic/interpreter"
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/symex"
	"github.com/dcrain/concolic/vmcontext"
)

// Interpreter wraps a concrete interpreter.Interpreter, replacing its
// GetInput/If evaluation with the concolic strategy while reusing the
// shared fetch-execute loop, variable/memory model, and BinOp
// evaluator unchanged.
type Interpreter struct {
	engine      *interpreter.Interpreter
	ids         *symex.IdProvider
	constraints symex.Expr
}

// New builds a concolic Interpreter. printStatements mirrors
// interpreter.New's trace-to-stdout flag.
func New(policy vmcontext.TaintPolicy, handler vmcontext.TaintCheckHandler, printStatements bool) *Interpreter {
	c := &Interpreter{
		ids:         symex.NewIdProvider(),
		constraints: symex.True,
	}
	c.engine = interpreter.NewWithStrategy(policy, handler, c, printStatements)
	return c
}

// Run executes ctx to completion (or the first fatal error) using the
// concolic strategy.
func (c *Interpreter) Run(ctx *vmcontext.Context) (*vmcontext.Context, error) {
	return c.engine.Run(ctx)
}

// Step executes exactly one instruction; see interpreter.Interpreter.Step.
func (c *Interpreter) Step(ctx *vmcontext.Context) (ir.Instr, bool, error) {
	return c.engine.Step(ctx)
}

// Constraints returns the accumulated path condition. It starts at
// symex.True and gains one symex.And per If instruction executed.
func (c *Interpreter) Constraints() symex.Expr {
	return c.constraints
}

// EvalInput is the concolic override of interpreter.Strategy: rather
// than consuming the concrete input queue, it mints a fresh symbolic
// name via the IdProvider and ignores expr.Source entirely — the
// concolic run never touches concrete inputs, matching
// original_source's ConcolicInterpreter.eval_input.
func (c *Interpreter) EvalInput(_ *interpreter.Interpreter, _ *vmcontext.Context, _ ir.GetInput) (ir.Expr, error) {
	return ir.SymInput{Name: c.ids.NextName()}, nil
}

// EvalIf is the concolic override: it always explores the Then branch
// (per spec.md §9 Open Question 4's resolution — see DESIGN.md),
// conjoins Cond onto the path condition, and advances PC by evaluating
// Then as a PC-valued expression exactly like the concrete Goto rule.
// Unlike Goto, If is never taint-checked — spec.md §4.4/§4.5 and
// original_source's eval_if both scope policy.goto_check to Goto alone.
func (c *Interpreter) EvalIf(e *interpreter.Interpreter, ctx *vmcontext.Context, instr ir.If) error {
	cond, err := e.EvalExpr(ctx, instr.Cond)
	if err != nil {
		return err
	}
	c.constraints = symex.Conjoin(c.constraints, cond)

	targetResult, err := e.EvalExpr(ctx, instr.Then)
	if err != nil {
		return err
	}
	target, ok := targetResult.(ir.ValueExpr)
	if !ok {
		return vmcontext.NotImplementedError("symbolic if branch target")
	}
	ctx.PC = target.Value.Word
	return nil
}
