package interpreter

import (
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
)

// concreteStrategy is the default Strategy: GetInput actually pops the
// input queue and applies the taint policy to the popped word; If
// evaluates Cond to a concrete 0/1 and takes exactly one branch.
// Grounded on original_source's base Interpreter.eval_input/eval_if.
type concreteStrategy struct{}

func (concreteStrategy) EvalInput(e *Interpreter, ctx *vmcontext.Context, expr ir.GetInput) (ir.Expr, error) {
	w, ok := expr.Source.PopFront()
	if !ok {
		return nil, vmcontext.InputExhaustedError(expr.InputName)
	}
	tainted := e.Policy.InputPolicy(expr.InputName)
	return ir.NewValue(w, tainted), nil
}

func (e *Interpreter) evalIfCond(ctx *vmcontext.Context, cond ir.Expr) (word.Word, error) {
	result, err := e.EvalExpr(ctx, cond)
	if err != nil {
		return word.Word(0), err
	}
	v, ok := asConcrete(result)
	if !ok {
		return word.Word(0), vmcontext.NotImplementedError("symbolic if condition in concrete mode")
	}
	if v.Word != word.New(0) && v.Word != word.New(1) {
		return word.Word(0), vmcontext.InvalidIfConditionError(v.Word)
	}
	return v.Word, nil
}

func (concreteStrategy) EvalIf(e *Interpreter, ctx *vmcontext.Context, instr ir.If) error {
	cond, err := e.evalIfCond(ctx, instr.Cond)
	if err != nil {
		return err
	}

	branch := instr.Else
	if cond == word.New(1) {
		branch = instr.Then
	}

	targetResult, err := e.EvalExpr(ctx, branch)
	if err != nil {
		return err
	}
	target, ok := asConcrete(targetResult)
	if !ok {
		return vmcontext.NotImplementedError("symbolic if branch target")
	}
	ctx.PC = target.Word
	return nil
}
