// Package interpreter is the concrete fetch-execute loop: dispatch on
// instruction variant, evaluate sub-expressions, update the context,
// advance. It exposes one extension point — Strategy — at the two
// places spec.md §4.6 says the concolic interpreter overrides
// (GetInput and If); everything else (Assign, Store, Goto, and binary
// operator evaluation, including the symbolic-operand case) is shared
// code, not virtual, matching original_source's BaseInterpreter where
// eval_binop is inherited unchanged by ConcolicInterpreter.
//
// Grounded on cpu/cpu.go's Step/execute fetch-decode-dispatch loop.
package interpreter

import (
	"fmt"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
)

// Strategy parameterizes the two evaluation points the concrete and
// concolic interpreters genuinely disagree on. A strategy object
// behind one shared loop is the design note's preferred alternative to
// deep inheritance.
type Strategy interface {
	// EvalInput produces the Expr a GetInput evaluates to.
	EvalInput(e *Interpreter, ctx *vmcontext.Context, expr ir.GetInput) (ir.Expr, error)
	// EvalIf executes an If instruction in full, including updating
	// ctx.PC — the two strategies disagree about which branch(es) get
	// evaluated, not just about the condition's value.
	EvalIf(e *Interpreter, ctx *vmcontext.Context, instr ir.If) error
}

// Interpreter is the fetch-execute engine. The zero value is not
// usable; construct with New or NewWithStrategy.
type Interpreter struct {
	Policy          vmcontext.TaintPolicy
	Handler         vmcontext.TaintCheckHandler
	PrintStatements bool
	strategy        Strategy
}

// New builds a concrete Interpreter: GetInput pops the literal input
// queue, If branches on a 0/1 condition.
func New(policy vmcontext.TaintPolicy, handler vmcontext.TaintCheckHandler, printStatements bool) *Interpreter {
	return NewWithStrategy(policy, handler, concreteStrategy{}, printStatements)
}

// NewWithStrategy builds an Interpreter around a caller-supplied
// Strategy — this is how package concolic plugs in without
// subclassing or duplicating the loop.
func NewWithStrategy(policy vmcontext.TaintPolicy, handler vmcontext.TaintCheckHandler, strategy Strategy, printStatements bool) *Interpreter {
	return &Interpreter{
		Policy:          policy,
		Handler:         handler,
		PrintStatements: printStatements,
		strategy:        strategy,
	}
}

// Run repeatedly fetches the instruction at ctx.PC, executes it, and
// re-fetches, until the fetch runs past the end of the program or a
// fatal error occurs. It returns the mutated context either way, so a
// caller that wants partial state after an error still has it.
func (e *Interpreter) Run(ctx *vmcontext.Context) (*vmcontext.Context, error) {
	for {
		_, ok, err := e.Step(ctx)
		if err != nil {
			return ctx, err
		}
		if !ok {
			return ctx, nil
		}
	}
}

// Step executes exactly the instruction at ctx.PC, mutating ctx
// in place, and reports the instruction it ran (ok=false, nil error,
// nil instruction when PC has already run past the end of the
// program). An interactive step-through tool drives the interpreter
// through this method instead of Run.
func (e *Interpreter) Step(ctx *vmcontext.Context) (ir.Instr, bool, error) {
	instr, ok := ctx.CurrentInstr()
	if !ok {
		return nil, false, nil
	}
	if e.PrintStatements {
		fmt.Printf("%s : %s\n", ctx.PC, instr)
	}
	if err := e.step(ctx, instr); err != nil {
		return instr, true, err
	}
	return instr, true, nil
}

func (e *Interpreter) step(ctx *vmcontext.Context, instr ir.Instr) error {
	switch in := instr.(type) {
	case ir.Assign:
		return e.assignRule(ctx, in)
	case ir.Store:
		return e.storeRule(ctx, in)
	case ir.Goto:
		return e.gotoRule(ctx, in)
	case ir.If:
		return e.strategy.EvalIf(e, ctx, in)
	default:
		return vmcontext.NoRuleForError(instr)
	}
}

func (e *Interpreter) assignRule(ctx *vmcontext.Context, instr ir.Assign) error {
	v, err := e.EvalExpr(ctx, instr.Expr)
	if err != nil {
		return err
	}
	ctx.Vars[instr.Var] = v
	ctx.PC = ctx.PC.Add(word.New(1))
	return nil
}

func (e *Interpreter) storeRule(ctx *vmcontext.Context, instr ir.Store) error {
	addrResult, err := e.EvalExpr(ctx, instr.Addr)
	if err != nil {
		return err
	}
	addr, ok := asConcrete(addrResult)
	if !ok {
		return vmcontext.NotImplementedError("symbolic memory address")
	}

	valResult, err := e.EvalExpr(ctx, instr.Value)
	if err != nil {
		return err
	}
	val, ok := asConcrete(valResult)
	if !ok {
		return vmcontext.NotImplementedError("storing a symbolic value into concrete memory")
	}

	ctx.Mem.Set(addr.Word.Uint32(), val)
	ctx.Mem.SetTaint(addr.Word.Uint32(), e.Policy.TaintedAddress(addr, val))
	ctx.PC = ctx.PC.Add(word.New(1))
	return nil
}

func (e *Interpreter) gotoRule(ctx *vmcontext.Context, instr ir.Goto) error {
	targetResult, err := e.EvalExpr(ctx, instr.PC)
	if err != nil {
		return err
	}
	target, ok := asConcrete(targetResult)
	if !ok {
		return vmcontext.NotImplementedError("symbolic goto target")
	}
	if !e.Policy.GotoCheck(target) {
		if err := e.Handler.HandleGoto(ctx.PC, instr); err != nil {
			return err
		}
	}
	ctx.PC = target.Word
	return nil
}

// EvalExpr evaluates expr in ctx, returning either a concrete result
// (ir.ValueExpr) or — only ever produced via Strategy.EvalInput or an
// operand that was itself symbolic — a structural Expr standing in for
// a value the interpreter can't reduce to a concrete word.
func (e *Interpreter) EvalExpr(ctx *vmcontext.Context, expr ir.Expr) (ir.Expr, error) {
	switch ex := expr.(type) {
	case ir.ValueExpr:
		return ex, nil
	case ir.Var:
		return ctx.Resolve(ex.Name)
	case ir.GetInput:
		return e.strategy.EvalInput(e, ctx, ex)
	case ir.Load:
		return e.evalLoad(ctx, ex)
	case ir.BinOp:
		return e.evalBinOp(ctx, ex)
	case ir.If:
		cond, err := e.evalIfCond(ctx, ex.Cond)
		if err != nil {
			return nil, err
		}
		if cond == word.New(1) {
			return e.EvalExpr(ctx, ex.Then)
		}
		return e.EvalExpr(ctx, ex.Else)
	default:
		return nil, vmcontext.NotImplementedError(fmt.Sprintf("%T", expr))
	}
}

func (e *Interpreter) evalLoad(ctx *vmcontext.Context, expr ir.Load) (ir.Expr, error) {
	addrResult, err := e.EvalExpr(ctx, expr.Addr)
	if err != nil {
		return nil, err
	}
	addr, ok := asConcrete(addrResult)
	if !ok {
		return nil, vmcontext.NotImplementedError("symbolic memory address")
	}
	return ir.ValueExpr{Value: ctx.Mem.Get(addr.Word.Uint32())}, nil
}

// evalBinOp evaluates both operands, then either computes the
// concrete result (taint is the OR of both operand taints) or, when
// either side is not a concrete Value, returns the structural BinOp
// node unevaluated — the shared behavior spec.md §4.6 describes and
// original_source's eval_binop implements without any override.
func (e *Interpreter) evalBinOp(ctx *vmcontext.Context, expr ir.BinOp) (ir.Expr, error) {
	left, err := e.EvalExpr(ctx, expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.EvalExpr(ctx, expr.Right)
	if err != nil {
		return nil, err
	}

	lv, lok := asConcrete(left)
	rv, rok := asConcrete(right)
	if !lok || !rok {
		return ir.NewBinOp(expr.Kind, left, right), nil
	}

	var result word.Word
	switch expr.Kind {
	case ir.Add:
		result = lv.Word.Add(rv.Word)
	case ir.Mul:
		result = lv.Word.Mul(rv.Word)
	case ir.Sub:
		result = lv.Word.Sub(rv.Word)
	case ir.Eq:
		result = word.Bool(lv.Word.Eq(rv.Word))
	case ir.Gt:
		result = word.Bool(lv.Word.Gt(rv.Word))
	default:
		return nil, vmcontext.NotImplementedError(fmt.Sprintf("binop kind %d", expr.Kind))
	}
	return ir.NewValue(result, lv.Tainted || rv.Tainted), nil
}

// asConcrete extracts the underlying Value when e is a concrete
// ValueExpr, reporting ok=false for anything symbolic.
func asConcrete(e ir.Expr) (ir.Value, bool) {
	v, ok := e.(ir.ValueExpr)
	if !ok {
		return ir.Value{}, false
	}
	return v.Value, true
}
