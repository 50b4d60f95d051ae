// Package vmcontext holds the execution Context and Program the
// interpreter runs, plus the TaintPolicy/TaintCheckHandler extension
// points and the interpreter's error taxonomy. Grounded on
// original_source's Context/Program/TaintPolicy/TaintCheckHandler.
package vmcontext

import (
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/memory"
	"github.com/dcrain/concolic/word"
)

// Program is an ordered, PC-indexed sequence of instructions.
type Program struct {
	instrs []ir.Instr
}

func NewProgram(instrs []ir.Instr) *Program {
	return &Program{instrs: instrs}
}

// Fetch returns the instruction at pc, or ok=false when pc is out of
// range — the interpreter halts on the first out-of-range fetch.
func (p *Program) Fetch(pc word.Word) (ir.Instr, bool) {
	idx := int(pc.Uint32())
	if idx < 0 || idx >= len(p.instrs) {
		return nil, false
	}
	return p.instrs[idx], true
}

func (p *Program) Len() int {
	return len(p.instrs)
}

// Context is the interpreter's entire mutable state: program counter,
// variable bindings, and memory. Vars binds to an ir.Expr rather than
// a concrete ir.Value because the concolic interpreter must be able
// to bind a variable to a symbolic expression (e.g. an operand tree
// rooted at an ir.SymInput leaf); a concrete binding is simply an
// ir.ValueExpr. It exclusively owns Mem and Vars; it holds a
// non-owning reference to Prog.
type Context struct {
	PC   word.Word
	Vars map[string]ir.Expr
	Mem  *memory.Memory
	Prog *Program
}

// NewContext constructs a Context at PC=0 with an empty variable map,
// as the spec's lifecycle requires. Callers that want to seed
// variables or start elsewhere may set PC/Vars after construction.
func NewContext(mem *memory.Memory, prog *Program) *Context {
	return &Context{
		PC:   word.New(0),
		Vars: make(map[string]ir.Expr),
		Mem:  mem,
		Prog: prog,
	}
}

// CurrentInstr returns the instruction at the current PC, or ok=false
// once PC has run past the end of the program.
func (c *Context) CurrentInstr() (ir.Instr, bool) {
	return c.Prog.Fetch(c.PC)
}

// Resolve returns the current binding of name, or ErrUnboundVariable.
func (c *Context) Resolve(name string) (ir.Expr, error) {
	v, ok := c.Vars[name]
	if !ok {
		return nil, newUnboundVariableError(name)
	}
	return v, nil
}

// Copy produces a shallow clone sharing the underlying memory and
// variable map — used by speculative search strategies that don't
// need isolation. See DeepCopy for the isolating alternative.
func (c *Context) Copy() *Context {
	clone := *c
	return &clone
}

// DeepCopy produces a clone with its own memory and variable map, for
// callers (e.g. a path-exploration search strategy) that must not let
// one branch's execution affect another's.
func (c *Context) DeepCopy() *Context {
	vars := make(map[string]ir.Expr, len(c.Vars))
	for k, v := range c.Vars {
		vars[k] = v
	}
	return &Context{
		PC:   c.PC,
		Vars: vars,
		Mem:  c.Mem.Clone(),
		Prog: c.Prog,
	}
}
