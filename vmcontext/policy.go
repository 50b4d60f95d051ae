package vmcontext

import (
	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/word"
)

// TaintPolicy separates "what counts as tainted/attack" from the
// interpreter mechanism. Implementers select a policy per run; the
// interpreter never special-cases a particular one.
type TaintPolicy interface {
	// InputPolicy decides whether the named input is tainted.
	InputPolicy(inputName string) bool
	// GotoCheck reports whether v is safe to use as a jump target.
	GotoCheck(v ir.Value) bool
	// TaintedAddress decides the address-taint bit to store alongside
	// a Store of stored at addr.
	TaintedAddress(addr, stored ir.Value) bool
}

// TaintCheckHandler is the effect-producing counterpart of a policy:
// invoked when a policy check fails.
type TaintCheckHandler interface {
	HandleGoto(pc word.Word, instr ir.Instr) error
}

// DefaultTaintPolicy taints every input, rejects a tainted Goto
// target, and records only the address's own taint as the address-
// taint bit — spec.md §4.5's default. Set Strict to use the
// alternate, equally defensible rule (address OR stored value
// tainted) that spec.md §9 Open Question 5 calls out.
type DefaultTaintPolicy struct {
	Strict bool
}

func NewDefaultTaintPolicy() DefaultTaintPolicy {
	return DefaultTaintPolicy{}
}

// NewStrictTaintedAddressPolicy returns a policy identical to the
// default except TaintedAddress also considers the stored value's
// taint, not just the address's.
func NewStrictTaintedAddressPolicy() DefaultTaintPolicy {
	return DefaultTaintPolicy{Strict: true}
}

func (DefaultTaintPolicy) InputPolicy(string) bool {
	return true
}

func (DefaultTaintPolicy) GotoCheck(v ir.Value) bool {
	return !v.Tainted
}

func (p DefaultTaintPolicy) TaintedAddress(addr, stored ir.Value) bool {
	if p.Strict {
		return addr.Tainted || stored.Tainted
	}
	return addr.Tainted
}

// DefaultTaintCheckHandler raises an AttackError on the first tainted
// Goto target — the one error class routine callers are expected to
// catch.
type DefaultTaintCheckHandler struct{}

func (DefaultTaintCheckHandler) HandleGoto(pc word.Word, instr ir.Instr) error {
	return &AttackError{PC: pc, Instr: instr}
}

// SilentTaintCheckHandler never raises; useful for callers that want
// to inspect a tainted-goto event some other way (e.g. a counter)
// without aborting the run. It satisfies TaintCheckHandler trivially.
type SilentTaintCheckHandler struct{}

func (SilentTaintCheckHandler) HandleGoto(word.Word, ir.Instr) error {
	return nil
}
