package vmcontext

import (
	"errors"
	"fmt"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/word"
)

// Sentinel errors for the fatal kinds in spec.md §7. Every wrapped
// error below can be matched with errors.Is against one of these;
// ErrAttack is the sole error callers are expected to handle
// routinely rather than treat as a bug.
var (
	ErrUnboundVariable    = errors.New("vmcontext: unbound variable")
	ErrNoRuleFor          = errors.New("vmcontext: no dispatch rule for instruction")
	ErrNotImplemented     = errors.New("vmcontext: expression variant not implemented")
	ErrInvalidIfCondition = errors.New("vmcontext: if condition is not 0 or 1")
	ErrInputExhausted     = errors.New("vmcontext: input source exhausted")
	ErrAttack             = errors.New("vmcontext: tainted branch target, probable attack")
)

func newUnboundVariableError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnboundVariable, name)
}

// NoRuleForError wraps ErrNoRuleFor with the offending instruction's
// concrete Go type — a programmer error, since every ir.Instr variant
// must have a dispatch rule.
func NoRuleForError(instr ir.Instr) error {
	return fmt.Errorf("%w: %T", ErrNoRuleFor, instr)
}

// NotImplementedError wraps ErrNotImplemented, naming the expression
// variant (or condition) the evaluator doesn't know how to handle.
func NotImplementedError(detail string) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, detail)
}

// InvalidIfConditionError wraps ErrInvalidIfCondition with the
// offending word — an If condition must evaluate to 0 or 1.
func InvalidIfConditionError(v word.Word) error {
	return fmt.Errorf("%w: got %s", ErrInvalidIfCondition, v)
}

// InputExhaustedError wraps ErrInputExhausted, naming the input the
// empty source was asked for.
func InputExhaustedError(inputName string) error {
	return fmt.Errorf("%w: input %q", ErrInputExhausted, inputName)
}

// AttackError is the concrete error DefaultTaintCheckHandler raises:
// a tainted value reached a Goto target.
type AttackError struct {
	PC    word.Word
	Instr ir.Instr
}

func (e *AttackError) Error() string {
	return fmt.Sprintf("probable attack detected, instruction %s at pc %s", e.Instr, e.PC)
}

func (e *AttackError) Unwrap() error {
	return ErrAttack
}
