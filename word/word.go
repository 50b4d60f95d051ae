// Package word implements the 32-bit modular integer the IR does all
// its arithmetic in.
package word

import "fmt"

// Alignment is the word-stride the IR enforces on memory operands.
const Alignment = 32

// Word is a 32-bit unsigned integer. All arithmetic wraps modulo 2^32
// — Go's native uint32 overflow behavior gives this for free.
type Word uint32

// New builds a Word from a plain int, truncating to 32 bits.
func New(v int) Word {
	return Word(uint32(v))
}

func (w Word) Uint32() uint32 {
	return uint32(w)
}

func (w Word) Add(o Word) Word {
	return w + o
}

func (w Word) Sub(o Word) Word {
	return w - o
}

func (w Word) Mul(o Word) Word {
	return w * o
}

// Div truncates toward zero, as unsigned integer division does.
func (w Word) Div(o Word) Word {
	return w / o
}

func (w Word) Mod(o Word) Word {
	return w % o
}

func (w Word) Eq(o Word) bool {
	return w == o
}

func (w Word) Gt(o Word) bool {
	return w > o
}

// Aligned reports whether w is a multiple of Alignment.
func (w Word) Aligned() bool {
	return w%Alignment == 0
}

// Bool converts a 0/1 comparison result into a Word, as BinOp(Eq/Gt, ...)
// results are represented in the IR.
func Bool(b bool) Word {
	if b {
		return 1
	}
	return 0
}

func (w Word) String() string {
	return fmt.Sprintf("%d", uint32(w))
}
