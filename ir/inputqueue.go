package ir

import "github.com/dcrain/concolic/word"

// InputQueue is a FIFO InputSource backed by a slice, mirroring
// original_source's plain list passed to GetInput (source.pop(0)).
type InputQueue struct {
	words []word.Word
}

// NewInputQueue builds a queue that yields ws in order.
func NewInputQueue(ws ...word.Word) *InputQueue {
	q := &InputQueue{words: make([]word.Word, len(ws))}
	copy(q.words, ws)
	return q
}

func (q *InputQueue) PopFront() (word.Word, bool) {
	if len(q.words) == 0 {
		return word.Word(0), false
	}
	w := q.words[0]
	q.words = q.words[1:]
	return w, true
}

// Len reports how many words remain unconsumed.
func (q *InputQueue) Len() int {
	return len(q.words)
}
