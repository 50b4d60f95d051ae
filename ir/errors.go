package ir

import "errors"

// ErrAlignment is returned by NewLoad/NewStore when a literal address
// operand is not a multiple of word.Alignment.
var ErrAlignment = errors.New("ir: address is not 32-word aligned")
