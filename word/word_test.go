package word_test

import (
	"testing"

	"github.com/dcrain/concolic/word"
	"github.com/stretchr/testify/assert"
)

func TestWordWraps(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		a, b word.Word
		want word.Word
		op   func(a, b word.Word) word.Word
	}{
		{"add wraps at 2^32", word.Word(1<<32 - 1), word.New(1), word.New(0), word.Word.Add},
		{"add no overflow", word.New(10), word.New(20), word.New(30), word.Word.Add},
		{"mul wraps at 2^32", word.Word(1 << 31), word.New(2), word.New(0), word.Word.Mul},
		{"sub wraps under zero", word.New(0), word.New(1), word.Word(1<<32 - 1), word.Word.Sub},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(test.want, test.op(test.a, test.b))
		})
	}
}

func TestWordComparisons(t *testing.T) {
	assert := assert.New(t)

	assert.True(word.New(5).Eq(word.New(5)))
	assert.False(word.New(5).Eq(word.New(6)))
	assert.True(word.New(6).Gt(word.New(5)))
	assert.False(word.New(5).Gt(word.New(5)))
}

func TestWordAligned(t *testing.T) {
	assert := assert.New(t)

	assert.True(word.New(0).Aligned())
	assert.True(word.New(32).Aligned())
	assert.True(word.New(4096).Aligned())
	assert.False(word.New(31).Aligned())
	assert.False(word.New(33).Aligned())
}

func TestWordBool(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(word.New(1), word.Bool(true))
	assert.Equal(word.New(0), word.Bool(false))
}

func TestWordDivMod(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(word.New(3), word.New(10).Div(word.New(3)))
	assert.Equal(word.New(1), word.New(10).Mod(word.New(3)))
}
