package ir_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsMisalignedLiteral(t *testing.T) {
	_, err := ir.NewLoad(ir.Literal(word.New(33)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrAlignment))
}

func TestLoadAcceptsAlignedLiteral(t *testing.T) {
	l, err := ir.NewLoad(ir.Literal(word.New(4096)))
	require.NoError(t, err)
	assert.Equal(t, word.New(4096), l.Addr.(ir.ValueExpr).Value.Word)
}

func TestLoadDoesNotCheckRuntimeAddress(t *testing.T) {
	_, err := ir.NewLoad(ir.NewVar("ptr"))
	require.NoError(t, err)
}

func TestStoreRejectsMisalignedLiteral(t *testing.T) {
	_, err := ir.NewStore(ir.Literal(word.New(1)), ir.Literal(word.New(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ir.ErrAlignment))
}

func TestPrettyPrinting(t *testing.T) {
	tests := []struct {
		name string
		node fmt.Stringer
		want string
	}{
		{"assign", ir.NewAssign("foo", ir.Literal(word.New(10))), "foo := 10"},
		{
			"binop",
			ir.NewBinOp(ir.Add, ir.Literal(word.New(1)), ir.Literal(word.New(2))),
			"(1) + (2)",
		},
		{
			"if",
			ir.NewIf(ir.Literal(word.New(1)), ir.Literal(word.New(2)), ir.Literal(word.New(3))),
			"if 1 then goto 2 else goto 3",
		},
		{"goto", ir.NewGoto(ir.Literal(word.New(5))), "goto 5"},
		{"var", ir.NewVar("blah"), "blah"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.node.String())
		})
	}
}
