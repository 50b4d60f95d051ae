package asm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dcrain/concolic/ir"
	"github.com/dcrain/concolic/vmcontext"
	"github.com/dcrain/concolic/word"
)

// ErrSyntax is the sentinel every parse failure wraps.
var ErrSyntax = errors.New("asm: syntax error")

// Parser turns assembler source into an ir.Program, one instruction
// per non-blank, non-comment line.
type Parser struct {
	lex     *Lexer
	tok     Token
	sources map[string]ir.InputSource
}

// NewParser builds a Parser. sources supplies the InputSource a
// get_input(name) expression binds to; a name absent from sources
// resolves to an always-exhausted queue rather than a parse error,
// since an unused input is harmless until actually consumed.
func NewParser(input string, sources map[string]ir.InputSource) *Parser {
	p := &Parser{lex: NewLexer(input), sources: sources}
	p.advance()
	return p
}

// Parse is the one-shot convenience entry point.
func Parse(input string, sources map[string]ir.InputSource) (*vmcontext.Program, error) {
	return NewParser(input, sources).ParseProgram()
}

func (p *Parser) advance() {
	p.tok = p.lex.NextToken()
}

func (p *Parser) syntaxErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.tok.LineNum, fmt.Sprintf(format, args...))
}

// ParseProgram parses every instruction line in the source, in order;
// line order is PC order, matching spec.md's flat instruction array.
func (p *Parser) ParseProgram() (*vmcontext.Program, error) {
	var instrs []ir.Instr
	for {
		for p.tok.Type == EOL {
			p.advance()
		}
		if p.tok.Type == EOF {
			break
		}
		instr, err := p.parseInstr()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
		if p.tok.Type != EOL && p.tok.Type != EOF {
			return nil, p.syntaxErrorf("expected end of line, found %q", p.tok.Value)
		}
	}
	return vmcontext.NewProgram(instrs), nil
}

func (p *Parser) parseInstr() (ir.Instr, error) {
	if p.tok.Type != IDENT {
		return nil, p.syntaxErrorf("expected an instruction, found %q", p.tok.Value)
	}

	switch p.tok.Value {
	case "goto":
		p.advance()
		target, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ir.NewGoto(target), nil

	case "if":
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectIdent("then"); err != nil {
			return nil, err
		}
		if err := p.expectIdent("goto"); err != nil {
			return nil, err
		}
		thenExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectIdent("else"); err != nil {
			return nil, err
		}
		if err := p.expectIdent("goto"); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ir.NewIf(cond, thenExpr, elseExpr), nil

	case "store":
		p.advance()
		if err := p.expect(LPAREN); err != nil {
			return nil, err
		}
		addr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		if err := p.expect(COLONEQ); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		store, err := ir.NewStore(addr, value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.tok.LineNum, err)
		}
		return store, nil

	default:
		name := p.tok.Value
		p.advance()
		if err := p.expect(COLONEQ); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ir.NewAssign(name, expr), nil
	}
}

// parseExpr parses a primary, optionally followed by one binary
// operator and a second primary — matching the flat, non-nested shape
// ir.BinOp.String() always produces: "(left) op (right)".
func (p *Parser) parseExpr() (ir.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	kind, ok := binOpKind(p.tok)
	if !ok {
		return left, nil
	}
	p.advance()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return ir.NewBinOp(kind, left, right), nil
}

func binOpKind(tok Token) (ir.BinOpKind, bool) {
	switch tok.Type {
	case PLUS:
		return ir.Add, true
	case STAR:
		return ir.Mul, true
	case MINUS:
		return ir.Sub, true
	case EQEQ:
		return ir.Eq, true
	case GT:
		return ir.Gt, true
	default:
		return 0, false
	}
}

func (p *Parser) parsePrimary() (ir.Expr, error) {
	switch p.tok.Type {
	case NUMBER:
		w, err := parseWordLiteral(p.tok.Value)
		if err != nil {
			return nil, p.syntaxErrorf("%s", err)
		}
		p.advance()
		return ir.Literal(w), nil

	case LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case IDENT:
		switch p.tok.Value {
		case "get_input":
			return p.parseGetInput()
		case "load":
			return p.parseLoad()
		default:
			name := p.tok.Value
			p.advance()
			return ir.NewVar(name), nil
		}

	default:
		return nil, p.syntaxErrorf("expected an expression, found %q", p.tok.Value)
	}
}

func (p *Parser) parseGetInput() (ir.Expr, error) {
	p.advance() // consume "get_input"
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	name := ""
	if p.tok.Type == IDENT {
		name = p.tok.Value
		p.advance()
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	input := ir.NewGetInput(nil, name)
	src, ok := p.sources[input.InputName]
	if !ok {
		src = ir.NewInputQueue()
	}
	input.Source = src
	return input, nil
}

func (p *Parser) parseLoad() (ir.Expr, error) {
	p.advance() // consume "load"
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	addr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	load, err := ir.NewLoad(addr)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", p.tok.LineNum, err)
	}
	return load, nil
}

func (p *Parser) expect(tt TokenType) error {
	if p.tok.Type != tt {
		return p.syntaxErrorf("unexpected token %q", p.tok.Value)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent(value string) error {
	if p.tok.Type != IDENT || p.tok.Value != value {
		return p.syntaxErrorf("expected %q, found %q", value, p.tok.Value)
	}
	p.advance()
	return nil
}

func parseWordLiteral(s string) (word.Word, error) {
	if len(s) > 0 && s[0] == '$' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex literal %q: %w", s, err)
		}
		return word.New(int(v)), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid literal %q: %w", s, err)
	}
	return word.New(int(v)), nil
}
