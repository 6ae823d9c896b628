// Package parser implements OpenSDraw's recursive-descent reader: it
// turns a lexer.Token stream into the ast.Node tree spec.md section
// 4.1 describes — a file is a sequence of forms wrapped in an
// implicit top-level expression, a form is a constant, a symbol, or a
// parenthesized sequence of forms.
//
// Grounded on sentra/internal/parser/parser.go's Parser struct and
// error-accumulation shape, restructured for the (trivially simple,
// by comparison) S-expression grammar.
package parser

import (
	"strconv"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/lexer"
)

// Parser reads a token stream into an AST.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	file    string
}

// NewParser prepares a Parser over tokens from file.
func NewParser(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse reads every top-level form and wraps them in an implicit
// expression node whose value is the value of the last form (spec.md
// section 4.1). Returns the first syntax error encountered, if any.
func (p *Parser) Parse() (*ast.Expression, error) {
	top := ast.NewExpression(ast.Position{File: p.file, Line: p.peek().Line}, nil)
	var children []ast.Node
	for !p.check(lexer.TokenEOF) {
		if p.check(lexer.TokenRParen) {
			return nil, p.errorf("unmatched ')'")
		}
		form, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		children = append(children, form)
	}
	top.Children = children
	return top, nil
}

func (p *Parser) parseForm() (ast.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenLParen:
		return p.parseExpression()
	case lexer.TokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorfAt(tok.Line, "malformed number literal %q", tok.Lexeme)
		}
		return ast.NewConstant(p.position(tok), ast.NumberLit(f)), nil
	case lexer.TokenString:
		p.advance()
		return ast.NewConstant(p.position(tok), ast.StringLit(tok.Lexeme)), nil
	case lexer.TokenSymbol:
		p.advance()
		keyword := len(tok.Lexeme) > 0 && tok.Lexeme[0] == ':'
		name := tok.Lexeme
		if keyword {
			name = name[1:]
		}
		return ast.NewSymbol(p.position(tok), name, keyword), nil
	case lexer.TokenRParen:
		return nil, p.errorf("unexpected ')'")
	default:
		return nil, p.errorf("unexpected end of input")
	}
}

func (p *Parser) parseExpression() (ast.Node, error) {
	open := p.advance() // consume '('
	var children []ast.Node
	for {
		if p.check(lexer.TokenEOF) {
			return nil, p.errorfAt(open.Line, "unclosed '(' started here")
		}
		if p.check(lexer.TokenRParen) {
			p.advance()
			break
		}
		child, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return ast.NewExpression(p.position(open), children), nil
}

func (p *Parser) position(tok lexer.Token) ast.Position {
	return ast.Position{File: p.file, Line: tok.Line}
}

func (p *Parser) peek() lexer.Token { return p.tokens[p.pos] }

func (p *Parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) errorf(format string, args ...interface{}) error {
	return p.errorfAt(p.peek().Line, format, args...)
}

func (p *Parser) errorfAt(line int, format string, args ...interface{}) error {
	return lcaderr.New(lcaderr.SyntaxError, lcaderr.Location{File: p.file, Line: line}, format, args...)
}

// Parse is a convenience entry point: scan source, parse tokens,
// return the first error from either stage.
func Parse(source, file string) (*ast.Expression, error) {
	sc := lexer.NewScanner(source, file)
	tokens, errs := sc.ScanTokens()
	if len(errs) > 0 {
		return nil, lcaderr.New(lcaderr.SyntaxError, lcaderr.Location{File: file}, "%v", errs[0])
	}
	return NewParser(tokens, file).Parse()
}
