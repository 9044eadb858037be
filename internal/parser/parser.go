// Package parser implements a recursive-descent, Pratt-style parser
// producing the internal/ast node set. It never halts on error: a
// malformed construct is recorded as a diagnostic and parsing resumes at
// the next statement boundary, unlike the elaborator's fatal-on-first
// policy (spec §4.2).
package parser

import (
	"os"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	LOWEST int = iota
	RESULT        // A ! E
	OR            // or
	AND           // and
	EQUALS        // == !=
	COMPARE       // < > <= >=
	IS            // is
	COALESCE      // ??
	RANGEPREC     // ..
	ADDITIVE      // + -
	MULTIPLICATIVE // * / %
	PREFIX        // -x !x &x ^x ~x
	POSTFIX       // call(...) a[i] a.b a.? a.*
)

var precedences = map[lexer.TokenType]int{
	lexer.BANG:              RESULT,
	lexer.OR:                OR,
	lexer.AND:               AND,
	lexer.EQ:                EQUALS,
	lexer.NOT_EQ:            EQUALS,
	lexer.LESS:              COMPARE,
	lexer.GREATER:           COMPARE,
	lexer.LESS_EQ:           COMPARE,
	lexer.GREATER_EQ:        COMPARE,
	lexer.IS:                IS,
	lexer.QUESTION_QUESTION: COALESCE,
	lexer.DOT_DOT:           RANGEPREC,
	lexer.PLUS:              ADDITIVE,
	lexer.MINUS:             ADDITIVE,
	lexer.ASTERISK:          MULTIPLICATIVE,
	lexer.SLASH:             MULTIPLICATIVE,
	lexer.PERCENT:           MULTIPLICATIVE,
	lexer.LPAREN:            POSTFIX,
	lexer.LBRACK:            POSTFIX,
	lexer.DOT:               POSTFIX,
	lexer.DOT_QUEST:         POSTFIX,
	lexer.DOT_STAR:          POSTFIX,
	lexer.DOT_LBRACE:        POSTFIX,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser holds a one-token-lookahead cursor over the lexer (curToken,
// peekToken) plus the prefix/infix dispatch tables.
type Parser struct {
	l      *lexer.Lexer
	source string
	path   string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []*errors.Diagnostic

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New builds a Parser over l, priming curToken/peekToken.
func New(l *lexer.Lexer, source, path string) *Parser {
	p := &Parser{l: l, source: source, path: path}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:        p.parseIdentifierOrInternal,
		lexer.INT:          p.parseNumber,
		lexer.FLOAT:        p.parseNumber,
		lexer.STRING:       p.parseStringLit,
		lexer.CHAR:         p.parseCharacter,
		lexer.TRUE:         p.parseBoolean,
		lexer.FALSE:        p.parseBoolean,
		lexer.NULL:         p.parseNull,
		lexer.LPAREN:       p.parseGroupedExpression,
		lexer.MINUS:        p.parseUnary,
		lexer.BANG:         p.parseUnary,
		lexer.TILDE:        p.parseUnary,
		lexer.AMP:          p.parseReference,
		lexer.CARET:        p.parsePointerType,
		lexer.QUESTION:     p.parseOptionalType,
		lexer.LBRACK:       p.parseArrayTypeOrView,
		lexer.STRUCT:       p.parseStructType,
		lexer.ENUM:         p.parseEnumType,
		lexer.UNION:        p.parseUnionType,
		lexer.TAGGED_UNION: p.parseTaggedUnionType,
		lexer.FN:           p.parseFunctionLiteralOrType,
		lexer.RUN:          p.parseRunExpr,
		lexer.IF:           p.parseIfExpr,
		lexer.WHILE:        p.parseWhileExpr,
		lexer.FOR:          p.parseForExpr,
		lexer.SWITCH:       p.parseSwitchExpr,
		lexer.CATCH:        p.parseCatchExpr,
		lexer.CAST:         p.parseCastExpr,
		lexer.STATIC:       p.parseStaticPrefixed,
		lexer.DOT_LBRACE:   p.parseStructureLiteral,
		lexer.LBRACE:       p.parseBlockExpr,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:              p.parseBinary,
		lexer.MINUS:             p.parseBinary,
		lexer.ASTERISK:          p.parseBinary,
		lexer.SLASH:             p.parseBinary,
		lexer.PERCENT:           p.parseBinary,
		lexer.EQ:                p.parseBinary,
		lexer.NOT_EQ:            p.parseBinary,
		lexer.LESS:              p.parseBinary,
		lexer.GREATER:           p.parseBinary,
		lexer.LESS_EQ:           p.parseBinary,
		lexer.GREATER_EQ:        p.parseBinary,
		lexer.AND:               p.parseBinary,
		lexer.OR:                p.parseBinary,
		lexer.QUESTION_QUESTION: p.parseBinary,
		lexer.BANG:              p.parseResultType,
		lexer.DOT_DOT:           p.parseRange,
		lexer.IS:                p.parseIs,
		lexer.LPAREN:            p.parseCallArgs,
		lexer.LBRACK:            p.parseIndexOrSlice,
		lexer.DOT:               p.parseDotSuffix,
		lexer.DOT_QUEST:         p.parseDeoptional,
		lexer.DOT_STAR:          p.parseDereference,
		lexer.DOT_LBRACE:        p.parseTypedStructureLiteral,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// ParseSource parses a complete module from source text.
func ParseSource(source, path string) (*ast.Module, []*errors.Diagnostic) {
	p := New(lexer.New(source, path), source, path)
	return p.ParseModule(), p.errors
}

// ParseFile reads path off disk and parses it as a complete module,
// the entry point the driver and `import(path)` use for on-disk
// sources (spec §4.2). It returns the raw source text alongside the
// module so the caller doesn't need a second os.ReadFile just to keep
// the text around for diagnostics.
func ParseFile(path string) (source string, mod *ast.Module, diags []*errors.Diagnostic, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, err
	}
	source = string(data)
	mod, diags = ParseSource(source, path)
	return source, mod, diags, nil
}

// ParseExpression parses source as a single standalone expression
// rather than a full module — the entry point `embed` (spec §4.4.8)
// re-enters the parser through, once it has concatenated its
// compile-time byte arguments into source text.
func ParseExpression(source, path string) (ast.Expression, []*errors.Diagnostic) {
	p := New(lexer.New(source, path), source, path)
	expr := p.parseExpression(LOWEST)
	return expr, p.errors
}

// Errors returns every diagnostic accumulated so far.
func (p *Parser) Errors() []*errors.Diagnostic { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.Next()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// expectPeek advances and returns true when peekToken matches t,
// otherwise records a diagnostic and leaves the cursor in place.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(want lexer.TokenType) {
	p.addErrorf(p.peekToken.Pos, "unexpected token '%s', expected '%s'", p.peekToken.Type, want)
}

func (p *Parser) addErrorf(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, errors.New(errors.KindParse, pos, p.source, format, args...))
}

func (p *Parser) noPrefixParseFnError(t lexer.Token) {
	p.addErrorf(t.Pos, "unexpected token '%s'", t.Type)
}

// synchronize skips tokens until a statement boundary, so one malformed
// top-level statement doesn't cascade into spurious errors for the rest
// of the file.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			return
		}
		switch p.peekToken.Type {
		case lexer.DEFINE, lexer.VAR, lexer.GLOBAL, lexer.RUN, lexer.EOF:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ParseModule parses a whole file into its Module node.
func (p *Parser) ParseModule() *ast.Module {
	pos := p.curToken.Pos
	var stmts []ast.Statement
	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseTopLevelStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return ast.NewModule(pos, p.path, stmts)
}

func (p *Parser) parseTopLevelStatement() ast.Statement {
	before := p.curToken
	stmt := p.parseStatement()
	if stmt == nil && p.curToken == before {
		p.noPrefixParseFnError(p.curToken)
		p.synchronize()
	}
	return stmt
}

// parseExpression is the Pratt core: parse a prefix expression, then
// repeatedly fold in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && minPrec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}
