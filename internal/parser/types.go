package parser

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/lexer"
)

func (p *Parser) parsePointerType() ast.Expression {
	tok := p.curToken
	p.nextToken()
	pointee := p.parseExpression(PREFIX)
	return ast.NewPointerType(tok.Pos, pointee)
}

func (p *Parser) parseOptionalType() ast.Expression {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(PREFIX)
	return ast.NewOptionalType(tok.Pos, inner)
}

// parseArrayTypeOrView handles `[N]T` and the borrowed-view spelling
// `[_]T`, distinguished by the identifier "_" standing alone before the
// closing bracket.
func (p *Parser) parseArrayTypeOrView() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(lexer.IDENT) && p.peekToken.Literal == "_" {
		p.nextToken() // "_"
		p.expectPeek(lexer.RBRACK)
		p.nextToken()
		elem := p.parseExpression(PREFIX)
		return ast.NewArrayViewType(tok.Pos, elem)
	}
	p.nextToken()
	length := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACK)
	p.nextToken()
	elem := p.parseExpression(PREFIX)
	return ast.NewArrayType(tok.Pos, length, elem)
}

// parseParams parses a `(name: Type, static name: Type, name: Type*)`
// list; curToken is LPAREN on entry, RPAREN on exit. A trailing `*`
// after a parameter's type marks it variadic.
func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParam())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Param {
	static := false
	if p.curTokenIs(lexer.STATIC) {
		static = true
		p.nextToken()
	}
	name := p.curToken.Literal

	var typ ast.Expression
	variadic := false
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseExpression(LOWEST)
		if p.peekTokenIs(lexer.ASTERISK) {
			p.nextToken()
			variadic = true
		}
	}
	return ast.Param{Name: name, Type: typ, Static: static, Variadic: variadic}
}

// parseFunctionLiteralOrType parses `fn(params) [-> Ret]`; if a `{`
// follows, it's a function literal with a body, otherwise a bare
// function-type expression.
func (p *Parser) parseFunctionLiteralOrType() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params := p.parseParams()

	var ret ast.Expression
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseExpression(LOWEST)
	}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		body := p.parseBlock()
		return ast.NewFunction(tok.Pos, params, ret, body)
	}
	return ast.NewFunctionType(tok.Pos, params, ret)
}

// parseStructType parses `struct { field: T; ...; fn OP(...) -> Ret { body } }`.
func (p *Parser) parseStructType() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return ast.NewStructType(tok.Pos, nil, nil)
	}
	var fields []ast.Field
	var overloads []*ast.OperatorOverloadDecl

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		switch {
		case p.curTokenIs(lexer.FN):
			overloads = append(overloads, p.parseOperatorOverload())
		case p.curTokenIs(lexer.IDENT):
			name := p.curToken.Literal
			if !p.expectPeek(lexer.COLON) {
				break
			}
			p.nextToken()
			typ := p.parseExpression(LOWEST)
			fields = append(fields, ast.Field{Name: name, Type: typ})
		default:
			p.addErrorf(p.curToken.Pos, "unexpected token '%s' in struct body", p.curToken.Type)
		}
		if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewStructType(tok.Pos, fields, overloads)
}

// parseOperatorOverload parses `fn OP(params) -> Ret { body }`; on entry
// the current token is the leading `fn`.
func (p *Parser) parseOperatorOverload() *ast.OperatorOverloadDecl {
	tok := p.curToken
	if !p.curTokenIs(lexer.FN) {
		p.addErrorf(tok.Pos, "expected 'fn' to start an operator overload")
	}
	// Next token names the operator symbol: a single operator token, an
	// IDENT for a free-form method name, or `[` `]` for the index operator.
	p.nextToken()
	op := p.curToken.Literal
	if p.curTokenIs(lexer.LBRACK) && p.peekTokenIs(lexer.RBRACK) {
		p.nextToken()
		op = "[]"
	}

	if !p.expectPeek(lexer.LPAREN) {
		return ast.NewOperatorOverloadDecl(tok.Pos, op, nil, nil, nil)
	}
	params := p.parseParams()

	var ret ast.Expression
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseExpression(PREFIX)
	}

	var body ast.Expression
	if p.expectPeek(lexer.LBRACE) {
		body = p.parseBlock()
	}
	return ast.NewOperatorOverloadDecl(tok.Pos, op, params, ret, body)
}

func (p *Parser) parseEnumType() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return ast.NewEnumType(tok.Pos, nil)
	}
	var items []string
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		if p.curTokenIs(lexer.IDENT) {
			items = append(items, p.curToken.Literal)
		}
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewEnumType(tok.Pos, items)
}

func (p *Parser) parseUnionType() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return ast.NewUnionType(tok.Pos, nil)
	}
	var items []ast.Expression
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		items = append(items, p.parseExpression(LOWEST))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewUnionType(tok.Pos, items)
}

func (p *Parser) parseTaggedUnionType() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return ast.NewTaggedUnionType(tok.Pos, nil)
	}
	var items []ast.Field
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			p.addErrorf(p.curToken.Pos, "expected tagged-union item name, got '%s'", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		typ := p.parseExpression(LOWEST)
		items = append(items, ast.Field{Name: name, Type: typ})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewTaggedUnionType(tok.Pos, items)
}
