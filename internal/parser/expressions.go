package parser

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/lexer"
)

func (p *Parser) parseIdentifierOrInternal() ast.Expression {
	tok := p.curToken
	if ast.IntrinsicNames[tok.Literal] {
		return ast.NewInternal(tok.Pos, tok.Literal)
	}
	return ast.NewIdentifier(tok.Pos, tok.Literal)
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.curToken
	return ast.NewNumber(tok.Pos, tok.Literal, tok.Type == lexer.FLOAT)
}

func (p *Parser) parseStringLit() ast.Expression {
	tok := p.curToken
	return ast.NewString(tok.Pos, tok.Literal)
}

func (p *Parser) parseCharacter() ast.Expression {
	tok := p.curToken
	return ast.NewCharacter(tok.Pos, tok.Literal)
}

func (p *Parser) parseBoolean() ast.Expression {
	tok := p.curToken
	return ast.NewBoolean(tok.Pos, tok.Type == lexer.TRUE)
}

func (p *Parser) parseNull() ast.Expression {
	return ast.NewNull(p.curToken.Pos)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return expr
	}
	return expr
}

// parseUnary handles `-x`, `!x`, `~x`: binds tighter than any binary
// operator.
func (p *Parser) parseUnary() ast.Expression {
	tok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return ast.NewUnary(tok.Pos, tok.Type, tok.Literal, operand)
}

func (p *Parser) parseReference() ast.Expression {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(PREFIX)
	return ast.NewReference(tok.Pos, value)
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return ast.NewBinaryOp(tok.Pos, tok.Type, tok.Literal, left, right)
}

// parseResultType reads the infix `!` as the result-type combinator
// `Ok ! Err`, distinguished from the unary not-operator by parse
// position (infix position only, spec leaves concrete syntax open).
func (p *Parser) parseResultType(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(RESULT)
	return ast.NewResultType(tok.Pos, left, right)
}

func (p *Parser) parseRange(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(RANGEPREC)
	return ast.NewRange(tok.Pos, left, right)
}

func (p *Parser) parseIs(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	tag := p.parseExpression(IS)
	if in, ok := tag.(*ast.Internal); ok && (in.Name == "ok" || in.Name == "err") {
		tag = ast.NewIdentifier(in.Pos(), in.Name)
	}
	return ast.NewIs(tok.Pos, left, tag)
}

func (p *Parser) parseCallArgs(callee ast.Expression) ast.Expression {
	tok := p.curToken
	args := p.parseExpressionList(lexer.RPAREN)
	return ast.NewCall(tok.Pos, callee, args)
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

// parseIndexOrSlice disambiguates `a[i]` from `a[lo..hi]` by checking
// whether the parsed index expression is itself a Range.
func (p *Parser) parseIndexOrSlice(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpression(LOWEST)
	p.expectPeek(lexer.RBRACK)
	if rng, ok := index.(*ast.Range); ok {
		return ast.NewSlice(tok.Pos, left, rng.Low, rng.High)
	}
	return ast.NewArrayAccess(tok.Pos, left, index)
}

// parseDotSuffix handles `value.name` and `value.method(args)`, the
// latter recognized by a following `(`.
func (p *Parser) parseDotSuffix(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return left
	}
	name := p.curToken.Literal
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		return ast.NewCallMethod(tok.Pos, left, name, args)
	}
	return ast.NewStructureAccess(tok.Pos, left, name)
}

func (p *Parser) parseDeoptional(left ast.Expression) ast.Expression {
	return ast.NewDeoptional(p.curToken.Pos, left)
}

func (p *Parser) parseDereference(left ast.Expression) ast.Expression {
	return ast.NewDereference(p.curToken.Pos, left)
}

// parseCastExpr is `cast Type Value`, a prefix keyword form.
func (p *Parser) parseCastExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	typ := p.parseExpression(PREFIX)
	p.nextToken()
	value := p.parseExpression(PREFIX)
	return ast.NewCast(tok.Pos, typ, value)
}

// parseStructureLiteral is `.{ ... }` with the type left for wanted_type
// to supply.
func (p *Parser) parseStructureLiteral() ast.Expression {
	tok := p.curToken
	fields := p.parseStructureFieldInits()
	return ast.NewStructure(tok.Pos, nil, fields)
}

// parseTypedStructureLiteral is `Type.{ ... }`, entered as an infix
// continuation of a parsed type expression.
func (p *Parser) parseTypedStructureLiteral(typ ast.Expression) ast.Expression {
	tok := p.curToken
	fields := p.parseStructureFieldInits()
	return ast.NewStructure(tok.Pos, typ, fields)
}

// parseStructureFieldInits parses the `name: value, value, ...` body of
// a `.{ ... }` literal; curToken is DOT_LBRACE on entry, RBRACE on exit.
func (p *Parser) parseStructureFieldInits() []ast.StructureFieldInit {
	var fields []ast.StructureFieldInit
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return fields
	}
	p.nextToken()
	fields = append(fields, p.parseStructureFieldInit())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if p.peekTokenIs(lexer.RBRACE) {
			break
		}
		p.nextToken()
		fields = append(fields, p.parseStructureFieldInit())
	}
	p.expectPeek(lexer.RBRACE)
	return fields
}

func (p *Parser) parseStructureFieldInit() ast.StructureFieldInit {
	if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.COLON) {
		name := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		return ast.StructureFieldInit{Name: name, Value: p.parseExpression(LOWEST)}
	}
	return ast.StructureFieldInit{Value: p.parseExpression(LOWEST)}
}

// parseStaticPrefixed handles `static` as a modifier preceding if/for/
// switch in expression position, and as a local static-variable
// declaration otherwise (spec §4.4.7's static control-flow variants).
func (p *Parser) parseStaticPrefixed() ast.Expression {
	switch p.peekToken.Type {
	case lexer.IF:
		p.nextToken()
		return p.parseIfExprStatic(true)
	case lexer.FOR:
		p.nextToken()
		return p.parseForExprStatic(true)
	case lexer.SWITCH:
		p.nextToken()
		return p.parseSwitchExprStatic(true)
	}
	p.addErrorf(p.curToken.Pos, "unexpected token '%s'", p.curToken.Type)
	return nil
}

func (p *Parser) parseBlockExpr() ast.Expression {
	return p.parseBlock()
}
