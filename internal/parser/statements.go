package parser

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/lexer"
)

// parseStatement dispatches on the leading keyword; anything else is
// parsed as an expression statement (which also covers bare if/while/
// for/switch/catch/run used for effect, and `target = value` assignment).
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.DEFINE:
		return p.parseDefineStatement()
	case lexer.VAR:
		return p.parseVariableStatement(false)
	case lexer.GLOBAL:
		return p.parseGlobalStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.DEFER:
		return p.parseDeferStatement()
	case lexer.STATIC:
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseVariableStatement(true)
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses `{ stmt; ...; [tailExpr] }`; curToken is LBRACE on
// entry, RBRACE on exit. A trailing expression statement with no
// semicolon before the closing brace becomes the block's result.
func (p *Parser) parseBlock() *ast.Block {
	tok := p.curToken
	var stmts []ast.Statement
	hasResult := false

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		p.nextToken()
		hasResult = false
		stmt := p.parseStatement()
		if stmt == nil {
			continue
		}
		stmts = append(stmts, stmt)
		if _, ok := stmt.(*ast.ExprStatement); ok && p.peekTokenIs(lexer.RBRACE) {
			hasResult = true
		}
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewBlock(tok.Pos, stmts, hasResult)
}

// parseExpressionStatement parses a bare expression statement or, when
// followed by `=`, an Assignment.
func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return ast.NewAssignment(tok.Pos, expr, value)
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewExprStatement(tok.Pos, expr)
}

func (p *Parser) parseVariableStatement(isStatic bool) ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	var typ ast.Expression
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseExpression(LOWEST)
	}
	var value ast.Expression
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewVariable(tok.Pos, name, typ, value, isStatic)
}

func (p *Parser) parseGlobalStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	var typ ast.Expression
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typ = p.parseExpression(LOWEST)
	}
	var value ast.Expression
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewGlobal(tok.Pos, name, typ, value)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.curToken
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return ast.NewReturn(tok.Pos, nil)
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewReturn(tok.Pos, value)
}

func (p *Parser) parseBreakStatement() ast.Statement {
	tok := p.curToken
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return ast.NewBreak(tok.Pos, nil)
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewBreak(tok.Pos, value)
}

func (p *Parser) parseDeferStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewDefer(tok.Pos, body)
}

// parseDefineStatement parses `define name[<generics>] [where expr] = value;`.
func (p *Parser) parseDefineStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	var generics []ast.GenericParam
	if p.peekTokenIs(lexer.LESS) {
		p.nextToken()
		generics = p.parseGenericParams()
	}

	var where ast.Expression
	if p.peekTokenIs(lexer.WHERE) {
		p.nextToken()
		p.nextToken()
		where = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewDefine(tok.Pos, name, generics, where, value)
}

// parseGenericParams parses `<name[: constraint], ...>`; curToken is
// LESS on entry, GREATER on exit.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	var generics []ast.GenericParam
	p.nextToken()
	for {
		name := p.curToken.Literal
		var constraint ast.Expression
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			constraint = p.parseExpression(COMPARE)
		}
		generics = append(generics, ast.GenericParam{Name: name, Constraint: constraint})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.GREATER)
	return generics
}

func (p *Parser) parseIfExpr() ast.Expression { return p.parseIfExprStatic(false) }

func (p *Parser) parseIfExprStatic(static bool) ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)

	binding := ""
	if p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		if p.expectPeek(lexer.IDENT) {
			binding = p.curToken.Literal
		}
		p.expectPeek(lexer.PIPE)
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	then := p.parseBlock()

	var els ast.Expression
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			els = p.parseIfExpr()
		} else if p.expectPeek(lexer.LBRACE) {
			els = p.parseBlock()
		}
	}
	return ast.NewIf(tok.Pos, static, cond, binding, then, els)
}

func (p *Parser) parseWhileExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()

	var els ast.Expression
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.expectPeek(lexer.LBRACE) {
			els = p.parseBlock()
		}
	}
	return ast.NewWhile(tok.Pos, cond, body, els)
}

func (p *Parser) parseForExpr() ast.Expression { return p.parseForExprStatic(false) }

// parseForExprStatic parses `[static] for b1, b2 in item1, item2 { body } [else { ... }]`.
func (p *Parser) parseForExprStatic(static bool) ast.Expression {
	tok := p.curToken
	p.nextToken()

	var bindings []string
	bindings = append(bindings, p.curToken.Literal)
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		bindings = append(bindings, p.curToken.Literal)
	}

	if !p.expectPeek(lexer.IN) {
		return nil
	}
	p.nextToken()
	var items []ast.Expression
	items = append(items, p.parseExpression(LOWEST))
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		items = append(items, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()

	var els ast.Expression
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.expectPeek(lexer.LBRACE) {
			els = p.parseBlock()
		}
	}
	return ast.NewFor(tok.Pos, static, items, bindings, body, els)
}

func (p *Parser) parseSwitchExpr() ast.Expression { return p.parseSwitchExprStatic(false) }

// parseSwitchExprStatic parses `[static] switch cond { case v1, v2 [|binding|] { body } ... case { body } }`.
// A case with no values before its block is the default arm.
func (p *Parser) parseSwitchExprStatic(static bool) ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	var cases []ast.SwitchCase
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.CASE) {
			break
		}
		var values []ast.Expression
		binding := ""
		if !p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			values = append(values, p.parseExpression(LOWEST))
			for p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				values = append(values, p.parseExpression(LOWEST))
			}
			if p.peekTokenIs(lexer.PIPE) {
				p.nextToken()
				if p.expectPeek(lexer.IDENT) {
					binding = p.curToken.Literal
				}
				p.expectPeek(lexer.PIPE)
			}
		}
		for i, v := range values {
			if in, ok := v.(*ast.Internal); ok && (in.Name == "ok" || in.Name == "err") {
				values[i] = ast.NewIdentifier(in.Pos(), in.Name)
			}
		}
		if !p.expectPeek(lexer.LBRACE) {
			break
		}
		body := p.parseBlock()
		cases = append(cases, ast.SwitchCase{Values: values, Binding: binding, Body: body})
	}
	p.expectPeek(lexer.RBRACE)
	return ast.NewSwitch(tok.Pos, static, cond, cases)
}

// parseCatchExpr parses `catch value [|errBinding|] { body }`.
func (p *Parser) parseCatchExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)

	errBinding := ""
	if p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		if p.expectPeek(lexer.IDENT) {
			errBinding = p.curToken.Literal
		}
		p.expectPeek(lexer.PIPE)
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return ast.NewCatch(tok.Pos, value, errBinding, body)
}

// parseRunExpr parses `run { body }`, the compile-time-execution block.
func (p *Parser) parseRunExpr() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return ast.NewRun(tok.Pos, body)
}
