package parse

import (
	"strings"

	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// parseStatementLine parses one logical line: a compound statement or a
// ;-separated run of small statements terminated by a newline.
func (p *parser) parseStatementLine() ([]syntax.Stmt, error) {
	switch p.peek().Class {
	case lex.TCIf:
		st, err := p.parseIfStmt()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	case lex.TCWhile:
		st, err := p.parseWhileStmt()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	case lex.TCFor:
		st, err := p.parseForStmt()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	case lex.TCTry:
		st, err := p.parseTryStmt()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	case lex.TCWith:
		st, err := p.parseWithStmt()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	case lex.TCDef, lex.TCClass, lex.TCAt:
		st, err := p.parseDecorated()
		if err != nil {
			return nil, err
		}
		return []syntax.Stmt{st}, nil
	default:
		return p.parseSimpleStatementLine()
	}
}

// parseSimpleStatementLine parses smallStmt (';' smallStmt)* [';'] NEWLINE.
func (p *parser) parseSimpleStatementLine() ([]syntax.Stmt, error) {
	var stmts []syntax.Stmt

	for {
		st, err := p.parseSmallStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)

		if !p.accept(lex.TCSemi) {
			break
		}
		if p.at(lex.TCNewline) {
			break
		}
	}

	if _, err := p.expect(lex.TCNewline); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *parser) parseSmallStmt() (syntax.Stmt, error) {
	tok := p.peek()

	switch tok.Class {
	case lex.TCPass:
		p.next()
		return syntax.PassStmt{Src: tok}, nil
	case lex.TCBreak:
		p.next()
		return syntax.BreakStmt{Src: tok}, nil
	case lex.TCContinue:
		p.next()
		return syntax.ContinueStmt{Src: tok}, nil
	case lex.TCDel:
		return p.parseDelStmt()
	case lex.TCReturn:
		return p.parseReturnStmt()
	case lex.TCRaise:
		return p.parseRaiseStmt()
	case lex.TCImport, lex.TCFrom:
		return p.parseImportStmt()
	case lex.TCGlobal, lex.TCNonlocal:
		return p.parseScopeStmt()
	case lex.TCAssert:
		return p.parseAssertStmt()
	case lex.TCYield:
		y, err := p.parseYieldExpr()
		if err != nil {
			return nil, err
		}
		return syntax.ExprStmt{Src: tok, Value: y}, nil
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseDelStmt() (syntax.Stmt, error) {
	tok := p.next()

	targets, err := p.parseExprListElems()
	if err != nil {
		return nil, err
	}

	return syntax.DeleteStmt{Src: tok, Targets: targets}, nil
}

func (p *parser) parseReturnStmt() (syntax.Stmt, error) {
	tok := p.next()

	var val syntax.Expr
	if tokenStartsTest(p.peek()) {
		var err error
		val, err = p.parseTestList()
		if err != nil {
			return nil, err
		}
	}

	return syntax.ReturnStmt{Src: tok, Value: val}, nil
}

func (p *parser) parseRaiseStmt() (syntax.Stmt, error) {
	tok := p.next()

	var exc, cause syntax.Expr
	if tokenStartsTest(p.peek()) {
		var err error
		exc, err = p.parseTest()
		if err != nil {
			return nil, err
		}

		if p.accept(lex.TCFrom) {
			cause, err = p.parseTest()
			if err != nil {
				return nil, err
			}
		}
	}

	return syntax.RaiseStmt{Src: tok, Exc: exc, Cause: cause}, nil
}

func (p *parser) parseScopeStmt() (syntax.Stmt, error) {
	tok := p.next()

	var names []string
	for {
		nameTok, err := p.expect(lex.TCName)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.StrVal)

		if !p.accept(lex.TCComma) {
			break
		}
	}

	if tok.Class == lex.TCGlobal {
		return syntax.GlobalStmt{Src: tok, Names: names}, nil
	}
	return syntax.NonlocalStmt{Src: tok, Names: names}, nil
}

func (p *parser) parseAssertStmt() (syntax.Stmt, error) {
	tok := p.next()

	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}

	var msg syntax.Expr
	if p.accept(lex.TCComma) {
		msg, err = p.parseTest()
		if err != nil {
			return nil, err
		}
	}

	return syntax.AssertStmt{Src: tok, Test: test, Msg: msg}, nil
}

// augOps maps augmented-assignment token classes to their operations.
var augOps = map[string]syntax.AugOperation{
	lex.TCPlusEq.ID():       syntax.OpAugAdd,
	lex.TCMinusEq.ID():      syntax.OpAugSubtract,
	lex.TCStarEq.ID():       syntax.OpAugMultiply,
	lex.TCAtEq.ID():         syntax.OpAugMatMultiply,
	lex.TCSlashEq.ID():      syntax.OpAugDivide,
	lex.TCDblSlashEq.ID():   syntax.OpAugFloorDivide,
	lex.TCPercentEq.ID():    syntax.OpAugModulo,
	lex.TCDoubleStarEq.ID(): syntax.OpAugPower,
	lex.TCLShiftEq.ID():     syntax.OpAugLeftShift,
	lex.TCRShiftEq.ID():     syntax.OpAugRightShift,
	lex.TCAmperEq.ID():      syntax.OpAugBitAnd,
	lex.TCPipeEq.ID():       syntax.OpAugBitOr,
	lex.TCCaretEq.ID():      syntax.OpAugBitXor,
}

// parseExprStmt parses an expression statement along with any assignment or
// augmented-assignment suffix.
func (p *parser) parseExprStmt() (syntax.Stmt, error) {
	start := p.peek()

	first, err := p.parseTestListStarExpr()
	if err != nil {
		return nil, err
	}

	if op, ok := augOps[p.peek().Class.ID()]; ok {
		p.next()

		var val syntax.Expr
		if p.at(lex.TCYield) {
			val, err = p.parseYieldExpr()
		} else {
			val, err = p.parseTestList()
		}
		if err != nil {
			return nil, err
		}

		return syntax.AugAssignStmt{Src: start, Target: first, Op: op, Value: val}, nil
	}

	if !p.at(lex.TCAssign) {
		return syntax.ExprStmt{Src: start, Value: first}, nil
	}

	chain := []syntax.Expr{first}
	for p.accept(lex.TCAssign) {
		var rhs syntax.Expr
		if p.at(lex.TCYield) {
			rhs, err = p.parseYieldExpr()
		} else {
			rhs, err = p.parseTestListStarExpr()
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, rhs)
	}

	return syntax.AssignStmt{
		Src:     start,
		Targets: chain[:len(chain)-1],
		Value:   chain[len(chain)-1],
	}, nil
}

// parseSuite parses the block after a compound statement header: either an
// inline simple statement line or NEWLINE INDENT statement+ DEDENT.
func (p *parser) parseSuite() ([]syntax.Stmt, error) {
	if _, err := p.expect(lex.TCColon); err != nil {
		return nil, err
	}

	if !p.accept(lex.TCNewline) {
		return p.parseSimpleStatementLine()
	}

	// skip blank lines between the header and the indented block; the lexer
	// already suppresses indentation tokens for them, but a stream loaded
	// from elsewhere may interleave newlines
	for p.at(lex.TCNewline) {
		p.next()
	}

	if _, err := p.expect(lex.TCIndent); err != nil {
		return nil, err
	}

	var stmts []syntax.Stmt
	for {
		if p.at(lex.TCNewline) {
			p.next()
			continue
		}
		if p.at(lex.TCDedent) || p.at(lex.TCEndOfText) {
			break
		}

		lineStmts, err := p.parseStatementLine()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, lineStmts...)
	}

	if _, err := p.expect(lex.TCDedent); err != nil {
		return nil, err
	}

	if len(stmts) == 0 {
		return nil, p.unexpected(p.peek(), "at least one statement in block")
	}

	return stmts, nil
}

// parseIfStmt parses an if statement or the elif continuation of one. The
// elif chain folds right: each elif becomes a nested if statement inside the
// preceding orelse.
func (p *parser) parseIfStmt() (syntax.Stmt, error) {
	tok := p.next() // if or elif

	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var orelse []syntax.Stmt
	if p.at(lex.TCElif) {
		inner, err := p.parseIfStmt()
		if err != nil {
			return nil, err
		}
		orelse = []syntax.Stmt{inner}
	} else if p.accept(lex.TCElse) {
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}

	return syntax.IfStmt{Src: tok, Test: test, Body: body, Orelse: orelse}, nil
}

func (p *parser) parseWhileStmt() (syntax.Stmt, error) {
	tok := p.next()

	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var orelse []syntax.Stmt
	if p.accept(lex.TCElse) {
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}

	return syntax.WhileStmt{Src: tok, Test: test, Body: body, Orelse: orelse}, nil
}

func (p *parser) parseForStmt() (syntax.Stmt, error) {
	tok := p.next()

	target, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lex.TCIn); err != nil {
		return nil, err
	}

	iter, err := p.parseTestList()
	if err != nil {
		return nil, err
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var orelse []syntax.Stmt
	if p.accept(lex.TCElse) {
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}

	return syntax.ForStmt{Src: tok, Target: target, Iter: iter, Body: body, Orelse: orelse}, nil
}

func (p *parser) parseTryStmt() (syntax.Stmt, error) {
	tok := p.next()

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var handlers []syntax.ExceptHandler
	for p.at(lex.TCExcept) {
		handlerTok := p.next()

		var excType syntax.Expr
		var name string
		if !p.at(lex.TCColon) {
			excType, err = p.parseTest()
			if err != nil {
				return nil, err
			}

			if p.accept(lex.TCAs) {
				nameTok, err := p.expect(lex.TCName)
				if err != nil {
					return nil, err
				}
				name = nameTok.StrVal
			}
		}

		handlerBody, err := p.parseSuite()
		if err != nil {
			return nil, err
		}

		handlers = append(handlers, syntax.ExceptHandler{
			Src:  handlerTok,
			Type: excType,
			Name: name,
			Body: handlerBody,
		})
	}

	var orelse []syntax.Stmt
	if p.accept(lex.TCElse) {
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}

	var finally []syntax.Stmt
	if p.accept(lex.TCFinally) {
		finally, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}

	return syntax.TryStmt{Src: tok, Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}, nil
}

func (p *parser) parseWithStmt() (syntax.Stmt, error) {
	tok := p.next()

	var items []syntax.WithItem
	for {
		ctx, err := p.parseTest()
		if err != nil {
			return nil, err
		}

		var target syntax.Expr
		if p.accept(lex.TCAs) {
			target, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		items = append(items, syntax.WithItem{ContextExpr: ctx, Target: target})

		if !p.accept(lex.TCComma) {
			break
		}
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	return syntax.WithStmt{Src: tok, Items: items, Body: body}, nil
}

// parseDecorated parses zero or more decorator lines followed by a def or
// class statement.
func (p *parser) parseDecorated() (syntax.Stmt, error) {
	var decorators []syntax.Expr

	for p.at(lex.TCAt) {
		dec, err := p.parseDecorator()
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, dec)
	}

	switch p.peek().Class {
	case lex.TCDef:
		return p.parseFuncDef(decorators)
	case lex.TCClass:
		return p.parseClassDef(decorators)
	default:
		return nil, p.unexpected(p.peek(), "a function or class definition after decorators")
	}
}

// parseDecorator parses '@' Path ['(' ArgumentList ')'] NEWLINE.
func (p *parser) parseDecorator() (syntax.Expr, error) {
	p.next() // @

	nameTok, err := p.expect(lex.TCName)
	if err != nil {
		return nil, err
	}

	var path syntax.Expr = syntax.Ident{Src: nameTok, Name: nameTok.StrVal}
	for p.accept(lex.TCDot) {
		attrTok, err := p.expect(lex.TCName)
		if err != nil {
			return nil, err
		}
		path = syntax.Attribute{Src: nameTok, Value: path, Name: attrTok.StrVal}
	}

	var dec syntax.Expr = path
	if p.accept(lex.TCLParen) {
		args, kws, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		dec = syntax.Call{Src: nameTok, Func: path, Args: args, Keywords: kws}
	}

	if _, err := p.expect(lex.TCNewline); err != nil {
		return nil, err
	}

	return dec, nil
}

func (p *parser) parseFuncDef(decorators []syntax.Expr) (syntax.Stmt, error) {
	tok := p.next() // def

	nameTok, err := p.expect(lex.TCName)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lex.TCLParen); err != nil {
		return nil, err
	}

	params, err := p.parseParamList(true, lex.TCRParen)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lex.TCRParen); err != nil {
		return nil, err
	}

	var returns syntax.Expr
	if p.accept(lex.TCArrow) {
		returns, err = p.parseTest()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	return syntax.FunctionDef{
		Src:        tok,
		Name:       nameTok.StrVal,
		Args:       params,
		Body:       body,
		Decorators: decorators,
		Returns:    returns,
	}, nil
}

func (p *parser) parseClassDef(decorators []syntax.Expr) (syntax.Stmt, error) {
	tok := p.next() // class

	nameTok, err := p.expect(lex.TCName)
	if err != nil {
		return nil, err
	}

	var bases []syntax.Expr
	var keywords []syntax.Keyword
	if p.accept(lex.TCLParen) {
		var err error
		bases, keywords, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	return syntax.ClassDef{
		Src:        tok,
		Name:       nameTok.StrVal,
		Bases:      bases,
		Keywords:   keywords,
		Body:       body,
		Decorators: decorators,
	}, nil
}

func (p *parser) parseImportStmt() (syntax.Stmt, error) {
	tok := p.peek()

	if tok.Class == lex.TCImport {
		p.next()
		return p.parsePlainImport(tok)
	}
	return p.parseFromImport()
}

// parsePlainImport parses "import a.b.c as x, d.e" after the import keyword.
func (p *parser) parsePlainImport(tok lex.Token) (syntax.Stmt, error) {
	var parts []syntax.SingleImport

	for {
		module, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}

		var alias string
		if p.accept(lex.TCAs) {
			aliasTok, err := p.expect(lex.TCName)
			if err != nil {
				return nil, err
			}
			alias = aliasTok.StrVal
		}

		parts = append(parts, syntax.SingleImport{Module: module, Alias: alias})

		if !p.accept(lex.TCComma) {
			break
		}
	}

	return syntax.ImportStmt{Src: tok, Parts: parts}, nil
}

// parseFromImport parses "from [dots][name] import names". The module string
// is the literal concatenation of the leading dots and the dotted name.
func (p *parser) parseFromImport() (syntax.Stmt, error) {
	tok := p.next() // from

	var sb strings.Builder
	for {
		if p.accept(lex.TCDot) {
			sb.WriteString(".")
		} else if p.accept(lex.TCEllipsis) {
			sb.WriteString("...")
		} else {
			break
		}
	}

	if p.at(lex.TCName) {
		name, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		sb.WriteString(name)
	} else if sb.Len() == 0 {
		return nil, p.unexpected(p.peek(), "a module name or relative-import dots")
	}
	module := sb.String()

	if _, err := p.expect(lex.TCImport); err != nil {
		return nil, err
	}

	if p.accept(lex.TCStar) {
		return syntax.ImportStmt{Src: tok, Parts: []syntax.SingleImport{
			{Module: module, Symbol: "*"},
		}}, nil
	}

	parens := p.accept(lex.TCLParen)

	var parts []syntax.SingleImport
	for {
		symTok, err := p.expect(lex.TCName)
		if err != nil {
			return nil, err
		}

		var alias string
		if p.accept(lex.TCAs) {
			aliasTok, err := p.expect(lex.TCName)
			if err != nil {
				return nil, err
			}
			alias = aliasTok.StrVal
		}

		parts = append(parts, syntax.SingleImport{Module: module, Symbol: symTok.StrVal, Alias: alias})

		if !p.accept(lex.TCComma) {
			break
		}
		// a trailing comma is only valid inside parentheses
		if parens && p.at(lex.TCRParen) {
			break
		}
	}

	if parens {
		if _, err := p.expect(lex.TCRParen); err != nil {
			return nil, err
		}
	}

	return syntax.ImportStmt{Src: tok, Parts: parts}, nil
}

// parseDottedName parses name ('.' name)* and returns the joined string.
func (p *parser) parseDottedName() (string, error) {
	nameTok, err := p.expect(lex.TCName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(nameTok.StrVal)
	for p.accept(lex.TCDot) {
		partTok, err := p.expect(lex.TCName)
		if err != nil {
			return "", err
		}
		sb.WriteString(".")
		sb.WriteString(partTok.StrVal)
	}

	return sb.String(), nil
}
