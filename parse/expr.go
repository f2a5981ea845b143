package parse

import (
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// parseTest parses the full expression production, including the ternary
// conditional and lambda.
func (p *parser) parseTest() (syntax.Expr, error) {
	if p.at(lex.TCLambda) {
		return p.parseLambda(false)
	}

	cond, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}

	if !p.at(lex.TCIf) {
		return cond, nil
	}
	p.next()

	test, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lex.TCElse); err != nil {
		return nil, err
	}

	// the else branch is a full test, making the ternary right-associative
	orelse, err := p.parseTest()
	if err != nil {
		return nil, err
	}

	return syntax.IfExpr{Src: cond.Source(), Test: test, Body: cond, Orelse: orelse}, nil
}

// parseTestNoCond parses the restricted expression used by comprehension
// guards: no top-level ternary.
func (p *parser) parseTestNoCond() (syntax.Expr, error) {
	if p.at(lex.TCLambda) {
		return p.parseLambda(true)
	}
	return p.parseOrTest()
}

// parseLambda parses a lambda with untyped parameters. When noCond is set
// the body uses the restricted no-ternary production.
func (p *parser) parseLambda(noCond bool) (syntax.Expr, error) {
	tok := p.next() // lambda

	params, err := p.parseParamList(false, lex.TCColon)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lex.TCColon); err != nil {
		return nil, err
	}

	var body syntax.Expr
	if noCond {
		body, err = p.parseTestNoCond()
	} else {
		body, err = p.parseTest()
	}
	if err != nil {
		return nil, err
	}

	return syntax.Lambda{Src: tok, Args: params, Body: body}, nil
}

func (p *parser) parseOrTest() (syntax.Expr, error) {
	left, err := p.parseAndTest()
	if err != nil {
		return nil, err
	}

	for p.at(lex.TCOr) {
		p.next()
		right, err := p.parseAndTest()
		if err != nil {
			return nil, err
		}
		left = syntax.BoolOp{Src: left.Source(), Op: syntax.OpBoolOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAndTest() (syntax.Expr, error) {
	left, err := p.parseNotTest()
	if err != nil {
		return nil, err
	}

	for p.at(lex.TCAnd) {
		p.next()
		right, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		left = syntax.BoolOp{Src: left.Source(), Op: syntax.OpBoolAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseNotTest() (syntax.Expr, error) {
	if p.at(lex.TCNot) {
		tok := p.next()
		operand, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		return syntax.UnaryOp{Src: tok, Op: syntax.OpUnaryNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

// parseComparison parses the non-associative comparison chain. A chain with
// at least one operator produces a single Compare preserving order.
func (p *parser) parseComparison() (syntax.Expr, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var vals []syntax.Expr
	var ops []syntax.CompareOperation

	for {
		op, ok := p.peekCompareOp()
		if !ok {
			break
		}
		p.consumeCompareOp()

		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if vals == nil {
			vals = []syntax.Expr{first}
		}
		vals = append(vals, next)
		ops = append(ops, op)
	}

	if vals == nil {
		return first, nil
	}

	return syntax.Compare{Src: first.Source(), Vals: vals, Ops: ops}, nil
}

// peekCompareOp reports the comparison operation beginning at the next token,
// if any, without consuming it.
func (p *parser) peekCompareOp() (syntax.CompareOperation, bool) {
	switch p.peek().Class {
	case lex.TCEq:
		return syntax.OpCompareEqual, true
	case lex.TCNotEq:
		return syntax.OpCompareNotEqual, true
	case lex.TCLess:
		return syntax.OpCompareLess, true
	case lex.TCLessEq:
		return syntax.OpCompareLessEqual, true
	case lex.TCGreater:
		return syntax.OpCompareGreater, true
	case lex.TCGreaterEq:
		return syntax.OpCompareGreaterEqual, true
	case lex.TCIn:
		return syntax.OpCompareIn, true
	case lex.TCIs:
		if p.peekAt(1).Class == lex.TCNot {
			return syntax.OpCompareIsNot, true
		}
		return syntax.OpCompareIs, true
	case lex.TCNot:
		if p.peekAt(1).Class == lex.TCIn {
			return syntax.OpCompareNotIn, true
		}
		return 0, false
	}
	return 0, false
}

func (p *parser) consumeCompareOp() {
	first := p.next()
	if first.Class == lex.TCIs && p.at(lex.TCNot) {
		p.next()
	} else if first.Class == lex.TCNot && p.at(lex.TCIn) {
		p.next()
	}
}

// parseExpr parses the bitwise-or level, the top of the ternary-free
// Expression production.
func (p *parser) parseExpr() (syntax.Expr, error) {
	return p.parseBinOpLevel(0)
}

// binLevels is the precedence cascade from bitwise-or down to
// multiplicative, loosest first. Each level is left-associative.
var binLevels = [][]struct {
	class lex.TokenClass
	op    syntax.BinaryOperation
}{
	{{lex.TCPipe, syntax.OpBinaryBitOr}},
	{{lex.TCCaret, syntax.OpBinaryBitXor}},
	{{lex.TCAmper, syntax.OpBinaryBitAnd}},
	{{lex.TCLShift, syntax.OpBinaryLeftShift}, {lex.TCRShift, syntax.OpBinaryRightShift}},
	{{lex.TCPlus, syntax.OpBinaryAdd}, {lex.TCMinus, syntax.OpBinarySubtract}},
	{
		{lex.TCStar, syntax.OpBinaryMultiply},
		{lex.TCSlash, syntax.OpBinaryDivide},
		{lex.TCDoubleSlash, syntax.OpBinaryFloorDivide},
		{lex.TCPercent, syntax.OpBinaryModulo},
		{lex.TCAt, syntax.OpBinaryMatMultiply},
	},
}

func (p *parser) parseBinOpLevel(level int) (syntax.Expr, error) {
	if level >= len(binLevels) {
		return p.parseFactor()
	}

	left, err := p.parseBinOpLevel(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		var matched bool
		for _, cand := range binLevels[level] {
			if p.at(cand.class) {
				p.next()
				right, err := p.parseBinOpLevel(level + 1)
				if err != nil {
					return nil, err
				}
				left = syntax.BinOp{Src: left.Source(), Op: cand.op, Left: left, Right: right}
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}

	return left, nil
}

// parseFactor parses the unary +x / -x / ~x level, which binds looser than
// power so that -a**b is -(a**b).
func (p *parser) parseFactor() (syntax.Expr, error) {
	var op syntax.UnaryOperation
	switch p.peek().Class {
	case lex.TCPlus:
		op = syntax.OpUnaryPlus
	case lex.TCMinus:
		op = syntax.OpUnaryMinus
	case lex.TCTilde:
		op = syntax.OpUnaryInvert
	default:
		return p.parsePower()
	}

	tok := p.next()
	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	return syntax.UnaryOp{Src: tok, Op: op, Operand: operand}, nil
}

// parsePower parses AtomExpr ['**' Factor]. The right operand being a factor
// makes power right-associative.
func (p *parser) parsePower() (syntax.Expr, error) {
	base, err := p.parseAtomExpr()
	if err != nil {
		return nil, err
	}

	if !p.accept(lex.TCDoubleStar) {
		return base, nil
	}

	exp, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	return syntax.BinOp{Src: base.Source(), Op: syntax.OpBinaryPower, Left: base, Right: exp}, nil
}

// parseStarExpr parses '*' Expression.
func (p *parser) parseStarExpr() (syntax.Expr, error) {
	tok, err := p.expect(lex.TCStar)
	if err != nil {
		return nil, err
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return syntax.Starred{Src: tok, Value: val}, nil
}

// parseTestOrStar parses a test or a starred expression.
func (p *parser) parseTestOrStar() (syntax.Expr, error) {
	if p.at(lex.TCStar) {
		return p.parseStarExpr()
	}
	return p.parseTest()
}

// parseTestList parses Test (',' Test)* [','], reducing to the single
// expression when there is exactly one element and no trailing comma, and a
// tuple otherwise.
func (p *parser) parseTestList() (syntax.Expr, error) {
	return p.parseCommaList(func() (syntax.Expr, error) { return p.parseTest() }, tokenStartsTest)
}

// parseTestListStarExpr is parseTestList but additionally allowing starred
// elements, as used on either side of an assignment.
func (p *parser) parseTestListStarExpr() (syntax.Expr, error) {
	return p.parseCommaList(p.parseTestOrStar, tokenStartsTestOrStar)
}

// parseExprList parses the narrower ExpressionList used for for-loop and del
// targets: star allowed, no ternary, no lambda.
func (p *parser) parseExprList() (syntax.Expr, error) {
	return p.parseCommaList(func() (syntax.Expr, error) {
		if p.at(lex.TCStar) {
			return p.parseStarExpr()
		}
		return p.parseExpr()
	}, func(tok lex.Token) bool {
		return tok.Class == lex.TCStar || tokenStartsExpr(tok)
	})
}

// parseExprListElems is parseExprList exposed as an element slice, for
// statements such as del that always carry a list of targets.
func (p *parser) parseExprListElems() ([]syntax.Expr, error) {
	ex, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if tup, ok := ex.(syntax.TupleExpr); ok {
		return tup.Elts, nil
	}
	return []syntax.Expr{ex}, nil
}

// parseCommaList runs the shared one-or-more-with-optional-trailing-comma
// shape: a single element stays itself, anything else becomes a tuple.
func (p *parser) parseCommaList(elem func() (syntax.Expr, error), starts func(lex.Token) bool) (syntax.Expr, error) {
	first, err := elem()
	if err != nil {
		return nil, err
	}

	if !p.at(lex.TCComma) {
		return first, nil
	}

	elts := []syntax.Expr{first}
	for p.accept(lex.TCComma) {
		if !starts(p.peek()) {
			break
		}
		next, err := elem()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}

	return syntax.TupleExpr{Src: first.Source(), Elts: elts}, nil
}

// parseYieldExpr parses yield [TestList] or yield from Test.
func (p *parser) parseYieldExpr() (syntax.Expr, error) {
	tok, err := p.expect(lex.TCYield)
	if err != nil {
		return nil, err
	}

	if p.accept(lex.TCFrom) {
		val, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		return syntax.YieldFrom{Src: tok, Value: val}, nil
	}

	if !tokenStartsTest(p.peek()) {
		return syntax.Yield{Src: tok}, nil
	}

	val, err := p.parseTestList()
	if err != nil {
		return nil, err
	}
	return syntax.Yield{Src: tok, Value: val}, nil
}

// parseCompFor parses one or more for-clauses of a comprehension, with the
// if-guards bound to the nearest preceding for. The iterable is parsed at
// or-test precedence, deliberately excluding the ternary and lambda.
func (p *parser) parseCompFor() ([]syntax.Comprehension, error) {
	var gens []syntax.Comprehension

	for p.at(lex.TCFor) {
		p.next()

		target, err := p.parseExprList()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(lex.TCIn); err != nil {
			return nil, err
		}

		iter, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}

		var ifs []syntax.Expr
		for p.at(lex.TCIf) {
			p.next()
			guard, err := p.parseTestNoCond()
			if err != nil {
				return nil, err
			}
			ifs = append(ifs, guard)
		}

		gens = append(gens, syntax.Comprehension{Target: target, Iter: iter, Ifs: ifs})
	}

	return gens, nil
}
