package parse

import (
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// parseAtomExpr parses an atom followed by any number of call, subscript, and
// attribute trailers, applied left to right.
func (p *parser) parseAtomExpr() (syntax.Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Class {
		case lex.TCLParen:
			p.next()
			args, kws, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			atom = syntax.Call{Src: atom.Source(), Func: atom, Args: args, Keywords: kws}
		case lex.TCLBracket:
			p.next()
			index, err := p.parseSubscriptList()
			if err != nil {
				return nil, err
			}
			atom = syntax.Subscript{Src: atom.Source(), Value: atom, Index: index}
		case lex.TCDot:
			p.next()
			nameTok, err := p.expect(lex.TCName)
			if err != nil {
				return nil, err
			}
			atom = syntax.Attribute{Src: atom.Source(), Value: atom, Name: nameTok.StrVal}
		default:
			return atom, nil
		}
	}
}

func (p *parser) parseAtom() (syntax.Expr, error) {
	tok := p.peek()

	switch tok.Class {
	case lex.TCName:
		p.next()
		return syntax.Ident{Src: tok, Name: tok.StrVal}, nil
	case lex.TCInt:
		p.next()
		return syntax.IntLit{Src: tok, Value: tok.IntVal}, nil
	case lex.TCFloat:
		p.next()
		return syntax.FloatLit{Src: tok, Value: tok.FloatVal}, nil
	case lex.TCComplex:
		p.next()
		return syntax.ComplexLit{Src: tok, Real: 0, Imag: tok.FloatVal}, nil
	case lex.TCString:
		return p.parseStringGroup()
	case lex.TCBytes:
		return p.parseBytesGroup()
	case lex.TCTrue:
		p.next()
		return syntax.TrueLit{Src: tok}, nil
	case lex.TCFalse:
		p.next()
		return syntax.FalseLit{Src: tok}, nil
	case lex.TCNone:
		p.next()
		return syntax.NoneLit{Src: tok}, nil
	case lex.TCEllipsis:
		p.next()
		return syntax.EllipsisLit{Src: tok}, nil
	case lex.TCLParen:
		return p.parseParenForm()
	case lex.TCLBracket:
		return p.parseListForm()
	case lex.TCLBrace:
		return p.parseBraceForm()
	default:
		return nil, p.unexpected(tok, "an expression")
	}
}

// parseStringGroup consumes one or more adjacent string tokens and forms
// their group: plain tokens contribute constants, f-string tokens are handed
// to the f-string parser and contribute their parts.
func (p *parser) parseStringGroup() (syntax.Expr, error) {
	first := p.peek()

	var parts []syntax.StringGroup
	add := func(sg syntax.StringGroup) {
		if c, ok := sg.(syntax.StrConstant); ok && len(parts) > 0 {
			if prev, ok := parts[len(parts)-1].(syntax.StrConstant); ok {
				parts[len(parts)-1] = syntax.StrConstant{Value: prev.Value + c.Value}
				return
			}
		}
		parts = append(parts, sg)
	}

	for p.at(lex.TCString) {
		tok := p.next()

		if !tok.FString {
			add(syntax.StrConstant{Value: tok.StrVal})
			continue
		}

		group, err := ParseFString(tok.StrVal)
		if err != nil {
			return nil, lex.NewSyntaxErrorFromToken(err.Error(), tok)
		}

		if joined, ok := group.(syntax.StrJoined); ok {
			for i := range joined.Parts {
				add(joined.Parts[i])
			}
		} else {
			add(group)
		}
	}

	var group syntax.StringGroup
	switch len(parts) {
	case 0:
		group = syntax.StrConstant{Value: ""}
	case 1:
		group = parts[0]
	default:
		group = syntax.StrJoined{Parts: parts}
	}

	return syntax.StringLit{Src: first, Group: group}, nil
}

// parseBytesGroup consumes one or more adjacent bytes tokens and concatenates
// their payloads.
func (p *parser) parseBytesGroup() (syntax.Expr, error) {
	first := p.peek()

	var val []byte
	for p.at(lex.TCBytes) {
		tok := p.next()
		val = append(val, tok.BytesVal...)
	}
	if val == nil {
		val = []byte{}
	}

	return syntax.BytesLit{Src: first, Value: val}, nil
}

// parseParenForm parses everything that can follow '(': the empty tuple, a
// parenthesized yield, a generator expression, a parenthesized expression, or
// a tuple. A single element without trailing comma is not a tuple.
func (p *parser) parseParenForm() (syntax.Expr, error) {
	tok := p.next() // (

	if p.accept(lex.TCRParen) {
		return syntax.TupleExpr{Src: tok, Elts: []syntax.Expr{}}, nil
	}

	if p.at(lex.TCYield) {
		y, err := p.parseYieldExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TCRParen); err != nil {
			return nil, err
		}
		return y, nil
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if p.at(lex.TCFor) {
		gens, err := p.parseCompFor()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TCRParen); err != nil {
			return nil, err
		}
		return syntax.Comp{Src: tok, Kind: syntax.CompGenerator, Elt: first, Generators: gens}, nil
	}

	elts := []syntax.Expr{first}
	sawComma := false
	for p.accept(lex.TCComma) {
		sawComma = true
		if !tokenStartsTestOrStar(p.peek()) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}

	if _, err := p.expect(lex.TCRParen); err != nil {
		return nil, err
	}

	if len(elts) == 1 && !sawComma {
		return first, nil
	}
	return syntax.TupleExpr{Src: tok, Elts: elts}, nil
}

// parseListForm parses a list display or list comprehension.
func (p *parser) parseListForm() (syntax.Expr, error) {
	tok := p.next() // [

	if p.accept(lex.TCRBracket) {
		return syntax.ListExpr{Src: tok, Elts: []syntax.Expr{}}, nil
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if p.at(lex.TCFor) {
		gens, err := p.parseCompFor()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TCRBracket); err != nil {
			return nil, err
		}
		return syntax.Comp{Src: tok, Kind: syntax.CompList, Elt: first, Generators: gens}, nil
	}

	elts := []syntax.Expr{first}
	for p.accept(lex.TCComma) {
		if !tokenStartsTestOrStar(p.peek()) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}

	if _, err := p.expect(lex.TCRBracket); err != nil {
		return nil, err
	}

	return syntax.ListExpr{Src: tok, Elts: elts}, nil
}

// parseBraceForm parses a dict or set display, or a dict or set
// comprehension.
func (p *parser) parseBraceForm() (syntax.Expr, error) {
	tok := p.next() // {

	if p.accept(lex.TCRBrace) {
		return syntax.DictExpr{Src: tok, Keys: []syntax.Expr{}, Values: []syntax.Expr{}}, nil
	}

	// a leading ** can only be a dict display
	if p.at(lex.TCDoubleStar) {
		return p.parseDictRest(tok, nil, nil, false)
	}

	first, err := p.parseTestOrStar()
	if err != nil {
		return nil, err
	}

	if _, isStarred := first.(syntax.Starred); !isStarred && p.accept(lex.TCColon) {
		firstVal, err := p.parseTest()
		if err != nil {
			return nil, err
		}

		if p.at(lex.TCFor) {
			gens, err := p.parseCompFor()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lex.TCRBrace); err != nil {
				return nil, err
			}
			return syntax.Comp{Src: tok, Kind: syntax.CompDict, Key: first, Value: firstVal, Generators: gens}, nil
		}

		return p.parseDictRest(tok, []syntax.Expr{first}, []syntax.Expr{firstVal}, true)
	}

	// set display or set comprehension
	if p.at(lex.TCFor) {
		gens, err := p.parseCompFor()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TCRBrace); err != nil {
			return nil, err
		}
		return syntax.Comp{Src: tok, Kind: syntax.CompSet, Elt: first, Generators: gens}, nil
	}

	elts := []syntax.Expr{first}
	for p.accept(lex.TCComma) {
		if !tokenStartsTestOrStar(p.peek()) {
			break
		}
		next, err := p.parseTestOrStar()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}

	if _, err := p.expect(lex.TCRBrace); err != nil {
		return nil, err
	}

	return syntax.SetExpr{Src: tok, Elts: elts}, nil
}

// parseDictRest parses the remaining entries of a dict display. When
// afterFirst is set, the first key/value pair has been consumed and the next
// token is a comma or the closing brace.
func (p *parser) parseDictRest(tok lex.Token, keys, values []syntax.Expr, afterFirst bool) (syntax.Expr, error) {
	for {
		if afterFirst {
			if !p.accept(lex.TCComma) {
				break
			}
			if p.at(lex.TCRBrace) {
				break
			}
		}
		afterFirst = true

		if p.accept(lex.TCDoubleStar) {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, val)
			continue
		}

		key, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.TCColon); err != nil {
			return nil, err
		}
		val, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, val)
	}

	if _, err := p.expect(lex.TCRBrace); err != nil {
		return nil, err
	}

	return syntax.DictExpr{Src: tok, Keys: keys, Values: values}, nil
}

// parseSubscriptList parses the contents of a subscript trailer after '['. A
// list with at least one comma yields a tuple of subscripts.
func (p *parser) parseSubscriptList() (syntax.Expr, error) {
	first, err := p.parseSubscript()
	if err != nil {
		return nil, err
	}

	if !p.at(lex.TCComma) {
		if _, err := p.expect(lex.TCRBracket); err != nil {
			return nil, err
		}
		return first, nil
	}

	elts := []syntax.Expr{first}
	for p.accept(lex.TCComma) {
		if p.at(lex.TCRBracket) {
			break
		}
		next, err := p.parseSubscript()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}

	if _, err := p.expect(lex.TCRBracket); err != nil {
		return nil, err
	}

	return syntax.TupleExpr{Src: first.Source(), Elts: elts}, nil
}

// parseSubscript parses a single subscript: a plain expression or a
// [lower]:[upper][:step] slice with unspecified components lowered to None
// literals.
func (p *parser) parseSubscript() (syntax.Expr, error) {
	var lower syntax.Expr
	var err error

	if !p.at(lex.TCColon) {
		lower, err = p.parseTest()
		if err != nil {
			return nil, err
		}
		if !p.at(lex.TCColon) {
			return lower, nil
		}
	}

	colonTok, err := p.expect(lex.TCColon)
	if err != nil {
		return nil, err
	}

	var upper, step syntax.Expr
	if tokenStartsTest(p.peek()) {
		upper, err = p.parseTest()
		if err != nil {
			return nil, err
		}
	}

	if p.accept(lex.TCColon) {
		if tokenStartsTest(p.peek()) {
			step, err = p.parseTest()
			if err != nil {
				return nil, err
			}
		}
	}

	src := colonTok
	if lower != nil {
		src = lower.Source()
	}

	noneAt := syntax.NoneLit{Src: colonTok}
	if lower == nil {
		lower = noneAt
	}
	if upper == nil {
		upper = noneAt
	}
	if step == nil {
		step = noneAt
	}

	return syntax.Slice{Src: src, Elements: []syntax.Expr{lower, upper, step}}, nil
}
