package parse

import (
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// parseArgList parses a call site's argument list after the opening paren,
// consuming the closing paren. Arguments partition into positional
// expressions and keywords; an iterable spread appears as a Starred
// positional, a mapping spread as a keyword with an empty name.
//
// A positional non-starred argument after any keyword argument fails the
// parse; a starred positional after keywords is allowed.
func (p *parser) parseArgList() ([]syntax.Expr, []syntax.Keyword, error) {
	var args []syntax.Expr
	var keywords []syntax.Keyword

	for !p.at(lex.TCRParen) {
		switch {
		case p.at(lex.TCStar):
			starTok := p.next()
			val, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, syntax.Starred{Src: starTok, Value: val})

		case p.at(lex.TCDoubleStar):
			p.next()
			val, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			keywords = append(keywords, syntax.Keyword{Value: val})

		case p.at(lex.TCName) && p.peekAt(1).Class == lex.TCAssign:
			nameTok := p.next()
			p.next() // =
			val, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}
			keywords = append(keywords, syntax.Keyword{Name: nameTok.StrVal, Value: val})

		default:
			tok := p.peek()
			val, err := p.parseTest()
			if err != nil {
				return nil, nil, err
			}

			if p.at(lex.TCFor) {
				gens, err := p.parseCompFor()
				if err != nil {
					return nil, nil, err
				}
				val = syntax.Comp{Src: tok, Kind: syntax.CompGenerator, Elt: val, Generators: gens}
			}

			if len(keywords) > 0 {
				return nil, nil, p.errorAt(tok, "positional argument follows keyword argument")
			}
			args = append(args, val)
		}

		if !p.accept(lex.TCComma) {
			break
		}
	}

	if _, err := p.expect(lex.TCRParen); err != nil {
		return nil, nil, err
	}

	return args, keywords, nil
}
