package parse

import (
	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// parseParamList parses a full parameter list for a def (typed) or lambda
// (untyped), stopping before the terminator token (')' for def, ':' for
// lambda). Any shape may end with a trailing comma.
//
// While folding the positional parameters, once a default value has appeared
// every subsequent positional parameter must also have one; a violation fails
// the parse naming the offending parameter.
func (p *parser) parseParamList(typed bool, term lex.TokenClass) (syntax.Parameters, error) {
	var out syntax.Parameters
	seenDefault := false

	// leading positional parameters
	for p.at(lex.TCName) {
		pm, def, err := p.parseParamDef(typed)
		if err != nil {
			return out, err
		}

		if def == nil && seenDefault {
			return out, p.errorAt(pm.Src, "non-default argument follows default argument: "+pm.Name)
		}
		if def != nil {
			seenDefault = true
			out.Defaults = append(out.Defaults, def)
		}
		out.Args = append(out.Args, pm)

		if !p.accept(lex.TCComma) {
			return out, nil
		}
	}

	if p.at(term) {
		return out, nil
	}

	if p.accept(lex.TCStar) {
		if p.at(lex.TCName) {
			pm, err := p.parseArgType(typed)
			if err != nil {
				return out, err
			}
			out.Vararg = syntax.Varargs{Kind: syntax.VarargsNamed, Param: &pm}
		} else {
			out.Vararg = syntax.Varargs{Kind: syntax.VarargsAnonymous}
		}

		// keyword-only parameters, then an optional **kwarg
		for p.accept(lex.TCComma) {
			if p.at(term) {
				return out, nil
			}

			if p.accept(lex.TCDoubleStar) {
				pm, err := p.parseArgType(typed)
				if err != nil {
					return out, err
				}
				out.Kwarg = syntax.Kwarg{Kind: syntax.KwargNamed, Param: &pm}
				p.accept(lex.TCComma)
				return out, nil
			}

			pm, def, err := p.parseParamDef(typed)
			if err != nil {
				return out, err
			}
			out.KwonlyArgs = append(out.KwonlyArgs, pm)
			out.KwDefaults = append(out.KwDefaults, def)
		}

		return out, nil
	}

	if p.accept(lex.TCDoubleStar) {
		pm, err := p.parseArgType(typed)
		if err != nil {
			return out, err
		}
		out.Kwarg = syntax.Kwarg{Kind: syntax.KwargNamed, Param: &pm}
		p.accept(lex.TCComma)
	}

	return out, nil
}

// parseParamDef parses ArgType ['=' Test].
func (p *parser) parseParamDef(typed bool) (syntax.Param, syntax.Expr, error) {
	pm, err := p.parseArgType(typed)
	if err != nil {
		return pm, nil, err
	}

	var def syntax.Expr
	if p.accept(lex.TCAssign) {
		def, err = p.parseTest()
		if err != nil {
			return pm, nil, err
		}
	}

	return pm, def, nil
}

// parseArgType parses Identifier [':' Test] for def parameters, or a bare
// Identifier for lambda parameters.
func (p *parser) parseArgType(typed bool) (syntax.Param, error) {
	nameTok, err := p.expect(lex.TCName)
	if err != nil {
		return syntax.Param{}, err
	}

	pm := syntax.Param{Src: nameTok, Name: nameTok.StrVal}

	if typed && p.accept(lex.TCColon) {
		pm.Annotation, err = p.parseTest()
		if err != nil {
			return pm, err
		}
	}

	return pm, nil
}
