package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/moray/lex"
	"github.com/dekarrin/moray/syntax"
)

// ParseFString parses the content of an f-string literal (the text between
// the quotes, escapes already decoded) into a string group. Literal runs
// become constants, {expr} replacement fields become formatted values with
// their expressions parsed by the Expression entry point, and {{ and }} are
// brace escapes. Format specs may themselves contain one level of replacement
// fields.
func ParseFString(text string) (syntax.StringGroup, error) {
	return parseFStringContent([]rune(text), false)
}

func parseFStringContent(chars []rune, insideSpec bool) (syntax.StringGroup, error) {
	var parts []syntax.StringGroup
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, syntax.StrConstant{Value: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(chars) {
		ch := chars[i]

		if ch == '{' {
			if i+1 < len(chars) && chars[i+1] == '{' {
				lit.WriteRune('{')
				i += 2
				continue
			}

			flushLit()
			fv, consumed, err := parseReplacementField(chars[i:], insideSpec)
			if err != nil {
				return nil, err
			}
			parts = append(parts, fv)
			i += consumed
			continue
		}

		if ch == '}' {
			if i+1 < len(chars) && chars[i+1] == '}' {
				lit.WriteRune('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("single '}' is not allowed in f-string")
		}

		lit.WriteRune(ch)
		i++
	}
	flushLit()

	switch len(parts) {
	case 0:
		return syntax.StrConstant{Value: ""}, nil
	case 1:
		return parts[0], nil
	default:
		return syntax.StrJoined{Parts: parts}, nil
	}
}

// parseReplacementField parses one {expr[!conv][:spec]} field starting at the
// opening brace. It returns the parsed field and the number of runes
// consumed, including both braces.
func parseReplacementField(chars []rune, insideSpec bool) (syntax.StringGroup, int, error) {
	i := 1 // past '{'

	exprStart := i
	depth := 0
	var quote rune

	for {
		if i >= len(chars) {
			return nil, 0, fmt.Errorf("unclosed replacement field in f-string")
		}
		ch := chars[i]

		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			i++
			continue
		}

		if ch == '\'' || ch == '"' {
			quote = ch
			i++
			continue
		}

		if ch == '(' || ch == '[' || ch == '{' {
			depth++
			i++
			continue
		}
		if ch == ')' || ch == ']' {
			depth--
			i++
			continue
		}
		if ch == '}' {
			if depth == 0 {
				break
			}
			depth--
			i++
			continue
		}

		if depth == 0 && ch == '!' && i+1 < len(chars) && chars[i+1] != '=' {
			break
		}
		if depth == 0 && ch == ':' {
			break
		}

		i++
	}

	exprText := strings.TrimSpace(string(chars[exprStart:i]))
	if exprText == "" {
		return nil, 0, fmt.Errorf("empty expression not allowed in f-string")
	}

	ts, err := lex.Lex(exprText)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid expression in f-string: %s", errMessage(err))
	}
	expr, err := Expression(ts)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid expression in f-string: %s", errMessage(err))
	}

	fv := syntax.StrFormattedValue{Value: expr, Conversion: syntax.ConvNone}

	if chars[i] == '!' {
		i++
		if i >= len(chars) {
			return nil, 0, fmt.Errorf("unclosed replacement field in f-string")
		}
		switch chars[i] {
		case 's':
			fv.Conversion = syntax.ConvStr
		case 'r':
			fv.Conversion = syntax.ConvRepr
		case 'a':
			fv.Conversion = syntax.ConvAscii
		default:
			return nil, 0, fmt.Errorf("invalid conversion %q in f-string: expected 's', 'r', or 'a'", string(chars[i]))
		}
		i++
	}

	if i < len(chars) && chars[i] == ':' {
		if insideSpec {
			return nil, 0, fmt.Errorf("format spec nested too deeply in f-string")
		}
		i++

		specStart := i
		specDepth := 0
		for {
			if i >= len(chars) {
				return nil, 0, fmt.Errorf("unclosed replacement field in f-string")
			}
			ch := chars[i]
			if ch == '{' {
				specDepth++
			} else if ch == '}' {
				if specDepth == 0 {
					break
				}
				specDepth--
			}
			i++
		}

		spec, err := parseFStringContent(chars[specStart:i], true)
		if err != nil {
			return nil, 0, err
		}
		fv.FormatSpec = spec
	}

	if i >= len(chars) || chars[i] != '}' {
		return nil, 0, fmt.Errorf("unclosed replacement field in f-string")
	}
	i++

	return fv, i, nil
}

// errMessage strips positional prefixes from nested parse errors so they read
// sensibly in the context of the outer literal.
func errMessage(err error) string {
	if se, ok := err.(lex.SyntaxError); ok {
		return se.Message
	}
	return err.Error()
}
