package lex

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// tabWidth is how far a tab character advances the indentation measurement; a
// tab moves to the next multiple of this.
const tabWidth = 8

// multi-rune operators, longest first. Single-rune operators and delimiters
// are dispatched directly.
var operators3 = map[string]TokenClass{
	"**=": TCDoubleStarEq,
	"//=": TCDblSlashEq,
	"<<=": TCLShiftEq,
	">>=": TCRShiftEq,
	"...": TCEllipsis,
}

var operators2 = map[string]TokenClass{
	"**": TCDoubleStar,
	"//": TCDoubleSlash,
	"<<": TCLShift,
	">>": TCRShift,
	"<=": TCLessEq,
	">=": TCGreaterEq,
	"==": TCEq,
	"!=": TCNotEq,
	"+=": TCPlusEq,
	"-=": TCMinusEq,
	"*=": TCStarEq,
	"/=": TCSlashEq,
	"%=": TCPercentEq,
	"@=": TCAtEq,
	"&=": TCAmperEq,
	"|=": TCPipeEq,
	"^=": TCCaretEq,
	"->": TCArrow,
}

var operators1 = map[rune]TokenClass{
	'(': TCLParen, ')': TCRParen, '[': TCLBracket, ']': TCRBracket,
	'{': TCLBrace, '}': TCRBrace, ',': TCComma, ':': TCColon, '.': TCDot,
	';': TCSemi, '@': TCAt, '+': TCPlus, '-': TCMinus, '*': TCStar,
	'/': TCSlash, '%': TCPercent, '&': TCAmper, '|': TCPipe, '^': TCCaret,
	'~': TCTilde, '<': TCLess, '>': TCGreater, '=': TCAssign,
}

type lexer struct {
	chars   []rune
	lines   []string
	pos     int
	line    int
	col     int
	depth   int
	indents []int
	tokens  []Token
}

// Lex tokenizes moray source text. The returned stream ends with a newline
// token (synthesized if the text does not end in one) followed by one dedent
// per indentation level still open at end of text. Text with no tokens at all
// (empty, blank or comment-only) yields an empty stream.
func Lex(s string) (*TokenStream, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lx := &lexer{
		chars:   []rune(s),
		lines:   strings.Split(s, "\n"),
		line:    1,
		col:     1,
		indents: []int{0},
	}

	if err := lx.run(); err != nil {
		return nil, err
	}

	return NewTokenStream(lx.tokens), nil
}

func (lx *lexer) run() error {
	atLineStart := true

	for lx.pos < len(lx.chars) {
		if atLineStart && lx.depth == 0 {
			emitted, err := lx.lexIndentation()
			if err != nil {
				return err
			}
			if !emitted {
				// blank or comment-only line; stay at line start
				continue
			}
			atLineStart = false
			continue
		}

		ch := lx.peek(0)

		switch {
		case ch == ' ' || ch == '\t':
			lx.advance()
		case ch == '#':
			for lx.pos < len(lx.chars) && lx.peek(0) != '\n' {
				lx.advance()
			}
		case ch == '\\' && lx.peek(1) == '\n':
			lx.advance()
			lx.advance()
		case ch == '\n':
			if lx.depth > 0 {
				// implicit line joining; no structural token
				lx.advance()
			} else {
				lx.emitSimple(TCNewline, "")
				lx.advance()
				atLineStart = true
			}
		default:
			if err := lx.lexToken(); err != nil {
				return err
			}
		}
	}

	// close the final logical line and any open indentation
	if !atLineStart {
		lx.emitSimple(TCNewline, "")
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emitSimple(TCDedent, "")
	}

	return nil
}

// lexIndentation measures the leading whitespace of the line starting at the
// current position and emits indent/dedent tokens as needed. It returns false
// if the line turned out to be blank or comment-only (in which case the line
// has been consumed entirely, terminator included, and no tokens were
// emitted).
func (lx *lexer) lexIndentation() (bool, error) {
	width := 0
	for lx.pos < len(lx.chars) {
		ch := lx.peek(0)
		if ch == ' ' {
			width++
		} else if ch == '\t' {
			width = (width/tabWidth + 1) * tabWidth
		} else {
			break
		}
		lx.advance()
	}

	if lx.pos >= len(lx.chars) {
		return false, nil
	}

	if ch := lx.peek(0); ch == '\n' || ch == '#' {
		for lx.pos < len(lx.chars) && lx.peek(0) != '\n' {
			lx.advance()
		}
		if lx.pos < len(lx.chars) {
			lx.advance()
		}
		return false, nil
	}

	top := lx.indents[len(lx.indents)-1]
	if width > top {
		lx.indents = append(lx.indents, width)
		lx.emitSimple(TCIndent, "")
	} else if width < top {
		for len(lx.indents) > 1 && width < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emitSimple(TCDedent, "")
		}
		if width != lx.indents[len(lx.indents)-1] {
			return false, SyntaxError{
				Message:    "unindent does not match any outer indentation level",
				SourceLine: lx.fullLine(),
				Line:       lx.line,
				Pos:        lx.col,
			}
		}
	}

	return true, nil
}

func (lx *lexer) lexToken() error {
	ch := lx.peek(0)

	switch {
	case isIdentStart(ch):
		return lx.lexNameOrPrefixedString()
	case isDigit(ch) || (ch == '.' && isDigit(lx.peek(1))):
		return lx.lexNumber()
	case ch == '"' || ch == '\'':
		return lx.lexString("")
	default:
		return lx.lexOperator()
	}
}

func (lx *lexer) lexOperator() error {
	start := lx.mark()

	if cl, ok := operators3[lx.peekStr(3)]; ok {
		lexeme := lx.peekStr(3)
		lx.advance()
		lx.advance()
		lx.advance()
		lx.emit(cl, lexeme, start)
		return nil
	}
	if cl, ok := operators2[lx.peekStr(2)]; ok {
		lexeme := lx.peekStr(2)
		lx.advance()
		lx.advance()
		lx.emit(cl, lexeme, start)
		return nil
	}

	ch := lx.peek(0)
	if cl, ok := operators1[ch]; ok {
		lx.advance()
		switch ch {
		case '(', '[', '{':
			lx.depth++
		case ')', ']', '}':
			if lx.depth > 0 {
				lx.depth--
			}
		}
		lx.emit(cl, string(ch), start)
		return nil
	}

	return SyntaxError{
		Message:    fmt.Sprintf("unexpected character %q", string(ch)),
		SourceLine: lx.fullLine(),
		Source:     string(ch),
		Line:       lx.line,
		Pos:        lx.col,
	}
}

func (lx *lexer) lexNameOrPrefixedString() error {
	start := lx.mark()

	var sb strings.Builder
	for lx.pos < len(lx.chars) && isIdentCont(lx.peek(0)) {
		sb.WriteRune(lx.advance())
	}
	word := sb.String()

	// a run of letters directly against a quote may be a string prefix
	if lx.pos < len(lx.chars) && (lx.peek(0) == '"' || lx.peek(0) == '\'') && isStringPrefix(word) {
		lx.reset(start)
		return lx.lexString(strings.ToLower(word))
	}

	normed := norm.NFKC.String(word)
	if cl, ok := keywords[normed]; ok {
		lx.emit(cl, word, start)
		return nil
	}

	tok := lx.makeToken(TCName, word, start)
	tok.StrVal = normed
	lx.tokens = append(lx.tokens, tok)
	return nil
}

func isStringPrefix(word string) bool {
	if len(word) > 2 {
		return false
	}
	var r, b, f, u int
	for _, ch := range strings.ToLower(word) {
		switch ch {
		case 'r':
			r++
		case 'b':
			b++
		case 'f':
			f++
		case 'u':
			u++
		default:
			return false
		}
	}
	if r > 1 || b > 1 || f > 1 || u > 1 {
		return false
	}
	if b > 0 && (f > 0 || u > 0) {
		return false
	}
	if f > 0 && u > 0 {
		return false
	}
	if u > 0 && r > 0 {
		return false
	}
	return true
}

func (lx *lexer) lexNumber() error {
	start := lx.mark()
	var sb strings.Builder

	writeDigits := func(valid func(rune) bool) {
		for lx.pos < len(lx.chars) && (valid(lx.peek(0)) || lx.peek(0) == '_') {
			ch := lx.advance()
			if ch != '_' {
				sb.WriteRune(ch)
			}
		}
	}

	if lx.peek(0) == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'X' || lx.peek(1) == 'o' || lx.peek(1) == 'O' || lx.peek(1) == 'b' || lx.peek(1) == 'B') {
		lx.advance()
		baseCh := lx.advance()
		base := 16
		valid := isHexDigit
		if baseCh == 'o' || baseCh == 'O' {
			base = 8
			valid = func(r rune) bool { return '0' <= r && r <= '7' }
		} else if baseCh == 'b' || baseCh == 'B' {
			base = 2
			valid = func(r rune) bool { return r == '0' || r == '1' }
		}
		writeDigits(valid)
		if sb.Len() == 0 {
			return lx.errorHere(fmt.Sprintf("invalid base-%d integer literal", base), start)
		}

		val := new(big.Int)
		if _, ok := val.SetString(sb.String(), base); !ok {
			return lx.errorHere(fmt.Sprintf("invalid base-%d integer literal", base), start)
		}
		tok := lx.makeToken(TCInt, lx.lexemeSince(start), start)
		tok.IntVal = val
		lx.tokens = append(lx.tokens, tok)
		return nil
	}

	isFloat := false

	writeDigits(isDigit)
	if lx.pos < len(lx.chars) && lx.peek(0) == '.' && lx.peek(1) != '.' {
		isFloat = true
		sb.WriteRune(lx.advance())
		writeDigits(isDigit)
	}
	if lx.pos < len(lx.chars) && (lx.peek(0) == 'e' || lx.peek(0) == 'E') {
		next := lx.peek(1)
		nextNext := lx.peek(2)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(nextNext)) {
			isFloat = true
			sb.WriteRune(lx.advance())
			if lx.peek(0) == '+' || lx.peek(0) == '-' {
				sb.WriteRune(lx.advance())
			}
			writeDigits(isDigit)
		}
	}

	isImag := false
	if lx.pos < len(lx.chars) && (lx.peek(0) == 'j' || lx.peek(0) == 'J') {
		isImag = true
		lx.advance()
	}

	digits := sb.String()
	lexeme := lx.lexemeSince(start)

	if isImag {
		val, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return lx.errorHere("invalid imaginary literal", start)
		}
		tok := lx.makeToken(TCComplex, lexeme, start)
		tok.FloatVal = val
		lx.tokens = append(lx.tokens, tok)
		return nil
	}

	if isFloat {
		val, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return lx.errorHere("invalid float literal", start)
		}
		tok := lx.makeToken(TCFloat, lexeme, start)
		tok.FloatVal = val
		lx.tokens = append(lx.tokens, tok)
		return nil
	}

	val := new(big.Int)
	if _, ok := val.SetString(digits, 10); !ok {
		return lx.errorHere("invalid integer literal", start)
	}
	tok := lx.makeToken(TCInt, lexeme, start)
	tok.IntVal = val
	lx.tokens = append(lx.tokens, tok)
	return nil
}

// lexString reads a string literal at the current position. prefix is the
// already-lowercased string prefix ("", "r", "rb", "f", etc.); when non-empty
// the current position is at its first rune.
func (lx *lexer) lexString(prefix string) error {
	start := lx.mark()

	for range prefix {
		lx.advance()
	}

	raw := strings.ContainsRune(prefix, 'r')
	isBytes := strings.ContainsRune(prefix, 'b')
	isFString := strings.ContainsRune(prefix, 'f')

	quote := lx.advance()
	long := false
	if lx.peek(0) == quote && lx.peek(1) == quote {
		lx.advance()
		lx.advance()
		long = true
	} else if lx.peek(0) == quote {
		// empty short string
		lx.advance()
		lx.emitStringToken("", isBytes, isFString, start)
		return nil
	}

	var sb strings.Builder
	for {
		if lx.pos >= len(lx.chars) {
			return lx.errorHere("unterminated string literal", start)
		}

		ch := lx.peek(0)

		if ch == '\n' && !long {
			return lx.errorHere("end of line while scanning string literal", start)
		}

		if ch == quote {
			if !long {
				lx.advance()
				break
			}
			if lx.peek(1) == quote && lx.peek(2) == quote {
				lx.advance()
				lx.advance()
				lx.advance()
				break
			}
			sb.WriteRune(lx.advance())
			continue
		}

		if ch == '\\' {
			lx.advance()
			if lx.pos >= len(lx.chars) {
				return lx.errorHere("unterminated string literal", start)
			}
			esc := lx.advance()
			if raw {
				sb.WriteRune('\\')
				sb.WriteRune(esc)
				continue
			}
			decoded, err := lx.decodeEscape(esc, isBytes, start)
			if err != nil {
				return err
			}
			sb.WriteString(decoded)
			continue
		}

		sb.WriteRune(lx.advance())
	}

	lx.emitStringToken(sb.String(), isBytes, isFString, start)
	return nil
}

// decodeEscape handles the character after a backslash in a non-raw string.
// Escapes that are not recognized are kept literally, backslash included.
func (lx *lexer) decodeEscape(esc rune, isBytes bool, start lexMark) (string, error) {
	switch esc {
	case '\n':
		return "", nil
	case '\\':
		return "\\", nil
	case '\'':
		return "'", nil
	case '"':
		return "\"", nil
	case 'a':
		return "\a", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case 'n':
		return "\n", nil
	case 'r':
		return "\r", nil
	case 't':
		return "\t", nil
	case 'v':
		return "\v", nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		oct := string(esc)
		for len(oct) < 3 && lx.pos < len(lx.chars) && '0' <= lx.peek(0) && lx.peek(0) <= '7' {
			oct += string(lx.advance())
		}
		val, _ := strconv.ParseUint(oct, 8, 32)
		return string(rune(val)), nil
	case 'x':
		return lx.decodeHexEscape(2, isBytes, start)
	case 'u':
		if isBytes {
			return "\\u", nil
		}
		return lx.decodeHexEscape(4, false, start)
	case 'U':
		if isBytes {
			return "\\U", nil
		}
		return lx.decodeHexEscape(8, false, start)
	default:
		return "\\" + string(esc), nil
	}
}

func (lx *lexer) decodeHexEscape(digits int, isBytes bool, start lexMark) (string, error) {
	var hex string
	for i := 0; i < digits; i++ {
		if lx.pos >= len(lx.chars) || !isHexDigit(lx.peek(0)) {
			return "", lx.errorHere("truncated escape sequence in string literal", start)
		}
		hex += string(lx.advance())
	}
	val, _ := strconv.ParseUint(hex, 16, 32)
	if isBytes {
		return string([]byte{byte(val)}), nil
	}
	return string(rune(val)), nil
}

func (lx *lexer) emitStringToken(val string, isBytes bool, isFString bool, start lexMark) {
	if isBytes {
		tok := lx.makeToken(TCBytes, lx.lexemeSince(start), start)
		tok.BytesVal = []byte(val)
		lx.tokens = append(lx.tokens, tok)
		return
	}

	tok := lx.makeToken(TCString, lx.lexemeSince(start), start)
	tok.StrVal = val
	tok.FString = isFString
	lx.tokens = append(lx.tokens, tok)
}

// lexMark is a saved lexer position, used to backtrack and to compute token
// spans.
type lexMark struct {
	pos  int
	line int
	col  int
}

func (lx *lexer) mark() lexMark {
	return lexMark{pos: lx.pos, line: lx.line, col: lx.col}
}

func (lx *lexer) reset(m lexMark) {
	lx.pos = m.pos
	lx.line = m.line
	lx.col = m.col
}

func (lx *lexer) peek(n int) rune {
	if lx.pos+n >= len(lx.chars) {
		return 0
	}
	return lx.chars[lx.pos+n]
}

func (lx *lexer) peekStr(n int) string {
	if lx.pos+n > len(lx.chars) {
		return ""
	}
	return string(lx.chars[lx.pos : lx.pos+n])
}

func (lx *lexer) advance() rune {
	ch := lx.chars[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return ch
}

func (lx *lexer) fullLine() string {
	if lx.line-1 < len(lx.lines) {
		return lx.lines[lx.line-1]
	}
	return ""
}

func (lx *lexer) fullLineAt(line int) string {
	if line-1 < len(lx.lines) {
		return lx.lines[line-1]
	}
	return ""
}

func (lx *lexer) lexemeSince(start lexMark) string {
	return string(lx.chars[start.pos:lx.pos])
}

func (lx *lexer) makeToken(cl TokenClass, lexeme string, start lexMark) Token {
	return Token{
		Class:    cl,
		Lexeme:   lexeme,
		Line:     start.line,
		Pos:      start.col,
		EndLine:  lx.line,
		EndPos:   lx.col,
		FullLine: lx.fullLineAt(start.line),
	}
}

func (lx *lexer) emit(cl TokenClass, lexeme string, start lexMark) {
	lx.tokens = append(lx.tokens, lx.makeToken(cl, lexeme, start))
}

func (lx *lexer) emitSimple(cl TokenClass, lexeme string) {
	lx.emit(cl, lexeme, lx.mark())
}

func (lx *lexer) errorHere(msg string, start lexMark) error {
	return SyntaxError{
		Message:    msg,
		SourceLine: lx.fullLineAt(start.line),
		Source:     lx.lexemeSince(start),
		Line:       start.line,
		Pos:        start.col,
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
