// Package lexer implements a single-pass, recoverable tokenizer for one
// logical line of calcline input.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ha1tch/calcline/token"
)

// currencySymbols lists symbol glyphs the lexer recognizes when immediately
// followed by a digit. This is a
// small fixed set the tokenizer needs independent of the data catalog, which
// only resolves currency *codes* and minor-unit digits.
var currencySymbols = map[rune]bool{
	'$': true, '€': true, '£': true, '¥': true, '₩': true, '₹': true,
	'₽': true, '₺': true, '₫': true, '₴': true, '₪': true, '฿': true,
	'₦': true, '₱': true, '₲': true, '₡': true, '₵': true,
}

// constantSymbols lists non-identifier constant glyphs recognized directly
// as a CONSTANT_SYM token; the catalog owns their numeric values.
var constantSymbols = map[rune]bool{
	'π': true, 'φ': true, '∞': true, 'τ': true,
}

var superDigits = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// multiWordKeywords maps a lowercase phrase to its token type. Checked after
// scanning an identifier followed by a run of identifier or number words
// separated by spaces.
var multiWordKeywords = map[string]token.Type{
	"sig figs":             token.SIG_FIGS,
	"significant figures":  token.SIG_FIGS,
	"iso 8601":             token.ISO_8601,
	"rfc 9557":             token.RFC_9557,
	"rfc 2822":             token.RFC_2822,
	"days of year":         token.DAYS_OF_YEAR,
	"weeks of year":        token.WEEKS_OF_YEAR,
}

// Lexer scans a single line of calcline source into tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	chSize       int
	line         int
}

// New creates a Lexer over one logical line (no embedded newlines expected,
// though NEWLINE tokens are tolerated for callers that feed whole documents).
func New(input string, line int) *Lexer {
	l := &Lexer{input: input, line: line}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(byteOffset int) rune {
	pos := l.readPosition + byteOffset
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) newToken(typ token.Type, literal string, offset int) token.Token {
	return token.Token{Type: typ, Literal: literal, Offset: offset, Line: l.line}
}

// NextToken returns the next token, advancing the scan position. At end of
// input it returns an EOF token repeatedly.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	offset := l.position

	switch {
	case l.ch == 0:
		return l.newToken(token.EOF, "", offset)
	case l.ch == '\n':
		l.readChar()
		return l.newToken(token.NEWLINE, "\n", offset)
	case l.ch == '+':
		l.readChar()
		return l.newToken(token.PLUS, "+", offset)
	case l.ch == '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.newToken(token.ARROW, "->", offset)
		}
		l.readChar()
		return l.newToken(token.MINUS, "-", offset)
	case l.ch == '→':
		l.readChar()
		return l.newToken(token.ARROW, "→", offset)
	case l.ch == '*' || l.ch == '·' || l.ch == '×':
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.STAR, lit, offset)
	case l.ch == '/' || l.ch == '÷':
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.SLASH, lit, offset)
	case l.ch == '^':
		l.readChar()
		return l.newToken(token.CARET, "^", offset)
	case l.ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.NEQ, "!=", offset)
		}
		l.readChar()
		return l.newToken(token.BANG, "!", offset)
	case l.ch == '~':
		l.readChar()
		return l.newToken(token.TILDE, "~", offset)
	case l.ch == '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.newToken(token.ANDAND, "&&", offset)
		}
		l.readChar()
		return l.newToken(token.AMP, "&", offset)
	case l.ch == '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.newToken(token.OROR, "||", offset)
		}
		l.readChar()
		return l.newToken(token.PIPE, "|", offset)
	case l.ch == '(':
		l.readChar()
		return l.newToken(token.LPAREN, "(", offset)
	case l.ch == ')':
		l.readChar()
		return l.newToken(token.RPAREN, ")", offset)
	case l.ch == '[':
		l.readChar()
		return l.newToken(token.LBRACKET, "[", offset)
	case l.ch == ']':
		l.readChar()
		return l.newToken(token.RBRACKET, "]", offset)
	case l.ch == ',':
		l.readChar()
		return l.newToken(token.COMMA, ",", offset)
	case l.ch == ':':
		return l.readColonOrClock(offset)
	case l.ch == '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.EQEQ, "==", offset)
		}
		l.readChar()
		return l.newToken(token.EQ, "=", offset)
	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.LTE, "<=", offset)
		}
		if l.peekChar() == '<' {
			l.readChar()
			l.readChar()
			return l.newToken(token.SHL, "<<", offset)
		}
		l.readChar()
		return l.newToken(token.LT, "<", offset)
	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(token.GTE, ">=", offset)
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.newToken(token.SHR, ">>", offset)
		}
		l.readChar()
		return l.newToken(token.GT, ">", offset)
	case l.ch == '#':
		l.readChar()
		return l.newToken(token.HASH, "#", offset)
	case l.ch == '%':
		l.readChar()
		return l.newToken(token.PERCENT, "%", offset)
	case l.ch == '‰':
		l.readChar()
		return l.newToken(token.PERMILLE, "‰", offset)
	case l.ch == '\'' || l.ch == '′':
		if l.ch == '\'' && l.peekChar() == '\'' {
			l.readChar()
			l.readChar()
			return l.newToken(token.DBLPRIME, "''", offset)
		}
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.PRIME, lit, offset)
	case l.ch == '"' || l.ch == '″':
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.DBLPRIME, lit, offset)
	case l.ch == '°' || l.ch == 'º' || l.ch == '˚':
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.DEGREE, lit, offset)
	case l.ch == '.':
		if isDigit(l.peekChar()) {
			lit, typ := l.readNumberFromDot()
			return token.Token{Type: typ, Literal: lit, Offset: offset, Line: l.line}
		}
		l.readChar()
		return l.newToken(token.DOT, ".", offset)
	case isDigit(l.ch):
		return l.readNumericOrClock(offset)
	case constantSymbols[l.ch]:
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.CONSTANT_SYM, lit, offset)
	case currencySymbols[l.ch] && isDigit(l.peekChar()):
		sym := l.ch
		l.readChar()
		lit, _ := l.readNumber()
		return token.Token{Type: token.CURRENCY_NUM, Literal: string(sym) + lit, Offset: offset, Line: l.line}
	case superDigits[l.ch] != 0 || (l.ch == '⁻' && superDigits[l.peekChar()] != 0):
		lit := l.readSuperscript()
		return token.Token{Type: token.SUPERSCRIPT, Literal: lit, Offset: offset, Line: l.line}
	case isIdentStart(l.ch):
		return l.readIdentifierOrKeyword(offset)
	default:
		lit := string(l.ch)
		l.readChar()
		return l.newToken(token.ILLEGAL, lit, offset)
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readColonOrClock(offset int) token.Token {
	// Try HH:MM(:SS)? starting one digit-group back is the caller's job;
	// here we've already landed mid-expression at ':' with no preceding
	// digits consumed by us, so ':' alone is a delimiter. Clock literals are
	// recognized starting from the leading digit run in readNumericOrClock.
	l.readChar()
	return l.newToken(token.COLON, ":", offset)
}

func (l *Lexer) readNumericOrClock(offset int) token.Token {
	start := l.position
	digits := l.scanDigitRun()
	// HH:MM(:SS)?
	if len(digits) == 2 && l.ch == ':' && isDigit(l.peekChar()) {
		savedPos, savedRead, savedCh, savedSize := l.position, l.readPosition, l.ch, l.chSize
		l.readChar() // consume ':'
		mm := l.scanDigitRun()
		if len(mm) == 2 {
			lit := l.input[start:l.position]
			if l.ch == ':' && isDigit(l.peekChar()) {
				l.readChar()
				ss := l.scanDigitRun()
				if len(ss) == 2 {
					lit = l.input[start:l.position]
					return token.Token{Type: token.CLOCK, Literal: lit, Offset: offset, Line: l.line}
				}
			}
			return token.Token{Type: token.CLOCK, Literal: lit, Offset: offset, Line: l.line}
		}
		// Not a clock literal after all; restore and fall through to number.
		l.position, l.readPosition, l.ch, l.chSize = savedPos, savedRead, savedCh, savedSize
	}

	// Hex / octal / binary prefix only valid for a bare leading "0".
	if digits == "0" {
		if l.ch == 'x' || l.ch == 'X' {
			l.readChar()
			l.scanHexDigitsWithSeparators()
			return token.Token{Type: token.INT, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
		}
		if l.ch == 'o' || l.ch == 'O' {
			l.readChar()
			l.scanDigitsWithSeparators(isOctalDigit)
			return token.Token{Type: token.INT, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
		}
		if l.ch == 'b' || l.ch == 'B' {
			l.readChar()
			l.scanDigitsWithSeparators(isBinaryDigit)
			return token.Token{Type: token.INT, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
		}
	}

	typ := token.INT
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		l.scanDigitRun()
		typ = token.FLOAT
	}
	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.scanDigitRun()
		typ = token.FLOAT
	}
	return token.Token{Type: typ, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
}

func (l *Lexer) readNumberFromDot() (string, token.Type) {
	start := l.position
	l.readChar() // consume '.'
	l.scanDigitRun()
	typ := token.FLOAT
	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.scanDigitRun()
	}
	return l.input[start:l.position], typ
}

func (l *Lexer) readNumber() (string, token.Type) {
	start := l.position
	l.scanDigitRun()
	typ := token.INT
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		l.scanDigitRun()
		typ = token.FLOAT
	}
	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.scanDigitRun()
		typ = token.FLOAT
	}
	return l.input[start:l.position], typ
}

// exponentFollows reports whether the char after 'e'/'E' (skipping an
// optional sign) is a digit, so the marker is only consumed as scientific
// notation when it is actually flanked by digits.
func (l *Lexer) exponentFollows() bool {
	next := l.peekChar()
	if next == '+' || next == '-' {
		return isDigit(l.peekCharAt(l.chSize))
	}
	return isDigit(next)
}

// scanDigitRun consumes a run of decimal digits permitting internal
// underscore separators (never leading or trailing a digit group) and
// returns the digits actually consumed (underscores excluded from the
// returned count check, included in the literal via the caller's slicing).
func (l *Lexer) scanDigitRun() string {
	start := l.position
	for isDigit(l.ch) || (l.ch == '_' && isDigit(l.peekChar())) {
		l.readChar()
	}
	return strings.ReplaceAll(l.input[start:l.position], "_", "")
}

func (l *Lexer) scanDigitsWithSeparators(pred func(rune) bool) {
	for pred(l.ch) || (l.ch == '_' && pred(l.peekChar())) {
		l.readChar()
	}
}

func (l *Lexer) scanHexDigitsWithSeparators() {
	l.scanDigitsWithSeparators(isHexDigit)
}

func (l *Lexer) readSuperscript() string {
	start := l.position
	if l.ch == '⁻' {
		l.readChar()
	}
	for superDigits[l.ch] != 0 {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readIdentifierOrKeyword(offset int) token.Token {
	start := l.position
	for isIdentCont(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.position]
	lower := strings.ToLower(word)

	if typ, ok := multiWordKeywords[lower]; ok {
		if extended, consumed := l.tryExtendMultiWord(lower); consumed {
			return token.Token{Type: extended, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
		}
		return token.Token{Type: typ, Literal: word, Offset: offset, Line: l.line}
	}

	// Greedily probe for a second/third word that extends this one into a
	// recognized multi-word keyword phrase (e.g. "significant" + "figures",
	// "days" + "of" + "year").
	if extended, consumed := l.tryExtendMultiWord(lower); consumed {
		return token.Token{Type: extended, Literal: l.input[start:l.position], Offset: offset, Line: l.line}
	}

	typ := token.LookupIdent(lower)
	return token.Token{Type: typ, Literal: word, Offset: offset, Line: l.line}
}

// tryExtendMultiWord looks ahead past whitespace for more identifier or
// number words (the "8601" of "ISO 8601") that combine with the already-scanned lowercase word(s) into one of the
// fixed multi-word phrases; it restores lexer state on failure.
func (l *Lexer) tryExtendMultiWord(soFar string) (token.Type, bool) {
	savedPos, savedRead, savedCh, savedSize := l.position, l.readPosition, l.ch, l.chSize
	phrase := soFar
	for i := 0; i < 3; i++ {
		skipPos, skipRead, skipCh, skipSize := l.position, l.readPosition, l.ch, l.chSize
		for l.ch == ' ' || l.ch == '\t' {
			l.readChar()
		}
		if !isIdentStart(l.ch) && !isDigit(l.ch) {
			l.position, l.readPosition, l.ch, l.chSize = skipPos, skipRead, skipCh, skipSize
			break
		}
		wstart := l.position
		for isIdentCont(l.ch) {
			l.readChar()
		}
		word := strings.ToLower(l.input[wstart:l.position])
		candidate := phrase + " " + word
		if typ, ok := multiWordKeywords[candidate]; ok {
			return typ, true
		}
		if !hasPrefixPhrase(candidate) {
			l.position, l.readPosition, l.ch, l.chSize = skipPos, skipRead, skipCh, skipSize
			break
		}
		phrase = candidate
	}
	l.position, l.readPosition, l.ch, l.chSize = savedPos, savedRead, savedCh, savedSize
	return token.ILLEGAL, false
}

func hasPrefixPhrase(prefix string) bool {
	for phrase := range multiWordKeywords {
		if strings.HasPrefix(phrase, prefix) {
			return true
		}
	}
	return false
}

func isDigit(ch rune) bool      { return ch >= '0' && ch <= '9' }
func isHexDigit(ch rune) bool   { return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') }
func isOctalDigit(ch rune) bool { return ch >= '0' && ch <= '7' }
func isBinaryDigit(ch rune) bool { return ch == '0' || ch == '1' }

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentCont(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

// Tokenize scans an entire single-line input into a token slice, terminated
// by (and including) an EOF token. Unrecognized characters surface as
// ILLEGAL tokens rather than aborting the scan, keeping tokenization
// recoverable.
func Tokenize(input string, line int) []token.Token {
	l := New(input, line)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}
