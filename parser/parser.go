// Package parser implements calcline's grammar parser: given a
// token stream for one logical line, it produces the complete set of
// syntactically valid candidate parse trees, rather than a single tree.
// Five recurrent constructs are grammatically ambiguous (identifier as
// unit vs. variable, multi-word unit vs. product, composite measurement
// vs. product, derived-unit numerator vs. division, and composite
// conversion target vs. nested conversions); this parser emits every
// reading it can build and leaves selection to package resolve.
package parser

import (
	"fmt"
	"strings"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/lexer"
	"github.com/ha1tch/calcline/token"
)

// maxCandidates bounds how many candidate trees a single ambiguity point
// (and the parse as a whole) may carry forward, so a pathological line of
// many juxtaposed identifiers cannot blow up combinatorially. Chosen well
// above what any realistic line needs; see DESIGN.md.
const maxCandidates = 24

// candidate is one partial parse: an expression and the token index just
// past its last consumed token.
type candidate struct {
	expr ast.Expr
	pos  int
}

// LineKind tags what a source line turned out to be.
type LineKind int

const (
	KindEmpty LineKind = iota
	KindHeading
	KindAssignment
	KindExpression
	KindPlainText
	KindLexerError
	KindParserError
)

// LineResult is the parser's output for one line: either a non-expression
// marker, a lexer/parser error, or a set of candidate expression trees
// (for Expression and Assignment lines).
type LineResult struct {
	Kind         LineKind
	HeadingLevel int
	HeadingText  string
	PlainText    string
	AssignName   string
	Candidates   []ast.Expr
	Errors       []string
}

// Parser holds one line's tokens and the catalog consulted for unit-name
// recognition.
type Parser struct {
	toks []token.Token
	cat  catalog.Catalog
}

func newParser(toks []token.Token, cat catalog.Catalog) *Parser {
	return &Parser{toks: toks, cat: cat}
}

func (p *Parser) at(pos int) token.Token {
	if pos < 0 || pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[pos]
}

func (p *Parser) posOf(i int) token.Position {
	return p.at(i).Pos()
}

// ParseLine tokenizes and parses one logical line.
func ParseLine(raw string, lineNo int, cat catalog.Catalog) LineResult {
	trimmed := strings.TrimRight(raw, "\r\n")

	if strings.TrimSpace(trimmed) == "" {
		return LineResult{Kind: KindEmpty}
	}

	leadTrimmed := strings.TrimLeft(trimmed, " \t")
	if strings.HasPrefix(leadTrimmed, "#") {
		level := 0
		for level < len(leadTrimmed) && leadTrimmed[level] == '#' {
			level++
		}
		return LineResult{Kind: KindHeading, HeadingLevel: level, HeadingText: strings.TrimSpace(leadTrimmed[level:])}
	}

	toks := lexer.Tokenize(trimmed, lineNo)
	for _, tk := range toks {
		if tk.Type == token.ILLEGAL {
			return LineResult{Kind: KindLexerError, Errors: []string{
				fmt.Sprintf("unrecognized character %q at offset %d", tk.Literal, tk.Offset),
			}}
		}
	}

	p := newParser(toks, cat)

	if len(toks) >= 3 && toks[0].Type == token.IDENT && toks[1].Type == token.EQ {
		rhs := dedupeAndCap(p.parseLevel1(2))
		final := completeCandidates(rhs, len(toks)-1)
		if len(final) == 0 {
			return LineResult{Kind: KindParserError, Errors: []string{"no candidate parse for assignment right-hand side"}}
		}
		return LineResult{Kind: KindAssignment, AssignName: toks[0].Literal, Candidates: toExprs(final)}
	}

	all := dedupeAndCap(p.parseLevel1(0))
	final := completeCandidates(all, len(toks)-1)
	if len(final) == 0 {
		return LineResult{Kind: KindPlainText, PlainText: trimmed}
	}
	return LineResult{Kind: KindExpression, Candidates: toExprs(final)}
}

// completeCandidates keeps only candidates that consumed every token up to
// (not including) the trailing EOF token at index eofPos.
func completeCandidates(cs []candidate, eofPos int) []candidate {
	out := make([]candidate, 0, len(cs))
	for _, c := range cs {
		if c.pos == eofPos {
			out = append(out, c)
		}
	}
	return out
}

func toExprs(cs []candidate) []ast.Expr {
	out := make([]ast.Expr, len(cs))
	for i, c := range cs {
		out[i] = c.expr
	}
	return out
}

// dedupeAndCap removes structurally identical candidates (same rendered
// String() at the same ending position) and truncates to maxCandidates.
func dedupeAndCap(cs []candidate) []candidate {
	seen := map[string]bool{}
	out := make([]candidate, 0, len(cs))
	for _, c := range cs {
		key := fmt.Sprintf("%d:%s", c.pos, c.expr.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) >= maxCandidates {
			break
		}
	}
	return out
}
