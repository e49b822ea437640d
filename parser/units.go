package parser

import (
	"strings"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/token"
)

// maxUnitBranches bounds the fan-out of a single unit-term chain parse so a
// long run of bare identifiers cannot blow up combinatorially.
const maxUnitBranches = 8

type unitExprCand struct {
	expr *ast.UnitExpr
	pos  int
}

type unitMatch struct {
	term ast.UnitTerm
	pos  int
}

func (p *Parser) identWordAt(pos int) (string, bool) {
	tok := p.at(pos)
	if tok.Type != token.IDENT {
		return "", false
	}
	return strings.ToLower(tok.Literal), true
}

// unitWordAt is identWordAt widened to the keyword tokens that double as
// unit names in measured-literal position: `in` is both the conversion
// operator and the inch symbol (`5 ft 3 in`). The resolver decides which
// reading a line meant.
func (p *Parser) unitWordAt(pos int) (string, bool) {
	tok := p.at(pos)
	switch tok.Type {
	case token.IDENT, token.IN:
		return strings.ToLower(tok.Literal), true
	}
	return "", false
}

func (p *Parser) matchWords(pos int, words []string) bool {
	for i, w := range words {
		lit, ok := p.unitWordAt(pos + i)
		if !ok || lit != w {
			return false
		}
	}
	return true
}

// symbolUnitNames maps the prime/double-prime/degree glyph tokens to the
// unit each one abbreviates (`5' 3"` is feet and inches, `45°` degrees).
var symbolUnitNames = map[token.Type]string{
	token.PRIME:    "foot",
	token.DBLPRIME: "inch",
	token.DEGREE:   "degree",
}

// matchUnitNames implements ambiguity case 2: it offers both the longest
// catalog multi-word match starting at pos (if any) and the plain
// single-word reading, so the resolver can choose between a named
// multi-word unit and a product of smaller units.
func (p *Parser) matchUnitNames(pos int) []unitMatch {
	if name, ok := symbolUnitNames[p.at(pos).Type]; ok {
		return []unitMatch{{term: ast.UnitTerm{Name: name, Exponent: ast.Exponent{Num: 1, Den: 1}}, pos: pos + 1}}
	}
	word, ok := p.unitWordAt(pos)
	if !ok {
		return nil
	}
	var out []unitMatch
	bestLen := 0
	var bestName string
	for _, name := range p.cat.UnitNames() {
		words := strings.Fields(strings.ToLower(name))
		if len(words) <= 1 || len(words) <= bestLen {
			continue
		}
		if p.matchWords(pos, words) {
			bestLen = len(words)
			bestName = name
		}
	}
	if bestLen > 1 {
		out = append(out, unitMatch{term: ast.UnitTerm{Name: bestName, Exponent: ast.Exponent{Num: 1, Den: 1}}, pos: pos + bestLen})
	}
	out = append(out, unitMatch{term: ast.UnitTerm{Name: word, Exponent: ast.Exponent{Num: 1, Den: 1}}, pos: pos + 1})
	return out
}

// absorbExponent recognizes a trailing `^N` or Unicode superscript run as a
// unit term's exponent.
func (p *Parser) absorbExponent(pos int) (ast.Exponent, int) {
	if p.at(pos).Type == token.CARET && p.at(pos+1).Type == token.INT {
		if n, ok := parseIntLiteral(p.at(pos + 1).Literal); ok {
			return ast.Exponent{Num: n, Den: 1}, pos + 2
		}
	}
	if p.at(pos).Type == token.SUPERSCRIPT {
		if n, ok := decodeSuperscript(p.at(pos).Literal); ok {
			return ast.Exponent{Num: n, Den: 1}, pos + 1
		}
	}
	return ast.Exponent{Num: 1, Den: 1}, pos
}

var superscriptDigits = map[rune]int{
	'⁰': 0, '¹': 1, '²': 2, '³': 3, '⁴': 4, '⁵': 5, '⁶': 6, '⁷': 7, '⁸': 8, '⁹': 9,
}

func decodeSuperscript(s string) (int, bool) {
	neg := strings.HasPrefix(s, "⁻")
	if neg {
		s = strings.TrimPrefix(s, "⁻")
	}
	if s == "" {
		return 0, false
	}
	val := 0
	for _, r := range s {
		d, ok := superscriptDigits[r]
		if !ok {
			return 0, false
		}
		val = val*10 + d
	}
	if neg {
		val = -val
	}
	return val, true
}

// parseOneUnitTerm folds square/squared/cubic/cubed modifiers and an
// explicit exponent onto the base name match(es).
func (p *Parser) parseOneUnitTerm(pos int) []unitMatch {
	prefixExp := ast.Exponent{Num: 1, Den: 1}
	start := pos
	switch p.at(pos).Type {
	case token.SQUARE:
		prefixExp = ast.Exponent{Num: 2, Den: 1}
		start = pos + 1
	case token.CUBIC:
		prefixExp = ast.Exponent{Num: 3, Den: 1}
		start = pos + 1
	}
	matches := p.matchUnitNames(start)
	var out []unitMatch
	for _, m := range matches {
		exp := prefixExp
		next := m.pos
		switch p.at(next).Type {
		case token.SQUARED:
			exp = ast.Exponent{Num: 2, Den: 1}
			next++
		case token.CUBED:
			exp = ast.Exponent{Num: 3, Den: 1}
			next++
		default:
			if e, np := p.absorbExponent(next); np != next {
				exp = e
				next = np
			}
		}
		out = append(out, unitMatch{term: ast.UnitTerm{Name: m.term.Name, Exponent: exp}, pos: next})
	}
	return out
}

type termChain struct {
	terms []ast.UnitTerm
	pos   int
}

// parseUnitTermChain builds every reading of a run of unit-name tokens:
// stop after one term, or continue via an explicit `*`/`·`/`×` join, or
// continue via bare juxtaposition (ambiguity cases 2 and 3 both fall out
// of offering both the "stop" and "continue" branches at every term).
func (p *Parser) parseUnitTermChain(pos int) []termChain {
	firsts := p.parseOneUnitTerm(pos)
	var out []termChain
	for _, first := range firsts {
		out = append(out, termChain{terms: []ast.UnitTerm{first.term}, pos: first.pos})
		if len(out) >= maxUnitBranches {
			break
		}
		if p.at(first.pos).Type == token.STAR {
			for _, rest := range p.parseUnitTermChain(first.pos + 1) {
				out = append(out, termChain{terms: append(append([]ast.UnitTerm{}, first.term), rest.terms...), pos: rest.pos})
				if len(out) >= maxUnitBranches {
					break
				}
			}
		}
		_, isWord := p.unitWordAt(first.pos)
		_, isSymbol := symbolUnitNames[p.at(first.pos).Type]
		if isWord || isSymbol {
			for _, rest := range p.parseUnitTermChain(first.pos) {
				out = append(out, termChain{terms: append(append([]ast.UnitTerm{}, first.term), rest.terms...), pos: rest.pos})
				if len(out) >= maxUnitBranches {
					break
				}
			}
		}
	}
	if len(out) > maxUnitBranches {
		out = out[:maxUnitBranches]
	}
	return out
}

// parseUnitExpr builds the full numerator/denominator unit expression,
// including ambiguity case 4: a trailing `/ident` may extend the unit's
// denominator, or it may be the ordinary division operator — both
// readings are returned (the latter simply by stopping before the slash).
func (p *Parser) parseUnitExpr(pos int) []unitExprCand {
	nums := p.parseUnitTermChain(pos)
	var out []unitExprCand
	for _, n := range nums {
		out = append(out, unitExprCand{
			expr: &ast.UnitExpr{BaseNode: ast.At(p.posOf(pos)), Numerator: n.terms},
			pos:  n.pos,
		})
		if p.at(n.pos).Type == token.SLASH {
			for _, d := range p.parseUnitTermChain(n.pos + 1) {
				out = append(out, unitExprCand{
					expr: &ast.UnitExpr{BaseNode: ast.At(p.posOf(pos)), Numerator: n.terms, Denominator: d.terms},
					pos:  d.pos,
				})
			}
		}
	}
	if len(out) > maxUnitBranches {
		out = out[:maxUnitBranches]
	}
	return out
}
