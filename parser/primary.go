package parser

import (
	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/token"
)

// maxArgCombos bounds the combinatorial fan-out of a function call's
// argument list, each argument of which may itself be ambiguous.
const maxArgCombos = 16

// parsePrimary dispatches on the token at pos to build every precedence
// level 16 reading: literals, identifiers, grouping, and function calls.
func (p *Parser) parsePrimary(pos int) []candidate {
	var out []candidate

	if dateCands := p.parseDateTimeChain(pos); len(dateCands) > 0 {
		out = append(out, dateCands...)
	}
	if inst, ok := p.parseInstantLit(pos); ok {
		out = append(out, inst)
	}
	if kw, ok := p.parseKeywordInstant(pos); ok {
		out = append(out, kw)
	}
	if rel, ok := p.parseRelativeInstant(pos); ok {
		out = append(out, rel)
	}

	switch p.at(pos).Type {
	case token.TRUE:
		out = append(out, candidate{expr: &ast.BoolLit{BaseNode: ast.At(p.posOf(pos)), Value: true}, pos: pos + 1})
		return dedupeAndCap(out)
	case token.FALSE:
		out = append(out, candidate{expr: &ast.BoolLit{BaseNode: ast.At(p.posOf(pos)), Value: false}, pos: pos + 1})
		return dedupeAndCap(out)
	case token.CLOCK:
		if t, next, ok := p.parseTimeLit(pos); ok {
			out = append(out, candidate{expr: t, pos: next})
		}
		return dedupeAndCap(out)
	case token.CONSTANT_SYM:
		out = append(out, candidate{expr: &ast.ConstRef{BaseNode: ast.At(p.posOf(pos)), Name: p.at(pos).Literal}, pos: pos + 1})
		return dedupeAndCap(out)
	case token.CURRENCY_NUM:
		out = append(out, p.parseCurrencyMeasured(pos))
		return dedupeAndCap(out)
	case token.INT, token.FLOAT:
		out = append(out, p.parseNumberAndUnits(pos)...)
		return dedupeAndCap(out)
	case token.LPAREN:
		out = append(out, p.parseGrouped(pos)...)
		return dedupeAndCap(out)
	case token.IDENT:
		out = append(out, p.parseIdentPrimary(pos)...)
		return dedupeAndCap(out)
	}
	return dedupeAndCap(out)
}

func (p *Parser) parseCurrencyMeasured(pos int) candidate {
	tok := p.at(pos)
	symbol, numeric := splitCurrencyLiteral(tok.Literal)
	numberLit := &ast.NumberLit{BaseNode: ast.At(p.posOf(pos)), Value: mustParseFloat(numeric), Base: 10, Raw: numeric}
	unitExpr := &ast.UnitExpr{
		BaseNode:  ast.At(p.posOf(pos)),
		Numerator: []ast.UnitTerm{{Name: symbol, Exponent: ast.Exponent{Num: 1, Den: 1}}},
	}
	return candidate{
		expr: &ast.MeasuredLit{BaseNode: ast.At(p.posOf(pos)), Number: numberLit, Unit: unitExpr},
		pos:  pos + 1,
	}
}

func mustParseFloat(s string) float64 {
	v, _ := parseFloatLiteral(s)
	return v
}

func (p *Parser) parseGrouped(pos int) []candidate {
	var out []candidate
	for _, inner := range p.parseLevel1(pos + 1) {
		if p.at(inner.pos).Type != token.RPAREN {
			continue
		}
		out = append(out, candidate{
			expr: &ast.Grouped{BaseNode: ast.At(p.posOf(pos)), Inner: inner.expr},
			pos:  inner.pos + 1,
		})
	}
	return out
}

// parseIdentPrimary handles ambiguity case 1 at the level of a bare
// identifier reference: a function call when followed by `(`, a constant
// reference when the catalog recognizes the name (alongside a variable
// reading, since a document may shadow a constant name with its own
// variable), or else a plain variable reference.
func (p *Parser) parseIdentPrimary(pos int) []candidate {
	name := p.at(pos).Literal
	var out []candidate

	if p.at(pos+1).Type == token.LPAREN {
		out = append(out, p.parseFuncCall(pos)...)
	}

	if c, ok := p.cat.Constant(name); ok {
		out = append(out, candidate{expr: &ast.ConstRef{BaseNode: ast.At(p.posOf(pos)), Name: c.Name}, pos: pos + 1})
	}

	out = append(out, candidate{expr: &ast.VarRef{BaseNode: ast.At(p.posOf(pos)), Name: name}, pos: pos + 1})
	return out
}

func (p *Parser) parseFuncCall(pos int) []candidate {
	name := p.at(pos).Literal
	if p.at(pos+1).Type != token.LPAREN {
		return nil
	}
	argLists := p.parseArgList(pos + 2)
	var out []candidate
	for _, al := range argLists {
		if p.at(al.pos).Type != token.RPAREN {
			continue
		}
		out = append(out, candidate{
			expr: &ast.FuncCall{BaseNode: ast.At(p.posOf(pos)), Name: name, Args: al.args},
			pos:  al.pos + 1,
		})
	}
	return out
}

type argListCand struct {
	args []ast.Expr
	pos  int
}

// parseArgList parses zero or more comma-separated expressions up to (but
// not consuming) the closing `)`.
func (p *Parser) parseArgList(pos int) []argListCand {
	if p.at(pos).Type == token.RPAREN {
		return []argListCand{{args: nil, pos: pos}}
	}
	firsts := p.parseLevel1(pos)
	var out []argListCand
	for _, f := range firsts {
		if p.at(f.pos).Type == token.COMMA {
			for _, rest := range p.parseArgList(f.pos + 1) {
				combined := append([]ast.Expr{f.expr}, rest.args...)
				out = append(out, argListCand{args: combined, pos: rest.pos})
				if len(out) >= maxArgCombos {
					return out
				}
			}
			continue
		}
		out = append(out, argListCand{args: []ast.Expr{f.expr}, pos: f.pos})
		if len(out) >= maxArgCombos {
			return out
		}
	}
	return out
}

// parseNumberAndUnits builds every reading of a number optionally followed
// by unit terms: the bare number, measured literals (ambiguity cases 1, 2,
// 4), composite measurements, and the implicit-multiplication alternative
// to a two-component composite (ambiguity case 3).
func (p *Parser) parseNumberAndUnits(pos int) []candidate {
	num, ok := p.parseNumberLit(pos)
	if !ok {
		return nil
	}
	out := []candidate{{expr: num.lit, pos: num.pos}}

	// `25%` / `25‰` as a percentage literal. The
	// modulo reading of `%` stays available through the ordinary binary
	// operator path; this candidate only survives when no right operand
	// follows.
	switch p.at(num.pos).Type {
	case token.PERCENT:
		out = append(out, candidate{
			expr: &ast.NumberLit{BaseNode: ast.At(p.posOf(pos)), Value: num.lit.Value / 100, Base: 10, Raw: num.lit.Raw + "%"},
			pos:  num.pos + 1,
		})
	case token.PERMILLE:
		out = append(out, candidate{
			expr: &ast.NumberLit{BaseNode: ast.At(p.posOf(pos)), Value: num.lit.Value / 1000, Base: 10, Raw: num.lit.Raw + "‰"},
			pos:  num.pos + 1,
		})
	}

	measured := p.parseMeasuredAt(pos, num)
	out = append(out, measured...)
	for _, m := range measured {
		ml, ok := m.expr.(*ast.MeasuredLit)
		if !ok {
			continue
		}
		out = append(out, p.parseCompositeTail([]*ast.MeasuredLit{ml}, m.pos)...)
	}
	return dedupeAndCap(out)
}

func (p *Parser) parseMeasuredAt(pos int, num numberLitResult) []candidate {
	var out []candidate
	for _, u := range p.parseUnitExpr(num.pos) {
		out = append(out, candidate{
			expr: &ast.MeasuredLit{BaseNode: ast.At(p.posOf(pos)), Number: num.lit, Unit: u.expr},
			pos:  u.pos,
		})
	}
	return out
}

const maxCompositeComponents = 6

func (p *Parser) parseCompositeTail(components []*ast.MeasuredLit, pos int) []candidate {
	if len(components) >= maxCompositeComponents {
		return nil
	}
	nextNum, ok := p.parseNumberLit(pos)
	if !ok {
		return nil
	}
	var out []candidate
	for _, m := range p.parseMeasuredAt(pos, nextNum) {
		nm, ok := m.expr.(*ast.MeasuredLit)
		if !ok {
			continue
		}
		list := append(append([]*ast.MeasuredLit{}, components...), nm)
		composite := &ast.CompositeLit{BaseNode: components[0].BaseNode, Components: list}
		out = append(out, candidate{expr: composite, pos: m.pos})
		out = append(out, p.parseCompositeTail(list, m.pos)...)

		if len(components) == 1 {
			implicitMul := &ast.BinaryExpr{
				BaseNode: components[0].BaseNode, Op: token.STAR, Left: components[0], Right: nm,
			}
			out = append(out, candidate{expr: implicitMul, pos: m.pos})
		}
	}
	return out
}
