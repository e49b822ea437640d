package parser

import (
	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/token"
)

// The parseLevelN family implements the operator-precedence table as an
// iterative left-associative candidate-set builder: each level parses its
// next-higher level once to get a seed set, then repeatedly tries to
// extend every live candidate with (operator, right-operand) while an
// operator at this level is present. Extension strictly advances the
// token position, so the loop always terminates.

func (p *Parser) parseLeftAssoc(pos int, ops []token.Type, next func(int) []candidate) []candidate {
	cands := next(pos)
	changed := true
	for changed {
		changed = false
		var extended []candidate
		for _, c := range cands {
			opTok := p.at(c.pos)
			matched := false
			for _, want := range ops {
				if opTok.Type == want {
					matched = true
					break
				}
			}
			if !matched {
				extended = append(extended, c)
				continue
			}
			rhs := next(c.pos + 1)
			if len(rhs) == 0 {
				extended = append(extended, c)
				continue
			}
			for _, r := range rhs {
				extended = append(extended, candidate{
					expr: &ast.BinaryExpr{BaseNode: ast.At(p.posOf(c.pos)), Op: opTok.Type, Left: c.expr, Right: r.expr},
					pos:  r.pos,
				})
				changed = true
			}
		}
		cands = dedupeAndCap(extended)
	}
	return cands
}

// parseLevel1 is if/then/else (right-associative ternary) or, failing
// that, falls straight through to the conversion level.
func (p *Parser) parseLevel1(pos int) []candidate {
	if p.at(pos).Type == token.IF {
		conds := p.parseLevel1(pos + 1)
		var out []candidate
		for _, cond := range conds {
			if p.at(cond.pos).Type != token.THEN {
				continue
			}
			thens := p.parseLevel1(cond.pos + 1)
			for _, th := range thens {
				if p.at(th.pos).Type != token.ELSE {
					continue
				}
				elses := p.parseLevel1(th.pos + 1)
				for _, el := range elses {
					out = append(out, candidate{
						expr: &ast.CondExpr{BaseNode: ast.At(p.posOf(pos)), Cond: cond.expr, Then: th.expr, Else: el.expr},
						pos:  el.pos,
					})
				}
			}
		}
		out = dedupeAndCap(out)
		if len(out) > 0 {
			return out
		}
	}
	return p.parseLevel2(pos)
}

var conversionOps = []token.Type{token.TO, token.IN, token.AS, token.ARROW}

// parseLevel2 handles the conversion operators and ambiguity case 5
// (composite target vs. nested conversions).
func (p *Parser) parseLevel2(pos int) []candidate {
	sources := p.parseLevel3(pos)
	var out []candidate
	for _, s := range sources {
		out = append(out, s)
	}
	changed := true
	for changed {
		changed = false
		var next []candidate
		for _, c := range out {
			opTok := p.at(c.pos)
			isConv := false
			for _, want := range conversionOps {
				if opTok.Type == want {
					isConv = true
					break
				}
			}
			if !isConv {
				next = append(next, c)
				continue
			}
			targets := p.parseConversionTarget(c.pos + 1)
			for _, t := range targets {
				conv := &ast.ConversionExpr{BaseNode: ast.At(p.posOf(c.pos)), Source: c.expr, Op: opTok.Type, Target: t.target}
				next = append(next, candidate{expr: conv, pos: t.pos})
				changed = true

				// Ambiguity case 5: `to A in B` where both A and B are
				// single unit targets may instead be one composite target.
				// Only the `in` spelling of the second operator opens this
				// reading; `to A to B` is always two nested conversions.
				if ut, ok := t.target.(*ast.UnitTarget); ok {
					if p.at(t.pos).Type == token.IN {
						second := p.parseConversionTarget(t.pos + 1)
						for _, t2 := range second {
							if ut2, ok2 := t2.target.(*ast.UnitTarget); ok2 {
								composite := &ast.ConversionExpr{
									BaseNode: ast.At(p.posOf(c.pos)),
									Source:   c.expr,
									Op:       opTok.Type,
									Target: &ast.CompositeUnitTarget{
										BaseNode: ast.At(p.posOf(c.pos)),
										Units:    []*ast.UnitExpr{ut.Unit, ut2.Unit},
									},
								}
								next = append(next, candidate{expr: composite, pos: t2.pos})
								changed = true
							}
						}
					}
				}
			}
		}
		out = dedupeAndCap(next)
	}
	return out
}

func (p *Parser) parseLevel3(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.OROR}, p.parseLevel4)
}
func (p *Parser) parseLevel4(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.ANDAND}, p.parseLevel5)
}
func (p *Parser) parseLevel5(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.PIPE}, p.parseLevel6)
}
func (p *Parser) parseLevel6(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.XOR}, p.parseLevel7)
}
func (p *Parser) parseLevel7(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.AMP}, p.parseLevel8)
}
func (p *Parser) parseLevel8(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.EQEQ, token.NEQ}, p.parseLevel9)
}
func (p *Parser) parseLevel9(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.LT, token.LTE, token.GT, token.GTE}, p.parseLevel10)
}
func (p *Parser) parseLevel10(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.SHL, token.SHR}, p.parseLevel11)
}
func (p *Parser) parseLevel11(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.PLUS, token.MINUS}, p.parseLevel12)
}
func (p *Parser) parseLevel12(pos int) []candidate {
	return p.parseLeftAssoc(pos, []token.Type{token.STAR, token.SLASH, token.PERCENT, token.MOD, token.PER}, p.parseLevel13)
}

// parseLevel13 is unary prefix -, !, ~ (right-associative: recurse into
// itself so `--x` and `!!x` both parse).
func (p *Parser) parseLevel13(pos int) []candidate {
	switch p.at(pos).Type {
	case token.MINUS, token.BANG, token.TILDE:
		op := p.at(pos).Type
		operands := p.parseLevel13(pos + 1)
		out := make([]candidate, 0, len(operands))
		for _, o := range operands {
			out = append(out, candidate{
				expr: &ast.UnaryExpr{BaseNode: ast.At(p.posOf(pos)), Op: op, Operand: o.expr},
				pos:  o.pos,
			})
		}
		return out
	}
	return p.parseLevel14(pos)
}

// parseLevel14 is `^` (right-associative exponentiation).
func (p *Parser) parseLevel14(pos int) []candidate {
	bases := p.parseLevel15(pos)
	var out []candidate
	for _, b := range bases {
		if p.at(b.pos).Type != token.CARET {
			out = append(out, b)
			continue
		}
		exps := p.parseLevel14(b.pos + 1) // right-assoc: recurse at same level
		for _, e := range exps {
			out = append(out, candidate{
				expr: &ast.BinaryExpr{BaseNode: ast.At(p.posOf(b.pos)), Op: token.CARET, Left: b.expr, Right: e.expr},
				pos:  e.pos,
			})
		}
	}
	return dedupeAndCap(out)
}

// parseLevel15 is postfix factorial.
func (p *Parser) parseLevel15(pos int) []candidate {
	operands := p.parsePrimary(pos)
	out := make([]candidate, 0, len(operands))
	for _, o := range operands {
		end := o.pos
		expr := o.expr
		for p.at(end).Type == token.BANG {
			expr = &ast.PostfixExpr{BaseNode: ast.At(p.posOf(end)), Op: token.BANG, Operand: expr}
			end++
		}
		out = append(out, candidate{expr: expr, pos: end})
	}
	return out
}
