package parser

import (
	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/token"
)

type targetCand struct {
	target ast.ConversionTarget
	pos    int
}

// parseConversionTarget parses what follows `to`/`in`/`as`/`→`:
// a presentation-format specifier, a composite unit list, or a plain (or
// derived) unit expression.
func (p *Parser) parseConversionTarget(pos int) []targetCand {
	if p.at(pos).Type == token.LBRACKET {
		return p.parseCompositeTargetList(pos)
	}

	if t, next, ok := p.parsePresentationTarget(pos); ok {
		return []targetCand{{target: t, pos: next}}
	}

	var out []targetCand
	for _, u := range p.parseUnitExpr(pos) {
		out = append(out, targetCand{target: &ast.UnitTarget{BaseNode: ast.At(p.posOf(pos)), Unit: u.expr}, pos: u.pos})
	}
	return out
}

func (p *Parser) parseCompositeTargetList(pos int) []targetCand {
	if p.at(pos).Type != token.LBRACKET {
		return nil
	}
	var units []*ast.UnitExpr
	cur := pos + 1
	for {
		opts := p.parseUnitExpr(cur)
		if len(opts) == 0 {
			return nil
		}
		units = append(units, opts[0].expr)
		cur = opts[0].pos
		if p.at(cur).Type == token.COMMA {
			cur++
			continue
		}
		break
	}
	if p.at(cur).Type != token.RBRACKET {
		return nil
	}
	cur++
	return []targetCand{{target: &ast.CompositeUnitTarget{BaseNode: ast.At(p.posOf(pos)), Units: units}, pos: cur}}
}

// parsePresentationTarget recognizes every rendering-only target. A
// handful of spellings (ordinal, hex, bin, oct) are plain identifiers
// rather than dedicated keyword tokens; they are matched here by literal
// value since the catalog never registers them as units.
func (p *Parser) parsePresentationTarget(pos int) (*ast.PresentationTarget, int, bool) {
	mk := func(kind ast.PresentationKind) *ast.PresentationTarget {
		return &ast.PresentationTarget{BaseNode: ast.At(p.posOf(pos)), Kind: kind, Precision: -1}
	}

	switch p.at(pos).Type {
	case token.BASE:
		if p.at(pos+1).Type == token.INT {
			if n, ok := parseIntLiteral(p.at(pos + 1).Literal); ok {
				t := mk(ast.PresentBase)
				t.Base = n
				return t, pos + 2, true
			}
		}
	case token.BINARY_KW:
		return mk(ast.PresentBinary), pos + 1, true
	case token.OCTAL_KW:
		return mk(ast.PresentOctal), pos + 1, true
	case token.HEXADECIMAL_KW:
		return mk(ast.PresentHex), pos + 1, true
	case token.DECIMAL_KW:
		return mk(ast.PresentDecimalB10), pos + 1, true
	case token.FRACTION:
		return mk(ast.PresentFraction), pos + 1, true
	case token.SCIENTIFIC:
		return mk(ast.PresentScientific), pos + 1, true
	case token.PERCENTAGE:
		return mk(ast.PresentPercentage), pos + 1, true
	case token.ISO_8601:
		return mk(ast.PresentISO8601), pos + 1, true
	case token.RFC_9557:
		return mk(ast.PresentRFC9557), pos + 1, true
	case token.RFC_2822:
		return mk(ast.PresentRFC2822), pos + 1, true
	case token.UNIX_KW:
		if w, ok := p.identWordAt(pos + 1); ok && (w == "milliseconds" || w == "millis" || w == "ms") {
			return mk(ast.PresentUnixMillis), pos + 2, true
		}
		return mk(ast.PresentUnix), pos + 1, true
	case token.INT:
		if n, ok := parseIntLiteral(p.at(pos).Literal); ok {
			switch p.at(pos + 1).Type {
			case token.DECIMALS_KW:
				t := mk(ast.PresentPrecision)
				t.Count, t.Mode = n, "decimals"
				return t, pos + 2, true
			case token.SIG_FIGS:
				t := mk(ast.PresentPrecision)
				t.Count, t.Mode = n, "sigfigs"
				return t, pos + 2, true
			}
		}
	case token.IDENT:
		switch p.at(pos).Literal {
		case "ordinal":
			return mk(ast.PresentOrdinal), pos + 1, true
		case "hex":
			return mk(ast.PresentHex), pos + 1, true
		case "bin":
			return mk(ast.PresentBinary), pos + 1, true
		case "oct":
			return mk(ast.PresentOctal), pos + 1, true
		}
	}
	return nil, pos, false
}
