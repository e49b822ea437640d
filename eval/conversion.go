package eval

import (
	"math"
	"strings"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/value"
)

// evalConversion evaluates a `to`/`in`/`as`/`→` expression: the source
// is evaluated first, then routed to unit conversion,
// currency conversion, composite breakdown, or presentation wrapping
// depending on the target's shape.
func (e *Evaluator) evalConversion(n *ast.ConversionExpr, env *Environment) value.Value {
	src := e.Eval(n.Source, env)
	if value.IsError(src) {
		return src
	}
	switch t := n.Target.(type) {
	case *ast.PresentationTarget:
		spec, errv := presentationSpec(t)
		if errv != nil {
			return errv
		}
		return value.Wrap(src, spec)
	case *ast.UnitTarget:
		return e.convertToUnit(src, t.Unit)
	case *ast.CompositeUnitTarget:
		return e.convertToComposite(src, t.Units)
	}
	return value.Errf(value.ErrRuntime, "unhandled conversion target %T", n.Target)
}

// convertToUnit converts src to the single (possibly derived) unit target
// names, special-casing currency dimensions since ISO-coded currencies
// cross-convert through the money converter rather than unitconv.
func (e *Evaluator) convertToUnit(src value.Value, target *ast.UnitExpr) value.Value {
	switch x := src.(type) {
	case value.Measured:
		if id, ok := e.simpleUnitID(target); ok {
			if dim, ok := e.dimOf(id); ok && strings.HasPrefix(dim, "currency:") {
				return e.Money.Convert(x, strings.TrimPrefix(dim, "currency:"))
			}
			return e.Units.Convert(x, id)
		}
		return e.convertDerivedUnit(x, target)
	case value.Composite:
		id, ok := e.simpleUnitID(target)
		if !ok {
			return value.Errf(value.ErrType, "cannot convert a composite measurement to a derived unit")
		}
		return e.Units.ConvertComposite(x, id)
	}
	return value.Errf(value.ErrType, "cannot convert %s to a unit", src.Kind())
}

// convertDerivedUnit handles a conversion whose target names more than one
// unit term (e.g. `to km/h`), generalizing unitconv.Converter's single-swap
// convertDerived to match every target term against the source term of the
// same dimension, independent of position.
func (e *Evaluator) convertDerivedUnit(src value.Measured, target *ast.UnitExpr) value.Value {
	targetTerms := e.unitExprTerms(target)
	if len(targetTerms) == 0 {
		return value.Errf(value.ErrType, "empty conversion target")
	}
	if len(src.Terms) != len(targetTerms) {
		return value.Errf(value.ErrType, "cannot convert %v to %v: term count mismatch", src.Terms, targetTerms)
	}
	used := make([]bool, len(src.Terms))
	scale := 1.0
	newTerms := make([]value.Term, len(targetTerms))
	for i, tt := range targetTerms {
		tdim, _ := e.dimOf(tt.UnitID)
		matched := -1
		for j, st := range src.Terms {
			if used[j] {
				continue
			}
			sdim, _ := e.dimOf(st.UnitID)
			if sdim == tdim && st.Num == tt.Num && st.Den == tt.Den {
				matched = j
				break
			}
		}
		if matched < 0 {
			return value.Errf(value.ErrType, "cannot convert %v to %v: no matching dimension for %s", src.Terms, targetTerms, tt.UnitID)
		}
		used[matched] = true
		sourceUnit, ok1 := e.Catalog.UnitByID(src.Terms[matched].UnitID)
		targetUnit, ok2 := e.Catalog.UnitByID(tt.UnitID)
		if !ok1 || !ok2 {
			return value.Errf(value.ErrType, "unknown unit in conversion")
		}
		if sourceUnit.Offset != 0 || targetUnit.Offset != 0 {
			return value.Errf(value.ErrType, "cannot convert an offset-bearing unit in a derived context")
		}
		ratio := sourceUnit.Factor / targetUnit.Factor
		scale *= math.Pow(ratio, tt.Exponent())
		newTerms[i] = tt
	}
	return value.Measured{Val: src.Val * scale, Terms: value.SimplifyTerms(newTerms)}
}

// convertToComposite folds src into its dimension's canonical amount, then
// breaks that amount into an ordered composite over targets — coarsest
// first, each truncated to a whole number except the last, which carries
// the remainder.
func (e *Evaluator) convertToComposite(src value.Value, targets []*ast.UnitExpr) value.Value {
	switch x := src.(type) {
	case value.Measured:
		if len(x.Terms) != 1 || x.Terms[0].Num != 1 || x.Terms[0].Den != 1 {
			return value.Errf(value.ErrType, "cannot break a derived unit into a composite")
		}
		unit, ok := e.Catalog.UnitByID(x.Terms[0].UnitID)
		if !ok {
			return value.Errf(value.ErrType, "unknown unit %q", x.Terms[0].UnitID)
		}
		return e.buildComposite(x.Val*unit.Factor+unit.Offset, unit.DimensionID, targets)
	case value.Composite:
		if len(x.Components) == 0 {
			return value.Errf(value.ErrType, "empty composite measurement")
		}
		first, ok := e.Catalog.UnitByID(x.Components[0].UnitID)
		if !ok {
			return value.Errf(value.ErrType, "unknown unit %q", x.Components[0].UnitID)
		}
		total := 0.0
		for _, c := range x.Components {
			u, ok := e.Catalog.UnitByID(c.UnitID)
			if !ok {
				return value.Errf(value.ErrType, "unknown unit %q", c.UnitID)
			}
			total += c.Val*u.Factor + u.Offset
		}
		return e.buildComposite(total, first.DimensionID, targets)
	}
	return value.Errf(value.ErrType, "cannot convert %s to a composite unit", src.Kind())
}

func (e *Evaluator) buildComposite(canonical float64, dimID string, targets []*ast.UnitExpr) value.Value {
	comps := make([]value.CompositeComponent, 0, len(targets))
	remaining := canonical
	for i, ut := range targets {
		id, ok := e.simpleUnitID(ut)
		if !ok {
			return value.Errf(value.ErrType, "composite target component must be a simple unit")
		}
		u, ok := e.Catalog.UnitByID(id)
		if !ok {
			return value.Errf(value.ErrType, "unknown unit %q", id)
		}
		if u.DimensionID != dimID {
			return value.Errf(value.ErrType, "composite target unit %q is not dimension %q", id, dimID)
		}
		if i == len(targets)-1 {
			comps = append(comps, value.CompositeComponent{Val: (remaining - u.Offset) / u.Factor, UnitID: id})
			continue
		}
		whole := math.Trunc((remaining - u.Offset) / u.Factor)
		comps = append(comps, value.CompositeComponent{Val: whole, UnitID: id})
		remaining -= whole * u.Factor
	}
	return value.Composite{Components: comps}
}

// presentationSpec translates a parsed presentation target (ast's
// string-keyed PresentationKind) into value's int-keyed PresentationSpec.
// ast.PresentPrecision has no direct counterpart in value.PresentationKind
// — value.Measured/value.Number carry precision as fixed metadata rather
// than a presentation wrapper — so a precision target is represented as a
// PresentDecimalB10 wrap with HasPrec set; BaseN doubles as a sigfigs flag
// (-1) since it is otherwise unused at that Kind.
func presentationSpec(t *ast.PresentationTarget) (value.PresentationSpec, value.Value) {
	switch t.Kind {
	case ast.PresentBinary:
		return value.PresentationSpec{Kind: value.PresentBinary}, nil
	case ast.PresentOctal:
		return value.PresentationSpec{Kind: value.PresentOctal}, nil
	case ast.PresentHex:
		return value.PresentationSpec{Kind: value.PresentHex}, nil
	case ast.PresentBase:
		if t.Base < 3 || t.Base > 36 || t.Base == 10 {
			return value.PresentationSpec{}, value.Errf(value.ErrType, "unsupported base %d", t.Base)
		}
		return value.PresentationSpec{Kind: value.PresentBaseN, BaseN: t.Base}, nil
	case ast.PresentDecimalB10:
		return value.PresentationSpec{Kind: value.PresentDecimalB10}, nil
	case ast.PresentFraction:
		return value.PresentationSpec{Kind: value.PresentFraction, Precision: t.Precision, HasPrec: t.Precision >= 0}, nil
	case ast.PresentScientific:
		return value.PresentationSpec{Kind: value.PresentScientific, Precision: t.Precision, HasPrec: t.Precision >= 0}, nil
	case ast.PresentPercentage:
		return value.PresentationSpec{Kind: value.PresentPercentage, Precision: t.Precision, HasPrec: t.Precision >= 0}, nil
	case ast.PresentOrdinal:
		return value.PresentationSpec{Kind: value.PresentOrdinal}, nil
	case ast.PresentISO8601:
		return value.PresentationSpec{Kind: value.PresentISO8601}, nil
	case ast.PresentRFC9557:
		return value.PresentationSpec{Kind: value.PresentRFC9557}, nil
	case ast.PresentRFC2822:
		return value.PresentationSpec{Kind: value.PresentRFC2822}, nil
	case ast.PresentUnix:
		return value.PresentationSpec{Kind: value.PresentUnix}, nil
	case ast.PresentUnixMillis:
		return value.PresentationSpec{Kind: value.PresentUnixMillis}, nil
	case ast.PresentPrecision:
		baseN := 0
		if t.Mode == "sigfigs" {
			baseN = -1
		}
		return value.PresentationSpec{Kind: value.PresentDecimalB10, BaseN: baseN, Precision: t.Count, HasPrec: true}, nil
	}
	return value.PresentationSpec{}, value.Errf(value.ErrRuntime, "unhandled presentation target %q", t.Kind)
}
