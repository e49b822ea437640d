// Package unitconv implements calcline's unit converter: it turns a
// measured value and a target unit of the same dimension into a converted
// measured value, by factor+offset arithmetic relative to each unit's
// dimension's canonical unit.
package unitconv

import (
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

// Converter resolves catalog units and converts measured values between
// them. It holds no mutable state and is safe for concurrent use — it
// only reads the catalog, which is itself read-only after load.
type Converter struct {
	cat catalog.Catalog
}

// New builds a Converter over cat.
func New(cat catalog.Catalog) *Converter {
	return &Converter{cat: cat}
}

func (c *Converter) dimensionOf(unitID string) (string, bool) {
	u, ok := c.cat.UnitByID(unitID)
	if !ok {
		return "", false
	}
	return u.DimensionID, true
}

// Convert converts v to the single target unit targetUnitID, which must be
// in the same dimension as v's sole unit term at exponent 1 (simple
// conversion) or, for a derived term list, converts every term
// independently against its own dimension's canonical unit.
//
// Offsets only apply to simple (single-term, exponent 1) conversions: a
// derived-context conversion touching an offset-bearing unit (e.g.
// temperature) is a TypeError, because "degrees per second" has no
// coherent affine interpretation. The error taxonomy has no separate
// dimension-error kind.
func (c *Converter) Convert(v value.Measured, targetUnitID string) value.Value {
	target, ok := c.cat.UnitByID(targetUnitID)
	if !ok {
		return value.Errf(value.ErrType, "unknown unit %q", targetUnitID)
	}

	if len(v.Terms) == 1 && v.Terms[0].Num == 1 && v.Terms[0].Den == 1 {
		return c.convertSimple(v, v.Terms[0], target)
	}
	return c.convertDerived(v, target)
}

func (c *Converter) convertSimple(v value.Measured, term value.Term, target catalog.Unit) value.Value {
	source, ok := c.cat.UnitByID(term.UnitID)
	if !ok {
		return value.Errf(value.ErrType, "unknown unit %q", term.UnitID)
	}
	if source.DimensionID != target.DimensionID {
		return value.Errf(value.ErrType, "cannot convert %s to %s: incompatible dimensions", source.ID, target.ID)
	}
	canonical := v.Val*source.Factor + source.Offset
	converted := (canonical - target.Offset) / target.Factor
	return value.Measured{
		Val:       converted,
		Terms:     []value.Term{{UnitID: target.ID, Num: 1, Den: 1}},
		Precision: v.Precision,
	}
}

// convertDerived converts every term of a derived unit independently and
// replaces only the term matching target's dimension, preserving the rest
// of the term list (so `1000 EUR/person to USD` only touches the currency
// term). If target's dimension does not appear among v's terms, it's a
// TypeError.
func (c *Converter) convertDerived(v value.Measured, target catalog.Unit) value.Value {
	matched := false
	newTerms := make([]value.Term, len(v.Terms))
	scale := 1.0
	for i, t := range v.Terms {
		source, ok := c.cat.UnitByID(t.UnitID)
		if !ok {
			return value.Errf(value.ErrType, "unknown unit %q", t.UnitID)
		}
		if source.DimensionID != target.DimensionID {
			newTerms[i] = t
			continue
		}
		if source.Offset != 0 || target.Offset != 0 {
			return value.Errf(value.ErrType,
				"cannot convert %s in a derived unit context: offset-bearing units only convert alone", source.ID)
		}
		if t.Num != 1 || t.Den != 1 {
			return value.Errf(value.ErrType,
				"cannot convert %s at a non-unit exponent in a derived context", source.ID)
		}
		matched = true
		factor := source.Factor / target.Factor
		scale *= factor
		newTerms[i] = value.Term{UnitID: target.ID, Num: t.Num, Den: t.Den}
	}
	if !matched {
		return value.Errf(value.ErrType, "target unit %q's dimension does not appear in %v", target.ID, v.Terms)
	}
	return value.Measured{
		Val:       v.Val * scale,
		Terms:     value.SimplifyTerms(newTerms),
		Precision: v.Precision,
	}
}

// SameDimension reports whether a and b have equal canonical dimension
// vectors, used by the evaluator ahead of +/-/compare.
func (c *Converter) SameDimension(a, b []value.Term) bool {
	da := value.CanonicalDimension(a, c.dimensionOf)
	db := value.CanonicalDimension(b, c.dimensionOf)
	return value.DimensionsEqual(da, db)
}

// ToCanonicalComponent converts one composite-measurement component to its
// dimension's canonical unit, for composite-to-single-unit conversion and
// sign-consistency checks.
func (c *Converter) ToCanonicalComponent(comp value.CompositeComponent) (float64, string, error) {
	u, ok := c.cat.UnitByID(comp.UnitID)
	if !ok {
		return 0, "", value.Errf(value.ErrType, "unknown unit %q", comp.UnitID)
	}
	return comp.Val*u.Factor + u.Offset, u.DimensionID, nil
}

// ConvertComposite folds every component of a composite measurement into a
// single measured value in targetUnitID.
func (c *Converter) ConvertComposite(v value.Composite, targetUnitID string) value.Value {
	target, ok := c.cat.UnitByID(targetUnitID)
	if !ok {
		return value.Errf(value.ErrType, "unknown unit %q", targetUnitID)
	}
	total := 0.0
	for _, comp := range v.Components {
		canonical, dim, err := c.ToCanonicalComponent(comp)
		if err != nil {
			return err.(value.Error)
		}
		if dim != target.DimensionID {
			return value.Errf(value.ErrType, "composite component %q is not dimension %q", comp.UnitID, target.DimensionID)
		}
		total += canonical
	}
	converted := (total - target.Offset) / target.Factor
	return value.Measured{
		Val:   converted,
		Terms: []value.Term{{UnitID: target.ID, Num: 1, Den: 1}},
	}
}
