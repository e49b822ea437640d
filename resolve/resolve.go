// Package resolve implements calcline's ambiguity resolver: given
// the set of candidate trees the parser produced for one line, it prunes
// candidates that can never evaluate successfully, scores the survivors
// against five weighted rules, and selects the single best tree. Pruning
// and scoring are both pure functions of a tree plus the catalog and the
// set of currently-defined variable names, so they are trivial to
// unit-test independently of parsing or evaluation.
package resolve

import (
	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
)

// VarLookup reports whether a name is currently bound to a variable.
// eval.Environment satisfies this interface without resolve importing
// package eval.
type VarLookup interface {
	Has(name string) bool
}

// Resolver holds the catalog consulted for unit-name recognition.
type Resolver struct {
	Catalog catalog.Catalog
}

// New builds a Resolver over cat.
func New(cat catalog.Catalog) *Resolver {
	return &Resolver{Catalog: cat}
}

// Select runs prune then score over candidates and returns the winner,
// tie-breaking on the candidate's original position when scores are equal.
// It is an error only when candidates is empty to begin with; pruning
// never empties an
// otherwise non-empty set down to zero (see Prune).
func (r *Resolver) Select(candidates []ast.Expr, vars VarLookup) (ast.Expr, bool) {
	survivors := r.Prune(candidates, vars)
	if len(survivors) == 0 {
		return nil, false
	}
	best := survivors[0]
	bestScore := r.Score(best, vars)
	for _, c := range survivors[1:] {
		s := r.Score(c, vars)
		if s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

// Prune discards candidates that can never evaluate successfully. If
// every candidate would be discarded, the
// original set is returned unpruned instead: a line that is genuinely
// unevaluable (e.g. a truly undefined variable) still deserves a tree to
// hand to the evaluator, which reports the precise runtime error.
func (r *Resolver) Prune(candidates []ast.Expr, vars VarLookup) []ast.Expr {
	var out []ast.Expr
	for _, c := range candidates {
		if r.isViable(c, vars) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return candidates
	}
	return out
}

// isViable implements the three pruning rules over one candidate tree.
func (r *Resolver) isViable(n ast.Node, vars VarLookup) bool {
	viable := true
	walk(n, func(node ast.Node) bool {
		switch v := node.(type) {
		case *ast.VarRef:
			// Rule (a): a variable reference to an undefined name that also
			// has no plausible unit reading anywhere in the catalog can
			// never succeed under this tree shape.
			if !vars.Has(v.Name) && !r.isCatalogUnitName(v.Name) {
				viable = false
			}
		case *ast.CompositeLit:
			if dimensionallyImpossible(v, r.Catalog) {
				viable = false
			}
		case *ast.ConversionExpr:
			if structurallyInvalidTarget(v, r.Catalog) {
				viable = false
			}
		}
		return viable
	})
	return viable
}

// dimensionallyImpossible reports whether a composite literal's components
// name catalog units spanning more than one dimension; a
// component naming a user-defined (non-catalog) unit can't be judged this
// way, so it never disqualifies a composite on its own.
func dimensionallyImpossible(c *ast.CompositeLit, cat catalog.Catalog) bool {
	dim := ""
	for _, comp := range c.Components {
		if comp.Unit == nil || len(comp.Unit.Numerator) != 1 || len(comp.Unit.Denominator) != 0 {
			return false
		}
		u, ok := cat.UnitByName(comp.Unit.Numerator[0].Name)
		if !ok {
			return false
		}
		if dim == "" {
			dim = u.DimensionID
			continue
		}
		if u.DimensionID != dim {
			return true
		}
	}
	return false
}

// presentationTimeTargets names the presentation kinds that only
// make sense applied to a date/time/instant source.
var presentationTimeTargets = map[ast.PresentationKind]bool{
	ast.PresentISO8601:    true,
	ast.PresentRFC9557:    true,
	ast.PresentRFC2822:    true,
	ast.PresentUnix:       true,
	ast.PresentUnixMillis: true,
}

// presentationNumericTargets names the kinds that only make sense applied
// to a plain number.
var presentationNumericTargets = map[ast.PresentationKind]bool{
	ast.PresentBinary:     true,
	ast.PresentOctal:      true,
	ast.PresentHex:        true,
	ast.PresentBase:       true,
	ast.PresentFraction:   true,
	ast.PresentScientific: true,
	ast.PresentOrdinal:    true,
	ast.PresentPrecision:  true,
}

// structurallyInvalidTarget implements pruning rule (c) for the cases
// staticly decidable from the source node's own literal kind (e.g. `to
// ISO 8601` applied to a bare boolean literal). Sources whose kind can
// only be known at evaluation time (a VarRef, a FuncCall result, an
// arithmetic expression) are never flagged here; the evaluator rejects
// those at runtime instead.
func structurallyInvalidTarget(c *ast.ConversionExpr, cat catalog.Catalog) bool {
	pt, ok := c.Target.(*ast.PresentationTarget)
	if !ok {
		return false
	}
	switch c.Source.(type) {
	case *ast.BoolLit:
		return presentationTimeTargets[pt.Kind] || presentationNumericTargets[pt.Kind]
	case *ast.DateLit, *ast.TimeLit, *ast.DateTimeLit, *ast.ZonedDateTimeLit, *ast.InstantLit, *ast.KeywordInstant:
		return presentationNumericTargets[pt.Kind]
	case *ast.NumberLit:
		return presentationTimeTargets[pt.Kind]
	}
	return false
}

func (r *Resolver) isCatalogUnitName(name string) bool {
	_, ok := r.Catalog.UnitByName(name)
	return ok
}

// Score computes the weighted sum of the five ranking rules over tree;
// higher is better.
func (r *Resolver) Score(tree ast.Expr, vars VarLookup) float64 {
	totalTerms := ast.CountUnitTerms(tree)
	score := 1000.0 / float64(1+totalTerms)

	names := r.unitTermNames(tree)
	if len(names) == 0 {
		score += 500
	} else {
		catalogCount := 0
		for _, name := range names {
			if r.isCatalogUnitName(name) {
				catalogCount++
			}
		}
		score += 500 * float64(catalogCount) / float64(len(names))
	}

	score += 300 * r.variableVsUserUnitRatio(tree, vars)

	score += 100.0 / float64(1+ast.NodeCount(tree))

	if k := ast.CountConversions(tree); k >= 1 {
		score += 2000.0 / float64(k)
	}

	return score
}

// unitTermNames collects every unit-term name referenced anywhere in tree
// (measured literals, composite components, and conversion targets),
// feeding Rule 2's catalog-vs-user-defined ratio.
func (r *Resolver) unitTermNames(n ast.Node) []string {
	var names []string
	collect := func(u *ast.UnitExpr) {
		if u == nil {
			return
		}
		for _, t := range u.Numerator {
			names = append(names, t.Name)
		}
		for _, t := range u.Denominator {
			names = append(names, t.Name)
		}
	}
	walk(n, func(node ast.Node) bool {
		switch v := node.(type) {
		case *ast.MeasuredLit:
			collect(v.Unit)
		case *ast.UnitTarget:
			collect(v.Unit)
		case *ast.CompositeUnitTarget:
			for _, u := range v.Units {
				collect(u)
			}
		}
		return true
	})
	return names
}

// variableVsUserUnitRatio is Rule 3: the ratio of this tree's ambiguous
// bare-identifier occurrences (names that are not catalog units, and so
// could equally have been read as a user-defined unit) that this tree
// instead reads as a defined variable. An identifier the catalog already
// recognizes as a unit never counts toward either the numerator or the
// denominator, matching "this does not apply when the identifier is a
// catalog unit". When the tree has no such ambiguous identifiers at all
// the rule contributes nothing, since there is nothing to prefer between.
//
// Rule 3 phrases the denominator as "user-defined unit occurrences"
// across the ambiguity, which in a single already-selected tree shows up
// as either a VarRef or a unit-term name for the same underlying word; we
// approximate it here as the count of VarRef nodes referencing
// non-catalog names, which is the only place a single concrete tree
// carries that ambiguity directly (see DESIGN.md).
func (r *Resolver) variableVsUserUnitRatio(tree ast.Expr, vars VarLookup) float64 {
	var ambiguous, asVariable int
	walk(tree, func(node ast.Node) bool {
		v, ok := node.(*ast.VarRef)
		if !ok {
			return true
		}
		if r.isCatalogUnitName(v.Name) {
			return true
		}
		ambiguous++
		if vars.Has(v.Name) {
			asVariable++
		}
		return true
	})
	if ambiguous == 0 {
		return 0
	}
	return float64(asVariable) / float64(ambiguous)
}

// walk visits every node in the subtree rooted at n in pre-order, calling
// visit(n) first; returning false from visit skips that node's children
// (package ast exposes no general tree walker of its own, only the
// purpose-built NodeCount/CountUnitTerms/CountConversions counters).
func walk(n ast.Node, visit func(ast.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch v := n.(type) {
	case *ast.MeasuredLit:
		walk(v.Number, visit)
	case *ast.CompositeLit:
		for _, c := range v.Components {
			walk(c, visit)
		}
	case *ast.BinaryExpr:
		walk(v.Left, visit)
		walk(v.Right, visit)
	case *ast.UnaryExpr:
		walk(v.Operand, visit)
	case *ast.PostfixExpr:
		walk(v.Operand, visit)
	case *ast.CondExpr:
		walk(v.Cond, visit)
		walk(v.Then, visit)
		walk(v.Else, visit)
	case *ast.FuncCall:
		for _, a := range v.Args {
			walk(a, visit)
		}
	case *ast.Grouped:
		walk(v.Inner, visit)
	case *ast.ConversionExpr:
		walk(v.Source, visit)
		if tn, ok := v.Target.(ast.Node); ok {
			walk(tn, visit)
		}
	case *ast.RelativeInstant:
		walk(v.Amount, visit)
	case *ast.Assignment:
		walk(v.Value, visit)
	}
}
