package eval

import (
	"math"
	"strings"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/chrono"
	"github.com/ha1tch/calcline/token"
	"github.com/ha1tch/calcline/value"
)

// evalBinary evaluates both operands and dispatches the binary operator
// over them. Operands are evaluated left-to-right; an Error on
// either side short-circuits the operator entirely.
func (e *Evaluator) evalBinary(n *ast.BinaryExpr, env *Environment) value.Value {
	left := e.Eval(n.Left, env)
	if value.IsError(left) {
		return left
	}
	right := e.Eval(n.Right, env)
	if value.IsError(right) {
		return right
	}

	switch n.Op {
	case token.PLUS:
		return e.add(left, right)
	case token.MINUS:
		return e.subtract(left, right)
	case token.STAR:
		return e.multiply(left, right)
	case token.SLASH, token.PER:
		return e.divide(left, right)
	case token.PERCENT, token.MOD:
		return e.remainder(left, right)
	case token.CARET:
		return e.power(left, right)
	case token.EQEQ:
		eq, errv := e.equal(left, right)
		if errv != nil {
			return errv
		}
		return value.Boolean{Val: eq}
	case token.NEQ:
		eq, errv := e.equal(left, right)
		if errv != nil {
			return errv
		}
		return value.Boolean{Val: !eq}
	case token.LT, token.LTE, token.GT, token.GTE:
		return e.compareOp(n.Op, left, right)
	case token.ANDAND:
		lb, ok := left.(value.Boolean)
		if !ok {
			return value.Errf(value.ErrType, "&& requires boolean operands, got %s", left.Kind())
		}
		rb, ok := right.(value.Boolean)
		if !ok {
			return value.Errf(value.ErrType, "&& requires boolean operands, got %s", right.Kind())
		}
		return value.Boolean{Val: lb.Val && rb.Val}
	case token.OROR:
		lb, ok := left.(value.Boolean)
		if !ok {
			return value.Errf(value.ErrType, "|| requires boolean operands, got %s", left.Kind())
		}
		rb, ok := right.(value.Boolean)
		if !ok {
			return value.Errf(value.ErrType, "|| requires boolean operands, got %s", right.Kind())
		}
		return value.Boolean{Val: lb.Val || rb.Val}
	case token.AMP, token.PIPE, token.XOR, token.SHL, token.SHR:
		return e.bitwise(n.Op, left, right)
	default:
		return value.Errf(value.ErrRuntime, "unhandled binary operator %s", n.Op)
	}
}

// evalUnary dispatches a unary prefix operator.
func (e *Evaluator) evalUnary(n *ast.UnaryExpr, env *Environment) value.Value {
	v := e.Eval(n.Operand, env)
	if value.IsError(v) {
		return v
	}
	switch n.Op {
	case token.MINUS:
		return e.negate(v)
	case token.BANG:
		b, ok := v.(value.Boolean)
		if !ok {
			return value.Errf(value.ErrType, "! requires a boolean operand, got %s", v.Kind())
		}
		return value.Boolean{Val: !b.Val}
	case token.TILDE:
		n, ok := asNumber(v)
		if !ok {
			return value.Errf(value.ErrType, "~ requires a number operand, got %s", v.Kind())
		}
		return value.Number{Val: float64(^int64(n))}
	default:
		return value.Errf(value.ErrRuntime, "unhandled unary operator %s", n.Op)
	}
}

// evalPostfix implements postfix factorial.
func (e *Evaluator) evalPostfix(n *ast.PostfixExpr, env *Environment) value.Value {
	v := e.Eval(n.Operand, env)
	if value.IsError(v) {
		return v
	}
	if n.Op != token.BANG {
		return value.Errf(value.ErrRuntime, "unhandled postfix operator %s", n.Op)
	}
	num, ok := v.(value.Number)
	if !ok {
		return value.Errf(value.ErrType, "! (factorial) requires a plain number, got %s", v.Kind())
	}
	if num.Val < 0 || num.Val != math.Trunc(num.Val) {
		return value.Errf(value.ErrType, "! (factorial) requires a nonnegative integer, got %v", num.Val)
	}
	result := 1.0
	for i := 2.0; i <= num.Val; i++ {
		result *= i
	}
	return value.Number{Val: result}
}

// evalCond evaluates an if/then/else expression, short-circuiting so only
// the taken branch runs.
func (e *Evaluator) evalCond(n *ast.CondExpr, env *Environment) value.Value {
	cond := e.Eval(n.Cond, env)
	if value.IsError(cond) {
		return cond
	}
	b, ok := cond.(value.Boolean)
	if !ok {
		return value.Errf(value.ErrType, "if condition must be boolean, got %s", cond.Kind())
	}
	if b.Val {
		return e.Eval(n.Then, env)
	}
	return e.Eval(n.Else, env)
}

func asNumber(v value.Value) (float64, bool) {
	if n, ok := v.(value.Number); ok {
		return n.Val, true
	}
	return 0, false
}

// currencyCode returns the ISO code of a single-term currency-dimensioned
// Measured value's unit, or "" if it isn't one.
func (e *Evaluator) currencyCode(terms []value.Term) string {
	if len(terms) != 1 || terms[0].Num != 1 || terms[0].Den != 1 {
		return ""
	}
	dim, ok := e.dimOf(terms[0].UnitID)
	if !ok || !strings.HasPrefix(dim, "currency:") {
		return ""
	}
	return strings.TrimPrefix(dim, "currency:")
}

// alignCurrency converts b onto a's currency code when both are simple,
// differently-coded currency amounts: ISO-coded currencies are
// cross-converted automatically on +/-, unlike other dimension mismatches.
func (e *Evaluator) alignCurrency(a, b value.Measured) (value.Measured, bool, value.Value) {
	aCode := e.currencyCode(a.Terms)
	bCode := e.currencyCode(b.Terms)
	if aCode == "" || bCode == "" || aCode == bCode {
		return b, false, nil
	}
	converted := e.Money.Convert(b, aCode)
	if value.IsError(converted) {
		return b, true, converted
	}
	return converted.(value.Measured), true, nil
}

// add implements `+`.
func (e *Evaluator) add(a, b value.Value) value.Value {
	if dv, errv := e.dateTimeCombine(a, b, true); dv != nil {
		return dv
	} else if errv != nil {
		return errv
	}
	switch av := a.(type) {
	case value.Number:
		if bv, ok := b.(value.Number); ok {
			return value.Number{Val: av.Val + bv.Val}
		}
	case value.Measured:
		if bv, ok := b.(value.Measured); ok {
			aligned, converted, errv := e.alignCurrency(av, bv)
			if converted {
				if errv != nil {
					return errv
				}
				bv = aligned
			}
			if !e.Units.SameDimension(av.Terms, bv.Terms) {
				return value.Errf(value.ErrType, "cannot add incompatible units")
			}
			return value.Measured{Val: av.Val + e.rebase(bv, av.Terms), Terms: av.Terms, Precision: av.Precision}
		}
	}
	return value.Errf(value.ErrType, "cannot add %s and %s", a.Kind(), b.Kind())
}

// subtract implements binary `-`.
func (e *Evaluator) subtract(a, b value.Value) value.Value {
	if isDateTimeKind(a) {
		if bd, ok := b.(value.Duration); ok {
			return chrono.Subtract(a, bd)
		}
		if isDateTimeKind(b) {
			return chrono.Subtract(a, b)
		}
		if d, ok := e.asDuration(b); ok {
			return chrono.Subtract(a, d)
		}
		return value.Errf(value.ErrType, "cannot subtract %s from %s", b.Kind(), a.Kind())
	}
	if isDateTimeKind(b) {
		return value.Errf(value.ErrType, "cannot subtract %s from %s", b.Kind(), a.Kind())
	}
	switch av := a.(type) {
	case value.Number:
		if bv, ok := b.(value.Number); ok {
			return value.Number{Val: av.Val - bv.Val}
		}
	case value.Measured:
		if bv, ok := b.(value.Measured); ok {
			aligned, converted, errv := e.alignCurrency(av, bv)
			if converted {
				if errv != nil {
					return errv
				}
				bv = aligned
			}
			if !e.Units.SameDimension(av.Terms, bv.Terms) {
				return value.Errf(value.ErrType, "cannot subtract incompatible units")
			}
			return value.Measured{Val: av.Val - e.rebase(bv, av.Terms), Terms: av.Terms, Precision: av.Precision}
		}
	}
	return value.Errf(value.ErrType, "cannot subtract %s from %s", b.Kind(), a.Kind())
}

// isDateTimeKind reports whether v is one of the date/time/duration kinds
// handled by the chrono arithmetic table rather than ordinary
// numeric/unit arithmetic.
func isDateTimeKind(v value.Value) bool {
	switch v.(type) {
	case value.Date, value.Time, value.DateTime, value.Instant, value.ZonedDateTime, value.Duration:
		return true
	}
	return false
}

// dateTimeCombine handles `+` whenever either operand is a date/time kind
// or a duration-compatible measured/composite value. It returns
// (nil, nil) when neither operand qualifies, so the caller falls through
// to ordinary numeric/unit addition.
func (e *Evaluator) dateTimeCombine(a, b value.Value, forAdd bool) (value.Value, value.Value) {
	aIsDT := isDateTimeKind(a)
	bIsDT := isDateTimeKind(b)
	if !aIsDT && !bIsDT {
		return nil, nil
	}
	if aIsDT && bIsDT {
		if bd, ok := b.(value.Duration); ok {
			return chrono.AddDuration(a, bd), nil
		}
		if ad, ok := a.(value.Duration); ok {
			return chrono.AddDuration(b, ad), nil
		}
		return nil, value.Errf(value.ErrType, "cannot add %s to %s", b.Kind(), a.Kind())
	}
	if aIsDT {
		if d, ok := e.asDuration(b); ok {
			return chrono.AddDuration(a, d), nil
		}
		return nil, value.Errf(value.ErrType, "cannot add %s to %s", b.Kind(), a.Kind())
	}
	// b is the date/time kind, a is not: addition commutes.
	if d, ok := e.asDuration(a); ok {
		return chrono.AddDuration(b, d), nil
	}
	return nil, value.Errf(value.ErrType, "cannot add %s to %s", a.Kind(), b.Kind())
}

func mustDuration(v value.Value) value.Duration {
	d, _ := v.(value.Duration)
	return d
}

// rebase converts bv into a's unit set when they share exactly one simple
// term (the common case for +/-); when the term lists are identical, no
// conversion work is needed.
func (e *Evaluator) rebase(bv value.Measured, targetTerms []value.Term) float64 {
	if value.DimensionsEqual(
		value.CanonicalDimension(bv.Terms, e.dimOf),
		value.CanonicalDimension(targetTerms, e.dimOf),
	) && sameUnitIDs(bv.Terms, targetTerms) {
		return bv.Val
	}
	if len(targetTerms) == 1 && targetTerms[0].Num == 1 && targetTerms[0].Den == 1 {
		converted := e.Units.Convert(bv, targetTerms[0].UnitID)
		if cv, ok := converted.(value.Measured); ok {
			return cv.Val
		}
	}
	return bv.Val
}

func sameUnitIDs(a, b []value.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].UnitID != b[i].UnitID {
			return false
		}
	}
	return true
}

// multiply implements `*`.
func (e *Evaluator) multiply(a, b value.Value) value.Value {
	switch av := a.(type) {
	case value.Number:
		switch bv := b.(type) {
		case value.Number:
			return value.Number{Val: av.Val * bv.Val}
		case value.Measured:
			return value.Measured{Val: av.Val * bv.Val, Terms: bv.Terms, Precision: bv.Precision}
		}
	case value.Measured:
		switch bv := b.(type) {
		case value.Number:
			return value.Measured{Val: av.Val * bv.Val, Terms: av.Terms, Precision: av.Precision}
		case value.Measured:
			return value.Measured{Val: av.Val * bv.Val, Terms: value.SimplifyTerms(value.MultiplyTerms(av.Terms, bv.Terms))}
		}
	}
	return value.Errf(value.ErrType, "cannot multiply %s and %s", a.Kind(), b.Kind())
}

// divide implements `/` and `per`.
func (e *Evaluator) divide(a, b value.Value) value.Value {
	switch av := a.(type) {
	case value.Number:
		switch bv := b.(type) {
		case value.Number:
			if bv.Val == 0 {
				return value.Errf(value.ErrRuntime, "division by zero")
			}
			return value.Number{Val: av.Val / bv.Val}
		case value.Measured:
			if bv.Val == 0 {
				return value.Errf(value.ErrRuntime, "division by zero")
			}
			return value.Measured{Val: av.Val / bv.Val, Terms: value.SimplifyTerms(value.DivideTerms(nil, bv.Terms))}
		}
	case value.Measured:
		switch bv := b.(type) {
		case value.Number:
			if bv.Val == 0 {
				return value.Errf(value.ErrRuntime, "division by zero")
			}
			return value.Measured{Val: av.Val / bv.Val, Terms: av.Terms, Precision: av.Precision}
		case value.Measured:
			if bv.Val == 0 {
				return value.Errf(value.ErrRuntime, "division by zero")
			}
			return value.Measured{Val: av.Val / bv.Val, Terms: value.SimplifyTerms(value.DivideTerms(av.Terms, bv.Terms))}
		}
	}
	return value.Errf(value.ErrType, "cannot divide %s by %s", a.Kind(), b.Kind())
}

// remainder implements `%` and `mod`: numeric modulo,
// preserving the left operand's unit when measured.
func (e *Evaluator) remainder(a, b value.Value) value.Value {
	bn, ok := asNumber(b)
	if !ok {
		if bm, ok := b.(value.Measured); ok && len(bm.Terms) == 0 {
			bn = bm.Val
		} else {
			return value.Errf(value.ErrType, "mod requires a plain number right operand, got %s", b.Kind())
		}
	}
	if bn == 0 {
		return value.Errf(value.ErrRuntime, "modulo by zero")
	}
	switch av := a.(type) {
	case value.Number:
		return value.Number{Val: math.Mod(av.Val, bn)}
	case value.Measured:
		return value.Measured{Val: math.Mod(av.Val, bn), Terms: av.Terms, Precision: av.Precision}
	}
	return value.Errf(value.ErrType, "mod requires a number or measured left operand, got %s", a.Kind())
}

// power implements `^`.
func (e *Evaluator) power(a, b value.Value) value.Value {
	bn, ok := asNumber(b)
	if !ok {
		return value.Errf(value.ErrType, "^ requires a plain number exponent, got %s", b.Kind())
	}
	switch av := a.(type) {
	case value.Number:
		return value.Number{Val: math.Pow(av.Val, bn)}
	case value.Measured:
		if bn != math.Trunc(bn) {
			return value.Errf(value.ErrType, "cannot raise a measured value to a non-integer power")
		}
		exp := int(bn)
		return value.Measured{Val: math.Pow(av.Val, bn), Terms: value.ScaleExponents(av.Terms, exp, 1)}
	}
	return value.Errf(value.ErrType, "cannot raise %s to a power", a.Kind())
}

// negate implements unary `-`.
func (e *Evaluator) negate(v value.Value) value.Value {
	switch x := v.(type) {
	case value.Number:
		return value.Number{Val: -x.Val}
	case value.Measured:
		return value.Measured{Val: -x.Val, Terms: x.Terms, Precision: x.Precision}
	case value.Composite:
		comps := make([]value.CompositeComponent, len(x.Components))
		for i, c := range x.Components {
			comps[i] = value.CompositeComponent{Val: -c.Val, UnitID: c.UnitID, Precision: c.Precision}
		}
		return value.Composite{Components: comps}
	case value.Duration:
		return x.Negate()
	}
	return value.Errf(value.ErrType, "cannot negate %s", v.Kind())
}

// bitwise implements &, |, xor, <<, >> over integer-valued numbers.
func (e *Evaluator) bitwise(op token.Type, a, b value.Value) value.Value {
	an, ok := asNumber(a)
	if !ok {
		return value.Errf(value.ErrType, "%s requires number operands, got %s", op, a.Kind())
	}
	bn, ok := asNumber(b)
	if !ok {
		return value.Errf(value.ErrType, "%s requires number operands, got %s", op, b.Kind())
	}
	ai, bi := int64(an), int64(bn)
	switch op {
	case token.AMP:
		return value.Number{Val: float64(ai & bi)}
	case token.PIPE:
		return value.Number{Val: float64(ai | bi)}
	case token.XOR:
		return value.Number{Val: float64(ai ^ bi)}
	case token.SHL:
		return value.Number{Val: float64(ai << uint(bi))}
	case token.SHR:
		return value.Number{Val: float64(ai >> uint(bi))}
	}
	return value.Errf(value.ErrRuntime, "unhandled bitwise operator %s", op)
}

// equal implements `==`/`!=`. Returns an error Value rather than a
// (bool, error) split only when the operand kinds are fundamentally
// incomparable.
func (e *Evaluator) equal(a, b value.Value) (bool, value.Value) {
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return false, nil
		}
		return av.Val == bv.Val, nil
	case value.Boolean:
		bv, ok := b.(value.Boolean)
		if !ok {
			return false, nil
		}
		return av.Val == bv.Val, nil
	case value.Measured:
		bv, ok := b.(value.Measured)
		if !ok {
			return false, nil
		}
		if !e.Units.SameDimension(av.Terms, bv.Terms) {
			return false, nil
		}
		return av.Val == e.rebase(bv, av.Terms), nil
	case value.Date:
		bv, ok := b.(value.Date)
		return ok && av == bv, nil
	case value.Time:
		bv, ok := b.(value.Time)
		return ok && av == bv, nil
	case value.DateTime:
		bv, ok := b.(value.DateTime)
		return ok && av == bv, nil
	case value.Instant:
		bv, ok := b.(value.Instant)
		return ok && av.Millis == bv.Millis, nil
	case value.ZonedDateTime:
		ai, aerr := chrono.ZonedToInstant(av)
		if aerr != nil {
			return false, value.Errf(value.ErrDateTime, "%s", aerr)
		}
		bv, ok := b.(value.ZonedDateTime)
		if !ok {
			return false, nil
		}
		bi, berr := chrono.ZonedToInstant(bv)
		if berr != nil {
			return false, value.Errf(value.ErrDateTime, "%s", berr)
		}
		return ai.Millis == bi.Millis, nil
	}
	return false, value.Errf(value.ErrType, "cannot compare %s and %s", a.Kind(), b.Kind())
}

// compareOp implements <, <=, >, >=, which only make sense over
// ordered kinds (numbers, same-dimension measured values, dates, times,
// datetimes, instants, and zoned datetimes; durations are not ordered).
func (e *Evaluator) compareOp(op token.Type, a, b value.Value) value.Value {
	cmp, errv := e.compare(a, b)
	if errv != nil {
		return errv
	}
	switch op {
	case token.LT:
		return value.Boolean{Val: cmp < 0}
	case token.LTE:
		return value.Boolean{Val: cmp <= 0}
	case token.GT:
		return value.Boolean{Val: cmp > 0}
	case token.GTE:
		return value.Boolean{Val: cmp >= 0}
	}
	return value.Errf(value.ErrRuntime, "unhandled comparison operator %s", op)
}

// compare returns -1/0/1 for a versus b, or an error Value if they are not
// an ordered pair.
func (e *Evaluator) compare(a, b value.Value) (int, value.Value) {
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare number and %s", b.Kind())
		}
		return floatCmp(av.Val, bv.Val), nil
	case value.Measured:
		bv, ok := b.(value.Measured)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare measured and %s", b.Kind())
		}
		if !e.Units.SameDimension(av.Terms, bv.Terms) {
			return 0, value.Errf(value.ErrType, "cannot compare incompatible units")
		}
		return floatCmp(av.Val, e.rebase(bv, av.Terms)), nil
	case value.Date:
		bv, ok := b.(value.Date)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare date and %s", b.Kind())
		}
		return tupleCmp3(av.Year, av.Month, av.Day, bv.Year, bv.Month, bv.Day), nil
	case value.Time:
		bv, ok := b.(value.Time)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare time and %s", b.Kind())
		}
		am := ((av.Hour*60+av.Minute)*60+av.Second)*1000 + av.Millisecond
		bm := ((bv.Hour*60+bv.Minute)*60+bv.Second)*1000 + bv.Millisecond
		return intCmp(am, bm), nil
	case value.DateTime:
		bv, ok := b.(value.DateTime)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare datetime and %s", b.Kind())
		}
		ai := chrono.UTCDateTimeToInstant(av)
		bi := chrono.UTCDateTimeToInstant(bv)
		return intCmp64(ai.Millis, bi.Millis), nil
	case value.Instant:
		bv, ok := b.(value.Instant)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare instant and %s", b.Kind())
		}
		return intCmp64(av.Millis, bv.Millis), nil
	case value.ZonedDateTime:
		bv, ok := b.(value.ZonedDateTime)
		if !ok {
			return 0, value.Errf(value.ErrType, "cannot compare zoned datetime and %s", b.Kind())
		}
		ai, aerr := chrono.ZonedToInstant(av)
		if aerr != nil {
			return 0, value.Errf(value.ErrDateTime, "%s", aerr)
		}
		bi, berr := chrono.ZonedToInstant(bv)
		if berr != nil {
			return 0, value.Errf(value.ErrDateTime, "%s", berr)
		}
		return intCmp64(ai.Millis, bi.Millis), nil
	}
	return 0, value.Errf(value.ErrType, "cannot compare %s and %s", a.Kind(), b.Kind())
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func tupleCmp3(a1, a2, a3, b1, b2, b3 int) int {
	if c := intCmp(a1, b1); c != 0 {
		return c
	}
	if c := intCmp(a2, b2); c != 0 {
		return c
	}
	return intCmp(a3, b3)
}
