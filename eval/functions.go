package eval

import (
	"math"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/value"
)

// unitPreservingFuncs is the set of functions applied component-wise over a
// Measured/Composite/Duration value rather than routed through the
// catalog's scalar MathFunc table.
var unitPreservingFuncs = map[string]func(float64) float64{
	"abs":   math.Abs,
	"round": math.Round,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"trunc": math.Trunc,
	"frac":  func(v float64) float64 { return v - math.Trunc(v) },
}

var trigFuncs = map[string]bool{"sin": true, "cos": true, "tan": true}
var inverseTrigFuncs = map[string]bool{"asin": true, "acos": true, "atan": true}

// evalFuncCall dispatches a function call to the catalog's scalar function
// table, applying the angle-unit policy to trig functions and handling the
// unit-preserving functions directly since they operate on a whole Value,
// not a float64.
func (e *Evaluator) evalFuncCall(n *ast.FuncCall, env *Environment) value.Value {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v := e.Eval(a, env)
		if value.IsError(v) {
			return v
		}
		args[i] = v
	}

	if fn, ok := unitPreservingFuncs[n.Name]; ok {
		if len(args) != 1 {
			return value.Errf(value.ErrRuntime, "%s takes exactly one argument", n.Name)
		}
		return e.applyUnitPreserving(fn, args[0])
	}

	if trigFuncs[n.Name] {
		if len(args) != 1 {
			return value.Errf(value.ErrRuntime, "%s takes exactly one argument", n.Name)
		}
		rad, errv := e.angleArgToRadians(args[0])
		if errv != nil {
			return errv
		}
		return e.callScalar(n.Name, rad)
	}

	if inverseTrigFuncs[n.Name] {
		if len(args) != 1 {
			return value.Errf(value.ErrRuntime, "%s takes exactly one argument", n.Name)
		}
		arg, ok := args[0].(value.Number)
		if !ok {
			return value.Errf(value.ErrType, "%s requires a plain number argument, got %s", n.Name, args[0].Kind())
		}
		result := e.callScalar(n.Name, arg.Val)
		if value.IsError(result) {
			return result
		}
		rv := result.(value.Number)
		// Inverse trig returns a value tagged in the configured angle unit:
		// a measured value in radians or degrees accordingly.
		if e.AngleUnit == AngleDegree {
			return value.Measured{
				Val:   rv.Val * 180 / math.Pi,
				Terms: []value.Term{{UnitID: "degree", Num: 1, Den: 1}},
			}
		}
		return value.Measured{
			Val:   rv.Val,
			Terms: []value.Term{{UnitID: "radian", Num: 1, Den: 1}},
		}
	}

	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(value.Number)
		if !ok {
			return value.Errf(value.ErrType, "function arguments must be plain numbers, got %s", a.Kind())
		}
		nums[i] = n.Val
	}
	fn, ok := e.Catalog.MathFunction(n.Name)
	if !ok {
		return value.Errf(value.ErrRuntime, "unknown function %q", n.Name)
	}
	result, err := fn(nums...)
	if err != nil {
		return value.Errf(value.ErrRuntime, "%s: %s", n.Name, err)
	}
	return value.Number{Val: result}
}

func (e *Evaluator) callScalar(name string, arg float64) value.Value {
	fn, ok := e.Catalog.MathFunction(name)
	if !ok {
		return value.Errf(value.ErrRuntime, "unknown function %q", name)
	}
	result, err := fn(arg)
	if err != nil {
		return value.Errf(value.ErrRuntime, "%s: %s", name, err)
	}
	return value.Number{Val: result}
}

// angleArgToRadians converts a trig argument to radians per the angle
// unit policy: a Measured value carrying an angle unit converts through
// its own unit; a bare Number is interpreted according to e.AngleUnit.
func (e *Evaluator) angleArgToRadians(v value.Value) (float64, value.Value) {
	switch x := v.(type) {
	case value.Number:
		if e.AngleUnit == AngleDegree {
			return x.Val * math.Pi / 180, nil
		}
		return x.Val, nil
	case value.Measured:
		converted := e.Units.Convert(x, "radian")
		if value.IsError(converted) {
			return 0, converted
		}
		return converted.(value.Measured).Val, nil
	}
	return 0, value.Errf(value.ErrType, "trig functions require a number or angle argument, got %s", v.Kind())
}

// applyUnitPreserving applies fn component-wise over a Measured, Composite,
// or Duration value, leaving units/fields untouched.
func (e *Evaluator) applyUnitPreserving(fn func(float64) float64, v value.Value) value.Value {
	switch x := v.(type) {
	case value.Number:
		return value.Number{Val: fn(x.Val)}
	case value.Measured:
		return value.Measured{Val: fn(x.Val), Terms: x.Terms, Precision: x.Precision}
	case value.Composite:
		comps := make([]value.CompositeComponent, len(x.Components))
		for i, c := range x.Components {
			comps[i] = value.CompositeComponent{Val: fn(c.Val), UnitID: c.UnitID, Precision: c.Precision}
		}
		return value.Composite{Components: comps}
	case value.Duration:
		return value.Duration{
			Years: int(fn(float64(x.Years))), Months: int(fn(float64(x.Months))),
			Weeks: int(fn(float64(x.Weeks))), Days: int(fn(float64(x.Days))),
			Hours: int(fn(float64(x.Hours))), Minutes: int(fn(float64(x.Minutes))),
			Seconds: int(fn(float64(x.Seconds))), Milliseconds: int(fn(float64(x.Milliseconds))),
		}
	}
	return value.Errf(value.ErrType, "cannot apply a unit-preserving function to %s", v.Kind())
}
