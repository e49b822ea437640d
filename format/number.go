package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ha1tch/calcline/value"
)

// Number renders x under settings' numeric rules: auto precision,
// fixed precision, or a metadata-driven precision/sigfigs hint, followed
// by decimal-separator substitution and digit grouping.
func Number(x float64, prec value.Precision, s Settings) string {
	digits := renderDigits(x, prec, s)
	return applySeparators(digits, s)
}

// renderDigits produces the unlocalized digit string (still using "." as
// the decimal point) before separator substitution.
func renderDigits(x float64, prec value.Precision, s Settings) string {
	if prec.HasPrecision() {
		if prec.Mode == value.PrecisionSigFigs {
			return sigFigsString(x, prec.Count)
		}
		return fixedOrExponential(x, prec.Count)
	}
	if s.Precision >= 0 {
		return fixedOrExponential(x, s.Precision)
	}
	return autoPrecisionString(x)
}

// autoPrecisionString implements the auto-precision rule: ~10 sig
// figs in [1e-6, 1e10), ~16 sig figs at or above 1e10, exponential with 9
// sig figs otherwise (i.e. below 1e-6 and nonzero), trailing zeros
// stripped.
func autoPrecisionString(x float64) string {
	if x == 0 {
		return "0"
	}
	abs := math.Abs(x)
	switch {
	case abs >= 1e-6 && abs < 1e10:
		return stripTrailingZeros(strconv.FormatFloat(x, 'f', sigFigsToDecimals(x, 10), 64))
	case abs >= 1e10:
		return stripTrailingZeros(strconv.FormatFloat(x, 'f', sigFigsToDecimals(x, 16), 64))
	default:
		return stripTrailingZeros(strconv.FormatFloat(x, 'e', 8, 64))
	}
}

// sigFigsToDecimals converts a significant-figure count into the fraction
// digit count strconv.FormatFloat needs for x's magnitude.
func sigFigsToDecimals(x float64, sigFigs int) int {
	if x == 0 {
		return 0
	}
	magnitude := int(math.Floor(math.Log10(math.Abs(x)))) + 1
	decimals := sigFigs - magnitude
	if decimals < 0 {
		return 0
	}
	return decimals
}

// fixedOrExponential implements the fixed-precision rule: exponential
// with n fraction digits outside [1e-6, 1e10) (excluding zero), otherwise
// fixed with n fraction digits.
func fixedOrExponential(x float64, n int) string {
	abs := math.Abs(x)
	if abs >= 1e10 || (abs < 1e-6 && x != 0) {
		return strconv.FormatFloat(x, 'e', n, 64)
	}
	return strconv.FormatFloat(x, 'f', n, 64)
}

// sigFigsString implements the "sigfigs" precision-metadata mode: render
// at the requested significant-figure count, converting scientific
// notation to regular fixed notation whenever the magnitude allows it.
func sigFigsString(x float64, count int) string {
	if x == 0 {
		return strconv.FormatFloat(0, 'f', max(count-1, 0), 64)
	}
	exp := strconv.FormatFloat(x, 'e', count-1, 64)
	mantissa, exponent, ok := splitExponential(exp)
	if !ok {
		return exp
	}
	if exponent >= -6 && exponent < 15 {
		decimals := count - 1 - exponent
		if decimals < 0 {
			decimals = 0
		}
		return strconv.FormatFloat(x, 'f', decimals, 64)
	}
	return mantissa + "e" + expSign(exponent) + fmt.Sprintf("%02d", abs(exponent))
}

func splitExponential(s string) (mantissa string, exponent int, ok bool) {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return "", 0, false
	}
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:i], exp, true
}

func expSign(n int) string {
	if n < 0 {
		return "-"
	}
	return "+"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// stripTrailingZeros removes trailing fractional zeros (and a bare
// trailing "." if the whole fraction was zero) from a fixed or
// exponential digit string, without touching the exponent suffix.
func stripTrailingZeros(s string) string {
	mantissa, suffix := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, suffix = s[:i], s[i:]
	}
	if !strings.Contains(mantissa, ".") {
		return mantissa + suffix
	}
	mantissa = strings.TrimRight(mantissa, "0")
	mantissa = strings.TrimSuffix(mantissa, ".")
	return mantissa + suffix
}

// applySeparators substitutes the configured decimal separator and applies
// digit grouping to the mantissa only, leaving any exponent suffix intact
// (grouping and separator substitution never touch the exponent).
func applySeparators(digits string, s Settings) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	mantissa, suffix := digits, ""
	if i := strings.IndexAny(digits, "eE"); i >= 0 {
		mantissa, suffix = digits[:i], digits[i:]
	}
	intPart, fracPart := mantissa, ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		intPart, fracPart = mantissa[:i], mantissa[i+1:]
	}
	intPart = groupDigits(intPart, s)
	out := intPart
	if fracPart != "" {
		out += s.DecimalSeparator + fracPart
	}
	out += suffix
	if neg {
		out = "-" + out
	}
	return out
}

// groupDigits applies one of the four grouping schemes to an integer
// digit string, most-significant digit first.
func groupDigits(digits string, s Settings) string {
	if s.GroupSize == GroupOff || s.GroupSize == "" || s.GroupSeparator == "" || len(digits) <= 3 {
		return digits
	}
	var groups []string
	switch s.GroupSize {
	case GroupFours:
		for len(digits) > 4 {
			groups = append([]string{digits[len(digits)-4:]}, groups...)
			digits = digits[:len(digits)-4]
		}
	case GroupSouthAsian:
		// Last group is three digits, every group before that is two
		// (e.g. 1,23,45,678).
		groups = append(groups, digits[len(digits)-3:])
		digits = digits[:len(digits)-3]
		for len(digits) > 2 {
			groups = append([]string{digits[len(digits)-2:]}, groups...)
			digits = digits[:len(digits)-2]
		}
	default: // GroupTriples
		for len(digits) > 3 {
			groups = append([]string{digits[len(digits)-3:]}, groups...)
			digits = digits[:len(digits)-3]
		}
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, s.GroupSeparator)
}
