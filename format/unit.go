package format

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/value"
)

var superscriptDigits = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
}

func toSuperscript(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	if strings.HasPrefix(s, "-") {
		b.WriteRune('⁻')
		s = s[1:]
	}
	for _, r := range s {
		b.WriteRune(superscriptDigits[r])
	}
	return b.String()
}

// unitDisplayName returns the catalog display string for unitID under the
// configured symbol/name preference, falling back to the raw (user-defined)
// id itself when the catalog doesn't recognize it.
func unitDisplayName(unitID string, cat catalog.Catalog, s Settings) string {
	u, ok := cat.UnitByID(unitID)
	if !ok {
		return unitID
	}
	if s.UnitDisplay == UnitName {
		if u.Display.Singular != "" {
			return u.Display.Singular
		}
	}
	if u.Display.Symbol != "" {
		return u.Display.Symbol
	}
	return u.Display.Singular
}

// termString renders one unit term with its display name and, for an
// exponent other than 1, a Unicode-superscript power.
func termString(t value.Term, cat catalog.Catalog, s Settings) string {
	name := unitDisplayName(t.UnitID, cat, s)
	exp := t.Num
	if t.Den != 1 && t.Den != 0 {
		exp = t.Num / t.Den
	}
	if exp == 1 {
		return name
	}
	return name + toSuperscript(exp)
}

// UnitExpr renders a term list as "num / denom" (or "num / (d1 d2)" for
// more than one denominator term).
func UnitExpr(terms []value.Term, cat catalog.Catalog, s Settings) string {
	var num, den []string
	for _, t := range terms {
		if t.Num < 0 {
			den = append(den, termString(t.Negate(), cat, s))
		} else {
			num = append(num, termString(t, cat, s))
		}
	}
	numStr := strings.Join(num, " ")
	if len(den) == 0 {
		return numStr
	}
	denStr := strings.Join(den, " ")
	if len(den) > 1 {
		denStr = "(" + denStr + ")"
	}
	if numStr == "" {
		numStr = "1"
	}
	return numStr + " / " + denStr
}

// unitSpacing returns "" or " " depending on whether unitName begins with a
// letter.
func unitSpacing(unitName string) string {
	for _, r := range unitName {
		if unicode.IsLetter(r) {
			return " "
		}
		break
	}
	return ""
}

// Measured renders a Measured value's number and unit expression together.
func Measured(m value.Measured, cat catalog.Catalog, s Settings) string {
	num := Number(m.Val, m.Precision, precisionWithCurrencyHint(m, cat, s))
	unitStr := UnitExpr(m.Terms, cat, s)
	if unitStr == "" {
		return num
	}
	return num + unitSpacing(unitStr) + unitStr
}

// precisionWithCurrencyHint implements the currency-precision rule:
// when the caller asked for auto precision and the value carries exactly
// one positive-exponent currency term, render using that currency's
// minor-unit digit count rather than the generic auto-precision rule.
func precisionWithCurrencyHint(m value.Measured, cat catalog.Catalog, s Settings) Settings {
	if s.Precision != -1 || m.Precision.HasPrecision() {
		return s
	}
	if len(m.Terms) != 1 || m.Terms[0].Num <= 0 {
		return s
	}
	u, ok := cat.UnitByID(m.Terms[0].UnitID)
	if !ok || !strings.HasPrefix(u.DimensionID, "currency:") {
		return s
	}
	code := strings.TrimPrefix(u.DimensionID, "currency:")
	c, ok := cat.CurrencyByCode(code)
	if !ok {
		return s
	}
	overridden := s
	overridden.Precision = c.Digits
	return overridden
}

// Composite renders an ordered composite measurement as a space-joined
// sequence of its components, each with its own unit.
func Composite(c value.Composite, cat catalog.Catalog, s Settings) string {
	parts := make([]string, len(c.Components))
	for i, comp := range c.Components {
		name := unitDisplayName(comp.UnitID, cat, s)
		num := Number(comp.Val, comp.Precision, s)
		parts[i] = num + unitSpacing(name) + name
	}
	return strings.Join(parts, " ")
}
