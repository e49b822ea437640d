package catalog

import (
	"math"
	"sort"
	"strings"

	xtextcurrency "golang.org/x/text/currency"

	"github.com/martinlindhe/unit"
)

// Dimension ids. "currency:<ISO4217>" and "currency_symbol:<glyph>" are
// synthesized per code/symbol rather than listed here.
const (
	DimLength      = "length"
	DimMass        = "mass"
	DimVolume      = "volume"
	DimTime        = "time"
	DimData        = "data"
	DimAngle       = "angle"
	DimTemperature = "temperature"
)

type builtin struct {
	units        map[string]Unit // by id
	byName       map[string]Unit // by lowercase name/symbol/plural
	currencies   map[string]Currency
	constants    map[string]Constant
	constAliases map[string]string // alias (lowercase) -> canonical name
	mathFuncs    map[string]MathFunc
	ambiguous    AmbiguousCurrencies
	tzAliases    map[string]string
	names        []string // all recognized unit names/symbols, longest first
}

// Builtin returns a reference Catalog implementation. Unit conversion
// factors for length/mass/volume are derived from github.com/martinlindhe/unit's
// typed quantities rather than re-typed constants, so the ratios this
// catalog hands to unitconv come from that library's numbers.
func Builtin() Catalog {
	b := &builtin{
		units:        map[string]Unit{},
		byName:       map[string]Unit{},
		currencies:   map[string]Currency{},
		constants:    map[string]Constant{},
		constAliases: map[string]string{},
		mathFuncs:    map[string]MathFunc{},
		tzAliases:    map[string]string{},
	}
	b.registerLengthUnits()
	b.registerMassUnits()
	b.registerVolumeUnits()
	b.registerTimeUnits()
	b.registerDataUnits()
	b.registerAngleUnits()
	b.registerTemperatureUnits()
	b.registerCurrencies()
	b.registerConstants()
	b.registerMathFunctions()
	b.registerTimezoneAliases()
	b.buildNameIndex()
	return b
}

func (b *builtin) add(u Unit, names ...string) {
	b.units[u.ID] = u
	for _, n := range names {
		b.byName[normalize(n)] = u
	}
}

// ratio computes factor-to-canonical as the dimensionless ratio of two
// martinlindhe/unit quantities expressed in the same underlying SI base.
func ratio(a, base float64) float64 { return a / base }

func (b *builtin) registerLengthUnits() {
	meter := float64(unit.Meter)
	b.add(Unit{ID: "meter", DimensionID: DimLength, Factor: ratio(float64(unit.Meter), meter),
		Display: DisplayName{"meter", "meters", "m"}}, "meter", "meters", "metre", "metres", "m")
	b.add(Unit{ID: "kilometer", DimensionID: DimLength, Factor: ratio(float64(unit.Kilometer), meter),
		Display: DisplayName{"kilometer", "kilometers", "km"}}, "kilometer", "kilometers", "kilometre", "kilometres", "km")
	b.add(Unit{ID: "centimeter", DimensionID: DimLength, Factor: ratio(float64(unit.Centimeter), meter),
		Display: DisplayName{"centimeter", "centimeters", "cm"}}, "centimeter", "centimeters", "centimetre", "centimetres", "cm")
	b.add(Unit{ID: "millimeter", DimensionID: DimLength, Factor: ratio(float64(unit.Millimeter), meter),
		Display: DisplayName{"millimeter", "millimeters", "mm"}}, "millimeter", "millimeters", "millimetre", "millimetres", "mm")
	b.add(Unit{ID: "mile", DimensionID: DimLength, Factor: ratio(float64(unit.Mile), meter),
		Display: DisplayName{"mile", "miles", "mi"}}, "mile", "miles", "mi")
	b.add(Unit{ID: "yard", DimensionID: DimLength, Factor: ratio(float64(unit.Yard), meter),
		Display: DisplayName{"yard", "yards", "yd"}}, "yard", "yards", "yd")
	b.add(Unit{ID: "foot", DimensionID: DimLength, Factor: ratio(float64(unit.Foot), meter),
		Display: DisplayName{"foot", "feet", "ft"}}, "foot", "feet", "ft")
	b.add(Unit{ID: "inch", DimensionID: DimLength, Factor: ratio(float64(unit.Inch), meter),
		Display: DisplayName{"inch", "inches", "in"}}, "inch", "inches", "in")
	b.add(Unit{ID: "nautical_mile", DimensionID: DimLength, Factor: ratio(float64(unit.NauticalMile), meter),
		Display: DisplayName{"nautical mile", "nautical miles", "nmi"}}, "nautical mile", "nautical miles", "nmi")
}

func (b *builtin) registerMassUnits() {
	kg := float64(unit.Kilogram)
	b.add(Unit{ID: "kilogram", DimensionID: DimMass, Factor: ratio(float64(unit.Kilogram), kg),
		Display: DisplayName{"kilogram", "kilograms", "kg"}}, "kilogram", "kilograms", "kg")
	b.add(Unit{ID: "gram", DimensionID: DimMass, Factor: ratio(float64(unit.Gram), kg),
		Display: DisplayName{"gram", "grams", "g"}}, "gram", "grams", "g")
	b.add(Unit{ID: "pound", DimensionID: DimMass, Factor: ratio(float64(unit.AvoirdupoisPound), kg),
		Display: DisplayName{"pound", "pounds", "lb"}}, "pound", "pounds", "lb", "lbs")
	b.add(Unit{ID: "ounce", DimensionID: DimMass, Factor: ratio(float64(unit.AvoirdupoisOunce), kg),
		Display: DisplayName{"ounce", "ounces", "oz"}}, "ounce", "ounces", "oz")
	b.add(Unit{ID: "tonne", DimensionID: DimMass, Factor: ratio(float64(unit.Tonne), kg),
		Display: DisplayName{"tonne", "tonnes", "t"}}, "tonne", "tonnes")
}

func (b *builtin) registerVolumeUnits() {
	liter := float64(unit.Liter)
	b.add(Unit{ID: "liter", DimensionID: DimVolume, Factor: ratio(float64(unit.Liter), liter),
		Display: DisplayName{"liter", "liters", "L"}}, "liter", "liters", "litre", "litres", "l")
	b.add(Unit{ID: "milliliter", DimensionID: DimVolume, Factor: ratio(float64(unit.Milliliter), liter),
		Display: DisplayName{"milliliter", "milliliters", "mL"}}, "milliliter", "milliliters", "millilitre", "millilitres", "ml")
	b.add(Unit{ID: "gallon", DimensionID: DimVolume, Factor: ratio(float64(unit.USLiquidGallon), liter),
		Display: DisplayName{"gallon", "gallons", "gal"}}, "gallon", "gallons", "gal")
	b.add(Unit{ID: "quart", DimensionID: DimVolume, Factor: ratio(float64(unit.USLiquidQuart), liter),
		Display: DisplayName{"quart", "quarts", "qt"}}, "quart", "quarts", "qt")
	b.add(Unit{ID: "pint", DimensionID: DimVolume, Factor: ratio(float64(unit.USLiquidPint), liter),
		Display: DisplayName{"pint", "pints", "pt"}}, "pint", "pints", "pt")
	b.add(Unit{ID: "cup", DimensionID: DimVolume, Factor: ratio(float64(unit.USCup), liter),
		Display: DisplayName{"cup", "cups", "cup"}}, "cup", "cups")
	b.add(Unit{ID: "tablespoon", DimensionID: DimVolume, Factor: ratio(float64(unit.USTableSpoon), liter),
		Display: DisplayName{"tablespoon", "tablespoons", "tbsp"}}, "tablespoon", "tablespoons", "tbsp")
	b.add(Unit{ID: "teaspoon", DimensionID: DimVolume, Factor: ratio(float64(unit.USTeaSpoon), liter),
		Display: DisplayName{"teaspoon", "teaspoons", "tsp"}}, "teaspoon", "teaspoons", "tsp")
}

// Time units here are the *exact* fixed-duration units the unit converter
// can scale linearly. Month/year are calendar components handled entirely
// by package chrono and never appear here.
func (b *builtin) registerTimeUnits() {
	b.add(Unit{ID: "millisecond", DimensionID: DimTime, Factor: 0.001,
		Display: DisplayName{"millisecond", "milliseconds", "ms"}}, "millisecond", "milliseconds", "ms")
	b.add(Unit{ID: "second", DimensionID: DimTime, Factor: 1,
		Display: DisplayName{"second", "seconds", "s"}}, "second", "seconds", "sec", "secs", "s")
	b.add(Unit{ID: "minute", DimensionID: DimTime, Factor: 60,
		Display: DisplayName{"minute", "minutes", "min"}}, "minute", "minutes", "min", "mins")
	b.add(Unit{ID: "hour", DimensionID: DimTime, Factor: 3600,
		Display: DisplayName{"hour", "hours", "h"}}, "hour", "hours", "hr", "hrs", "h")
	b.add(Unit{ID: "day", DimensionID: DimTime, Factor: 86400,
		Display: DisplayName{"day", "days", "d"}}, "day", "days")
	b.add(Unit{ID: "week", DimensionID: DimTime, Factor: 604800,
		Display: DisplayName{"week", "weeks", "wk"}}, "week", "weeks")
}

func (b *builtin) registerDataUnits() {
	b.add(Unit{ID: "bit", DimensionID: DimData, Factor: 0.125,
		Display: DisplayName{"bit", "bits", "b"}}, "bit", "bits")
	b.add(Unit{ID: "byte", DimensionID: DimData, Factor: 1,
		Display: DisplayName{"byte", "bytes", "B"}}, "byte", "bytes")
	b.add(Unit{ID: "kilobyte", DimensionID: DimData, Factor: 1e3,
		Display: DisplayName{"kilobyte", "kilobytes", "KB"}}, "kilobyte", "kilobytes", "kb")
	b.add(Unit{ID: "megabyte", DimensionID: DimData, Factor: 1e6,
		Display: DisplayName{"megabyte", "megabytes", "MB"}}, "megabyte", "megabytes", "mb")
	b.add(Unit{ID: "gigabyte", DimensionID: DimData, Factor: 1e9,
		Display: DisplayName{"gigabyte", "gigabytes", "GB"}}, "gigabyte", "gigabytes", "gb")
	b.add(Unit{ID: "kibibyte", DimensionID: DimData, Factor: 1024,
		Display: DisplayName{"kibibyte", "kibibytes", "KiB"}}, "kibibyte", "kibibytes", "kib")
	b.add(Unit{ID: "mebibyte", DimensionID: DimData, Factor: 1024 * 1024,
		Display: DisplayName{"mebibyte", "mebibytes", "MiB"}}, "mebibyte", "mebibytes", "mib")
	b.add(Unit{ID: "gibibyte", DimensionID: DimData, Factor: 1024 * 1024 * 1024,
		Display: DisplayName{"gibibyte", "gibibytes", "GiB"}}, "gibibyte", "gibibytes", "gib")
}

func (b *builtin) registerAngleUnits() {
	b.add(Unit{ID: "radian", DimensionID: DimAngle, Factor: 1,
		Display: DisplayName{"radian", "radians", "rad"}}, "radian", "radians", "rad")
	b.add(Unit{ID: "degree", DimensionID: DimAngle, Factor: math.Pi / 180,
		Display: DisplayName{"degree", "degrees", "°"}}, "degree", "degrees", "deg", "°")
}

func (b *builtin) registerTemperatureUnits() {
	b.add(Unit{ID: "kelvin", DimensionID: DimTemperature, Factor: 1, Offset: 0,
		Display: DisplayName{"kelvin", "kelvin", "K"}}, "kelvin", "K")
	b.add(Unit{ID: "celsius", DimensionID: DimTemperature, Factor: 1, Offset: 273.15,
		Display: DisplayName{"celsius", "celsius", "°C"}}, "celsius", "°C", "degC")
	fahrenheitFactor := 5.0 / 9.0
	fahrenheitOffset := 273.15 - 32*fahrenheitFactor
	b.add(Unit{ID: "fahrenheit", DimensionID: DimTemperature, Factor: fahrenheitFactor, Offset: fahrenheitOffset,
		Display: DisplayName{"fahrenheit", "fahrenheit", "°F"}}, "fahrenheit", "°F", "degF")
}

// minorDigits is the ISO-4217 minor-unit digit table.
var minorDigits = map[string]int{
	"JPY": 0, "KRW": 0, "VND": 0, "CLP": 0, "ISK": 0, "UGX": 0,
	"KWD": 3, "BHD": 3, "OMR": 3, "JOD": 3, "TND": 3,
	"USD": 2, "EUR": 2, "GBP": 2, "CHF": 2, "CAD": 2, "AUD": 2,
	"CNY": 2, "INR": 2, "SGD": 2, "HKD": 2, "NZD": 2, "MXN": 2,
	"BRL": 2, "ZAR": 2, "SEK": 2, "NOK": 2, "DKK": 2, "PLN": 2,
}

func (b *builtin) registerCurrencies() {
	for code, digits := range minorDigits {
		b.currencies[code] = Currency{Code: code, Digits: digits}
	}
	b.ambiguous = AmbiguousCurrencies{
		SymbolAdjacent: []string{"$", "£", "¥", "₩", "₹", "₽", "₺", "₫", "₴", "₪", "฿", "₦", "₱", "₲", "₡", "₵"},
		SymbolSpaced:   []string{"$", "£", "¥"},
	}
}

func (b *builtin) registerConstants() {
	consts := []Constant{
		{Name: "pi", Aliases: []string{"π"}, Value: math.Pi},
		{Name: "phi", Aliases: []string{"φ"}, Value: 1.6180339887498948},
		{Name: "e", Aliases: []string{"euler"}, Value: math.E},
		{Name: "infinity", Aliases: []string{"∞", "inf"}, Value: math.Inf(1)},
		{Name: "tau", Aliases: []string{"τ"}, Value: 2 * math.Pi},
		{Name: "c", Aliases: []string{"speed_of_light"}, Value: 299792458},
		{Name: "g", Aliases: []string{"gravity", "standard_gravity"}, Value: 9.80665},
	}
	for _, c := range consts {
		b.constants[normalize(c.Name)] = c
		for _, a := range c.Aliases {
			b.constAliases[normalize(a)] = normalize(c.Name)
		}
	}
}

func (b *builtin) registerMathFunctions() {
	one := func(f func(float64) float64) MathFunc {
		return func(args ...float64) (float64, error) {
			if len(args) != 1 {
				return 0, errArity("1")
			}
			return f(args[0]), nil
		}
	}
	b.mathFuncs["sin"] = one(math.Sin)
	b.mathFuncs["cos"] = one(math.Cos)
	b.mathFuncs["tan"] = one(math.Tan)
	b.mathFuncs["asin"] = one(math.Asin)
	b.mathFuncs["acos"] = one(math.Acos)
	b.mathFuncs["atan"] = one(math.Atan)
	b.mathFuncs["sqrt"] = one(math.Sqrt)
	b.mathFuncs["ln"] = one(math.Log)
	b.mathFuncs["log10"] = one(math.Log10)
	b.mathFuncs["log2"] = one(math.Log2)
	b.mathFuncs["exp"] = one(math.Exp)
	b.mathFuncs["min"] = func(args ...float64) (float64, error) {
		if len(args) == 0 {
			return 0, errArity(">=1")
		}
		m := args[0]
		for _, a := range args[1:] {
			if a < m {
				m = a
			}
		}
		return m, nil
	}
	b.mathFuncs["max"] = func(args ...float64) (float64, error) {
		if len(args) == 0 {
			return 0, errArity(">=1")
		}
		m := args[0]
		for _, a := range args[1:] {
			if a > m {
				m = a
			}
		}
		return m, nil
	}
}

type arityError string

func (e arityError) Error() string { return "expected " + string(e) + " argument(s)" }
func errArity(s string) error      { return arityError(s) }

func (b *builtin) registerTimezoneAliases() {
	aliases := map[string]string{
		"utc":           "UTC",
		"gmt":           "UTC",
		"est":           "America/New_York",
		"edt":           "America/New_York",
		"pst":           "America/Los_Angeles",
		"pdt":           "America/Los_Angeles",
		"cst":           "America/Chicago",
		"cdt":           "America/Chicago",
		"mst":           "America/Denver",
		"mdt":           "America/Denver",
		"new york":      "America/New_York",
		"los angeles":   "America/Los_Angeles",
		"chicago":       "America/Chicago",
		"london":        "Europe/London",
		"paris":         "Europe/Paris",
		"berlin":        "Europe/Berlin",
		"tokyo":         "Asia/Tokyo",
		"shanghai":      "Asia/Shanghai",
		"hong kong":     "Asia/Hong_Kong",
		"singapore":     "Asia/Singapore",
		"sydney":        "Australia/Sydney",
		"auckland":      "Pacific/Auckland",
		"mumbai":        "Asia/Kolkata",
		"kolkata":       "Asia/Kolkata",
		"dubai":         "Asia/Dubai",
		"sao paulo":     "America/Sao_Paulo",
		"mexico city":   "America/Mexico_City",
		"moscow":        "Europe/Moscow",
	}
	for k, v := range aliases {
		b.tzAliases[k] = v
	}
}

func (b *builtin) buildNameIndex() {
	for n := range b.byName {
		b.names = append(b.names, n)
	}
	for code := range minorDigits {
		b.names = append(b.names, strings.ToLower(code))
	}
	b.names = append(b.names, b.ambiguous.SymbolAdjacent...)
	b.names = append(b.names, b.ambiguous.SymbolSpaced...)
	sort.Slice(b.names, func(i, j int) bool { return len(b.names[i]) > len(b.names[j]) })
}

// currencyDimensionUnit synthesizes a Unit for a currency dimension id on
// the fly. Unlike length/mass/etc., the set of valid currency codes is the
// whole ISO-4217 alphabet (validated by CurrencyByCode, not enumerated
// up-front), so these units are never pre-registered in b.units; each is
// its own dimension with Factor 1 and no offset, since actual cross-rate
// math is package money's job, not the unit converter's.
func (b *builtin) currencyDimensionUnit(id string) (Unit, bool) {
	const codePrefix = "currency:"
	const symbolPrefix = "currency_symbol:"
	switch {
	case strings.HasPrefix(id, codePrefix):
		code := id[len(codePrefix):]
		if _, ok := b.CurrencyByCode(code); !ok {
			return Unit{}, false
		}
		return Unit{ID: id, DimensionID: id, Factor: 1,
			Display: DisplayName{Singular: code, Plural: code, Symbol: code}}, true
	case strings.HasPrefix(id, symbolPrefix):
		symbol := id[len(symbolPrefix):]
		if !containsString(b.ambiguous.SymbolAdjacent, symbol) && !containsString(b.ambiguous.SymbolSpaced, symbol) {
			return Unit{}, false
		}
		return Unit{ID: id, DimensionID: id, Factor: 1,
			Display: DisplayName{Singular: symbol, Plural: symbol, Symbol: symbol}}, true
	}
	return Unit{}, false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func (b *builtin) UnitByID(id string) (Unit, bool) {
	if u, ok := b.units[id]; ok {
		return u, true
	}
	return b.currencyDimensionUnit(id)
}

func (b *builtin) UnitByName(name string) (Unit, bool) {
	if u, ok := b.byName[normalize(name)]; ok {
		return u, true
	}
	trimmed := strings.TrimSpace(name)
	if containsString(b.ambiguous.SymbolAdjacent, trimmed) || containsString(b.ambiguous.SymbolSpaced, trimmed) {
		return b.currencyDimensionUnit("currency_symbol:" + trimmed)
	}
	if _, ok := b.CurrencyByCode(trimmed); ok {
		return b.currencyDimensionUnit("currency:" + strings.ToUpper(trimmed))
	}
	return Unit{}, false
}

func (b *builtin) CurrencyByCode(code string) (Currency, bool) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if _, err := xtextcurrency.ParseISO(upper); err != nil {
		return Currency{}, false
	}
	c, ok := b.currencies[upper]
	if !ok {
		// Recognized ISO code without an explicit minor-digit entry: the
		// overwhelming majority of ISO-4217 currencies use 2 decimal digits.
		return Currency{Code: upper, Digits: 2}, true
	}
	return c, true
}

func (b *builtin) AmbiguousCurrencies() AmbiguousCurrencies { return b.ambiguous }

func (b *builtin) ResolveTimezone(name string) (string, bool) {
	key := normalize(name)
	if v, ok := b.tzAliases[key]; ok {
		return v, true
	}
	// Already-canonical IANA identifiers (Area/Location) pass through
	// unchanged; validity against the platform tzdata is checked by chrono.
	if strings.Contains(name, "/") || name == "UTC" {
		return name, true
	}
	return "", false
}

func (b *builtin) Constants() []Constant {
	out := make([]Constant, 0, len(b.constants))
	for _, c := range b.constants {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (b *builtin) Constant(name string) (Constant, bool) {
	key := normalize(name)
	if canon, ok := b.constAliases[key]; ok {
		key = canon
	}
	c, ok := b.constants[key]
	return c, ok
}

func (b *builtin) MathFunction(name string) (MathFunc, bool) {
	f, ok := b.mathFuncs[normalize(name)]
	return f, ok
}

func (b *builtin) UnitNames() []string {
	return b.names
}
