// Package calcline exposes the orchestrator: the per-document driver
// that threads each source line through the tokenizer, grammar parser,
// ambiguity resolver, evaluator, and formatter.
package calcline

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/catalog"
	"github.com/ha1tch/calcline/eval"
	"github.com/ha1tch/calcline/format"
	"github.com/ha1tch/calcline/money"
	"github.com/ha1tch/calcline/parser"
	"github.com/ha1tch/calcline/resolve"
	"github.com/ha1tch/calcline/unitconv"
	"github.com/ha1tch/calcline/value"
)

// LineKind tags what kind of line a LineResult describes.
type LineKind int

const (
	LineExpression LineKind = iota
	LineAssignment
	LineHeading
	LineEmpty
	LinePlainText
	LineError
)

func (k LineKind) String() string {
	switch k {
	case LineExpression:
		return "expression"
	case LineAssignment:
		return "assignment"
	case LineHeading:
		return "heading"
	case LineEmpty:
		return "empty"
	case LinePlainText:
		return "plain-text"
	case LineError:
		return "error"
	default:
		return "unknown"
	}
}

// LineResult is the orchestrator's output for one source line.
type LineResult struct {
	LineNumber   int
	Kind         LineKind
	Formatted    string
	HasError     bool
	Value        value.Value // nil for non-expression lines
	Tree         ast.Expr    // nil for non-expression lines or failed parses
	HeadingLevel int
	HeadingText  string
	AssignName   string
}

// DocumentErrors buckets every error message produced across a document by
// the phase that produced it.
type DocumentErrors struct {
	Lexer   []string
	Parser  []string
	Runtime []string
}

// CalculateResult is calculate()'s full per-document output.
type CalculateResult struct {
	DocumentID uuid.UUID
	Lines      []LineResult
	Errors     DocumentErrors
}

// ParseResult is parse()'s output: the chosen tree per line, evaluation
// skipped entirely.
type ParseResult struct {
	DocumentID uuid.UUID
	Trees      []LineResult // Value is always nil; Formatted is always ""
	Errors     DocumentErrors
}

// Orchestrator owns one document's catalog handle, converters, resolver,
// evaluator, variable environment, and rendering settings for the
// document's lifetime. It is not safe for
// concurrent use by multiple goroutines over the same document; the
// underlying Catalog is safely shared read-only across many Orchestrators.
type Orchestrator struct {
	DocumentID uuid.UUID

	Catalog  catalog.Catalog
	Units    *unitconv.Converter
	Money    *money.Converter
	Resolver *resolve.Resolver
	Eval     *eval.Evaluator
	Env      *eval.Environment
	Settings format.Settings
}

// New builds an Orchestrator over cat, wiring the unit converter, currency
// converter, ambiguity resolver, and evaluator that share it, and starting
// with a fresh variable environment and default settings.
func New(cat catalog.Catalog) *Orchestrator {
	units := unitconv.New(cat)
	moneyConv := money.New(cat)
	return &Orchestrator{
		DocumentID: uuid.New(),
		Catalog:    cat,
		Units:      units,
		Money:      moneyConv,
		Resolver:   resolve.New(cat),
		Eval:       eval.New(cat, units, moneyConv),
		Env:        eval.NewEnvironment(),
		Settings:   format.DefaultSettings(),
	}
}

// LoadExchangeRates publishes a new rate snapshot via the currency
// converter's copy-on-write loader.
func (o *Orchestrator) LoadExchangeRates(snapshot ExchangeRateSnapshot) error {
	date, err := snapshot.parseDate()
	if err != nil {
		return err
	}
	return o.Money.Load(date, snapshot.Base, snapshot.Rates)
}

// SetUserLocale applies the rendering-settings overlay associated with
// region, overwriting only the fields a locale actually determines
// (decimal separator, digit grouping, imperial variant); an unrecognized
// region leaves Settings untouched.
func (o *Orchestrator) SetUserLocale(region string) {
	o.Settings = o.Settings.Apply(localeOverlay(region))
}

// Calculate runs every line of input through the full pipeline: tokenize,
// parse to candidates, resolve to one tree, evaluate, format. Line
// N's evaluation can read variables bound by lines 1..N-1.
func (o *Orchestrator) Calculate(input string) CalculateResult {
	o.Eval.AngleUnit = o.Settings.AngleUnit
	result := CalculateResult{DocumentID: o.DocumentID}
	for i, raw := range splitLines(input) {
		lineNo := i + 1
		lr := parser.ParseLine(raw, lineNo, o.Catalog)
		result.Lines = append(result.Lines, o.runLine(lineNo, lr, &result.Errors))
	}
	return result
}

// Parse runs tokenization and grammar parsing/resolution only, skipping
// evaluation entirely.
func (o *Orchestrator) Parse(input string) ParseResult {
	result := ParseResult{DocumentID: o.DocumentID}
	for i, raw := range splitLines(input) {
		lineNo := i + 1
		lr := parser.ParseLine(raw, lineNo, o.Catalog)
		result.Trees = append(result.Trees, o.resolveOnly(lineNo, lr, &result.Errors))
	}
	return result
}

func splitLines(input string) []string {
	return strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
}

func (o *Orchestrator) runLine(lineNo int, lr parser.LineResult, errs *DocumentErrors) LineResult {
	switch lr.Kind {
	case parser.KindEmpty:
		return LineResult{LineNumber: lineNo, Kind: LineEmpty}
	case parser.KindHeading:
		return LineResult{LineNumber: lineNo, Kind: LineHeading, HeadingLevel: lr.HeadingLevel, HeadingText: lr.HeadingText, Formatted: lr.HeadingText}
	case parser.KindPlainText:
		return LineResult{LineNumber: lineNo, Kind: LinePlainText, Formatted: lr.PlainText}
	case parser.KindLexerError:
		errs.Lexer = append(errs.Lexer, lr.Errors...)
		return errorResult(lineNo, "Parsing Error: "+strings.Join(lr.Errors, "; "))
	case parser.KindParserError:
		errs.Parser = append(errs.Parser, lr.Errors...)
		return errorResult(lineNo, "Parsing Error: "+strings.Join(lr.Errors, "; "))
	}

	tree, ok := o.Resolver.Select(lr.Candidates, o.Env)
	if !ok {
		errs.Parser = append(errs.Parser, "no candidate parse survived resolution")
		return errorResult(lineNo, "Parsing Error: no candidate parse survived resolution")
	}

	var v value.Value
	kind := LineExpression
	if lr.Kind == parser.KindAssignment {
		kind = LineAssignment
		v = o.Eval.EvalAssignment(&ast.Assignment{Name: lr.AssignName, Value: tree}, o.Env)
	} else {
		v = o.Eval.Eval(tree, o.Env)
	}

	formatted := format.Value(v, o.Catalog, o.Settings)
	hasError := value.IsError(v)
	if hasError {
		errs.Runtime = append(errs.Runtime, formatted)
	}
	return LineResult{
		LineNumber: lineNo,
		Kind:       kind,
		Formatted:  formatted,
		HasError:   hasError,
		Value:      v,
		Tree:       tree,
		AssignName: lr.AssignName,
	}
}

func (o *Orchestrator) resolveOnly(lineNo int, lr parser.LineResult, errs *DocumentErrors) LineResult {
	switch lr.Kind {
	case parser.KindEmpty:
		return LineResult{LineNumber: lineNo, Kind: LineEmpty}
	case parser.KindHeading:
		return LineResult{LineNumber: lineNo, Kind: LineHeading, HeadingLevel: lr.HeadingLevel, HeadingText: lr.HeadingText}
	case parser.KindPlainText:
		return LineResult{LineNumber: lineNo, Kind: LinePlainText, Formatted: lr.PlainText}
	case parser.KindLexerError:
		errs.Lexer = append(errs.Lexer, lr.Errors...)
		return errorResult(lineNo, "Parsing Error: "+strings.Join(lr.Errors, "; "))
	case parser.KindParserError:
		errs.Parser = append(errs.Parser, lr.Errors...)
		return errorResult(lineNo, "Parsing Error: "+strings.Join(lr.Errors, "; "))
	}

	tree, ok := o.Resolver.Select(lr.Candidates, o.Env)
	if !ok {
		errs.Parser = append(errs.Parser, "no candidate parse survived resolution")
		return errorResult(lineNo, "Parsing Error: no candidate parse survived resolution")
	}
	kind := LineExpression
	if lr.Kind == parser.KindAssignment {
		kind = LineAssignment
	}
	return LineResult{LineNumber: lineNo, Kind: kind, Tree: tree, AssignName: lr.AssignName}
}

func errorResult(lineNo int, message string) LineResult {
	return LineResult{LineNumber: lineNo, Kind: LineError, Formatted: message, HasError: true}
}
