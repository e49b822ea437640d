package parser

import (
	"strconv"
	"strings"

	"github.com/ha1tch/calcline/ast"
	"github.com/ha1tch/calcline/token"
)

// monthNames maps month-name words (abbreviated and full, lowercased) to
// the month number for the `YYYY MMM DD` date-literal shape.
var monthNames = map[string]int{
	"jan": 1, "january": 1, "feb": 2, "february": 2, "mar": 3, "march": 3,
	"apr": 4, "april": 4, "may": 5, "jun": 6, "june": 6,
	"jul": 7, "july": 7, "aug": 8, "august": 8, "sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10, "nov": 11, "november": 11, "dec": 12, "december": 12,
}

// parseDateLit recognizes the YYYY-MM-DD and `YYYY MMM DD` token shapes.
// The former overlaps with ordinary integer subtraction (`2024 - 01 - 15`);
// the caller always also keeps the plain-number reading, so both
// interpretations reach the resolver.
func (p *Parser) parseDateLit(pos int) (*ast.DateLit, int, bool) {
	yearTok := p.at(pos)
	if yearTok.Type != token.INT || len(yearTok.Literal) != 4 || !allDigits(yearTok.Literal) {
		return nil, pos, false
	}
	if word, ok := p.identWordAt(pos + 1); ok {
		month, isMonth := monthNames[word]
		dayTok := p.at(pos + 2)
		if isMonth && dayTok.Type == token.INT && allDigits(dayTok.Literal) && len(dayTok.Literal) <= 2 {
			year, _ := strconv.Atoi(yearTok.Literal)
			day, _ := strconv.Atoi(dayTok.Literal)
			if day >= 1 && day <= 31 {
				return &ast.DateLit{BaseNode: ast.At(p.posOf(pos)), Year: year, Month: month, Day: day}, pos + 3, true
			}
		}
		return nil, pos, false
	}
	if p.at(pos+1).Type != token.MINUS {
		return nil, pos, false
	}
	monthTok := p.at(pos + 2)
	if monthTok.Type != token.INT || !allDigits(monthTok.Literal) || len(monthTok.Literal) > 2 {
		return nil, pos, false
	}
	if p.at(pos+3).Type != token.MINUS {
		return nil, pos, false
	}
	dayTok := p.at(pos + 4)
	if dayTok.Type != token.INT || !allDigits(dayTok.Literal) || len(dayTok.Literal) > 2 {
		return nil, pos, false
	}
	year, _ := strconv.Atoi(yearTok.Literal)
	month, _ := strconv.Atoi(monthTok.Literal)
	day, _ := strconv.Atoi(dayTok.Literal)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, pos, false
	}
	return &ast.DateLit{BaseNode: ast.At(p.posOf(pos)), Year: year, Month: month, Day: day}, pos + 5, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (p *Parser) parseTimeLit(pos int) (*ast.TimeLit, int, bool) {
	tok := p.at(pos)
	if tok.Type != token.CLOCK {
		return nil, pos, false
	}
	parts := strings.Split(tok.Literal, ":")
	if len(parts) < 2 {
		return nil, pos, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	second := 0
	if len(parts) == 3 {
		s, err3 := strconv.Atoi(parts[2])
		if err3 != nil {
			return nil, pos, false
		}
		second = s
	}
	if err1 != nil || err2 != nil {
		return nil, pos, false
	}
	return &ast.TimeLit{BaseNode: ast.At(p.posOf(pos)), Hour: hour, Minute: minute, Second: second}, pos + 1, true
}

// parseZoneSuffix greedily matches a trailing IANA-style zone (joined by
// `/`) or a catalog timezone alias phrase of up to three words. IANA
// identifiers keep their original casing: the platform tzdata lookup is
// case-sensitive (`America/New_York`, never `america/new_york`).
func (p *Parser) parseZoneSuffix(pos int) (string, int, bool) {
	if p.at(pos).Type == token.IDENT {
		end := pos + 1
		parts := []string{p.at(pos).Literal}
		for p.at(end).Type == token.SLASH {
			if p.at(end+1).Type == token.IDENT {
				parts = append(parts, p.at(end+1).Literal)
				end += 2
				continue
			}
			break
		}
		if len(parts) > 1 {
			joined := strings.Join(parts, "/")
			if _, ok := p.cat.ResolveTimezone(joined); ok {
				return joined, end, true
			}
		}
	}
	for wordCount := 3; wordCount >= 1; wordCount-- {
		var words []string
		ok := true
		for i := 0; i < wordCount; i++ {
			w, o := p.identWordAt(pos + i)
			if !o {
				ok = false
				break
			}
			words = append(words, w)
		}
		if !ok {
			continue
		}
		joined := strings.Join(words, " ")
		if _, found := p.cat.ResolveTimezone(joined); found {
			return joined, pos + wordCount, true
		}
	}
	return "", pos, false
}

// parseDateTimeChain builds DateLit / DateTimeLit / ZonedDateTimeLit
// candidates starting at pos. It always includes the bare DateLit reading
// alongside any time/zone extensions it can additionally build.
func (p *Parser) parseDateTimeChain(pos int) []candidate {
	date, next, ok := p.parseDateLit(pos)
	if !ok {
		return nil
	}
	out := []candidate{{expr: date, pos: next}}
	timeLit, next2, ok := p.parseTimeLit(next)
	if !ok {
		return out
	}
	dt := &ast.DateTimeLit{BaseNode: ast.At(p.posOf(pos)), Date: date, Time: timeLit}
	out = append(out, candidate{expr: dt, pos: next2})
	if zone, next3, ok := p.parseZoneSuffix(next2); ok {
		zdt := &ast.ZonedDateTimeLit{BaseNode: ast.At(p.posOf(pos)), DateTime: dt, Zone: zone}
		out = append(out, candidate{expr: zdt, pos: next3})
	}
	return out
}

func (p *Parser) parseKeywordInstant(pos int) (candidate, bool) {
	switch p.at(pos).Type {
	case token.NOW:
		return candidate{expr: &ast.KeywordInstant{BaseNode: ast.At(p.posOf(pos)), Kind: "now"}, pos: pos + 1}, true
	case token.TODAY:
		return candidate{expr: &ast.KeywordInstant{BaseNode: ast.At(p.posOf(pos)), Kind: "today"}, pos: pos + 1}, true
	case token.YESTERDAY:
		return candidate{expr: &ast.KeywordInstant{BaseNode: ast.At(p.posOf(pos)), Kind: "yesterday"}, pos: pos + 1}, true
	case token.TOMORROW:
		return candidate{expr: &ast.KeywordInstant{BaseNode: ast.At(p.posOf(pos)), Kind: "tomorrow"}, pos: pos + 1}, true
	}
	return candidate{}, false
}

// parseInstantLit recognizes the invented `unix <millis>` literal (see
// ast.InstantLit) used when a document needs a bare epoch-millisecond value.
func (p *Parser) parseInstantLit(pos int) (candidate, bool) {
	if p.at(pos).Type != token.UNIX_KW {
		return candidate{}, false
	}
	millisTok := p.at(pos + 1)
	if millisTok.Type != token.INT {
		return candidate{}, false
	}
	v, _, ok := decodeIntLiteral(millisTok.Literal)
	if !ok {
		return candidate{}, false
	}
	return candidate{expr: &ast.InstantLit{BaseNode: ast.At(p.posOf(pos)), Millis: v}, pos: pos + 2}, true
}

// parseRelativeInstant recognizes `N unit ago` and `N unit from now`.
func (p *Parser) parseRelativeInstant(pos int) (candidate, bool) {
	num, ok := p.parseNumberLit(pos)
	if !ok {
		return candidate{}, false
	}
	unitWord, ok := p.identWordAt(num.pos)
	if !ok {
		return candidate{}, false
	}
	after := num.pos + 1
	if p.at(after).Type == token.AGO {
		return candidate{
			expr: &ast.RelativeInstant{BaseNode: ast.At(p.posOf(pos)), Amount: num.lit, Unit: unitWord, FromNow: false},
			pos:  after + 1,
		}, true
	}
	if p.at(after).Type == token.FROM && p.at(after+1).Type == token.NOW {
		return candidate{
			expr: &ast.RelativeInstant{BaseNode: ast.At(p.posOf(pos)), Amount: num.lit, Unit: unitWord, FromNow: true},
			pos:  after + 2,
		}, true
	}
	return candidate{}, false
}
