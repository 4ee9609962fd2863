package template

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// parseICU parses a brace-balanced ICU block starting at pos.
func (p *parser) parseICU(raw string, pos Position) (*ICU, error) {
	body := raw[1 : len(raw)-1]
	parts := strings.SplitN(body, ",", 3)
	if len(parts) < 3 {
		return nil, p.errorf(pos, "invalid ICU message %q", raw)
	}
	sw, err := ParseExpr(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, p.wrap(pos, err)
	}
	icu := &ICU{Switch: sw, Type: strings.TrimSpace(parts[1]), Position: pos}

	var hash Expr
	if icu.Type == "plural" {
		hash = sw
	}

	rest := parts[2]
	offset := advance(pos, raw[:len(raw)-len(parts[2])-1])
	for {
		trimmed := strings.TrimLeft(rest, " \t\n\r\f")
		offset = advance(offset, rest[:len(rest)-len(trimmed)])
		rest = trimmed
		if rest == "" {
			break
		}
		open := strings.IndexByte(rest, '{')
		if open <= 0 {
			return nil, p.errorf(offset, "invalid ICU message: expected case %q", rest)
		}
		key := strings.TrimSpace(rest[:open])
		end := matchBrace(rest[open:])
		if end < 0 {
			return nil, p.errorf(offset, "invalid ICU message: unterminated case %q", key)
		}
		caseSrc := rest[open+1 : open+end]
		casePos := advance(offset, rest[:open+1])

		sub := &parser{opts: p.opts, src: caseSrc, pos: casePos, hash: hash}
		nodes, err := sub.parse()
		if err != nil {
			return nil, err
		}
		icu.Cases = append(icu.Cases, ICUCase{Key: key, Nodes: nodes})

		consumed := rest[:open+end+1]
		offset = advance(offset, consumed)
		rest = rest[open+end+1:]
	}
	if len(icu.Cases) == 0 {
		return nil, p.errorf(pos, "ICU message %q has no cases", raw)
	}
	return icu, nil
}

// Select returns the index of the case matching value, or -1. Exact "=N"
// cases win; plural blocks then use the CLDR category of value in lang;
// "other" is the fallback.
func (icu *ICU) Select(value any, lang language.Tag) int {
	if n, ok := toFloat(value); ok {
		for i, c := range icu.Cases {
			if strings.HasPrefix(c.Key, "=") {
				if k, err := strconv.ParseFloat(c.Key[1:], 64); err == nil && k == n {
					return i
				}
			}
		}
		if icu.Type == "plural" {
			if i := icu.index(pluralCategory(n, lang)); i >= 0 {
				return i
			}
		}
	}
	if icu.Type == "select" {
		if i := icu.index(Stringify(value)); i >= 0 {
			return i
		}
	}
	return icu.index("other")
}

func (icu *ICU) index(key string) int {
	for i, c := range icu.Cases {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func pluralCategory(n float64, lang language.Tag) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "other"
	}
	s := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	i, _ := strconv.Atoi(intPart)
	v := len(frac)
	f, _ := strconv.Atoi(frac)
	trimmed := strings.TrimRight(frac, "0")
	w := len(trimmed)
	t, _ := strconv.Atoi(trimmed)

	switch plural.Cardinal.MatchPlural(lang, i, v, w, f, t) {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	}
	return "other"
}
