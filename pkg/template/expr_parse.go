package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
)

type exprToken struct {
	kind tokenKind
	text string
	pos  int
}

// ParseExpr parses a binding expression.
//
// The grammar is deliberately small:
//
//	or      = and { "||" and }
//	and     = eq { "&&" eq }
//	eq      = unary { ("==" | "!=" | "===" | "!==") unary }
//	unary   = "!" unary | primary
//	primary = literal | path | "(" or ")"
//	path    = ident { ("." | "?.") ident }
func ParseExpr(src string) (Expr, error) {
	toks, err := lexExpr(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{src: src, toks: toks}
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected token %q", t.text)
	}
	return e, nil
}

func lexExpr(src string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			toks = append(toks, exprToken{tokIdent, src[start:i], start})
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			toks = append(toks, exprToken{tokNumber, src[start:i], start})
		case c == '\'' || c == '"':
			start := i
			i++
			var b strings.Builder
			for i < len(src) && src[i] != c {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				b.WriteByte(src[i])
				i++
			}
			if i >= len(src) {
				return nil, &ExpressionError{Expr: src, Offset: start, Msg: "unterminated string"}
			}
			i++
			toks = append(toks, exprToken{tokString, b.String(), start})
		default:
			op := ""
			for _, cand := range []string{"===", "!==", "==", "!=", "&&", "||", "?.", "!", "(", ")", "."} {
				if strings.HasPrefix(src[i:], cand) {
					op = cand
					break
				}
			}
			if op == "" {
				return nil, &ExpressionError{Expr: src, Offset: i, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
			}
			toks = append(toks, exprToken{tokOp, op, i})
			i += len(op)
		}
	}
	return append(toks, exprToken{kind: tokEOF, pos: len(src)}), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

type exprParser struct {
	src  string
	toks []exprToken
	pos  int
}

func (p *exprParser) peek() exprToken { return p.toks[p.pos] }

func (p *exprParser) next() exprToken {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *exprParser) errorf(t exprToken, format string, args ...any) error {
	return &ExpressionError{Expr: p.src, Offset: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *exprParser) or() (Expr, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isOp("||") {
		p.next()
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: "||", L: l, R: r}
	}
	return l, nil
}

func (p *exprParser) and() (Expr, error) {
	l, err := p.eq()
	if err != nil {
		return nil, err
	}
	for p.isOp("&&") {
		p.next()
		r, err := p.eq()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: "&&", L: l, R: r}
	}
	return l, nil
}

func (p *exprParser) eq() (Expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("==", "!=", "===", "!==") {
		op := p.next().text
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = &Binary{Op: op[:2], L: l, R: r}
	}
	return l, nil
}

func (p *exprParser) unary() (Expr, error) {
	if p.isOp("!") {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.primary()
}

func (p *exprParser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %q", t.text)
		}
		if f == float64(int(f)) && !strings.Contains(t.text, ".") {
			return &Literal{Value: int(f)}, nil
		}
		return &Literal{Value: f}, nil
	case tokString:
		return &Literal{Value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &Literal{Value: true}, nil
		case "false":
			return &Literal{Value: false}, nil
		case "null", "undefined":
			return &Literal{Value: nil}, nil
		}
		path := &Path{Parts: []string{t.text}}
		for p.isOp(".", "?.") {
			p.next()
			id := p.next()
			if id.kind != tokIdent {
				return nil, p.errorf(id, "expected identifier after '.'")
			}
			path.Parts = append(path.Parts, id.text)
		}
		return path, nil
	case tokOp:
		if t.text == "(" {
			e, err := p.or()
			if err != nil {
				return nil, err
			}
			if !p.isOp(")") {
				return nil, p.errorf(p.peek(), "missing ')'")
			}
			p.next()
			return e, nil
		}
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of expression")
	}
	return nil, p.errorf(t, "unexpected token %q", t.text)
}

// parseInterpolation splits text on {{ }} markers. hash, when non-nil,
// replaces every '#' outside markers (ICU plural cases).
func parseInterpolation(text string, hash Expr) (*Interpolation, error) {
	in := &Interpolation{}
	literal := func(s string) {
		if s == "" {
			return
		}
		if hash == nil || !strings.Contains(s, "#") {
			in.Parts = append(in.Parts, Part{Literal: s})
			return
		}
		chunks := strings.Split(s, "#")
		for i, c := range chunks {
			if i > 0 {
				in.Parts = append(in.Parts, Part{Expr: hash})
			}
			if c != "" {
				in.Parts = append(in.Parts, Part{Literal: c})
			}
		}
	}

	rest := text
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			literal(rest)
			break
		}
		end := strings.Index(rest[open+2:], "}}")
		if end < 0 {
			return nil, &ExpressionError{Expr: text, Offset: len(text) - len(rest) + open, Msg: "unterminated interpolation"}
		}
		literal(rest[:open])
		src := strings.TrimSpace(rest[open+2 : open+2+end])
		e, err := ParseExpr(src)
		if err != nil {
			return nil, err
		}
		in.Parts = append(in.Parts, Part{Expr: e})
		rest = rest[open+2+end+2:]
	}
	return in, nil
}
