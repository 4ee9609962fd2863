package template

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Options configures Parse.
type Options struct {
	// File names the template in errors.
	File string

	// PreserveWhitespaces keeps whitespace-only text nodes and whitespace
	// runs. By default they are removed and collapsed to one space.
	PreserveWhitespaces bool
}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

var (
	icuStart   = regexp.MustCompile(`^\{\s*[^{},]+,\s*(select|plural)\s*,`)
	whitespace = regexp.MustCompile(`[ \t\n\r\f]+`)
)

// Parse parses a component template.
func Parse(src string, opts Options) (*Document, error) {
	p := &parser{
		opts: opts,
		src:  src,
		pos:  Position{Line: 1, Column: 1},
	}
	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}
	doc := &Document{Source: src, File: opts.File, Nodes: nodes}
	Walk(nodes, func(n Node) bool {
		if c, ok := n.(*Content); ok {
			doc.ContentSelectors = append(doc.ContentSelectors, c.Select)
		}
		return true
	})
	return doc, nil
}

type frame struct {
	name     string
	children *[]Node
	pos      Position
}

type parser struct {
	opts  Options
	src   string
	pos   Position
	root  []Node
	stack []frame

	// hash replaces '#' in text while parsing a plural case body.
	hash Expr

	// pending holds raw text of an ICU block whose braces are not yet
	// balanced; pendingPos is where it started.
	pending    strings.Builder
	pendingPos Position
}

func (p *parser) errorf(pos Position, format string, args ...any) error {
	return &ParseError{File: p.opts.File, Line: pos.Line, Column: pos.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) wrap(pos Position, err error) error {
	return &ParseError{File: p.opts.File, Line: pos.Line, Column: pos.Column, Msg: err.Error(), Err: err}
}

func (p *parser) parse() ([]Node, error) {
	z := html.NewTokenizer(strings.NewReader(p.src))
	for {
		tt := z.Next()
		start := p.pos
		raw := string(z.Raw())
		p.pos = advance(p.pos, raw)

		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, p.wrap(start, z.Err())
		}

		if p.pending.Len() > 0 {
			if err := p.text(raw, start); err != nil {
				return nil, err
			}
			continue
		}

		switch tt {
		case html.TextToken:
			if err := p.text(raw, start); err != nil {
				return nil, err
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if err := p.startTag(z, tt == html.SelfClosingTagToken, start); err != nil {
				return nil, err
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if err := p.endTag(string(name), start); err != nil {
				return nil, err
			}
		case html.CommentToken, html.DoctypeToken:
			// Comments and doctypes are not part of the view.
		}
	}

	if p.pending.Len() > 0 {
		return nil, p.errorf(p.pendingPos, "unterminated ICU expression")
	}
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, p.errorf(top.pos, "unclosed element %q", top.name)
	}
	return p.root, nil
}

func (p *parser) appendNode(n Node) {
	if len(p.stack) == 0 {
		p.root = append(p.root, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	*top.children = append(*top.children, n)
}

func (p *parser) startTag(z *html.Tokenizer, selfClosing bool, pos Position) error {
	name, hasAttr := z.TagName()
	tag := string(name)

	var raw []Attribute
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		raw = append(raw, Attribute{Name: string(k), Value: string(v), Pos: pos})
	}
	attrs, err := p.classify(raw, pos)
	if err != nil {
		return err
	}

	var node Node
	var children *[]Node
	switch tag {
	case "ng-template":
		t := &Template{
			TagName:   tag,
			Attrs:     attrs.static,
			Inputs:    attrs.inputs,
			Outputs:   attrs.outputs,
			Refs:      attrs.refs,
			Variables: attrs.vars,
			Position:  pos,
		}
		node, children = t, &t.Children
	case "ng-container":
		c := &Container{
			Attrs:    attrs.static,
			Inputs:   attrs.inputs,
			Outputs:  attrs.outputs,
			Refs:     attrs.refs,
			Position: pos,
		}
		node, children = c, &c.Children
	case "ng-content":
		sel := "*"
		for _, a := range attrs.static {
			if a.Name == "select" && strings.TrimSpace(a.Value) != "" {
				sel = strings.TrimSpace(a.Value)
			}
		}
		node = &Content{Select: sel, Attrs: attrs.static, Position: pos}
		// Anything written inside <ng-content> is discarded.
		children = new([]Node)
	default:
		e := &Element{
			Name:     tag,
			Attrs:    attrs.static,
			Inputs:   attrs.inputs,
			Outputs:  attrs.outputs,
			Refs:     attrs.refs,
			Position: pos,
		}
		node, children = e, &e.Children
	}

	if attrs.structural != nil {
		s := attrs.structural
		wrapper := &Template{
			TagName:   tag,
			Attrs:     []Attribute{{Name: s.dir, Value: s.value, Pos: pos}},
			Inputs:    s.inputs,
			Variables: s.vars,
			Children:  []Node{node},
			Position:  pos,
		}
		p.appendNode(wrapper)
	} else {
		p.appendNode(node)
	}

	if selfClosing || IsVoidElement(tag) {
		return nil
	}
	p.stack = append(p.stack, frame{name: tag, children: children, pos: pos})
	return nil
}

func (p *parser) endTag(name string, pos Position) error {
	if IsVoidElement(name) {
		return nil
	}
	if len(p.stack) == 0 || p.stack[len(p.stack)-1].name != name {
		return p.errorf(pos, "unexpected closing tag %q; it may happen when the tag has already been closed by another tag", name)
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

// text consumes raw text, splitting out ICU blocks. Raw text of any token
// is routed here while an ICU block is still open.
func (p *parser) text(raw string, pos Position) error {
	buf := raw
	if p.pending.Len() > 0 {
		p.pending.WriteString(raw)
		buf = p.pending.String()
		pos = p.pendingPos
		p.pending.Reset()
	}

	for buf != "" {
		i := findICU(buf)
		if i < 0 {
			return p.emitText(buf, pos)
		}
		if err := p.emitText(buf[:i], pos); err != nil {
			return err
		}
		pos = advance(pos, buf[:i])
		buf = buf[i:]

		end := matchBrace(buf)
		if end < 0 {
			p.pending.WriteString(buf)
			p.pendingPos = pos
			return nil
		}
		icu, err := p.parseICU(buf[:end+1], pos)
		if err != nil {
			return err
		}
		p.appendNode(icu)
		pos = advance(pos, buf[:end+1])
		buf = buf[end+1:]
	}
	return nil
}

func (p *parser) emitText(raw string, pos Position) error {
	if raw == "" {
		return nil
	}
	s := html.UnescapeString(raw)
	if !p.opts.PreserveWhitespaces {
		if strings.Trim(s, " \t\n\r\f") == "" {
			return nil
		}
		s = whitespace.ReplaceAllString(s, " ")
	}
	value, err := parseInterpolation(s, p.hash)
	if err != nil {
		return p.wrap(pos, err)
	}
	p.appendNode(&Text{Value: value, Position: pos})
	return nil
}

// findICU returns the index of the first ICU opening brace outside {{ }}.
func findICU(s string) int {
	for i := 0; i < len(s); i++ {
		if strings.HasPrefix(s[i:], "{{") {
			end := strings.Index(s[i+2:], "}}")
			if end < 0 {
				return -1
			}
			i += 2 + end + 1
			continue
		}
		if s[i] == '{' && icuStart.MatchString(s[i:]) {
			return i
		}
	}
	return -1
}

// matchBrace returns the index of the brace closing s[0], or -1.
func matchBrace(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// advance moves pos past s.
func advance(pos Position, s string) Position {
	for _, r := range s {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
