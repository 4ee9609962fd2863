package render

import "strings"

type elementKind uint8

const (
	blockElement elementKind = iota
	inlineElement
	voidElement
	inlineVoidElement
)

// elementKinds classifies tags for output. Unlisted tags, including custom
// elements and component hosts, are block elements with end tags.
var elementKinds = map[string]elementKind{
	"area": voidElement, "base": voidElement, "col": voidElement,
	"embed": voidElement, "hr": voidElement, "img": voidElement,
	"input": voidElement, "link": voidElement, "meta": voidElement,
	"param": voidElement, "source": voidElement, "track": voidElement,

	"br": inlineVoidElement, "wbr": inlineVoidElement,

	"a": inlineElement, "abbr": inlineElement, "b": inlineElement,
	"bdi": inlineElement, "bdo": inlineElement, "cite": inlineElement,
	"code": inlineElement, "data": inlineElement, "dfn": inlineElement,
	"em": inlineElement, "i": inlineElement, "kbd": inlineElement,
	"mark": inlineElement, "q": inlineElement, "rb": inlineElement,
	"rp": inlineElement, "rt": inlineElement, "rtc": inlineElement,
	"ruby": inlineElement, "s": inlineElement, "samp": inlineElement,
	"small": inlineElement, "span": inlineElement, "strong": inlineElement,
	"sub": inlineElement, "sup": inlineElement, "time": inlineElement,
	"u": inlineElement, "var": inlineElement,
}

// isVoidElement reports whether tag is written without children or an end
// tag.
func isVoidElement(tag string) bool {
	k := elementKinds[tag]
	return k == voidElement || k == inlineVoidElement
}

// isInlineElement reports whether pretty output keeps tag's children on
// one line.
func isInlineElement(tag string) bool {
	k := elementKinds[tag]
	return k == inlineElement || k == inlineVoidElement
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// Attribute values also keep their whitespace through a round trip.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// escapeComment keeps comment data from closing the comment early.
func escapeComment(s string) string {
	s = strings.ReplaceAll(s, "--", "- -")
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}
