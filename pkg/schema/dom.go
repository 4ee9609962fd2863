package schema

import "strings"

// DOM describes the known elements and their bindable properties. Names are
// lower-case; lookups are case-insensitive.
type DOM struct {
	elements map[string]map[string]bool
	global   map[string]bool
}

// HTML is the HTML element schema used by default.
var HTML = newDOM(globalProperties, htmlElements)

// propertyAliases maps attribute names to the DOM property they set.
var propertyAliases = map[string]string{
	"class":      "classname",
	"for":        "htmlfor",
	"http-equiv": "httpequiv",
}

// PropertyName maps an attribute name to its DOM property name, lower-cased.
func PropertyName(attr string) string {
	attr = strings.ToLower(attr)
	if p, ok := propertyAliases[attr]; ok {
		return p
	}
	return attr
}

func newDOM(global []string, elements map[string][]string) *DOM {
	d := &DOM{
		elements: make(map[string]map[string]bool, len(elements)),
		global:   make(map[string]bool, len(global)),
	}
	for _, p := range global {
		d.global[p] = true
	}
	for tag, props := range elements {
		set := make(map[string]bool, len(props))
		for _, p := range props {
			set[p] = true
		}
		d.elements[tag] = set
	}
	return d
}

// HasElement reports whether tag is a known element.
func (d *DOM) HasElement(tag string) bool {
	_, ok := d.elements[strings.ToLower(tag)]
	return ok
}

// HasProperty reports whether prop can be bound on tag. Unknown elements
// only accept global properties.
func (d *DOM) HasProperty(tag, prop string) bool {
	prop = PropertyName(prop)
	if d.global[prop] {
		return true
	}
	return d.elements[strings.ToLower(tag)][prop]
}

// Elements returns the number of known elements.
func (d *DOM) Elements() int { return len(d.elements) }

var globalProperties = []string{
	"accesskey", "autocapitalize", "autofocus", "classname", "contenteditable",
	"dir", "draggable", "enterkeyhint", "hidden", "id", "innerhtml",
	"innertext", "inputmode", "lang", "nonce", "part", "role", "slot",
	"spellcheck", "style", "tabindex", "textcontent", "title", "translate",
}

var (
	mediaProperties = []string{
		"autoplay", "controls", "crossorigin", "currenttime", "defaultmuted",
		"loop", "muted", "playbackrate", "preload", "src", "volume",
	}
	formControlProperties = []string{
		"disabled", "formaction", "formenctype", "formmethod", "formnovalidate",
		"formtarget", "name", "type", "value",
	}
)

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var htmlElements = map[string][]string{
	// Document and sections
	"html":       nil,
	"head":       nil,
	"body":       nil,
	"title":      {"text"},
	"base":       {"href", "target"},
	"link":       {"as", "crossorigin", "disabled", "href", "hreflang", "integrity", "media", "rel", "sizes", "type"},
	"meta":       {"charset", "content", "httpequiv", "name"},
	"style":      {"media", "type"},
	"script":     {"async", "crossorigin", "defer", "integrity", "nomodule", "src", "text", "type"},
	"noscript":   nil,
	"header":     nil,
	"footer":     nil,
	"main":       nil,
	"nav":        nil,
	"section":    nil,
	"article":    nil,
	"aside":      nil,
	"address":    nil,
	"h1":         nil,
	"h2":         nil,
	"h3":         nil,
	"h4":         nil,
	"h5":         nil,
	"h6":         nil,
	"hgroup":     nil,
	"search":     nil,
	"template":   {"content"},
	"slot":       {"name"},
	"div":        nil,
	"p":          nil,
	"span":       nil,
	"pre":        nil,
	"blockquote": {"cite"},
	"hr":         nil,
	"br":         nil,
	"wbr":        nil,

	// Lists
	"ul":   nil,
	"ol":   {"reversed", "start", "type"},
	"li":   {"value"},
	"dl":   nil,
	"dt":   nil,
	"dd":   nil,
	"menu": nil,

	// Text-level
	"a":          {"download", "href", "hreflang", "ping", "referrerpolicy", "rel", "target", "text", "type"},
	"abbr":       nil,
	"b":          nil,
	"bdi":        nil,
	"bdo":        nil,
	"cite":       nil,
	"code":       nil,
	"data":       {"value"},
	"dfn":        nil,
	"em":         nil,
	"i":          nil,
	"kbd":        nil,
	"mark":       nil,
	"q":          {"cite"},
	"rp":         nil,
	"rt":         nil,
	"ruby":       nil,
	"s":          nil,
	"samp":       nil,
	"small":      nil,
	"strong":     nil,
	"sub":        nil,
	"sup":        nil,
	"time":       {"datetime"},
	"u":          nil,
	"var":        nil,
	"del":        {"cite", "datetime"},
	"ins":        {"cite", "datetime"},
	"figure":     nil,
	"figcaption": nil,
	"details":    {"open"},
	"summary":    nil,
	"dialog":     {"open", "returnvalue"},

	// Forms
	"form": {"acceptcharset", "action", "autocomplete", "encoding", "enctype", "method", "name", "novalidate", "target"},
	"input": join(formControlProperties, []string{
		"accept", "alt", "autocomplete", "checked", "defaultchecked", "defaultvalue",
		"dirname", "files", "height", "indeterminate", "list", "max", "maxlength",
		"min", "minlength", "multiple", "pattern", "placeholder", "readonly",
		"required", "selectionend", "selectionstart", "size", "src", "step",
		"valueasnumber", "width",
	}),
	"button":   formControlProperties,
	"textarea": {"autocomplete", "cols", "defaultvalue", "disabled", "maxlength", "minlength", "name", "placeholder", "readonly", "required", "rows", "selectionend", "selectionstart", "value", "wrap"},
	"select":   {"autocomplete", "disabled", "length", "multiple", "name", "required", "selectedindex", "size", "value"},
	"option":   {"defaultselected", "disabled", "label", "selected", "text", "value"},
	"optgroup": {"disabled", "label"},
	"label":    {"htmlfor"},
	"fieldset": {"disabled", "name"},
	"legend":   nil,
	"datalist": nil,
	"output":   {"defaultvalue", "htmlfor", "name", "value"},
	"progress": {"max", "value"},
	"meter":    {"high", "low", "max", "min", "optimum", "value"},

	// Tables
	"table":    nil,
	"caption":  nil,
	"colgroup": {"span"},
	"col":      {"span"},
	"thead":    nil,
	"tbody":    nil,
	"tfoot":    nil,
	"tr":       nil,
	"td":       {"colspan", "headers", "rowspan"},
	"th":       {"abbr", "colspan", "headers", "rowspan", "scope"},

	// Embedded content
	"img":     {"alt", "crossorigin", "decoding", "height", "ismap", "loading", "referrerpolicy", "sizes", "src", "srcset", "usemap", "width"},
	"picture": nil,
	"source":  {"media", "sizes", "src", "srcset", "type"},
	"audio":   mediaProperties,
	"video":   join(mediaProperties, []string{"height", "playsinline", "poster", "width"}),
	"track":   {"default", "kind", "label", "src", "srclang"},
	"iframe":  {"allow", "allowfullscreen", "height", "loading", "name", "referrerpolicy", "sandbox", "src", "srcdoc", "width"},
	"embed":   {"height", "src", "type", "width"},
	"object":  {"data", "height", "name", "type", "width"},
	"param":   {"name", "value"},
	"canvas":  {"height", "width"},
	"map":     {"name"},
	"area":    {"alt", "coords", "download", "href", "rel", "shape", "target"},

	// SVG and MathML roots and common children
	"svg":            {"height", "viewbox", "width"},
	"g":              nil,
	"defs":           nil,
	"symbol":         nil,
	"use":            nil,
	"path":           nil,
	"circle":         nil,
	"ellipse":        nil,
	"line":           nil,
	"polygon":        nil,
	"polyline":       nil,
	"rect":           nil,
	"text":           nil,
	"tspan":          nil,
	"image":          nil,
	"lineargradient": nil,
	"radialgradient": nil,
	"stop":           nil,
	"clippath":       nil,
	"mask":           nil,
	"pattern":        nil,
	"foreignobject":  nil,
	"math":           nil,
}
