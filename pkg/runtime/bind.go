package runtime

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/schema"
	"github.com/vango-dev/vtree/pkg/template"
)

// reflected maps DOM properties to the attribute that mirrors them in
// rendered HTML.
var reflected = map[string]string{
	"id":          "id",
	"title":       "title",
	"classname":   "class",
	"htmlfor":     "for",
	"href":        "href",
	"src":         "src",
	"alt":         "alt",
	"name":        "name",
	"type":        "type",
	"value":       "value",
	"placeholder": "placeholder",
	"role":        "role",
	"lang":        "lang",
	"dir":         "dir",
	"tabindex":    "tabindex",
}

// booleans are properties reflected as present-or-absent attributes.
var booleans = map[string]bool{
	"disabled": true,
	"hidden":   true,
	"checked":  true,
	"selected": true,
	"readonly": true,
	"required": true,
	"multiple": true,
}

// setProperty applies a bound value to an element: attr.x, class.x and
// style.x bindings edit attributes; anything else is a DOM property.
func setProperty(n *dom.Node, name string, v any) {
	switch {
	case strings.HasPrefix(name, "attr."):
		attr := strings.TrimPrefix(name, "attr.")
		if v == nil {
			n.RemoveAttr(attr)
		} else {
			n.SetAttr(attr, template.Stringify(v))
		}
	case strings.HasPrefix(name, "class."):
		toggleClass(n, strings.TrimPrefix(name, "class."), template.Truthy(v))
	case strings.HasPrefix(name, "style."):
		setStyle(n, strings.TrimPrefix(name, "style."), v)
	default:
		prop := schema.PropertyName(name)
		n.SetProp(prop, v)
		reflectProperty(n, prop, v)
	}
}

func reflectProperty(n *dom.Node, prop string, v any) {
	if booleans[prop] {
		if template.Truthy(v) {
			n.SetAttr(prop, "")
		} else {
			n.RemoveAttr(prop)
		}
		return
	}
	attr, ok := reflected[prop]
	switch {
	case !ok:
	case v == nil:
		n.RemoveAttr(attr)
	default:
		n.SetAttr(attr, template.Stringify(v))
	}
}

func toggleClass(n *dom.Node, class string, on bool) {
	cur, _ := n.Attr("class")
	var out []string
	found := false
	for _, c := range strings.Fields(cur) {
		if c == class {
			found = true
			if !on {
				continue
			}
		}
		out = append(out, c)
	}
	if on && !found {
		out = append(out, class)
	}
	if len(out) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(out, " "))
}

// setStyle sets one declaration of the style attribute. A unit suffix
// (style.width.px) is appended to the value; nil removes the declaration.
func setStyle(n *dom.Node, prop string, v any) {
	prop, unit, _ := strings.Cut(prop, ".")
	cur, _ := n.Attr("style")

	var decls []string
	for _, d := range strings.Split(cur, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.TrimSpace(name) == prop {
			continue
		}
		decls = append(decls, d)
	}
	if v != nil && template.Stringify(v) != "" {
		decls = append(decls, prop+": "+template.Stringify(v)+unit)
	}
	if len(decls) == 0 {
		n.RemoveAttr("style")
		return
	}
	n.SetAttr("style", strings.Join(decls, "; ")+";")
}
