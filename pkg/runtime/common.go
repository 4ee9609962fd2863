package runtime

import (
	"maps"
	"reflect"

	"github.com/vango-dev/vtree/pkg/module"
	"github.com/vango-dev/vtree/pkg/template"
)

// Built-in directive definitions.
var (
	NgIfDef = &module.DirectiveDef{
		Name:     "NgIf",
		Selector: "[ngIf]",
		Inputs:   []string{"ngIf", "ngIfThen", "ngIfElse"},
		New:      func() any { return &NgIf{} },
	}

	NgForOfDef = &module.DirectiveDef{
		Name:     "NgForOf",
		Selector: "[ngFor][ngForOf]",
		Inputs:   []string{"ngForOf", "ngForTrackBy", "ngForTemplate"},
		New:      func() any { return &NgForOf{} },
	}

	NgTemplateOutletDef = &module.DirectiveDef{
		Name:     "NgTemplateOutlet",
		Selector: "[ngTemplateOutlet]",
		Inputs:   []string{"ngTemplateOutlet", "ngTemplateOutletContext"},
		New:      func() any { return &NgTemplateOutlet{} },
	}

	// CommonModule declares and exports the built-in directives. Every
	// root module imports it implicitly.
	CommonModule = &module.ModuleDef{
		Name:       "CommonModule",
		Directives: []*module.DirectiveDef{NgIfDef, NgForOfDef, NgTemplateOutletDef},
		Exports:    []module.Exportable{NgIfDef, NgForOfDef, NgTemplateOutletDef},
	}
)

// NgIf renders its template while the condition is truthy and the else
// template, if any, otherwise. The context exposes the condition as
// $implicit and ngIf, so that *ngIf="user as u" binds u.
type NgIf struct {
	host      *Host
	condition any
	thenTpl   *TemplateRef
	elseTpl   *TemplateRef
	thenView  *ViewRef
	elseView  *ViewRef
	ctx       map[string]any
}

// Attach implements Attacher.
func (d *NgIf) Attach(h *Host) {
	d.host = h
	d.thenTpl = h.Template
	d.ctx = make(map[string]any)
}

// SetInput implements InputSetter.
func (d *NgIf) SetInput(name string, v any) {
	switch name {
	case "ngIf":
		d.condition = v
	case "ngIfThen":
		if t, _ := v.(*TemplateRef); t != d.thenTpl {
			d.thenTpl, d.thenView = t, nil
		}
	case "ngIfElse":
		if t, _ := v.(*TemplateRef); t != d.elseTpl {
			d.elseTpl, d.elseView = t, nil
		}
	}
}

// Check implements Checker.
func (d *NgIf) Check() {
	d.ctx["$implicit"] = d.condition
	d.ctx["ngIf"] = d.condition

	c := d.host.Container()
	if template.Truthy(d.condition) {
		if d.thenView == nil {
			c.Clear()
			d.elseView = nil
			if d.thenTpl != nil {
				d.thenView = c.CreateEmbeddedView(d.thenTpl, d.ctx)
			}
		}
		return
	}
	if d.elseView == nil {
		c.Clear()
		d.thenView = nil
		if d.elseTpl != nil {
			d.elseView = c.CreateEmbeddedView(d.elseTpl, d.ctx)
		}
	}
}

// TrackByFunc returns the identity of an item for NgForOf.
type TrackByFunc func(index int, item any) any

// NgForOf renders its template once per item of a slice or array. Each
// view's context has $implicit, index, count, first, last, even and odd.
// Views are reused by position, or by identity when ngForTrackBy is a
// TrackByFunc.
type NgForOf struct {
	host    *Host
	of      any
	trackBy TrackByFunc
	tpl     *TemplateRef
	keys    []any
}

// Attach implements Attacher.
func (d *NgForOf) Attach(h *Host) {
	d.host = h
	d.tpl = h.Template
}

// SetInput implements InputSetter.
func (d *NgForOf) SetInput(name string, v any) {
	switch name {
	case "ngForOf":
		d.of = v
	case "ngForTrackBy":
		switch fn := v.(type) {
		case TrackByFunc:
			d.trackBy = fn
		case func(int, any) any:
			d.trackBy = fn
		default:
			d.trackBy = nil
		}
	case "ngForTemplate":
		if t, ok := v.(*TemplateRef); ok {
			d.tpl = t
		}
	}
}

// Check implements Checker.
func (d *NgForOf) Check() {
	if d.tpl == nil {
		return
	}
	items := toSlice(d.of)
	c := d.host.Container()

	prev := make(map[any]*ViewRef, len(d.keys))
	for i, k := range d.keys {
		if v := c.Get(i); v != nil {
			prev[k] = v
		}
	}

	keys := make([]any, len(items))
	for i, item := range items {
		k := d.key(i, item)
		keys[i] = k
		ctx := map[string]any{
			"$implicit": item,
			"ngForOf":   d.of,
			"index":     i,
			"count":     len(items),
			"first":     i == 0,
			"last":      i == len(items)-1,
			"even":      i%2 == 0,
			"odd":       i%2 == 1,
		}
		if v, ok := prev[k]; ok {
			delete(prev, k)
			maps.Copy(v.Context(), ctx)
			// Destroying a view detaches it, so v is live and Insert cannot fail.
			if c.IndexOf(v) != i {
				_, _ = c.Insert(v, i)
			}
			continue
		}
		// A fresh view is never destroyed, so Insert cannot fail.
		_, _ = c.Insert(d.tpl.CreateEmbeddedView(ctx), i)
	}
	for _, v := range prev {
		v.Destroy()
	}
	for c.Len() > len(items) {
		c.Remove(c.Len() - 1)
	}
	d.keys = keys
}

// key returns a map key for the item. Keys that cannot be map keys fall
// back to the position.
func (d *NgForOf) key(i int, item any) any {
	if d.trackBy == nil {
		return i
	}
	k := d.trackBy(i, item)
	if k == nil || !reflect.TypeOf(k).Comparable() {
		return i
	}
	return k
}

func toSlice(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// NgTemplateOutlet renders a template reference at its host, with
// ngTemplateOutletContext as the view context.
type NgTemplateOutlet struct {
	host    *Host
	tpl     *TemplateRef
	ctx     map[string]any
	view    *ViewRef
	changed bool
}

// Attach implements Attacher.
func (d *NgTemplateOutlet) Attach(h *Host) { d.host = h }

// SetInput implements InputSetter.
func (d *NgTemplateOutlet) SetInput(name string, v any) {
	switch name {
	case "ngTemplateOutlet":
		if t, _ := v.(*TemplateRef); t != d.tpl {
			d.tpl = t
			d.changed = true
		}
	case "ngTemplateOutletContext":
		d.ctx, _ = v.(map[string]any)
	}
}

// Check implements Checker.
func (d *NgTemplateOutlet) Check() {
	c := d.host.Container()
	if d.changed {
		d.changed = false
		c.Clear()
		d.view = nil
		if d.tpl != nil {
			d.view = c.CreateEmbeddedView(d.tpl, maps.Clone(d.ctx))
		}
		return
	}
	if d.view != nil && d.ctx != nil {
		ctx := d.view.Context()
		clear(ctx)
		maps.Copy(ctx, d.ctx)
	}
}
