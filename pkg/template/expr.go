package template

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Scope resolves identifiers during expression evaluation.
type Scope interface {
	Lookup(name string) (any, bool)
}

// MapScope is a Scope backed by a map.
type MapScope map[string]any

// Lookup implements Scope.
func (m MapScope) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Expr is a parsed binding expression.
type Expr interface {
	Eval(s Scope) any
	String() string
}

// Literal is a constant value.
type Literal struct {
	Value any
}

// Eval implements Expr.
func (l *Literal) Eval(Scope) any { return l.Value }

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// Path reads an identifier and optional member accesses: a.b.c.
type Path struct {
	Parts []string
}

// Eval implements Expr. Missing members evaluate to nil.
func (p *Path) Eval(s Scope) any {
	v, ok := s.Lookup(p.Parts[0])
	if !ok {
		return nil
	}
	for _, part := range p.Parts[1:] {
		v = member(v, part)
		if v == nil {
			return nil
		}
	}
	return v
}

func (p *Path) String() string { return strings.Join(p.Parts, ".") }

// Not negates the truthiness of X.
type Not struct {
	X Expr
}

// Eval implements Expr.
func (n *Not) Eval(s Scope) any { return !Truthy(n.X.Eval(s)) }

func (n *Not) String() string { return "!" + n.X.String() }

// Binary is a logical or equality operation.
type Binary struct {
	Op   string
	L, R Expr
}

// Eval implements Expr. && and || short-circuit and yield an operand, as in
// JavaScript.
func (b *Binary) Eval(s Scope) any {
	switch b.Op {
	case "&&":
		l := b.L.Eval(s)
		if !Truthy(l) {
			return l
		}
		return b.R.Eval(s)
	case "||":
		l := b.L.Eval(s)
		if Truthy(l) {
			return l
		}
		return b.R.Eval(s)
	case "==":
		return Equal(b.L.Eval(s), b.R.Eval(s))
	case "!=":
		return !Equal(b.L.Eval(s), b.R.Eval(s))
	}
	return nil
}

func (b *Binary) String() string {
	return "(" + b.L.String() + " " + b.Op + " " + b.R.String() + ")"
}

// Interpolation concatenates literal text and expression values.
type Interpolation struct {
	Parts []Part
}

// Part is a literal chunk or an expression of an interpolation.
type Part struct {
	Literal string
	Expr    Expr
}

// Eval implements Expr. The result is always a string.
func (in *Interpolation) Eval(s Scope) any {
	var b strings.Builder
	for _, p := range in.Parts {
		if p.Expr == nil {
			b.WriteString(p.Literal)
			continue
		}
		b.WriteString(Stringify(p.Expr.Eval(s)))
	}
	return b.String()
}

func (in *Interpolation) String() string {
	var b strings.Builder
	for _, p := range in.Parts {
		if p.Expr == nil {
			b.WriteString(p.Literal)
			continue
		}
		b.WriteString("{{" + p.Expr.String() + "}}")
	}
	return b.String()
}

// Static reports whether the interpolation has no expressions.
func (in *Interpolation) Static() bool {
	for _, p := range in.Parts {
		if p.Expr != nil {
			return false
		}
	}
	return true
}

// Truthy applies JavaScript truthiness: nil, false, 0, NaN and "" are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// Equal compares two values, treating all numeric types alike.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == tb && ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Stringify renders a value for text content; nil renders as "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Getter is implemented by values exposing named members to expressions.
type Getter interface {
	Get(name string) (any, bool)
}

func member(v any, name string) any {
	switch x := v.(type) {
	case map[string]any:
		return x[name]
	case Getter:
		m, _ := x.Get(name)
		return m
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		f := rv.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
		// Template code is usually written lowerCamel; fields are exported.
		f = rv.FieldByName(strings.ToUpper(name[:1]) + name[1:])
		if f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
			if m.IsValid() {
				return m.Interface()
			}
		}
	case reflect.Slice, reflect.Array, reflect.String:
		if name == "length" {
			return rv.Len()
		}
	}
	return nil
}
