package view

import (
	"fmt"

	"github.com/vango-dev/vtree/pkg/dom"
)

// Flattener computes the root nodes of a view.
type Flattener interface {
	// Name identifies the strategy in configuration.
	Name() string

	// Flatten returns the ordered concrete nodes making up v's root.
	Flatten(v *View) []*dom.Node

	// FlattenNodes flattens a static node list, such as an element's
	// children, with the same rules.
	FlattenNodes(nodes []*Node) []*dom.Node
}

// Strategy names accepted by StrategyFor.
const (
	StrategyStandard = "standard"
	StrategyLegacy   = "legacy"
)

// StrategyFor returns the flattener registered under name. An empty name
// selects the standard strategy.
func StrategyFor(name string) (Flattener, error) {
	switch name {
	case "", StrategyStandard:
		return Standard{}, nil
	case StrategyLegacy:
		return Legacy{}, nil
	}
	return nil, fmt.Errorf("view: unknown flatten strategy %q", name)
}

// Standard flattens views the corrected way: an empty view has no root nodes.
type Standard struct{}

// Name implements Flattener.
func (Standard) Name() string { return StrategyStandard }

// Flatten implements Flattener.
func (s Standard) Flatten(v *View) []*dom.Node {
	return walker{s}.view(v, nil)
}

// FlattenNodes implements Flattener.
func (s Standard) FlattenNodes(nodes []*Node) []*dom.Node {
	return walker{s}.nodes(nodes, nil)
}

func (Standard) emptyView(*View) *dom.Node { return nil }

// Legacy reproduces the older renderer, which gives an empty view a single
// placeholder comment. Every other rule, ICU blocks included, is Standard's.
type Legacy struct{}

// Name implements Flattener.
func (Legacy) Name() string { return StrategyLegacy }

// Flatten implements Flattener.
func (l Legacy) Flatten(v *View) []*dom.Node {
	return walker{l}.view(v, nil)
}

// FlattenNodes implements Flattener.
func (l Legacy) FlattenNodes(nodes []*Node) []*dom.Node {
	return walker{l}.nodes(nodes, nil)
}

func (Legacy) emptyView(v *View) *dom.Node {
	if v.placeholder == nil {
		v.placeholder = dom.NewComment("")
	}
	return v.placeholder
}

// policy is the per-strategy hook consulted by the walker.
type policy interface {
	emptyView(v *View) *dom.Node
}

type walker struct {
	policy policy
}

func (w walker) view(v *View, out []*dom.Node) []*dom.Node {
	if len(v.nodes) == 0 {
		if p := w.policy.emptyView(v); p != nil {
			out = append(out, p)
		}
		return out
	}
	return w.nodes(v.nodes, out)
}

func (w walker) nodes(nodes []*Node, out []*dom.Node) []*dom.Node {
	for _, n := range nodes {
		out = w.node(n, out)
	}
	return out
}

func (w walker) node(n *Node, out []*dom.Node) []*dom.Node {
	if n.Kind == KindProjection {
		return w.nodes(n.Projected, out)
	}
	if n.Native != nil {
		out = append(out, n.Native)
	}
	if n.Container != nil {
		for _, v := range n.Container.views {
			out = w.view(v, out)
		}
	}
	if n.Kind == KindElementContainer {
		out = w.nodes(n.Children, out)
	}
	return out
}
