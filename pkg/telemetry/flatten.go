package telemetry

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/view"
)

// Flattener wraps a view.Flattener and records every computation.
type Flattener struct {
	view.Flattener
	Metrics *Metrics
}

// Instrument returns f wrapped with metrics, or f itself when m is nil.
func Instrument(f view.Flattener, m *Metrics) view.Flattener {
	if m == nil {
		return f
	}
	return &Flattener{Flattener: f, Metrics: m}
}

// Flatten implements view.Flattener.
func (f *Flattener) Flatten(v *view.View) []*dom.Node {
	nodes := f.Flattener.Flatten(v)
	f.Metrics.RecordFlatten(f.Name(), len(nodes))
	return nodes
}

// FlattenNodes implements view.Flattener.
func (f *Flattener) FlattenNodes(nodes []*view.Node) []*dom.Node {
	out := f.Flattener.FlattenNodes(nodes)
	f.Metrics.RecordFlatten(f.Name(), len(out))
	return out
}
