package render

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
)

// NodeInfo describes a root node for JSON output.
type NodeInfo struct {
	Type  string            `json:"type"`
	Tag   string            `json:"tag,omitempty"`
	Text  string            `json:"text,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Describe summarises nodes in order. Elements carry their text content,
// text and comment nodes their data.
func Describe(nodes []*dom.Node) []NodeInfo {
	out := make([]NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		info := NodeInfo{
			Type: strings.ToLower(n.Type.String()),
			Text: n.TextContent(),
		}
		if n.Type == dom.ElementNode {
			info.Tag = n.Tag
			if len(n.Attrs) > 0 {
				info.Attrs = make(map[string]string, len(n.Attrs))
				for _, a := range n.Attrs {
					info.Attrs[a.Name] = a.Value
				}
			}
		}
		out = append(out, info)
	}
	return out
}
