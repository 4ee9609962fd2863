package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/vango-dev/vtree/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Minify passes the output through an HTML minifier. It takes
	// precedence over Pretty.
	Minify bool

	// KeepComments keeps anchor comments in minified output.
	KeepComments bool
}

// Renderer renders root nodes to HTML.
type Renderer struct {
	config RendererConfig

	once     sync.Once
	minifier *minify.M
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders nodes to an HTML string.
func (r *Renderer) RenderToString(nodes []*dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderNodes(&buf, nodes); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNodes writes nodes to w in order.
func (r *Renderer) RenderNodes(w io.Writer, nodes []*dom.Node) error {
	if !r.config.Minify {
		return r.renderNodes(w, nodes, 0)
	}

	var buf bytes.Buffer
	if err := r.renderNodes(&buf, nodes, 0); err != nil {
		return err
	}
	if err := r.getMinifier().Minify("text/html", w, &buf); err != nil {
		return fmt.Errorf("render: minify: %w", err)
	}
	return nil
}

func (r *Renderer) getMinifier() *minify.M {
	r.once.Do(func() {
		r.minifier = minify.New()
		r.minifier.Add("text/html", &html.Minifier{
			KeepComments: r.config.KeepComments,
			KeepEndTags:  true,
		})
	})
	return r.minifier
}

func (r *Renderer) renderNodes(w io.Writer, nodes []*dom.Node, depth int) error {
	pretty := r.pretty()
	for _, n := range nodes {
		if pretty && n.Type == dom.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		if err := r.renderNode(w, n, depth); err != nil {
			return err
		}
		if pretty && n.Type != dom.ElementNode {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Type {
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		return r.renderText(w, node, depth)
	case dom.CommentNode:
		return r.renderComment(w, node, depth)
	default:
		return fmt.Errorf("render: unknown node type: %d", node.Type)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag
	pretty := r.pretty()

	if pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	// Void elements have no children and no closing tag.
	if isVoidElement(tag) {
		if pretty {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if pretty && hasBlockChildren {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	for _, child := range node.Children {
		var err error
		if pretty && hasBlockChildren {
			err = r.renderNodes(w, []*dom.Node{child}, depth+1)
		} else {
			err = r.renderInline(w, child)
		}
		if err != nil {
			return err
		}
	}

	if pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if pretty {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// renderInline renders a node with no indentation, as inside inline
// elements.
func (r *Renderer) renderInline(w io.Writer, node *dom.Node) error {
	switch node.Type {
	case dom.TextNode:
		_, err := io.WriteString(w, escapeHTML(node.Data))
		return err
	case dom.CommentNode:
		_, err := io.WriteString(w, "<!--"+escapeComment(node.Data)+"-->")
		return err
	}
	cfg := r.config
	cfg.Pretty = false
	sub := &Renderer{config: cfg}
	return sub.renderElement(w, node, 0)
}

// renderText renders a text node with HTML escaping. Pretty output trims
// it.
func (r *Renderer) renderText(w io.Writer, node *dom.Node, depth int) error {
	data := node.Data
	if r.pretty() {
		r.writeIndent(w, depth)
		data = strings.TrimSpace(data)
	}
	_, err := io.WriteString(w, escapeHTML(data))
	return err
}

// renderComment renders anchors and other comments as <!--data-->.
func (r *Renderer) renderComment(w io.Writer, node *dom.Node, depth int) error {
	if r.pretty() {
		r.writeIndent(w, depth)
	}
	_, err := io.WriteString(w, "<!--"+escapeComment(node.Data)+"-->")
	return err
}

// renderAttributes renders the element's attributes in source order. Empty
// values are written as bare names. Bound properties reach the output
// through the attributes the runtime reflects them to.
func (r *Renderer) renderAttributes(w io.Writer, node *dom.Node) error {
	for _, a := range node.Attrs {
		if a.Value == "" {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) pretty() bool {
	return r.config.Pretty && !r.config.Minify
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
