package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// NodeKind is the SVG element a Node encodes to
type NodeKind string

const (
	KindGroup NodeKind = "g"
	KindRect  NodeKind = "rect"
	KindText  NodeKind = "text"
	KindPath  NodeKind = "path"
	KindLine  NodeKind = "line"
)

// Node is one element of a scene graph. Geometry is kept in float64 and rounded at encode time.
type Node struct {
	Kind      NodeKind
	Class     string
	X, Y      float64
	Width     float64
	Height    float64
	X2, Y2    float64
	RX, RY    float64
	D         string
	Transform string
	Text      string
	Attrs     map[string]string
	Data      interface{}
	Children  []*Node
}

// Add appends children and returns n
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits n and its descendants depth first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// SceneGraph is an svg element with a fixed size and a tree of drawn nodes
type SceneGraph struct {
	ID     string
	Width  int
	Height int
	Root   *Node
}

// NewSceneGraph creates an empty graph of the given size
func NewSceneGraph(id string, width, height int) *SceneGraph {
	return &SceneGraph{
		ID:     id,
		Width:  width,
		Height: height,
		Root:   &Node{Kind: KindGroup},
	}
}

// Find returns every node carrying class, in document order
func (g *SceneGraph) Find(class string) []*Node {
	var out []*Node
	g.Root.Walk(func(n *Node) {
		if n.Class == class {
			out = append(out, n)
		}
	})
	return out
}

// Bars returns the bar rectangles
func (g *SceneGraph) Bars() []*Node { return g.Find("bar") }

// Labels returns the value labels drawn above the bars
func (g *SceneGraph) Labels() []*Node { return g.Find("label") }

// Encode writes the graph as an SVG document
func (g *SceneGraph) Encode(w io.Writer) error {
	cw := &countingWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(g.Width, g.Height)
	for _, c := range g.Root.Children {
		encodeNode(canvas, c)
	}
	canvas.End()
	return cw.err
}

// SVG returns the encoded document
func (g *SceneGraph) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode scene graph: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeNode(canvas *svg.SVG, n *Node) {
	attrs := nodeAttrs(n)
	switch n.Kind {
	case KindGroup:
		canvas.Group(attrs...)
		for _, c := range n.Children {
			encodeNode(canvas, c)
		}
		canvas.Gend()
	case KindRect:
		canvas.Roundrect(px(n.X), px(n.Y), px(n.Width), px(n.Height), px(n.RX), px(n.RY), attrs...)
	case KindText:
		canvas.Text(px(n.X), px(n.Y), n.Text, attrs...)
	case KindPath:
		canvas.Path(n.D, attrs...)
	case KindLine:
		canvas.Line(px(n.X), px(n.Y), px(n.X2), px(n.Y2), attrs...)
	}
}

// nodeAttrs renders extra attributes as raw name="value" pairs in a stable order
func nodeAttrs(n *Node) []string {
	var out []string
	if n.Class != "" {
		out = append(out, attr("class", n.Class))
	}
	if n.Transform != "" {
		out = append(out, attr("transform", n.Transform))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, attr(k, n.Attrs[k]))
	}
	return out
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func attr(name, value string) string {
	return name + `="` + attrEscaper.Replace(value) + `"`
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// num formats a coordinate for use inside path data and transforms
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000+0, 'f', -1, 64)
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return len(p), nil
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		c.err = err
	}
	return len(p), nil
}
