package hgraph

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/emicklei/dot"
)

// Format is an output encoding for a rendered graph.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
)

// ParseFormat accepts "dot", "svg" or "json" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatSVG, FormatJSON:
		return f, nil
	case "gv":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("unsupported graph format: %q", s)
	}
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

type tierStyle struct {
	fill   string
	radius float64 // SVG radius in pixels
}

var styles = map[Tier]tierStyle{
	TierChapter:  {fill: "cyan", radius: 30},
	TierArticle:  {fill: "lightblue", radius: 24},
	TierSubpoint: {fill: "lightgreen", radius: 20},
}

// Render writes g in the requested format.
func Render(w io.Writer, format Format, g *Graph, l Layout) error {
	switch format {
	case FormatDOT:
		return WriteDOT(w, g, l)
	case FormatSVG:
		return WriteSVG(w, g, l)
	case FormatJSON:
		return WriteJSON(w, g, l)
	default:
		return fmt.Errorf("unsupported graph format: %q", format)
	}
}

// orderedNodes lists nodes tier by tier in layout order.
func orderedNodes(l Layout) []string {
	var ids []string
	ids = append(ids, l.Chapters...)
	ids = append(ids, l.Articles...)
	for _, art := range l.Articles {
		ids = append(ids, l.Subpoints[art]...)
	}
	return append(ids, l.Gaps...)
}

// WriteDOT emits a Graphviz document with pinned positions, suitable for
// `neato -n2`.
func WriteDOT(w io.Writer, g *Graph, l Layout) error {
	dg := dot.NewGraph(dot.Directed)
	dg.ID("hierarchy")
	dg.Attrs("label", g.Title, "labelloc", "t", "layout", "neato")

	for _, id := range orderedNodes(l) {
		tier, _ := g.Tier(id)
		p := l.Pos[id]
		n := dg.Node(id).Label(id)
		n.Attr("style", "filled")
		n.Attr("fontname", "Helvetica-Bold")
		n.Attr("fontsize", 10)
		n.Attr("fillcolor", styles[tier].fill)
		n.Attr("pos", fmt.Sprintf("%.2f,%.2f!", p.X*3, p.Y))
	}
	for _, e := range g.Edges() {
		dg.Edge(dg.Node(e.From), dg.Node(e.To)).Attr("color", "gray")
	}
	_, err := io.WriteString(w, dg.String())
	return err
}

const (
	svgColumnWidth = 220.0
	svgRowHeight   = 70.0
	svgMargin      = 60.0
)

// WriteSVG draws the graph as a standalone SVG picture.
func WriteSVG(w io.Writer, g *Graph, l Layout) error {
	minY := 0.0
	for _, p := range l.Pos {
		minY = math.Min(minY, p.Y)
	}
	width := 2*svgColumnWidth + 2*svgMargin + 2*styles[TierChapter].radius
	height := -minY*svgRowHeight + 2*svgMargin + svgMargin

	toPx := func(p Point) (int, int) {
		return px(svgMargin + styles[TierChapter].radius + p.X*svgColumnWidth),
			px(2*svgMargin + (-p.Y)*svgRowHeight)
	}

	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(px(width), px(height), `font-family="Helvetica"`, `font-size="10"`)
	canvas.Text(px(width/2), px(svgMargin/2), g.Title, `text-anchor="middle"`, `font-size="14"`)
	for _, e := range g.Edges() {
		x1, y1 := toPx(l.Pos[e.From])
		x2, y2 := toPx(l.Pos[e.To])
		canvas.Line(x1, y1, x2, y2, `stroke="gray"`)
	}
	for _, id := range orderedNodes(l) {
		tier, _ := g.Tier(id)
		st := styles[tier]
		x, y := toPx(l.Pos[id])
		canvas.Circle(x, y, px(st.radius), fmt.Sprintf(`fill="%s"`, st.fill))
		canvas.Text(x, y, id, `text-anchor="middle"`, `dominant-baseline="middle"`, `font-weight="bold"`)
	}
	canvas.End()
	return bw.Flush()
}

func px(v float64) int { return int(math.Round(v)) }

type jsonNode struct {
	ID   string `json:"id"`
	Tier string `json:"tier"`
	Point
}

type jsonGraph struct {
	Title  string     `json:"title"`
	Nodes  []jsonNode `json:"nodes"`
	Edges  []Edge     `json:"edges"`
	Counts Counts     `json:"counts"`
}

// WriteJSON encodes nodes with positions, edges and counts.
func WriteJSON(w io.Writer, g *Graph, l Layout) error {
	out := jsonGraph{
		Title:  g.Title,
		Nodes:  []jsonNode{},
		Edges:  g.Edges(),
		Counts: g.Counts(),
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	for _, id := range orderedNodes(l) {
		tier, _ := g.Tier(id)
		out.Nodes = append(out.Nodes, jsonNode{ID: id, Tier: tier.String(), Point: l.Pos[id]})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
