// Package hgraph builds the chapter → article → subpoint graph of detected
// processes. Assembly and layout are separate passes.
package hgraph

import (
	"strings"

	"github.com/dgallion1/lexproc/internal/doctree"
)

// Tier is the hierarchy level of a node.
type Tier int

const (
	TierChapter Tier = iota
	TierArticle
	TierSubpoint
)

func (t Tier) String() string {
	switch t {
	case TierChapter:
		return "chapter"
	case TierArticle:
		return "article"
	default:
		return "subpoint"
	}
}

// Edge is a directed parent → child link.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Counts summarises node totals per tier.
type Counts struct {
	Chapters  int `json:"chapters"`
	Articles  int `json:"articles"`
	Subpoints int `json:"subpoints"`
}

// Graph is a three-tier directed graph keyed by textual node id.
type Graph struct {
	Title string

	tiers    map[string]Tier
	edges    []Edge
	edgeSet  map[Edge]bool
	parents  map[string][]string
	children map[string][]string
}

func newGraph(title string) *Graph {
	return &Graph{
		Title:    title,
		tiers:    make(map[string]Tier),
		edgeSet:  make(map[Edge]bool),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
	}
}

// Assemble inserts every node and edge implied by records. Article-body
// records hang a "<article>.0" leaf under their article so each article has
// at least one leaf. Records without a chapter get no chapter node.
func Assemble(title string, records []doctree.Record) *Graph {
	g := newGraph(title)
	for _, r := range records {
		article := strings.TrimSpace(r.Article)
		if article == "" {
			continue
		}
		g.addNode(article, TierArticle)
		if r.Chapter != "" {
			g.addNode(r.Chapter, TierChapter)
			g.addEdge(r.Chapter, article)
		}

		leaf := strings.TrimSpace(r.Ref)
		if r.Kind == doctree.KindArticle || leaf == article {
			leaf = article + ".0"
		}
		g.addNode(leaf, TierSubpoint)
		g.addEdge(article, leaf)
	}
	return g
}

func (g *Graph) addNode(id string, tier Tier) {
	if _, ok := g.tiers[id]; !ok {
		g.tiers[id] = tier
	}
}

func (g *Graph) addEdge(from, to string) {
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.parents[to] = append(g.parents[to], from)
	g.children[from] = append(g.children[from], to)
}

// Nodes returns the ids of one tier in no particular order.
func (g *Graph) Nodes(tier Tier) []string {
	var ids []string
	for id, t := range g.tiers {
		if t == tier {
			ids = append(ids, id)
		}
	}
	return ids
}

// Tier reports the tier of id.
func (g *Graph) Tier(id string) (Tier, bool) {
	t, ok := g.tiers[id]
	return t, ok
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Parents returns the predecessors of id in insertion order.
func (g *Graph) Parents(id string) []string {
	return g.parents[id]
}

// Children returns the successors of id in insertion order.
func (g *Graph) Children(id string) []string {
	return g.children[id]
}

func (g *Graph) Counts() Counts {
	var c Counts
	for _, t := range g.tiers {
		switch t {
		case TierChapter:
			c.Chapters++
		case TierArticle:
			c.Articles++
		case TierSubpoint:
			c.Subpoints++
		}
	}
	return c
}
