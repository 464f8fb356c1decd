package hgraph

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
)

// Point is a layout coordinate. X is the tier column; Y grows downward as it
// becomes more negative.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	rowSpacing      = 1.0
	subpointSpacing = 0.8
)

var (
	tierColumn = map[Tier]float64{
		TierChapter:  0,
		TierArticle:  1,
		TierSubpoint: 2,
	}
	defaultPoint = Point{X: tierColumn[TierArticle], Y: 0}
)

// Layout holds node positions and the per-tier ordering that produced them.
type Layout struct {
	Pos       map[string]Point
	Chapters  []string
	Articles  []string
	Subpoints map[string][]string // article id → ordered leaf ids
	Gaps      []string            // nodes that fell back to the default position
}

// ComputeLayout assigns every node a deterministic position: chapters in a
// column ordered by number, articles aligned under their first chapter,
// leaves stacked under their article.
func ComputeLayout(g *Graph, log *slog.Logger) Layout {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	l := Layout{
		Pos:       make(map[string]Point),
		Chapters:  sortByNumber(g.Nodes(TierChapter)),
		Articles:  sortByNumber(g.Nodes(TierArticle)),
		Subpoints: make(map[string][]string),
	}

	chapterRank := make(map[string]int, len(l.Chapters))
	for i, ch := range l.Chapters {
		l.Pos[ch] = Point{X: tierColumn[TierChapter], Y: float64(-i) * rowSpacing}
		chapterRank[ch] = i
	}

	for i, art := range l.Articles {
		if parent, ok := firstChapter(g.Parents(art), chapterRank); ok {
			l.Pos[art] = Point{X: tierColumn[TierArticle], Y: l.Pos[parent].Y - float64(i)*rowSpacing}
		} else {
			l.Pos[art] = Point{X: tierColumn[TierArticle], Y: float64(-(len(l.Chapters) + i)) * rowSpacing}
		}

		var leaves []string
		for _, c := range g.Children(art) {
			if t, _ := g.Tier(c); t == TierSubpoint {
				leaves = append(leaves, c)
			}
		}
		leaves = sortByNumber(leaves)
		l.Subpoints[art] = leaves
		for k, leaf := range leaves {
			l.Pos[leaf] = Point{X: tierColumn[TierSubpoint], Y: l.Pos[art].Y - float64(k)*subpointSpacing}
		}
	}

	var missing []string
	for id := range g.tiers {
		if _, ok := l.Pos[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		log.Warn("node has no layout position, using default", "node", id)
		l.Pos[id] = defaultPoint
		l.Gaps = append(l.Gaps, id)
	}
	return l
}

// firstChapter picks the parent that comes first in chapter order.
func firstChapter(parents []string, rank map[string]int) (string, bool) {
	best, bestRank := "", -1
	for _, p := range parents {
		r, ok := rank[p]
		if !ok {
			continue
		}
		if bestRank < 0 || r < bestRank {
			best, bestRank = p, r
		}
	}
	return best, bestRank >= 0
}

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// nodeNumber extracts the last integer of an id: "Rozdział 4" → 4,
// "Art. 12" → 12, "§ 3.2" → 2. Ids without one sort as 0.
func nodeNumber(id string) int {
	m := trailingNumber.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// sortByNumber orders ids numerically, breaking ties by id.
func sortByNumber(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := nodeNumber(out[i]), nodeNumber(out[j])
		if ni != nj {
			return ni < nj
		}
		return out[i] < out[j]
	})
	return out
}
