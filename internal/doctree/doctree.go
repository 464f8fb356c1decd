package doctree

// Fragment is one article-sized unit of parsed structure.
type Fragment struct {
	Chapter   string     // Enclosing chapter heading, "" before the first chapter
	Article   string     // Enclosing article id, or the no-article sentinel
	Main      string     // Article body preceding the first subpoint marker
	Subpoints []Subpoint // Ordered subpoints, ids assigned by position
}

// Subpoint is a numbered point inside an article.
type Subpoint struct {
	ID   string // "<article>.<n>", n starting at 1
	Text string
}

// RecordKind tells which span of a fragment produced a record.
type RecordKind string

const (
	KindArticle   RecordKind = "article"
	KindSubpoint  RecordKind = "subpoint"
	KindSynthetic RecordKind = "synthetic"
)

// Record is one detected regulatory process.
type Record struct {
	Chapter string     `json:"chapter"`
	Ref     string     `json:"article_number"` // Article id, subpoint id or "<article>.0"
	Article string     `json:"article"`        // Enclosing article id
	Kind    RecordKind `json:"kind"`
	Text    string     `json:"subpoint"`
	Action  string     `json:"action"`
	Time    string     `json:"time"`
}

// Document is the full result of analysing one source file.
type Document struct {
	Title     string
	Fragments []Fragment
	Records   []Record
}
