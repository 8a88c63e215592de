package retrieval

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTopK is the passage count used when a caller does not say how
// many it wants.
const DefaultTopK = 6

// Passage is one ranked chunk from the ingested content store.
type Passage struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
	Text   string `json:"text"`
}

// Searcher is the retrieval provider contract. An empty corpus yields an
// empty slice, never an error; only an unreachable backend errors.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// FormatContext renders passages into the prompt-context block the
// engines inject. Empty input renders empty.
func FormatContext(passages []Passage) string {
	if len(passages) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("[%s - pagina %d]\n%s", p.Source, p.Page, p.Text))
	}
	return "Contesto recuperato:\n" + strings.Join(blocks, "\n---\n")
}
