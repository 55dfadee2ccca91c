package segment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bookvox/bookvox/internal/book"
)

// Validate checks a sub-chapter's split result against the pipeline
// guarantees: no text dropped or duplicated per paragraph, and the clause
// length bound with at most one atomic exception per paragraph. It returns
// the first violation found, or nil.
func Validate(paragraphs []string, clauses []book.Clause, cfg Config) error {
	cfg = cfg.withDefaults()

	byPara := make(map[int][]string)
	for _, c := range clauses {
		byPara[c.Paragraph] = append(byPara[c.Paragraph], c.Text)
	}

	for pi, para := range paragraphs {
		cs := byPara[pi]

		want := stripSpace(para)
		got := stripSpace(strings.Join(cs, ""))
		if want != got {
			return fmt.Errorf("paragraph %d: clause text diverges from source", pi)
		}

		oversized := 0
		for _, c := range cs {
			if runeLen(c) > cfg.MaxMergeLen {
				oversized++
			}
		}
		if oversized > 1 {
			return fmt.Errorf("paragraph %d: %d clauses exceed the merge bound", pi, oversized)
		}
	}
	return nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
