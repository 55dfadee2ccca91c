// Package sentence holds the sentence-boundary oracle consumed by the clause
// splitter. The pipeline only depends on the Segmenter interface; providers
// are swappable without touching segmentation semantics.
package sentence

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter produces an ordered, finite sequence of sentences for one text
// span. Implementations are not restartable mid-stream; the pipeline issues a
// fresh call per span.
type Segmenter interface {
	Segment(text string) []string
}

// Func adapts a plain function to the Segmenter interface.
type Func func(text string) []string

func (f Func) Segment(text string) []string { return f(text) }

// Punkt is the default provider, wrapping the Punkt English model.
type Punkt struct {
	tok *sentences.DefaultSentenceTokenizer
}

func NewPunkt() (*Punkt, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english sentence model: %w", err)
	}
	return &Punkt{tok: tok}, nil
}

func (p *Punkt) Segment(text string) []string {
	var out []string
	for _, s := range p.tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
