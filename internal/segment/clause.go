package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/bookvox/bookvox/internal/sentence"
)

// resplitDepth bounds the protected-region re-split pass. The bound is an
// enforced invariant, not a property of the call graph.
const resplitDepth = 1

// Splitter turns sub-chapter paragraphs into ordered clauses. It is pure over
// its inputs and safe for concurrent use.
type Splitter struct {
	cfg    Config
	oracle sentence.Segmenter

	quoteClose map[rune]rune // quote open glyph -> close glyph
	closers    map[rune]bool // every closing glyph, both families
}

func NewSplitter(cfg Config, oracle sentence.Segmenter) *Splitter {
	cfg = cfg.withDefaults()
	s := &Splitter{
		cfg:        cfg,
		oracle:     oracle,
		quoteClose: make(map[rune]rune, len(cfg.Quotes)),
		closers:    make(map[rune]bool, len(cfg.Brackets)+len(cfg.Quotes)),
	}
	for _, q := range cfg.Quotes {
		s.quoteClose[q.Open] = q.Close
		s.closers[q.Close] = true
	}
	for _, close := range cfg.Brackets {
		s.closers[close] = true
	}
	return s
}

// SplitSubChapter emits the sub-chapter's clauses in source order: paragraph
// order first, clause order within each paragraph. Downstream timing depends
// on this ordering.
func (s *Splitter) SplitSubChapter(sub book.SubChapter) []book.Clause {
	var out []book.Clause
	for pi, para := range sub.Paragraphs {
		for _, c := range s.SplitParagraph(para) {
			out = append(out, book.Clause{Text: c, Paragraph: pi})
		}
	}
	return out
}

// SplitParagraph splits one paragraph into clauses. A paragraph already
// within the sentence length bound comes back as a single clause, modulo
// whitespace normalization.
func (s *Splitter) SplitParagraph(para string) []string {
	text := collapseWhitespace(para)
	if text == "" {
		return nil
	}
	if runeLen(text) <= s.cfg.MaxSentenceLen {
		return []string{text}
	}

	var clauses []string
	for _, sent := range s.oracle.Segment(text) {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		if runeLen(sent) <= s.cfg.MaxSentenceLen {
			clauses = append(clauses, sent)
			continue
		}
		cs := s.scan(sent)
		cs = s.resplit(cs, resplitDepth)
		clauses = append(clauses, cs...)
	}

	clauses = s.merge(clauses)
	return s.reattach(clauses)
}

// region is one open protected span on the scan stack.
type region struct {
	kind  regionKind
	open  rune
	close rune
	buf   strings.Builder
}

type regionKind uint8

const (
	kindBracket regionKind = iota
	kindQuote
)

// scan is pass 1: a single left-to-right finite-state walk with an explicit
// stack of open protected regions. Outside any region, split punctuation
// flushes the running buffer with the mark trailing; a closed top-level
// region is emitted atomically, delimiters included. A glyph that can open or
// close a quote opens one unless the stack top already holds an unclosed
// region of the same quote type.
func (s *Splitter) scan(text string) []string {
	var out []string
	var plain strings.Builder
	var stack []*region

	flushPlain := func() {
		if t := strings.TrimSpace(plain.String()); t != "" {
			out = append(out, t)
		}
		plain.Reset()
	}
	// emit routes a completed region either to the output list or, when
	// nested, into the enclosing region's buffer.
	emit := func(t string) {
		if len(stack) > 0 {
			stack[len(stack)-1].buf.WriteString(t)
			return
		}
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	for _, r := range text {
		if len(stack) > 0 && r == stack[len(stack)-1].close {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			emit(string(top.open) + top.buf.String() + string(top.close))
			continue
		}
		if close, ok := s.cfg.Brackets[r]; ok {
			if len(stack) == 0 {
				flushPlain()
			}
			stack = append(stack, &region{kind: kindBracket, open: r, close: close})
			continue
		}
		if close, ok := s.quoteClose[r]; ok {
			if len(stack) == 0 {
				flushPlain()
			}
			stack = append(stack, &region{kind: kindQuote, open: r, close: close})
			continue
		}

		// An unmatched closing glyph is literal text.
		if len(stack) > 0 {
			stack[len(stack)-1].buf.WriteRune(r)
			continue
		}
		plain.WriteRune(r)
		if s.cfg.SplitPunct[r] {
			flushPlain()
		}
	}

	if len(stack) > 0 {
		// Unterminated regions at end of text: flush everything still
		// held, outermost first, as one best-effort clause.
		var rest strings.Builder
		rest.WriteString(plain.String())
		for _, reg := range stack {
			rest.WriteRune(reg.open)
			rest.WriteString(reg.buf.String())
		}
		if t := strings.TrimSpace(rest.String()); t != "" {
			out = append(out, t)
		}
		return out
	}
	flushPlain()
	return out
}

// resplit is pass 2: a protected-region clause still exceeding the merge
// bound has its outer delimiter pair stripped, the inner content re-scanned,
// and the pair reattached to the first and last sub-clauses. depth enforces
// the recursion bound explicitly.
func (s *Splitter) resplit(clauses []string, depth int) []string {
	if depth <= 0 {
		return clauses
	}
	var out []string
	for _, c := range clauses {
		if runeLen(c) <= s.cfg.MaxMergeLen {
			out = append(out, c)
			continue
		}
		open, close, ok := s.protectedPair(c)
		if !ok {
			// No split point exists here; the oversized clause stands.
			out = append(out, c)
			continue
		}

		inner := strings.TrimSpace(trimEnds(c))
		subs := s.resplit(s.scan(inner), depth-1)
		switch len(subs) {
		case 0:
			out = append(out, c)
		case 1:
			out = append(out, string(open)+subs[0]+string(close))
		default:
			subs[0] = string(open) + subs[0]
			subs[len(subs)-1] = subs[len(subs)-1] + string(close)
			out = append(out, subs...)
		}
	}
	return out
}

// protectedPair reports whether the clause is one whole protected region:
// first rune an opener whose matching closer is the last rune.
func (s *Splitter) protectedPair(c string) (open, close rune, ok bool) {
	first, _ := utf8.DecodeRuneInString(c)
	last, _ := utf8.DecodeLastRuneInString(c)
	if cl, found := s.cfg.Brackets[first]; found && cl == last {
		return first, last, true
	}
	if cl, found := s.quoteClose[first]; found && cl == last {
		return first, last, true
	}
	return 0, 0, false
}

// merge is pass 3: a greedy walk joining a clause into its predecessor when
// either side is short, the result stays under the merge bound, and the
// predecessor does not already end a sentence.
func (s *Splitter) merge(clauses []string) []string {
	var out []string
	for _, c := range clauses {
		if len(out) > 0 {
			prev := out[len(out)-1]
			pl, cl := runeLen(prev), runeLen(c)
			if (pl < s.cfg.MinMergeLen || cl < s.cfg.MinMergeLen) &&
				pl+1+cl < s.cfg.MaxMergeLen &&
				!s.endsSentence(prev) {
				out[len(out)-1] = prev + " " + c
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// reattach is pass 4: split punctuation stranded at a clause's start, or a
// stranded closing glyph followed by split punctuation, moves onto the end of
// the previous clause.
func (s *Splitter) reattach(clauses []string) []string {
	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		runes := []rune(c)
		head := 0
		if s.closers[runes[0]] && len(runes) > 1 && s.cfg.SplitPunct[runes[1]] {
			head = 2
		} else if s.cfg.SplitPunct[runes[0]] {
			head = 1
		}
		for head > 0 && head < len(runes) && s.cfg.SplitPunct[runes[head]] {
			head++
		}
		if head > 0 {
			out[len(out)-1] += string(runes[:head])
			c = strings.TrimSpace(string(runes[head:]))
			if c == "" {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func (s *Splitter) endsSentence(c string) bool {
	last, _ := utf8.DecodeLastRuneInString(strings.TrimSpace(c))
	return s.cfg.Terminators[last]
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// trimEnds drops the first and last rune of a clause (its delimiter pair).
func trimEnds(c string) string {
	_, first := utf8.DecodeRuneInString(c)
	_, last := utf8.DecodeLastRuneInString(c)
	return c[first : len(c)-last]
}
