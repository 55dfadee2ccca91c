package segment

import (
	"fmt"

	"github.com/bookvox/bookvox/internal/book"
)

// SplitChapter partitions a chapter's paragraphs into sub-chapters whose word
// counts approximate the reading-time budget. The walk is a single greedy
// pass with no backtracking; balance is a soft goal. The concatenation of the
// returned paragraph lists always reproduces the chapter's paragraphs exactly.
func SplitChapter(ch book.Chapter, cfg Config) []book.SubChapter {
	cfg = cfg.withDefaults()

	paras := SplitParagraphs(ch.Content)
	counts := make([]int, len(paras))
	total := 0
	for i, p := range paras {
		counts[i] = CountWords(p)
		total += counts[i]
	}

	// Too small or too few paragraphs to balance: emit the chapter whole.
	if total <= cfg.MaxWordsPerSub || total < cfg.MinSplitWords || len(paras) < 2*cfg.MinParagraphsPerSub {
		return []book.SubChapter{newSub(ch, 1, paras, total)}
	}

	targetSubs := (total + cfg.MaxWordsPerSub - 1) / cfg.MaxWordsPerSub
	targetWords := total / targetSubs

	var groups [][]string
	var groupWords []int
	var group []string
	words := 0

	for i, p := range paras {
		group = append(group, p)
		words += counts[i]
		remaining := len(paras) - i - 1
		if words >= targetWords && len(group) >= cfg.MinParagraphsPerSub && remaining >= cfg.MinParagraphsPerSub {
			groups = append(groups, group)
			groupWords = append(groupWords, words)
			group = nil
			words = 0
		}
	}

	if len(group) > 0 {
		if len(group) < cfg.MinParagraphsPerSub && len(groups) > 0 {
			// A starved tail folds into the previous group instead of
			// standing alone.
			last := len(groups) - 1
			groups[last] = append(groups[last], group...)
			groupWords[last] += words
		} else {
			groups = append(groups, group)
			groupWords = append(groupWords, words)
		}
	}

	subs := make([]book.SubChapter, 0, len(groups))
	for i, g := range groups {
		subs = append(subs, newSub(ch, i+1, g, groupWords[i]))
	}
	return subs
}

func newSub(ch book.Chapter, subIndex int, paras []string, words int) book.SubChapter {
	return book.SubChapter{
		ChapterIndex: ch.Index,
		SubIndex:     subIndex,
		Title:        fmt.Sprintf("%s(%d)", ch.Title, subIndex),
		Paragraphs:   paras,
		WordCount:    words,
	}
}
