package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chapterOf(paras []string) book.Chapter {
	return book.Chapter{
		Index:   1,
		Title:   "Chapter 1",
		Content: strings.Join(paras, "\n\n"),
	}
}

func repeatParas(n, wordsEach int) []string {
	para := strings.TrimSpace(strings.Repeat("word ", wordsEach))
	paras := make([]string, n)
	for i := range paras {
		paras[i] = para
	}
	return paras
}

func TestSplitChapter_BalancesLongChapter(t *testing.T) {
	paras := repeatParas(60, 200) // 12000 words total
	cfg := Config{MaxWordsPerSub: 5000, MinSplitWords: 1000, MinParagraphsPerSub: 2}

	subs := SplitChapter(chapterOf(paras), cfg)
	require.Len(t, subs, 3)

	for i, sub := range subs {
		assert.Equal(t, 1, sub.ChapterIndex)
		assert.Equal(t, i+1, sub.SubIndex)
		assert.Equal(t, fmt.Sprintf("Chapter 1(%d)", i+1), sub.Title)
		assert.Len(t, sub.Paragraphs, 20)
		assert.Equal(t, 4000, sub.WordCount)
	}
}

func TestSplitChapter_ConservesParagraphs(t *testing.T) {
	paras := repeatParas(60, 200)
	cfg := Config{MaxWordsPerSub: 5000, MinSplitWords: 1000, MinParagraphsPerSub: 2}

	subs := SplitChapter(chapterOf(paras), cfg)

	var joined []string
	for _, sub := range subs {
		require.GreaterOrEqual(t, len(sub.Paragraphs), cfg.MinParagraphsPerSub)
		joined = append(joined, sub.Paragraphs...)
	}
	assert.Equal(t, paras, joined)
}

func TestSplitChapter_SmallChapterStaysWhole(t *testing.T) {
	paras := repeatParas(10, 50) // 500 words total
	cfg := Config{MaxWordsPerSub: 5000, MinSplitWords: 1000, MinParagraphsPerSub: 2}

	subs := SplitChapter(chapterOf(paras), cfg)
	require.Len(t, subs, 1)
	assert.Equal(t, paras, subs[0].Paragraphs)
	assert.Equal(t, 500, subs[0].WordCount)
	assert.Equal(t, "Chapter 1(1)", subs[0].Title)
}

func TestSplitChapter_BelowSplitFloorStaysWhole(t *testing.T) {
	paras := repeatParas(8, 100) // 800 words, over budget but under the floor
	cfg := Config{MaxWordsPerSub: 500, MinSplitWords: 1000, MinParagraphsPerSub: 2}

	subs := SplitChapter(chapterOf(paras), cfg)
	require.Len(t, subs, 1)
}

func TestSplitChapter_TooFewParagraphsStaysWhole(t *testing.T) {
	paras := repeatParas(3, 2000) // 6000 words but only 3 paragraphs
	cfg := Config{MaxWordsPerSub: 5000, MinSplitWords: 1000, MinParagraphsPerSub: 2}

	subs := SplitChapter(chapterOf(paras), cfg)
	require.Len(t, subs, 1)
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hello world", 2},
		{"it's one word", 3},
		{"你好世界", 4},
		{"hello 世界", 3},
		{"第１章　起点", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountWords(tt.text), "text %q", tt.text)
	}
}
