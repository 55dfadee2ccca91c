package segment

import (
	"strings"
	"testing"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/bookvox/bookvox/internal/sentence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wholeText treats the full input as a single sentence, which pins down the
// splitter's own behavior independent of the sentence model.
var wholeText = sentence.Func(func(text string) []string {
	return []string{text}
})

func TestSplitParagraph_ShortParagraphPassesThrough(t *testing.T) {
	sp := NewSplitter(DefaultConfig(), wholeText)

	got := sp.SplitParagraph("Hello, world.")
	require.Equal(t, []string{"Hello, world."}, got)
}

func TestSplitParagraph_CollapsesWhitespace(t *testing.T) {
	sp := NewSplitter(DefaultConfig(), wholeText)

	got := sp.SplitParagraph("  Hello,\n   world.  ")
	require.Equal(t, []string{"Hello, world."}, got)
}

func TestSplitParagraph_EmptyParagraph(t *testing.T) {
	sp := NewSplitter(DefaultConfig(), wholeText)

	assert.Nil(t, sp.SplitParagraph(""))
	assert.Nil(t, sp.SplitParagraph("   \n\t "))
}

func TestSplitParagraph_QuotedSpanStaysAtomic(t *testing.T) {
	cfg := Config{MaxSentenceLen: 40}
	sp := NewSplitter(cfg, wholeText)

	got := sp.SplitParagraph(`She said, "I am going, but I will return before dark," and then she left.`)
	require.Equal(t, []string{
		`She said, "I am going, but I will return before dark,"`,
		"and then she left.",
	}, got)
}

func TestSplitParagraph_Idempotent(t *testing.T) {
	cfg := Config{MaxSentenceLen: 40}
	sp := NewSplitter(cfg, wholeText)

	clauses := sp.SplitParagraph(`She said, "I am going, but I will return before dark," and then she left.`)
	require.NotEmpty(t, clauses)
	for _, c := range clauses {
		assert.Equal(t, []string{c}, sp.SplitParagraph(c), "clause %q changed on a second pass", c)
	}
}

func TestSplitParagraph_NestedBracketsStayAtomic(t *testing.T) {
	cfg := Config{MaxSentenceLen: 5, MinMergeLen: 1}
	sp := NewSplitter(cfg, wholeText)

	got := sp.SplitParagraph("好的，（甲【乙】丙）结束。")
	require.Equal(t, []string{"好的，", "（甲【乙】丙）", "结束。"}, got)
}

func TestSplitParagraph_ResplitsOversizedRegion(t *testing.T) {
	cfg := Config{MaxSentenceLen: 10, MinMergeLen: 1, MaxMergeLen: 10}
	sp := NewSplitter(cfg, wholeText)

	got := sp.SplitParagraph("（xxxx、（yy）、zzzz）")
	require.Equal(t, []string{"（xxxx、", "（yy）、", "zzzz）"}, got)
}

func TestSplitParagraph_ReattachesStrandedPunct(t *testing.T) {
	cfg := Config{MaxSentenceLen: 5, MinMergeLen: 1}
	sp := NewSplitter(cfg, wholeText)

	got := sp.SplitParagraph("（你好）、再见。")
	require.Equal(t, []string{"（你好）、", "再见。"}, got)
}

func TestSplitParagraph_ReattachesStrandedCloser(t *testing.T) {
	cfg := Config{MaxSentenceLen: 5, MinMergeLen: 1}
	sp := NewSplitter(cfg, wholeText)

	// The unmatched closer is literal text; together with its trailing mark
	// it moves onto the previous clause.
	got := sp.SplitParagraph("aa、）、bb")
	require.Equal(t, []string{"aa、）、", "bb"}, got)
}

func TestSplitParagraph_NeverMergesAcrossSentenceEnd(t *testing.T) {
	cfg := Config{MaxSentenceLen: 10}
	twoSentences := sentence.Func(func(text string) []string {
		return strings.SplitAfter(text, "! ")
	})
	sp := NewSplitter(cfg, twoSentences)

	got := sp.SplitParagraph("Stop! go on, now")
	require.Equal(t, []string{"Stop!", "go on, now"}, got)
}

func TestSplitParagraph_MergesShortFragments(t *testing.T) {
	cfg := Config{MaxSentenceLen: 10}
	twoSentences := sentence.Func(func(text string) []string {
		return []string{"Well,", "go on, now"}
	})
	sp := NewSplitter(cfg, twoSentences)

	got := sp.SplitParagraph("Well, go on, now")
	require.Equal(t, []string{"Well, go on, now"}, got)
}

func TestSplitParagraph_UnterminatedQuoteFlushedAtEnd(t *testing.T) {
	cfg := Config{MaxSentenceLen: 5, MinMergeLen: 1}
	sp := NewSplitter(cfg, wholeText)

	got := sp.SplitParagraph("他说：「今天天气很好")
	require.Equal(t, []string{"他说：", "「今天天气很好"}, got)
}

func TestSplitParagraph_OversizedUnstructuredClauseStands(t *testing.T) {
	sp := NewSplitter(DefaultConfig(), wholeText)

	long := strings.Repeat("a", 120)
	got := sp.SplitParagraph(long)
	require.Equal(t, []string{long}, got)
}

func TestSplitSubChapter_KeepsParagraphOrder(t *testing.T) {
	sp := NewSplitter(DefaultConfig(), wholeText)

	sub := book.SubChapter{
		Title:      "Chapter 1(1)",
		Paragraphs: []string{"First paragraph.", "Second paragraph."},
	}
	clauses := sp.SplitSubChapter(sub)
	require.Len(t, clauses, 2)
	assert.Equal(t, book.Clause{Text: "First paragraph.", Paragraph: 0}, clauses[0])
	assert.Equal(t, book.Clause{Text: "Second paragraph.", Paragraph: 1}, clauses[1])
}

func TestSplitSubChapter_RoundTripsSourceText(t *testing.T) {
	oracle, err := sentence.NewPunkt()
	require.NoError(t, err)

	cfg := DefaultConfig()
	sp := NewSplitter(cfg, oracle)

	sub := book.SubChapter{
		Title: "Chapter 1(1)",
		Paragraphs: []string{
			`She said, "I am going, but I will return before dark," and then she left. The road was long, the night was cold, and nobody followed her out of the village gate.`,
			"他说：「今天天气很好，我们出去走走吧。」她点了点头，拿起外套，跟着他走出了家门，沿着河边的小路慢慢地散步，一直走到了桥头才停下来休息。",
			"他说：「今天天气很好",
		},
	}
	clauses := sp.SplitSubChapter(sub)
	require.NotEmpty(t, clauses)
	require.NoError(t, Validate(sub.Paragraphs, clauses, cfg))

	for _, c := range clauses {
		assert.NotEmpty(t, strings.TrimSpace(c.Text))
	}
}
