package segment

import "regexp"

// QuotePair is one quote delimiter pair. Open and Close may be the same
// glyph (straight double quote); direction is then decided by the scanner's
// stack-top rule.
type QuotePair struct {
	Open  rune
	Close rune
}

// ChapterPattern is one structural chapter-heading rule. Patterns are tried
// in table order and the first pattern that matches anywhere in the book
// wins; patterns are never combined.
type ChapterPattern struct {
	Name string
	// Match is applied to whole lines.
	Match *regexp.Regexp
	// TitleLineOffset is the line offset, relative to the matched line,
	// holding the chapter title.
	TitleLineOffset int
	// ContentStartOffset is how many lines after the matched line the
	// chapter content begins.
	ContentStartOffset int
}

// Config carries every threshold and table the segmentation pipeline uses.
// It is immutable once built; there is no package-level mutable state.
type Config struct {
	// MaxSentenceLen is the rune length above which an oracle sentence is
	// split into clauses.
	MaxSentenceLen int
	// MinMergeLen / MaxMergeLen bound the greedy clause merge pass.
	MinMergeLen int
	MaxMergeLen int

	// MaxWordsPerSub is the reading-time word budget per sub-chapter.
	MaxWordsPerSub int
	// MinSplitWords is the chapter size below which balancing is skipped.
	MinSplitWords int
	// MinParagraphsPerSub is the smallest paragraph group a sub-chapter
	// may hold when its chapter is split at all.
	MinParagraphsPerSub int

	Patterns []ChapterPattern

	// Brackets maps opening glyphs to their closing glyphs. Open and close
	// are always distinct in this family.
	Brackets map[rune]rune
	// Quotes lists quote pairs, including same-glyph pairs.
	Quotes []QuotePair
	// SplitPunct are the marks that end a clause outside protected regions.
	SplitPunct map[rune]bool
	// Terminators are true sentence enders; the merge pass never joins
	// across them.
	Terminators map[rune]bool
}

// DefaultConfig returns the full default table set and thresholds.
func DefaultConfig() Config {
	return Config{
		MaxSentenceLen:      100,
		MinMergeLen:         15,
		MaxMergeLen:         100,
		MaxWordsPerSub:      5000,
		MinSplitWords:       1000,
		MinParagraphsPerSub: 2,
		Patterns:            DefaultPatterns(),
		Brackets:            defaultBrackets(),
		Quotes:              defaultQuotes(),
		SplitPunct:          defaultSplitPunct(),
		Terminators:         defaultTerminators(),
	}
}

// withDefaults fills any zero field so a partially built Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxSentenceLen <= 0 {
		c.MaxSentenceLen = d.MaxSentenceLen
	}
	if c.MinMergeLen <= 0 {
		c.MinMergeLen = d.MinMergeLen
	}
	if c.MaxMergeLen <= 0 {
		c.MaxMergeLen = d.MaxMergeLen
	}
	if c.MaxWordsPerSub <= 0 {
		c.MaxWordsPerSub = d.MaxWordsPerSub
	}
	if c.MinSplitWords <= 0 {
		c.MinSplitWords = d.MinSplitWords
	}
	if c.MinParagraphsPerSub <= 0 {
		c.MinParagraphsPerSub = d.MinParagraphsPerSub
	}
	if len(c.Patterns) == 0 {
		c.Patterns = d.Patterns
	}
	if c.Brackets == nil {
		c.Brackets = d.Brackets
	}
	if c.Quotes == nil {
		c.Quotes = d.Quotes
	}
	if c.SplitPunct == nil {
		c.SplitPunct = d.SplitPunct
	}
	if c.Terminators == nil {
		c.Terminators = d.Terminators
	}
	return c
}

// DefaultPatterns is the ordered structural heading table. CJK headings come
// first because they are the least ambiguous; the bare-number rule is last
// because almost anything can contain a lone number line.
func DefaultPatterns() []ChapterPattern {
	return []ChapterPattern{
		{
			Name:               "cjk-chapter",
			Match:              regexp.MustCompile(`^\s*第[0-9０-９一二三四五六七八九十百千两〇零]+[章回节節卷集部][　\s]*.*$`),
			TitleLineOffset:    0,
			ContentStartOffset: 1,
		},
		{
			Name:               "chapter-heading",
			Match:              regexp.MustCompile(`^\s*(?:CHAPTER|Chapter)\s+(?:[IVXLCDM]+|\d+)[.:．]?(?:\s+.*)?$`),
			TitleLineOffset:    0,
			ContentStartOffset: 1,
		},
		{
			Name:               "part-heading",
			Match:              regexp.MustCompile(`^\s*(?:PART|Part|BOOK|Book)\s+(?:[IVXLCDM]+|\d+)\b.*$`),
			TitleLineOffset:    0,
			ContentStartOffset: 1,
		},
		{
			Name:               "markdown-heading",
			Match:              regexp.MustCompile(`^#{1,3}\s+.+$`),
			TitleLineOffset:    0,
			ContentStartOffset: 1,
		},
		{
			// A bare number on its own line; the title follows on the
			// next line.
			Name:               "numbered-line",
			Match:              regexp.MustCompile(`^\s*\d{1,3}\s*$`),
			TitleLineOffset:    1,
			ContentStartOffset: 2,
		},
	}
}

func defaultBrackets() map[rune]rune {
	return map[rune]rune{
		'(': ')',
		'[': ']',
		'{': '}',
		'（': '）',
		'［': '］',
		'｛': '｝',
		'【': '】',
		'〔': '〕',
		'〈': '〉',
		'《': '》',
	}
}

// defaultQuotes holds the quote family. The ASCII apostrophe and the curly
// single quote are deliberately absent: both double as intra-word
// apostrophes in Latin prose and would open regions that never close.
func defaultQuotes() []QuotePair {
	return []QuotePair{
		{Open: '"', Close: '"'},
		{Open: '“', Close: '”'},
		{Open: '「', Close: '」'},
		{Open: '『', Close: '』'},
	}
}

// defaultSplitPunct excludes the ASCII full stop: the sentence oracle owns
// Latin sentence boundaries, and a trailing split at '.' would cut decimals
// and abbreviations. CJK enders are present because the default oracle is
// Latin-trained and under-segments CJK text.
func defaultSplitPunct() map[rune]bool {
	return map[rune]bool{
		',': true, '，': true, '、': true,
		';': true, '；': true,
		':': true, '：': true,
		'!': true, '?': true,
		'。': true, '！': true, '？': true,
		'…': true, '—': true,
	}
}

func defaultTerminators() map[rune]bool {
	return map[rune]bool{
		'.': true, '!': true, '?': true, ';': true,
		'。': true, '！': true, '？': true, '；': true,
	}
}
