package book

// Source is a parsed input book: a title plus normalized plain text where
// paragraphs are separated by blank lines.
type Source struct {
	Title string // Book title (from metadata or filename)
	Text  string // Full text, blank-line paragraph breaks
}

// Chapter is one detected chapter. Created once by the chapter detector,
// never mutated afterwards.
type Chapter struct {
	Index   int    // 0-based position within the book
	Title   string // Heading line (or the book title for a synthetic chapter)
	Content string // Normalized content, blank-line paragraph breaks
}

// SubChapter is a chapter partition sized to a reading-time word budget.
type SubChapter struct {
	ChapterIndex int      // Index of the parent chapter
	SubIndex     int      // 1-based position within the chapter
	Title        string   // "<chapter title>(<SubIndex>)"
	Paragraphs   []string // Paragraph slice, order preserved
	WordCount    int      // Total words across Paragraphs
}

// Clause is the terminal unit: one clause = one audio segment = one subtitle
// entry. Emission order mirrors source order exactly.
type Clause struct {
	Text      string // Clause text, whitespace-normalized
	Paragraph int    // 0-based index of the source paragraph within the sub-chapter
}
