package segment

import (
	"fmt"
	"strings"

	"github.com/bookvox/bookvox/internal/book"
)

// DetectChapters scans the book once against the ordered pattern table and
// returns its chapters in source order. When no pattern matches anywhere the
// whole book degrades to a single synthetic chapter; detection is never fatal.
func DetectChapters(src book.Source, cfg Config) []book.Chapter {
	cfg = cfg.withDefaults()
	lines := strings.Split(src.Text, "\n")

	var marks []int
	for _, pat := range cfg.Patterns {
		marks = matchLines(lines, pat)
		if len(marks) > 0 {
			return buildChapters(src, lines, pat, marks, cfg)
		}
	}

	return []book.Chapter{{
		Index:   0,
		Title:   src.Title,
		Content: rejoinWrappedLines(lines, cfg),
	}}
}

func matchLines(lines []string, pat ChapterPattern) []int {
	var marks []int
	for i, line := range lines {
		if pat.Match.MatchString(strings.TrimRight(line, "\r")) {
			marks = append(marks, i)
		}
	}
	return marks
}

func buildChapters(src book.Source, lines []string, pat ChapterPattern, marks []int, cfg Config) []book.Chapter {
	var chapters []book.Chapter

	// Text before the first heading becomes a front-matter chapter so no
	// content is dropped.
	if front := rejoinWrappedLines(lines[:marks[0]], cfg); front != "" {
		chapters = append(chapters, book.Chapter{
			Index:   0,
			Title:   src.Title,
			Content: front,
		})
	}

	for i, m := range marks {
		title := fmt.Sprintf("Chapter %d", i+1)
		if t := lineAt(lines, m+pat.TitleLineOffset); t != "" {
			title = t
		}

		start := m + pat.ContentStartOffset
		end := len(lines)
		if i+1 < len(marks) {
			end = marks[i+1]
		}
		if start > end {
			start = end
		}

		chapters = append(chapters, book.Chapter{
			Index:   len(chapters),
			Title:   title,
			Content: rejoinWrappedLines(lines[start:end], cfg),
		})
	}

	return chapters
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
}

// rejoinWrappedLines undoes hard line-wrapping inside paragraphs while
// keeping blank lines as true paragraph breaks. Lines are joined with no
// separator when the previous line ends in a sentence terminator and with a
// single space otherwise.
func rejoinWrappedLines(lines []string, cfg Config) string {
	var paras []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			paras = append(paras, cur.String())
			cur.Reset()
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			flush()
			continue
		}
		if cur.Len() > 0 && !cfg.Terminators[lastRune(cur.String())] {
			cur.WriteByte(' ')
		}
		cur.WriteString(line)
	}
	flush()

	return strings.Join(paras, "\n\n")
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// SplitParagraphs splits normalized chapter content on blank lines.
func SplitParagraphs(content string) []string {
	parts := strings.Split(content, "\n\n")
	var paras []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}
