package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/bookvox/bookvox/internal/book"
)

// TextParser handles plain text books. Line structure is preserved as-is;
// the chapter detector owns heading recognition and wrapped-line rejoining.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*book.Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Trim leading and trailing blank lines.
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return &book.Source{
		Title: titleFromFilename(filename),
		Text:  strings.Join(lines[start:end], "\n"),
	}, nil
}
