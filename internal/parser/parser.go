package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bookvox/bookvox/internal/book"
)

// Parser converts raw book bytes into a normalized Source: plain text with
// blank-line paragraph breaks. Structured formats render their headings as
// markdown-style lines so the chapter detector sees one structural cue for
// every input format.
type Parser interface {
	Parse(r io.Reader, filename string) (*book.Source, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// headingLine renders a heading as a markdown line, clamped to the levels the
// chapter patterns recognize.
func headingLine(level int, title string) string {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return strings.Repeat("#", level) + " " + title
}

func joinParagraphs(paras []string) string {
	return strings.Join(paras, "\n\n")
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
