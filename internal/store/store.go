// Package store persists segmentation artifacts as plain text files, one
// directory per book:
//
//	<root>/<bookID>/book.json
//	<root>/<bookID>/chapters/NNN_<slug>.txt
//	<root>/<bookID>/subchapters/NNN_MM_<slug>.txt
//	<root>/<bookID>/clauses/NNN_MM_<slug>.txt
//
// Every artifact starts with a title line and a blank line. Clause files hold
// one clause per line with a blank line between paragraph groups; one line is
// one audio segment and one subtitle entry.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bookvox/bookvox/internal/book"
)

// Store writes and manages per-book artifact directories.
type Store struct {
	root string
}

// New creates the artifact root if needed.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, ".by_hash"), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the artifact root directory.
func (s *Store) Root() string { return s.root }

// Meta is the per-book manifest stored as book.json.
type Meta struct {
	BookID      string    `json:"book_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Chapters    int       `json:"chapters"`
	SubChapters int       `json:"sub_chapters"`
	Clauses     int       `json:"clauses"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Store) bookDir(bookID string) string {
	return filepath.Join(s.root, Slugify(bookID))
}

// ClauseDir returns the clause artifact directory for a book.
func (s *Store) ClauseDir(bookID string) string {
	return filepath.Join(s.bookDir(bookID), "clauses")
}

// WriteChapter writes one chapter file: title line, blank line, content.
func (s *Store) WriteChapter(bookID string, ch book.Chapter) error {
	name := fmt.Sprintf("%03d_%s.txt", ch.Index, Slugify(ch.Title))
	body := ch.Title + "\n\n" + ch.Content + "\n"
	return s.writeFile(bookID, "chapters", name, body)
}

// WriteSubChapter writes one sub-chapter file: title line, blank line,
// paragraphs separated by blank lines.
func (s *Store) WriteSubChapter(bookID string, sub book.SubChapter) error {
	name := fmt.Sprintf("%03d_%02d_%s.txt", sub.ChapterIndex, sub.SubIndex, Slugify(sub.Title))
	body := sub.Title + "\n\n" + strings.Join(sub.Paragraphs, "\n\n") + "\n"
	return s.writeFile(bookID, "subchapters", name, body)
}

// WriteClauses writes the terminal artifact for one sub-chapter: title line,
// blank line, one clause per line, blank line between paragraph groups.
func (s *Store) WriteClauses(bookID string, sub book.SubChapter, clauses []book.Clause) error {
	var body strings.Builder
	body.WriteString(sub.Title)
	body.WriteString("\n\n")
	lastPara := -1
	for _, c := range clauses {
		if lastPara >= 0 && c.Paragraph != lastPara {
			body.WriteString("\n")
		}
		lastPara = c.Paragraph
		body.WriteString(c.Text)
		body.WriteString("\n")
	}

	name := fmt.Sprintf("%03d_%02d_%s.txt", sub.ChapterIndex, sub.SubIndex, Slugify(sub.Title))
	return s.writeFile(bookID, "clauses", name, body.String())
}

// WriteMeta writes the book manifest.
func (s *Store) WriteMeta(meta Meta) error {
	dir := s.bookDir(meta.BookID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "book.json"), data, 0o644)
}

// LookupHash reports whether a book with this content hash was already
// stored, and if so which one.
func (s *Store) LookupHash(hash string) (bookID string, ok bool) {
	data, err := os.ReadFile(s.hashPath(hash))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// IndexHash records the content hash of a stored book for dedup.
func (s *Store) IndexHash(hash, bookID string) error {
	return os.WriteFile(s.hashPath(hash), []byte(bookID+"\n"), 0o644)
}

// List returns the manifests of every stored book.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var metas []Meta
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, e.Name(), "book.json"))
		if err != nil {
			continue // partially written book, skip
		}
		var m Meta
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		metas = append(metas, m)
	}
	return metas, nil
}

// Delete removes a book's artifacts and its hash-index entry.
func (s *Store) Delete(bookID string) error {
	dir := s.bookDir(bookID)
	if data, err := os.ReadFile(filepath.Join(dir, "book.json")); err == nil {
		var m Meta
		if json.Unmarshal(data, &m) == nil && m.ContentHash != "" {
			os.Remove(s.hashPath(m.ContentHash))
		}
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("book %s not found", bookID)
	}
	return os.RemoveAll(dir)
}

func (s *Store) writeFile(bookID, kind, name, body string) error {
	dir := filepath.Join(s.bookDir(bookID), kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)
}

func (s *Store) hashPath(hash string) string {
	return filepath.Join(s.root, ".by_hash", Slugify(hash))
}

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}-]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a filesystem-safe slug. Letters in any script
// survive; everything else becomes a dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "untitled"
	}
	if r := []rune(s); len(r) > 60 {
		s = strings.Trim(string(r[:60]), "-")
	}
	return s
}
