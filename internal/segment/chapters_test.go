package segment

import (
	"strings"
	"testing"

	"github.com/bookvox/bookvox/internal/book"
)

func TestDetectChapters_ChapterHeadings(t *testing.T) {
	src := book.Source{
		Title: "A Novel",
		Text: strings.Join([]string{
			"A short preface.",
			"",
			"CHAPTER 1",
			"It was dark outside",
			"and no moon rose.",
			"",
			"CHAPTER 2",
			"Dawn came at last.",
		}, "\n"),
	}

	chapters := DetectChapters(src, DefaultConfig())
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters (front matter + 2), got %d", len(chapters))
	}

	if chapters[0].Title != "A Novel" {
		t.Errorf("expected front matter titled by the book, got %q", chapters[0].Title)
	}
	if chapters[0].Content != "A short preface." {
		t.Errorf("unexpected front matter content %q", chapters[0].Content)
	}

	if chapters[1].Title != "CHAPTER 1" {
		t.Errorf("expected title CHAPTER 1, got %q", chapters[1].Title)
	}
	// Wrapped lines inside a paragraph rejoin with a single space.
	if chapters[1].Content != "It was dark outside and no moon rose." {
		t.Errorf("unexpected chapter 1 content %q", chapters[1].Content)
	}

	if chapters[2].Title != "CHAPTER 2" {
		t.Errorf("expected title CHAPTER 2, got %q", chapters[2].Title)
	}

	for i, ch := range chapters {
		if ch.Index != i {
			t.Errorf("chapter %d has index %d", i, ch.Index)
		}
	}
}

func TestDetectChapters_CJKHeadings(t *testing.T) {
	src := book.Source{
		Title: "小说",
		Text:  "第一章 起点\n他出发了。\n\n第二章 归途\n他回来了。\n",
	}

	chapters := DetectChapters(src, DefaultConfig())
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "第一章 起点" {
		t.Errorf("unexpected title %q", chapters[0].Title)
	}
	if chapters[0].Content != "他出发了。" {
		t.Errorf("unexpected content %q", chapters[0].Content)
	}
}

func TestDetectChapters_MarkdownHeadings(t *testing.T) {
	src := book.Source{
		Title: "Doc",
		Text:  "# First\nBody one.\n\n## Second\nBody two.\n",
	}

	chapters := DetectChapters(src, DefaultConfig())
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "# First" {
		t.Errorf("unexpected title %q", chapters[0].Title)
	}
}

func TestDetectChapters_NumberedLineTitleOnNextLine(t *testing.T) {
	src := book.Source{
		Title: "Doc",
		Text:  "1\nThe Beginning\nBody one.\n\n2\nThe End\nBody two.\n",
	}

	chapters := DetectChapters(src, DefaultConfig())
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "The Beginning" {
		t.Errorf("expected title from the following line, got %q", chapters[0].Title)
	}
	if chapters[0].Content != "Body one." {
		t.Errorf("unexpected content %q", chapters[0].Content)
	}
}

func TestDetectChapters_NoMatchFallsBackToOneChapter(t *testing.T) {
	src := book.Source{
		Title: "Plain",
		Text:  "Just some text.\n\nWith two paragraphs.",
	}

	chapters := DetectChapters(src, DefaultConfig())
	if len(chapters) != 1 {
		t.Fatalf("expected 1 synthetic chapter, got %d", len(chapters))
	}
	if chapters[0].Title != "Plain" {
		t.Errorf("expected book title, got %q", chapters[0].Title)
	}
	if chapters[0].Content != "Just some text.\n\nWith two paragraphs." {
		t.Errorf("unexpected content %q", chapters[0].Content)
	}
}

func TestRejoinWrappedLines_NoSpaceAfterTerminator(t *testing.T) {
	lines := []string{"他出发了。", "天还没亮。", "", "第二段开始了，", "还在继续。"}

	got := rejoinWrappedLines(lines, DefaultConfig())
	want := "他出发了。天还没亮。\n\n第二段开始了， 还在继续。"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("one\n\n\n\ntwo\n\n  \n\nthree")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
