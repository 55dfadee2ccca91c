package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bookvox/bookvox/internal/book"
	"github.com/bookvox/bookvox/internal/parser"
	"github.com/bookvox/bookvox/internal/pipeline"
	"github.com/bookvox/bookvox/internal/segment"
	"github.com/bookvox/bookvox/internal/sentence"
	"github.com/bookvox/bookvox/internal/store"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookvox",
		Short: "Book segmentation for speech synthesis",
		Long: `Bookvox converts long-form prose into ordered short text units
sized for speech synthesis and subtitle timing.

It ingests a book file and produces:
  - Chapters detected from headings and numbering conventions
  - Reading-time-balanced sub-chapters
  - Clause files with one short unit per line`,
		Version: version,
	}

	rootCmd.AddCommand(segmentCmd())
	rootCmd.AddCommand(chaptersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment <file>",
		Short: "Segment a book into chapters, sub-chapters, and clauses",
		Long: `Segment a book file and write the artifacts to an output directory.

Supported formats: TXT, MD, HTML, PDF, DOCX

Example:
  bookvox segment novel.txt
  bookvox segment novel.epub.txt -o out --max-sentence-len 80`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			out, _ := cmd.Flags().GetString("out")
			title, _ := cmd.Flags().GetString("title")

			cfg := segment.DefaultConfig()
			if v, _ := cmd.Flags().GetInt("max-sentence-len"); v > 0 {
				cfg.MaxSentenceLen = v
			}
			if v, _ := cmd.Flags().GetInt("min-merge-len"); v > 0 {
				cfg.MinMergeLen = v
			}
			if v, _ := cmd.Flags().GetInt("max-merge-len"); v > 0 {
				cfg.MaxMergeLen = v
			}
			if v, _ := cmd.Flags().GetInt("max-words"); v > 0 {
				cfg.MaxWordsPerSub = v
			}
			if cfg.MinMergeLen > cfg.MaxMergeLen {
				return fmt.Errorf("--min-merge-len (%d) exceeds --max-merge-len (%d)", cfg.MinMergeLen, cfg.MaxMergeLen)
			}

			src, err := parseFile(source, title)
			if err != nil {
				return err
			}

			oracle, err := sentence.NewPunkt()
			if err != nil {
				return err
			}
			splitter := segment.NewSplitter(cfg, oracle)

			st, err := store.New(out)
			if err != nil {
				return err
			}
			bookID := pipeline.ContentHashHex([]byte(src.Text))[:16]

			start := time.Now()
			fmt.Printf("Segmenting: %s\n", source)

			chapters := segment.DetectChapters(*src, cfg)
			fmt.Printf("  1. Detected %d chapters\n", len(chapters))

			totalSubs := 0
			totalClauses := 0
			for _, ch := range chapters {
				if err := st.WriteChapter(bookID, ch); err != nil {
					return fmt.Errorf("write chapter %d: %w", ch.Index, err)
				}
				subs := segment.SplitChapter(ch, cfg)
				for _, sub := range subs {
					if err := st.WriteSubChapter(bookID, sub); err != nil {
						return fmt.Errorf("write sub-chapter %s: %w", sub.Title, err)
					}
					clauses := splitter.SplitSubChapter(sub)
					if err := segment.Validate(sub.Paragraphs, clauses, cfg); err != nil {
						fmt.Fprintf(os.Stderr, "warning: %s: %s\n", sub.Title, err)
					}
					if err := st.WriteClauses(bookID, sub, clauses); err != nil {
						return fmt.Errorf("write clauses %s: %w", sub.Title, err)
					}
					totalClauses += len(clauses)
				}
				totalSubs += len(subs)
			}
			fmt.Printf("  2. Balanced into %d sub-chapters\n", totalSubs)
			fmt.Printf("  3. Split into %d clauses\n", totalClauses)

			meta := store.Meta{
				BookID:      bookID,
				Title:       src.Title,
				Filename:    source,
				ContentHash: pipeline.ContentHashHex([]byte(src.Text)),
				Chapters:    len(chapters),
				SubChapters: totalSubs,
				Clauses:     totalClauses,
				CreatedAt:   time.Now(),
			}
			if err := st.WriteMeta(meta); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
			fmt.Printf("Artifacts: %s\n", st.ClauseDir(bookID))
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "data/books", "output directory for artifacts")
	cmd.Flags().String("title", "", "override the book title")
	cmd.Flags().Int("max-sentence-len", 0, "max clause length in runes before splitting kicks in")
	cmd.Flags().Int("min-merge-len", 0, "clauses shorter than this are merge candidates")
	cmd.Flags().Int("max-merge-len", 0, "merged clauses never exceed this length")
	cmd.Flags().Int("max-words", 0, "word budget per sub-chapter")

	return cmd
}

func chaptersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters <file>",
		Short: "Detect and list chapter boundaries without writing artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			src, err := parseFile(args[0], title)
			if err != nil {
				return err
			}

			cfg := segment.DefaultConfig()
			chapters := segment.DetectChapters(*src, cfg)
			fmt.Printf("%s: %d chapters\n\n", src.Title, len(chapters))
			for _, ch := range chapters {
				fmt.Printf("  %3d. %-50s %6d words\n", ch.Index, ch.Title, segment.CountWords(ch.Content))
			}
			return nil
		},
	}

	cmd.Flags().String("title", "", "override the book title")
	return cmd
}

func parseFile(path, title string) (*book.Source, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	src, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if title != "" {
		src.Title = title
	}
	return src, nil
}
