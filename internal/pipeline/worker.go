package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookvox/bookvox/internal/downstream"
	"github.com/bookvox/bookvox/internal/parser"
	"github.com/bookvox/bookvox/internal/segment"
	"github.com/bookvox/bookvox/internal/sentence"
	"github.com/bookvox/bookvox/internal/store"
)

// Worker processes a single book job: parse, detect chapters, balance
// sub-chapters, split clauses, write artifacts. Every unit failure is local
// to that book.
type Worker struct {
	store    *store.Store
	oracle   sentence.Segmenter
	notifier downstream.Notifier
	stats    *Stats
	log      *slog.Logger
	segCfg   segment.Config

	pdfFallback bool
}

func NewWorker(st *store.Store, oracle sentence.Segmenter, notifier downstream.Notifier, stats *Stats, log *slog.Logger, segCfg segment.Config, pdfFallback bool) *Worker {
	return &Worker{
		store:       st,
		oracle:      oracle,
		notifier:    notifier,
		stats:       stats,
		log:         log,
		segCfg:      segCfg,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full segmentation pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "book_id", job.BookID)
	start := time.Now()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	}

	job.ContentHash = ContentHashHex([]byte(src.Text))

	// Phase 1.5: Dedup check against the artifact store.
	if !job.Force {
		if existing, ok := w.store.LookupHash(job.ContentHash); ok {
			log.Info("duplicate book, skipping", "existing_book_id", existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	segCfg := w.segCfg
	if job.MaxSentenceLen > 0 {
		segCfg.MaxSentenceLen = job.MaxSentenceLen
	}
	splitter := segment.NewSplitter(segCfg, w.oracle)

	// Phase 2: Chapter detection.
	job.SetStatus(StatusDetecting, "chapters")
	chapters := segment.DetectChapters(*src, segCfg)
	job.SetChapters(len(chapters))
	log.Info("detected chapters", "chapters", len(chapters))

	// Phase 3: Balance and split, chapter by chapter, writing artifacts as
	// they are produced. Output order mirrors source order.
	job.SetStatus(StatusSegmenting, "segmenting")
	totalSubs := 0
	totalClauses := 0
	hadErrors := false

	for _, ch := range chapters {
		select {
		case <-ctx.Done():
			job.AddError("canceled")
			job.SetStatus(StatusFailed, "segmenting")
			return
		default:
		}

		if err := w.store.WriteChapter(job.BookID, ch); err != nil {
			log.Error("chapter write failed", "chapter", ch.Index, "error", err)
			job.AddError(fmt.Sprintf("chapter %d: %s", ch.Index, err))
			hadErrors = true
		}

		subs := segment.SplitChapter(ch, segCfg)
		chapterClauses := 0
		for _, sub := range subs {
			if err := w.store.WriteSubChapter(job.BookID, sub); err != nil {
				log.Error("sub-chapter write failed", "title", sub.Title, "error", err)
				job.AddError(fmt.Sprintf("sub-chapter %s: %s", sub.Title, err))
				hadErrors = true
				continue
			}

			clauses := splitter.SplitSubChapter(sub)
			if err := segment.Validate(sub.Paragraphs, clauses, segCfg); err != nil {
				log.Warn("clause invariant violation", "title", sub.Title, "error", err)
			}
			if err := w.store.WriteClauses(job.BookID, sub, clauses); err != nil {
				log.Error("clause write failed", "title", sub.Title, "error", err)
				job.AddError(fmt.Sprintf("clauses %s: %s", sub.Title, err))
				hadErrors = true
				continue
			}
			chapterClauses += len(clauses)
		}
		totalSubs += len(subs)
		totalClauses += chapterClauses
		job.AddUnits(len(subs), chapterClauses)
		job.IncrChaptersProcessed()
	}

	// Phase 4: Manifest, dedup index, downstream notification.
	job.SetStatus(StatusFinalizing, "finalizing")
	meta := store.Meta{
		BookID:      job.BookID,
		Title:       src.Title,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Chapters:    len(chapters),
		SubChapters: totalSubs,
		Clauses:     totalClauses,
		CreatedAt:   job.CreatedAt,
	}
	if err := w.store.WriteMeta(meta); err != nil {
		log.Error("meta write failed", "error", err)
		job.AddError(fmt.Sprintf("meta: %s", err))
		hadErrors = true
	}
	if err := w.store.IndexHash(job.ContentHash, job.BookID); err != nil {
		log.Warn("hash index write failed", "error", err)
	}
	if err := w.notifier.ClausesReady(ctx, job.BookID, w.store.ClauseDir(job.BookID)); err != nil {
		log.Warn("downstream notify failed", "error", err)
	}

	w.stats.Record(time.Since(start).Milliseconds())
	log.Info("segmentation complete",
		"chapters", len(chapters),
		"sub_chapters", totalSubs,
		"clauses", totalClauses,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case hadErrors && totalClauses > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "segmenting")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
