// Package downstream holds the boundaries to external collaborators that
// consume clause artifacts: speech synthesis, translation, vocabulary
// enrichment. The collaborators themselves live outside this service; only
// their notification port is defined here.
package downstream

import "context"

// Notifier is told when a book's clause artifacts are complete on disk.
type Notifier interface {
	ClausesReady(ctx context.Context, bookID, clauseDir string) error
}

// Nop is the default Notifier and does nothing.
type Nop struct{}

func (Nop) ClausesReady(context.Context, string, string) error { return nil }
