package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/SAR-DEVELOPER/IT/internal/persistence"
	"github.com/SAR-DEVELOPER/IT/internal/persistence/sqlite"
)

// SQLiteHarness is a migrated journal in a per-test temporary file. Storage
// is exposed for health checks; Submissions is the repository view.
type SQLiteHarness struct {
	Storage     *sqlite.Storage
	Submissions persistence.SubmissionRepository
}

// NewSQLiteHarness fails the test on any setup error and closes the database
// when the test ends.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	ctx := context.Background()
	dsn := filepath.Join(tb.TempDir(), "journal.db")
	storage, err := sqlite.Open(ctx, dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		tb.Fatalf("open journal %s: %v", dsn, err)
	}
	tb.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(ctx); err != nil {
		tb.Fatalf("migrate journal: %v", err)
	}
	return &SQLiteHarness{Storage: storage, Submissions: storage}
}

// List returns every journal entry matching filter, failing the test on
// error.
func (h *SQLiteHarness) List(tb testing.TB, filter persistence.SubmissionFilter) []persistence.Submission {
	tb.Helper()
	subs, err := h.Submissions.ListSubmissions(context.Background(), filter)
	if err != nil {
		tb.Fatalf("list submissions: %v", err)
	}
	return subs
}
