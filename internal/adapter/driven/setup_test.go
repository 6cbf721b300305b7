package driven

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"
)

// testLogger returns a logger that discards all output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB creates a temporary BoltDB instance for testing.
func setupTestDB(t *testing.T) (*bbolt.DB, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	}

	return db, cleanup
}
