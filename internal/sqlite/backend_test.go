// Tests for the SQLite journal backend.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/hello/pkg/types"
)

func attachTemp(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	if err := b.Attach(dir); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	b, dir := attachTemp(t)

	// Verify database file created
	if _, err := os.Stat(filepath.Join(dir, DBFileName)); os.IsNotExist(err) {
		t.Error("journal.db not created")
	}

	// Verify double attach fails
	if err := b.Attach(dir); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
	if got := b.DataDir(); got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(t.TempDir()); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	if _, err := b.Record(types.Entry{Name: "World", Text: "Hello, World!", Length: 13}); err != types.ErrJournalDetached {
		t.Errorf("Record: expected ErrJournalDetached, got %v", err)
	}
	if _, err := b.List(0); err != types.ErrJournalDetached {
		t.Errorf("List: expected ErrJournalDetached, got %v", err)
	}
	if err := b.Clear(); err != types.ErrJournalDetached {
		t.Errorf("Clear: expected ErrJournalDetached, got %v", err)
	}
}

func TestBackend_RecordAndList(t *testing.T) {
	b, _ := attachTemp(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []types.Entry{
		{Name: "World", Greeting: "Hello", Text: "Hello, World!", Length: 13, CreatedAt: base},
		{Name: "World", Greeting: "Hello", Text: "Hell", Length: 13, Truncated: true, CreatedAt: base.Add(time.Minute)},
		{Name: "Carbide User", Greeting: "Welcome", Text: "Welcome, Carbide User!", Length: 22, CreatedAt: base.Add(2 * time.Minute)},
	}

	var ids []string
	for _, e := range entries {
		id, err := b.Record(e)
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if id == "" {
			t.Fatal("Record should return generated ID")
		}
		ids = append(ids, id)
	}

	got, err := b.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].EntryID != ids[2] || got[2].EntryID != ids[0] {
		t.Errorf("entries not newest first: %v", got)
	}
	if !got[1].Truncated || got[1].Text != "Hell" || got[1].Length != 13 {
		t.Errorf("truncated entry not round-tripped: %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", got[0].CreatedAt)
	}

	limited, err := b.List(2)
	if err != nil {
		t.Fatalf("List(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries, got %d", len(limited))
	}
}

func TestBackend_RecordKeepsGivenID(t *testing.T) {
	b, _ := attachTemp(t)

	id, err := b.Record(types.Entry{EntryID: "fixed-id", Name: "World", Text: "Hello, World!", Length: 13})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("expected fixed-id, got %q", id)
	}
}

func TestBackend_RecordInvalid(t *testing.T) {
	b, _ := attachTemp(t)

	tests := []struct {
		name  string
		entry types.Entry
	}{
		{name: "empty name", entry: types.Entry{Text: "Hello, !", Length: 8}},
		{name: "negative length", entry: types.Entry{Name: "World", Length: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Record(tt.entry); err != types.ErrInvalidEntry {
				t.Errorf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestBackend_Clear(t *testing.T) {
	b, _ := attachTemp(t)

	for range 3 {
		if _, err := b.Record(types.Entry{Name: "World", Text: "Hello, World!", Length: 13}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if n, _ := b.Count(); n != 3 {
		t.Fatalf("Count() = %d, want 3", n)
	}

	if err := b.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n, _ := b.Count(); n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	if err := b.Attach(dir); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if _, err := b.Record(types.Entry{Name: "World", Text: "Hello, World!", Length: 13}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	b2 := NewBackend()
	if err := b2.Attach(dir); err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	defer b2.Detach()

	n, err := b2.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry after reattach, got %d", n)
	}
}
