package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/hello/pkg/types"
)

// Record stores e and returns its ID. An empty EntryID is replaced with a
// UUID v7 and a zero CreatedAt with the current time. Returns
// ErrInvalidEntry when Name is empty or Length is negative.
func (b *Backend) Record(e types.Entry) (string, error) {
	if e.Name == "" || e.Length < 0 {
		return "", types.ErrInvalidEntry
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrJournalDetached
	}

	return b.insertLocked(e, "INSERT")
}

// insertLocked fills in a missing ID and timestamp and writes e with the
// given verb ("INSERT" or "INSERT OR IGNORE"). The caller must hold b.mu.
func (b *Backend) insertLocked(e types.Entry, verb string) (string, error) {
	if e.EntryID == "" {
		e.EntryID = generateUUID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := b.db.Exec(
		verb+" INTO entries (entry_id, name, greeting, text, length, truncated, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.EntryID, e.Name, e.Greeting, e.Text, e.Length, boolToInt(e.Truncated), e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert entry %s: %w", e.EntryID, err)
	}
	return e.EntryID, nil
}

// List returns recorded entries, newest first. A limit <= 0 returns all.
func (b *Backend) List(limit int) ([]types.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrJournalDetached
	}

	query := "SELECT entry_id, name, greeting, text, length, truncated, created_at FROM entries ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var (
			e         types.Entry
			truncated int
			createdAt string
		)
		if err := rows.Scan(&e.EntryID, &e.Name, &e.Greeting, &e.Text, &e.Length, &truncated, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Truncated = truncated != 0
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for entry %s: %w", e.EntryID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded entries.
func (b *Backend) Count() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrJournalDetached
	}

	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Clear deletes every entry.
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrJournalDetached
	}

	if _, err := b.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
