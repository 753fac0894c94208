// This file provides JSONL export and import for the journal, with
// atomic writes.
package sqlite

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/hello/pkg/types"
)

// readJSONL returns the non-empty, well-formed lines of a JSONL file.
// Malformed lines are dropped. Lines have no length limit.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if line = bytes.TrimSpace(line); len(line) > 0 && json.Valid(line) {
			records = append(records, json.RawMessage(line))
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
}

// writeJSONL replaces path with one record per line. The data goes to a
// temp file in the same directory, which is synced and renamed over path.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		_, _ = w.Write(rec)
		_ = w.WriteByte('\n')
	}
	// bufio.Writer keeps the first write error and returns it here.
	if err = w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Export writes every entry, oldest first, to path as JSONL and returns
// the number written. The file is replaced atomically.
func (b *Backend) Export(path string) (int, error) {
	entries, err := b.List(0)
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		data, err := json.Marshal(entries[i])
		if err != nil {
			return 0, fmt.Errorf("marshal entry %s: %w", entries[i].EntryID, err)
		}
		records = append(records, data)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import reads JSONL entries from path and records them. Malformed lines
// and invalid entries are skipped; entries whose ID already exists are
// kept as they are. It returns the number of new entries.
func (b *Backend) Import(path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrJournalDetached
	}

	var before, after int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&before); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	for _, rec := range records {
		var e types.Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			continue
		}
		if e.Name == "" || e.Length < 0 {
			continue
		}
		if _, err := b.insertLocked(e, "INSERT OR IGNORE"); err != nil {
			return 0, err
		}
	}

	if err := b.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&after); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return after - before, nil
}
