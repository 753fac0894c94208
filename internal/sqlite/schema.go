package sqlite

// Schema DDL for the journal.
const (
	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    entry_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    greeting TEXT NOT NULL,
    text TEXT NOT NULL,
    length INTEGER NOT NULL,
    truncated INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	idxEntriesCreated = `CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);`
	idxEntriesName    = `CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);`
)

// schemaDDL lists every statement applied on Attach, in order.
var schemaDDL = []string{
	createEntries,
	idxEntriesCreated,
	idxEntriesName,
}
