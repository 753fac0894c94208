package types

import (
	"errors"
	"time"
)

// Entry is one rendered greeting stored in the journal.
type Entry struct {
	EntryID   string    `json:"entry_id"`   // UUID v7, generated on record.
	Name      string    `json:"name"`       // Name at render time.
	Greeting  string    `json:"greeting"`   // Greeting template at render time.
	Text      string    `json:"text"`       // Text written to the buffer, terminator excluded.
	Length    int       `json:"length"`     // Full untruncated length.
	Truncated bool      `json:"truncated"`  // Whether Text is shorter than Length.
	CreatedAt time.Time `json:"created_at"` // Timestamp of the render.
}

// Journal lifecycle errors.
var (
	ErrJournalDetached = errors.New("journal is detached")
	ErrAlreadyAttached = errors.New("journal is already attached")
	ErrInvalidEntry    = errors.New("invalid journal entry")
)
