// Package errchan provides the last-error channel used by the greeter.
//
// A Channel plays the role of the C library's thread-local error buffer.
// Goroutines have no identity, so the channel is an explicit value owned
// by one goroutine and passed to the operations that report into it.
// Registry hands out channels keyed by worker identity for callers that
// prefer a lookup over passing the value around.
package errchan

import (
	"fmt"
	"unicode/utf8"

	"github.com/mesh-intelligence/hello/pkg/types"
)

// Channel holds the most recent error message and whether it is pending.
// The zero value is an empty, usable channel. A Channel is not safe for
// concurrent use; each goroutine owns its own.
type Channel struct {
	message string
	set     bool
}

// New returns an empty channel.
func New() *Channel {
	return &Channel{}
}

// SetError formats the message into the channel, replacing any unread
// error. Messages longer than the buffer capacity are truncated.
func (c *Channel) SetError(format string, args ...any) {
	if c == nil {
		return
	}
	c.message = truncate(fmt.Sprintf(format, args...), types.ErrorBufferSize-1)
	c.set = true
}

// Record stores err's message when err is non-nil. It returns err so a
// caller can report and return in one statement.
func (c *Channel) Record(err error) error {
	if err != nil {
		c.SetError("%s", err.Error())
	}
	return err
}

// LastError returns the pending message, or "" when none is set.
func (c *Channel) LastError() string {
	if c == nil || !c.set {
		return ""
	}
	return c.message
}

// HasError reports whether an error is pending.
func (c *Channel) HasError() bool {
	return c != nil && c.set
}

// ClearError resets the channel. Clearing an empty channel is a no-op.
func (c *Channel) ClearError() {
	if c == nil {
		return
	}
	c.set = false
	c.message = ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
