package errchan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/hello/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestChannel_InitiallyClear(t *testing.T) {
	ch := New()
	assert.False(t, ch.HasError())
	assert.Equal(t, "", ch.LastError())
}

func TestChannel_SetAndGet(t *testing.T) {
	ch := New()
	ch.SetError("Test error %d", 42)

	assert.True(t, ch.HasError())
	assert.Equal(t, "Test error 42", ch.LastError())
}

func TestChannel_SetOverwrites(t *testing.T) {
	ch := New()
	ch.SetError("first")
	ch.SetError("second")

	assert.Equal(t, "second", ch.LastError())
}

func TestChannel_LastErrorDoesNotClear(t *testing.T) {
	ch := New()
	ch.SetError("sticky")

	_ = ch.LastError()
	assert.True(t, ch.HasError())
	assert.Equal(t, "sticky", ch.LastError())
}

func TestChannel_ClearIdempotent(t *testing.T) {
	ch := New()
	ch.SetError("Some error")
	require.True(t, ch.HasError())

	ch.ClearError()
	assert.False(t, ch.HasError())
	assert.Equal(t, "", ch.LastError())

	ch.ClearError()
	assert.False(t, ch.HasError())
	assert.Equal(t, "", ch.LastError())
}

func TestChannel_TruncatesLongMessages(t *testing.T) {
	ch := New()
	ch.SetError("%s", strings.Repeat("x", 4*types.ErrorBufferSize))

	assert.True(t, ch.HasError())
	assert.Len(t, ch.LastError(), types.ErrorBufferSize-1)
}

func TestChannel_TruncateKeepsRunesWhole(t *testing.T) {
	// Each rune is three bytes; the cut must land on a rune boundary.
	ch := New()
	ch.SetError("%s", strings.Repeat("界", types.ErrorBufferSize))

	msg := ch.LastError()
	assert.LessOrEqual(t, len(msg), types.ErrorBufferSize-1)
	assert.Equal(t, 0, len(msg)%3)
	assert.True(t, strings.HasPrefix(strings.Repeat("界", types.ErrorBufferSize), msg))
}

func TestChannel_Record(t *testing.T) {
	ch := New()

	assert.NoError(t, ch.Record(nil))
	assert.False(t, ch.HasError())

	err := errors.New("boom")
	assert.Same(t, err, ch.Record(err))
	assert.Equal(t, "boom", ch.LastError())
}

func TestChannel_NilReceiver(t *testing.T) {
	var ch *Channel

	ch.SetError("ignored")
	ch.ClearError()
	assert.False(t, ch.HasError())
	assert.Equal(t, "", ch.LastError())
}
