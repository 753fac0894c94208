package hello

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func cstring(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}

func TestLibrary_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   string
	}{
		{name: "defaults", config: nil, want: "Hello, World!"},
		{name: "custom name and greeting", config: &Config{Name: Ptr("Carbide User"), Greeting: Ptr("Welcome")}, want: "Welcome, Carbide User!"},
		{name: "uppercase", config: &Config{Uppercase: Ptr(true)}, want: "HELLO, WORLD!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := New()
			h := lib.Create(tt.config)
			require.False(t, h.IsZero(), lib.LastError())
			defer lib.Destroy(h)

			buf := make([]byte, 128)
			n := lib.Greet(h, buf)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, cstring(buf))
			assert.False(t, lib.HasError())
		})
	}
}

func TestLibrary_DefaultLengthIs13(t *testing.T) {
	lib := New()
	h := lib.Create(nil)
	defer lib.Destroy(h)

	assert.Equal(t, 13, lib.Greet(h, make([]byte, 128)))
}

func TestLibrary_CreateEmptyNameFails(t *testing.T) {
	lib := New()
	h := lib.Create(&Config{Name: Ptr("")})

	assert.True(t, h.IsZero())
	assert.True(t, lib.HasError())
	assert.Contains(t, lib.LastError(), "name cannot be empty")
	assert.Equal(t, 0, lib.Len())
}

func TestLibrary_Truncation(t *testing.T) {
	lib := New()
	h := lib.Create(nil)
	defer lib.Destroy(h)

	buf := make([]byte, 5)
	n := lib.Greet(h, buf)

	assert.Equal(t, 13, n)
	assert.Equal(t, "Hell", cstring(buf))
	assert.True(t, lib.HasError())
	assert.Contains(t, lib.LastError(), "buffer too small")
}

func TestLibrary_HardFailures(t *testing.T) {
	lib := New()

	assert.Equal(t, -1, lib.Greet(Handle{}, make([]byte, 128)))
	assert.True(t, lib.HasError())
	assert.Contains(t, lib.LastError(), "greeter is nil")
	lib.ClearError()

	h := lib.Create(nil)
	defer lib.Destroy(h)
	assert.Equal(t, -1, lib.Greet(h, nil))
	assert.True(t, lib.HasError())
	assert.Contains(t, lib.LastError(), "invalid output buffer")
}

func TestLibrary_DestroyAbsentIsNoop(t *testing.T) {
	lib := New()
	assert.NotPanics(t, func() { lib.Destroy(Handle{}) })
	assert.False(t, lib.HasError())
}

func TestLibrary_UseAfterDestroy(t *testing.T) {
	lib := New()
	h := lib.Create(nil)
	lib.Destroy(h)
	lib.Destroy(h)

	_, ok := lib.GetName(h)
	assert.False(t, ok)
	assert.Contains(t, lib.LastError(), "greeter is destroyed")
	assert.Equal(t, -1, lib.Greet(h, make([]byte, 16)))
}

func TestLibrary_NameRoundTrip(t *testing.T) {
	lib := New()
	h := lib.Create(&Config{Name: Ptr("TestName")})
	defer lib.Destroy(h)

	name, ok := lib.GetName(h)
	require.True(t, ok)
	assert.Equal(t, "TestName", name)

	require.True(t, lib.SetName(h, "New Name"))
	name, _ = lib.GetName(h)
	assert.Equal(t, "New Name", name)

	assert.False(t, lib.SetName(h, ""))
	assert.True(t, lib.HasError())
	name, _ = lib.GetName(h)
	assert.Equal(t, "New Name", name)
}

func TestLibrary_GetNameAbsent(t *testing.T) {
	lib := New()
	name, ok := lib.GetName(Handle{})
	assert.False(t, ok)
	assert.Equal(t, "", name)
	assert.True(t, lib.HasError())
}

func TestLibrary_ErrorSurface(t *testing.T) {
	lib := New()
	lib.ClearError()
	assert.False(t, lib.HasError())
	assert.Equal(t, "", lib.LastError())

	lib.SetError("Test error %d", 42)
	assert.Equal(t, "Test error 42", lib.LastError())

	lib.ClearError()
	lib.ClearError()
	assert.False(t, lib.HasError())
}

func TestLibrary_ErrorsStayPerLibrary(t *testing.T) {
	var eg errgroup.Group
	for i := range 8 {
		eg.Go(func() error {
			lib := New()
			name := fmt.Sprintf("worker-%d", i)
			h := lib.Create(&Config{Name: Ptr(name)})
			defer lib.Destroy(h)

			if i%2 == 1 {
				lib.SetName(h, "")
				if !lib.HasError() {
					return fmt.Errorf("%s: expected error", name)
				}
				return nil
			}
			buf := make([]byte, 64)
			lib.Greet(h, buf)
			if lib.HasError() {
				return fmt.Errorf("%s: unexpected error %q", name, lib.LastError())
			}
			if got, want := cstring(buf), "Hello, "+name+"!"; got != want {
				return fmt.Errorf("got %q, want %q", got, want)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}

func TestGreeterSurface(t *testing.T) {
	ch := NewChannel()
	g, err := NewGreeter(ch, &Config{Name: Ptr("Gopher")})
	require.NoError(t, err)
	defer DestroyGreeter(g)

	assert.Equal(t, "Hello, Gopher!", g.String())
	assert.NotEmpty(t, Version())
}

func TestNewWithChannel_SharesRegisteredChannel(t *testing.T) {
	reg := NewRegistry()
	id, ch := reg.Acquire()

	lib := NewWithChannel(ch)
	h := lib.Create(&Config{Name: Ptr("")})
	assert.True(t, h.IsZero())

	// The failure is visible through the registry as well as the library.
	assert.Equal(t, lib.LastError(), reg.Get(id).LastError())
	assert.Contains(t, ch.LastError(), "name cannot be empty")

	reg.Release(id)
	assert.Equal(t, 0, reg.Len())
}

func TestNewWithChannel_Nil(t *testing.T) {
	lib := NewWithChannel(nil)
	assert.False(t, lib.HasError())
	assert.False(t, lib.Create(nil).IsZero())
}
