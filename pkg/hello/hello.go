// Package hello is the public API of the greeter library.
//
// Two surfaces are offered. The Go surface works on *Greeter values and
// returns errors:
//
//	ch := hello.NewChannel()
//	g, err := hello.NewGreeter(ch, &hello.Config{Name: hello.Ptr("Gopher")})
//	if err != nil {
//	    return err
//	}
//	defer hello.DestroyGreeter(g)
//	fmt.Println(g)
//
// The handle surface mirrors the C library: a Library owns an error
// channel and a table of greeters addressed by Handle, operations report
// failure through sentinel return values, and the reason is read back
// with LastError.
//
//	lib := hello.New()
//	h := lib.Create(nil)
//	buf := make([]byte, 64)
//	if lib.Greet(h, buf) < 0 {
//	    log.Println(lib.LastError())
//	}
//	lib.Destroy(h)
package hello

import (
	"errors"

	"github.com/mesh-intelligence/hello/internal/arena"
	"github.com/mesh-intelligence/hello/internal/errchan"
	"github.com/mesh-intelligence/hello/internal/greeter"
	"github.com/mesh-intelligence/hello/pkg/types"
)

// Re-exported types.
type (
	Config   = types.Config
	Settings = types.Settings
	Greeter  = greeter.Greeter
	Channel  = errchan.Channel
	Registry = errchan.Registry
	Handle   = arena.Handle
)

// Ptr returns a pointer to v, for Config literals.
func Ptr[T any](v T) *T {
	return types.Ptr(v)
}

// Version returns the library version.
func Version() string {
	return types.Version
}

// NewChannel returns an empty error channel.
func NewChannel() *Channel {
	return errchan.New()
}

// NewRegistry returns an empty channel registry for handing one channel
// to each worker goroutine.
func NewRegistry() *Registry {
	return errchan.NewRegistry()
}

// NewGreeter creates a greeter that reports failures on ch.
func NewGreeter(ch *Channel, cfg *Config) (*Greeter, error) {
	return greeter.New(ch, cfg)
}

// DestroyGreeter releases g. It is a no-op for nil or destroyed greeters.
func DestroyGreeter(g *Greeter) {
	greeter.Destroy(g)
}

// Library is the handle-based surface. A Library owns one error channel
// and must be used from one goroutine at a time; give each goroutine its
// own Library to keep their errors apart.
type Library struct {
	ch    *errchan.Channel
	table *arena.Table
}

// New returns a Library with an empty error channel and no greeters.
func New() *Library {
	return NewWithChannel(errchan.New())
}

// NewWithChannel returns a Library that reports on ch, for example a
// channel acquired from a Registry. A nil ch gets a fresh channel.
func NewWithChannel(ch *Channel) *Library {
	if ch == nil {
		ch = errchan.New()
	}
	return &Library{
		ch:    ch,
		table: arena.NewTable(),
	}
}

// Create builds a greeter from cfg (nil selects defaults) and returns its
// handle. On failure it returns the zero Handle and sets the error.
func (l *Library) Create(cfg *Config) Handle {
	g, err := greeter.New(l.ch, cfg)
	if err != nil {
		return Handle{}
	}
	return l.table.Insert(g)
}

// Destroy releases the greeter behind h. Absent and stale handles are
// ignored.
func (l *Library) Destroy(h Handle) {
	if g, ok := l.table.Remove(h); ok {
		greeter.Destroy(g)
	}
}

// Greet renders the greeting for h into buf. It returns the full length
// of the rendering, which exceeds len(buf)-1 when the output was
// truncated (the error is set in that case too), or -1 on a hard failure.
func (l *Library) Greet(h Handle, buf []byte) int {
	g, err := l.resolve(h, "greet")
	if err != nil {
		return -1
	}
	n, _ := g.Greet(buf)
	return n
}

// GetName returns the name of the greeter behind h. The boolean is false
// and the error is set when h is absent or stale.
func (l *Library) GetName(h Handle) (string, bool) {
	g, err := l.resolve(h, "get_name")
	if err != nil {
		return "", false
	}
	name, err := g.Name()
	return name, err == nil
}

// SetName renames the greeter behind h. On failure the name is kept,
// the error is set and false is returned.
func (l *Library) SetName(h Handle, name string) bool {
	g, err := l.resolve(h, "set_name")
	if err != nil {
		return false
	}
	ok, _ := g.SetName(name)
	return ok
}

// Len returns the number of live greeters.
func (l *Library) Len() int {
	return l.table.Len()
}

// SetError records a formatted error on the library's channel.
func (l *Library) SetError(format string, args ...any) {
	l.ch.SetError(format, args...)
}

// LastError returns the pending error message, or "".
func (l *Library) LastError() string {
	return l.ch.LastError()
}

// HasError reports whether an error is pending.
func (l *Library) HasError() bool {
	return l.ch.HasError()
}

// ClearError resets the error channel.
func (l *Library) ClearError() {
	l.ch.ClearError()
}

// resolve maps h to its greeter, recording the failure on the channel.
func (l *Library) resolve(h Handle, op string) (*greeter.Greeter, error) {
	g, err := l.table.Get(h)
	switch {
	case err == nil:
		return g, nil
	case errors.Is(err, types.ErrNilHandle):
		return nil, l.ch.Record(types.Errorf(types.KindInvalidArgument, op, "%w", types.ErrNilGreeter))
	default:
		return nil, l.ch.Record(types.Errorf(types.KindUseAfterDestroy, op, "%w", err))
	}
}
