// Package greeter implements the Greeter object: a name and greeting
// template rendered into a caller-supplied buffer with bounded-write
// semantics. Failures are returned as *types.Error and also recorded on
// the error channel the greeter was created with.
//
// A nil *Greeter has no channel, so its failures (ErrNilGreeter) are only
// returned. Callers of this surface must check the returned error; the
// handle-based hello.Library records the absent-greeter case on its
// channel instead.
package greeter

import (
	"strings"

	"github.com/mesh-intelligence/hello/internal/errchan"
	"github.com/mesh-intelligence/hello/pkg/types"
)

// Operation names used in *types.Error.
const (
	opCreate  = "create"
	opGreet   = "greet"
	opGetName = "get_name"
	opSetName = "set_name"
)

// Greeter owns copies of its name and greeting. It has no internal
// locking; one goroutine owns it at a time.
type Greeter struct {
	name      string
	greeting  string
	uppercase bool
	destroyed bool
	ch        *errchan.Channel
}

// New creates a Greeter from cfg, applying defaults for nil fields or a
// nil cfg. On a validation failure it returns nil and records the reason
// on ch. On success ch is left untouched. ch may be nil, in which case
// nothing is recorded.
func New(ch *errchan.Channel, cfg *types.Config) (*Greeter, error) {
	s := cfg.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, report(ch, types.Errorf(types.KindInvalidArgument, opCreate, "%w", err))
	}

	return &Greeter{
		name:      strings.Clone(s.Name),
		greeting:  strings.Clone(s.Greeting),
		uppercase: s.Uppercase,
		ch:        ch,
	}, nil
}

// Destroy releases g. Destroying a nil or already destroyed greeter is a
// no-op. Every later operation on g fails with KindUseAfterDestroy.
func Destroy(g *Greeter) {
	if g == nil || g.destroyed {
		return
	}
	g.name = ""
	g.greeting = ""
	g.destroyed = true
}

// Greet renders "<greeting>, <name>!" into buf and returns the length of
// the full rendering, excluding the terminator.
//
// At most len(buf)-1 bytes are copied, followed by a 0 byte. When the
// rendering does not fit, buf holds a terminated prefix, the full length
// is still returned, and the error has KindTruncation. A nil greeter, a
// destroyed greeter, or an empty buf is a hard failure: it returns -1 and
// buf is not written.
func (g *Greeter) Greet(buf []byte) (int, error) {
	if err := g.check(opGreet); err != nil {
		return -1, err
	}
	if len(buf) == 0 {
		return -1, g.fail(types.Errorf(types.KindInvalidArgument, opGreet, "%w", types.ErrInvalidBuffer))
	}

	text := g.render()
	n := copy(buf[:len(buf)-1], text)
	buf[n] = 0
	if g.uppercase {
		upperASCII(buf[:n])
	}

	if len(text) >= len(buf) {
		return len(text), g.fail(types.Errorf(types.KindTruncation, opGreet,
			"%w (need %d, have %d)", types.ErrBufferTooSmall, len(text)+1, len(buf)))
	}
	return len(text), nil
}

// String returns the full rendering, or "" for a nil or destroyed
// greeter. It never reports to the error channel.
func (g *Greeter) String() string {
	if g == nil || g.destroyed {
		return ""
	}
	text := []byte(g.render())
	if g.uppercase {
		upperASCII(text)
	}
	return string(text)
}

// Name returns the current name.
func (g *Greeter) Name() (string, error) {
	if err := g.check(opGetName); err != nil {
		return "", err
	}
	return g.name, nil
}

// SetName replaces the name after validating it exactly as New does. On
// failure the existing name is kept.
func (g *Greeter) SetName(name string) (bool, error) {
	if err := g.check(opSetName); err != nil {
		return false, err
	}
	if err := types.ValidateName(name); err != nil {
		return false, g.fail(types.Errorf(types.KindInvalidArgument, opSetName, "%w", err))
	}
	g.name = strings.Clone(name)
	return true, nil
}

// Greeting returns the greeting template, or "" for a nil or destroyed
// greeter.
func (g *Greeter) Greeting() string {
	if g == nil || g.destroyed {
		return ""
	}
	return g.greeting
}

// Uppercase reports whether renderings are upper-cased.
func (g *Greeter) Uppercase() bool {
	return g != nil && g.uppercase
}

// Destroyed reports whether Destroy has been called on g.
func (g *Greeter) Destroyed() bool {
	return g != nil && g.destroyed
}

// Settings returns the resolved settings of a live greeter.
func (g *Greeter) Settings() types.Settings {
	if g == nil || g.destroyed {
		return types.Settings{}
	}
	return types.Settings{Name: g.name, Greeting: g.greeting, Uppercase: g.uppercase}
}

func (g *Greeter) render() string {
	return g.greeting + ", " + g.name + "!"
}

// check rejects nil and destroyed receivers. A nil greeter has no
// channel of its own, so that failure is only returned.
func (g *Greeter) check(op string) error {
	if g == nil {
		return types.Errorf(types.KindInvalidArgument, op, "%w", types.ErrNilGreeter)
	}
	if g.destroyed {
		return g.fail(types.Errorf(types.KindUseAfterDestroy, op, "%w", types.ErrUseAfterDestroy))
	}
	return nil
}

func (g *Greeter) fail(err *types.Error) error {
	return report(g.ch, err)
}

func report(ch *errchan.Channel, err *types.Error) error {
	ch.SetError("%s", err.Error())
	return err
}

func upperASCII(b []byte) {
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
}
