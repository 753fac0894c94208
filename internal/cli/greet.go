package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hello/internal/sqlite"
	"github.com/mesh-intelligence/hello/internal/ui"
	"github.com/mesh-intelligence/hello/pkg/hello"
	"github.com/mesh-intelligence/hello/pkg/types"
)

const defaultBufferSize = 128

type greetOptions struct {
	greeter    greeterFlags
	bufferSize int
	record     bool
}

func newGreetCmd() *cobra.Command {
	opts := &greetOptions{}
	cmd := &cobra.Command{
		Use:   "greet [name]",
		Short: "Render a greeting into a bounded buffer",
		Long: `Render "<greeting>, <name>!" into a buffer of --buffer-size bytes.

Values come from config.yaml and HELLO_* environment variables, then from
flags. A buffer too small for the greeting prints the truncated text and a
warning; a zero-sized buffer or an invalid name is an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGreet(cmd, args, opts)
		},
	}
	opts.greeter.register(cmd)
	cmd.Flags().IntVar(&opts.bufferSize, "buffer-size", defaultBufferSize, "output buffer capacity in bytes, terminator included")
	cmd.Flags().BoolVar(&opts.record, "record", false, "store the rendered greeting in the journal")
	return cmd
}

func runGreet(cmd *cobra.Command, args []string, opts *greetOptions) error {
	if opts.bufferSize < 0 {
		return userError("buffer size must not be negative: %d", opts.bufferSize)
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}

	cfg := s.greeter.Merge(opts.greeter.overrides(cmd))
	if len(args) == 1 {
		cfg.Name = types.Ptr(args[0])
	}

	lib := hello.New()
	h := lib.Create(cfg)
	if h.IsZero() {
		return userError("%s", lib.LastError())
	}
	defer lib.Destroy(h)

	buf := make([]byte, opts.bufferSize)
	n := lib.Greet(h, buf)
	if n < 0 {
		return userError("%s", lib.LastError())
	}

	name, _ := lib.GetName(h)
	entry := types.Entry{
		Name:      name,
		Greeting:  cfg.WithDefaults().Greeting,
		Text:      cstring(buf),
		Length:    n,
		Truncated: n >= len(buf),
		CreatedAt: time.Now().UTC(),
	}

	if entry.Truncated {
		logger.Warn("Greeting truncated",
			zap.Int("length", n),
			zap.Int("buffer_size", len(buf)),
			zap.String("reason", lib.LastError()))
	}

	if opts.record {
		id, err := recordEntry(s.dataDir, entry)
		if err != nil {
			return err
		}
		entry.EntryID = id
	}

	return printEntry(cmd, entry, lib.LastError())
}

// recordEntry stores e in the journal under dataDir.
func recordEntry(dataDir string, e types.Entry) (string, error) {
	journal := sqlite.NewBackend()
	if err := journal.Attach(dataDir); err != nil {
		return "", sysError("attach journal: %w", err)
	}
	defer journal.Detach()

	id, err := journal.Record(e)
	if err != nil {
		return "", sysError("record greeting: %w", err)
	}
	logger.Debug("Recorded greeting", zap.String("entry_id", id))
	return id, nil
}

func printEntry(cmd *cobra.Command, e types.Entry, warning string) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	}

	fmt.Fprintln(out, e.Text)
	if e.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.WarningLine(fmt.Sprintf("truncated to %d of %d bytes: %s", len(e.Text), e.Length, warning)))
	}
	return nil
}

// cstring returns buf up to its first 0 byte.
func cstring(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
