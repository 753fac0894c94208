package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/hello/internal/ui"
	"github.com/mesh-intelligence/hello/pkg/hello"
	"github.com/mesh-intelligence/hello/pkg/types"
)

func newDemoCmd() *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through the greeter library",
		Long: `Run the library walkthrough: default, custom and uppercase greeters,
renaming, and error handling. With --parallel N, also run N workers that
each own a library and check that their errors stay apart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := runDemo(out); err != nil {
				return err
			}
			if parallel > 0 {
				return runParallelDemo(cmd.Context(), out, parallel)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 0, "number of concurrent workers to run after the walkthrough")
	return cmd
}

// demoStep is one section of the walkthrough.
type demoStep struct {
	title string
	run   func(lib *hello.Library, out io.Writer) error
}

var demoSteps = []demoStep{
	{title: "Example 1: Default greeter", run: demoGreet(nil)},
	{title: "Example 2: Custom greeter", run: demoGreet(&types.Config{
		Name:     types.Ptr("Carbide User"),
		Greeting: types.Ptr("Welcome"),
	})},
	{title: "Example 3: Uppercase greeter", run: demoGreet(&types.Config{Uppercase: types.Ptr(true)})},
	{title: "Example 4: Changing name", run: demoRename},
	{title: "Example 5: Error handling", run: demoErrors},
}

func runDemo(out io.Writer) error {
	fmt.Fprintln(out, ui.Title(fmt.Sprintf("Hello Library v%s", hello.Version())))

	lib := hello.New()
	for _, step := range demoSteps {
		fmt.Fprintf(out, "\n%s\n", step.title)
		if err := step.run(lib, out); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.SuccessLine("All examples completed successfully!"))
	return nil
}

func demoGreet(cfg *types.Config) func(*hello.Library, io.Writer) error {
	return func(lib *hello.Library, out io.Writer) error {
		h := lib.Create(cfg)
		if h.IsZero() {
			return sysError("create greeter: %s", lib.LastError())
		}
		defer lib.Destroy(h)

		buf := make([]byte, defaultBufferSize)
		if lib.Greet(h, buf) >= 0 {
			fmt.Fprintf(out, "  %s\n", cstring(buf))
		}
		return nil
	}
}

func demoRename(lib *hello.Library, out io.Writer) error {
	h := lib.Create(nil)
	if h.IsZero() {
		return sysError("create greeter: %s", lib.LastError())
	}
	defer lib.Destroy(h)

	buf := make([]byte, defaultBufferSize)

	name, _ := lib.GetName(h)
	fmt.Fprintf(out, "  Before: name = %q\n", name)
	lib.Greet(h, buf)
	fmt.Fprintf(out, "  Greeting: %s\n", cstring(buf))

	if lib.SetName(h, "New Name") {
		name, _ = lib.GetName(h)
		fmt.Fprintf(out, "  After: name = %q\n", name)
		lib.Greet(h, buf)
		fmt.Fprintf(out, "  Greeting: %s\n", cstring(buf))
	}
	return nil
}

func demoErrors(lib *hello.Library, out io.Writer) error {
	h := lib.Create(&types.Config{Name: types.Ptr("")})
	if !h.IsZero() {
		lib.Destroy(h)
		return sysError("empty name was accepted")
	}
	fmt.Fprintf(out, "  Expected error: %s\n", lib.LastError())
	lib.ClearError()

	h = lib.Create(nil)
	defer lib.Destroy(h)
	small := make([]byte, 5)
	n := lib.Greet(h, small)
	fmt.Fprintf(out, "  Truncated: %q (needs %d bytes)\n", cstring(small), n)
	fmt.Fprintf(out, "  Reported: %s\n", lib.LastError())
	lib.ClearError()
	return nil
}

// runParallelDemo runs workers concurrently, each with a channel acquired
// from a shared registry. Odd workers trigger an error on their own
// library; even workers must never observe one.
func runParallelDemo(ctx context.Context, out io.Writer, workers int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Fprintf(out, "\nParallel: %d workers\n", workers)

	reg := hello.NewRegistry()
	results := make([]string, workers)
	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id, ch := reg.Acquire()
			defer reg.Release(id)
			logger.Debug("Worker started", zap.Int("worker", i), zap.String("channel", id))

			lib := hello.NewWithChannel(ch)
			name := fmt.Sprintf("Worker %d", i)
			h := lib.Create(&types.Config{Name: types.Ptr(name)})
			if h.IsZero() {
				return fmt.Errorf("worker %d: %s", i, lib.LastError())
			}
			defer lib.Destroy(h)

			if i%2 == 1 {
				lib.SetName(h, "")
				if !lib.HasError() {
					return fmt.Errorf("worker %d: invalid rename not reported", i)
				}
			}

			buf := make([]byte, defaultBufferSize)
			lib.Greet(h, buf)
			if i%2 == 0 && lib.HasError() {
				return fmt.Errorf("worker %d: saw foreign error %q", i, lib.LastError())
			}
			results[i] = cstring(buf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Parallel demo failed", zap.Error(err))
		return sysError("parallel demo: %w", err)
	}

	if n := reg.Len(); n != 0 {
		return sysError("parallel demo: %d channels not released", n)
	}

	for _, r := range results {
		fmt.Fprintf(out, "  %s\n", r)
	}
	fmt.Fprintln(out, ui.SuccessLine(fmt.Sprintf("%d workers kept their errors apart", workers)))
	return nil
}
