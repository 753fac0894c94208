package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hello/internal/sqlite"
	"github.com/mesh-intelligence/hello/internal/ui"
	"github.com/mesh-intelligence/hello/pkg/types"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit      int
		clearAll   bool
		exportPath string
		importPath string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, export, import or clear greetings stored with greet --record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			journal := sqlite.NewBackend()
			if err := journal.Attach(s.dataDir); err != nil {
				return sysError("attach journal: %w", err)
			}
			defer journal.Detach()

			out := cmd.OutOrStdout()
			if importPath != "" {
				n, err := journal.Import(importPath)
				if err != nil {
					return userError("import %s: %w", importPath, err)
				}
				fmt.Fprintln(out, ui.SuccessLine(fmt.Sprintf("Imported %d entries", n)))
				return nil
			}
			if exportPath != "" {
				n, err := journal.Export(exportPath)
				if err != nil {
					return sysError("export %s: %w", exportPath, err)
				}
				fmt.Fprintln(out, ui.SuccessLine(fmt.Sprintf("Exported %d entries to %s", n, exportPath)))
				return nil
			}
			if clearAll {
				if err := journal.Clear(); err != nil {
					return sysError("clear journal: %w", err)
				}
				fmt.Fprintln(out, ui.SuccessLine("Journal cleared"))
				return nil
			}

			entries, err := journal.List(limit)
			if err != nil {
				return sysError("list journal: %w", err)
			}
			return printHistory(cmd, entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every journal entry")
	cmd.Flags().StringVar(&exportPath, "export", "", "write every entry to a JSONL file")
	cmd.Flags().StringVar(&importPath, "import", "", "record the entries of a JSONL file")
	cmd.MarkFlagsMutuallyExclusive("clear", "export", "import")
	return cmd
}

func printHistory(cmd *cobra.Command, entries []types.Entry) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		if entries == nil {
			entries = []types.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, ui.InfoLine("No greetings recorded"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tLENGTH\tTEXT")
	for _, e := range entries {
		text := e.Text
		if e.Truncated {
			text += " (truncated)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Length, text)
	}
	return w.Flush()
}
