package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hello/pkg/hello"
)

const modulePath = "github.com/mesh-intelligence/hello"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hello version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hello v%s\nmodule: %s\n", hello.Version(), modulePath)
			return nil
		},
	}
}
