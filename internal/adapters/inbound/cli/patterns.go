package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/tui"
	"github.com/openkraft/kraftgate/internal/domain/patterns"
)

func newPatternsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the rule patterns the gate evaluates",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := patterns.Default()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), lib)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPatterns(lib))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
