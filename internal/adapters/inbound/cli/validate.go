package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/solution"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/tui"
	"github.com/openkraft/kraftgate/internal/application"
	"github.com/openkraft/kraftgate/internal/domain"
)

const noWorktreeChanges = "No uncommitted changes in working tree; nothing to validate."

type validateOptions struct {
	path       string
	rev        string
	agent      string
	fromGit    bool
	jsonOutput bool
	ciMode     bool
	minScore   int
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate [solution-file...]",
		Short: "Validate proposed solutions against the quality gate",
		Long: "Score one or more solution files (JSON or YAML) against the workspace.\n" +
			"With --from-git the uncommitted working tree is validated as a solution.",
		Args: func(cmd *cobra.Command, args []string) error {
			if !opts.fromGit && len(args) == 0 {
				return fmt.Errorf("specify at least one solution file or use --from-git")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(opts.path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			ctrl, err := newGate(root, opts.rev, loggerFor(cmd))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min") {
				ctrl.SetMinAcceptableScore(opts.minScore)
			}

			reports, err := runValidate(cmd, ctrl, root, args, opts)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				if err := renderReportsJSON(cmd, reports); err != nil {
					return err
				}
			} else {
				for _, report := range reports {
					fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
				}
			}

			if opts.ciMode {
				for _, report := range reports {
					if !report.Passed {
						return fmt.Errorf("solution %s score %d is below threshold %d", report.SolutionID, report.Score, report.Threshold)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", ".", "Workspace root the solutions apply to")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.ciMode, "ci", false, "CI mode: exit 1 if any solution fails the gate")
	cmd.Flags().IntVar(&opts.minScore, "min", 0, "Override the acceptance threshold (clamped to 0-100)")
	cmd.Flags().StringVar(&opts.rev, "rev", "", "Read file contents from a git revision instead of the working tree")
	cmd.Flags().BoolVar(&opts.fromGit, "from-git", false, "Validate uncommitted working tree changes")
	cmd.Flags().StringVar(&opts.agent, "agent", "git", "Agent name recorded for --from-git solutions")

	return cmd
}

// runValidate validates every solution concurrently and returns the reports
// in input order: the working tree solution first, then files as given. A
// clean working tree contributes no report.
func runValidate(
	cmd *cobra.Command,
	ctrl *application.QualityController,
	root string,
	files []string,
	opts validateOptions,
) ([]*domain.Report, error) {
	var sols []domain.Solution
	if opts.fromGit {
		sol, err := gitinfo.New().WorktreeSolution(root, opts.agent)
		if err != nil {
			return nil, fmt.Errorf("reading working tree: %w", err)
		}
		if len(sol.Changes) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), noWorktreeChanges)
		} else {
			sols = append(sols, sol)
		}
	}
	offset := len(sols)

	reports := make([]*domain.Report, offset+len(files))
	g, ctx := errgroup.WithContext(cmd.Context())

	for i, sol := range sols {
		g.Go(func() error {
			report, err := ctrl.ValidateSolution(ctx, sol)
			if err != nil {
				return fmt.Errorf("working tree: %w", err)
			}
			reports[i] = report
			return nil
		})
	}
	for i, file := range files {
		g.Go(func() error {
			sol, err := solution.LoadFile(file)
			if err != nil {
				return err
			}
			report, err := ctrl.ValidateSolution(ctx, sol)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			reports[offset+i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func renderReportsJSON(cmd *cobra.Command, reports []*domain.Report) error {
	if len(reports) == 0 {
		return writeJSON(cmd.OutOrStdout(), []*domain.Report{})
	}
	if len(reports) == 1 {
		return writeJSON(cmd.OutOrStdout(), reports[0])
	}
	return writeJSON(cmd.OutOrStdout(), reports)
}
