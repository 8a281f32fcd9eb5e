package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/openkraft/kraftgate/internal/adapters/outbound/solution"
	"github.com/openkraft/kraftgate/internal/adapters/outbound/tui"
)

const watchDebounce = 300 * time.Millisecond

// Directories never watched: VCS metadata and installed dependencies.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

func newWatchCmd() *cobra.Command {
	var (
		path       string
		jsonOutput bool
		minScore   int
	)

	cmd := &cobra.Command{
		Use:   "watch <solution-file>",
		Short: "Re-validate a solution whenever it or the workspace changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			solFile, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving solution file: %w", err)
			}
			logger := loggerFor(cmd)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("watch init failed: %w", err)
			}
			defer watcher.Close()

			if err := addWatchRecursive(watcher, root); err != nil {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			if dir := filepath.Dir(solFile); !isWithin(root, dir) {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}
			}

			out := cmd.OutOrStdout()
			runner := &serialRunner{fn: func() {
				var override *int
				if cmd.Flags().Changed("min") {
					override = &minScore
				}
				if err := validateOnce(cmd.Context(), out, root, solFile, override, jsonOutput, logger); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %v\n", err)
				}
			}}
			defer runner.close()

			runner.run()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchLoop(ctx, watcher, watchDebounce, runner.run, logger)
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Workspace root the solution applies to")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&minScore, "min", 0, "Override the acceptance threshold (clamped to 0-100)")

	return cmd
}

// serialRunner runs fn one call at a time. After close returns, fn is never
// running and never runs again, so late debounce timers cannot write output.
type serialRunner struct {
	mu     sync.Mutex
	closed bool
	fn     func()
}

func (r *serialRunner) run() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.fn()
}

// close waits for an in-flight run to finish.
func (r *serialRunner) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// validateOnce reloads config and solution so that edits to either take
// effect on the next run.
func validateOnce(ctx context.Context, out io.Writer, root, solFile string, minScore *int, jsonOutput bool, logger *slog.Logger) error {
	ctrl, err := newGate(root, "", logger)
	if err != nil {
		return err
	}
	if minScore != nil {
		ctrl.SetMinAcceptableScore(*minScore)
	}
	sol, err := solution.LoadFile(solFile)
	if err != nil {
		return err
	}
	report, err := ctrl.ValidateSolution(ctx, sol)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, report)
	}
	_, err = fmt.Fprint(out, tui.RenderReport(report))
	return err
}

// watchLoop calls trigger once events settle for debounce. It returns when
// ctx is done or the watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, trigger func(), logger *slog.Logger) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isSkipped(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatchRecursive(w, ev.Name); err != nil {
						logger.Warn("watching new directory", "path", ev.Name, "error", err)
					}
				}
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isWithin reports whether dir is root or lies below it.
func isWithin(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isSkipped(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}
