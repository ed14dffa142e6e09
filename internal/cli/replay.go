package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/msgstore/internal/store"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay event log and verify determinism",
		Long: `Rebuild state from the notification log and compare it with the
materialized slots and length.

Exit codes:
  0 - Replayed state matches
  1 - Replayed state differs
  2 - Command error (database not found, inconsistent log, etc.)

Examples:
  msgstore replay --db ./msgstore.db
  msgstore replay --db ./msgstore.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd)
		},
	}

	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	result, err := st.Replay(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay", err)
	}

	f := newFormatter(opts, cmd)
	if opts.Format == "json" {
		if result.Consistent {
			if err := f.Success(result); err != nil {
				return err
			}
		} else if err := f.Error(ErrCodeReplayMismatch, result.Mismatch, result); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
	}

	if !result.Consistent {
		// Replay mismatch = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("replay mismatch: %s", result.Mismatch))
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(w io.Writer, result store.ReplayResult, verbose bool) {
	if result.Events == 0 {
		fmt.Fprintln(w, "No events found in database.")
	}
	if verbose || result.Events > 0 {
		fmt.Fprintf(w, "Events: %d, calls: %d\n", result.Events, result.Calls)
		fmt.Fprintf(w, "Replayed length: %d, filled slots: %d\n", result.Length, result.Filled)
	}
	if result.Consistent {
		fmt.Fprintln(w, "✓ Replayed state matches stored state")
		return
	}
	fmt.Fprintf(w, "✗ Replayed state differs: %s\n", result.Mismatch)
}
