package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/msgstore/internal/msgstore"
	"github.com/roach88/msgstore/internal/store"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	After int64
	Limit int
	Call  string
}

// EventsResult is the output of the events command.
type EventsResult struct {
	Events []msgstore.Notification `json:"events"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the notification log",
		Long: `Print logged notifications in seq order.

Examples:
  msgstore events
  msgstore events --after 10 --limit 5
  msgstore events --call 01890a5d-ac96-774b-bcce-b302099a8057`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.After, "after", 0, "only events with seq greater than this")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of events (0 = all)")
	cmd.Flags().StringVar(&opts.Call, "call", "", "only events of this call ID")

	return cmd
}

func runEvents(opts *EventsOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Config.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var events []msgstore.Notification
	if opts.Call != "" {
		events, err = st.ReadCall(ctx, opts.Call)
	} else {
		events, err = st.ReadEvents(ctx, opts.After, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	f := newFormatter(opts.RootOptions, cmd)
	return f.Render(EventsResult{Events: events}, func(w io.Writer) {
		if len(events) == 0 {
			fmt.Fprintln(w, "No events found in database.")
			return
		}
		for _, n := range events {
			switch n.Kind {
			case msgstore.KindBulkStored:
				fmt.Fprintf(w, "%d\t%s\t%s\tcount=%d new_length=%d\n", n.Seq, n.CallID, n.Kind, n.Count, n.NewLength)
			default:
				fmt.Fprintf(w, "%d\t%s\t%s\tindex=%d text=%q\n", n.Seq, n.CallID, n.Kind, n.Index, n.Text)
			}
		}
	})
}
