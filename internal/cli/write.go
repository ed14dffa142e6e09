package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// AppendResult is the output of the append command.
type AppendResult struct {
	Index  uint64 `json:"index"`
	CallID string `json:"call_id"`
}

// BulkResult is the output of bulk-append and store-at.
type BulkResult struct {
	Count     int    `json:"count"`
	NewLength uint64 `json:"new_length"`
	CallID    string `json:"call_id"`
}

// RemoveResult is the output of the remove command.
type RemoveResult struct {
	Removed int    `json:"removed"`
	CallID  string `json:"call_id"`
}

// NewAppendCommand creates the append command.
func NewAppendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "append <text>",
		Short: "Append one message",
		Long: `Append a message in a new slot at the tail and print its index.

An empty message is allowed and still grows the store.

Example:
  msgstore append "hello"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			return withSession(rootOpts, func(ctx context.Context, s *session) error {
				index := s.store.Append(args[0])
				events, err := s.commit(ctx)
				if err != nil {
					return err
				}
				result := AppendResult{Index: index, CallID: callID(events)}
				return f.Render(result, func(w io.Writer) {
					fmt.Fprintf(w, "stored at index %d\n", result.Index)
				})
			})
		},
	}
}

// NewBulkAppendCommand creates the bulk-append command.
func NewBulkAppendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-append <text>...",
		Short: "Append several messages in one call",
		Long: `Append every argument in order. Either all messages are stored or none.

Example:
  msgstore bulk-append first second third`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			return withSession(rootOpts, func(ctx context.Context, s *session) error {
				count, newLength, err := s.store.BulkAppend(args)
				if err != nil {
					return f.StoreFailure(err)
				}
				return commitBulk(ctx, f, s, count, newLength)
			})
		},
	}
}

// StoreAtOptions holds flags for the store-at command.
type StoreAtOptions struct {
	*RootOptions
	Indices []string
	Texts   []string
}

// NewStoreAtCommand creates the store-at command.
func NewStoreAtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreAtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store-at --index N --text T [--index N --text T]...",
		Short: "Write messages at specific indices",
		Long: `Write each --text at the --index given in the same position.

Writing past the tail extends the store with empty slots. Indices may
repeat; the last write to an index wins.

Example:
  msgstore store-at --index 0 --text first --index 5 --text sixth`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			indices, err := parseIndices(opts.Indices)
			if err != nil {
				return err
			}
			return withSession(rootOpts, func(ctx context.Context, s *session) error {
				count, newLength, err := s.store.BulkStoreAt(indices, opts.Texts)
				if err != nil {
					return f.StoreFailure(err)
				}
				return commitBulk(ctx, f, s, count, newLength)
			})
		},
	}

	cmd.Flags().StringArrayVar(&opts.Indices, "index", nil, "slot index (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Texts, "text", nil, "message for the matching --index (repeatable)")

	return cmd
}

func commitBulk(ctx context.Context, f *OutputFormatter, s *session, count int, newLength uint64) error {
	events, err := s.commit(ctx)
	if err != nil {
		return err
	}
	result := BulkResult{Count: count, NewLength: newLength, CallID: callID(events)}
	return f.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "stored %d message(s), length %d\n", result.Count, result.NewLength)
	})
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>...",
		Short: "Clear slots",
		Long: `Clear every referenced slot to the empty string. The length is unchanged.

Every index is validated first; if any is out of bounds nothing is cleared.

Example:
  msgstore remove 0 3`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}
			return withSession(rootOpts, func(ctx context.Context, s *session) error {
				if err := s.store.BulkRemove(indices); err != nil {
					return f.StoreFailure(err)
				}
				events, err := s.commit(ctx)
				if err != nil {
					return err
				}
				result := RemoveResult{Removed: len(indices), CallID: callID(events)}
				return f.Render(result, func(w io.Writer) {
					fmt.Fprintf(w, "cleared %d slot(s)\n", result.Removed)
				})
			})
		},
	}
}
