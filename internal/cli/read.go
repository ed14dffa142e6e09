package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/msgstore/internal/msgstore"
)

// Slot is one index/text pair in read output.
type Slot struct {
	Index uint64 `json:"index"`
	Text  string `json:"text"`
}

// SlotsResult is the output of get, range and page.
type SlotsResult struct {
	Slots []Slot `json:"slots"`
}

func (r SlotsResult) writeText(w io.Writer) {
	for _, s := range r.Slots {
		fmt.Fprintf(w, "%d\t%s\n", s.Index, s.Text)
	}
}

// consecutive pairs texts with the indices first, first+1, ...
func consecutive(first uint64, texts []string) SlotsResult {
	slots := make([]Slot, len(texts))
	for i, text := range texts {
		slots[i] = Slot{Index: first + uint64(i), Text: text}
	}
	return SlotsResult{Slots: slots}
}

// readCommand builds a read-only command that renders what read returns.
func readCommand(rootOpts *RootOptions, cmd *cobra.Command, read func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error)) *cobra.Command {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.RunE = func(c *cobra.Command, args []string) error {
		f := newFormatter(rootOpts, c)
		return withSession(rootOpts, func(_ context.Context, s *session) error {
			data, text, err := read(s.store, args)
			if err != nil {
				return f.StoreFailure(err)
			}
			return f.Render(data, text)
		})
	}
	return cmd
}

// NewMessageCommand creates the message command.
func NewMessageCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "message",
		Short: "Print the introductory message",
		Args:  cobra.NoArgs,
	}, func(s *msgstore.Store, _ []string) (interface{}, func(io.Writer), error) {
		data := map[string]string{"message": s.Message()}
		return data, func(w io.Writer) { fmt.Fprintln(w, data["message"]) }, nil
	})
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "count",
		Short: "Print the number of slots",
		Args:  cobra.NoArgs,
	}, func(s *msgstore.Store, _ []string) (interface{}, func(io.Writer), error) {
		data := map[string]uint64{"count": s.Len()}
		return data, func(w io.Writer) { fmt.Fprintln(w, data["count"]) }, nil
	})
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "get <index>...",
		Short: "Retrieve slots by index",
		Long: `Retrieve the message at each index, in argument order. Duplicates are kept.

Example:
  msgstore get 0 2 2`,
		Args: cobra.ArbitraryArgs,
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		indices, err := parseIndices(args)
		if err != nil {
			return nil, nil, err
		}
		texts, err := s.BulkRetrieve(indices)
		if err != nil {
			return nil, nil, err
		}
		result := SlotsResult{Slots: make([]Slot, len(texts))}
		for i, text := range texts {
			result.Slots[i] = Slot{Index: indices[i], Text: text}
		}
		return result, result.writeText, nil
	})
}

// NewRangeCommand creates the range command.
func NewRangeCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "range <start> <count>",
		Short: "Retrieve consecutive slots",
		Args:  cobra.ExactArgs(2),
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		start, err := parseIndex(args[0])
		if err != nil {
			return nil, nil, err
		}
		count, err := parseCount("count", args[1])
		if err != nil {
			return nil, nil, err
		}
		texts, err := s.RangeRead(start, count)
		if err != nil {
			return nil, nil, err
		}
		result := consecutive(start, texts)
		return result, result.writeText, nil
	})
}

// NewPageCommand creates the page command.
func NewPageCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "page <page> <size>",
		Short: "Retrieve one page of slots (pages start at 0)",
		Args:  cobra.ExactArgs(2),
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		page, err := parseIndex(args[0])
		if err != nil {
			return nil, nil, err
		}
		size, err := parseCount("page size", args[1])
		if err != nil {
			return nil, nil, err
		}
		texts, err := s.Paginate(page, size)
		if err != nil {
			return nil, nil, err
		}
		result := consecutive(page*uint64(size), texts)
		return result, result.writeText, nil
	})
}

// NewPagesCommand creates the pages command.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "pages <size>",
		Short: "Print the number of pages of the given size",
		Args:  cobra.ExactArgs(1),
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		size, err := parseCount("page size", args[0])
		if err != nil {
			return nil, nil, err
		}
		pages, err := s.TotalPages(size)
		if err != nil {
			return nil, nil, err
		}
		data := map[string]uint64{"pages": pages}
		return data, func(w io.Writer) { fmt.Fprintln(w, pages) }, nil
	})
}

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Max int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := readCommand(rootOpts, &cobra.Command{
		Use:   "search <term>",
		Short: "Find slots containing a substring",
		Long: `Print, in ascending order, the indices of non-empty slots containing term.

Matching is case-sensitive. An empty term matches every non-empty slot.

Example:
  msgstore search hello --max 10`,
		Args: cobra.ExactArgs(1),
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		indices, err := s.Search(args[0], opts.Max)
		if err != nil {
			return nil, nil, err
		}
		data := map[string][]uint64{"indices": indices}
		return data, func(w io.Writer) {
			for _, idx := range indices {
				fmt.Fprintln(w, idx)
			}
		}, nil
	})

	cmd.Flags().IntVar(&opts.Max, "max", msgstore.DefaultLimits.MaxRetrieve, "maximum number of results")

	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "stats",
		Short: "Print store statistics",
		Args:  cobra.NoArgs,
	}, func(s *msgstore.Store, _ []string) (interface{}, func(io.Writer), error) {
		st := s.Stats()
		return st, func(w io.Writer) {
			fmt.Fprintf(w, "total:          %d\n", st.Total)
			fmt.Fprintf(w, "filled:         %d\n", st.Filled)
			fmt.Fprintf(w, "average length: %d\n", st.AverageLength)
		}, nil
	})
}
