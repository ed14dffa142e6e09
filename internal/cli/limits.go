package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/msgstore/internal/msgstore"
)

// EstimateResult is the output of the estimate command.
type EstimateResult struct {
	Count  uint64 `json:"count"`
	OpType string `json:"op_type"`
	Cost   uint64 `json:"cost"`
}

// LimitsResult is the output of the limits command.
type LimitsResult struct {
	msgstore.Limits
	MaxPageSize int `json:"max_page_size"`
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "estimate <count> <type>",
		Short: "Estimate the cost of a bulk operation",
		Long: `Estimate the cost units of a hypothetical bulk operation.

type is store, retrieve or remove, or its numeric code 0, 1 or 2.

Example:
  msgstore estimate 10 store`,
		Args: cobra.ExactArgs(2),
	}, func(s *msgstore.Store, args []string) (interface{}, func(io.Writer), error) {
		count, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid count %q", args[0]))
		}
		op, err := msgstore.ParseOperationType(args[1])
		if err != nil {
			return nil, nil, err
		}
		cost, err := s.EstimateCost(count, op)
		if err != nil {
			return nil, nil, err
		}
		result := EstimateResult{Count: count, OpType: op.String(), Cost: cost}
		return result, func(w io.Writer) { fmt.Fprintln(w, cost) }, nil
	})
}

// NewLimitsCommand creates the limits command.
func NewLimitsCommand(rootOpts *RootOptions) *cobra.Command {
	return readCommand(rootOpts, &cobra.Command{
		Use:   "limits",
		Short: "Print bulk operation limits",
		Args:  cobra.NoArgs,
	}, func(s *msgstore.Store, _ []string) (interface{}, func(io.Writer), error) {
		l := s.Limits()
		result := LimitsResult{Limits: l, MaxPageSize: l.MaxPageSize()}
		return result, func(w io.Writer) {
			fmt.Fprintf(w, "max store:     %d\n", l.MaxStore)
			fmt.Fprintf(w, "max retrieve:  %d\n", l.MaxRetrieve)
			fmt.Fprintf(w, "max page size: %d\n", result.MaxPageSize)
		}, nil
	})
}
