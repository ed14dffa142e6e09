package msgstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Limits holds the per-call bulk caps. Every operation, the cost
// estimator included, reads its bounds from the store's Limits value.
type Limits struct {
	// MaxStore caps BulkAppend, BulkStoreAt, BulkRemove and page sizes.
	MaxStore int `json:"max_store"`

	// MaxRetrieve caps BulkRetrieve, RangeRead and Search results.
	MaxRetrieve int `json:"max_retrieve"`
}

// DefaultLimits are the limits every Store is constructed with.
var DefaultLimits = Limits{
	MaxStore:    50,
	MaxRetrieve: 100,
}

// MaxPageSize is the largest page Paginate and TotalPages accept.
func (l Limits) MaxPageSize() int {
	return l.MaxStore
}

// Cost model constants for EstimateCost.
const (
	BaseCost             uint64 = 21000
	StoreUnitCost        uint64 = 25000
	StoreUnitCostOverCap uint64 = 30000
	RetrieveUnitCost     uint64 = 5000
	RemoveUnitCost       uint64 = 20000
)

// OperationType is a cost-estimation category.
// Numeric values are part of the external contract.
type OperationType uint8

const (
	OpStore    OperationType = 0
	OpRetrieve OperationType = 1
	OpRemove   OperationType = 2
)

// String returns the lowercase name of the operation type.
func (t OperationType) String() string {
	switch t {
	case OpStore:
		return "store"
	case OpRetrieve:
		return "retrieve"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("OperationType(%d)", uint8(t))
	}
}

// ParseOperationType accepts a name ("store", "retrieve", "remove", any
// case) or a numeric code. Numeric codes are not range-checked here so that
// EstimateCost reports unknown values as INVALID_OPERATION_TYPE.
func ParseOperationType(s string) (OperationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "store":
		return OpStore, nil
	case "retrieve":
		return OpRetrieve, nil
	case "remove":
		return OpRemove, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, &Error{
			Code:    CodeInvalidOperationType,
			Message: fmt.Sprintf("unknown operation type %q", s),
		}
	}
	return OperationType(n), nil
}

// EstimateCost predicts the cost units of a hypothetical bulk operation.
// It is pure: no store state is read or written.
//
// Result = BaseCost + perUnit * count.
func (l Limits) EstimateCost(count uint64, op OperationType) (uint64, error) {
	if count == 0 {
		return 0, &Error{
			Code:    CodeInvalidCount,
			Message: "operation count must be greater than zero",
		}
	}

	var perUnit uint64
	var limit int
	switch op {
	case OpStore:
		limit = l.MaxStore
		perUnit = StoreUnitCost
		if count > uint64(l.MaxStore) {
			perUnit = StoreUnitCostOverCap
		}
	case OpRetrieve:
		limit = l.MaxRetrieve
		perUnit = RetrieveUnitCost
	case OpRemove:
		limit = l.MaxStore
		perUnit = RemoveUnitCost
	default:
		return 0, &Error{
			Code:    CodeInvalidOperationType,
			Message: fmt.Sprintf("unknown operation type %d", uint8(op)),
		}
	}

	if count > uint64(limit) {
		return 0, &Error{
			Code:    CodeTooMany,
			Message: fmt.Sprintf("too many %s operations: %d > %d", op, count, limit),
			Details: map[string]string{
				"count": strconv.FormatUint(count, 10),
				"max":   strconv.Itoa(limit),
			},
		}
	}

	return BaseCost + perUnit*count, nil
}
