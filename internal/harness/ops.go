package harness

import (
	"fmt"
	"math"

	"github.com/roach88/msgstore/internal/msgstore"
)

// Op names accepted in scenario steps.
const (
	OpMessage      = "message"
	OpLength       = "length"
	OpAppend       = "append"
	OpBulkAppend   = "bulk_append"
	OpBulkStoreAt  = "bulk_store_at"
	OpBulkRetrieve = "bulk_retrieve"
	OpRangeRead    = "range_read"
	OpBulkRemove   = "bulk_remove"
	OpPaginate     = "paginate"
	OpTotalPages   = "total_pages"
	OpSearch       = "search"
	OpStats        = "stats"
	OpEstimateCost = "estimate_cost"
	OpLimits       = "limits"
)

var knownOps = map[string]bool{
	OpMessage: true, OpLength: true, OpAppend: true, OpBulkAppend: true,
	OpBulkStoreAt: true, OpBulkRetrieve: true, OpRangeRead: true,
	OpBulkRemove: true, OpPaginate: true, OpTotalPages: true, OpSearch: true,
	OpStats: true, OpEstimateCost: true, OpLimits: true,
}

// dispatch invokes op on s. Store failures are returned as *msgstore.Error;
// any other error means the step arguments are malformed.
func dispatch(s *msgstore.Store, op string, a args) (map[string]any, error) {
	switch op {
	case OpMessage:
		return map[string]any{"message": s.Message()}, nil

	case OpLength:
		return map[string]any{"length": s.Len()}, nil

	case OpAppend:
		text, err := a.str("text")
		if err != nil {
			return nil, err
		}
		return map[string]any{"index": s.Append(text)}, nil

	case OpBulkAppend:
		texts, err := a.strs("texts")
		if err != nil {
			return nil, err
		}
		count, newLength, err := s.BulkAppend(texts)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": count, "new_length": newLength}, nil

	case OpBulkStoreAt:
		indices, err := a.uints("indices")
		if err != nil {
			return nil, err
		}
		texts, err := a.strs("texts")
		if err != nil {
			return nil, err
		}
		count, newLength, err := s.BulkStoreAt(indices, texts)
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": count, "new_length": newLength}, nil

	case OpBulkRetrieve:
		indices, err := a.uints("indices")
		if err != nil {
			return nil, err
		}
		texts, err := s.BulkRetrieve(indices)
		if err != nil {
			return nil, err
		}
		return map[string]any{"texts": texts}, nil

	case OpRangeRead:
		start, err := a.natural("start")
		if err != nil {
			return nil, err
		}
		count, err := a.integer("count")
		if err != nil {
			return nil, err
		}
		texts, err := s.RangeRead(start, count)
		if err != nil {
			return nil, err
		}
		return map[string]any{"texts": texts}, nil

	case OpBulkRemove:
		indices, err := a.uints("indices")
		if err != nil {
			return nil, err
		}
		if err := s.BulkRemove(indices); err != nil {
			return nil, err
		}
		return map[string]any{}, nil

	case OpPaginate:
		page, err := a.natural("page")
		if err != nil {
			return nil, err
		}
		size, err := a.integer("page_size")
		if err != nil {
			return nil, err
		}
		texts, err := s.Paginate(page, size)
		if err != nil {
			return nil, err
		}
		return map[string]any{"texts": texts}, nil

	case OpTotalPages:
		size, err := a.integer("page_size")
		if err != nil {
			return nil, err
		}
		pages, err := s.TotalPages(size)
		if err != nil {
			return nil, err
		}
		return map[string]any{"pages": pages}, nil

	case OpSearch:
		term, err := a.str("term")
		if err != nil {
			return nil, err
		}
		limit, err := a.integer("max_results")
		if err != nil {
			return nil, err
		}
		indices, err := s.Search(term, limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"indices": indices}, nil

	case OpStats:
		st := s.Stats()
		return map[string]any{
			"total":          st.Total,
			"filled":         st.Filled,
			"average_length": st.AverageLength,
		}, nil

	case OpEstimateCost:
		count, err := a.natural("count")
		if err != nil {
			return nil, err
		}
		raw, ok := a["op_type"]
		if !ok {
			return nil, fmt.Errorf("missing argument %q", "op_type")
		}
		opType, err := msgstore.ParseOperationType(fmt.Sprint(raw))
		if err != nil {
			return nil, err
		}
		cost, err := s.EstimateCost(count, opType)
		if err != nil {
			return nil, err
		}
		return map[string]any{"cost": cost}, nil

	case OpLimits:
		l := s.Limits()
		return map[string]any{
			"max_store":     l.MaxStore,
			"max_retrieve":  l.MaxRetrieve,
			"max_page_size": l.MaxPageSize(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown op %q", op)
	}
}

// args wraps YAML-decoded step arguments with typed accessors.
// yaml.v3 decodes integers as int (int64/uint64 when they overflow int).
type args map[string]interface{}

func (a args) get(key string) (interface{}, error) {
	v, ok := a[key]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", key)
	}
	return v, nil
}

func (a args) str(key string) (string, error) {
	v, err := a.get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: expected string, got %T", key, v)
	}
	return s, nil
}

func (a args) strs(key string) ([]string, error) {
	v, err := a.get(key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %q: expected list, got %T", key, v)
	}
	out := make([]string, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q[%d]: expected string, got %T", key, i, elem)
		}
		out[i] = s
	}
	return out, nil
}

func (a args) natural(key string) (uint64, error) {
	v, err := a.get(key)
	if err != nil {
		return 0, err
	}
	n, err := toUint(v)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return n, nil
}

func (a args) uints(key string) ([]uint64, error) {
	v, err := a.get(key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("argument %q: expected list, got %T", key, v)
	}
	out := make([]uint64, len(list))
	for i, elem := range list {
		n, err := toUint(elem)
		if err != nil {
			return nil, fmt.Errorf("argument %q[%d]: %w", key, i, err)
		}
		out[i] = n
	}
	return out, nil
}

func (a args) integer(key string) (int, error) {
	v, err := a.get(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("argument %q: %d overflows int", key, n)
		}
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("argument %q: %d overflows int", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("argument %q: expected integer, got %T", key, v)
	}
}

func toUint(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("expected non-negative integer, got %d", n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("expected non-negative integer, got %d", n)
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
