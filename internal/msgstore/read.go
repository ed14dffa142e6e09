package msgstore

import (
	"sort"
	"strings"
)

// BulkRetrieve returns the text at each index, preserving input order and
// duplicates. The first index at or beyond the length fails the whole call.
func (s *Store) BulkRetrieve(indices []uint64) ([]string, error) {
	if len(indices) < 1 || len(indices) > s.limits.MaxRetrieve {
		return nil, newCountError("bulk retrieve", len(indices), 1, s.limits.MaxRetrieve)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= s.length {
			return nil, newIndexError(idx, s.length)
		}
		out[i] = s.slots[idx]
	}
	return out, nil
}

// RangeRead returns the contiguous slots [start, start+count).
func (s *Store) RangeRead(start uint64, count int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count < 1 || count > s.limits.MaxRetrieve || start >= s.length || uint64(count) > s.length-start {
		return nil, newRangeError(start, count, s.length)
	}
	return s.readRange(start, uint64(count)), nil
}

// Paginate returns page number page (zero-based) of pageSize slots.
// The last page may be shorter than pageSize.
func (s *Store) Paginate(page uint64, pageSize int) ([]string, error) {
	if pageSize < 1 || pageSize > s.limits.MaxPageSize() {
		return nil, newCountError("page size", pageSize, 1, s.limits.MaxPageSize())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// page < totalPages is page*pageSize < length without the multiplication
	size := uint64(pageSize)
	if page >= ceilDiv(s.length, size) {
		return nil, newPageError(page, pageSize, s.length)
	}

	start := page * size
	count := size
	if rest := s.length - start; rest < count {
		count = rest
	}
	return s.readRange(start, count), nil
}

// TotalPages returns ceil(Len() / pageSize); 0 for an empty store.
func (s *Store) TotalPages(pageSize int) (uint64, error) {
	if pageSize < 1 || pageSize > s.limits.MaxPageSize() {
		return 0, newCountError("page size", pageSize, 1, s.limits.MaxPageSize())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return ceilDiv(s.length, uint64(pageSize)), nil
}

// Search returns, in ascending order, the indices of up to maxResults
// non-empty slots containing term as a case-sensitive byte substring.
// Empty slots never match; an empty term matches every non-empty slot.
//
// Cost grows with the number of filled slots.
func (s *Store) Search(term string, maxResults int) ([]uint64, error) {
	if maxResults < 1 || maxResults > s.limits.MaxRetrieve {
		return nil, newCountError("search result", maxResults, 1, s.limits.MaxRetrieve)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]uint64, 0, maxResults)
	for _, idx := range s.filledIndices() {
		if len(found) == maxResults {
			break
		}
		if strings.Contains(s.slots[idx], term) {
			found = append(found, idx)
		}
	}
	return found, nil
}

// Stats summarizes the store.
type Stats struct {
	// Total is the store length, empty slots included.
	Total uint64 `json:"total"`

	// Filled counts non-empty slots.
	Filled uint64 `json:"filled"`

	// AverageLength is the truncated mean byte length of filled slots,
	// 0 when nothing is filled.
	AverageLength uint64 `json:"average_length"`
}

// Stats returns aggregate statistics. Cost grows with the number of filled
// slots.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:  s.length,
		Filled: uint64(len(s.slots)),
	}
	if st.Filled == 0 {
		return st
	}

	var total uint64
	for _, text := range s.slots {
		total += uint64(len(text))
	}
	st.AverageLength = total / st.Filled
	return st
}

// readRange copies count slots starting at start. Caller holds mu and has
// checked bounds.
func (s *Store) readRange(start, count uint64) []string {
	out := make([]string, count)
	for i := uint64(0); i < count; i++ {
		out[i] = s.slots[start+i]
	}
	return out
}

// filledIndices returns the indices of non-empty slots in ascending order.
func (s *Store) filledIndices() []uint64 {
	idxs := make([]uint64, 0, len(s.slots))
	for idx := range s.slots {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	return idxs
}

func ceilDiv(n, d uint64) uint64 {
	if n == 0 {
		return 0
	}
	return (n-1)/d + 1
}
