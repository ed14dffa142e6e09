package msgstore

import "fmt"

// Snapshot is a point-in-time copy of store state.
// Slots holds non-empty slots only; every other index below Length is "".
type Snapshot struct {
	Length  uint64
	Slots   map[uint64]string
	Message string
}

// Get returns the text at idx. ok is false if idx >= Length.
func (s Snapshot) Get(idx uint64) (text string, ok bool) {
	if idx >= s.Length {
		return "", false
	}
	return s.Slots[idx], true
}

// Apply folds one notification into the snapshot, the same way the
// originating call changed the store. A bulk_stored notification must agree
// with the length reached by the notifications before it.
//
// Replaying a complete notification log through Apply rebuilds the store.
func (s *Snapshot) Apply(n Notification) error {
	if s.Slots == nil {
		s.Slots = make(map[uint64]string)
	}

	switch n.Kind {
	case KindStored:
		if n.Index >= s.Length {
			s.Length = n.Index + 1
		}
		if n.Text == "" {
			delete(s.Slots, n.Index)
		} else {
			s.Slots[n.Index] = n.Text
		}
		return nil
	case KindBulkStored:
		if n.NewLength != s.Length {
			return fmt.Errorf("seq %d: bulk_stored reports length %d, replayed length is %d", n.Seq, n.NewLength, s.Length)
		}
		return nil
	default:
		return fmt.Errorf("seq %d: unknown notification kind %q", n.Seq, n.Kind)
	}
}

// Equal reports whether two snapshots hold the same length and slots.
// Message is not compared.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Length != other.Length || len(s.Slots) != len(other.Slots) {
		return false
	}
	for idx, text := range s.Slots {
		if other.Slots[idx] != text {
			return false
		}
	}
	return true
}
