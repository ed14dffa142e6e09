// Package msgstore implements the indexed message store.
//
// The store owns one ordered, index-addressable sequence of strings plus a
// fixed introductory message. Every bulk operation acts on the sequence:
//
//   - Mutations: Append, BulkAppend, BulkStoreAt, BulkRemove
//   - Reads: BulkRetrieve, RangeRead, Paginate, TotalPages
//   - Queries: Search, Stats
//   - Planning: EstimateCost, Limits
//
// # Length
//
// Length is one past the highest index ever addressed and never shrinks.
// Removal writes the empty string; it does not remove the slot. Reading an
// index at or beyond Length is an error, never a default value.
//
// Slots are held sparsely: only non-empty text is kept in memory, gaps
// created by BulkStoreAt are implicit empty slots.
//
// # Bounded work
//
// Bulk operations are capped by Limits. Search and Stats are the only
// operations whose cost grows with accumulated data (they walk every filled
// slot); hosts with execution-time accounting should cap them separately.
//
// # Notifications
//
// Mutating calls emit Notifications (one "stored" per written slot, then a
// trailing "bulk_stored" aggregate for bulk writes). They are delivered to
// Observers after the call commits, in emission order. A failed call emits
// nothing.
//
// # Concurrency
//
// A single RWMutex guards the whole structure. Hosts that already serialize
// calls pay only an uncontended lock.
package msgstore
