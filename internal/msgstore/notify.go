package msgstore

// NotificationKind distinguishes notification payloads.
type NotificationKind string

const (
	// KindStored reports a single slot write (Index + Text).
	// Clears from BulkRemove are KindStored with empty Text.
	KindStored NotificationKind = "stored"

	// KindBulkStored reports the aggregate of a bulk write (Count + NewLength).
	// It always follows the per-slot notifications of the same call.
	KindBulkStored NotificationKind = "bulk_stored"
)

// Notification describes a committed mutation.
//
// Notifications are fire-and-forget: observers cannot acknowledge them or
// affect the store through them.
type Notification struct {
	Seq    int64            `json:"seq"`
	CallID string           `json:"call_id"`
	Kind   NotificationKind `json:"kind"`

	// Set for KindStored.
	Index uint64 `json:"index"`
	Text  string `json:"text"`

	// Set for KindBulkStored.
	Count     int    `json:"count,omitempty"`
	NewLength uint64 `json:"new_length,omitempty"`
}

// Observer receives notifications after a mutating call commits.
//
// Notify is invoked synchronously, once per notification, in emission
// order. Observers may read from the store but must not mutate it from
// within Notify.
type Observer interface {
	Notify(n Notification)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(n Notification)

// Notify calls f(n).
func (f ObserverFunc) Notify(n Notification) {
	f(n)
}

// Recorder is an Observer that keeps every notification it receives.
// Intended for tests and short-lived hosts.
type Recorder struct {
	Notifications []Notification
}

// Notify appends n.
func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Reset drops recorded notifications.
func (r *Recorder) Reset() {
	r.Notifications = nil
}
