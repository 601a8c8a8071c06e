// Package models defines the locally persisted entity types and their
// synchronization lifecycle.
package models

// SyncStatus is the reconciliation state of a locally stored record against
// the remote system.
type SyncStatus string

const (
	// SyncPending marks a record created or edited locally and not yet
	// transmitted.
	SyncPending SyncStatus = "pending"
	// SyncInFlight marks a record whose transmission is in progress. It is a
	// marker, not a lock: passes over the same kind must be serialized by the
	// caller.
	SyncInFlight SyncStatus = "syncing"
	// SyncSynced marks a record accepted by the remote system. A synced record
	// always carries a remote id.
	SyncSynced SyncStatus = "synced"
	// SyncFailed marks a record whose last transmission attempt failed. Failed
	// records stay retry-eligible indefinitely.
	SyncFailed SyncStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncInFlight, SyncSynced, SyncFailed:
		return true
	}
	return false
}

// RetryEligible reports whether a record in this status is picked up by the
// next sync pass.
func (s SyncStatus) RetryEligible() bool {
	return s == SyncPending || s == SyncFailed
}
