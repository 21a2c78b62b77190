// Package storage implements the client-side session store: a durable
// file-backed key/value store paired with a fast in-memory one. Writes go
// to both backings, each best effort and independent of the other; reads
// prefer the durable backing and fall back to the fast one. Everything
// kept here is re-derivable by re-running verification, so losing either
// backing is safe.
package storage

// Backing is one key/value backing store.
type Backing interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
