// Package storage defines the abstract key/value store every array and
// group is built on (spec.md §4.7), concrete in-memory and gocloud.dev/blob
// backed implementations, and the per-key locking policy read-modify-write
// chunk updates rely on.
package storage

import (
	"context"
	"sync"

	"github.com/zarr-go/zarrs/arraysubset"
)

// Store is the abstract, key-addressed byte store backing arrays and
// groups. Keys are '/'-separated paths, e.g. "foo/zarr.json" or
// "foo/c/1/2". A key with no value is absent, distinct from a
// zero-length value.
type Store interface {
	// Get returns the full value of key. ok is false iff key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// GetPartial returns one buffer per requested byte range of key's
	// value, in order. ok is false iff key is absent.
	GetPartial(ctx context.Context, key string, ranges []arraysubset.ByteRange) (buffers [][]byte, ok bool, err error)

	// GetPartialMany is GetPartial batched across several keys, for
	// backends that can pipeline or parallelise the underlying requests.
	// The default Store implementations simply loop and call GetPartial.
	GetPartialMany(ctx context.Context, requests map[string][]arraysubset.ByteRange) (map[string][][]byte, error)

	// Set writes data as key's entire value, creating or overwriting it.
	Set(ctx context.Context, key string, data []byte) error

	// SetPartial writes data at offset within key's existing value.
	// Implementations that cannot update in place (e.g. typical object
	// stores) return ErrPartialWriteUnsupported; callers fall back to a
	// read-modify-write using Get + Set under MutexFor(key).
	SetPartial(ctx context.Context, key string, offset uint64, data []byte) error

	// Erase removes key. It is not an error for key to already be
	// absent.
	Erase(ctx context.Context, key string) error

	// ErasePrefix removes every key starting with prefix.
	ErasePrefix(ctx context.Context, prefix string) error

	// List returns every key in the store, regardless of prefix.
	List(ctx context.Context) ([]string, error)

	// ListPrefix returns every key starting with prefix.
	ListPrefix(ctx context.Context, prefix string) ([]string, error)

	// ListDir returns the immediate children of prefix, one level deep:
	// keys are reported up to and including their next '/', directory
	// style.
	ListDir(ctx context.Context, prefix string) ([]string, error)

	// Size returns the byte length of key's value. ok is false iff key
	// is absent.
	Size(ctx context.Context, key string) (size uint64, ok bool, err error)

	// MutexFor returns the lock a read-modify-write update of key must
	// hold, per LockPolicy (spec.md §4.6 "Store chunk subset").
	MutexFor(key string) sync.Locker
}

// ErrPartialWriteUnsupported is returned by SetPartial when a backend
// cannot update part of an existing value in place.
type ErrPartialWriteUnsupported struct{ Backend string }

func (e *ErrPartialWriteUnsupported) Error() string {
	return "storage: " + e.Backend + " does not support partial writes; use read-modify-write"
}

// LockPolicy controls whether Store.MutexFor returns a real mutex or a
// no-op one. spec.md §5 "NoLock opt-out": callers that can already
// guarantee exclusive access to a chunk (e.g. single-writer pipelines)
// may skip locking overhead.
type LockPolicy int

const (
	// DefaultLocking returns a real per-key mutex from MutexFor.
	DefaultLocking LockPolicy = iota
	// NoLocking returns a no-op lock from MutexFor.
	NoLocking
)

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// keyedMutexes hands out one sync.Mutex per key, created lazily, shared
// by every caller asking for that key's lock. Embed this in a Store
// implementation alongside its LockPolicy.
type keyedMutexes struct {
	policy LockPolicy
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
}

func newKeyedMutexes(policy LockPolicy) *keyedMutexes {
	return &keyedMutexes{policy: policy, locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutexes) MutexFor(key string) sync.Locker {
	if k.policy == NoLocking {
		return noopLocker{}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// ReadModifyWrite performs the canonical partial-write fallback: lock
// key, Get its current value (or start from a zero-filled buffer of
// totalSize if absent), apply patch at offset, Set the result, unlock.
// Stores whose SetPartial returns ErrPartialWriteUnsupported should
// implement SetPartial in terms of this helper.
func ReadModifyWrite(ctx context.Context, s Store, key string, offset uint64, patch []byte, totalSize uint64) error {
	lock := s.MutexFor(key)
	lock.Lock()
	defer lock.Unlock()

	data, ok, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		data = make([]byte, totalSize)
	}
	need := offset + uint64(len(patch))
	if need > uint64(len(data)) {
		grown := make([]byte, need)
		copy(grown, data)
		data = grown
	}
	copy(data[offset:need], patch)
	return s.Set(ctx, key, data)
}
