// Package blobstore adapts gocloud.dev/blob to the storage.Store
// interface, the same bucket-abstraction library the teacher repo opens
// with blob.OpenBucket and reads from via gcerrors.Code(err) ==
// gcerrors.NotFound (reader.go's NewReader/ReadChunk).
package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/zarr-go/zarrs/arraysubset"
	"github.com/zarr-go/zarrs/storage"
)

// Store wraps a gocloud.dev/blob.Bucket opened at some provider URL
// (e.g. "file:///data/array.zarr", "s3://bucket/prefix", "mem://") as a
// storage.Store.
type Store struct {
	bucket *blob.Bucket
	policy storage.LockPolicy
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// Open opens bucketURL via blob.OpenBucket and wraps it as a Store.
func Open(ctx context.Context, bucketURL string, policy storage.LockPolicy) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("blobstore: opening bucket %q: %w", bucketURL, err)
	}
	return &Store{bucket: bucket, policy: policy, locks: make(map[string]*sync.Mutex)}, nil
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// MutexFor implements storage.Store.
func (s *Store) MutexFor(key string) sync.Locker {
	if s.policy == storage.NoLocking {
		return noopLocker{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Store) Close() error { return s.bucket.Close() }

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("blobstore: opening %q: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("blobstore: reading %q: %w", key, err)
	}
	return data, true, nil
}

func (s *Store) GetPartial(ctx context.Context, key string, ranges []arraysubset.ByteRange) ([][]byte, bool, error) {
	size, ok, err := s.Size(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	out := make([][]byte, len(ranges))
	for i, r := range ranges {
		start, err := r.Start(size)
		if err != nil {
			return nil, false, err
		}
		length, err := r.Length(size)
		if err != nil {
			return nil, false, err
		}
		reader, err := s.bucket.NewRangeReader(ctx, key, int64(start), int64(length), nil)
		if err != nil {
			return nil, false, fmt.Errorf("blobstore: range-reading %q: %w", key, err)
		}
		buf, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			return nil, false, fmt.Errorf("blobstore: range-reading %q: %w", key, err)
		}
		out[i] = buf
	}
	return out, true, nil
}

func (s *Store) GetPartialMany(ctx context.Context, requests map[string][]arraysubset.ByteRange) (map[string][][]byte, error) {
	out := make(map[string][][]byte, len(requests))
	for key, ranges := range requests {
		bufs, ok, err := s.GetPartial(ctx, key, ranges)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = bufs
		}
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	w, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("blobstore: opening writer for %q: %w", key, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("blobstore: writing %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("blobstore: closing writer for %q: %w", key, err)
	}
	return nil
}

// SetPartial is unsupported by generic blob backends; callers can use
// storage.ReadModifyWrite instead, which takes MutexFor(key) itself. The
// root package's chunk-subset update (storeops.go) does not call
// SetPartial: it holds MutexFor(key) and rewrites the whole chunk with Set.
func (s *Store) SetPartial(ctx context.Context, key string, offset uint64, data []byte) error {
	return &storage.ErrPartialWriteUnsupported{Backend: "blobstore"}
}

func (s *Store) Erase(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("blobstore: deleting %q: %w", key, err)
	}
	return nil
}

func (s *Store) ErasePrefix(ctx context.Context, prefix string) error {
	keys, err := s.ListPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.Erase(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.ListPrefix(ctx, "")
}

func (s *Store) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("blobstore: listing prefix %q: %w", prefix, err)
		}
		out = append(out, obj.Key)
	}
	return out, nil
}

func (s *Store) ListDir(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("blobstore: listing dir %q: %w", prefix, err)
		}
		if obj.IsDir && !strings.HasSuffix(obj.Key, "/") {
			out = append(out, obj.Key+"/")
			continue
		}
		out = append(out, obj.Key)
	}
	return out, nil
}

func (s *Store) Size(ctx context.Context, key string) (uint64, bool, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("blobstore: stat %q: %w", key, err)
	}
	return uint64(attrs.Size), true, nil
}
