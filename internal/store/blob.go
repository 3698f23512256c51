package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DefaultKey is the name of the blob holding the task collection.
const DefaultKey = "bir_tasks"

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// BlobStore is a durable key -> bytes store. Get reports ok=false when the key is absent.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, b []byte) error
	Close() error
}

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return BackendSQLite, nil
	case "file", "json":
		return BackendFile, nil
	case "memory", "mem":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("invalid backend: %q (expected sqlite|file|memory)", s)
	}
}

// Open returns the blob store for backend rooted at dir.
func Open(ctx context.Context, backend Backend, dir string) (BlobStore, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, dir)
	case BackendFile:
		return NewFileBlobs(dir)
	case BackendMemory:
		return NewMemoryBlobs(), nil
	default:
		return nil, fmt.Errorf("invalid backend: %q", backend)
	}
}

// MemoryBlobs keeps blobs in process memory. Put can be made to fail for tests via FailPuts.
type MemoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailPuts, when non-nil, is returned by every Put.
	FailPuts error
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: map[string][]byte{}}
}

func (m *MemoryBlobs) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *MemoryBlobs) Put(_ context.Context, key string, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts != nil {
		return m.FailPuts
	}
	m.blobs[key] = append([]byte(nil), b...)
	return nil
}

func (m *MemoryBlobs) Close() error { return nil }
