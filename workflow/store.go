package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for session store operations.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSaveFailed      = errors.New("save failed")
	ErrLoadFailed      = errors.New("load failed")
)

// SessionStore persists session snapshots at the explicit save/load boundary.
// The engine never persists implicitly — callers decide when a snapshot is
// saved and when a session is restored from one.
//
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Save persists the session identified by its ID, overwriting any
	// existing snapshot.
	Save(ctx context.Context, session Session) error

	// Load retrieves the session with the given id.
	// Returns ErrSessionNotFound if no snapshot exists.
	Load(ctx context.Context, id string) (Session, error)

	// Delete removes the snapshot for the given id. Missing ids are ignored.
	Delete(ctx context.Context, id string) error

	// List returns all session ids with stored snapshots.
	List(ctx context.Context) ([]string, error)
}

// memorySessionStore implements SessionStore with in-memory storage.
// Snapshots are lost when the process terminates — suitable for development
// and testing.
type memorySessionStore struct {
	sessions map[string]Session
	mu       sync.RWMutex
}

// NewMemorySessionStore creates a SessionStore backed by a map. It is
// registered by default under the name "memory".
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]Session),
	}
}

func (m *memorySessionStore) Save(_ context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *memorySessionStore) Load(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session.Clone(), nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// sessionStores is the global registry of named SessionStore implementations.
var (
	sessionStores = map[string]SessionStore{
		"memory": NewMemorySessionStore(),
	}
	storesMutex sync.RWMutex
)

// GetSessionStore retrieves a SessionStore by name from the registry.
// The "memory" store is registered by default.
func GetSessionStore(name string) (SessionStore, error) {
	storesMutex.RLock()
	defer storesMutex.RUnlock()

	store, exists := sessionStores[name]
	if !exists {
		return nil, fmt.Errorf("unknown session store: %s", name)
	}
	return store, nil
}

// RegisterSessionStore adds a named SessionStore to the global registry.
// Call before engine construction so config can reference the store by name.
//
// Example:
//
//	workflow.RegisterSessionStore("file", workflow.NewFileSessionStore("/var/intake/sessions"))
func RegisterSessionStore(name string, store SessionStore) {
	storesMutex.Lock()
	defer storesMutex.Unlock()

	sessionStores[name] = store
}
