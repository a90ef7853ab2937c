// Package store is the gorm-backed Item Store and Event Log Store: the
// language -> category -> set hierarchy, its cards and sealed products, and
// the two append-only change logs.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

// GormStore implements the store interfaces over a single gorm database
type GormStore struct {
	db  *gorm.DB
	now func() time.Time

	mu      sync.RWMutex
	onWrite []func()
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// WithClock overrides the time used for new log documents
func (s *GormStore) WithClock(now func() time.Time) *GormStore {
	s.now = now
	return s
}

// OnWrite registers fn to run after every committed change to items or logs
func (s *GormStore) OnWrite(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWrite = append(s.onWrite, fn)
}

func (s *GormStore) notify() {
	s.mu.RLock()
	hooks := s.onWrite
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// hidden names (leading underscore) are internal documents, never listed
func hidden(name string) bool {
	return strings.HasPrefix(name, "_")
}
