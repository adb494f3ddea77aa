// Package session holds the per-user short-term slot memory. It is the one
// piece of cross-turn state in the pipeline: the last date phrase, leave
// type, reason, and times a user mentioned, used to fill gaps in their next
// message ("kal" in one turn, "half day" in the next).
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"hrsaathi/internal/logging"
	"hrsaathi/internal/types"
)

// Slots is the narrow slot set remembered between turns.
type Slots struct {
	DatePhrase string
	LeaveType  types.LeaveType
	Reason     string
	InTime     string
	OutTime    string
	UpdatedAt  time.Time
}

// Store is a process-wide keyed slot store. Turns for the same user are
// serialized by a per-user lock held across read-merge-write; different
// users proceed fully in parallel. Entries are never expired automatically;
// callers may Forget a user explicitly.
type Store struct {
	mu    sync.Mutex
	users map[string]*entry
	log   *zap.Logger
}

type entry struct {
	mu    sync.Mutex
	slots Slots
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*entry),
		log:   logging.For(logging.CategorySession),
	}
}

// UserSession is a locked view of one user's slots. It must be released
// exactly once via Unlock.
type UserSession struct {
	e      *entry
	userID string
	store  *Store
}

// Lock acquires the per-user lock, creating the entry on first use. The
// returned session serializes the whole turn for this user.
func (s *Store) Lock(userID string) *UserSession {
	s.mu.Lock()
	e, ok := s.users[userID]
	if !ok {
		e = &entry{}
		s.users[userID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return &UserSession{e: e, userID: userID, store: s}
}

// Snapshot returns the remembered slots for this user.
func (u *UserSession) Snapshot() Slots {
	return u.e.slots
}

// Update overwrites the remembered slots with this turn's resolved values.
func (u *UserSession) Update(slots Slots) {
	slots.UpdatedAt = time.Now()
	u.e.slots = slots
	u.store.log.Debug("session updated",
		zap.String("user", u.userID),
		zap.String("date_phrase", slots.DatePhrase),
		zap.String("leave_type", string(slots.LeaveType)))
}

// Unlock releases the per-user lock.
func (u *UserSession) Unlock() {
	u.e.mu.Unlock()
}

// Forget drops a user's remembered slots. Waits for any in-flight turn for
// that user to finish.
func (s *Store) Forget(userID string) {
	s.mu.Lock()
	e, ok := s.users[userID]
	if ok {
		delete(s.users, userID)
	}
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.slots = Slots{}
		e.mu.Unlock()
	}
}
