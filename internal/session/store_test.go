package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"hrsaathi/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_FirstUseIsEmpty(t *testing.T) {
	s := NewStore()

	u := s.Lock("emp-1")
	defer u.Unlock()
	assert.Equal(t, Slots{}, u.Snapshot())
}

func TestStore_UpdatePersistsAcrossTurns(t *testing.T) {
	s := NewStore()

	u := s.Lock("emp-1")
	u.Update(Slots{DatePhrase: "kal", LeaveType: types.LeaveFull, Reason: "shaadi"})
	u.Unlock()

	u = s.Lock("emp-1")
	defer u.Unlock()
	got := u.Snapshot()
	assert.Equal(t, "kal", got.DatePhrase)
	assert.Equal(t, types.LeaveFull, got.LeaveType)
	assert.Equal(t, "shaadi", got.Reason)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStore_UsersAreIndependent(t *testing.T) {
	s := NewStore()

	u1 := s.Lock("emp-1")
	u1.Update(Slots{Reason: "one"})
	u1.Unlock()

	// A different user's session is reachable while emp-1 could be mid-turn.
	u1 = s.Lock("emp-1")
	defer u1.Unlock()
	u2 := s.Lock("emp-2")
	defer u2.Unlock()
	assert.Equal(t, "", u2.Snapshot().Reason)
}

func TestStore_SameUserTurnsAreSerialized(t *testing.T) {
	s := NewStore()

	const turns = 64
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := s.Lock("emp-1")
			defer u.Unlock()
			// Read-modify-write on the remembered reason; without the
			// per-user lock this loses updates.
			slots := u.Snapshot()
			slots.Reason += "x"
			u.Update(slots)
		}()
	}
	wg.Wait()

	u := s.Lock("emp-1")
	defer u.Unlock()
	assert.Len(t, u.Snapshot().Reason, turns)
}

func TestStore_Forget(t *testing.T) {
	s := NewStore()

	u := s.Lock("emp-1")
	u.Update(Slots{Reason: "old"})
	u.Unlock()

	s.Forget("emp-1")

	u = s.Lock("emp-1")
	defer u.Unlock()
	assert.Equal(t, Slots{}, u.Snapshot())
}
