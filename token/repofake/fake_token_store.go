package tokenfakerepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-calendar-client/token"
)

var _ token.Store = (*FakeTokenStore)(nil)

// FakeTokenStore keeps the value in memory and counts calls for assertions.
type FakeTokenStore struct {
	value string
	found bool
	lock  sync.RWMutex

	Saves  int
	Clears int
	// Err, when set, is returned by every operation.
	Err error
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

func (s *FakeTokenStore) Save(_ context.Context, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.Saves++
	s.value = value
	s.found = true
	return nil
}

func (s *FakeTokenStore) Load(_ context.Context) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.Err != nil {
		return "", false, s.Err
	}
	return s.value, s.found, nil
}

func (s *FakeTokenStore) Clear(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.Clears++
	s.value = ""
	s.found = false
	return nil
}

// Peek returns the stored value without going through the interface.
func (s *FakeTokenStore) Peek() (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.value, s.found
}
