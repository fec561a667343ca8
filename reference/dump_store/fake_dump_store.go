package dump_store

import (
	"context"
	"sync"
)

type FakeDumpStore struct {
	m     sync.Mutex
	Dumps map[string][]byte
}

func NewFakeDumpStore() *FakeDumpStore {
	return &FakeDumpStore{Dumps: map[string][]byte{}}
}

func (s *FakeDumpStore) Save(_ context.Context, name string, data []byte) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.Dumps[name] = append([]byte{}, data...)
	return nil
}

func (s *FakeDumpStore) Load(_ context.Context, name string) ([]byte, error) {
	s.m.Lock()
	defer s.m.Unlock()
	data, ok := s.Dumps[name]
	if !ok {
		return nil, ErrDumpNotFound
	}
	return data, nil
}
