package dump_store

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalDumpStore writes dumps as files of a directory, created on demand.
type LocalDumpStore struct {
	dir string
}

func NewLocalDumpStore(dir string) *LocalDumpStore {
	return &LocalDumpStore{dir: dir}
}

func (s *LocalDumpStore) Save(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "create dump dir %s", s.dir)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "write dump %s", tmp)
	}
	return errors.Wrap(os.Rename(tmp, path), "move dump in place")
}

func (s *LocalDumpStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := ioutil.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrDumpNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read dump %s", name)
	}
	return data, nil
}
