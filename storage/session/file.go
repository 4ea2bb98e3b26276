package sessionstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
	"github.com/trezcool/bosvote/core/session"
)

// FileStore reads session keys from a directory written by the login
// flow: one file per key. The structured shape lives in a "session"
// file holding a JSON object; the flat shape is four single-value files.
// This module never writes to the directory.
type FileStore struct {
	dir string
}

var _ session.Store = (*FileStore)(nil) // interface compliance check

func NewFileStore(conf *core.Config) *FileStore {
	return &FileStore{dir: conf.SessionDir}
}

func (s *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", session.ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "sessionstore: reading %s", key)
	}
	return strings.TrimSpace(string(data)), nil
}
