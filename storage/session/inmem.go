package sessionstore

import "github.com/trezcool/bosvote/core/session"

// MapStore is an in-memory Store for tests.
type MapStore map[string]string

var _ session.Store = (MapStore)(nil)

func (s MapStore) Get(key string) (string, error) {
	val, ok := s[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return val, nil
}
