package session

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
)

var (
	// ErrNoSession means no usable session exists in the store; the user
	// must sign in again.
	ErrNoSession = errors.New("no session found; please log in")

	// ErrKeyNotFound is returned by Store implementations for absent keys.
	ErrKeyNotFound = errors.New("key not found")
)

// Store is a read-only view of the local session storage. Implementations
// must return ErrKeyNotFound for absent keys.
type Store interface {
	Get(key string) (string, error)
}

// Resolver reconstructs the current Session from a Store, accepting
// either storage shape without knowing which was used.
type Resolver struct {
	store  Store
	logger core.Logger
}

func NewResolver(store Store, logger core.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the canonical session record, preferring the structured
// shape and falling back to the flat keys. Malformed structured data is
// logged and never fatal; the flat path is tried next.
func (r *Resolver) Resolve() (*Session, error) {
	if sess, ok := r.resolveStructured(); ok {
		return sess, nil
	}
	if sess, ok := r.resolveFlat(); ok {
		return sess, nil
	}
	return nil, ErrNoSession
}

// Token returns the bearer token of the current session, if any.
// It satisfies bosapi.TokenSource.
func (r *Resolver) Token() (string, error) {
	sess, err := r.Resolve()
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (r *Resolver) resolveStructured() (*Session, bool) {
	raw, err := r.store.Get(StructuredKey)
	if err != nil {
		if errors.Cause(err) != ErrKeyNotFound {
			r.logger.Warn("session: reading structured session", err)
		}
		return nil, false
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		r.logger.Warn("session: malformed structured session; falling back to flat keys", err)
		return nil, false
	}
	return r.normalize(sess)
}

func (r *Resolver) resolveFlat() (*Session, bool) {
	get := func(key string) string {
		val, err := r.store.Get(key)
		if err != nil {
			if errors.Cause(err) != ErrKeyNotFound {
				r.logger.Warn("session: reading flat key "+key, err)
			}
			return ""
		}
		return val
	}
	return r.normalize(Session{
		ID:    get(FlatIDKey),
		Name:  get(FlatNameKey),
		Role:  get(FlatRoleKey),
		Token: get(FlatTokenKey),
	})
}

// normalize rejects records that identify nobody. A missing token is
// allowed: unauthenticated reads fail later with Unauthorized, which is
// the server's call to make.
func (r *Resolver) normalize(sess Session) (*Session, bool) {
	sess.Role = core.CleanString(sess.Role, true)
	sess.Name = core.CleanString(sess.Name)
	sess.ID = core.CleanString(sess.ID)
	if sess.ID == "" && sess.Role == "" {
		return nil, false
	}
	return &sess, true
}
