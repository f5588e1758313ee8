// Package session owns the signed-in user state. The store is the single
// source of truth for "who is logged in": in-memory state keyed by the
// caller's session id, mirrored to persisted storage on every change so a
// reload reconstructs the same session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"shopfront/pkg/authapi"
	"shopfront/pkg/kv"
	"shopfront/pkg/models"
)

// AuthAPI is the slice of the auth client the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*authapi.User, error)
	Register(ctx context.Context, form authapi.RegisterForm) error
}

type Store struct {
	kv   kv.Store
	auth AuthAPI

	mu      sync.Mutex
	current map[string]*models.Session
}

func New(store kv.Store, auth AuthAPI) *Store {
	return &Store{kv: store, auth: auth, current: make(map[string]*models.Session)}
}

// Session state is persisted one field per key, mirroring how the web UI
// kept it in localStorage. Hydration treats a record missing either the id
// or the email as no session at all.
var sessionFields = []string{"id", "name", "email", "phone", "address", "image", "type"}

func sessionKey(sid, field string) string {
	return "session:" + sid + ":" + field
}

// Hydrate reconstructs the session for sid from persisted storage. It
// never fails: malformed or partial records yield an anonymous session.
func (s *Store) Hydrate(ctx context.Context, sid string) *models.Session {
	get := func(field string) string {
		val, err := s.kv.Get(ctx, sessionKey(sid, field))
		if err != nil {
			return ""
		}
		return val
	}

	id, email := get("id"), get("email")
	if id == "" || email == "" {
		s.mu.Lock()
		delete(s.current, sid)
		s.mu.Unlock()
		return nil
	}

	sess := &models.Session{
		ID:    id,
		Name:  get("name"),
		Email: email,
		Profile: models.Profile{
			Phone:   get("phone"),
			Address: get("address"),
			Image:   get("image"),
			Type:    get("type"),
		},
	}
	s.mu.Lock()
	s.current[sid] = sess
	s.mu.Unlock()
	return sess
}

// Current returns the in-memory session for sid, hydrating on first use.
// A nil return means anonymous.
func (s *Store) Current(ctx context.Context, sid string) *models.Session {
	s.mu.Lock()
	sess, ok := s.current[sid]
	s.mu.Unlock()
	if ok {
		return sess
	}
	return s.Hydrate(ctx, sid)
}

// Login authenticates against the auth API and replaces the session for
// sid. On any failure the existing session, in memory and in storage, is
// left untouched. A login over an existing session overwrites it.
func (s *Store) Login(ctx context.Context, sid, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrAuthenticationFailed)
	}

	user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		var apiErr *authapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if user == nil || user.ID == "" || user.Email == "" {
		return nil, ErrInvalidResponse
	}

	sess := &models.Session{ID: user.ID, Name: user.Name, Email: user.Email}
	if user.Profile != nil {
		sess.Profile = models.Profile{
			Phone:   user.Profile.Phone,
			Address: user.Profile.Address,
			Image:   user.Profile.Image,
			Type:    user.Profile.Type,
		}
	}

	// Storage write comes first so a crash between the two leaves the
	// durable copy ahead, never behind; a storage fault is logged and the
	// in-memory session still wins.
	if err := s.persist(ctx, sid, sess); err != nil {
		log.Printf("warning: failed to persist session for %s: %v", sid, err)
	}
	s.mu.Lock()
	s.current[sid] = sess
	s.mu.Unlock()
	return sess, nil
}

// Register forwards the registration form to the auth API. It never
// establishes a session; callers log in separately afterward.
func (s *Store) Register(ctx context.Context, form authapi.RegisterForm) error {
	err := s.auth.Register(ctx, form)
	if err == nil {
		return nil
	}

	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Fields) > 0 {
			return &ValidationError{Fields: apiErr.Fields}
		}
		if apiErr.Message != "" {
			return fmt.Errorf("%w: %s", ErrRegistrationFailed, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
}

// Logout clears every persisted session field and the in-memory record.
// It always succeeds from the caller's view.
func (s *Store) Logout(ctx context.Context, sid string) {
	keys := make([]string, len(sessionFields))
	for i, field := range sessionFields {
		keys[i] = sessionKey(sid, field)
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		log.Printf("warning: failed to clear persisted session for %s: %v", sid, err)
	}
	s.mu.Lock()
	delete(s.current, sid)
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, sid string, sess *models.Session) error {
	fields := map[string]string{
		"id":      sess.ID,
		"name":    sess.Name,
		"email":   sess.Email,
		"phone":   sess.Profile.Phone,
		"address": sess.Profile.Address,
		"image":   sess.Profile.Image,
		"type":    sess.Profile.Type,
	}
	for field, value := range fields {
		if err := s.kv.Set(ctx, sessionKey(sid, field), value); err != nil {
			return err
		}
	}
	return nil
}
