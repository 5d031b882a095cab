// Package auth keeps the access token between requests and answers the two
// questions the UI asks: is someone signed in, and do they have admin access.
// The token is decoded without signature verification, the same convenience
// the web client allows itself; the backend remains the authority.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Sly2277/BookNclean/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenKey = "authToken"

// Session stores the bearer token through the storage port and broadcasts
// signed-in/signed-out transitions to subscribers.
type Session struct {
	backend storage.Store

	lmu       sync.Mutex
	listeners map[string]func(authed bool)
}

func NewSession(backend storage.Store) *Session {
	return &Session{
		backend:   backend,
		listeners: make(map[string]func(bool)),
	}
}

// SetToken persists the access token and notifies listeners.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.backend.Save(ctx, tokenKey, []byte(token)); err != nil {
		return err
	}
	s.notify(s.IsAuthenticated(ctx))
	return nil
}

// Token returns the stored access token for request authorization; empty when
// signed out. Implements the api client's TokenSource.
func (s *Session) Token(ctx context.Context) string {
	raw, err := s.backend.Load(ctx, tokenKey)
	if err != nil {
		return ""
	}
	return string(raw)
}

// Clear removes the stored token and notifies listeners.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, tokenKey); err != nil {
		return err
	}
	s.notify(false)
	return nil
}

// IsAuthenticated reports whether a token is present and not expired.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.claims(ctx)
	return ok
}

// HasAdminAccess reports whether the current token carries an admin claim,
// either isAdmin or role == "admin".
func (s *Session) HasAdminAccess(ctx context.Context) bool {
	claims, ok := s.claims(ctx)
	if !ok {
		return false
	}
	if isAdmin, _ := claims["isAdmin"].(bool); isAdmin {
		return true
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// Subscribe registers an auth-change listener and returns its unsubscribe
// func. Listeners receive the new authenticated state.
func (s *Session) Subscribe(fn func(authed bool)) func() {
	id := uuid.NewString()
	s.lmu.Lock()
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Session) notify(authed bool) {
	s.lmu.Lock()
	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(authed)
	}
}

// claims decodes the stored token without verifying its signature and checks
// expiry. Malformed tokens read as signed out.
func (s *Session) claims(ctx context.Context) (jwt.MapClaims, bool) {
	token := s.Token(ctx)
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, false
	}
	if exp != nil && !exp.After(time.Now()) {
		return nil, false
	}
	return claims, true
}
