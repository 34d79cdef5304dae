// Package session keep admin sessions in memory and authenticate requests
// by session cookie.
package session

//
// registry.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"sync"
	"time"

	"gitlab.com/kabes/softupkaran/internal/aerr"
)

// Registry map opaque tokens to expiration time. All sessions are lost on restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

type Option func(r *Registry)

// WithClock set function used as time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithTokenGenerator replace default (random) token generator.
func WithTokenGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newToken = gen
	}
}

func NewRegistry(ttl time.Duration, opts ...Option) (*Registry, error) {
	if ttl <= 0 {
		return nil, aerr.ErrInvalidConf.WithUserMsg("session ttl must be positive; got %s", ttl)
	}

	reg := &Registry{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
		newToken: NewToken,
	}

	for _, o := range opts {
		o(reg)
	}

	return reg, nil
}

// Create start new session and return its token.
func (r *Registry) Create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.newToken()
	for {
		// expired entries also count as taken
		if _, exists := r.sessions[token]; !exists && token != "" {
			break
		}

		token = r.newToken()
	}

	r.sessions[token] = r.now().Add(r.ttl)

	return token
}

// IsValid check is token known and not expired. Expired token is removed.
func (r *Registry) IsValid(token string) bool {
	if token == "" {
		return false
	}

	r.mu.RLock()
	expiresAt, ok := r.sessions[token]
	r.mu.RUnlock()

	if !ok {
		return false
	}

	now := r.now()
	if now.Before(expiresAt) {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// entry may be replaced between locks
	if exp, ok := r.sessions[token]; ok && !now.Before(exp) {
		delete(r.sessions, token)
	}

	return false
}

// Revoke remove session; unknown token is ignored.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
}

// Count return number of stored (possible expired) sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Sweep remove all expired sessions and return number of removed entries.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0

	for token, expiresAt := range r.sessions {
		if !now.Before(expiresAt) {
			delete(r.sessions, token)

			removed++
		}
	}

	return removed
}
