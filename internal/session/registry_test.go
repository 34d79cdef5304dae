package session

//
// registry_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"sync"
	"testing"
	"time"

	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}

	reg, err := NewRegistry(ttl, WithClock(clock.Now))
	assert.NoErr(t, err)

	return reg, clock
}

func TestNewRegistryInvalidTTL(t *testing.T) {
	_, err := NewRegistry(0)
	assert.Err(t, err)
	assert.True(t, aerr.HasTag(err, aerr.ConfigurationError))

	_, err = NewRegistry(-time.Second)
	assert.Err(t, err)
}

func TestRegistryLifecycle(t *testing.T) {
	reg, clock := newTestRegistry(t, time.Hour)

	token := reg.Create()
	assert.Equal(t, len(token), 32)
	assert.True(t, reg.IsValid(token))
	assert.Equal(t, reg.Count(), 1)

	clock.Advance(59 * time.Minute)
	assert.True(t, reg.IsValid(token))

	// expiresAt == now is already expired
	clock.Advance(time.Minute)
	assert.True(t, !reg.IsValid(token))
	assert.Equal(t, reg.Count(), 0)
}

func TestRegistryUnknownAndEmptyToken(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Hour)

	assert.True(t, !reg.IsValid(""))
	assert.True(t, !reg.IsValid("0123456789abcdef0123456789abcdef"))
}

func TestRegistryRevoke(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Hour)

	token := reg.Create()
	reg.Revoke(token)
	assert.True(t, !reg.IsValid(token))

	// idempotent
	reg.Revoke(token)
	reg.Revoke("unknown")
	assert.Equal(t, reg.Count(), 0)
}

func TestRegistryCreateCollision(t *testing.T) {
	tokens := []string{"aaa", "aaa", "", "bbb"}
	idx := 0

	reg, err := NewRegistry(time.Hour, WithTokenGenerator(func() string {
		tok := tokens[idx]
		idx++

		return tok
	}))
	assert.NoErr(t, err)

	assert.Equal(t, reg.Create(), "aaa")
	assert.Equal(t, reg.Create(), "bbb")
	assert.Equal(t, reg.Count(), 2)
}

func TestRegistryCollisionWithExpired(t *testing.T) {
	tokens := []string{"aaa", "aaa", "ccc"}
	idx := 0
	clock := &fakeClock{now: time.Now()}

	reg, err := NewRegistry(time.Minute, WithClock(clock.Now), WithTokenGenerator(func() string {
		tok := tokens[idx]
		idx++

		return tok
	}))
	assert.NoErr(t, err)

	assert.Equal(t, reg.Create(), "aaa")
	clock.Advance(2 * time.Minute)
	// expired entry still stored; new token must be different
	assert.Equal(t, reg.Create(), "ccc")
	assert.True(t, !reg.IsValid("aaa"))
	assert.True(t, reg.IsValid("ccc"))
}

func TestRegistryRelogin(t *testing.T) {
	reg, _ := newTestRegistry(t, time.Hour)

	t1 := reg.Create()
	t2 := reg.Create()

	assert.NotEqual(t, t1, t2)
	assert.True(t, reg.IsValid(t1))
	assert.True(t, reg.IsValid(t2))
}

func TestRegistrySweep(t *testing.T) {
	reg, clock := newTestRegistry(t, time.Minute)

	reg.Create()
	reg.Create()
	clock.Advance(30 * time.Second)

	live := reg.Create()

	clock.Advance(45 * time.Second)

	assert.Equal(t, reg.Sweep(), 2)
	assert.Equal(t, reg.Count(), 1)
	assert.True(t, reg.IsValid(live))
	assert.Equal(t, reg.Sweep(), 0)
}

func TestRegistryConcurrent(t *testing.T) {
	reg, clock := newTestRegistry(t, time.Hour)

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 50 {
				token := reg.Create()
				if !reg.IsValid(token) {
					t.Errorf("token %d/%d not valid", i, j)
				}

				if j%3 == 0 {
					reg.Revoke(token)
				}

				if j%10 == 0 {
					clock.Advance(time.Second)
					reg.Sweep()
				}
			}
		}()
	}

	wg.Wait()

	assert.True(t, reg.Count() <= 20*50)
}

func TestRegistryConcurrentCreateDistinct(t *testing.T) {
	const workers = 64

	reg, err := NewRegistry(time.Hour)
	assert.NoErr(t, err)

	tokens := make(chan string, workers)
	start := make(chan struct{})

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start
			tokens <- reg.Create()
		}()
	}

	close(start)
	wg.Wait()
	close(tokens)

	seen := make(map[string]struct{}, workers)
	for token := range tokens {
		seen[token] = struct{}{}
	}

	assert.Equal(t, len(seen), workers)
	assert.Equal(t, reg.Count(), workers)

	for token := range seen {
		assert.True(t, reg.IsValid(token))
	}
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]struct{})

	for range 100 {
		token := NewToken()
		assert.Equal(t, len(token), 32)

		for _, c := range token {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				t.Fatalf("invalid char %q in token %q", c, token)
			}
		}

		if _, ok := seen[token]; ok {
			t.Fatalf("duplicated token %q", token)
		}

		seen[token] = struct{}{}
	}
}
