package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventora/webclient/internal/cart"
	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/gateway"
)

func newClient(t *testing.T) *gateway.Client {
	t.Helper()
	client, err := gateway.New("http://127.0.0.1:1", time.Second)
	require.NoError(t, err)
	return client
}

func TestLoadGetClear(t *testing.T) {
	m := NewManager(time.Hour)
	user := domain.UserInfo{ID: "u1", Name: "Owner", Email: "owner@shop.in"}

	s := m.Load(user, newClient(t))
	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got.User)

	assert.Same(t, s, m.Clear(s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Nil(t, m.Clear(s.ID))
}

func TestExpiredSessionsAreRejectedAndSwept(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	a := m.Load(domain.UserInfo{ID: "a"}, newClient(t))
	now = now.Add(30 * time.Second)
	b := m.Load(domain.UserInfo{ID: "b"}, newClient(t))

	now = now.Add(45 * time.Second)
	_, err := m.Get(a.ID)
	assert.ErrorIs(t, err, ErrExpired)

	assert.Equal(t, 0, m.Sweep())
	now = now.Add(time.Minute)
	assert.Equal(t, 1, m.Sweep())
	_, err = m.Get(b.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 0, m.Len())
}

func TestWithComposerReusesOneComposer(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Load(domain.UserInfo{ID: "u1"}, newClient(t))

	var first *cart.Composer
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[*cart.Composer]bool{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithComposer(func(c *cart.Composer) error {
				mu.Lock()
				seen[c] = true
				first = c
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1)
	assert.NotNil(t, first)
}
