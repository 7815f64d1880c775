package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inflationdash/domain/core"
	"inflationdash/internal/reactive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	manager *Manager
	upper   reactive.Key[string]
	clock   *time.Time
}

func newHarness(t *testing.T, ttl time.Duration) harness {
	t.Helper()
	bp := reactive.NewBlueprint()
	upper := reactive.MustDefine(bp, "upper", reactive.On(reactive.Selection), func(s *reactive.Scope) (string, error) {
		return strings.ToUpper(s.Selection()), nil
	})
	valid := map[string]bool{"Japan": true, "Canada": true}
	m := NewManager(func() (*reactive.Graph, error) {
		return bp.NewGraph("Japan", func(e string) error {
			if !valid[e] {
				return errors.New("unknown")
			}
			return nil
		})
	}, ttl)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	return harness{manager: m, upper: upper, clock: &clock}
}

func TestManager_CreateGetClose(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	s, err := h.manager.Create(ctx)
	require.NoError(t, err)
	assert.False(t, s.ID.IsEmpty())
	assert.Equal(t, 1, h.manager.Len())

	got, err := h.manager.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, h.manager.Close(s.ID))
	_, err = h.manager.Get(s.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.True(t, core.IsNotFoundError(err))
	assert.ErrorIs(t, h.manager.Close(s.ID), core.ErrSessionNotFound)
}

func TestManager_CreateHonoursContext(t *testing.T) {
	h := newHarness(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.manager.Create(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_FactoryError(t *testing.T) {
	m := NewManager(func() (*reactive.Graph, error) {
		return nil, errors.New("boom")
	}, 0)
	_, err := m.Create(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestManager_SessionIsolation(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	a, err := h.manager.Create(ctx)
	require.NoError(t, err)
	b, err := h.manager.Create(ctx)
	require.NoError(t, err)

	_, err = reactive.Get(a.Graph, h.upper)
	require.NoError(t, err)
	_, err = reactive.Get(b.Graph, h.upper)
	require.NoError(t, err)

	require.NoError(t, a.Graph.Select("Canada"))

	v, err := reactive.Get(a.Graph, h.upper)
	require.NoError(t, err)
	assert.Equal(t, "CANADA", v)

	cached, ok := reactive.Peek(b.Graph, h.upper)
	assert.True(t, ok)
	assert.Equal(t, "JAPAN", cached)
	assert.Equal(t, "Japan", b.Graph.Selection())
	assert.Equal(t, 1, b.Graph.Stats()["upper"])
}

func TestManager_Prune(t *testing.T) {
	h := newHarness(t, time.Hour)
	ctx := context.Background()

	old, err := h.manager.Create(ctx)
	require.NoError(t, err)

	*h.clock = h.clock.Add(30 * time.Minute)
	fresh, err := h.manager.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.SessionID{old.ID, fresh.ID}, h.manager.IDs())

	*h.clock = h.clock.Add(45 * time.Minute)
	_, err = h.manager.Get(fresh.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, h.manager.Prune(time.Hour))
	_, err = h.manager.Get(old.ID)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = h.manager.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestManager_CreatePrunesIdle(t *testing.T) {
	h := newHarness(t, time.Minute)
	ctx := context.Background()

	_, err := h.manager.Create(ctx)
	require.NoError(t, err)

	*h.clock = h.clock.Add(2 * time.Minute)
	_, err = h.manager.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.manager.Len())
}
