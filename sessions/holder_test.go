package sessions_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/internal/testfixtures"
	"github.com/jrsteele09/go-calendar-client/sessions"
	tokenfakerepo "github.com/jrsteele09/go-calendar-client/token/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type holderFixture struct {
	store     *tokenfakerepo.FakeTokenStore
	clock     *testfixtures.Clock
	scheduler *testfixtures.Scheduler
	holder    *sessions.Holder
	states    []sessions.State
}

func setupHolder(t *testing.T) *holderFixture {
	t.Helper()

	f := &holderFixture{
		store:     tokenfakerepo.NewFakeTokenStore(),
		clock:     testfixtures.NewClock(time.Time{}),
		scheduler: testfixtures.NewScheduler(),
	}
	f.holder = sessions.NewHolder(f.store,
		sessions.WithNowFunc(f.clock.Now),
		sessions.WithAfterFunc(f.scheduler.AfterFunc),
		sessions.WithLogger(zerolog.Nop()),
	)
	return f
}

func (f *holderFixture) subscribe() {
	f.holder.Subscribe(func(s sessions.State) {
		f.states = append(f.states, s)
	})
}

func (f *holderFixture) session(id string, ttl time.Duration) *sessions.Session {
	return &sessions.Session{
		ID:        id,
		Email:     id + "@example.com",
		Token:     "token-" + id,
		ExpiresAt: f.clock.Now().Add(ttl),
	}
}

func (f *holderFixture) storeSession(t *testing.T, s *sessions.Session) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, f.store.Save(context.Background(), string(data)))
}

func TestHolder_StartsAnonymous(t *testing.T) {
	f := setupHolder(t)

	require.Nil(t, f.holder.Current())
	require.False(t, f.holder.IsAuthenticated())

	_, err := f.holder.Token()
	require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestHolder_Establish(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticates, persists and arms timer", func(t *testing.T) {
		f := setupHolder(t)
		f.subscribe()

		s := f.session("42", time.Hour)
		require.NoError(t, f.holder.Establish(ctx, s))

		current := f.holder.Current()
		require.NotNil(t, current)
		require.Equal(t, "42", current.ID)
		require.True(t, f.holder.IsAuthenticated())

		stored, found := f.store.Peek()
		require.True(t, found)
		var persisted sessions.Session
		require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
		require.Equal(t, "token-42", persisted.Token)
		require.True(t, persisted.ExpiresAt.Equal(s.ExpiresAt))

		pending := f.scheduler.Pending()
		require.Len(t, pending, 1)
		require.Equal(t, time.Hour, pending[0].Delay)

		require.Len(t, f.states, 2)
		require.False(t, f.states[0].Authenticated)
		require.True(t, f.states[1].Authenticated)
		require.Equal(t, "42", f.states[1].Session.ID)
	})

	t.Run("replace cancels the previous timer", func(t *testing.T) {
		f := setupHolder(t)

		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))
		first := f.scheduler.Last()
		require.NoError(t, f.holder.Establish(ctx, f.session("2", 2*time.Hour)))

		require.True(t, first.Stopped())
		pending := f.scheduler.Pending()
		require.Len(t, pending, 1)
		require.Equal(t, 2*time.Hour, pending[0].Delay)
		require.Equal(t, "2", f.holder.Current().ID)
	})

	t.Run("stale timer firing after replace is ignored", func(t *testing.T) {
		f := setupHolder(t)

		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))
		first := f.scheduler.Last()
		require.NoError(t, f.holder.Establish(ctx, f.session("2", time.Hour)))

		first.Fire()

		require.True(t, f.holder.IsAuthenticated())
		require.Equal(t, "2", f.holder.Current().ID)
		_, found := f.store.Peek()
		require.True(t, found)
	})

	t.Run("already expired session reads anonymous", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))

		err := f.holder.Establish(ctx, f.session("2", -time.Minute))
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)

		require.False(t, f.holder.IsAuthenticated())
		require.Nil(t, f.holder.Current())
		_, found := f.store.Peek()
		require.False(t, found)
		require.Empty(t, f.scheduler.Pending())
	})

	t.Run("store failure leaves state unchanged", func(t *testing.T) {
		f := setupHolder(t)
		f.store.Err = errors.New("disk full")

		err := f.holder.Establish(ctx, f.session("1", time.Hour))
		require.Error(t, err)
		require.False(t, f.holder.IsAuthenticated())
		require.Empty(t, f.scheduler.All())
	})

	t.Run("nil session", func(t *testing.T) {
		f := setupHolder(t)
		require.Error(t, f.holder.Establish(ctx, nil))
	})
}

func TestHolder_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("removes stored session and cancels timer", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))
		timer := f.scheduler.Last()
		f.subscribe()

		require.NoError(t, f.holder.Clear(ctx))

		require.False(t, f.holder.IsAuthenticated())
		_, found := f.store.Peek()
		require.False(t, found)
		require.True(t, timer.Stopped())
		require.Len(t, f.states, 2)
		require.True(t, f.states[0].Authenticated)
		require.False(t, f.states[1].Authenticated)
		require.Nil(t, f.states[1].Session)
	})

	t.Run("idempotent when anonymous", func(t *testing.T) {
		f := setupHolder(t)
		f.subscribe()

		require.NoError(t, f.holder.Clear(ctx))
		require.NoError(t, f.holder.Clear(ctx))

		require.False(t, f.holder.IsAuthenticated())
		require.Len(t, f.states, 1)
	})

	t.Run("goes anonymous even when the store fails", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))
		f.store.Err = errors.New("locked")

		require.Error(t, f.holder.Clear(ctx))
		require.False(t, f.holder.IsAuthenticated())
	})
}

func TestHolder_Expiry(t *testing.T) {
	ctx := context.Background()

	t.Run("timer logs out", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Hour)))
		f.subscribe()

		f.clock.Advance(time.Hour)
		f.scheduler.Last().Fire()

		require.False(t, f.holder.IsAuthenticated())
		_, found := f.store.Peek()
		require.False(t, found)
		require.Len(t, f.states, 2)
		require.False(t, f.states[1].Authenticated)
	})

	t.Run("expired session reads absent before the timer fires", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Establish(ctx, f.session("1", time.Minute)))

		f.clock.Advance(2 * time.Minute)

		require.Nil(t, f.holder.Current())
		require.False(t, f.holder.IsAuthenticated())
		_, err := f.holder.Token()
		require.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

		// still persisted until explicitly cleared
		_, found := f.store.Peek()
		require.True(t, found)
	})
}

func TestHolder_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("valid session is restored with remaining duration", func(t *testing.T) {
		f := setupHolder(t)
		f.storeSession(t, f.session("7", 30*time.Minute))

		require.NoError(t, f.holder.Restore(ctx))

		require.True(t, f.holder.IsAuthenticated())
		require.Equal(t, "7", f.holder.Current().ID)
		require.Equal(t, 30*time.Minute, f.scheduler.Last().Delay)
	})

	t.Run("expired session is discarded", func(t *testing.T) {
		f := setupHolder(t)
		f.storeSession(t, f.session("7", -time.Second))
		f.subscribe()

		require.NoError(t, f.holder.Restore(ctx))

		require.False(t, f.holder.IsAuthenticated())
		_, found := f.store.Peek()
		require.False(t, found)
		require.Empty(t, f.scheduler.All())
		require.Len(t, f.states, 1, "never surfaced as authenticated")
	})

	t.Run("unreadable entry is discarded", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.store.Save(ctx, "{not json"))

		require.NoError(t, f.holder.Restore(ctx))

		require.False(t, f.holder.IsAuthenticated())
		_, found := f.store.Peek()
		require.False(t, found)
	})

	t.Run("empty store", func(t *testing.T) {
		f := setupHolder(t)
		require.NoError(t, f.holder.Restore(ctx))
		require.False(t, f.holder.IsAuthenticated())
	})

	t.Run("load failure", func(t *testing.T) {
		f := setupHolder(t)
		f.store.Err = errors.New("io error")
		require.Error(t, f.holder.Restore(ctx))
	})
}

func TestHolder_Token(t *testing.T) {
	f := setupHolder(t)
	require.NoError(t, f.holder.Establish(context.Background(), f.session("1", time.Hour)))

	tok, err := f.holder.Token()
	require.NoError(t, err)
	require.Equal(t, "token-1", tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())
}

func TestHolder_Unsubscribe(t *testing.T) {
	f := setupHolder(t)
	calls := 0
	unsubscribe := f.holder.Subscribe(func(sessions.State) { calls++ })
	require.Equal(t, 1, calls)

	unsubscribe()
	require.NoError(t, f.holder.Establish(context.Background(), f.session("1", time.Hour)))
	require.Equal(t, 1, calls)
}
