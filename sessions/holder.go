package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Timer is a cancellable scheduled callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Listener is called with the new state after every transition.
type Listener func(State)

var _ oauth2.TokenSource = (*Holder)(nil)

// Holder owns the current session. It has two states, Anonymous and
// Authenticated, and moves between them only through Restore, Establish, Clear
// and the expiry timer. At most one expiry timer is armed at any time.
type Holder struct {
	store     token.Store
	log       zerolog.Logger
	nowFunc   func() time.Time
	afterFunc AfterFunc

	// transition serialises state changes and listener delivery.
	transition sync.Mutex

	mu         sync.RWMutex
	session    *Session
	timer      Timer
	generation uint64

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// HolderOption defines a function type to modify the Holder instance.
type HolderOption func(*Holder)

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) HolderOption {
	return func(h *Holder) {
		h.nowFunc = now
	}
}

// WithAfterFunc sets the timer factory used for auto logout (primarily for testing)
func WithAfterFunc(afterFunc AfterFunc) HolderOption {
	return func(h *Holder) {
		h.afterFunc = afterFunc
	}
}

func WithLogger(logger zerolog.Logger) HolderOption {
	return func(h *Holder) {
		h.log = logger
	}
}

// NewHolder creates an Anonymous holder backed by store. Call Restore to pick
// up a session persisted by a previous process.
func NewHolder(store token.Store, options ...HolderOption) *Holder {
	h := &Holder{
		store:   store,
		log:     log.Logger,
		nowFunc: time.Now,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		listeners: make(map[int]Listener),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// Restore loads the persisted session. A session that is still valid becomes
// current and its expiry timer is armed for the remaining time. Anything else
// (nothing stored, unreadable, expired) leaves the holder Anonymous and removes
// the stale entry. An expired session is never surfaced as Authenticated.
func (h *Holder) Restore(ctx context.Context) error {
	h.transition.Lock()
	defer h.transition.Unlock()

	raw, found, err := h.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("[Holder Restore] load session: %w", err)
	}
	if !found {
		h.setLocked(nil)
		return nil
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		h.log.Warn().Err(err).Msg("Discarding unreadable stored session")
		return h.discardLocked(ctx)
	}
	if s.Token == "" || !s.IsValid(h.nowFunc()) {
		h.log.Info().Object("session", &s).Msg("Discarding expired stored session")
		return h.discardLocked(ctx)
	}

	h.setLocked(&s)
	h.log.Debug().Object("session", &s).Msg("Session restored")
	return nil
}

// Establish makes s the current session, persisting it first. Any previously
// armed timer is cancelled before the new one is armed. A session that has
// already expired is not established: the store is cleared, the holder ends
// Anonymous and ErrSessionExpired is returned.
func (h *Holder) Establish(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("[Holder Establish] session is required")
	}

	h.transition.Lock()
	defer h.transition.Unlock()

	if !s.IsValid(h.nowFunc()) {
		if err := h.discardLocked(ctx); err != nil {
			return err
		}
		return fmt.Errorf("[Holder Establish] %w: expired at %s", apperrors.ErrSessionExpired, s.ExpiresAt.Format(time.RFC3339))
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("[Holder Establish] encode session: %w", err)
	}
	if err := h.store.Save(ctx, string(data)); err != nil {
		return fmt.Errorf("[Holder Establish] save session: %w", err)
	}

	established := *s
	h.setLocked(&established)
	h.log.Info().Object("session", &established).Msg("Session established")
	return nil
}

// Clear logs out: the store is cleared, the timer cancelled and the holder
// becomes Anonymous. The in-memory transition happens even if the store fails.
func (h *Holder) Clear(ctx context.Context) error {
	h.transition.Lock()
	defer h.transition.Unlock()

	return h.discardLocked(ctx)
}

// Current returns a copy of the session, or nil when Anonymous or expired.
func (h *Holder) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.session.IsValid(h.nowFunc()) {
		return nil
	}
	s := *h.session
	return &s
}

// IsAuthenticated reports whether a valid session is held.
func (h *Holder) IsAuthenticated() bool {
	return h.Current() != nil
}

// State returns the current session view and authenticated flag together.
func (h *Holder) State() State {
	s := h.Current()
	return State{Session: s, Authenticated: s != nil}
}

// Token implements oauth2.TokenSource. It fails with ErrNotAuthenticated when
// there is no valid session.
func (h *Holder) Token() (*oauth2.Token, error) {
	s := h.Current()
	if s == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.OAuth2Token(), nil
}

// Subscribe registers l. It is called immediately with the current state and
// then after every transition, in order. The returned func unsubscribes.
// Listeners must not call Restore, Establish, Clear or Subscribe.
func (h *Holder) Subscribe(l Listener) (unsubscribe func()) {
	h.transition.Lock()
	defer h.transition.Unlock()

	h.listenersMu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.listenersMu.Unlock()

	l(h.State())

	return func() {
		h.listenersMu.Lock()
		delete(h.listeners, id)
		h.listenersMu.Unlock()
	}
}

// discardLocked clears the store and the in-memory session.
func (h *Holder) discardLocked(ctx context.Context) error {
	err := h.store.Clear(ctx)
	h.setLocked(nil)
	if err != nil {
		h.log.Err(err).Msg("Failed to clear stored session")
		return fmt.Errorf("[Holder Clear] clear store: %w", err)
	}
	return nil
}

// setLocked swaps the session, cancels the old timer and arms a new one for a
// non-nil session. Listeners are told when the holder was or becomes
// Authenticated. Callers hold h.transition.
func (h *Holder) setLocked(s *Session) {
	h.mu.Lock()
	prev := h.session
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.generation++
	h.session = s
	if s != nil {
		generation := h.generation
		h.timer = h.afterFunc(s.Remaining(h.nowFunc()), func() {
			h.expire(generation)
		})
	}
	h.mu.Unlock()

	if prev == nil && s == nil {
		return
	}
	h.notify(h.State())
}

// expire is the timer callback. A callback belonging to a replaced or cleared
// session does nothing.
func (h *Holder) expire(generation uint64) {
	h.transition.Lock()
	defer h.transition.Unlock()

	h.mu.RLock()
	current := h.generation == generation
	h.mu.RUnlock()
	if !current {
		return
	}

	h.log.Info().Msg("Session expired, logging out")
	_ = h.discardLocked(context.Background())
}

func (h *Holder) notify(state State) {
	h.listenersMu.Lock()
	listeners := make([]Listener, 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if l, ok := h.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	h.listenersMu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
