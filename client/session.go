package client

import (
	"context"
	"errors"
	"sync"
)

// State of a session. Transitions are driven by Init, RequestRenewal,
// Login and Logout only; resource calls never change state themselves.
type State int

const (
	Unauthenticated State = iota
	Verifying
	Authenticated
	Renewing
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	case Renewing:
		return "renewing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotLoggedIn: no stored access token; the caller should send the
	// user to the login screen.
	ErrNotLoggedIn = errors.New("client: not logged in")

	// ErrSessionExpired: a resource call failed on credentials. The
	// caller surfaces a "session expired, try again" prompt whose
	// confirmation calls RequestRenewal — resource calls never renew
	// inline, so there are no retry loops and renewal logic lives in
	// one place.
	ErrSessionExpired = errors.New("client: session expired")
)

// TokenStore holds the current access token. The in-memory
// implementation stands in for the browser's local storage.
type TokenStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

type memTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemTokenStore() TokenStore { return &memTokenStore{} }

func (m *memTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *memTokenStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *memTokenStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// renewal is one in-flight refresh call. Concurrent callers join it and
// read the same result once done is closed, so a burst of expired-token
// failures produces exactly one refresh request.
type renewal struct {
	done  chan struct{}
	token string
	err   error
}

// Session coordinates authentication state for one client: it verifies
// the stored token on startup, renews it when it expires, and tears
// everything down when renewal is impossible.
type Session struct {
	api    *Client
	tokens TokenStore

	mu      sync.Mutex
	state   State
	user    *User
	epoch   int // bumped when a session generation ends; stale flows check it before writing
	renewal *renewal
}

func NewSession(api *Client, tokens TokenStore) *Session {
	return &Session{api: api, tokens: tokens, state: Unauthenticated}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login authenticates, stores the access token and marks the session
// authenticated.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.tokens.SetToken(token)

	user, err := s.api.Probe(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.mu.Unlock()
	return nil
}

// Init is the mount flow: verify the stored token against the protected
// probe, renewing once if the token has merely expired. A malformed or
// missing token fails immediately — refreshing cannot fix it.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	prev := s.state
	token := s.tokens.Token()
	if token == "" {
		s.state = Unauthenticated
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	s.state = Verifying
	s.mu.Unlock()

	user, err := s.api.Probe(ctx, token)
	if err == nil {
		s.commit(ctx, epoch, user)
		return nil
	}
	if !IsAuthError(err) {
		// Network or server failure: report it, restore the state the
		// flow started from, and do not renew.
		s.setState(epoch, prev)
		return err
	}
	if !renewalEligible(err) {
		s.fail(ctx, epoch)
		return ErrSessionExpired
	}

	return s.renewAndRetry(ctx, epoch, prev)
}

// RequestRenewal is the explicit "session expired, try again"
// confirmation. It re-runs the renewal flow for the current epoch;
// concurrent confirmations share one refresh call.
func (s *Session) RequestRenewal(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	prev := s.state
	s.mu.Unlock()
	return s.renewAndRetry(ctx, epoch, prev)
}

func (s *Session) renewAndRetry(ctx context.Context, epoch int, prev State) error {
	s.setState(epoch, Renewing)

	token, err := s.renew(ctx)
	if err != nil {
		if IsAuthError(err) {
			s.fail(ctx, epoch)
			return ErrSessionExpired
		}
		s.setState(epoch, prev)
		return err
	}

	// Retry the probe exactly once, and always with the token the
	// renewal produced — never one captured before it began.
	user, err := s.api.Probe(ctx, token)
	if err != nil {
		if IsAuthError(err) {
			s.fail(ctx, epoch)
			return ErrSessionExpired
		}
		s.setState(epoch, prev)
		return err
	}

	s.commit(ctx, epoch, user)
	return nil
}

// renew performs the single-flight refresh: the first caller issues the
// request, everyone else waits on it and shares the result.
func (s *Session) renew(ctx context.Context) (string, error) {
	s.mu.Lock()
	if r := s.renewal; r != nil {
		s.mu.Unlock()
		select {
		case <-r.done:
			return r.token, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	epoch := s.epoch
	r := &renewal{done: make(chan struct{})}
	s.renewal = r
	s.mu.Unlock()

	token, err := s.api.RefreshToken(ctx)

	s.mu.Lock()
	// Only store the token if the session generation is still the one
	// the renewal started under: a logout that landed mid-flight has
	// already cleared the store, and writing the fresh token back would
	// resurrect the ended session.
	if err == nil && s.epoch == epoch {
		s.tokens.SetToken(token)
	}
	s.renewal = nil
	s.mu.Unlock()

	r.token, r.err = token, err
	close(r.done)
	return token, err
}

// Logout revokes the refresh token server-side and clears all local
// session state. The server treats logout as idempotent, so a failed
// call still tears down locally.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.tokens.Clear()
	s.mu.Lock()
	s.epoch++
	s.state = Unauthenticated
	s.user = nil
	s.mu.Unlock()
	return err
}

// Todos lists the session user's todos. An auth failure surfaces as
// ErrSessionExpired for the caller to confirm; no inline renewal.
func (s *Session) Todos(ctx context.Context) ([]TodoItem, error) {
	items, err := s.api.ListTodos(ctx, s.tokens.Token())
	if err != nil {
		return nil, s.resourceErr(err)
	}
	return items, nil
}

func (s *Session) CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	todo, err := s.api.CreateTodo(ctx, s.tokens.Token(), req)
	if err != nil {
		return nil, s.resourceErr(err)
	}
	return todo, nil
}

func (s *Session) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*Todo, error) {
	todo, err := s.api.UpdateTodo(ctx, s.tokens.Token(), id, req)
	if err != nil {
		return nil, s.resourceErr(err)
	}
	return todo, nil
}

func (s *Session) DeleteTodo(ctx context.Context, id string) error {
	if err := s.api.DeleteTodo(ctx, s.tokens.Token(), id); err != nil {
		return s.resourceErr(err)
	}
	return nil
}

func (s *Session) resourceErr(err error) error {
	if IsAuthError(err) {
		return ErrSessionExpired
	}
	return err
}

// commit moves the session to Authenticated, unless the context was
// canceled or the epoch moved on while the flow was in flight (the
// stale-response guard).
func (s *Session) commit(ctx context.Context, epoch int, user *User) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.state = Authenticated
	s.user = user
}

// fail tears the session down: token, user and epoch all go, so any
// in-flight flow from the old generation cannot write back.
func (s *Session) fail(ctx context.Context, epoch int) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.tokens.Clear()
	s.epoch++
	s.state = Failed
	s.user = nil
}

func (s *Session) setState(epoch int, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.state = state
}
