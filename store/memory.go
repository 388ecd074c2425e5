package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princeade/taskvault/models"
)

// In-memory implementations. They back the handler tests and a
// database-less dev mode; semantics mirror the Mongo implementations,
// including the unique email and token indexes.

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[bson.ObjectID]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[bson.ObjectID]*models.User)}
}

func (s *MemoryUserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

type MemoryTokenLedger struct {
	mu      sync.RWMutex
	records map[string]*models.RefreshTokenRecord // keyed by exact token string
}

func NewMemoryTokenLedger() *MemoryTokenLedger {
	return &MemoryTokenLedger{records: make(map[string]*models.RefreshTokenRecord)}
}

func (l *MemoryTokenLedger) Insert(ctx context.Context, record *models.RefreshTokenRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[record.Token]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	record.ID = bson.NewObjectID()
	record.CreatedAt = now
	record.UpdatedAt = now

	clone := *record
	l.records[record.Token] = &clone
	return nil
}

func (l *MemoryTokenLedger) Find(ctx context.Context, token string) (*models.RefreshTokenRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.records[token]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (l *MemoryTokenLedger) Revoke(ctx context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.records[token]; ok {
		r.Blacklisted = true
		r.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (l *MemoryTokenLedger) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.records[token]
	return ok && r.Blacklisted, nil
}

type MemoryTodoStore struct {
	mu    sync.RWMutex
	todos map[bson.ObjectID]*models.Todo
}

func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{todos: make(map[bson.ObjectID]*models.Todo)}
}

func (s *MemoryTodoStore) Insert(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	todo.ID = bson.NewObjectID()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	clone := *todo
	s.todos[todo.ID] = &clone
	return nil
}

func (s *MemoryTodoStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *MemoryTodoStore) FindByOwner(ctx context.Context, owner bson.ObjectID) ([]models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	todos := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.Owner == owner {
			todos = append(todos, *t)
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
	return todos, nil
}

func (s *MemoryTodoStore) Update(ctx context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.todos[todo.ID]
	if !ok {
		return ErrNotFound
	}
	todo.UpdatedAt = time.Now().UTC()
	todo.CreatedAt = existing.CreatedAt

	clone := *todo
	s.todos[todo.ID] = &clone
	return nil
}

func (s *MemoryTodoStore) Delete(ctx context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}
