// Package store holds the persistence layer: user credentials, the
// refresh-token ledger and the todo collection. Each aggregate is an
// interface with a Mongo implementation and an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princeade/taskvault/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// UserStore persists user records. Emails are unique with a
// case-sensitive exact match.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// TokenLedger is the append-only record of issued refresh tokens.
// Revocation flips the blacklisted flag; records are never deleted.
type TokenLedger interface {
	Insert(ctx context.Context, record *models.RefreshTokenRecord) error
	Find(ctx context.Context, token string) (*models.RefreshTokenRecord, error)
	// Revoke blacklists the record holding the exact token string.
	// Revoking an already-revoked or unknown token is not an error.
	Revoke(ctx context.Context, token string) error
	// IsBlacklisted reports whether a blacklisted record exists for the
	// exact token string.
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// TodoStore persists todos. Ownership checks live in the handlers; the
// store only filters by owner where the query asks for it.
type TodoStore interface {
	Insert(ctx context.Context, todo *models.Todo) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Todo, error)
	FindByOwner(ctx context.Context, owner bson.ObjectID) ([]models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id bson.ObjectID) error
}
