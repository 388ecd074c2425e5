package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type TokenType string

const (
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeAccess  TokenType = "access"
)

// RefreshTokenRecord is one row of the token ledger. Records are written
// once per login and mutated only to flip Blacklisted; they are never
// physically deleted.
type RefreshTokenRecord struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Token       string        `bson:"token"`
	UserID      bson.ObjectID `bson:"userId"`
	Type        TokenType     `bson:"type"`
	Blacklisted bool          `bson:"blacklisted"`
	ExpiresAt   time.Time     `bson:"expiresAt"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}
