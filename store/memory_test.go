package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princeade/taskvault/models"
)

func TestMemoryUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserStore()

	first := models.User{Name: "A", Email: "a@b.com", PasswordHash: "h1"}
	require.NoError(t, users.Insert(ctx, &first))
	require.False(t, first.ID.IsZero())

	second := models.User{Name: "B", Email: "a@b.com", PasswordHash: "h2"}
	assert.ErrorIs(t, users.Insert(ctx, &second), ErrDuplicate)

	// first registration unaffected
	got, err := users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestMemoryUserStore_EmailIsExactMatch(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserStore()

	require.NoError(t, users.Insert(ctx, &models.User{Name: "A", Email: "A@b.com"}))

	// case-sensitive: a different casing is a different account
	_, err := users.FindByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, users.Insert(ctx, &models.User{Name: "B", Email: "a@b.com"}))
}

func TestMemoryTokenLedger(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryTokenLedger()
	userID := bson.NewObjectID()

	record := models.RefreshTokenRecord{
		Token:     "tok-1",
		UserID:    userID,
		Type:      models.TokenTypeRefresh,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, ledger.Insert(ctx, &record))
	assert.ErrorIs(t, ledger.Insert(ctx, &models.RefreshTokenRecord{Token: "tok-1"}), ErrDuplicate)

	got, err := ledger.Find(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, got.Blacklisted)

	_, err = ledger.Find(ctx, "tok-2")
	assert.ErrorIs(t, err, ErrNotFound)

	blacklisted, err := ledger.IsBlacklisted(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, ledger.Revoke(ctx, "tok-1"))
	blacklisted, err = ledger.IsBlacklisted(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// revoking again, or revoking an unknown token, is not an error
	assert.NoError(t, ledger.Revoke(ctx, "tok-1"))
	assert.NoError(t, ledger.Revoke(ctx, "never-issued"))

	// the record survives revocation (append-only ledger)
	got, err = ledger.Find(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.Blacklisted)
}

func TestMemoryTodoStore(t *testing.T) {
	ctx := context.Background()
	todos := NewMemoryTodoStore()
	alice := bson.NewObjectID()
	bob := bson.NewObjectID()

	a1 := models.Todo{Title: "a1", Description: "d", Status: models.StatusPending, Owner: alice, DueDate: time.Now()}
	a2 := models.Todo{Title: "a2", Description: "d", Status: models.StatusPending, Owner: alice, DueDate: time.Now()}
	b1 := models.Todo{Title: "b1", Description: "d", Status: models.StatusPending, Owner: bob, DueDate: time.Now()}
	require.NoError(t, todos.Insert(ctx, &a1))
	require.NoError(t, todos.Insert(ctx, &a2))
	require.NoError(t, todos.Insert(ctx, &b1))

	list, err := todos.FindByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	a1.Status = models.StatusCompleted
	require.NoError(t, todos.Update(ctx, &a1))
	got, err := todos.FindByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	require.NoError(t, todos.Delete(ctx, a1.ID))
	_, err = todos.FindByID(ctx, a1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, todos.Delete(ctx, a1.ID), ErrNotFound)

	missing := models.Todo{ID: bson.NewObjectID(), Title: "x"}
	assert.ErrorIs(t, todos.Update(ctx, &missing), ErrNotFound)
}
