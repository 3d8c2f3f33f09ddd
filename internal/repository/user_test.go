package repository

import (
	"errors"
	"testing"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/testing/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)
	ctx := tdb.Ctx()

	u := &model.User{Username: "carol", Email: "carol@example.com", Hash: "hash"}
	require.NoError(t, users.Create(ctx, u))
	assert.True(t, inTable(u.ID, userTable))
	assert.False(t, u.CreatedOn.IsZero())

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "carol", byID.Username)
	assert.Equal(t, "hash", byID.Hash)
	assert.Empty(t, byID.AuthorOf)

	missing, err := users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)
	ctx := tdb.Ctx()

	require.NoError(t, users.Create(ctx, &model.User{Username: "dave", Hash: "x"}))
	err := users.Create(ctx, &model.User{Username: "dave", Hash: "y"})

	assert.True(t, errors.Is(err, database.ErrDuplicate), "got %v", err)
}

func TestUserRepository_GetByID_OtherTable(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)

	got, err := users.GetByID(tdb.Ctx(), "packlist:abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_AppendAuthorOfKeepsOrder(t *testing.T) {
	tdb := testdb.New(t)
	users := NewUserRepository(tdb.DB)
	ctx := tdb.Ctx()

	u := &model.User{Username: "erin", Hash: "x"}
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, users.AppendAuthorOf(ctx, u.ID, "packlist:one"))
	require.NoError(t, users.AppendAuthorOf(ctx, u.ID, "packlist:two"))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"packlist:one", "packlist:two"}, got.AuthorOf)
}
