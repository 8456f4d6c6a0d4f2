package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_CreateOnlyWritesFillable(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.Post](db, []string{"title", "content", "user_id", "status", "created_at", "updated_at"})
	ctx := context.Background()

	post := &models.Post{Title: "t", Content: "c", UserID: 1, Image: "/ignored.png", Status: models.PostStatusDraft}
	id, err := m.Create(ctx, post)
	require.NoError(t, err)
	assert.NotZero(t, id)

	found, err := m.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "t", found.Title)
	assert.Empty(t, found.Image)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestModel_FindMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, models.UserFillable)

	u, err := m.Find(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = m.FindBy(context.Background(), "email", "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestModel_FindByRejectsUnknownColumn(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, models.UserFillable)

	_, err := m.FindBy(context.Background(), "email; DROP TABLE users", "x")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = m.FindAllBy(context.Background(), "secret", "x")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestModel_UpdateFiltersAttributes(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, []string{"name"})
	ctx := context.Background()

	require.NoError(t, db.Create(&models.User{Name: "old", Email: "u@example.com", Password: "h"}).Error)

	ok, err := m.Update(ctx, 1, map[string]any{"name": "new", "email": "hacked@example.com"})
	require.NoError(t, err)
	assert.True(t, ok)

	var u models.User
	require.NoError(t, db.First(&u, 1).Error)
	assert.Equal(t, "new", u.Name)
	assert.Equal(t, "u@example.com", u.Email)

	_, err = m.Update(ctx, 1, map[string]any{"email": "x"})
	assert.ErrorIs(t, err, ErrEmptyAttributes)

	ok, err = m.Update(ctx, 77, map[string]any{"name": "ghost"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModel_DeleteAndCount(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, models.UserFillable)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := m.Create(ctx, &models.User{Name: "n", Email: email, Password: "h"})
		require.NoError(t, err)
	}

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ok, err := m.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := m.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestModel_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, models.UserFillable)
	ctx := context.Background()

	_, err := m.Create(ctx, &models.User{Name: "a", Email: "same@example.com", Password: "h"})
	require.NoError(t, err)

	_, err = m.Create(ctx, &models.User{Name: "b", Email: "same@example.com", Password: "h"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestModel_Paginate(t *testing.T) {
	db := setupTestDB(t)
	m := NewModel[models.User](db, models.UserFillable)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.Create(ctx, &models.User{Name: "n", Email: string(rune('a'+i)) + "@example.com", Password: "h"})
		require.NoError(t, err)
	}

	page, err := m.Paginate(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.LastPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint(1), page.Items[0].ID)

	first, err := m.Paginate(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentPage)
	require.Len(t, first.Items, 2)
	assert.Equal(t, uint(5), first.Items[0].ID)
}

func TestModel_CountDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	m := NewModel[models.User](db, models.UserFillable)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
		WillReturnError(errors.New("connection timeout"))

	_, err := m.Paginate(context.Background(), 15, 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookup_Exists(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{Name: "a", Email: "taken@example.com", Password: "h"}).Error)
	l := NewLookup(db)
	ctx := context.Background()

	ok, err := l.Exists(ctx, "users", "email", "taken@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Exists(ctx, "users", "email", "free@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = l.Exists(ctx, "users;--", "email", "x")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
