package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateDefaultsToDraft(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "Ada", "ada@example.com")

	id, err := posts.Create(ctx, &models.Post{Title: "Hello", Content: "World", UserID: author.ID})
	require.NoError(t, err)

	p, err := posts.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.PostStatusDraft, p.Status)
	require.NotNil(t, p.User)
	assert.Equal(t, "Ada", p.User.Name)
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "Ada", "ada@example.com")

	id, err := posts.Create(ctx, &models.Post{Title: "Hello", Content: "World", UserID: author.ID, Status: models.PostStatusDraft})
	require.NoError(t, err)

	ok, err := posts.Update(ctx, id, map[string]any{"title": "Changed", "status": models.PostStatusPublished, "id": 500})
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := posts.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Changed", p.Title)
	assert.Equal(t, models.PostStatusPublished, p.Status)
	assert.Equal(t, id, p.ID)

	ok, err = posts.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	p, err = posts.Find(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPostRepository_PaginateWithUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "Ada", "ada@example.com")

	base := time.Now().Add(-time.Hour)
	for i, status := range []models.PostStatus{
		models.PostStatusPublished,
		models.PostStatusDraft,
		models.PostStatusPublished,
		models.PostStatusPublished,
	} {
		_, err := posts.Create(ctx, &models.Post{
			Title:     "post",
			Content:   "body",
			UserID:    author.ID,
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, err := posts.PaginateWithUser(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, uint(4), page.Items[0].ID)
	assert.Equal(t, uint(3), page.Items[1].ID)
	assert.Equal(t, "Ada", page.Items[0].UserName)

	second, err := posts.PaginateWithUser(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, uint(1), second.Items[0].ID)
}

func TestPostRepository_PaginateAndFindAllByUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	ada := createUser(t, users, "Ada", "ada@example.com")
	bob := createUser(t, users, "Bob", "bob@example.com")

	for _, uid := range []uint{ada.ID, bob.ID, ada.ID} {
		_, err := posts.Create(ctx, &models.Post{Title: "t", Content: "c", UserID: uid})
		require.NoError(t, err)
	}

	page, err := posts.Paginate(ctx, 15, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 3)
	require.NotNil(t, page.Items[1].User)
	assert.Equal(t, "Bob", page.Items[1].User.Name)

	mine, err := posts.FindAllByUser(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
