package seed

import (
	"context"
	"os"
	"testing"

	"github.com/mohammadDV/new-mvc-framework/database"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	repository.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestSeeder_Run(t *testing.T) {
	db, err := database.Open("sqlite", "", nil)
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(db, &models.User{}, &models.Post{}))
	t.Cleanup(func() { _ = database.Close(db) })

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	res, err := NewSeeder(users, posts, 42).Run(ctx, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 4, Posts: 8}, res)

	demo, err := users.VerifyCredentials(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	require.NotNil(t, demo)

	demoPosts, err := posts.FindAllByUser(ctx, demo.ID)
	require.NoError(t, err)
	assert.Len(t, demoPosts, 2)
	for _, p := range demoPosts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		_, err := models.ParsePostStatus(string(p.Status))
		assert.NoError(t, err)
	}

	t.Run("rerun with the same seed inserts nothing", func(t *testing.T) {
		res, err := NewSeeder(users, posts, 42).Run(ctx, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)

		count, err := users.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)
	})
}
