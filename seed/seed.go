// Package seed fills a database with demo users and posts.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// DemoEmail is the account always present after seeding.
const DemoEmail = "demo@example.com"

type Seeder struct {
	users repository.UserRepository
	posts repository.PostRepository
	faker *gofakeit.Faker
}

// NewSeeder uses seed for the fake data so runs are reproducible. Zero picks a random seed.
func NewSeeder(users repository.UserRepository, posts repository.PostRepository, seed int64) *Seeder {
	return &Seeder{users: users, posts: posts, faker: gofakeit.New(seed)}
}

// Result counts what a run actually inserted.
type Result struct {
	Users int
	Posts int
}

// Run makes sure the demo user and numUsers fake users exist. Users created by this run get
// postsPerUser posts each; users found by email are left untouched, so reruns are harmless.
func (s *Seeder) Run(ctx context.Context, numUsers, postsPerUser int) (Result, error) {
	var res Result

	candidates := make([]models.User, 0, numUsers+1)
	candidates = append(candidates, models.User{Name: "Demo User", Email: DemoEmail})
	for i := 0; i < numUsers; i++ {
		candidates = append(candidates, models.User{
			Name:  s.faker.Name(),
			Email: fmt.Sprintf("%s.%d@example.com", strings.ToLower(s.faker.Username()), i+1),
		})
	}

	for _, candidate := range candidates {
		candidate.Password = DemoPassword

		user, created, err := s.users.FindOrCreateByEmail(ctx, &candidate)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", candidate.Email, err)
		}
		if !created {
			slog.DebugContext(ctx, "seed: user exists", "email", user.Email)
			continue
		}
		res.Users++

		for j := 0; j < postsPerUser; j++ {
			if _, err := s.posts.Create(ctx, s.fakePost(user.ID)); err != nil {
				return res, fmt.Errorf("seed post for %s: %w", user.Email, err)
			}
			res.Posts++
		}
	}

	return res, nil
}

func (s *Seeder) fakePost(userID uint) *models.Post {
	status := models.PostStatusPublished
	if s.faker.Number(1, 4) == 1 {
		status = models.PostStatusDraft
	}

	title := strings.TrimSuffix(s.faker.Sentence(5), ".")
	if len(title) > 200 {
		title = title[:200]
	}

	return &models.Post{
		Title:   title,
		Content: s.faker.Paragraph(2, 4, 12, "\n\n"),
		UserID:  userID,
		Status:  status,
	}
}
