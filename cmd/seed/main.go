// Command seed inserts demo users and posts.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/mohammadDV/new-mvc-framework/config"
	"github.com/mohammadDV/new-mvc-framework/database"
	"github.com/mohammadDV/new-mvc-framework/middleware"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/mohammadDV/new-mvc-framework/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of fake users to create")
	postsPerUser := flag.Int("posts", 5, "Number of posts per created user")
	fakerSeed := flag.Int64("seed", 0, "Seed for the fake data (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.IsProduction(), cfg.Debug, "")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if !cfg.IsProduction() {
		if err := database.MigrateModels(db, &models.User{}, &models.Post{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	s := seed.NewSeeder(repository.NewUserRepository(db), repository.NewPostRepository(db), *fakerSeed)
	res, err := s.Run(context.Background(), *numUsers, *postsPerUser)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	slog.Info("seeding finished", "users", res.Users, "posts", res.Posts, "password", seed.DemoPassword)
}
