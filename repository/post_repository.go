package repository

import (
	"context"
	"fmt"

	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (uint, error)
	Find(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, id uint, attrs map[string]any) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Paginate(ctx context.Context, perPage, page int) (*pagination.Paginator[models.Post], error)
	PaginateWithUser(ctx context.Context, perPage, page int) (*pagination.Paginator[models.PostWithAuthor], error)
	FindAllByUser(ctx context.Context, userID uint) ([]models.Post, error)
}

type postRepository struct {
	db    *gorm.DB
	posts *Model[models.Post]
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, posts: NewModel[models.Post](db, models.PostFillable)}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (uint, error) {
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	return r.posts.Create(ctx, post)
}

// Find loads the post together with its author.
func (r *postRepository) Find(ctx context.Context, id uint) (*models.Post, error) {
	return r.posts.With("User").Find(ctx, id)
}

func (r *postRepository) Update(ctx context.Context, id uint, attrs map[string]any) (bool, error) {
	return r.posts.Update(ctx, id, attrs)
}

func (r *postRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.posts.Delete(ctx, id)
}

func (r *postRepository) Paginate(ctx context.Context, perPage, page int) (*pagination.Paginator[models.Post], error) {
	return r.posts.With("User").Paginate(ctx, perPage, page)
}

func (r *postRepository) FindAllByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.posts.FindAllBy(ctx, "user_id", userID)
}

// PaginateWithUser pages through published posts joined with the author name, newest first.
func (r *postRepository) PaginateWithUser(ctx context.Context, perPage, page int) (*pagination.Paginator[models.PostWithAuthor], error) {
	perPage, page = pagination.Normalize(perPage, page)

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("count published posts: %w", err)
	}

	var rows []models.PostWithAuthor
	err = r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.title, posts.content, posts.user_id, posts.image, posts.status, " +
			"posts.created_at, posts.updated_at, COALESCE(users.name, '') AS user_name").
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Where("posts.status = ?", models.PostStatusPublished).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(perPage).
		Offset(pagination.Offset(perPage, page)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("paginate published posts: %w", err)
	}

	return pagination.New(rows, total, perPage, page), nil
}
