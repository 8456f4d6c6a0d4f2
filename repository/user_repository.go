package repository

import (
	"context"
	"fmt"

	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the work factor used when hashing passwords.
var BcryptCost = bcrypt.DefaultCost

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (uint, error)
	Find(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindOrCreateByEmail(ctx context.Context, user *models.User) (*models.User, bool, error)
	Update(ctx context.Context, id uint, attrs map[string]any) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	Paginate(ctx context.Context, perPage, page int) (*pagination.Paginator[models.User], error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	users *Model[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{users: NewModel[models.User](db, models.UserFillable)}
}

// Create hashes the plain-text password before inserting.
func (r *userRepository) Create(ctx context.Context, user *models.User) (uint, error) {
	hash, err := HashPassword(user.Password)
	if err != nil {
		return 0, err
	}
	user.Password = hash

	return r.users.Create(ctx, user)
}

func (r *userRepository) Find(ctx context.Context, id uint) (*models.User, error) {
	return r.users.Find(ctx, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.FindBy(ctx, "email", email)
}

// FindOrCreateByEmail reports true when the user had to be created.
func (r *userRepository) FindOrCreateByEmail(ctx context.Context, user *models.User) (*models.User, bool, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if _, err := r.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Update rehashes a non-empty password and ignores an empty one.
func (r *userRepository) Update(ctx context.Context, id uint, attrs map[string]any) (bool, error) {
	if raw, ok := attrs["password"]; ok {
		password, _ := raw.(string)
		if password == "" {
			delete(attrs, "password")
		} else {
			hash, err := HashPassword(password)
			if err != nil {
				return false, err
			}
			attrs["password"] = hash
		}
	}

	return r.users.Update(ctx, id, attrs)
}

func (r *userRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.users.Delete(ctx, id)
}

// VerifyCredentials returns the user without its hash, or nil when email or password do not match.
func (r *userRepository) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(password, user.Password) {
		return nil, nil
	}

	safe := user.WithoutPassword()
	return &safe, nil
}

func (r *userRepository) Paginate(ctx context.Context, perPage, page int) (*pagination.Paginator[models.User], error) {
	return r.users.Paginate(ctx, perPage, page)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.users.Count(ctx)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
