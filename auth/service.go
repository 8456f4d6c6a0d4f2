package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mohammadDV/new-mvc-framework/models"
)

const audience = "mvc-blog-api"

var ErrTokenExpired = errors.New("token expired")

// TokenService issues and checks the bearer tokens of the JSON API.
type TokenService struct {
	service *auth.Service
	ttl     time.Duration
}

func NewTokenService(secret, issuer, url string, ttl time.Duration) *TokenService {
	options := auth.Opts{
		SecretReader: token.SecretFunc(func(string) (string, error) {
			return secret, nil
		}),
		TokenDuration:  ttl,
		CookieDuration: 7 * 24 * time.Hour,
		Issuer:         issuer,
		URL:            url,
		AvatarStore:    avatar.NewLocalFS(filepath.Join(os.TempDir(), "avatars")),
	}

	return &TokenService{service: auth.NewService(options), ttl: ttl}
}

// Issue signs a token for user.
func (s *TokenService) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := token.Claims{
		User: &token.User{
			ID:    strconv.FormatUint(uint64(user.ID), 10),
			Name:  user.Name,
			Email: user.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.service.TokenService().Issuer,
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenStr, err := s.service.TokenService().Token(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenStr, nil
}

// Parse validates tokenStr and returns the user it was issued for.
func (s *TokenService) Parse(tokenStr string) (*token.User, error) {
	claims, err := s.service.TokenService().Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}
	if claims.User == nil {
		return nil, errors.New("token has no user")
	}
	return claims.User, nil
}

// UserID converts the token user id back to the database id.
func UserID(u *token.User) (uint, error) {
	id, err := strconv.ParseUint(u.ID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", u.ID, err)
	}
	return uint(id), nil
}
