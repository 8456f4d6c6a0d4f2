package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostStatus(t *testing.T) {
	s, err := ParsePostStatus("published")
	require.NoError(t, err)
	assert.True(t, s.IsPublished())

	s, err = ParsePostStatus("draft")
	require.NoError(t, err)
	assert.False(t, s.IsPublished())

	_, err = ParsePostStatus("archived")
	assert.Error(t, err)

	_, err = ParsePostStatus("")
	assert.Error(t, err)
}

func TestUser_WithoutPassword(t *testing.T) {
	u := User{ID: 1, Name: "Ada", Password: "hash"}
	safe := u.WithoutPassword()

	assert.Empty(t, safe.Password)
	assert.Equal(t, "hash", u.Password)
	assert.Equal(t, uint(1), safe.PrimaryKey())
}

func TestAppError_StatusAndUnwrap(t *testing.T) {
	cause := errors.New("db down")
	internal := NewInternalError(cause)

	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, fiber.StatusInternalServerError, internal.Status())
	assert.Equal(t, "Internal server error: db down", internal.Error())

	assert.Equal(t, fiber.StatusNotFound, NewNotFoundError("Post", 7).Status())
	assert.Equal(t, "Post with ID 7 not found", NewNotFoundError("Post", 7).Error())
	assert.Equal(t, fiber.StatusForbidden, NewUnauthorizedError("no").Status())
	assert.Equal(t, fiber.StatusForbidden, NewForbiddenError("no").Status())
	assert.Equal(t, fiber.StatusUnprocessableEntity, NewValidationError("bad").Status())
}

func TestAsAppError(t *testing.T) {
	nf := NewNotFoundError("User", 3)
	wrapped := errors.Join(errors.New("context"), nf)
	assert.Same(t, nf, AsAppError(wrapped))

	plain := AsAppError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
}
