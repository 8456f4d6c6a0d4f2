package auth

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/session"
)

const sessionKey = "user"

// SessionUser is the part of a user kept in the session after login.
type SessionUser struct {
	ID    uint
	Name  string
	Email string
}

func init() {
	gob.Register(SessionUser{})
}

// Login stores user in the session.
func Login(c *fiber.Ctx, user models.User) {
	session.Set(c, sessionKey, SessionUser{ID: user.ID, Name: user.Name, Email: user.Email})
	c.Locals("userID", user.ID)
}

// User returns the logged in user or nil.
func User(c *fiber.Ctx) *SessionUser {
	u, ok := session.Get(c, sessionKey).(SessionUser)
	if !ok {
		return nil
	}
	return &u
}

func Check(c *fiber.Ctx) bool {
	return User(c) != nil
}

func Logout(c *fiber.Ctx) {
	session.Delete(c, sessionKey)
}
