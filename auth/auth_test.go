package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	ts := NewTokenService("secret", "mvc-blog", "http://localhost:3000", time.Hour)

	tok, err := ts.Issue(models.User{ID: 42, Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	user, err := ts.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)

	id, err := UserID(user)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", "mvc-blog", "http://localhost:3000", time.Hour)
	verifier := NewTokenService("secret-b", "mvc-blog", "http://localhost:3000", time.Hour)

	tok, err := issuer.Issue(models.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.Parse(tok)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := NewTokenService("secret", "mvc-blog", "http://localhost:3000", -time.Minute)

	tok, err := ts.Issue(models.User{ID: 1})
	require.NoError(t, err)

	_, err = ts.Parse(tok)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	ts := NewTokenService("secret", "mvc-blog", "http://localhost:3000", time.Hour)
	_, err := ts.Parse("not-a-token")
	assert.Error(t, err)
}

func TestUserID_Invalid(t *testing.T) {
	_, err := UserID(&token.User{ID: "github_abc"})
	assert.Error(t, err)
}

func TestSessionLogin(t *testing.T) {
	m := session.NewManager(nil, time.Hour, false)
	app := fiber.New()
	app.Use(m.Middleware())

	app.Get("/login", func(c *fiber.Ctx) error {
		Login(c, models.User{ID: 7, Name: "Jane", Email: "jane@example.com", Password: "hash"})
		assert.Equal(t, uint(7), c.Locals("userID"))
		return c.SendString("ok")
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		u := User(c)
		if u == nil {
			return c.SendString("guest")
		}
		return c.SendString(u.Name)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		Logout(c)
		return c.SendString("bye")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, "guest", readBody(t, resp))

	resp, err = app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	var cookie string
	for _, ck := range resp.Cookies() {
		if ck.Name == "mvc_session" {
			cookie = ck.Name + "=" + ck.Value
		}
	}
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "Jane", readBody(t, resp))

	req = httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("Cookie", cookie)
	_, err = app.Test(req)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "guest", readBody(t, resp))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestCheck_WithoutSession(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.False(t, Check(c))
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
