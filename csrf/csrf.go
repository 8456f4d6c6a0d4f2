// Package csrf protects state-changing form submissions with a per-session token.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/session"
)

const (
	SessionKey = "_csrf_token"
	FormField  = "_token"
	Header     = "X-CSRF-TOKEN"

	InvalidMessage = "Invalid security token. Please try again."
)

var protected = map[string]bool{
	fiber.MethodPost:   true,
	fiber.MethodPut:    true,
	fiber.MethodPatch:  true,
	fiber.MethodDelete: true,
}

// Generate stores a fresh token in the session and returns it.
func Generate(c *fiber.Ctx) string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	tok := hex.EncodeToString(b)
	session.Set(c, SessionKey, tok)
	return tok
}

// Token returns the session token, creating one when missing.
func Token(c *fiber.Ctx) string {
	if tok, ok := session.Get(c, SessionKey).(string); ok && tok != "" {
		return tok
	}
	return Generate(c)
}

// Valid compares tok with the session token in constant time.
func Valid(c *fiber.Ctx, tok string) bool {
	if tok == "" {
		return false
	}
	stored, ok := session.Get(c, SessionKey).(string)
	if !ok || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(tok)) == 1
}

// Field renders the hidden form input carrying the token.
func Field(tok string) template.HTML {
	return template.HTML(`<input type="hidden" name="` + FormField + `" value="` + template.HTMLEscapeString(tok) + `">`)
}

// Middleware checks POST, PUT, PATCH and DELETE requests. The token is rotated after every check.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !protected[c.Method()] {
			return c.Next()
		}

		tok := c.FormValue(FormField)
		if tok == "" {
			tok = c.Get(Header)
		}

		ok := Valid(c, tok)
		Generate(c)

		if !ok {
			session.Error(c, "csrf", InvalidMessage)
			return c.Redirect(session.PreviousURL(c, "/"))
		}
		return c.Next()
	}
}
