// Package session keeps per-visitor state: the logged in user, flash messages and old form input.
package session

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const (
	keyFlash  = "flash"
	keyErrors = "errorFlash"
	keyOld    = "old"

	localsSession = "session"
	localsFlash   = "session.flash"
	localsErrors  = "session.errors"
	localsOld     = "session.old"
)

// input keys never remembered as old input
var excludedInput = map[string]bool{
	"_token":           true,
	"_method":          true,
	"password":         true,
	"confirm_password": true,
}

type Manager struct {
	store *fibersession.Store
}

// NewManager builds the session store. A nil storage keeps sessions in memory.
func NewManager(storage fiber.Storage, lifetime time.Duration, secure bool) *Manager {
	store := fibersession.New(fibersession.Config{
		Expiration:     lifetime,
		Storage:        storage,
		KeyLookup:      "cookie:mvc_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   secure,
	})
	store.RegisterType(map[string]string{})

	return &Manager{store: store}
}

// Middleware loads the session and ages the one-request values: what the previous request
// flashed becomes readable now and is removed from the session, and this request's input
// becomes the old input of the next one.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.store.Get(c)
		if err != nil {
			return err
		}
		c.Locals(localsSession, sess)

		c.Locals(localsFlash, take(sess, keyFlash))
		c.Locals(localsErrors, take(sess, keyErrors))
		c.Locals(localsOld, take(sess, keyOld))
		if in := currentInput(c); len(in) > 0 {
			sess.Set(keyOld, in)
		}

		err = c.Next()

		if saveErr := sess.Save(); saveErr != nil && err == nil {
			err = saveErr
		}
		return err
	}
}

func take(sess *fibersession.Session, key string) map[string]string {
	values, _ := sess.Get(key).(map[string]string)
	sess.Delete(key)
	if values == nil {
		values = map[string]string{}
	}
	return values
}

func currentInput(c *fiber.Ctx) map[string]string {
	in := map[string]string{}
	add := func(k, v []byte) {
		if !excludedInput[string(k)] {
			in[string(k)] = string(v)
		}
	}

	c.Request().URI().QueryArgs().VisitAll(add)
	c.Request().PostArgs().VisitAll(add)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if form, err := c.MultipartForm(); err == nil {
			for k, vs := range form.Value {
				if len(vs) > 0 && !excludedInput[k] {
					in[k] = vs[0]
				}
			}
		}
	}

	return in
}

// From returns the request's session, or nil when the middleware has not run.
func From(c *fiber.Ctx) *fibersession.Session {
	sess, _ := c.Locals(localsSession).(*fibersession.Session)
	return sess
}

func Get(c *fiber.Ctx, key string) interface{} {
	if sess := From(c); sess != nil {
		return sess.Get(key)
	}
	return nil
}

func Set(c *fiber.Ctx, key string, value interface{}) {
	if sess := From(c); sess != nil {
		sess.Set(key, value)
	}
}

func Delete(c *fiber.Ctx, key string) {
	if sess := From(c); sess != nil {
		sess.Delete(key)
	}
}

// Regenerate moves the session data to a fresh id.
func Regenerate(c *fiber.Ctx) error {
	if sess := From(c); sess != nil {
		return sess.Regenerate()
	}
	return nil
}

// Flash stores a message readable during the next request.
func Flash(c *fiber.Ctx, key, message string) {
	appendTo(c, keyFlash, key, message)
}

// Error stores an error message readable during the next request.
func Error(c *fiber.Ctx, key, message string) {
	appendTo(c, keyErrors, key, message)
}

// SetErrors flashes every field error at once.
func SetErrors(c *fiber.Ctx, errs map[string]string) {
	for k, v := range errs {
		Error(c, k, v)
	}
}

func appendTo(c *fiber.Ctx, bag, key, message string) {
	sess := From(c)
	if sess == nil {
		return
	}
	values, _ := sess.Get(bag).(map[string]string)
	if values == nil {
		values = map[string]string{}
	}
	values[key] = message
	sess.Set(bag, values)
}

// Flashes are the messages flashed by the previous request.
func Flashes(c *fiber.Ctx) map[string]string {
	return localMap(c, localsFlash)
}

// Errors are the error messages flashed by the previous request.
func Errors(c *fiber.Ctx) map[string]string {
	return localMap(c, localsErrors)
}

func ErrorExists(c *fiber.Ctx, name string) bool {
	_, ok := Errors(c)[name]
	return ok
}

// Old returns the value submitted for name by the previous request.
func Old(c *fiber.Ctx, name string) string {
	return localMap(c, localsOld)[name]
}

func OldInput(c *fiber.Ctx) map[string]string {
	return localMap(c, localsOld)
}

func localMap(c *fiber.Ctx, key string) map[string]string {
	values, _ := c.Locals(key).(map[string]string)
	if values == nil {
		return map[string]string{}
	}
	return values
}

// PreviousURL is the path of the referring page on this site, or fallback.
func PreviousURL(c *fiber.Ctx, fallback string) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	if u.Host != "" && u.Host != c.Hostname() {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
