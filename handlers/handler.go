// Package handler holds the HTTP controllers of the blog, both the HTML pages and the JSON API.
package handler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/csrf"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"github.com/mohammadDV/new-mvc-framework/repository"
	"github.com/mohammadDV/new-mvc-framework/session"
	"github.com/mohammadDV/new-mvc-framework/upload"
	"github.com/mohammadDV/new-mvc-framework/validation"
	"github.com/mohammadDV/new-mvc-framework/views"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Users     repository.UserRepository
	Posts     repository.PostRepository
	Validator *validation.Validator
	Uploader  *upload.ImageUploader
	Tokens    *auth.TokenService
	Checks    map[string]HealthCheck
	AppTitle  string
	PerPage   int

	SecureCookies bool
}

type Handler struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	validator *validation.Validator
	uploader  *upload.ImageUploader
	tokens    *auth.TokenService
	checks    map[string]HealthCheck
	appTitle  string
	perPage   int

	secureCookies bool
}

func New(d Deps) *Handler {
	perPage := d.PerPage
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &Handler{
		users:     d.Users,
		posts:     d.Posts,
		validator: d.Validator,
		uploader:  d.Uploader,
		tokens:    d.Tokens,
		checks:    d.Checks,
		appTitle:  d.AppTitle,
		perPage:   perPage,

		secureCookies: d.SecureCookies,
	}
}

// Render draws a page inside the application layout. The shared values every page
// reads (current user, flashes, errors, old input, csrf token) are added to data.
func (h *Handler) Render(c *fiber.Ctx, view, title string, data fiber.Map) error {
	page := fiber.Map{
		"App":     h.appTitle,
		"Title":   title,
		"User":    auth.User(c),
		"Flash":   session.Flashes(c),
		"Errors":  session.Errors(c),
		"Old":     session.OldInput(c),
		"CSRF":    csrf.Token(c),
		"Success": c.Query("success"),
		"Error":   c.Query("error"),
	}
	for k, v := range data {
		page[k] = v
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return views.Render(c.App().Config().Views, c, view, page)
}

// redirectWith sends the visitor to path with a success or error message in the query string.
func redirectWith(c *fiber.Ctx, path, key, message string) error {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.Redirect(path + sep + key + "=" + url.QueryEscape(message))
}

// paramID reads the {id} route parameter. Anything but a positive integer is a 404.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

func pageParams(c *fiber.Ctx, defaultPerPage int) (perPage, page int) {
	return pagination.Normalize(c.QueryInt("per_page", defaultPerPage), c.QueryInt("page", 1))
}

// formInput exposes a submitted form to the validator.
type formInput struct {
	c *fiber.Ctx
}

func (f formInput) Value(name string) string {
	return f.c.FormValue(name)
}

func (f formInput) Has(name string) bool {
	if f.c.Request().PostArgs().Has(name) || f.c.Context().QueryArgs().Has(name) {
		return true
	}
	if form, err := f.c.MultipartForm(); err == nil {
		_, ok := form.Value[name]
		return ok
	}
	return false
}

func (f formInput) File(name string) *validation.File {
	fh, err := f.c.FormFile(name)
	if err != nil || fh.Filename == "" {
		return nil
	}
	return &validation.File{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: sniffContentType(func() (io.ReadCloser, error) { return fh.Open() }),
	}
}

// sniffContentType names the upload by its content. The declared multipart type and
// the file name are client-controlled and never consulted.
func sniffContentType(open func() (io.ReadCloser, error)) string {
	f, err := open()
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	if sniffed := http.DetectContentType(buf[:n]); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "application/octet-stream"
}

func hasFile(c *fiber.Ctx, name string) bool {
	fh, err := c.FormFile(name)
	return err == nil && fh.Filename != "" && fh.Size > 0
}

// queryValues are the query parameters carried into pagination links, without one-shot messages.
func queryValues(c *fiber.Ctx) url.Values {
	q := url.Values{}
	for k, v := range c.Queries() {
		if k == "success" || k == "error" {
			continue
		}
		q.Set(k, v)
	}
	return q
}
