// Package views holds the HTML templates and the helper functions they call.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/mohammadDV/new-mvc-framework/csrf"
)

//go:embed templates
var templates embed.FS

const Layout = "layouts/app"

// Render executes view and places its output in the layout as .Content. Nothing is
// written to w unless both templates executed without error.
func Render(engine fiber.Views, w io.Writer, view string, data fiber.Map) error {
	if engine == nil {
		return fmt.Errorf("render %s: no template engine", view)
	}

	var body bytes.Buffer
	if err := engine.Render(&body, view, data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}

	page := make(fiber.Map, len(data)+1)
	for k, v := range data {
		page[k] = v
	}
	page["Content"] = template.HTML(body.String())

	var out bytes.Buffer
	if err := engine.Render(&out, Layout, page); err != nil {
		return fmt.Errorf("render %s: %w", Layout, err)
	}
	_, err := out.WriteTo(w)
	return err
}

// RouteFunc builds the URL of a named route.
type RouteFunc func(name string, params ...any) (string, error)

// New returns the template engine. An empty dir serves the embedded templates,
// otherwise templates are read from dir and reloaded on every render.
func New(dir string, route RouteFunc) *html.Engine {
	var engine *html.Engine
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			engine = html.New(dir, ".html")
			engine.Reload(true)
		}
	}
	if engine == nil {
		sub, err := fs.Sub(templates, "templates")
		if err != nil {
			panic(err)
		}
		engine = html.NewFileSystem(http.FS(sub), ".html")
	}

	engine.AddFuncMap(Funcs(route))
	return engine
}

// Funcs are the helpers available in every template.
func Funcs(route RouteFunc) map[string]interface{} {
	return map[string]interface{}{
		"csrf_field": csrf.Field,
		"old":        old,
		"error":      lookup,
		"flash":      lookup,
		"has_error": func(bag map[string]string, name string) bool {
			_, ok := bag[name]
			return ok
		},
		"route": func(name string, params ...any) string {
			if route == nil {
				return "#"
			}
			u, err := route(name, params...)
			if err != nil {
				return "#"
			}
			return u
		},
		"title":   title,
		"excerpt": excerpt,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 02, 2006")
		},
		"year": func() int { return time.Now().Year() },
		"selected": func(a, b any) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
	}
}

func lookup(bag map[string]string, name string) string {
	return bag[name]
}

// old prefers the value submitted by the previous request, then the first non-empty fallback.
func old(bag map[string]string, name string, fallback ...any) string {
	if v, ok := bag[name]; ok {
		return v
	}
	for _, f := range fallback {
		switch v := f.(type) {
		case string:
			if v != "" {
				return v
			}
		case interface{ String() string }:
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

func title(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
