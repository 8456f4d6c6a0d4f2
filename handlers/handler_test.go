package handler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectWith(t *testing.T) {
	app := fiber.New()
	app.Get("/plain", func(c *fiber.Ctx) error {
		return redirectWith(c, "/posts", "success", "Post created successfully")
	})
	app.Get("/query", func(c *fiber.Ctx) error {
		return redirectWith(c, "/posts?page=2", "error", "a&b")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/posts?success=Post+created+successfully", resp.Header.Get(fiber.HeaderLocation))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/query", nil))
	require.NoError(t, err)
	assert.Equal(t, "/posts?page=2&error=a%26b", resp.Header.Get(fiber.HeaderLocation))
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/posts/:id", func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		return c.JSON(id)
	})

	tests := []struct {
		path string
		code int
	}{
		{"/posts/7", fiber.StatusOK},
		{"/posts/0", fiber.StatusNotFound},
		{"/posts/-1", fiber.StatusNotFound},
		{"/posts/abc", fiber.StatusNotFound},
		{"/posts/99999999999", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestPageParams(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		perPage, page := pageParams(c, 15)
		return c.JSON(fiber.Map{"per_page": perPage, "page": page})
	})

	get := func(target string) string {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}

	assert.JSONEq(t, `{"per_page":15,"page":1}`, get("/"))
	assert.JSONEq(t, `{"per_page":5,"page":3}`, get("/?per_page=5&page=3"))
	assert.JSONEq(t, `{"per_page":15,"page":1}`, get("/?per_page=-4&page=0"))
	assert.JSONEq(t, `{"per_page":100,"page":1}`, get("/?per_page=5000"))
}

func TestSniffContentType(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n0000000000000")
	opener := func(b []byte) func() (io.ReadCloser, error) {
		return func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil }
	}

	assert.Equal(t, "image/png", sniffContentType(opener(pngHeader)), "content wins over the declared type")
	assert.Equal(t, "application/octet-stream", sniffContentType(opener([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))))
	assert.Equal(t, "application/octet-stream", sniffContentType(opener([]byte("#!/bin/sh"))))
	assert.Equal(t, "application/octet-stream", sniffContentType(func() (io.ReadCloser, error) { return nil, io.ErrUnexpectedEOF }))
}

func TestQueryValues(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(queryValues(c).Encode())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?page=2&per_page=5&success=ok&error=bad", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "page=2&per_page=5", string(b))
}

func TestNew_DefaultPerPage(t *testing.T) {
	h := New(Deps{})
	assert.Equal(t, pagination.DefaultPerPage, h.perPage)

	h = New(Deps{PerPage: 30})
	assert.Equal(t, 30, h.perPage)
}

func TestFormInputHas(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		in := formInput{c}
		return c.JSON(fiber.Map{
			"filled": in.Has("password"),
			"empty":  in.Has("confirm_password"),
			"query":  in.Has("page"),
			"absent": in.Has("missing"),
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/?page=2", strings.NewReader("password=secret&confirm_password="))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"filled":true,"empty":true,"query":true,"absent":false}`, string(b))
}
