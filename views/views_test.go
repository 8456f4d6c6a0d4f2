package views

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoute(name string, params ...any) (string, error) {
	switch name {
	case "posts.show":
		return fmt.Sprintf("/posts/%v", params[0]), nil
	case "home":
		return "/", nil
	}
	return "/" + name, nil
}

func baseData() fiber.Map {
	return fiber.Map{
		"App":    "Blog",
		"CSRF":   "tok123",
		"Flash":  map[string]string{},
		"Errors": map[string]string{},
		"Old":    map[string]string{},
	}
}

func render(t *testing.T, name string, data fiber.Map) string {
	t.Helper()
	engine := New("", testRoute)
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	require.NoError(t, Render(engine, &buf, name, data))
	return buf.String()
}

func TestRender_Index(t *testing.T) {
	posts := pagination.New([]models.PostWithAuthor{
		{ID: 5, Title: "Hello <world>", Content: "Body", Status: models.PostStatusPublished, UserName: "Jane", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}, 1, 15, 1).WithPath("/", nil)

	data := baseData()
	data["Title"] = "Home"
	data["Posts"] = posts
	data["Flash"] = map[string]string{"login": "Welcome back!"}

	out := render(t, "index", data)
	assert.Contains(t, out, "<title>Home | Blog</title>")
	assert.Contains(t, out, `href="/posts/5"`)
	assert.Contains(t, out, "Hello &lt;world&gt;")
	assert.Contains(t, out, "Jane")
	assert.Contains(t, out, "Jan 02, 2026")
	assert.Contains(t, out, "Welcome back!")
	assert.Contains(t, out, "Published")
	assert.NotContains(t, out, "Logout")
}

func TestRender_LoginWithErrorsAndOldInput(t *testing.T) {
	data := baseData()
	data["Title"] = "Login"
	data["Errors"] = map[string]string{"email": "email is required", "login": "Invalid email or password"}
	data["Old"] = map[string]string{"email": "jane@example.com"}

	out := render(t, "auth/login", data)
	assert.Contains(t, out, `<input type="hidden" name="_token" value="tok123">`)
	assert.Contains(t, out, "email is required")
	assert.Contains(t, out, "Invalid email or password")
	assert.Contains(t, out, `value="jane@example.com"`)
	assert.Contains(t, out, "border-red-500")
}

func TestRender_LayoutForLoggedInUser(t *testing.T) {
	data := baseData()
	data["User"] = &auth.SessionUser{ID: 1, Name: "Jane"}
	data["Profile"] = models.User{ID: 1, Name: "Jane", Email: "jane@example.com"}

	out := render(t, "profile", data)
	assert.Contains(t, out, "Welcome, <span class=\"font-semibold\">Jane</span>")
	assert.Contains(t, out, "Logout")
	assert.Contains(t, out, "jane@example.com")
}

func TestRender_PostEditSelectsStatus(t *testing.T) {
	data := baseData()
	data["Form"] = models.Post{ID: 3, Title: "T", Content: "C", Status: models.PostStatusPublished}
	data["Statuses"] = models.PostStatuses

	out := render(t, "posts/edit", data)
	assert.Contains(t, out, `<option value="published" selected>`)
	assert.Contains(t, out, `<option value="draft" >`)
}

func TestRender_ErrorPage(t *testing.T) {
	out := render(t, "errors/404", baseData())
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "could not be found")
}

func TestRender_FailingPageWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "layouts/app.html", `<main>{{ .Content }}</main><footer>end</footer>`)
	writeTemplate(t, dir, "broken.html", `<p>before</p>{{ index .Missing 3 }}`)

	engine := New(dir, testRoute)
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	err := Render(engine, &buf, "broken", fiber.Map{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render broken")
	assert.Empty(t, buf.String())

	buf.Reset()
	writeTemplate(t, dir, "ok.html", `<p>{{ .Name }}</p>`)
	require.NoError(t, Render(engine, &buf, "ok", fiber.Map{"Name": "<b>x</b>"}))
	assert.Equal(t, "<main><p>&lt;b&gt;x&lt;/b&gt;</p></main><footer>end</footer>", buf.String())
}

func TestRender_NoEngine(t *testing.T) {
	assert.Error(t, Render(nil, &bytes.Buffer{}, "index", fiber.Map{}))
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "Hello World", title("hello world"))
	assert.Equal(t, "Published", title("published"))
	assert.Equal(t, "abc...", excerpt("abcdef", 3))
	assert.Equal(t, "abc", excerpt("abc", 3))

	bag := map[string]string{"name": "old"}
	assert.Equal(t, "old", old(bag, "name", "current"))
	assert.Equal(t, "current", old(bag, "email", "current"))
	assert.Equal(t, "draft", old(bag, "status", models.PostStatusDraft))
	assert.Equal(t, "", old(bag, "missing"))

	route := Funcs(nil)["route"].(func(string, ...any) string)
	assert.Equal(t, "#", route("home"))
}
