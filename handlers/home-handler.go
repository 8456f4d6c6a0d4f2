package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
)

// Index lists the latest published posts with their authors' names.
func (h *Handler) Index(c *fiber.Ctx) error {
	perPage, page := pageParams(c, h.perPage)

	posts, err := h.posts.PaginateWithUser(c.UserContext(), perPage, page)
	if err != nil {
		return err
	}

	return h.Render(c, "index", "Home", fiber.Map{
		"Posts": posts.WithPath(c.Path(), queryValues(c)),
	})
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	current := auth.User(c)
	if current == nil {
		return c.Redirect("/login")
	}

	user, err := h.users.Find(c.UserContext(), current.ID)
	if err != nil {
		return err
	}
	if user == nil {
		auth.Logout(c)
		return c.Redirect("/login")
	}

	myPosts, err := h.posts.FindAllByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return h.Render(c, "profile", "Profile", fiber.Map{
		"Profile": user.WithoutPassword(),
		"MyPosts": myPosts,
	})
}
