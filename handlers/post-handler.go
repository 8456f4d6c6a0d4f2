package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mohammadDV/new-mvc-framework/auth"
	"github.com/mohammadDV/new-mvc-framework/models"
	"github.com/mohammadDV/new-mvc-framework/requests"
	"github.com/mohammadDV/new-mvc-framework/upload"
	"github.com/mohammadDV/new-mvc-framework/validation"
)

const (
	postImageDir    = "posts"
	postImageWidth  = 1200
	postImageHeight = 800
)

func (h *Handler) PostsIndex(c *fiber.Ctx) error {
	perPage, page := pageParams(c, h.perPage)

	posts, err := h.posts.Paginate(c.UserContext(), perPage, page)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "paginate posts", "error", err)
		return redirectWith(c, "/", "error", "Failed to load posts. Please try again later.")
	}

	return h.Render(c, "posts/index", "Posts", fiber.Map{
		"Posts": posts.WithPath(c.Path(), queryValues(c)),
	})
}

func (h *Handler) PostsCreate(c *fiber.Ctx) error {
	return h.Render(c, "posts/create", "Create Post", fiber.Map{
		"Form":     models.Post{Status: models.PostStatusDraft},
		"Statuses": models.PostStatuses,
	})
}

// postForm validates the submitted post and returns its attributes, uploading the image when one was sent.
func (h *Handler) postForm(c *fiber.Ctx) (map[string]any, error) {
	withImage := hasFile(c, "image")

	errs, err := h.validator.Validate(c.UserContext(), formInput{c}, requests.Post(withImage))
	if err != nil {
		return nil, err
	}

	status, statusErr := models.ParsePostStatus(strings.TrimSpace(c.FormValue("status")))
	if statusErr != nil && !errs.Has("status") {
		errs["status"] = "status must be draft or published"
	}
	if errs.Any() {
		return nil, errs
	}

	user := auth.User(c)
	if user == nil {
		return nil, fiber.ErrForbidden
	}

	attrs := map[string]any{
		"title":   strings.TrimSpace(c.FormValue("title")),
		"content": strings.TrimSpace(c.FormValue("content")),
		"status":  string(status),
		"user_id": user.ID,
	}

	if withImage {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		url, err := h.uploader.UploadAndFit(c.UserContext(), f, postImageDir, postImageWidth, postImageHeight)
		switch {
		case errors.Is(err, upload.ErrUnsupportedImage):
			return nil, validation.Errors{"image": "image could not be read"}
		case errors.Is(err, upload.ErrImageTooLarge):
			return nil, validation.Errors{"image": fmt.Sprintf("image must be at most %dx%d pixels", upload.MaxImageWidth, upload.MaxImageHeight)}
		case err != nil:
			return nil, err
		}
		attrs["image"] = url
	}

	return attrs, nil
}

func (h *Handler) PostsStore(c *fiber.Ctx) error {
	ctx := c.UserContext()

	attrs, err := h.postForm(c)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) || errors.Is(err, fiber.ErrForbidden) {
			return err
		}
		slog.ErrorContext(ctx, "read post form", "error", err)
		return redirectWith(c, "/posts/create", "error", "An error occurred. Please try again.")
	}

	post := &models.Post{
		Title:   attrs["title"].(string),
		Content: attrs["content"].(string),
		Status:  models.PostStatus(attrs["status"].(string)),
		UserID:  attrs["user_id"].(uint),
	}
	if img, ok := attrs["image"].(string); ok {
		post.Image = img
	}

	id, err := h.posts.Create(ctx, post)
	if err != nil {
		slog.ErrorContext(ctx, "create post", "error", err)
		return redirectWith(c, "/posts/create", "error", "Failed to create post. Please try again.")
	}
	if id == 0 {
		return redirectWith(c, "/posts/create", "error", "Failed to create post")
	}

	return redirectWith(c, "/posts", "success", "Post created successfully")
}

// findPost loads the {id} post or redirects to the index with a message.
func (h *Handler) findPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}

	post, err := h.posts.Find(c.UserContext(), id)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "find post", "id", id, "error", err)
		return nil, redirectWith(c, "/posts", "error", "Failed to load post. Please try again.")
	}
	if post == nil {
		return nil, redirectWith(c, "/posts", "error", "Post not found")
	}
	return post, nil
}

func (h *Handler) PostsShow(c *fiber.Ctx) error {
	post, err := h.findPost(c)
	if post == nil {
		return err
	}
	return h.Render(c, "posts/show", post.Title, fiber.Map{"Post": post})
}

func (h *Handler) PostsEdit(c *fiber.Ctx) error {
	post, err := h.findPost(c)
	if post == nil {
		return err
	}
	return h.Render(c, "posts/edit", "Edit Post", fiber.Map{
		"Form":     post,
		"Statuses": models.PostStatuses,
	})
}

func (h *Handler) PostsUpdate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	post, err := h.findPost(c)
	if post == nil {
		return err
	}
	editPath := fmt.Sprintf("/posts/%d/edit", post.ID)

	attrs, err := h.postForm(c)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) || errors.Is(err, fiber.ErrForbidden) {
			return err
		}
		slog.ErrorContext(ctx, "read post form", "error", err)
		return redirectWith(c, editPath, "error", "An error occurred. Please try again.")
	}

	ok, err := h.posts.Update(ctx, post.ID, attrs)
	if err != nil {
		slog.ErrorContext(ctx, "update post", "id", post.ID, "error", err)
		return redirectWith(c, editPath, "error", "Failed to update post. Please try again.")
	}
	if !ok {
		return redirectWith(c, editPath, "error", "Failed to update post")
	}

	return redirectWith(c, "/posts", "success", "Post updated successfully")
}

func (h *Handler) PostsDestroy(c *fiber.Ctx) error {
	post, err := h.findPost(c)
	if post == nil {
		return err
	}

	ok, err := h.posts.Delete(c.UserContext(), post.ID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "delete post", "id", post.ID, "error", err)
		return redirectWith(c, "/posts", "error", "Failed to delete post. Please try again.")
	}
	if !ok {
		return redirectWith(c, "/posts", "error", "Failed to delete post")
	}

	return redirectWith(c, "/posts", "success", "Post deleted successfully")
}
