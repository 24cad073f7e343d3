package server

import (
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content models.LooseText `json:"content"`
	UserID  models.LooseID   `json:"user_id"`
}

type updatePostRequest struct {
	Content models.LooseText `json:"content"`
}

type postsResponse struct {
	Posts []models.PostWithLikes `json:"posts"`
}

// CreatePost handles POST /api/post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err := s.postService.Create(c.UserContext(), service.CreatePostInput{
		Content: req.Content.Value(),
		UserID:  req.UserID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithMessage(c, fiber.StatusCreated, "Post successfully created.")
}

// GetAllPosts handles GET /api/post
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListAll(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(postsResponse{Posts: posts})
}

// GetUserPosts handles GET /api/post/:user_id
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(postsResponse{Posts: posts})
}

// UpdatePost handles PATCH /api/post/:post_id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err = s.postService.UpdateContent(c.UserContext(), service.UpdatePostInput{
		PostID:  postID,
		Content: req.Content.Value(),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithMessage(c, fiber.StatusOK, "Post updated successfully.")
}

// DeletePost handles DELETE /api/post/:post_id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), postID); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithMessage(c, fiber.StatusOK, "Post deleted successfully.")
}
