package server

import (
	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type likeRequest struct {
	UserID models.LooseID `json:"user_id"`
}

// likeInput parses the path and body shared by the like and unlike routes.
func likeInput(c *fiber.Ctx) (service.LikeInput, error) {
	postID, err := pathID(c, "post_id")
	if err != nil {
		return service.LikeInput{}, err
	}
	var req likeRequest
	if err := parseBody(c, &req); err != nil {
		return service.LikeInput{}, err
	}
	return service.LikeInput{PostID: postID, UserID: req.UserID}, nil
}

// LikePost handles POST /api/post/:post_id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	in, err := likeInput(c)
	if err != nil {
		return nil
	}
	if err := s.likeService.Like(c.UserContext(), in); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithMessage(c, fiber.StatusCreated, "Post liked successfully.")
}

// UnlikePost handles DELETE /api/post/:post_id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	in, err := likeInput(c)
	if err != nil {
		return nil
	}
	if err := s.likeService.Unlike(c.UserContext(), in); err != nil {
		return models.RespondWithError(c, err)
	}
	return models.RespondWithMessage(c, fiber.StatusOK, "Post unliked successfully.")
}
