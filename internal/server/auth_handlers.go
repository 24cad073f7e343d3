package server

import (
	"fmt"

	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Email    models.LooseText `json:"email"`
	Password models.LooseText `json:"password"`
}

// Register handles POST /api/user/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	email := req.Email.Value()
	token, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Email:    email,
		Password: req.Password.Value(),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.setAccessCookie(c, token)
	return models.RespondWithMessage(c, fiber.StatusCreated, fmt.Sprintf("User %s successfully created.", email))
}

// Login handles POST /api/user/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email.Value(),
		Password: req.Password.Value(),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	s.setAccessCookie(c, token)
	return models.RespondWithMessage(c, fiber.StatusOK, "Login success.")
}
