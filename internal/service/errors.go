package service

import (
	"errors"

	"postboard/internal/models"
)

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}
