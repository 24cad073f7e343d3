// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
)

// ErrUniqueViolation marks inserts rejected by a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violated")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Insert(ctx context.Context, email, hashedPassword string) error
	FindPasswordByEmail(ctx context.Context, email string) (string, bool, error)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Insert(ctx context.Context, email, hashedPassword string) (err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TableUsers, "insert")
	defer func() { end(err) }()

	user := models.User{Email: email, Password: hashedPassword}
	if err = r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
		}
		return err
	}
	return nil
}

func (r *userRepository) FindPasswordByEmail(ctx context.Context, email string) (hash string, found bool, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TableUsers, "select_password")
	defer func() { end(err) }()

	var user models.User
	err = r.db.WithContext(ctx).Select("password").Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.Password, true, nil
}
