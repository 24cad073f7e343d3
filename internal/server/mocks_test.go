package server

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Insert(ctx context.Context, email, hashedPassword string) error {
	args := m.Called(ctx, email, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) FindPasswordByEmail(ctx context.Context, email string) (string, bool, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) WithTx(*gorm.DB) repository.UserRepository { return m }

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Insert(ctx context.Context, content string, userID int64) error {
	args := m.Called(ctx, content, userID)
	return args.Error(0)
}

func (m *MockPostRepository) SelectAll(ctx context.Context) ([]models.PostWithLikes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostWithLikes), args.Error(1)
}

func (m *MockPostRepository) SelectByUser(ctx context.Context, userID int64) ([]models.PostWithLikes, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostWithLikes), args.Error(1)
}

func (m *MockPostRepository) SelectByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateContent(ctx context.Context, content string, postID int64) (int64, error) {
	args := m.Called(ctx, content, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID int64) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) WithTx(*gorm.DB) repository.PostRepository { return m }

// MockLikeRepository is a mock of the LikeRepository interface
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Insert(ctx context.Context, userID, postID int64) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(ctx context.Context, userID, postID int64) (int64, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeRepository) WithTx(*gorm.DB) repository.LikeRepository { return m }
