package service

import (
	"context"

	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/repository"

	"gorm.io/gorm"
)

// passthroughTx runs fn without a database; stubs ignore the nil tx.
func passthroughTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type schemaStub struct {
	err   error
	calls []string
}

func (s *schemaStub) EnsureUsersTable(context.Context) error {
	s.calls = append(s.calls, "users")
	return s.err
}

func (s *schemaStub) EnsurePostsTable(context.Context) error {
	s.calls = append(s.calls, "posts")
	return s.err
}

func (s *schemaStub) EnsureLikesTable(context.Context) error {
	s.calls = append(s.calls, "likes")
	return s.err
}

func (s *schemaStub) Forget(err error) bool {
	if !database.IsUndefinedTable(err) {
		return false
	}
	s.calls = append(s.calls, "forget")
	return true
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	insertFn func(context.Context, string, string) error
	findFn   func(context.Context, string) (string, bool, error)
}

func (s *userRepoStub) Insert(ctx context.Context, email, hash string) error {
	return s.insertFn(ctx, email, hash)
}
func (s *userRepoStub) FindPasswordByEmail(ctx context.Context, email string) (string, bool, error) {
	return s.findFn(ctx, email)
}
func (s *userRepoStub) WithTx(*gorm.DB) repository.UserRepository { return s }

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	insertFn       func(context.Context, string, int64) error
	selectAllFn    func(context.Context) ([]models.PostWithLikes, error)
	selectByUserFn func(context.Context, int64) ([]models.PostWithLikes, error)
	selectByIDFn   func(context.Context, int64) (*models.Post, error)
	updateFn       func(context.Context, string, int64) (int64, error)
	deleteFn       func(context.Context, int64) (int64, error)
}

func (s *postRepoStub) Insert(ctx context.Context, content string, userID int64) error {
	return s.insertFn(ctx, content, userID)
}
func (s *postRepoStub) SelectAll(ctx context.Context) ([]models.PostWithLikes, error) {
	return s.selectAllFn(ctx)
}
func (s *postRepoStub) SelectByUser(ctx context.Context, userID int64) ([]models.PostWithLikes, error) {
	return s.selectByUserFn(ctx, userID)
}
func (s *postRepoStub) SelectByID(ctx context.Context, postID int64) (*models.Post, error) {
	return s.selectByIDFn(ctx, postID)
}
func (s *postRepoStub) UpdateContent(ctx context.Context, content string, postID int64) (int64, error) {
	return s.updateFn(ctx, content, postID)
}
func (s *postRepoStub) Delete(ctx context.Context, postID int64) (int64, error) {
	return s.deleteFn(ctx, postID)
}
func (s *postRepoStub) WithTx(*gorm.DB) repository.PostRepository { return s }

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	insertFn func(context.Context, int64, int64) error
	deleteFn func(context.Context, int64, int64) (int64, error)
}

func (s *likeRepoStub) Insert(ctx context.Context, userID, postID int64) error {
	return s.insertFn(ctx, userID, postID)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, postID int64) (int64, error) {
	return s.deleteFn(ctx, userID, postID)
}
func (s *likeRepoStub) WithTx(*gorm.DB) repository.LikeRepository { return s }
