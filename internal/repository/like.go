package repository

import (
	"context"

	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Insert(ctx context.Context, userID, postID int64) error
	Delete(ctx context.Context, userID, postID int64) (int64, error)
	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

// Insert records a like. A repeated (user, post) pair fails on the unique constraint.
func (r *likeRepository) Insert(ctx context.Context, userID, postID int64) (err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TableLikes, "insert")
	defer func() { end(err) }()

	like := models.Like{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).Create(&like).Error
}

// Delete removes the (user, post) like if present; zero affected rows is not an error.
func (r *likeRepository) Delete(ctx context.Context, userID, postID int64) (affected int64, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TableLikes, "delete")
	defer func() { end(err) }()

	result := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	return result.RowsAffected, result.Error
}
