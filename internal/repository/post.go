package repository

import (
	"context"
	"errors"

	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
)

const selectPostsWithLikes = `SELECT p.id, p.content, p.user_id, COUNT(l.id) AS total_likes
FROM posts p
LEFT JOIN likes l ON p.id = l.post_id`

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Insert(ctx context.Context, content string, userID int64) error
	SelectAll(ctx context.Context) ([]models.PostWithLikes, error)
	SelectByUser(ctx context.Context, userID int64) ([]models.PostWithLikes, error)
	SelectByID(ctx context.Context, postID int64) (*models.Post, error)
	UpdateContent(ctx context.Context, content string, postID int64) (int64, error)
	Delete(ctx context.Context, postID int64) (int64, error)
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Insert(ctx context.Context, content string, userID int64) (err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "insert")
	defer func() { end(err) }()

	post := models.Post{Content: content, UserID: userID}
	return r.db.WithContext(ctx).Create(&post).Error
}

func (r *postRepository) SelectAll(ctx context.Context) (posts []models.PostWithLikes, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "select_all")
	defer func() { end(err) }()

	return r.scanPosts(ctx, selectPostsWithLikes+"\nGROUP BY p.id\nORDER BY p.id")
}

func (r *postRepository) SelectByUser(ctx context.Context, userID int64) (posts []models.PostWithLikes, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "select_by_user")
	defer func() { end(err) }()

	return r.scanPosts(ctx, selectPostsWithLikes+"\nWHERE p.user_id = ?\nGROUP BY p.id\nORDER BY p.id", userID)
}

func (r *postRepository) scanPosts(ctx context.Context, query string, args ...interface{}) ([]models.PostWithLikes, error) {
	var posts []models.PostWithLikes
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&posts).Error; err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.PostWithLikes{}
	}
	return posts, nil
}

func (r *postRepository) SelectByID(ctx context.Context, postID int64) (post *models.Post, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "select_by_id")
	defer func() { end(err) }()

	var found models.Post
	err = r.db.WithContext(ctx).Where("id = ?", postID).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, content string, postID int64) (affected int64, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "update")
	defer func() { end(err) }()

	result := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Update("content", content)
	return result.RowsAffected, result.Error
}

func (r *postRepository) Delete(ctx context.Context, postID int64) (affected int64, err error) {
	ctx, end := observability.StartRepositorySpan(ctx, database.TablePosts, "delete")
	defer func() { end(err) }()

	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	return result.RowsAffected, result.Error
}
