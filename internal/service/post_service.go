package service

import (
	"context"

	"postboard/internal/cache"
	"postboard/internal/models"
	"postboard/internal/repository"

	"gorm.io/gorm"
)

// PostService creates, lists, edits and deletes posts.
type PostService struct {
	tx       TxRunner
	schema   SchemaEnsurer
	postRepo repository.PostRepository
	listings *cache.PostListings
}

// CreatePostInput carries the create-post form. UserID keeps whatever JSON
// scalar the client sent until it is bound to the insert.
type CreatePostInput struct {
	Content string
	UserID  models.LooseID
}

// UpdatePostInput carries the edit form for one post.
type UpdatePostInput struct {
	PostID  int64
	Content string
}

// NewPostService wires a PostService. listings may be nil to disable caching.
func NewPostService(tx TxRunner, schema SchemaEnsurer, postRepo repository.PostRepository, listings *cache.PostListings) *PostService {
	return &PostService{
		tx:       tx,
		schema:   schema,
		postRepo: postRepo,
		listings: listings,
	}
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) error {
	if in.Content == "" || !in.UserID.Present() {
		return models.NewValidationError("Content and User ID Required.")
	}

	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsurePostsTable, func() error {
		userID, err := in.UserID.Int64()
		if err != nil {
			return err
		}
		return s.tx(ctx, func(tx *gorm.DB) error {
			return s.postRepo.WithTx(tx).Insert(ctx, in.Content, userID)
		})
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	s.listings.Invalidate(ctx)
	return nil
}

// ListAll returns every post with its like count; an empty result is not an error.
func (s *PostService) ListAll(ctx context.Context) ([]models.PostWithLikes, error) {
	var posts []models.PostWithLikes
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsureLikesTable, func() error {
		var err error
		posts, err = s.listings.All(ctx, func(ctx context.Context) ([]models.PostWithLikes, error) {
			var posts []models.PostWithLikes
			err := s.tx(ctx, func(tx *gorm.DB) error {
				var err error
				posts, err = s.postRepo.WithTx(tx).SelectAll(ctx)
				return err
			})
			return posts, err
		})
		return err
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if posts == nil {
		posts = []models.PostWithLikes{}
	}
	return posts, nil
}

// ListByUser returns one user's posts, or NOT_FOUND when they have none.
func (s *PostService) ListByUser(ctx context.Context, userID int64) ([]models.PostWithLikes, error) {
	var posts []models.PostWithLikes
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsureLikesTable, func() error {
		var err error
		posts, err = s.listings.ByUser(ctx, userID, func(ctx context.Context) ([]models.PostWithLikes, error) {
			var posts []models.PostWithLikes
			err := s.tx(ctx, func(tx *gorm.DB) error {
				var err error
				posts, err = s.postRepo.WithTx(tx).SelectByUser(ctx, userID)
				return err
			})
			return posts, err
		})
		return err
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundError("Post Not Found.")
	}
	return posts, nil
}

func (s *PostService) UpdateContent(ctx context.Context, in UpdatePostInput) error {
	if in.Content == "" {
		return models.NewValidationError("Content is required")
	}
	var affected int64
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsurePostsTable, func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			var err error
			affected, err = s.postRepo.WithTx(tx).UpdateContent(ctx, in.Content, in.PostID)
			return err
		})
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if affected == 0 {
		return models.NewNotFoundError("Post not found.")
	}

	s.listings.Invalidate(ctx)
	return nil
}

// Delete removes a post; its likes go with it through ON DELETE CASCADE.
func (s *PostService) Delete(ctx context.Context, postID int64) error {
	var affected int64
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsurePostsTable, func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			var err error
			affected, err = s.postRepo.WithTx(tx).Delete(ctx, postID)
			return err
		})
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if affected == 0 {
		return models.NewNotFoundError("Post not found.")
	}

	s.listings.Invalidate(ctx)
	return nil
}
