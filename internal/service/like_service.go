package service

import (
	"context"

	"postboard/internal/cache"
	"postboard/internal/models"
	"postboard/internal/repository"

	"gorm.io/gorm"
)

// LikeService records and removes likes.
type LikeService struct {
	tx       TxRunner
	schema   SchemaEnsurer
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	listings *cache.PostListings
}

// LikeInput identifies the liking user and the target post.
type LikeInput struct {
	PostID int64
	UserID models.LooseID
}

func NewLikeService(
	tx TxRunner,
	schema SchemaEnsurer,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	listings *cache.PostListings,
) *LikeService {
	return &LikeService{
		tx:       tx,
		schema:   schema,
		postRepo: postRepo,
		likeRepo: likeRepo,
		listings: listings,
	}
}

// Like records that the user likes the post. Liking twice fails on the
// (user_id, post_id) constraint and is reported as an internal error.
func (s *LikeService) Like(ctx context.Context, in LikeInput) error {
	if !in.UserID.Present() {
		return models.NewValidationError("User ID Required.")
	}
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsureLikesTable, func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			if err := s.requirePost(ctx, tx, in.PostID); err != nil {
				return err
			}
			userID, err := in.UserID.Int64()
			if err != nil {
				return err
			}
			return s.likeRepo.WithTx(tx).Insert(ctx, userID, in.PostID)
		})
	})
	if err != nil {
		return asAppError(err)
	}

	s.listings.Invalidate(ctx)
	return nil
}

// Unlike removes the user's like if there is one; removing an absent like succeeds.
func (s *LikeService) Unlike(ctx context.Context, in LikeInput) error {
	if !in.UserID.Present() {
		return models.NewValidationError("User ID Required.")
	}
	err := withSchema(ctx, s.schema, SchemaEnsurer.EnsureLikesTable, func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			if err := s.requirePost(ctx, tx, in.PostID); err != nil {
				return err
			}
			userID, err := in.UserID.Int64()
			if err != nil {
				return err
			}
			_, err = s.likeRepo.WithTx(tx).Delete(ctx, userID, in.PostID)
			return err
		})
	})
	if err != nil {
		return asAppError(err)
	}

	s.listings.Invalidate(ctx)
	return nil
}

func (s *LikeService) requirePost(ctx context.Context, tx *gorm.DB, postID int64) error {
	post, err := s.postRepo.WithTx(tx).SelectByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NewNotFoundError("Post not found.")
	}
	return nil
}
