// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"postboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

const batchSize = 100

// PasswordHasher hashes the shared demo password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Options controls how much demo data is generated.
type Options struct {
	Users           int
	PostsPerUser    int
	MaxLikesPerPost int
	Password        string
	Clean           bool
}

// DefaultOptions returns a small but populated data set.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		PostsPerUser:    5,
		MaxLikesPerPost: 10,
		Password:        "password123",
	}
}

// Result counts the rows written by a seeding run.
type Result struct {
	Users int
	Posts int
	Likes int
}

// Seeder builds users, posts and likes with gofakeit and persists them in one transaction.
type Seeder struct {
	db     *gorm.DB
	hasher PasswordHasher
	faker  *gofakeit.Faker
	logger *slog.Logger
}

// NewSeeder creates a Seeder. A zero seed draws a random one, any other
// value makes the generated data reproducible.
func NewSeeder(db *gorm.DB, hasher PasswordHasher, seed int64) *Seeder {
	return &Seeder{
		db:     db,
		hasher: hasher,
		faker:  gofakeit.New(seed),
		logger: slog.Default(),
	}
}

// WithLogger replaces the logger used for progress messages.
func (s *Seeder) WithLogger(l *slog.Logger) *Seeder {
	s.logger = l
	return s
}

// Run generates and inserts the data described by opts. The tables must already exist.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Users <= 0 {
		return Result{}, fmt.Errorf("seed: at least one user is required")
	}
	if opts.Password == "" {
		opts.Password = DefaultOptions().Password
	}

	hashed, err := s.hasher.Hash(opts.Password)
	if err != nil {
		return Result{}, fmt.Errorf("seed: hash demo password: %w", err)
	}

	var res Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := Clean(tx); err != nil {
				return err
			}
		}

		users := s.BuildUsers(opts.Users, hashed)
		if err := tx.CreateInBatches(&users, batchSize).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		res.Users = len(users)

		posts := s.BuildPosts(users, opts.PostsPerUser)
		if len(posts) > 0 {
			if err := tx.CreateInBatches(&posts, batchSize).Error; err != nil {
				return fmt.Errorf("seed posts: %w", err)
			}
		}
		res.Posts = len(posts)

		likes := s.BuildLikes(users, posts, opts.MaxLikesPerPost)
		if len(likes) > 0 {
			if err := tx.CreateInBatches(&likes, batchSize).Error; err != nil {
				return fmt.Errorf("seed likes: %w", err)
			}
		}
		res.Likes = len(likes)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.InfoContext(ctx, "seeded demo data",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

// Clean empties the users, posts and likes tables and resets their sequences.
func Clean(db *gorm.DB) error {
	if err := db.Exec("TRUNCATE TABLE likes, posts, users RESTART IDENTITY CASCADE").Error; err != nil {
		return fmt.Errorf("seed: clean tables: %w", err)
	}
	return nil
}

// BuildUsers returns n users sharing one password hash. Emails are unique
// because each carries its position in the batch.
func (s *Seeder) BuildUsers(n int, hashedPassword string) []models.User {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, models.User{
			Email:    fmt.Sprintf("%s%d@%s", strings.ToLower(s.faker.Username()), i+1, s.faker.DomainName()),
			Password: hashedPassword,
		})
	}
	return users
}

// BuildPosts returns perUser posts for every persisted user.
func (s *Seeder) BuildPosts(users []models.User, perUser int) []models.Post {
	if perUser <= 0 {
		return nil
	}
	posts := make([]models.Post, 0, len(users)*perUser)
	for _, u := range users {
		for i := 0; i < perUser; i++ {
			posts = append(posts, models.Post{
				Content: s.faker.Sentence(s.faker.Number(4, 16)),
				UserID:  u.ID,
			})
		}
	}
	return posts
}

// BuildLikes picks up to maxPerPost distinct users for each post, so no
// (user, post) pair repeats.
func (s *Seeder) BuildLikes(users []models.User, posts []models.Post, maxPerPost int) []models.Like {
	if maxPerPost <= 0 || len(users) == 0 {
		return nil
	}
	if maxPerPost > len(users) {
		maxPerPost = len(users)
	}

	order := make([]int, len(users))
	for i := range order {
		order[i] = i
	}

	var likes []models.Like
	for _, p := range posts {
		s.faker.ShuffleInts(order)
		n := s.faker.Number(0, maxPerPost)
		for _, idx := range order[:n] {
			likes = append(likes, models.Like{UserID: users[idx].ID, PostID: p.ID})
		}
	}
	return likes
}
