package service

import (
	"context"
	"errors"
	"log/slog"

	"postboard/internal/auth"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/repository"

	"gorm.io/gorm"
)

// UserService registers and authenticates users.
type UserService struct {
	tx       TxRunner
	schema   SchemaEnsurer
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string
	Password string
}

func NewUserService(
	tx TxRunner,
	schema SchemaEnsurer,
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
) *UserService {
	return &UserService{
		tx:       tx,
		schema:   schema,
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
	}
}

// Register stores a new user and returns an access token for them.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Email == "" || in.Password == "" {
		return "", models.NewValidationError("Email and Password Required.")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	err = withSchema(ctx, s.schema, SchemaEnsurer.EnsureUsersTable, func() error {
		return s.tx(ctx, func(tx *gorm.DB) error {
			return s.userRepo.WithTx(tx).Insert(ctx, in.Email, hashed)
		})
	})
	if errors.Is(err, repository.ErrUniqueViolation) {
		return "", models.NewConflictError("Email already in use.", err)
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}

	return s.issueToken(in.Email)
}

// Login checks the credentials and returns an access token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	var (
		stored string
		found  bool
	)
	err := s.tx(ctx, func(tx *gorm.DB) error {
		var err error
		stored, found, err = s.userRepo.WithTx(tx).FindPasswordByEmail(ctx, in.Email)
		return err
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if !found {
		return "", models.NewUnauthorizedError("Invalid email.")
	}

	ok, err := s.hasher.Verify(stored, in.Password)
	if errors.Is(err, auth.ErrMalformedHash) {
		middleware.Logger.WarnContext(ctx, "Stored password hash could not be parsed", slog.String("error", err.Error()))
	}
	if err != nil || !ok {
		return "", models.NewUnauthorizedError("Invalid password.")
	}

	return s.issueToken(in.Email)
}

// issueToken embeds only the email; the password never leaves this service.
func (s *UserService) issueToken(email string) (string, error) {
	token, err := s.issuer.Issue(map[string]string{"email": email})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}
