package account

import (
	"context"

	"userhub/internal/domain"
)

// UserRepositoryInterface — only the methods the account service uses.
// Lookups return (nil, nil) when no row matches.
type UserRepositoryInterface interface {
	ByID(ctx context.Context, id string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByNickname(ctx context.Context, nickname string) (*domain.User, error)
	Save(ctx context.Context, u *domain.User) error
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, search, filter map[string]any, skip, limit int) ([]domain.User, error)
}

// Mailer delivers the verification mail after an unverified user is created.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, u *domain.User) error
}

// PasswordHasher abstracts the hash/verify collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenGenerator produces opaque email-verification tokens.
type TokenGenerator interface {
	NewToken() string
}

// NicknameGenerator produces random display-name candidates. Uniqueness is
// the service's problem, not the generator's.
type NicknameGenerator interface {
	Generate() string
}
