package account

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"userhub/internal/database"
	"userhub/internal/domain"
)

// maxNicknameAttempts bounds the collision-retry loop; generation space is
// large enough that hitting this means the generator is broken.
const maxNicknameAttempts = 10

// Service owns the user account lifecycle: lookups, registration, login
// with lockout, email verification, password reset and parametric search.
type Service struct {
	users            UserRepositoryInterface
	exec             *database.Executor
	hasher           PasswordHasher
	tokens           TokenGenerator
	nicknames        NicknameGenerator
	validate         *validator.Validate
	log              *zap.Logger
	maxLoginAttempts int
}

func NewService(
	users UserRepositoryInterface,
	exec *database.Executor,
	hasher PasswordHasher,
	tokens TokenGenerator,
	nicknames NicknameGenerator,
	log *zap.Logger,
	maxLoginAttempts int,
) *Service {
	return &Service{
		users:            users,
		exec:             exec,
		hasher:           hasher,
		tokens:           tokens,
		nicknames:        nicknames,
		validate:         validator.New(),
		log:              log,
		maxLoginAttempts: maxLoginAttempts,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.ByEmail(ctx, normalizeEmail(email))
}

func (s *Service) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	return s.users.ByNickname(ctx, nickname)
}

// Create validates the raw payload, hashes the password, picks a free
// nickname and persists the user. The very first user becomes ADMIN and is
// auto-verified; everyone else starts ANONYMOUS with a verification token
// and gets a best-effort verification mail after commit.
func (s *Service) Create(ctx context.Context, raw map[string]any, mailer Mailer) (*domain.User, error) {
	in, err := DecodeCreateUser(raw)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidPayload(err)
	}

	email := normalizeEmail(in.Email)
	existing, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	nickname, err := s.pickNickname(ctx)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Nickname:       nickname,
		HashedPassword: hashed,
		Bio:            in.Bio,
		IsProfessional: in.IsProfessional,
	}

	// Count and insert share the transaction, but first-user promotion is
	// still isolation-dependent under concurrent bootstrap.
	err = s.exec.RunInTransaction(ctx, func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&domain.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			user.Role = domain.RoleAdmin
			user.EmailVerified = true
		} else {
			user.Role = domain.RoleAnonymous
			token := s.tokens.NewToken()
			user.VerificationToken = &token
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	if !user.EmailVerified && mailer != nil {
		if mailErr := mailer.SendVerificationEmail(ctx, user); mailErr != nil {
			s.log.Warn("verification email failed",
				zap.String("user_id", user.ID), zap.Error(mailErr))
		}
	}
	return user, nil
}

// Register is the public alias for Create.
func (s *Service) Register(ctx context.Context, raw map[string]any, mailer Mailer) (*domain.User, error) {
	return s.Create(ctx, raw, mailer)
}

// Update applies the supplied fields to the row, then re-fetches the
// refreshed entity. A password change is re-hashed before storage.
func (s *Service) Update(ctx context.Context, id string, raw map[string]any) (*domain.User, error) {
	in, err := DecodeUpdateUser(raw)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidPayload(err)
	}

	fields := map[string]any{}
	if in.Email != nil {
		fields["email"] = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hashed
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.IsProfessional != nil {
		fields["is_professional"] = *in.IsProfessional
	}
	if in.Role != nil {
		fields["role"] = *in.Role
	}

	if len(fields) > 0 {
		err = s.exec.RunInTransaction(ctx, func(tx *gorm.DB) error {
			return tx.Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error
		})
		if err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.exec.RunInTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&domain.User{}).Error
	})
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.users.List(ctx, skip, limit)
}

func (s *Service) Search(ctx context.Context, search, filter map[string]any, skip, limit int) ([]domain.User, error) {
	return s.users.Search(ctx, search, filter, skip, limit)
}

// Login authenticates by email and password. Unknown email, wrong password
// and unverified email are indistinguishable to the caller; only a locked
// account is reported as such. The verification check runs before the
// password check on purpose.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsLocked {
		return nil, ErrAccountLocked
	}
	if !user.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= s.maxLoginAttempts {
			user.IsLocked = true
			s.log.Info("account locked",
				zap.String("user_id", user.ID),
				zap.Int("attempts", user.FailedLoginAttempts))
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAccountLocked reports lockout state; an unknown email is not locked.
func (s *Service) IsAccountLocked(ctx context.Context, email string) (bool, error) {
	user, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, err
	}
	return user != nil && user.IsLocked, nil
}

// ResetPassword stores a new hash and clears any lockout state.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.FailedLoginAttempts = 0
	user.IsLocked = false
	return s.users.Save(ctx, user)
}

// VerifyEmailWithToken marks the user verified when the stored token
// matches, clears the token and promotes the role to AUTHENTICATED.
func (s *Service) VerifyEmailWithToken(ctx context.Context, id, token string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.VerificationToken == nil || *user.VerificationToken != token {
		return ErrInvalidVerificationToken
	}
	user.EmailVerified = true
	user.VerificationToken = nil
	user.Role = domain.RoleAuthenticated
	return s.users.Save(ctx, user)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// UnlockAccount clears lockout state. Already-unlocked accounts are left
// untouched, with no write issued.
func (s *Service) UnlockAccount(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsLocked {
		return nil
	}
	user.IsLocked = false
	user.FailedLoginAttempts = 0
	return s.users.Save(ctx, user)
}

func (s *Service) pickNickname(ctx context.Context) (string, error) {
	for i := 0; i < maxNicknameAttempts; i++ {
		candidate := s.nicknames.Generate()
		taken, err := s.users.ByNickname(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return candidate, nil
		}
	}
	return "", ErrNicknameExhausted
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
