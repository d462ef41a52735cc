package account

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"userhub/internal/database"
	"userhub/internal/domain"
	"userhub/internal/pkg/security"
	"userhub/internal/repository"
)

// recordingMailer captures every dispatched verification mail.
type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, u *domain.User) error {
	m.sent = append(m.sent, u.Email)
	return nil
}

type seqNicknames struct {
	n int
}

func (s *seqNicknames) Generate() string {
	s.n++
	return fmt.Sprintf("swift_falcon_%03d", s.n)
}

func newDBService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return NewService(
		repository.NewUserRepository(db),
		database.NewExecutor(db, zap.NewNop()),
		security.NewBcryptHasher(),
		security.NewUUIDTokenGenerator(),
		&seqNicknames{},
		zap.NewNop(),
		testMaxLoginAttempts,
	)
}

func createPayload(email string) map[string]any {
	return map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
	}
}

func TestService_Create_FirstUserIsAdmin(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()
	mail := &recordingMailer{}

	first, err := svc.Create(ctx, createPayload("root@example.com"), mail)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)
	assert.True(t, first.EmailVerified)
	assert.Nil(t, first.VerificationToken)
	assert.Empty(t, mail.sent, "auto-verified admin gets no verification mail")

	second, err := svc.Create(ctx, createPayload("user@example.com"), mail)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAnonymous, second.Role)
	assert.False(t, second.EmailVerified)
	require.NotNil(t, second.VerificationToken)
	assert.Equal(t, []string{"user@example.com"}, mail.sent)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createPayload("dup@example.com"), nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, createPayload("dup@example.com"), nil)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "no row persisted for the rejected create")
}

func TestService_Create_Validation(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	t.Run("malformed email", func(t *testing.T) {
		_, err := svc.Create(ctx, map[string]any{
			"email":    "not-an-email",
			"password": "correct-horse-battery",
		}, nil)
		assert.ErrorIs(t, err, ErrValidation)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("wrong-typed value is a validation failure", func(t *testing.T) {
		_, err := svc.Create(ctx, map[string]any{
			"email":    "typed@example.com",
			"password": 123,
		}, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Create(ctx, map[string]any{
			"email":    "ok@example.com",
			"password": "short",
		}, nil)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := svc.Create(ctx, map[string]any{}, nil)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		payload := createPayload("extra@example.com")
		payload["favorite_color"] = "blue"
		u, err := svc.Create(ctx, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, "extra@example.com", u.Email)
	})
}

func TestService_Create_NicknameRetryIsBounded(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	// a generator stuck on one name: first create takes it, second create
	// exhausts the bounded retry instead of spinning forever
	svc.nicknames = &stubNicknames{names: []string{"stuck_name"}}

	_, err := svc.Create(ctx, createPayload("a@example.com"), nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, createPayload("b@example.com"), nil)
	assert.ErrorIs(t, err, ErrNicknameExhausted)
}

func TestService_Register_IsCreateAlias(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, createPayload("reg@example.com"), nil)
	require.NoError(t, err)

	got, err := svc.GetByEmail(ctx, "reg@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestService_Update(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createPayload("upd@example.com"), nil)
	require.NoError(t, err)

	t.Run("partial update touches only supplied fields", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, map[string]any{
			"bio": "freelance botanist",
		})
		require.NoError(t, err)
		assert.Equal(t, "freelance botanist", got.Bio)
		assert.Equal(t, "upd@example.com", got.Email)
		assert.Equal(t, created.Nickname, got.Nickname)
	})

	t.Run("password change is re-hashed", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, map[string]any{
			"password": "another-long-secret",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "another-long-secret", got.HashedPassword)
		assert.True(t, security.NewBcryptHasher().Verify("another-long-secret", got.HashedPassword))
	})

	t.Run("role update", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, map[string]any{"role": "MANAGER"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, got.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, map[string]any{"role": "SUPERUSER"})
		assert.ErrorIs(t, err, ErrValidation)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("wrong-typed value is a validation failure", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, map[string]any{"bio": 42})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "no-such-id", map[string]any{"bio": "x"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createPayload("del@example.com"), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrUserNotFound)
}

func TestService_LoginLockoutEndToEnd(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createPayload("root@example.com"), nil)
	require.NoError(t, err)
	require.True(t, created.EmailVerified, "first user is auto-verified")

	for i := 0; i < testMaxLoginAttempts; i++ {
		_, err = svc.Login(ctx, "root@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	locked, err := svc.IsAccountLocked(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, locked)

	_, err = svc.Login(ctx, "root@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// reset clears the lockout and the login works again
	require.NoError(t, svc.ResetPassword(ctx, created.ID, "correct-horse-battery"))

	user, err := svc.Login(ctx, "root@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLogin)
}

func TestService_VerifyThenLogin(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createPayload("root@example.com"), nil)
	require.NoError(t, err)

	second, err := svc.Create(ctx, createPayload("new@example.com"), nil)
	require.NoError(t, err)
	require.NotNil(t, second.VerificationToken)

	// unverified accounts cannot log in, even with the right password
	_, err = svc.Login(ctx, "new@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.VerifyEmailWithToken(ctx, second.ID, *second.VerificationToken))

	verified, err := svc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.VerificationToken)
	assert.Equal(t, domain.RoleAuthenticated, verified.Role)

	_, err = svc.Login(ctx, "new@example.com", "correct-horse-battery")
	require.NoError(t, err)
}

func TestService_ListAndSearchRouting(t *testing.T) {
	svc := newDBService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, createPayload(fmt.Sprintf("u%d@example.com", i)), nil)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	found, err := svc.Search(ctx, map[string]any{"email": "u1@"}, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u1@example.com", found[0].Email)
}
