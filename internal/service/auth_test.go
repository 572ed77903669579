package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmikhaylov/shop_backend/internal/models"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	return &AuthService{
		Repo:          &repo.GormRepo{DB: db},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestAuthService_Register(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "user", pair.User.Role)
	assert.Equal(t, "user@example.com", pair.User.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// the stored refresh token and the returned one are byte-identical
	user, err := svc.Repo.FindUserByID(ctx, pair.User.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)

	// the same credentials log in afterwards
	_, err = svc.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "user@example.com", "another-password")
	assert.ErrorIs(t, err, repo.ErrEmailTaken)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	// unknown email and wrong password are indistinguishable
	_, errUnknown := svc.Login(ctx, "nobody@example.com", "secret123")
	_, errWrongPw := svc.Login(ctx, "user@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, pair.User, rotated.User)

	// the superseded token is no longer accepted
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshMismatch)

	// the latest one still is
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	// an access token is signed with the other secret and must fail closed
	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestAuthService_Refresh_ClearedSlot(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	// clearing the slot forces a new login
	require.NoError(t, svc.Repo.UpdateRefreshToken(ctx, pair.User.UserID, nil))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := tokens.SignRefresh(999, "ghost@example.com", "user", svc.RefreshSecret)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, token)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}
