package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kmikhaylov/shop_backend/internal/hash"
	"github.com/kmikhaylov/shop_backend/internal/logging"
	"github.com/kmikhaylov/shop_backend/internal/models"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type UserInfo struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type TokenPair struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         UserInfo `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "status", 409, "reason", "email already in use")
		} else {
			l.Error("register_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	return s.issueAndStore(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	return s.issueAndStore(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token must match the one stored on the user row, so every successful
// refresh invalidates the previous refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid or expired token")
		return nil, ErrRefreshInvalid
	}

	userID, err := tokens.UserIDFromSubject(claims.Subject)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user not found")
			return nil, ErrRefreshInvalid
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	if user.RefreshToken == nil {
		l.Warn("refresh_failed", "status", 401, "reason", "no stored token")
		return nil, ErrRefreshInvalid
	}
	if *user.RefreshToken != refreshToken {
		l.Warn("refresh_failed", "status", 401, "reason", "token superseded")
		return nil, ErrRefreshMismatch
	}

	return s.issueAndStore(ctx, user)
}

// issueAndStore is the only place tokens are minted. It persists the new
// refresh token onto the user row before returning, so the stored value and
// the returned one are always byte-identical.
func (s *AuthService) issueAndStore(ctx context.Context, user *models.User) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue")

	accessToken, err := tokens.SignAccess(user.ID, user.Email, user.Role, s.JWTSecret)
	if err != nil {
		l.Error("issue_failed", "status", 500, "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	refreshToken, err := tokens.SignRefresh(user.ID, user.Email, user.Role, s.RefreshSecret)
	if err != nil {
		l.Error("issue_failed", "status", 500, "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	if err := s.Repo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		l.Error("issue_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserInfo{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		},
	}, nil
}
