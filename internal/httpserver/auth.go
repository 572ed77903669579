package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmikhaylov/shop_backend/internal/events"
	"github.com/kmikhaylov/shop_backend/internal/logging"
	mwauth "github.com/kmikhaylov/shop_backend/internal/middleware/auth"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/service"
	"github.com/kmikhaylov/shop_backend/internal/tokens"
	"github.com/kmikhaylov/shop_backend/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *events.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already in use")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_registered",
		"userID": pair.User.UserID,
		"email":  pair.User.Email,
	})

	l.Info("register_success", "status", 201)
	return c.JSON(http.StatusCreated, pair)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]interface{}{
		"type":   "user_logged_in",
		"userID": pair.User.UserID,
		"email":  pair.User.Email,
	})

	l.Info("login_success", "status", 200)
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshMismatch):
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token mismatch")
		case errors.Is(err, service.ErrRefreshInvalid):
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token invalid or expired")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("refresh_success", "status", 200)
	return c.JSON(http.StatusOK, pair)
}

// Profile returns the identity the access guard attached; no store access.
func (h *AuthHTTP) Profile(c echo.Context) error {
	sub, _ := c.Get(mwauth.CtxUserID).(string)
	email, _ := c.Get(mwauth.CtxEmail).(string)
	role, _ := c.Get(mwauth.CtxRole).(string)

	userID, err := tokens.UserIDFromSubject(sub)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	return c.JSON(http.StatusOK, service.UserInfo{
		UserID: userID,
		Email:  email,
		Role:   role,
	})
}

func (h *AuthHTTP) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
