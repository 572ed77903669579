package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmikhaylov/shop_backend/internal/events"
	"github.com/kmikhaylov/shop_backend/internal/hash"
	"github.com/kmikhaylov/shop_backend/internal/models"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}))

	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	gormRepo := &repo.GormRepo{DB: db}
	producer := &events.Producer{}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:          gormRepo,
				JWTSecret:     jwtSecret,
				RefreshSecret: refreshSecret,
			},
			Producer: producer,
		},
		ProductHandler: &ProductHTTP{
			Svc:      &service.ProductService{Repo: gormRepo},
			Producer: producer,
		},
		JWTSecret: jwtSecret,
	})

	return &testEnv{T: t, E: e, DB: db}
}

// doJSON drives a request through the full router so the guards run.
func (env *testEnv) doJSON(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

type tokenPairResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		UserID uint   `json:"userId"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	} `json:"user"`
}

func registerUser(t *testing.T, env *testEnv, email, password string) tokenPairResp {
	t.Helper()

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var pair tokenPairResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func loginAdmin(t *testing.T, env *testEnv) tokenPairResp {
	t.Helper()

	pwHash, err := hash.HashPassword("admin-password")
	require.NoError(t, err)
	admin := models.User{
		Email:        "admin@example.com",
		PasswordHash: pwHash,
		Role:         "admin",
	}
	require.NoError(t, env.DB.Create(&admin).Error)

	rec := env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-password",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenPairResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}
