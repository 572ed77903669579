package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmikhaylov/shop_backend/internal/models"
)

func TestGetProducts_Public(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "mouse", Price: 29.99}).Error)
	require.NoError(t, env.DB.Create(&models.Product{Name: "keyboard", Price: 49.99}).Error)

	rec := env.doJSON(http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "keyboard", items[0].Name)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	prod := models.Product{Name: "mouse", Price: 29.99}
	require.NoError(t, env.DB.Create(&prod).Error)

	rec := env.doJSON(http.MethodGet, "/products/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, prod.ID, resp.ID)
	assert.Equal(t, prod.Name, resp.Name)
	assert.Equal(t, prod.Price, resp.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/products/12345", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]interface{}{"name": "keyboard", "price": 49.99}

	// no token
	rec := env.doJSON(http.MethodPost, "/products", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// plain user
	user := registerUser(t, env, "user@example.com", "secret123")
	rec = env.doJSON(http.MethodPost, "/products", body, user.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin
	admin := loginAdmin(t, env)
	rec = env.doJSON(http.MethodPost, "/products", body, admin.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "keyboard", created.Name)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateProduct_PriceValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := loginAdmin(t, env)

	for _, price := range []float64{0, -5, 10.005} {
		rec := env.doJSON(http.MethodPost, "/products", map[string]interface{}{
			"name":  "keyboard",
			"price": price,
		}, admin.AccessToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "price %v should be rejected", price)
	}
}

func TestPatchProduct_PartialMerge(t *testing.T) {
	env := newTestEnv(t)
	admin := loginAdmin(t, env)

	prod := models.Product{Name: "mouse", Price: 29.99}
	require.NoError(t, env.DB.Create(&prod).Error)

	rec := env.doJSON(http.MethodPatch, "/products/1", map[string]interface{}{
		"price": 34.99,
	}, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var patched models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, "mouse", patched.Name)
	assert.Equal(t, 34.99, patched.Price)
}

func TestPatchProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := loginAdmin(t, env)

	rec := env.doJSON(http.MethodPatch, "/products/12345", map[string]interface{}{
		"price": 34.99,
	}, admin.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := loginAdmin(t, env)

	prod := models.Product{Name: "mouse", Price: 29.99}
	require.NoError(t, env.DB.Create(&prod).Error)

	rec := env.doJSON(http.MethodDelete, "/products/1", nil, admin.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/products/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := loginAdmin(t, env)

	rec := env.doJSON(http.MethodDelete, "/products/12345", nil, admin.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	prod := models.Product{Name: "mouse", Price: 29.99}
	require.NoError(t, env.DB.Create(&prod).Error)

	user := registerUser(t, env, "user@example.com", "secret123")
	rec := env.doJSON(http.MethodDelete, "/products/1", nil, user.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
