package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nkhandel/bookstock/internal/models"
	"github.com/nkhandel/bookstock/internal/server"
	"github.com/nkhandel/bookstock/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnvelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// newAPI points the shared connection at a fresh sqlite database and
// returns the fully assembled handler.
func newAPI(t *testing.T) http.Handler {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Category{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return server.NewRouter().Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func loginToken(t *testing.T, h http.Handler) string {
	t.Helper()

	rec, _ := do(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "sam@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func productBody(barcode, name string) map[string]interface{} {
	return map[string]interface{}{
		"barcode":     barcode,
		"name":        name,
		"description": "First edition",
		"price":       9.99,
		"quantity":    5,
		"category":    "Fiction",
	}
}

func TestHealthz(t *testing.T) {
	h := newAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductsRequireToken(t *testing.T) {
	h := newAPI(t)

	rec, env := do(t, h, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", env.Message)

	// A rejected create must leave no trace.
	rec, _ = do(t, h, http.MethodPost, "/api/products", "", productBody("111", "Sneaky"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := loginToken(t, h)
	rec, env = do(t, h, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Empty(t, products)
}

func TestGarbageTokenRejected(t *testing.T) {
	h := newAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/api/products", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newAPI(t)

	rec, env := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestLoginValidation(t *testing.T) {
	h := newAPI(t)

	rec, env := do(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestProductLifecycle(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	// Create
	rec, env := do(t, h, http.MethodPost, "/api/products", token, productBody("123456789012", "Book A"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Book A", created.Name)

	// Show
	rec, env = do(t, h, http.MethodGet, "/api/products/123456789012", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update
	body := productBody("123456789012", "Book A (Revised)")
	body["price"] = 14.99
	rec, env = do(t, h, http.MethodPut, "/api/products/123456789012", token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Book A (Revised)", updated.Name)
	assert.Equal(t, 14.99, updated.Price)

	// Delete
	rec, _ = do(t, h, http.MethodDelete, "/api/products/123456789012", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec, _ = do(t, h, http.MethodGet, "/api/products/123456789012", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateValidationErrors(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	rec, env := do(t, h, http.MethodPost, "/api/products", token, map[string]interface{}{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation failed", env.Message)
	for _, field := range []string{"barcode", "name", "price", "quantity", "category"} {
		assert.Contains(t, env.Errors, field)
	}
}

func TestCreateDuplicateBarcode(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	rec, _ := do(t, h, http.MethodPost, "/api/products", token, productBody("123456789012", "Book A"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/api/products", token, productBody("123456789012", "Book B"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"The barcode already exists."}, env.Errors["barcode"])
}

func TestCreateWrongTypedFields(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	body := productBody("123456789012", "Book A")
	body["price"] = "abc"
	rec, env := do(t, h, http.MethodPost, "/api/products", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"The price field must be a number."}, env.Errors["price"])

	body = productBody("123456789012", "Book A")
	body["quantity"] = 5.5
	rec, env = do(t, h, http.MethodPost, "/api/products", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"The quantity field must be an integer."}, env.Errors["quantity"])

	// Neither attempt wrote anything.
	rec, env = do(t, h, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Empty(t, products)
}

func TestUpdateWrongTypedFields(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	rec, _ := do(t, h, http.MethodPost, "/api/products", token, productBody("123456789012", "Book A"))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := productBody("123456789012", "Book A")
	body["price"] = "free"
	rec, env := do(t, h, http.MethodPut, "/api/products/123456789012", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"The price field must be a number."}, env.Errors["price"])
}

func TestUpdateUnknownBarcode(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	rec, _ := do(t, h, http.MethodPut, "/api/products/missing", token, productBody("missing", "Ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpoint(t *testing.T) {
	h := newAPI(t)
	token := loginToken(t, h)

	rec, env := do(t, h, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "sam@example.com", user.Email)
}
