package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/handlers"
	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/hugh/fleet-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	db := testutil.SetupTestDB(t)

	authService := auth.NewService(db, testutil.CreateTestJWTService())
	handler := handlers.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", handler.Register)
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/logout", handler.Logout)

	return r, db
}

func TestAuthHandler_Register(t *testing.T) {
	router, db := setupAuthTestRouter(t)
	defer testutil.CleanupTestDB(t, db)

	req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register",
		map[string]interface{}{
			"email":          "new@example.com",
			"password":       "password123",
			"name":           "New Owner",
			"franchise_name": "New Fleet",
		})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)

	var resp dto.AuthResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "owner", resp.User.Role)
	assert.Equal(t, "New Fleet", resp.User.FranchiseName)

	// The session cookie is set.
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	router, db := setupAuthTestRouter(t)
	defer testutil.CleanupTestDB(t, db)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "missing email",
			body: map[string]interface{}{
				"password": "password123", "name": "X",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad email",
			body: map[string]interface{}{
				"email": "not-an-email", "password": "password123", "name": "X",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			body: map[string]interface{}{
				"email": "x@example.com", "password": "short", "name": "X",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			testutil.AssertStatus(t, rr, tt.wantStatus)
		})
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	router, db := setupAuthTestRouter(t)
	defer testutil.CleanupTestDB(t, db)

	body := map[string]interface{}{
		"email": "dup@example.com", "password": "password123", "name": "Dup",
	}

	req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register", body)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusConflict)
}

func TestAuthHandler_LoginAndLogout(t *testing.T) {
	router, db := setupAuthTestRouter(t)
	defer testutil.CleanupTestDB(t, db)

	req := testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/register",
		map[string]interface{}{
			"email": "user@example.com", "password": "password123", "name": "User",
		})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"email": "user@example.com", "password": "password123"})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp dto.AuthResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.NotEmpty(t, resp.Token)

	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"email": "user@example.com", "password": "wrong-password"})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	// Logout clears the cookie.
	req = testutil.UnauthenticatedRequest(t, http.MethodPost, "/api/v1/auth/logout", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}
