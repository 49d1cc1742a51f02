package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/api/handlers"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tenant"
	"github.com/hugh/fleet-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVehicleTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	resolver := tenant.NewResolver(tc.DB, tc.JWTService)
	handler := handlers.NewVehicleHandler()

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(resolver))
		r.Route("/api/v1/vehicles", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Get("/{id}", handler.Get)
			r.With(middleware.RequireManager).Post("/", handler.Create)
			r.With(middleware.RequireManager).Put("/{id}", handler.Update)
			r.With(middleware.RequireManager).Delete("/{id}", handler.Delete)
		})
	})

	return r, tc
}

func TestVehicleHandler_Create(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "minimal vehicle",
			body: map[string]interface{}{
				"name": "Van 1",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "full vehicle",
			body: map[string]interface{}{
				"name":     "Van 2",
				"vin":      "1HGCM82633A004352",
				"make":     "Ford",
				"model":    "Transit",
				"year":     2022,
				"odometer": 12000,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       map[string]interface{}{"make": "Ford"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid vin",
			body: map[string]interface{}{
				"name": "Van 3",
				"vin":  "SHORT",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "negative odometer",
			body: map[string]interface{}{
				"name":     "Van 4",
				"odometer": -1,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/vehicles", tt.body, tc.Token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			testutil.AssertStatus(t, rr, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var vehicle models.Vehicle
				testutil.ParseJSONResponse(t, rr, &vehicle)
				assert.Equal(t, tc.Franchise.ID, vehicle.FranchiseID)
			}
		})
	}
}

func TestVehicleHandler_Create_DriverForbidden(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	driver := testutil.CreateTestUser(t, tc.DB)
	testutil.CreateTestMembership(t, tc.DB, driver, tc.Franchise, "driver")
	token := testutil.GenerateTestToken(t, tc.JWTService, driver)

	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/vehicles",
		map[string]interface{}{"name": "Van 1"}, token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusForbidden)
}

func TestVehicleHandler_List_TenantIsolated(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Ours 1")
	testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Ours 2")

	other := testutil.CreateTestFranchise(t, tc.DB)
	testutil.CreateTestVehicle(t, tc.DB, other.ID, "Theirs")

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/vehicles", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var vehicles []models.Vehicle
	testutil.ParseJSONResponse(t, rr, &vehicles)
	require.Len(t, vehicles, 2)
	for _, v := range vehicles {
		assert.Equal(t, tc.Franchise.ID, v.FranchiseID)
	}
}

func TestVehicleHandler_Get_CrossTenant(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestFranchise(t, tc.DB)
	theirs := testutil.CreateTestVehicle(t, tc.DB, other.ID, "Theirs")

	// A real id in another franchise reads exactly like a missing one.
	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/vehicles/"+theirs.ID.String(), nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	req = testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/vehicles/"+uuid.NewString(), nil, tc.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestVehicleHandler_Update(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	vehicle := testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Van 1")

	req := testutil.AuthenticatedRequest(t, http.MethodPut, "/api/v1/vehicles/"+vehicle.ID.String(),
		map[string]interface{}{"odometer": 1500, "status": "in_shop"}, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var updated models.Vehicle
	testutil.ParseJSONResponse(t, rr, &updated)
	assert.Equal(t, 1500, updated.Odometer)
	assert.Equal(t, models.VehicleStatusInShop, updated.Status)
}

func TestVehicleHandler_Update_OdometerCannotDecrease(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	vehicle := testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Van 1")
	require.NoError(t, tc.DB.Model(vehicle).Update("odometer", 5000).Error)

	req := testutil.AuthenticatedRequest(t, http.MethodPut, "/api/v1/vehicles/"+vehicle.ID.String(),
		map[string]interface{}{"odometer": 4000}, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestVehicleHandler_Delete(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	vehicle := testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Van 1")

	req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/vehicles/"+vehicle.ID.String(), nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	// Deleting it again is a 404.
	req = testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/vehicles/"+vehicle.ID.String(), nil, tc.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestVehicleHandler_Delete_CrossTenant(t *testing.T) {
	router, tc := setupVehicleTestRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestFranchise(t, tc.DB)
	theirs := testutil.CreateTestVehicle(t, tc.DB, other.ID, "Theirs")

	req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/vehicles/"+theirs.ID.String(), nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	// The other franchise's vehicle is untouched.
	var still models.Vehicle
	require.NoError(t, tc.DB.First(&still, "id = ?", theirs.ID).Error)
}
