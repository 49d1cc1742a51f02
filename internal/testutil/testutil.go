package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/hugh/fleet-hub/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.Franchise{},
		&models.User{},
		&models.FranchiseMembership{},
		&models.Vehicle{},
		&models.UsageLog{},
		&models.FuelEntry{},
		&models.Inspection{},
		&models.Issue{},
		&models.MaintenancePolicy{},
		&models.ScheduledMaintenance{},
		&models.PushSubscription{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestFranchise creates a test franchise
func CreateTestFranchise(t *testing.T, db *gorm.DB) *models.Franchise {
	t.Helper()

	franchise := &models.Franchise{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name: "Test Franchise",
		Slug: "test-franchise-" + uuid.New().String()[:8],
		Plan: "free",
	}

	if err := db.Create(franchise).Error; err != nil {
		t.Fatalf("failed to create test franchise: %v", err)
	}

	return franchise
}

// CreateTestUser creates a test user with no memberships
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestMembership links a user to a franchise with the given role
func CreateTestMembership(t *testing.T, db *gorm.DB, user *models.User, franchise *models.Franchise, role string) *models.FranchiseMembership {
	t.Helper()

	membership := &models.FranchiseMembership{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID:      user.ID,
		FranchiseID: franchise.ID,
		Role:        role,
		IsActive:    true,
	}

	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}

	return membership
}

// CreateTestVehicle creates a test vehicle in the given franchise
func CreateTestVehicle(t *testing.T, db *gorm.DB, franchiseID uuid.UUID, name string) *models.Vehicle {
	t.Helper()

	vehicle := &models.Vehicle{
		Base: models.Base{
			ID: uuid.New(),
		},
		FranchiseID: franchiseID,
		Name:        name,
		Status:      models.VehicleStatusActive,
	}

	if err := db.Create(vehicle).Error; err != nil {
		t.Fatalf("failed to create test vehicle: %v", err)
	}

	return vehicle
}

// CreateTestSchedule creates a scheduled maintenance row. Interval pointers
// may be nil to model an unset schedule.
func CreateTestSchedule(t *testing.T, db *gorm.DB, franchiseID, vehicleID uuid.UUID, maintenanceType string, intervalMiles *int, completed *bool) *models.ScheduledMaintenance {
	t.Helper()

	schedule := &models.ScheduledMaintenance{
		Base: models.Base{
			ID: uuid.New(),
		},
		FranchiseID:     franchiseID,
		VehicleID:       vehicleID,
		MaintenanceType: maintenanceType,
		IntervalMiles:   intervalMiles,
		Completed:       completed,
	}

	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test schedule: %v", err)
	}

	return schedule
}

// CreateTestPolicy creates a maintenance policy for the franchise
func CreateTestPolicy(t *testing.T, db *gorm.DB, franchiseID uuid.UUID, maintenanceType string, intervalMiles, intervalDays *int) *models.MaintenancePolicy {
	t.Helper()

	policy := &models.MaintenancePolicy{
		Base: models.Base{
			ID: uuid.New(),
		},
		FranchiseID:          franchiseID,
		MaintenanceType:      maintenanceType,
		DefaultIntervalMiles: intervalMiles,
		DefaultIntervalDays:  intervalDays,
		IsActive:             true,
	}

	if err := db.Create(policy).Error; err != nil {
		t.Fatalf("failed to create test policy: %v", err)
	}

	return policy
}

// IntPtr returns a pointer to the given int
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to the given bool
func BoolPtr(v bool) *bool { return &v }

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Franchise  *models.Franchise
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, franchise, an owner
// user, and a valid token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	franchise := CreateTestFranchise(t, db)
	user := CreateTestUser(t, db)
	CreateTestMembership(t, db, user, franchise, "owner")
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Franchise:  franchise,
		User:       user,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
