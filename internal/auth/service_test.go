package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())

	resp, err := svc.Register(context.Background(), auth.RegisterInput{
		Email:         "owner@example.com",
		Password:      "password123",
		Name:          "Pat Owner",
		FranchiseName: "Pat's Fleet",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "owner@example.com", resp.User.Email)
	require.NotNil(t, resp.Franchise)
	assert.Equal(t, "Pat's Fleet", resp.Franchise.Name)
	assert.Equal(t, "owner", resp.Role)

	// Registration writes the franchise, user, and owner membership.
	var membership models.FranchiseMembership
	require.NoError(t, db.First(&membership, "user_id = ?", resp.User.ID).Error)
	assert.Equal(t, resp.Franchise.ID, membership.FranchiseID)
	assert.Equal(t, "owner", membership.Role)
	assert.True(t, membership.IsActive)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())
	input := auth.RegisterInput{
		Email:    "dup@example.com",
		Password: "password123",
		Name:     "First",
	}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, auth.ErrUserExists)
}

func TestService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())

	reg, err := svc.Register(context.Background(), auth.RegisterInput{
		Email:         "login@example.com",
		Password:      "password123",
		Name:          "Login User",
		FranchiseName: "Login Fleet",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), auth.LoginInput{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Franchise)
	assert.Equal(t, reg.Franchise.ID, resp.Franchise.ID)
	assert.Equal(t, "owner", resp.Role)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())

	_, err := svc.Register(context.Background(), auth.RegisterInput{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login User",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), auth.LoginInput{
		Email:    "login@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_InactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())

	reg, err := svc.Register(context.Background(), auth.RegisterInput{
		Email:    "inactive@example.com",
		Password: "password123",
		Name:     "Inactive User",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", reg.User.ID).Update("is_active", false).Error)

	_, err = svc.Login(context.Background(), auth.LoginInput{
		Email:    "inactive@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, auth.ErrInactiveUser)
}

func TestService_GetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := auth.NewService(db, testutil.CreateTestJWTService())
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUserByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
