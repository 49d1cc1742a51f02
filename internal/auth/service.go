package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

type RegisterInput struct {
	Email         string
	Password      string
	Name          string
	FranchiseName string // Optional: create new franchise
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token     string                      `json:"token"`
	User      *models.User                `json:"user"`
	Franchise *models.Franchise           `json:"franchise,omitempty"`
	Role      string                      `json:"role,omitempty"`
	Member    *models.FranchiseMembership `json:"-"`
}

// Register creates the user, their franchise, and an owner membership in one
// transaction. New signups always own their franchise; drivers and managers
// join via membership management, not registration.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	franchiseName := input.FranchiseName
	if franchiseName == "" {
		franchiseName = input.Name + "'s Fleet"
	}

	franchise := models.Franchise{
		Name: franchiseName,
		Slug: generateSlug(franchiseName),
	}

	var user models.User
	var membership models.FranchiseMembership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&franchise).Error; err != nil {
			return err
		}

		user = models.User{
			Email:        input.Email,
			PasswordHash: hash,
			Name:         input.Name,
			IsActive:     true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		membership = models.FranchiseMembership{
			UserID:      user.ID,
			FranchiseID: franchise.ID,
			Role:        "owner",
			IsActive:    true,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     token,
		User:      &user,
		Franchise: &franchise,
		Role:      membership.Role,
		Member:    &membership,
	}, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", input.Email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	resp := &AuthResponse{Token: token, User: &user}

	// Best-effort enrichment for the login response; the tenant resolver is
	// the authority on the acting membership for every later request.
	var membership models.FranchiseMembership
	err = s.db.WithContext(ctx).
		Preload("Franchise").
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("created_at ASC, id ASC").
		First(&membership).Error
	if err == nil {
		resp.Franchise = membership.Franchise
		resp.Role = membership.Role
		resp.Member = &membership
	}

	return resp, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	// Add timestamp to ensure uniqueness
	return slug + "-" + time.Now().Format("0601021504")
}
