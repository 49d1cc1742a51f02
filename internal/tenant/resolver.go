package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/database/models"
	"gorm.io/gorm"
)

// SessionAuthenticator validates a session credential and yields the user id
// it was issued for. Implemented by auth.JWTService.
type SessionAuthenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// ResolvedContext is the acting identity for one request: who is calling,
// which franchise they act in, with what role, and a query handle already
// bound to that franchise.
type ResolvedContext struct {
	UserID      uuid.UUID
	FranchiseID uuid.UUID
	Role        Role
	Scope       *Scope
}

// Resolver turns an inbound session credential into a ResolvedContext.
// Every tenant-scoped operation runs it first; nothing downstream queries
// the store except through the Scope it hands out.
type Resolver struct {
	db       *gorm.DB
	sessions SessionAuthenticator
}

func NewResolver(db *gorm.DB, sessions SessionAuthenticator) *Resolver {
	return &Resolver{db: db, sessions: sessions}
}

// Resolve authenticates the session, loads the user's profile, and picks
// their acting membership. With several active memberships the earliest
// created wins (id as tie-break), so repeated calls always land on the same
// franchise. Errors are limited to the closed set in errors.go; no retries
// happen here.
func (r *Resolver) Resolve(ctx context.Context, token string) (*ResolvedContext, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := r.sessions.Authenticate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, backendErr(err)
	}

	var membership models.FranchiseMembership
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("created_at ASC, id ASC").
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveMembership
		}
		return nil, backendErr(err)
	}

	return &ResolvedContext{
		UserID:      user.ID,
		FranchiseID: membership.FranchiseID,
		Role:        NormalizeRole(membership.Role),
		Scope:       NewScope(r.db, membership.FranchiseID),
	}, nil
}
