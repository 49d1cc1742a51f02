package maintenance

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tenant"
)

// Service propagates maintenance-policy defaults onto schedule rows and
// seeds policy rows from observed maintenance types. It never runs without a
// resolved tenant scope; there is no way to hand it a bare franchise id.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

type ApplyResult struct {
	Updated int `json:"updated"`
}

type SeedResult struct {
	Seeded int      `json:"seeded"`
	Types  []string `json:"types"`
}

// Apply fills policy defaults into open schedule rows that are missing an
// interval. Fill-blanks only: a row with a non-null interval_miles was set
// by hand and is never overwritten. The whole operation runs in one
// transaction, so a failure on any policy rolls back the others. Re-running
// with nothing changed updates zero rows.
func (s *Service) Apply(ctx context.Context, scope *tenant.Scope) (ApplyResult, error) {
	var res ApplyResult

	err := scope.Transaction(ctx, func(tx *tenant.Scope) error {
		var policies []models.MaintenancePolicy
		if err := tx.Find(ctx, &policies, "is_active = ?", true); err != nil {
			return err
		}

		for _, p := range policies {
			// A seeded-but-unconfigured policy has nothing to propagate.
			if p.DefaultIntervalMiles == nil {
				continue
			}

			n, err := tx.Updates(ctx, &models.ScheduledMaintenance{},
				map[string]interface{}{
					"interval_miles": p.DefaultIntervalMiles,
					"interval_days":  p.DefaultIntervalDays,
					"updated_at":     time.Now(),
				},
				"maintenance_type = ? AND interval_miles IS NULL AND (completed IS NULL OR completed = ?)",
				p.MaintenanceType, false,
			)
			if err != nil {
				return err
			}
			res.Updated += int(n)
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}

	s.logger.Info("applied maintenance policies",
		"franchise_id", scope.FranchiseID(),
		"updated", res.Updated,
	)
	return res, nil
}

// Seed discovers the distinct maintenance types present in the franchise's
// schedule rows and creates a policy row per type with null intervals and
// is_active = true. Insert-if-absent on (franchise_id, maintenance_type):
// an existing policy keeps its configured intervals and active flag, so
// re-seeding is always safe. Seeded counts rows actually inserted.
func (s *Service) Seed(ctx context.Context, scope *tenant.Scope) (SeedResult, error) {
	var raw []string
	if err := scope.PluckDistinct(ctx, &models.ScheduledMaintenance{}, "maintenance_type", &raw); err != nil {
		return SeedResult{}, err
	}

	types := normalizeTypes(raw)
	if len(types) == 0 {
		return SeedResult{Types: []string{}}, nil
	}

	seeded := 0
	for _, t := range types {
		inserted, err := scope.InsertIfAbsent(ctx,
			&models.MaintenancePolicy{MaintenanceType: t, IsActive: true},
			"franchise_id", "maintenance_type",
		)
		if err != nil {
			return SeedResult{}, err
		}
		if inserted {
			seeded++
		}
	}

	s.logger.Info("seeded maintenance policies",
		"franchise_id", scope.FranchiseID(),
		"seeded", seeded,
		"types", types,
	)
	return SeedResult{Seeded: seeded, Types: types}, nil
}

// normalizeTypes trims, drops blanks, and deduplicates in first-seen order.
func normalizeTypes(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	types := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// DueItem is one schedule row that has come due, paired with the vehicle it
// belongs to for notification text.
type DueItem struct {
	Schedule models.ScheduledMaintenance
	Vehicle  models.Vehicle
}

// DueForReminder returns open schedule rows that are due by date (due_date
// on or before asOf) or by mileage (due_miles at or below the vehicle's
// current odometer).
func (s *Service) DueForReminder(ctx context.Context, scope *tenant.Scope, asOf time.Time) ([]DueItem, error) {
	var open []models.ScheduledMaintenance
	if err := scope.Find(ctx, &open, "completed IS NULL OR completed = ?", false); err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}

	var vehicles []models.Vehicle
	if err := scope.Find(ctx, &vehicles); err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	var due []DueItem
	for _, sched := range open {
		v, ok := byID[sched.VehicleID]
		if !ok {
			continue
		}
		byDate := sched.DueDate != nil && !sched.DueDate.After(asOf)
		byMiles := sched.DueMiles != nil && v.Odometer >= *sched.DueMiles
		if byDate || byMiles {
			due = append(due, DueItem{Schedule: sched, Vehicle: v})
		}
	}
	return due, nil
}
