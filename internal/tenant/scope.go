package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FranchiseOwned is implemented by every tenant-scoped model. The scope
// stamps the franchise id on writes so a handler cannot create or save a row
// into another franchise, even by accident.
type FranchiseOwned interface {
	SetFranchiseID(id uuid.UUID)
}

// Scope is a query handle bound to exactly one franchise. Every operation it
// exposes injects `franchise_id = ?` before any caller-supplied condition;
// there is no unscoped query path. Handlers receive a Scope from the
// resolver and can structurally never omit the tenant filter.
type Scope struct {
	db          *gorm.DB
	franchiseID uuid.UUID
}

func NewScope(db *gorm.DB, franchiseID uuid.UUID) *Scope {
	return &Scope{db: db, franchiseID: franchiseID}
}

func (s *Scope) FranchiseID() uuid.UUID {
	return s.franchiseID
}

// scoped returns a session pre-filtered to the bound franchise. Additional
// Where calls AND onto this; gorm parenthesizes each group, so a caller
// condition containing OR cannot widen the filter.
func (s *Scope) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("franchise_id = ?", s.franchiseID)
}

// Create inserts the entity into the bound franchise.
func (s *Scope) Create(ctx context.Context, entity FranchiseOwned) error {
	entity.SetFranchiseID(s.franchiseID)
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return backendErr(err)
	}
	return nil
}

// InsertIfAbsent inserts the entity unless a row already exists for the
// conflict columns, leaving any existing row untouched. Reports whether a
// row was actually inserted.
func (s *Scope) InsertIfAbsent(ctx context.Context, entity FranchiseOwned, conflictCols ...string) (bool, error) {
	entity.SetFranchiseID(s.franchiseID)
	cols := make([]clause.Column, len(conflictCols))
	for i, c := range conflictCols {
		cols[i] = clause.Column{Name: c}
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(entity)
	if result.Error != nil {
		return false, backendErr(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Find loads all rows matching the conditions within the franchise.
func (s *Scope) Find(ctx context.Context, dest interface{}, conds ...interface{}) error {
	q := s.scoped(ctx)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.Find(dest).Error; err != nil {
		return backendErr(err)
	}
	return nil
}

// FindOrdered is Find with an ORDER BY clause.
func (s *Scope) FindOrdered(ctx context.Context, dest interface{}, order string, conds ...interface{}) error {
	q := s.scoped(ctx)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.Order(order).Find(dest).Error; err != nil {
		return backendErr(err)
	}
	return nil
}

// First loads the first row matching the conditions. Absent rows and rows
// owned by another franchise both come back as ErrNotFound.
func (s *Scope) First(ctx context.Context, dest interface{}, conds ...interface{}) error {
	q := s.scoped(ctx)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return backendErr(err)
	}
	return nil
}

// FindByID resolves a tenant-owned entity by its externally visible id and
// confirms it belongs to the bound franchise. Guessed or enumerated ids from
// other franchises are indistinguishable from ids that do not exist.
func (s *Scope) FindByID(ctx context.Context, dest interface{}, id uuid.UUID) error {
	return s.First(ctx, dest, "id = ?", id)
}

// Count counts rows matching the conditions within the franchise.
func (s *Scope) Count(ctx context.Context, model interface{}, conds ...interface{}) (int64, error) {
	q := s.scoped(ctx).Model(model)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, backendErr(err)
	}
	return n, nil
}

// Updates applies the column values to all matching rows and returns the
// affected-row count.
func (s *Scope) Updates(ctx context.Context, model interface{}, values map[string]interface{}, conds ...interface{}) (int64, error) {
	q := s.scoped(ctx).Model(model)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	result := q.Updates(values)
	if result.Error != nil {
		return 0, backendErr(result.Error)
	}
	return result.RowsAffected, nil
}

// Save writes the full entity back. The franchise id is re-stamped first, so
// a mutated struct can never migrate a row across franchises.
func (s *Scope) Save(ctx context.Context, entity FranchiseOwned) error {
	entity.SetFranchiseID(s.franchiseID)
	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return backendErr(err)
	}
	return nil
}

// Delete removes matching rows and returns the affected-row count.
func (s *Scope) Delete(ctx context.Context, model interface{}, conds ...interface{}) (int64, error) {
	q := s.scoped(ctx)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	result := q.Delete(model)
	if result.Error != nil {
		return 0, backendErr(result.Error)
	}
	return result.RowsAffected, nil
}

// PluckDistinct loads the distinct values of one column into dest.
func (s *Scope) PluckDistinct(ctx context.Context, model interface{}, column string, dest interface{}) error {
	if err := s.scoped(ctx).Model(model).Distinct().Pluck(column, dest).Error; err != nil {
		return backendErr(err)
	}
	return nil
}

// Transaction runs fn with a Scope bound to the same franchise inside a
// database transaction.
func (s *Scope) Transaction(ctx context.Context, fn func(tx *Scope) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Scope{db: tx, franchiseID: s.franchiseID})
	})
}
