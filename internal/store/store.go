// Package store is the league's persistence layer.
//
// A Store is constructed once in main and handed to the HTTP handlers; there is no
// package-level database handle. Every operation that touches more than one row runs
// inside a single GORM transaction, so cascades like "delete a week" either commit
// completely or leave nothing changed.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trentd187/league-tracker/internal/rules"
)

// Store wraps the GORM handle used for every query.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New returns a Store backed by db. A nil logger disables logging.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translate(err, "ping")
	}
	return translate(sqlDB.PingContext(ctx), "ping")
}

// transaction runs fn in one unit of work. Returning an error from fn rolls back
// everything fn did. The error is translated to a domain kind on the way out.
func (s *Store) transaction(ctx context.Context, what string, fn func(tx *gorm.DB) error) error {
	return translate(s.db.WithContext(ctx).Transaction(fn), what)
}

// read runs fn against a context-scoped handle without opening a transaction.
func (s *Store) read(ctx context.Context, what string, fn func(db *gorm.DB) error) error {
	return translate(fn(s.db.WithContext(ctx)), what)
}

// translate maps GORM and driver errors onto the domain error kinds.
// Errors that already carry a kind pass through untouched.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case rules.IsDomain(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", rules.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", rules.ErrConflict, what)
	default:
		return fmt.Errorf("%w: %s: %v", rules.ErrPersistence, what, err)
	}
}

// first loads the row with the given primary key into dest, reporting a
// NotFound naming the entity when it doesn't exist.
func first(tx *gorm.DB, dest interface{}, id int, entity string) error {
	err := tx.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", rules.ErrNotFound, entity, id)
	}
	return err
}

// requireIDs fails with NotFound unless every id in ids exists in model's table.
func requireIDs(tx *gorm.DB, model interface{}, ids []int, entity string) error {
	if len(ids) == 0 {
		return nil
	}
	var found []int
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	have := make(map[int]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	for _, id := range ids {
		if !have[id] {
			return fmt.Errorf("%w: %s %d", rules.ErrNotFound, entity, id)
		}
	}
	return nil
}
