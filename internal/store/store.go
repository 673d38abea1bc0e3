// Package store persists the latest status snapshot locally so a
// restarted service can serve last known statuses before its first
// fetch completes.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/crimson-sun/lampwatch/internal/model"
)

// Store is the local snapshot persistence interface.
type Store interface {
	Init(ctx context.Context) error
	Close() error
	SaveSnapshot(ctx context.Context, takenAt time.Time, statuses []model.LightStatus) error
	LatestSnapshot(ctx context.Context) (time.Time, []model.LightStatus, error)
}

type baseStore struct {
	db *sql.DB
}

func (b *baseStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
