package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crimson-sun/lampwatch/internal/model"
)

// ErrNoSnapshot is returned by LatestSnapshot before the first save.
var ErrNoSnapshot = errors.New("store: no snapshot saved")

type sqliteStore struct {
	baseStore
}

// NewSQLite opens (or creates) the snapshot database at the given path.
func NewSQLite(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "file:lampwatch.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	return &sqliteStore{baseStore{db: db}}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			taken_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS light_statuses (
			light_id TEXT PRIMARY KEY,
			display_id TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			tier TEXT NOT NULL,
			color TEXT NOT NULL,
			label TEXT NOT NULL,
			reports_since_fix INTEGER NOT NULL,
			majority_type TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot wholesale. Only the latest
// snapshot is kept; there is no history here.
func (s *sqliteStore) SaveSnapshot(ctx context.Context, takenAt time.Time, statuses []model.LightStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM light_statuses`); err != nil {
		return fmt.Errorf("store: clear statuses: %w", err)
	}
	for _, st := range statuses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO light_statuses
				(light_id, display_id, lat, lng, tier, color, label, reports_since_fix, majority_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.Light.ID, st.Light.DisplayID, st.Light.Lat, st.Light.Lng,
			st.Tier.String(), st.Color, st.Label, st.ReportsSinceFix, st.MajorityType,
		)
		if err != nil {
			return fmt.Errorf("store: insert status: %w", err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, taken_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET taken_at = excluded.taken_at`,
		takenAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: update meta: %w", err)
	}
	return tx.Commit()
}

func (s *sqliteStore) LatestSnapshot(ctx context.Context) (time.Time, []model.LightStatus, error) {
	var takenRaw string
	err := s.db.QueryRowContext(ctx, `SELECT taken_at FROM snapshot_meta WHERE id = 1`).Scan(&takenRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("store: read meta: %w", err)
	}
	takenAt, err := time.Parse(time.RFC3339Nano, takenRaw)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("store: parse taken_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT light_id, display_id, lat, lng, tier, color, label, reports_since_fix, majority_type
		FROM light_statuses ORDER BY light_id`)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("store: read statuses: %w", err)
	}
	defer rows.Close()

	var statuses []model.LightStatus
	for rows.Next() {
		var st model.LightStatus
		var tier string
		err := rows.Scan(&st.Light.ID, &st.Light.DisplayID, &st.Light.Lat, &st.Light.Lng,
			&tier, &st.Color, &st.Label, &st.ReportsSinceFix, &st.MajorityType)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("store: scan status: %w", err)
		}
		st.Tier = parseTier(tier)
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, nil, fmt.Errorf("store: iterate statuses: %w", err)
	}
	return takenAt, statuses, nil
}

func parseTier(s string) model.Tier {
	switch s {
	case "reported":
		return model.TierReported
	case "likely_out":
		return model.TierLikelyOut
	case "confirmed_out":
		return model.TierConfirmedOut
	default:
		return model.TierOperational
	}
}
