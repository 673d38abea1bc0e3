package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/lampwatch/internal/fetch"
	"github.com/crimson-sun/lampwatch/internal/model"
	"github.com/crimson-sun/lampwatch/internal/postgrest"
)

// Snapshot is one complete classification pass over every loaded light.
type Snapshot struct {
	Taken    time.Time
	Statuses []model.LightStatus

	// Degraded marks a snapshot computed from incomplete data: at least
	// one dataset fetch failed and was used partially. Worst case a
	// light shows as operational because its reports were missing.
	Degraded bool
}

// Transition records a light moving between tiers across two refreshes.
type Transition struct {
	LightID string
	From    model.Tier
	To      model.Tier
	At      time.Time
}

// SnapshotStore persists the latest snapshot locally.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, takenAt time.Time, statuses []model.LightStatus) error
}

// Publisher emits tier transitions to an external sink.
type Publisher interface {
	PublishTransitions(ctx context.Context, transitions []Transition) error
}

// Config holds refresh tuning for the Service.
type Config struct {
	ChunkSize    int           // keys per batched request; default 200
	ReportCap    int           // max report rows per request; default 5000
	PollInterval time.Duration // default 60s
}

// Service owns the loaded light list and the latest status snapshot.
// Store and publisher are optional; nil disables them.
type Service struct {
	client *postgrest.Client
	store  SnapshotStore
	pub    Publisher
	logger *slog.Logger
	cfg    Config

	lights   []model.Light
	snapshot atomic.Value // Snapshot
	prevTier map[string]model.Tier
}

// NewService creates a Service. The logger must be non-nil.
func NewService(client *postgrest.Client, store SnapshotStore, pub Publisher, logger *slog.Logger, cfg Config) *Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = fetch.DefaultChunkSize
	}
	if cfg.ReportCap <= 0 {
		cfg.ReportCap = 5000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 60 * time.Second
	}
	return &Service{
		client:   client,
		store:    store,
		pub:      pub,
		logger:   logger,
		cfg:      cfg,
		prevTier: make(map[string]model.Tier),
	}
}

// Load fetches the full light list, newest first. Called once per
// session; the seeded dataset does not change under this service.
func (s *Service) Load(ctx context.Context) error {
	q := postgrest.NewQuery().
		Select("id", "lat", "lng", "sl_id").
		Order("created_at", true)

	var rows []fetch.Row
	if err := s.client.GetJSON(ctx, "official_lights", q.Values(), &rows); err != nil {
		return fmt.Errorf("load lights: %w", err)
	}

	lights := make([]model.Light, 0, len(rows))
	for _, row := range rows {
		if l, ok := toLight(row); ok {
			lights = append(lights, l)
		}
	}
	s.lights = lights
	s.logger.Info("lights loaded", "count", len(lights))
	return nil
}

// Refresh fetches the three event datasets concurrently, reconciles and
// classifies every light, and installs the new snapshot. A failed
// dataset degrades to whatever rows arrived before the failure; the
// snapshot is marked degraded and the failure logged, never surfaced.
//
// If ctx is cancelled mid-fetch the snapshot is discarded without
// mutating any state.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	keys := make([]string, len(s.lights))
	for i, l := range s.lights {
		keys[i] = l.ID
	}

	var (
		wg                        sync.WaitGroup
		fixRows, actRows, repRows []fetch.Row
		fixErr, actErr, repErr    error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		fixRows, fixErr = fetch.Keyed(ctx, s.client, "fixed_lights",
			[]string{"light_id", "fixed_at"}, "light_id", keys,
			fetch.Options{ChunkSize: s.cfg.ChunkSize})
	}()
	go func() {
		defer wg.Done()
		actRows, actErr = fetch.Keyed(ctx, s.client, "light_actions",
			[]string{"light_id", "action", "created_at"}, "light_id", keys,
			fetch.Options{ChunkSize: s.cfg.ChunkSize, Apply: func(q *postgrest.Query) {
				q.Eq("action", model.ActionFix).Order("created_at", true)
			}})
	}()
	go func() {
		defer wg.Done()
		repRows, repErr = fetch.Keyed(ctx, s.client, "reports",
			[]string{"id", "light_id", "report_type", "created_at"}, "light_id", keys,
			fetch.Options{ChunkSize: s.cfg.ChunkSize, Apply: func(q *postgrest.Query) {
				q.Order("created_at", true).Limit(s.cfg.ReportCap)
			}})
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	degraded := false
	for _, f := range []struct {
		table string
		err   error
	}{
		{"fixed_lights", fixErr},
		{"light_actions", actErr},
		{"reports", repErr},
	} {
		if f.err != nil {
			degraded = true
			s.logger.Warn("partial fetch, proceeding on retrieved rows", "table", f.table, "err", f.err)
		}
	}

	lastFixed := LastFixed(toFixEvents(fixRows), toActions(actRows))
	reports := toReports(repRows)

	snap := Snapshot{Taken: time.Now().UTC(), Degraded: degraded}
	snap.Statuses = make([]model.LightStatus, 0, len(s.lights))
	for _, l := range s.lights {
		snap.Statuses = append(snap.Statuses, Classify(l, lastFixed, reports))
	}

	transitions := s.diffTiers(snap)
	s.snapshot.Store(snap)

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, snap.Taken, snap.Statuses); err != nil {
			s.logger.Warn("snapshot not persisted", "err", err)
		}
	}
	if s.pub != nil && len(transitions) > 0 {
		if err := s.pub.PublishTransitions(ctx, transitions); err != nil {
			s.logger.Warn("transitions not published", "err", err)
		}
	}

	s.logger.Debug("refresh complete",
		"lights", len(snap.Statuses),
		"reports", len(reports),
		"transitions", len(transitions),
		"degraded", degraded,
	)
	return snap, nil
}

// diffTiers compares the new snapshot to the previous one and records
// tier changes. Updates the per-light tier memory in place.
func (s *Service) diffTiers(snap Snapshot) []Transition {
	var transitions []Transition
	for _, st := range snap.Statuses {
		prev, seen := s.prevTier[st.Light.ID]
		if seen && prev != st.Tier {
			transitions = append(transitions, Transition{
				LightID: st.Light.ID,
				From:    prev,
				To:      st.Tier,
				At:      snap.Taken,
			})
		}
		s.prevTier[st.Light.ID] = st.Tier
	}
	return transitions
}

// Run loads the light list, performs an initial refresh, then polls
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("refresh failed", "err", err)
			}
		}
	}
}

// Snapshot returns the latest installed snapshot. The zero Snapshot is
// returned before the first refresh completes.
func (s *Service) Snapshot() Snapshot {
	if v := s.snapshot.Load(); v != nil {
		return v.(Snapshot)
	}
	return Snapshot{}
}
