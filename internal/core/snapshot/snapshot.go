// Package snapshot records which rule set was effective for a rules directory.
//
// Snapshots are optional audit records kept in the store opened by
// internal/core/db. Nothing in rule loading depends on them.
package snapshot

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/solatis/hookify/internal/core/db"
	"github.com/solatis/hookify/internal/types"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Snapshot is one persisted rule set.
type Snapshot struct {
	ID          types.SnapshotID `db:"snapshot_id" json:"snapshot_id" yaml:"snapshot_id"`
	RulesDir    string           `db:"rules_dir" json:"rules_dir" yaml:"rules_dir"`
	EventFilter string           `db:"event_filter" json:"event_filter" yaml:"event_filter"`
	RulesHash   string           `db:"rules_hash" json:"rules_hash" yaml:"rules_hash"`
	RuleCount   int              `db:"rule_count" json:"rule_count" yaml:"rule_count"`
	RulesJSON   string           `db:"rules_json" json:"-" yaml:"-"`
	CreatedAt   string           `db:"created_at" json:"created_at" yaml:"created_at"` // RFC3339 UTC
}

// Rules decodes the stored rule set.
func (s *Snapshot) Rules() ([]types.Rule, error) {
	var rules []types.Rule
	if err := json.Unmarshal([]byte(s.RulesJSON), &rules); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
	}
	return rules, nil
}

// Store reads and writes snapshots.
type Store struct {
	queries *db.Queries
	log     zerolog.Logger
	now     func() time.Time
}

// NewStore wraps an open, migrated database.
func NewStore(conn *sqlx.DB, logger zerolog.Logger) (*Store, error) {
	queries, err := db.LoadQueries(conn)
	if err != nil {
		return nil, err
	}
	return &Store{
		queries: queries,
		log:     logger,
		now:     time.Now,
	}, nil
}

// Record persists rules as the effective set for dir under the given event filter.
func (s *Store) Record(ctx context.Context, dir, event string, rules []types.Rule) (*Snapshot, error) {
	if rules == nil {
		rules = []types.Rule{}
	}
	payload, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("encode rules: %w", err)
	}
	hash, err := ComputeHash(rules)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:          types.NewSnapshotID(),
		RulesDir:    dir,
		EventFilter: event,
		RulesHash:   hash,
		RuleCount:   len(rules),
		RulesJSON:   string(payload),
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	_, err = s.queries.Exec(ctx, "insert-snapshot",
		snap.ID, snap.RulesDir, snap.EventFilter, snap.RulesHash,
		snap.RuleCount, snap.RulesJSON, snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	s.log.Debug().
		Str("snapshot_id", string(snap.ID)).
		Str("rules_dir", dir).
		Int("rule_count", snap.RuleCount).
		Msg("snapshot recorded")
	return snap, nil
}

// Latest returns the most recent snapshot for dir, or types.ErrSnapshotNotFound.
func (s *Store) Latest(ctx context.Context, dir string) (*Snapshot, error) {
	var snap Snapshot
	if err := s.queries.Get(ctx, "latest-snapshot-for-dir", &snap, dir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", dir, types.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return &snap, nil
}

// Get returns the snapshot with the given ID, or types.ErrSnapshotNotFound.
func (s *Store) Get(ctx context.Context, id types.SnapshotID) (*Snapshot, error) {
	if _, err := types.ParseSnapshotID(string(id)); err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := s.queries.Get(ctx, "get-snapshot", &snap, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, types.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	return &snap, nil
}

// List returns up to limit snapshots across all directories, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	snaps := []Snapshot{}
	if err := s.queries.Select(ctx, "list-snapshots", &snaps, limit); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// Changed reports whether rules differ from the latest snapshot for dir.
// A directory with no snapshot counts as changed.
func (s *Store) Changed(ctx context.Context, dir string, rules []types.Rule) (bool, error) {
	latest, err := s.Latest(ctx, dir)
	if errors.Is(err, types.ErrSnapshotNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	hash, err := ComputeHash(rules)
	if err != nil {
		return false, err
	}
	return hash != latest.RulesHash, nil
}

// ComputeHash returns a content hash of a rule set that is independent of
// rule order.
func ComputeHash(rules []types.Rule) (string, error) {
	entries := make([]string, 0, len(rules))
	for _, r := range rules {
		b, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("encode rule %s: %w", r.Name, err)
		}
		entries = append(entries, string(r.ID)+":"+string(b))
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
