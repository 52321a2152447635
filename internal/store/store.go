package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"guild_war_stats/internal/app"
	"guild_war_stats/internal/processing"
	"guild_war_stats/internal/storage"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
)

// ErrValidationFailed indicates a record whose wins+losses+draws does not
// equal its attack total, rejected because validation enforcement is on.
var ErrValidationFailed = errors.New("battle record outcomes do not add up to attacks")

// NewAttack carries the caller-supplied fields for a record being created.
// Draws and Points are derived when left nil.
type NewAttack struct {
	PlayerName string
	Date       string
	Attacks    int
	Wins       int
	Losses     int
	Draws      *int
	Points     *int
}

// AttackPatch carries partial updates for an existing record. Nil fields are
// left unchanged; draws and points are always rederived from the merged set.
type AttackPatch struct {
	PlayerName *string
	Date       *string
	Attacks    *int
	Wins       *int
	Losses     *int
}

// Snapshot is a consistent read of the store's state
type Snapshot struct {
	Attacks      []app.AttackRecord
	CurrentWeek  *app.WeeklyStats
	PreviousWeek *app.WeeklyStats
	Comparison   *app.ComparisonData
	LastUpdated  string
}

// GuildWarStore orchestrates the record set, its persistence, and the
// derived weekly statistics. Every mutation runs the full
// read-modify-persist-commit sequence under a single mutex, persists before
// touching in-memory state, and finishes with a full stats recompute.
type GuildWarStore struct {
	mu      sync.Mutex
	storage storage.Storage
	key     string

	stats      *processing.StatsService
	comparator *processing.ComparisonService

	enforceValidation bool
	newID             func() (string, error)
	now               func() time.Time

	attacks      []app.AttackRecord
	lastUpdated  string
	currentWeek  *app.WeeklyStats
	previousWeek *app.WeeklyStats
	comparison   *app.ComparisonData

	subscribers []func(Snapshot)
}

// NewGuildWarStore creates a store over the given storage backend
func NewGuildWarStore(st storage.Storage, cfg *app.Config) *GuildWarStore {
	stats := processing.NewStatsService(processing.ISOWeek)
	return &GuildWarStore{
		storage:           st,
		key:               cfg.StorageKey,
		stats:             stats,
		comparator:        processing.NewComparisonService(stats),
		enforceValidation: cfg.EnforceValidation,
		newID:             func() (string, error) { return gonanoid.New() },
		now:               time.Now,
	}
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// successful mutation. Callbacks run with the store lock held and must not
// call back into the store.
func (s *GuildWarStore) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Load replaces in-memory state from the persisted envelope and recomputes
// stats. On failure the previous in-memory state is left untouched.
func (s *GuildWarStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Error().Err(err).Str("key", s.key).Msg("Failed to load guild war data")
		return fmt.Errorf("loading guild war data: %w", err)
	}

	if data == nil {
		s.attacks = nil
		s.lastUpdated = ""
	} else {
		s.attacks = data.Attacks
		s.lastUpdated = data.LastUpdated
	}

	if err := s.recompute(); err != nil {
		return err
	}

	log.Debug().
		Int("records", len(s.attacks)).
		Msg("Loaded guild war data")

	return nil
}

// AddAttack creates a record, derives draws and points when absent, assigns
// a fresh id, persists, and commits. The created record is returned.
func (s *GuildWarStore) AddAttack(ctx context.Context, input NewAttack) (app.AttackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draws := processing.CalculateDraws(input.Attacks, input.Wins, input.Losses)
	if input.Draws != nil {
		draws = *input.Draws
	}
	points := processing.CalculatePoints(input.Wins, input.Losses, draws)
	if input.Points != nil {
		points = *input.Points
	}

	if s.enforceValidation && !processing.ValidateBattleRecord(input.Attacks, input.Wins, input.Losses, draws) {
		return app.AttackRecord{}, fmt.Errorf("%w: attacks=%d wins=%d losses=%d draws=%d",
			ErrValidationFailed, input.Attacks, input.Wins, input.Losses, draws)
	}

	id, err := s.newID()
	if err != nil {
		return app.AttackRecord{}, fmt.Errorf("generating record id: %w", err)
	}

	record := app.AttackRecord{
		ID:         id,
		PlayerName: input.PlayerName,
		Date:       input.Date,
		Attacks:    input.Attacks,
		Wins:       input.Wins,
		Losses:     input.Losses,
		Draws:      draws,
		Points:     points,
	}

	next := make([]app.AttackRecord, len(s.attacks), len(s.attacks)+1)
	copy(next, s.attacks)
	next = append(next, record)

	if err := s.persistAndCommit(ctx, next); err != nil {
		log.Error().Err(err).Str("player", record.PlayerName).Msg("Failed to add attack record")
		return app.AttackRecord{}, err
	}

	log.Info().
		Str("id", record.ID).
		Str("player", record.PlayerName).
		Str("date", record.Date).
		Int("points", record.Points).
		Msg("Added attack record")

	s.notifyLocked()
	return record, nil
}

// UpdateAttack merges the patch into the record with the given id,
// rederives draws and points, persists, and commits. A missing id fails
// with ErrNotFound.
func (s *GuildWarStore) UpdateAttack(ctx context.Context, id string, patch AttackPatch) (app.AttackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, record := range s.attacks {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return app.AttackRecord{}, fmt.Errorf("updating record %q: %w", id, storage.ErrNotFound)
	}

	record := s.attacks[index]
	if patch.PlayerName != nil {
		record.PlayerName = *patch.PlayerName
	}
	if patch.Date != nil {
		record.Date = *patch.Date
	}
	if patch.Attacks != nil {
		record.Attacks = *patch.Attacks
	}
	if patch.Wins != nil {
		record.Wins = *patch.Wins
	}
	if patch.Losses != nil {
		record.Losses = *patch.Losses
	}

	record.Draws = processing.CalculateDraws(record.Attacks, record.Wins, record.Losses)
	record.Points = processing.CalculatePoints(record.Wins, record.Losses, record.Draws)

	if s.enforceValidation && !processing.ValidateBattleRecord(record.Attacks, record.Wins, record.Losses, record.Draws) {
		return app.AttackRecord{}, fmt.Errorf("%w: attacks=%d wins=%d losses=%d draws=%d",
			ErrValidationFailed, record.Attacks, record.Wins, record.Losses, record.Draws)
	}

	next := make([]app.AttackRecord, len(s.attacks))
	copy(next, s.attacks)
	next[index] = record

	if err := s.persistAndCommit(ctx, next); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to update attack record")
		return app.AttackRecord{}, err
	}

	log.Info().
		Str("id", record.ID).
		Str("player", record.PlayerName).
		Msg("Updated attack record")

	s.notifyLocked()
	return record, nil
}

// DeleteAttack removes the record with the given id, persists, and commits.
// A missing id fails with ErrNotFound.
func (s *GuildWarStore) DeleteAttack(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]app.AttackRecord, 0, len(s.attacks))
	found := false
	for _, record := range s.attacks {
		if record.ID == id {
			found = true
			continue
		}
		next = append(next, record)
	}
	if !found {
		return fmt.Errorf("deleting record %q: %w", id, storage.ErrNotFound)
	}

	if err := s.persistAndCommit(ctx, next); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to delete attack record")
		return err
	}

	log.Info().Str("id", id).Msg("Deleted attack record")

	s.notifyLocked()
	return nil
}

// ClearAll wipes the persisted envelope and resets all in-memory state
func (s *GuildWarStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		log.Error().Err(err).Msg("Failed to clear guild war data")
		return fmt.Errorf("clearing guild war data: %w", err)
	}

	s.attacks = nil
	s.lastUpdated = ""
	s.currentWeek = nil
	s.previousWeek = nil
	s.comparison = nil

	log.Info().Msg("Cleared all guild war data")

	s.notifyLocked()
	return nil
}

// Export serializes the persisted envelope as indented JSON
func (s *GuildWarStore) Export(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Error().Err(err).Msg("Failed to export guild war data")
		return "", fmt.Errorf("exporting guild war data: %w", err)
	}
	if data == nil {
		data = &app.GuildWarData{
			Attacks:     []app.AttackRecord{},
			LastUpdated: s.now().UTC().Format(time.RFC3339),
		}
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding guild war data: %w", err)
	}
	return string(raw), nil
}

// Import replaces the entire persisted envelope with the given JSON
// serialization, then commits and recomputes. Malformed payloads fail with
// ErrInvalidFormat and leave all state untouched.
func (s *GuildWarStore) Import(ctx context.Context, serialized string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data app.GuildWarData
	if err := json.Unmarshal([]byte(serialized), &data); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidFormat, err)
	}
	if data.Attacks == nil {
		return fmt.Errorf("%w: missing attacks array", storage.ErrInvalidFormat)
	}
	for _, record := range data.Attacks {
		if record.ID == "" {
			return fmt.Errorf("%w: record without id", storage.ErrInvalidFormat)
		}
	}

	if err := s.storage.Set(ctx, s.key, &data); err != nil {
		log.Error().Err(err).Msg("Failed to import guild war data")
		return fmt.Errorf("importing guild war data: %w", err)
	}

	s.attacks = data.Attacks
	s.lastUpdated = data.LastUpdated
	if err := s.recompute(); err != nil {
		return err
	}

	log.Info().
		Int("records", len(s.attacks)).
		Msg("Imported guild war data")

	s.notifyLocked()
	return nil
}

// Snapshot returns a consistent copy of the store's state
func (s *GuildWarStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *GuildWarStore) snapshotLocked() Snapshot {
	attacks := make([]app.AttackRecord, len(s.attacks))
	copy(attacks, s.attacks)
	return Snapshot{
		Attacks:      attacks,
		CurrentWeek:  s.currentWeek,
		PreviousWeek: s.previousWeek,
		Comparison:   s.comparison,
		LastUpdated:  s.lastUpdated,
	}
}

// persistAndCommit writes the next record set to storage and only then
// replaces in-memory state and recomputes stats. A failed write leaves the
// previous state fully intact.
func (s *GuildWarStore) persistAndCommit(ctx context.Context, next []app.AttackRecord) error {
	lastUpdated := s.now().UTC().Format(time.RFC3339)
	data := &app.GuildWarData{
		Attacks:     next,
		LastUpdated: lastUpdated,
	}

	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persisting guild war data: %w", err)
	}

	s.attacks = next
	s.lastUpdated = lastUpdated
	return s.recompute()
}

// recompute rebuilds current week, previous week, and comparison from the
// full in-memory record set. Never incremental.
func (s *GuildWarStore) recompute() error {
	now := s.now()

	current, err := s.comparator.CurrentWeekStats(s.attacks, now)
	if err != nil {
		return fmt.Errorf("computing current week stats: %w", err)
	}
	previous, err := s.comparator.PreviousWeekStats(s.attacks, now)
	if err != nil {
		return fmt.Errorf("computing previous week stats: %w", err)
	}

	s.currentWeek = current
	s.previousWeek = previous
	s.comparison = s.comparator.CalculateComparison(current, previous)
	return nil
}

func (s *GuildWarStore) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snapshot := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}
