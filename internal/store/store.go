// Package store persists match results with gorm, on SQLite by default or
// Postgres when configured.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	eventBatchSize = 500
)

var (
	// ErrNotFound is returned when a match does not exist.
	ErrNotFound = errors.New("match not found")
	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Config selects the database.
type Config struct {
	Driver string
	// DSN is a file path for SQLite and a connection string for Postgres.
	DSN string
}

// Store reads and writes match results.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func open(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        eventBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
	switch cfg.Driver {
	case DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return gorm.Open(sqlite.Open(dsn), gcfg)
	case DriverPostgres:
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gcfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Open connects and migrates the schema.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("connected to database", zap.String("driver", db.Dialector.Name()))
	return &Store{db: db, logger: log}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// SaveResult stores the match row and all of its events in one transaction.
func (s *Store) SaveResult(ctx context.Context, res *engine.Result) error {
	m := Match{
		ID:          res.MatchID.String(),
		Seed:        int64(res.Seed),
		Home:        res.Home,
		Away:        res.Away,
		HomeGoals:   res.HomeGoals,
		AwayGoals:   res.AwayGoals,
		HomeShots:   res.Stats.Home.Shots,
		AwayShots:   res.Stats.Away.Shots,
		HomeXG:      res.Stats.Home.ExpectedGoals,
		AwayXG:      res.Stats.Away.ExpectedGoals,
		HomePasses:  res.Stats.Home.Passes,
		AwayPasses:  res.Stats.Away.Passes,
		Possession:  res.Stats.Possession(),
		Ticks:       int64(res.Ticks),
		RandomDraws: int64(res.Stats.RandomDraws),
	}
	events := make([]MatchEvent, len(res.Events))
	for i, ev := range res.Events {
		events[i] = MatchEvent{
			MatchID: m.ID,
			Seq:     i,
			Tick:    int64(ev.Tick),
			Minute:  ev.Minute,
			Type:    string(ev.Type),
			Team:    ev.Side.String(),
			Player:  ev.Player,
			Target:  ev.Target,
			X:       ev.Position.X,
			Y:       ev.Position.Y,
			Success: ev.Success,
			Value:   ev.Value,
			Detail:  ev.Detail,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("failed to insert match: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(events, eventBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("saved match",
		zap.String("match_id", m.ID),
		zap.Int("events", len(events)),
	)
	return nil
}

// GetMatch loads one match by id.
func (s *Store) GetMatch(ctx context.Context, id string) (*Match, error) {
	var m Match
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	return &m, nil
}

// ListEvents returns a match's events in publication order.
func (s *Store) ListEvents(ctx context.Context, matchID string) ([]MatchEvent, error) {
	var events []MatchEvent
	err := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("seq").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListMatches returns the most recent matches, newest first.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	var matches []Match
	q := s.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}
