// Package rulebook serves per-tag writing guidance from a SQL database.
// Every tag the tactic selector can emit must have a guidance row; a miss
// fails the cycle rather than silently dropping the instruction.
package rulebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrRuleNotFound reports a tag with no guidance row.
var ErrRuleNotFound = errors.New("rule guidance not found")

// Rule is one row of guidance keyed by tactic tag.
type Rule struct {
	bun.BaseModel `bun:"table:tactic_rules,alias:tr"`

	Tag       string    `bun:"tag,pk"`
	Guidance  string    `bun:"guidance,notnull"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Config describes the rulebook connection.
type Config struct {
	DSN          string        `required:"true"`
	QueryTimeout time.Duration `split_words:"true" default:"5s"`
}

// Store reads and writes tactic guidance rows.
type Store struct {
	db           *bun.DB
	queryTimeout time.Duration
}

var _ contractx.RuleSource = (*Store)(nil)

// NewStore opens a Postgres-backed rulebook from cfg.
func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("rulebook dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, queryTimeout: timeout}, nil
}

// NewStoreFromDB wraps an existing bun handle. Tests use this to run the
// store against an in-memory SQLite database.
func NewStoreFromDB(db *bun.DB) *Store {
	return &Store{db: db, queryTimeout: 5 * time.Second}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping rulebook: %w", err)
	}
	return nil
}

// EnsureSchema creates the guidance table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	if _, err := s.db.NewCreateTable().Model((*Rule)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create rulebook schema: %w", err)
	}
	return nil
}

// Rule returns the guidance text for one tactic tag.
func (s *Store) Rule(ctx context.Context, tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", errors.New("rule tag is empty")
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rule := new(Rule)
	err := s.db.NewSelect().Model(rule).Where("tr.tag = ?", tag).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrRuleNotFound, tag)
	}
	if err != nil {
		return "", fmt.Errorf("query rule %q: %w", tag, err)
	}
	return rule.Guidance, nil
}

// Put inserts or replaces the guidance for a tag.
func (s *Store) Put(ctx context.Context, tag, guidance string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return errors.New("rule tag is empty")
	}
	if strings.TrimSpace(guidance) == "" {
		return errors.New("rule guidance is empty")
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rule := &Rule{Tag: tag, Guidance: guidance, UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().
		Model(rule).
		On("CONFLICT (tag) DO UPDATE").
		Set("guidance = EXCLUDED.guidance").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("put rule %q: %w", tag, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
