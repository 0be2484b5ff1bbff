// Package store persists run report rows in PostgreSQL so the dashboard
// can query recent runs across process restarts.
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/report"
)

// Config contains database configuration
type Config struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// Store handles report persistence with PostgreSQL
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS creative_runs (
	id              BIGSERIAL PRIMARY KEY,
	campaign_id     TEXT NOT NULL,
	product_id      TEXT NOT NULL,
	product_name    TEXT NOT NULL,
	ratio           TEXT NOT NULL,
	variant         INT NOT NULL,
	source          TEXT NOT NULL,
	terms_found     TEXT NOT NULL DEFAULT '',
	sanitized_terms INT NOT NULL DEFAULT 0,
	warning_terms   INT NOT NULL DEFAULT 0,
	font_size       DOUBLE PRECISION NOT NULL DEFAULT 0,
	line_count      INT NOT NULL DEFAULT 0,
	output_path     TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewStore creates a new report store instance
func NewStore(config *Config, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	store := &Store{db: db, logger: logger}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	logger.Info("Report store initialized",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("max_idle_conns", config.MaxIdleConns))

	return store, nil
}

// initialize checks the connection and ensures the report table exists
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure creative_runs table: %w", err)
	}
	return nil
}

// SaveRows inserts the report rows for one completed run.
func (s *Store) SaveRows(ctx context.Context, rows []report.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO creative_runs (
			campaign_id, product_id, product_name, ratio, variant, source,
			terms_found, sanitized_terms, warning_terms, font_size, line_count, output_path, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, query,
			r.CampaignID, r.ProductID, r.ProductName, r.Ratio, r.Variant, r.Source,
			strings.Join(r.TermsFound, ";"), r.SanitizedTerms, r.WarningTerms,
			r.FontSize, r.LineCount, r.OutputPath, r.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert report row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report rows: %w", err)
	}

	s.logger.Debug("Report rows persisted", zap.Int("rows", len(rows)))
	return nil
}

// rowRecord is the database shape of a report row.
type rowRecord struct {
	CampaignID     string    `db:"campaign_id"`
	ProductID      string    `db:"product_id"`
	ProductName    string    `db:"product_name"`
	Ratio          string    `db:"ratio"`
	Variant        int       `db:"variant"`
	Source         string    `db:"source"`
	TermsFound     string    `db:"terms_found"`
	SanitizedTerms int       `db:"sanitized_terms"`
	WarningTerms   int       `db:"warning_terms"`
	FontSize       float64   `db:"font_size"`
	LineCount      int       `db:"line_count"`
	OutputPath     string    `db:"output_path"`
	CreatedAt      time.Time `db:"created_at"`
}

// RecentRows returns the most recent report rows, newest first.
func (s *Store) RecentRows(ctx context.Context, limit int) ([]report.Row, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []rowRecord
	const query = `
		SELECT campaign_id, product_id, product_name, ratio, variant, source,
		       terms_found, sanitized_terms, warning_terms, font_size, line_count, output_path, created_at
		FROM creative_runs ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent rows: %w", err)
	}

	rows := make([]report.Row, 0, len(records))
	for _, rec := range records {
		var terms []string
		if rec.TermsFound != "" {
			terms = strings.Split(rec.TermsFound, ";")
		}
		rows = append(rows, report.Row{
			CampaignID:     rec.CampaignID,
			ProductID:      rec.ProductID,
			ProductName:    rec.ProductName,
			Ratio:          rec.Ratio,
			Variant:        rec.Variant,
			Source:         rec.Source,
			TermsFound:     terms,
			SanitizedTerms: rec.SanitizedTerms,
			WarningTerms:   rec.WarningTerms,
			FontSize:       rec.FontSize,
			LineCount:      rec.LineCount,
			OutputPath:     rec.OutputPath,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return rows, nil
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// maskDatabaseURL hides credentials in log output
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "postgres://***"
	}
	if u.User != nil {
		u.User = url.UserPassword("***", "***")
	}
	return u.String()
}
