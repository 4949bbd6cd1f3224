// Package gormstore persists usage records with GORM.
//
//	store, err := gormstore.Open("usage.db")
//	if err != nil {
//	    return err
//	}
//	ledger := usage.NewLedger(store)
package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/randalmurphal/llmrouter/model"
	"github.com/randalmurphal/llmrouter/usage"
)

// Row is the table layout of a usage record.
type Row struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Timestamp    time.Time `gorm:"not null;index"`
	Provider     string    `gorm:"size:50;not null;index"`
	Tier         string    `gorm:"size:20;not null"`
	Model        string    `gorm:"size:100"`
	Task         string    `gorm:"size:100"`
	InputTokens  int       `gorm:"not null;default:0"`
	OutputTokens int       `gorm:"not null;default:0"`
	CostUSD      float64   `gorm:"column:cost_usd;not null;default:0"`
	Attempts     int       `gorm:"not null;default:0"`
	Success      bool      `gorm:"not null"`
	Estimated    bool      `gorm:"not null;default:false"`
}

// TableName sets the table name.
func (Row) TableName() string { return "llm_usage" }

func toRow(r usage.Record) Row {
	return Row{
		ID:           r.ID,
		Timestamp:    r.Timestamp.UTC(),
		Provider:     string(r.Provider),
		Tier:         string(r.Tier),
		Model:        r.Model,
		Task:         string(r.Task),
		InputTokens:  r.InputTokens,
		OutputTokens: r.OutputTokens,
		CostUSD:      r.CostUSD,
		Attempts:     r.Attempts,
		Success:      r.Success,
		Estimated:    r.Estimated,
	}
}

func (row Row) record() usage.Record {
	return usage.Record{
		ID:           row.ID,
		Timestamp:    row.Timestamp.UTC(),
		Provider:     model.Provider(row.Provider),
		Tier:         model.Tier(row.Tier),
		Model:        row.Model,
		Task:         model.TaskType(row.Task),
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		CostUSD:      row.CostUSD,
		Attempts:     row.Attempts,
		Success:      row.Success,
		Estimated:    row.Estimated,
	}
}

// Store implements usage.Store on a GORM database.
type Store struct {
	db *gorm.DB
}

// Open opens a SQLite database at dsn and migrates it.
// Use "file::memory:?cache=shared" for an in-memory database.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	return New(db)
}

// New wraps an existing database and migrates the usage table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrate usage table: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts a record.
func (s *Store) Append(ctx context.Context, r usage.Record) error {
	row := toRow(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

type providerGroup struct {
	Provider     string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	CostUSD      float64 `gorm:"column:cost_usd"`
}

// Summarize aggregates a month with one GROUP BY query.
func (s *Store) Summarize(ctx context.Context, month usage.Month) (usage.Summary, error) {
	var groups []providerGroup
	err := s.db.WithContext(ctx).
		Model(&Row{}).
		Select(`provider,
			COUNT(*) AS calls,
			SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			COALESCE(SUM(cost_usd), 0) AS cost_usd`).
		Where("timestamp >= ? AND timestamp < ?", month.Start(), month.End()).
		Group("provider").
		Scan(&groups).Error
	if err != nil {
		return usage.Summary{}, fmt.Errorf("summarize usage: %w", err)
	}

	summary := usage.NewSummary(month)
	for _, g := range groups {
		summary.AddGroup(model.Provider(g.Provider), usage.Totals{
			Calls:        g.Calls,
			Failures:     g.Failures,
			InputTokens:  g.InputTokens,
			OutputTokens: g.OutputTokens,
			CostUSD:      g.CostUSD,
		})
	}
	return summary, nil
}

// Records returns the records of a month, oldest first.
func (s *Store) Records(ctx context.Context, month usage.Month) ([]usage.Record, error) {
	var rows []Row
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", month.Start(), month.End()).
		Order("timestamp ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	out := make([]usage.Record, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ usage.Store = (*Store)(nil)
