package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// qaRecord is the qa_history row. asked_at is filled by the database.
type qaRecord struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	AskedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_qa_history_asked,sort:desc"`
	SourceTable     string    `gorm:"type:text"`
	LimitRows       *int
	UserInstruction string `gorm:"type:text"`
	PromptSent      string `gorm:"type:text"`
	Answer          string `gorm:"type:text"`
	Model           string `gorm:"type:text"`
}

func (qaRecord) TableName() string { return "qa_history" }

func (r qaRecord) entry() Entry {
	return Entry{
		ID:          r.ID,
		AskedAt:     r.AskedAt,
		SourceTable: r.SourceTable,
		RowLimit:    r.LimitRows,
		Instruction: r.UserInstruction,
		PromptSent:  r.PromptSent,
		Answer:      r.Answer,
		Model:       r.Model,
	}
}

// SQL is the persistent store backed by gorm.
type SQL struct {
	db       *gorm.DB
	maxChars int
	now      func() time.Time
}

var _ Store = (*SQL)(nil)

// OpenSQLite opens (or creates) a SQLite history file.
func OpenSQLite(path string, maxChars int) (*SQL, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	return open(sqlite.Open(path+"?_busy_timeout=5000"), maxChars)
}

// OpenPostgres connects to a PostgreSQL history database.
func OpenPostgres(dsn string, maxChars int) (*SQL, error) {
	return open(postgres.Open(dsn), maxChars)
}

// NewSQL wraps an already opened gorm handle and migrates it.
func NewSQL(db *gorm.DB, maxChars int) (*SQL, error) {
	if maxChars <= 0 {
		maxChars = config.DefaultMaxStoredChars
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQL{db: db, maxChars: maxChars, now: time.Now}, nil
}

func open(dialector gorm.Dialector, maxChars int) (*SQL, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		// The TUI owns stdout; gorm must stay quiet.
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return NewSQL(db, maxChars)
}

func migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_qa_history",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&qaRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("qa_history")
			},
		},
	})
	return m.Migrate()
}

// Append trims the text columns to the stored-length cap and inserts one
// row. No retries: a failure is returned wrapped in ErrWrite.
func (s *SQL) Append(ctx context.Context, e Entry) (Entry, error) {
	rec := qaRecord{
		SourceTable:     e.SourceTable,
		LimitRows:       e.RowLimit,
		UserInstruction: trimRunes(e.Instruction, s.maxChars),
		PromptSent:      trimRunes(e.PromptSent, s.maxChars),
		Answer:          trimRunes(e.Answer, s.maxChars),
		Model:           e.Model,
	}

	tx := s.db.WithContext(ctx)
	if err := tx.Create(&rec).Error; err != nil {
		applog.Error("history insert: %v", err)
		return Entry{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	// Re-read so AskedAt carries the server-assigned value. The row is
	// already committed, so a failed reload is not a write failure.
	inserted := rec
	if err := tx.First(&rec, inserted.ID).Error; err != nil {
		applog.Warn("history reload %d: %v", inserted.ID, err)
		inserted.AskedAt = s.now()
		return inserted.entry(), nil
	}
	return rec.entry(), nil
}

func (s *SQL) Recent(ctx context.Context, n int) ([]Entry, error) {
	q := s.db.WithContext(ctx).Order("asked_at DESC").Order("id DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	var recs []qaRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	out := make([]Entry, len(recs))
	for i, r := range recs {
		out[i] = r.entry()
	}
	return out, nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
