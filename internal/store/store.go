// Package store persists generation results to SQLite. Persistence is
// best-effort: the pipeline fires writes and logs failures, it never blocks
// or fails a generation on storage problems.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMP NOT NULL,
	product_id  TEXT NOT NULL,
	category    TEXT NOT NULL,
	tone        TEXT NOT NULL,
	intensity   TEXT NOT NULL,
	transcript  TEXT NOT NULL,
	script      TEXT NOT NULL,
	score       INTEGER NOT NULL,
	pass        INTEGER NOT NULL,
	variations  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
CREATE INDEX IF NOT EXISTS idx_generations_product ON generations(product_id);
`

// Variation is one stored variation with its evaluation.
type Variation struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
	Pass  bool   `json:"pass"`
}

// Record is one generation run.
type Record struct {
	ID         string
	CreatedAt  time.Time
	ProductID  string
	Category   string
	Tone       string
	Intensity  string
	Transcript string
	Script     string
	Score      int
	Pass       bool
	Variations []Variation
}

// Store wraps the SQLite handle.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save writes one record, minting id and timestamp when absent.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	variations, err := json.Marshal(rec.Variations)
	if err != nil {
		return fmt.Errorf("marshal variations: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations
			(id, created_at, product_id, category, tone, intensity, transcript, script, score, pass, variations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, rec.ProductID, rec.Category, rec.Tone, rec.Intensity,
		rec.Transcript, rec.Script, rec.Score, boolToInt(rec.Pass), string(variations),
	)
	if err != nil {
		return fmt.Errorf("insert generation %s: %w", rec.ID, err)
	}
	return nil
}

// SaveAsync persists rec on a background goroutine, logging any failure.
// The caller's context is not used so cancellation of a request never
// cancels its audit record.
func (s *Store) SaveAsync(rec Record) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Save(ctx, rec); err != nil {
			s.logger.Error("persist generation", "error", err, "product", rec.ProductID)
		}
	}()
}

// Recent returns the latest n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, product_id, category, tone, intensity, transcript, script, score, pass, variations
		FROM generations ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var pass int
		var variations string
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.ProductID, &rec.Category,
			&rec.Tone, &rec.Intensity, &rec.Transcript, &rec.Script,
			&rec.Score, &pass, &variations); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		rec.Pass = pass != 0
		if err := json.Unmarshal([]byte(variations), &rec.Variations); err != nil {
			s.logger.Warn("corrupt variations blob", "id", rec.ID, "error", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
