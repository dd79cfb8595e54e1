// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// SQLite keeps vectors in a local SQLite file and ranks them in Go.
type SQLite struct {
	db           *sql.DB
	name         string
	dim          int
	pollInterval time.Duration
	log          *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at cfg.DSN. An empty
// DSN places the file at <index>.db in the working directory.
func OpenSQLite(cfg types.VectorConfig, log *logger.Logger) (*SQLite, error) {
	path := cfg.DSN
	if path == "" {
		path = cfg.Index + ".db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLite{db: db, name: cfg.Index, dim: cfg.Dimension, pollInterval: cfg.PollInterval, log: log}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Provision drops the vectors table and recreates it.
func (s *SQLite) Provision(ctx context.Context) error {
	s.log.Info("creating new index %s", s.name)
	statements := []string{
		`DROP TABLE IF EXISTS vectors`,
		`CREATE TABLE vectors (
			namespace TEXT NOT NULL,
			id TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding BLOB NOT NULL,
			PRIMARY KEY (namespace, id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("resetting index %s: %w", s.name, err)
		}
	}
	return WaitReady(ctx, s.name, s.pollInterval, s.ready, s.log)
}

func (s *SQLite) ready(ctx context.Context) (bool, string, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='vectors'`,
	).Scan(&n)
	if err != nil {
		return false, "", err
	}
	if n == 0 {
		return false, "missing", nil
	}
	return true, "ready", nil
}

func (s *SQLite) Upsert(ctx context.Context, namespace string, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO vectors (namespace, id, text, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if err := checkDimension(s.dim, r.Vector); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, namespace, r.ID, r.Text, encodeVector(r.Vector)); err != nil {
			return fmt.Errorf("upserting %s/%s: %w", namespace, r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Query(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error) {
	if err := checkDimension(s.dim, vector); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT text, embedding FROM vectors WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying namespace %s: %w", namespace, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var text string
		var blob []byte
		if err := rows.Scan(&text, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector row: %w", err)
		}
		matches = append(matches, Match{Text: text, Score: Cosine(vector, decodeVector(blob))})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector rows: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v
}
