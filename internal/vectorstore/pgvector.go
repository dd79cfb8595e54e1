// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/pkg/types"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// PGVector stores vectors in a Postgres table with an HNSW cosine index.
type PGVector struct {
	pool         *pgxpool.Pool
	table        string
	dim          int
	pollInterval time.Duration
	log          *logger.Logger
}

// OpenPGVector connects to cfg.DSN. The table is named after cfg.Index,
// which must be a plain SQL identifier.
func OpenPGVector(ctx context.Context, cfg types.VectorConfig, log *logger.Logger) (*PGVector, error) {
	if cfg.DSN == "" {
		return nil, errors.New("pgvector backend requires a DSN (BLOGGPT_VECTOR_DSN)")
	}
	if !identRe.MatchString(cfg.Index) {
		return nil, fmt.Errorf("invalid index name %q", cfg.Index)
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("pgvector backend requires a positive dimension")
	}

	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PGVector{pool: pool, table: cfg.Index, dim: cfg.Dimension, pollInterval: cfg.PollInterval, log: log}, nil
}

func (p *PGVector) Close() error {
	p.pool.Close()
	return nil
}

func (p *PGVector) indexName() string { return p.table + "_embedding_hnsw" }

// provisionStatements drops and recreates the table and its HNSW index.
// The index is built concurrently so readiness can be observed through
// pg_index.
func provisionStatements(table, index string, dim int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table),
		fmt.Sprintf(`CREATE TABLE %s (
			namespace TEXT NOT NULL,
			id TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (namespace, id)
		)`, table, dim),
		fmt.Sprintf(`CREATE INDEX CONCURRENTLY %s ON %s USING hnsw (embedding vector_cosine_ops)`, index, table),
	}
}

// Provision resets the table and waits for the HNSW index to become valid.
func (p *PGVector) Provision(ctx context.Context) error {
	p.log.Info("creating new index %s", p.table)
	for _, stmt := range provisionStatements(p.table, p.indexName(), p.dim) {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("resetting index %s: %w", p.table, err)
		}
	}
	return WaitReady(ctx, p.table, p.pollInterval, p.ready, p.log)
}

func (p *PGVector) ready(ctx context.Context) (bool, string, error) {
	var valid, live bool
	err := p.pool.QueryRow(ctx, `
SELECT i.indisvalid, i.indisready
FROM pg_index i
JOIN pg_class c ON c.oid = i.indexrelid
WHERE c.relname = $1`, p.indexName()).Scan(&valid, &live)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, "missing", nil
	}
	if err != nil {
		return false, "", err
	}
	if valid && live {
		return true, "ready", nil
	}
	return false, "building", nil
}

func (p *PGVector) Upsert(ctx context.Context, namespace string, records []Record) error {
	batch := &pgx.Batch{}
	stmt := fmt.Sprintf(`
INSERT INTO %s (namespace, id, text, embedding)
VALUES ($1, $2, $3, $4::vector)
ON CONFLICT (namespace, id) DO UPDATE SET text = EXCLUDED.text, embedding = EXCLUDED.embedding`, p.table)
	for _, r := range records {
		if err := checkDimension(p.dim, r.Vector); err != nil {
			return err
		}
		batch.Queue(stmt, namespace, r.ID, r.Text, ToLiteral(r.Vector))
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upserting %d records into %s: %w", len(records), namespace, err)
	}
	return nil
}

func (p *PGVector) Query(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error) {
	if err := checkDimension(p.dim, vector); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 10
	}
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
SELECT text, 1 - (embedding <=> $2::vector) AS score
FROM %s
WHERE namespace = $1
ORDER BY embedding <=> $2::vector
LIMIT $3`, p.table), namespace, ToLiteral(vector), k)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	matches := make([]Match, 0, k)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Text, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return matches, nil
}

// ToLiteral renders v in pgvector's text form, e.g. "[0.5,-1]".
func ToLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
