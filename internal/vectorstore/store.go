// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore provides the namespaced vector index used by the
// retrieval drafter. Two backends exist: a local SQLite file with cosine
// similarity computed in Go, and Postgres with the pgvector extension.
//
// Every run starts from an empty index: Provision drops whatever the
// previous run left and waits until the fresh index reports ready.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// Record is one embedded chunk.
type Record struct {
	ID     string
	Text   string
	Vector []float32
}

// Match is a query hit. Score is the cosine similarity to the query vector.
type Match struct {
	Text  string
	Score float64
}

// Store is a namespaced vector index.
type Store interface {
	// Provision resets the index and blocks until it is ready or ctx ends.
	Provision(ctx context.Context) error
	// Upsert adds or replaces records in namespace.
	Upsert(ctx context.Context, namespace string, records []Record) error
	// Query returns up to k matches from namespace, best first.
	Query(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error)
	Close() error
}

// ErrDimension is returned when a vector's width differs from the index's.
var ErrDimension = errors.New("vectorstore: vector dimension mismatch")

// DefaultPollInterval is the delay between readiness checks.
const DefaultPollInterval = 5 * time.Second

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg types.VectorConfig, log *logger.Logger) (Store, error) {
	switch cfg.Backend {
	case types.VectorSQLite, "":
		return OpenSQLite(cfg, log)
	case types.VectorPGVector:
		return OpenPGVector(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}

// ReadyFunc reports whether an index can serve queries, with a
// human-readable state for logging.
type ReadyFunc func(ctx context.Context) (ready bool, state string, err error)

// WaitReady calls check every interval until it reports ready, returns an
// error, or ctx is done. There is no attempt limit.
func WaitReady(ctx context.Context, name string, interval time.Duration, check ReadyFunc, log *logger.Logger) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	for {
		ready, state, err := check(ctx)
		if err != nil {
			return fmt.Errorf("checking index %s: %w", name, err)
		}
		if ready {
			log.Info("index %s is ready", name)
			return nil
		}
		log.Info("index %s is not ready (state %s), waiting %v", name, state, interval)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for index %s: %w", name, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when either has
// zero length or the widths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func checkDimension(dim int, v []float32) error {
	if dim > 0 && len(v) != dim {
		return fmt.Errorf("%w: got %d, index has %d", ErrDimension, len(v), dim)
	}
	return nil
}
