// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bloggpt/pkg/types"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestWaitReady_PollsUntilReady(t *testing.T) {
	calls := 0
	check := func(context.Context) (bool, string, error) {
		calls++
		return calls >= 3, "initializing", nil
	}
	require.NoError(t, WaitReady(context.Background(), "bloggpt", time.Millisecond, check, nil))
	assert.Equal(t, 3, calls)
}

func TestWaitReady_ContextBounds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	never := func(context.Context) (bool, string, error) { return false, "initializing", nil }
	err := WaitReady(ctx, "bloggpt", 5*time.Millisecond, never, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitReady_CheckError(t *testing.T) {
	boom := errors.New("describe failed")
	err := WaitReady(context.Background(), "bloggpt", time.Millisecond,
		func(context.Context) (bool, string, error) { return false, "", boom }, nil)
	assert.ErrorIs(t, err, boom)
}

func newSQLite(t *testing.T, dim int) *SQLite {
	t.Helper()
	s, err := OpenSQLite(types.VectorConfig{
		DSN:          filepath.Join(t.TempDir(), "idx", "bloggpt.db"),
		Index:        "bloggpt",
		Dimension:    dim,
		PollInterval: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Provision(context.Background()))
	return s
}

func TestSQLite_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t, 2)

	require.NoError(t, s.Upsert(ctx, "Features", []Record{
		{ID: "a", Text: "aligned", Vector: []float32{1, 0}},
		{ID: "b", Text: "diagonal", Vector: []float32{1, 1}},
		{ID: "c", Text: "orthogonal", Vector: []float32{0, 1}},
	}))
	require.NoError(t, s.Upsert(ctx, "Training", []Record{
		{ID: "a", Text: "other namespace", Vector: []float32{1, 0}},
	}))

	got, err := s.Query(ctx, "Features", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "aligned", got[0].Text)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
	assert.Equal(t, "diagonal", got[1].Text)
	assert.InDelta(t, 1/math.Sqrt2, got[1].Score, 1e-6)

	// Replacing an id keeps one row.
	require.NoError(t, s.Upsert(ctx, "Features", []Record{{ID: "a", Text: "replaced", Vector: []float32{1, 0}}}))
	all, err := s.Query(ctx, "Features", []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "replaced", all[0].Text)
}

func TestSQLite_ProvisionResets(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t, 2)
	require.NoError(t, s.Upsert(ctx, "ns", []Record{{ID: "x", Text: "old run", Vector: []float32{1, 0}}}))

	require.NoError(t, s.Provision(ctx))

	got, err := s.Query(ctx, "ns", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := newSQLite(t, 3)

	err := s.Upsert(ctx, "ns", []Record{{ID: "x", Text: "t", Vector: []float32{1, 0}}})
	assert.ErrorIs(t, err, ErrDimension)

	_, err = s.Query(ctx, "ns", []float32{1}, 1)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3e-7, 0}
	assert.Equal(t, v, decodeVector(encodeVector(v)))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), types.VectorConfig{Backend: "pinecone"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinecone")
}

func TestOpenPGVector_Validation(t *testing.T) {
	ctx := context.Background()
	_, err := OpenPGVector(ctx, types.VectorConfig{Index: "bloggpt", Dimension: 2}, nil)
	assert.ErrorContains(t, err, "DSN")

	_, err = OpenPGVector(ctx, types.VectorConfig{DSN: "postgres://localhost/x", Index: "drop table;", Dimension: 2}, nil)
	assert.ErrorContains(t, err, "invalid index name")
}

func TestToLiteral(t *testing.T) {
	assert.Equal(t, "[0.5,-1,0]", ToLiteral([]float32{0.5, -1, 0}))
	assert.Equal(t, "[]", ToLiteral(nil))
}

func TestProvisionStatements(t *testing.T) {
	stmts := provisionStatements("bloggpt", "bloggpt_embedding_hnsw", 1536)
	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[1], "DROP TABLE IF EXISTS bloggpt")
	assert.Contains(t, stmts[2], "vector(1536)")
	assert.True(t, strings.Contains(stmts[3], "USING hnsw (embedding vector_cosine_ops)"))
}

// TestPGVector_Integration runs against a real Postgres with pgvector when
// BLOGGPT_TEST_PG_DSN is set.
func TestPGVector_Integration(t *testing.T) {
	dsn := os.Getenv("BLOGGPT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("BLOGGPT_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	p, err := OpenPGVector(ctx, types.VectorConfig{DSN: dsn, Index: "bloggpt_test", Dimension: 2, PollInterval: 100 * time.Millisecond}, nil)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Provision(ctx))
	require.NoError(t, p.Upsert(ctx, "ns", []Record{
		{ID: "a", Text: "aligned", Vector: []float32{1, 0}},
		{ID: "b", Text: "orthogonal", Vector: []float32{0, 1}},
	}))
	got, err := p.Query(ctx, "ns", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aligned", got[0].Text)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
}
