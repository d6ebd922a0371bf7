package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conflict-resolver/pkg/config"
	"conflict-resolver/pkg/resolver"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	e, err := New(cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, config.ErrConfigIsNil)

	cfg := config.Default()
	cfg.Audit.Backend = "s3"
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestEngine_AuditTrail(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			e := newEngine(t, func(cfg *config.Config) {
				cfg.Audit.Backend = backend
				cfg.Audit.InMemory = true
				cfg.Audit.IDs = config.IDsSequence
			})
			ctx := context.Background()

			lww, err := e.Strategy(resolver.LWWName)
			require.NoError(t, err)
			out := lww.AttemptResolve(ctx, nil, []byte(`{"_ts":2000,"data":"newer"}`), []byte(`{"_ts":1000,"data":"older"}`), "")
			assert.Equal(t, resolver.Resolved{Result: []byte(`{"_ts":2000,"data":"newer"}`)}, out)

			recs, err := e.AuditTrail(ctx, resolver.LWWRelation)
			require.NoError(t, err)
			require.Len(t, recs, 1)
			assert.Equal(t, "lww-resolution-1", recs[0].ID)
			assert.Equal(t, `{"_ts":2000,"data":"newer"}`, recs[0].Result)

			// multi-value never audits
			mv, err := e.Strategy(resolver.MultiValueName)
			require.NoError(t, err)
			mv.AttemptResolve(ctx, nil, []byte(`1`), []byte(`2`), "")
			docs, err := e.Storage().Find(ctx, "multi-value-resolution", nil)
			require.NoError(t, err)
			assert.Empty(t, docs)
		})
	}
}

func TestEngine_AuditDisabled(t *testing.T) {
	e := newEngine(t, func(cfg *config.Config) { cfg.Audit.Enabled = false })
	ctx := context.Background()

	aw, err := e.Strategy(resolver.AddWinsName)
	require.NoError(t, err)
	aw.AttemptResolve(ctx, nil, []byte(`["a"]`), []byte(`["b"]`), "")

	recs, err := e.AuditTrail(ctx, resolver.AddWinsRelation)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEngine_Chain(t *testing.T) {
	e := newEngine(t, func(cfg *config.Config) {
		cfg.Chain.Strategies = []string{resolver.MultiValueName, resolver.AddWinsName}
		cfg.Chain.Concurrency = 2
	})

	var names []string
	for _, d := range e.Chain().Strategies() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"add-wins", "multi-value"}, names)
	assert.Len(t, e.Strategies(), 5)

	results, err := e.ResolveBatch(context.Background(), []resolver.Input{
		{V1: []byte(`["a"]`), V2: []byte(`["b"]`)},
		{V1: []byte(`"a"`), V2: []byte(`"b"`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "add-wins", results[0].Strategy)
	assert.Equal(t, "multi-value", results[1].Strategy)

	_, err = e.Strategy("nope")
	assert.ErrorIs(t, err, resolver.ErrStrategyNotFound)
}

func TestEngine_PureResolvers(t *testing.T) {
	e := newEngine(t, nil)
	assert.NotNil(t, e.FieldMerge())
	assert.Equal(t, "semantic-merge", e.SemanticMerge().Register().Name)
}
