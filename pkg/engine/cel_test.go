package engine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/rtool/pkg/engine"
)

func TestCEL_Execute(t *testing.T) {
	t.Parallel()

	cel, err := engine.NewCEL()
	require.NoError(t, err)

	vars := map[string]any{
		"order": map[string]any{
			"amount":   250,
			"customer": "Alice",
			"items":    []any{"book", "pen"},
		},
		"limit": 1000,
	}

	tcs := map[string]struct {
		expression string
		want       any
	}{
		"boolean decision": {
			expression: `order.amount < limit`,
			want:       true,
		},
		"string function": {
			expression: `camelName(order.customer)`,
			want:       "alice",
		},
		"list result": {
			expression: `order.items.map(i, i.upperAscii())`,
			want:       []any{"BOOK", "PEN"},
		},
		"map result": {
			expression: `{"approved": order.amount < limit, "by": "rtool"}`,
			want:       map[string]any{"approved": true, "by": "rtool"},
		},
		"null result": {
			expression: `null`,
			want:       nil,
		},
		"int result": {
			expression: `order.amount * 2`,
			want:       int64(500),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := cel.Execute(t.Context(), tc.expression, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCEL_Errors(t *testing.T) {
	t.Parallel()

	cel, err := engine.NewCEL()
	require.NoError(t, err)

	_, err = cel.Execute(t.Context(), `order.amount <`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile expression")

	_, err = cel.Execute(t.Context(), `missing > 1`, map[string]any{"order": 1})
	require.Error(t, err)

	_, err = cel.Execute(t.Context(), `order.total > 1`, map[string]any{"order": map[string]any{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluate expression")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = cel.Execute(ctx, `1 == 1`, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCEL_CompileCache(t *testing.T) {
	t.Parallel()

	cel, err := engine.NewCEL()
	require.NoError(t, err)

	p1, err := cel.Compile(`a + b`, "a", "b")
	require.NoError(t, err)

	p2, err := cel.Compile(`a + b`, "b", "a", "a")
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	p3, err := cel.Compile(`a + b`, "a", "b", "c")
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)

	got, err := p1.Run(t.Context(), map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestCEL_CompileCacheSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		size int
		want int
	}{
		"bounded":  {size: 2, want: 2},
		"disabled": {size: 0, want: 0},
		"default":  {size: engine.DefaultProgramCacheSize, want: 10},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cel, err := engine.NewCEL(engine.WithProgramCacheSize(tc.size))
			require.NoError(t, err)

			// Each run declares a different set of variable names.
			for i := range 10 {
				vars := map[string]any{
					"order":                   map[string]any{"amount": 250},
					fmt.Sprintf("extra%d", i): i,
				}

				got, err := cel.Execute(t.Context(), `order.amount < 1000`, vars)
				require.NoError(t, err)
				assert.Equal(t, true, got)
			}

			assert.Equal(t, tc.want, cel.CachedPrograms())
		})
	}
}

func TestCEL_ConcurrentExecute(t *testing.T) {
	t.Parallel()

	e, err := engine.Get(engine.VariantCEL)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 25 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			got, err := e.Execute(t.Context(), `n + 1`, map[string]any{"n": i})
			assert.NoError(t, err)
			assert.Equal(t, int64(i+1), got)
		}()
	}

	wg.Wait()
}

func TestCEL_Identity(t *testing.T) {
	t.Parallel()

	a, err := engine.NewCEL()
	require.NoError(t, err)

	b, err := engine.NewCEL()
	require.NoError(t, err)

	assert.Equal(t, engine.VariantCEL, a.Name())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
