package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/rtool/pkg/engine"
)

func TestYAMLPath_Execute(t *testing.T) {
	t.Parallel()

	e, err := engine.Get(engine.VariantYAMLPath)
	require.NoError(t, err)
	assert.Equal(t, engine.VariantYAMLPath, e.Name())

	vars := map[string]any{
		"order": map[string]any{
			"amount":   250,
			"customer": "alice",
			"items":    []any{"book", "pen"},
		},
	}

	tcs := map[string]struct {
		expression string
		want       any
	}{
		"string": {
			expression: `$.order.customer`,
			want:       "alice",
		},
		"index": {
			expression: `$.order.items[1]`,
			want:       "pen",
		},
		"number": {
			expression: `$.order.amount`,
			want:       uint64(250),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := e.Execute(t.Context(), tc.expression, vars)
			require.NoError(t, err)
			assert.EqualValues(t, tc.want, got)
		})
	}
}

func TestYAMLPath_Errors(t *testing.T) {
	t.Parallel()

	y := engine.NewYAMLPath()

	_, err := y.Compile(`order.amount`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile expression")

	_, err = y.Execute(t.Context(), `$.order.missing`, map[string]any{"order": map[string]any{"amount": 1}})
	require.ErrorIs(t, err, engine.ErrNoResult)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = y.Execute(ctx, `$.order`, nil)
	require.ErrorIs(t, err, context.Canceled)
}
