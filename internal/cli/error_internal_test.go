package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/rtool/pkg/config"
)

func TestHintFor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err         error
		wantCommand string
	}{
		"unknown flag": {
			err:         errors.New("unknown flag: --engines"),
			wantCommand: "--help",
		},
		"wrong arg count": {
			err:         errors.New("accepts 1 arg(s), received 0"),
			wantCommand: "--help",
		},
		"missing config": {
			err:         fmt.Errorf("read config: %w", config.ErrNotFound),
			wantCommand: "rtool config init",
		},
		"failed decisions": {
			err:         fmt.Errorf("%w: 1 of 3", ErrDecisionsFailed),
			wantCommand: "--log-level debug",
		},
		"other": {
			err: errors.New("compile expression: undeclared reference to 'order'"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hint, ok := hintFor(tc.err)
			assert.Equal(t, tc.wantCommand != "", ok)
			assert.Equal(t, tc.wantCommand, hint.command)
		})
	}
}
