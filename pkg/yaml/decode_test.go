package yaml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/rtool/pkg/yaml"
)

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want  map[string]any
		input string
		err   bool
	}{
		"mapping": {
			input: "order:\n  amount: 250\n",
			want:  map[string]any{"order": map[string]any{"amount": uint64(250)}},
		},
		"duplicate keys are allowed": {
			input: "limit: 1\nlimit: 2\n",
			want:  map[string]any{"limit": uint64(2)},
		},
		"syntax error": {
			input: "order: [250\n",
			err:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got map[string]any

			err := yaml.NewDecoder(strings.NewReader(tc.input)).Decode(&got)
			if tc.err {
				var yamlErr *yaml.Error
				require.ErrorAs(t, err, &yamlErr)
				assert.NotNil(t, yamlErr.Token)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecoder_StrictKeys(t *testing.T) {
	t.Parallel()

	var got map[string]any

	err := yaml.NewDecoder(strings.NewReader("limit: 1\nlimit: 2\n"), yaml.WithStrictKeys()).Decode(&got)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.NotNil(t, yamlErr.Token)
}

func TestDecodeVariables(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    map[string]any
		wantErr error
		input   string
		errMsg  string
	}{
		"order": {
			input: "order:\n  amount: 250\nlimit: 1000\n",
			want: map[string]any{
				"order": map[string]any{"amount": uint64(250)},
				"limit": uint64(1000),
			},
		},
		"empty": {
			input: "",
			want:  map[string]any{},
		},
		"null document": {
			input: "null\n",
			want:  map[string]any{},
		},
		"sequence root": {
			input:   "- 250\n",
			wantErr: yaml.ErrNotMapping,
		},
		"scalar root": {
			input:   "250\n",
			wantErr: yaml.ErrNotMapping,
		},
		"duplicate variable": {
			input:  "limit: 1000\nlimit: 100\n",
			errMsg: "limit: 100",
		},
		"syntax error is annotated": {
			input:  "order: [250\n",
			errMsg: "order: [250",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := yaml.DecodeVariables([]byte(tc.input))

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.errMsg != "":
				var yamlErr *yaml.Error
				require.ErrorAs(t, err, &yamlErr)
				assert.Contains(t, err.Error(), tc.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	got, err := yaml.Marshal(map[string]any{
		"approvers": []string{"alice", "bob"},
	})
	require.NoError(t, err)
	assert.Equal(t, "approvers:\n  - alice\n  - bob\n", string(got))
}
