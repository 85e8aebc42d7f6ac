package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionFrom(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		settings []debug.BuildSetting
		want     string
	}{
		"no vcs info": {
			want: "unknown",
		},
		"long revision is shortened": {
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			want:     "0123456",
		},
		"short revision": {
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
			want:     "abc",
		},
		"modified tree": {
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: "0123456-dirty",
		},
		"clean tree": {
			settings: []debug.BuildSetting{
				{Key: "vcs.modified", Value: "false"},
				{Key: "vcs.revision", Value: "fedcba9"},
			},
			want: "fedcba9",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, revisionFrom(tc.settings))
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	s := String()
	assert.Contains(t, s, "rtool "+GetVersion())
	assert.Contains(t, s, GoOS+"/"+GoArch)
	assert.NotEmpty(t, LogValue().Group())
}
