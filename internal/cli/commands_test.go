package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/rtool/internal/cli"
	"github.com/macropower/rtool/pkg/engine"
)

const decideConfig = `apiVersion: rtool.macropower.dev/v1beta1
kind: Configuration
decisions:
  - name: OrderApproval
    expression: order.amount < limit
  - name: orderAmount
    engine: yamlpath
    expression: $.order.amount
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(t.Context())

	err := cmd.Execute()

	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNameCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "name", "OrderApprovalRule", "URLValidator", "already")
	require.NoError(t, err)
	assert.Equal(t, "orderApprovalRule\nuRLValidator\nalready\n", out)

	_, err = execute(t, "name")
	require.Error(t, err)
}

func TestEnginesCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "engines")
	require.NoError(t, err)
	assert.Contains(t, out, engine.VariantCEL+" (default)\n")
	assert.Contains(t, out, engine.VariantYAMLPath+"\n")
}

func TestEvalCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	vars := writeFile(t, dir, "order.yaml", "order:\n  amount: 250\n  customer: alice\nlimit: 1000\n")

	tcs := map[string]struct {
		args    []string
		want    string
		wantErr string
	}{
		"cel with vars file": {
			args: []string{"eval", "order.amount < 1000", "--vars", vars},
			want: "true\n",
		},
		"cel with var override": {
			args: []string{"eval", "order.amount < limit", "--vars", vars, "--var", "limit=100"},
			want: "false\n",
		},
		"cel with vars only from flags": {
			args: []string{"eval", "camelName(kind)", "--var", "kind=ExpressOrder"},
			want: "expressOrder\n",
		},
		"cel list result": {
			args: []string{"eval", `[kind, kind + "!"]`, "--var", "kind=express"},
			want: "  - express\n  - express!\n",
		},
		"yamlpath": {
			args: []string{"eval", "$.order.customer", "--engine", "yamlpath", "--vars", vars},
			want: "alice\n",
		},
		"unknown engine": {
			args:    []string{"eval", "true", "--engine", "aviator"},
			wantErr: "unknown engine variant",
		},
		"invalid var": {
			args:    []string{"eval", "true", "--var", "order"},
			wantErr: "invalid variable",
		},
		"compile error": {
			args:    []string{"eval", "order.amount <"},
			wantErr: "compile expression",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, tc.args...)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDecideCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := writeFile(t, dir, "rtool.yaml", decideConfig)
	vars := writeFile(t, dir, "order.yaml", "order:\n  amount: 250\nlimit: 1000\n")

	out, err := execute(t, "decide", "--config", cfg, "--vars", vars)
	require.NoError(t, err)
	assert.Equal(t, "orderApproval: true\norderAmount: 250\n", out)

	out, err = execute(t, "decide", "--config", cfg, "--vars", vars, "--var", "limit=100")
	require.NoError(t, err)
	assert.Equal(t, "orderApproval: false\norderAmount: 250\n", out)
}

func TestDecideCmd_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := writeFile(t, dir, "rtool.yaml", decideConfig)

	// "limit" is not declared, so the CEL decision does not compile.
	_, err := execute(t, "decide", "--config", cfg, "--var", "order={amount: 1}")
	require.ErrorContains(t, err, "compile decisions")

	// Declared, but the wrong shape at runtime.
	_, err = execute(t, "decide", "--config", cfg, "--var", "order=1", "--var", "limit=1")
	require.ErrorIs(t, err, cli.ErrDecisionsFailed)

	invalid := writeFile(t, dir, "invalid.yaml", "kind: Configuration\n")
	_, err = execute(t, "decide", "--config", invalid)
	require.ErrorContains(t, err, "validate config")
}

func TestCopyCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "src.yaml", "order:\n  amount: 250\n")
	dst := filepath.Join(dir, "dst.yaml")

	_, err := execute(t, "copy", src, dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "order:\n  amount: 250\n", string(got))

	_, err = execute(t, "copy", filepath.Join(dir, "missing.yaml"), dst)
	require.ErrorContains(t, err, "open source")
}

func TestConfigCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rtool", "config.yaml")

	_, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Configuration")
	assert.Contains(t, out, "name: orderApproval")

	out, err = execute(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"decisions"`)
}
