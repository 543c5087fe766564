package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/conceptcheck/internal/cli"
	"github.com/orizon-lang/conceptcheck/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommands(t *testing.T) {
	seq := filepath.Join("testdata", "seq.yaml")
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"probe", "plus", "int", "long", "-m", "lp64"}, "long"},
		{[]string{"probe", "dereference", "int"}, "none"},
		{[]string{"has", "<", "double", "int"}, "true"},
		{[]string{"concept", "random_access_iterator", "int*"}, "true"},
		{[]string{"concept", "weakly-ordered", "Seq", "-f", seq}, "false"},
		{[]string{"deduce", "difference_type", "int32_t", "-m", "ilp32"}, "long long\t(integral)"},
		{[]string{"assoc", "value_type", "Seq", "-f", seq}, "int"},
		{[]string{"member", "size", "Seq", "-f", seq}, "unsigned long"},
		{[]string{"fact", "is_pointer", "int*"}, "true"},
		{[]string{"widen", "short", "-m", "lp64"}, "int"},
		{[]string{"widen", "double"}, "none"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestQueryErrors(t *testing.T) {
	_, err := run(t, "concept", "shiny", "int")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownConcept))

	_, err = run(t, "probe", "plus", "Missing")
	assert.True(t, errors.HasCode(err, errors.CodeTypeSyntax))

	_, err = run(t, "probe", "plus", "int", "-m", "pdp11")
	assert.Error(t, err)
}

func TestRequire(t *testing.T) {
	out, err := run(t, "concept", "--require", "regular", "int")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	_, err = run(t, "concept", "--require", "regular", "Plain", "-f", filepath.Join("testdata", "seq.yaml"))
	var exit *cli.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.Code)
	assert.True(t, errors.HasCode(err, errors.CodeStructuralMismatch))
}

func TestJSONAnswer(t *testing.T) {
	out, err := run(t, "--json", "deduce", "size_type", "Seq", "-f", filepath.Join("testdata", "seq.yaml"))
	require.NoError(t, err)
	var ans struct {
		Value  string `json:"value"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ans))
	assert.Equal(t, "unsigned long", ans.Value)
	assert.Equal(t, "member_size", ans.Source)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "-j", "2", filepath.Join("testdata", "seq.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "5/5 passed")

	out, err = run(t, "check", filepath.Join("testdata", "broken.yaml"))
	var exit *cli.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.Code)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "0/1 passed")

	_, err = run(t, "check", filepath.Join("testdata", "absent.yaml"))
	assert.Error(t, err)
}

func TestPlatform(t *testing.T) {
	out, err := run(t, "--json", "platform", "-m", "ilp32")
	require.NoError(t, err)
	var info platformInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "ilp32", info.DataModel)
	assert.Equal(t, 4, info.PointerSize)
	assert.Equal(t, "int", info.PtrDiff)
	assert.Equal(t, 4, info.Sizes["long"])

	out, err = run(t, "platform", "-f", filepath.Join("testdata", "seq.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "lp64")
}

func TestListAndVersion(t *testing.T) {
	out, err := run(t, "list", "concepts")
	require.NoError(t, err)
	assert.Contains(t, out, "regular/1\n")
	assert.Contains(t, out, "has_call/1+")

	out, err = run(t, "list", "slots")
	require.NoError(t, err)
	assert.Contains(t, out, "difference_type")

	_, err = run(t, "list", "widgets")
	assert.Error(t, err)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "conceptcheck v"+cli.Version)
}
