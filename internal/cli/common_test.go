package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintVersionText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintVersion(&buf, "conceptcheck", false))
	assert.Contains(t, buf.String(), "conceptcheck v"+Version)
	assert.Contains(t, buf.String(), "Platform: ")
	assert.NotContains(t, buf.String(), "Commit:")
}

func TestPrintVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintVersion(&buf, "conceptcheck", true))
	var out struct {
		Tool string      `json:"tool"`
		Info VersionInfo `json:"version_info"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "conceptcheck", out.Tool)
	assert.Equal(t, Version, out.Info.Version)
}

func TestInvalidVersion(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()
	Version = "not-a-version"
	_, err := GetVersionInfo()
	assert.Error(t, err)
}

func TestExitError(t *testing.T) {
	inner := errors.New("2 expectations failed")
	err := error(&ExitError{Code: 2, Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "exit status 3", (&ExitError{Code: 3}).Error())
}
