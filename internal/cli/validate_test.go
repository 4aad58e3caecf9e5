package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runValidateCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidProfile(t *testing.T) {
	path := writeProfile(t, "jobs:\n  \"1\":\n    rules:\n      strike-combo: false\n")

	out, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestValidateValidProfileJSON(t *testing.T) {
	path := writeProfile(t, "jobs:\n  \"2\":\n    auxiliary: false\n")

	out, err := runValidateCmd(t, "json", path)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidateSchemaViolationExitsFailure(t *testing.T) {
	path := writeProfile(t, "jobs:\n  warden:\n    auxiliary: true\n")

	_, err := runValidateCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateMissingFileExitsCommandError(t *testing.T) {
	_, err := runValidateCmd(t, "text", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateUnknownLabelWarns(t *testing.T) {
	path := writeProfile(t, "jobs:\n  \"1\":\n    rules:\n      not-a-rule: false\n")

	out, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "unknown label")
}

func TestValidateStrictPromotesUnknownLabels(t *testing.T) {
	path := writeProfile(t, "jobs:\n  \"1\":\n    rules:\n      not-a-rule: false\n")

	_, err := runValidateCmd(t, "text", path, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateUnknownJobWarns(t *testing.T) {
	path := writeProfile(t, "jobs:\n  \"42\":\n    rules:\n      anything: false\n")

	out, err := runValidateCmd(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "unknown label")
}
