package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/riposte/internal/combat"
)

const validProfileYAML = `jobs:
  "1":
    auxiliary: false
    rules:
      strike-combo: false
      interject-weave: true
  "2":
    rules:
      mend-upgrade: true
`

func TestParseValidProfile(t *testing.T) {
	p, err := Parse([]byte(validProfileYAML))
	require.NoError(t, err)

	assert.False(t, p.AuxiliaryEnabled(1))
	assert.False(t, p.Enabled(1, "strike-combo"))
	assert.True(t, p.Enabled(1, "interject-weave"))
	assert.True(t, p.AuxiliaryEnabled(2))
	assert.True(t, p.Enabled(2, "mend-upgrade"))
	assert.Equal(t, uint64(1), p.Version())
}

func TestParseQuotedJobKeys(t *testing.T) {
	// Job keys arrive as !!str nodes; decoding must not demand integer
	// keys of the YAML layer.
	p, err := Parse([]byte("jobs:\n  \"2\":\n    auxiliary: false\n"))
	require.NoError(t, err)
	assert.False(t, p.AuxiliaryEnabled(2))
	assert.Equal(t, []combat.JobID{2}, p.Jobs())
}

func TestParseJobKeyOutOfRange(t *testing.T) {
	_, err := Parse([]byte("jobs:\n  \"300\":\n    auxiliary: false\n"))
	require.Error(t, err)

	var pe *ProfileError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrCodeParse, pe.Code)
	assert.Contains(t, pe.Message, "300")
}

func TestParseEmptyProfile(t *testing.T) {
	p, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.True(t, p.Enabled(1, "anything"))
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level key", "rules: {}\n"},
		{"non-numeric job key", "jobs:\n  warden:\n    auxiliary: true\n"},
		{"wrong auxiliary type", "jobs:\n  \"1\":\n    auxiliary: 3\n"},
		{"wrong rule value type", "jobs:\n  \"1\":\n    rules:\n      combo: \"yes\"\n"},
		{"unknown job key", "jobs:\n  \"1\":\n    cooldowns: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, IsSchemaError(err), "want schema error, got %v", err)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte(":\n  - ]["))
	require.Error(t, err)
	assert.False(t, IsSchemaError(err))

	var pe *ProfileError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrCodeParse, pe.Code)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var pe *ProfileError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrCodeNotFound, pe.Code)
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validProfileYAML), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.False(t, p.Enabled(1, "strike-combo"))
}

func TestLoadSchemaErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  warden: {}\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "bad.yaml")
}
