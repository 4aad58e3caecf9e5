package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "validation failed")
	assert.Equal(t, "validation failed", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	wrapped := WrapExitError(ExitCommandError, "load profile", errors.New("boom"))
	assert.Equal(t, "load profile: boom", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")

	// Wrapping an ExitError deeper still surfaces its code.
	outer := fmt.Errorf("context: %w", wrapped)
	assert.Equal(t, ExitCommandError, GetExitCode(outer))

	// Non-exit errors default to failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Error)
}

func TestOutputFormatterJSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("bad input"))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "bad input", resp.Error)
}

func TestOutputFormatterText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error("bad input"))
	assert.Contains(t, buf.String(), "Error: bad input")
}

func TestVerboseLog(t *testing.T) {
	buf := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "text", Writer: buf}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, buf.String())

	loud := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}
	loud.VerboseLog("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
