package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterSuccessText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("abc123"))
	assert.Equal(t, "abc123\n", buf.String())
}

func TestFormatterSuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(HashResult{File: "m.json", Hash: "abc123"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc123", data["hash"])
}

func TestFormatterErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error("E001", "module is invalid", nil))
	assert.Equal(t, "Error [E001]: module is invalid\n", buf.String())
}

func TestFormatterErrorJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("E001", "module is invalid", map[string]int{"count": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "module is invalid", resp.Error.Message)
}

func TestVerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errw := &bytes.Buffer{}

	// Silent unless verbose.
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errw}
	f.VerboseLog("decoded %d nodes", 4)
	assert.Empty(t, out.String())
	assert.Empty(t, errw.String())

	// Verbose logs go to the diagnostic writer, keeping stdout clean.
	f.Verbose = true
	f.VerboseLog("decoded %d nodes", 4)
	assert.Empty(t, out.String())
	assert.Equal(t, "decoded 4 nodes\n", errw.String())

	// Without a dedicated diagnostic writer they fall back to Writer.
	f = &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	f.VerboseLog("done")
	assert.Equal(t, "done\n", out.String())
}

func TestExitErrors(t *testing.T) {
	plain := NewExitError(ExitFailure, "3 validation errors")
	assert.Equal(t, "3 validation errors", plain.Error())
	assert.Equal(t, ExitFailure, GetExitCode(plain))

	inner := errors.New("no such file")
	wrapped := WrapExitError(ExitCommandError, "loading module", inner)
	assert.Equal(t, "loading module: no such file", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, inner)

	// Non-ExitErrors default to generic failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
}
