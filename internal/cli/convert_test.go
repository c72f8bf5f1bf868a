package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertRoundTrip(t *testing.T) {
	jsonPath := writeValidModule(t, "id.json")
	orig, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	// JSON to YAML, written to a file.
	yamlPath := filepath.Join(t.TempDir(), "id.yaml")
	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{jsonPath, "--to", "yaml", "--output", yamlPath})
	require.NoError(t, cmd.Execute())

	// And back to JSON on stdout: identical to the original envelope.
	buf := &bytes.Buffer{}
	cmd = NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{yamlPath, "--to", "json"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, string(orig)+"\n", buf.String())
}

func TestConvertInvalidTarget(t *testing.T) {
	path := writeValidModule(t, "id.json")

	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--to", "toml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "toml")
}

func TestConvertMissingFile(t *testing.T) {
	cmd := NewConvertCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/module.json", "--to", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
