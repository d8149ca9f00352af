package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/runner"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestGraph(t *testing.T) {
	t.Setenv("RECRUITMESH_WORK_DIR", t.TempDir())

	out, err := execute(t, "", "graph")
	require.NoError(t, err)

	assert.Contains(t, out, "entry: coordinator")
	assert.Contains(t, out, "coordinator --transfer_to_research_agent--> research")
	assert.Contains(t, out, "review --transfer_to_finalization_agent--> finalization")
	assert.Contains(t, out, "scrape_website")
}

func TestAds(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECRUITMESH_WORK_DIR", dir)

	out, err := execute(t, "", "ads")
	require.NoError(t, err)
	assert.Contains(t, out, "No ads in")

	_, err = artifact.NewFileStore(dir).Save("Senior Electrician (m/f/d)", "ad body")
	require.NoError(t, err)

	out, err = execute(t, "", "ads")
	require.NoError(t, err)
	assert.Contains(t, out, "senior_electrician_m_f_d")

	out, err = execute(t, "", "ads", "--json")
	require.NoError(t, err)

	var entries []artifact.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "senior_electrician_m_f_d"+artifact.FileSuffix), entries[0].Path)

	out, err = execute(t, "", "ads", "Senior Electrician (m/f/d)")
	require.NoError(t, err)
	assert.Equal(t, "ad body\n", out)

	_, err = execute(t, "", "ads", "missing")
	require.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestChat_ExitImmediately(t *testing.T) {
	t.Setenv("RECRUITMESH_WORK_DIR", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "test")

	out, err := execute(t, "exit\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, runner.DefaultBanner))
	assert.Contains(t, out, runner.DefaultFarewell)
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recruitmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: bogus\n"), 0o600))

	_, err := execute(t, "", "--config", path, "graph")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "bogus"`)
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("RECRUITMESH_WORK_DIR", t.TempDir())

	_, err := execute(t, "", "--log-level", "loud", "graph")
	require.Error(t, err)
}
