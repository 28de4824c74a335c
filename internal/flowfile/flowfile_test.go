package flowfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/emberflow/internal/flowfile"
	"github.com/emberflow/emberflow/pkg/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "flow.yaml", `
id: wf-yaml
name: YAML Flow
nodes:
  - id: a
    type: trigger
  - id: b
    type: email
    dependencies: [a]
    stop_on_error: true
edges:
  - id: e1
    source: a
    target: b
`)

	flow, err := flowfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wf-yaml", flow.ID)
	require.Len(t, flow.Nodes, 2)
	assert.Equal(t, domain.NodeTypeEmail, flow.Nodes[1].Type)
	assert.True(t, flow.Nodes[1].StopOnError)
	assert.Equal(t, []string{"a"}, flow.Nodes[1].Dependencies)
	require.Len(t, flow.Edges, 1)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "flow.json", `{
  "id": "wf-json",
  "nodes": [{"id": "a", "type": "api_call", "parameters": {"url": "https://x"}}]
}`)

	flow, err := flowfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wf-json", flow.ID)
	assert.Equal(t, "https://x", flow.Nodes[0].Parameters["url"])
}

func TestLoad_IDFallsBackToFilename(t *testing.T) {
	path := writeFile(t, "daily-digest.yaml", `
nodes:
  - id: a
    type: trigger
`)

	flow, err := flowfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "daily-digest", flow.ID)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := flowfile.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		path := writeFile(t, "flow.toml", "id = 'x'")
		_, err := flowfile.Load(path)
		assert.ErrorContains(t, err, "unsupported flow file extension")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "nodes: [unclosed")
		_, err := flowfile.Load(path)
		assert.Error(t, err)
	})

	t.Run("NoNodes", func(t *testing.T) {
		path := writeFile(t, "empty.yaml", "id: empty\nnodes: []\n")
		_, err := flowfile.Load(path)
		assert.ErrorContains(t, err, "defines no nodes")
	})
}
