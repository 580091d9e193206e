package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeFile(t, `{
		"project": {"id": "p1", "name": "Demo", "owner": "me"},
		"workflows": [{"id": "w1"}, {"name": "no id"}, "junk", {"id": 7}, {"id": "w2"}],
		"bridge": {"host": "127.0.0.1", "http_port": 6001}
	}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p1", f.Project.ID)
	assert.Equal(t, "Demo", f.Project.Name)
	assert.Equal(t, []string{"w1", "w2"}, f.Project.WorkflowIDs)
	assert.Equal(t, "me", f.Project.Attributes["owner"])
	require.Len(t, f.Workflows, 2)
	assert.Equal(t, "w2", f.Workflows[1].ID())
	require.NotNil(t, f.Bridge)
	assert.Equal(t, "127.0.0.1", f.Bridge.Host)
	assert.Equal(t, 6001, f.Bridge.HTTPPort)
	assert.Zero(t, f.Bridge.WSPort)
}

func TestLoadKeepsExplicitWorkflowIDs(t *testing.T) {
	path := writeFile(t, `{"project": {"id": "p1", "workflowIds": ["b", 3, "a"]}, "workflows": []}`)
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, f.Project.WorkflowIDs)
	assert.Empty(t, f.Workflows)
	assert.Nil(t, f.Bridge)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"not json", `{nope`, "not valid JSON"},
		{"no project", `{"workflows": []}`, "missing project"},
		{"no id", `{"project": {}, "workflows": []}`, "project.id"},
		{"numeric id", `{"project": {"id": 1}, "workflows": []}`, "project.id"},
		{"workflows object", `{"project": {"id": "p"}, "workflows": {}}`, "workflows must be an array"},
		{"workflows missing", `{"project": {"id": "p"}}`, "workflows must be an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidProject)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Reason, tt.reason)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, ErrInvalidProject)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRoundTrip(t *testing.T) {
	f, err := Parse("inline", []byte(`{"project": {"id": "p1", "tags": ["x"]}, "workflows": [{"id": "w1", "steps": [1]}]}`))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "ext", "local", "import.json")
	require.NoError(t, f.Write(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, sonic.Unmarshal(data, &doc))
	project := doc["project"].(map[string]any)
	assert.Equal(t, "p1", project["id"])
	assert.Equal(t, []any{"w1"}, project["workflowIds"])
	assert.Equal(t, []any{"x"}, project["tags"])
	assert.NotContains(t, doc, "bridge")

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, f.Project, again.Project)
}
