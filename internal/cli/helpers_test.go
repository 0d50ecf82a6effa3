package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args under an empty HOME, so no user
// config leaks in.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATATABLE_CONFIG", "")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const peopleJSON = `[
  {"id": 1, "name": "Bob", "age": 30},
  {"id": 2, "name": "Ann", "age": 25},
  {"id": 3, "name": "Cid", "age": 25}
]`

const peopleLayout = `table: people: {
	page_size:  2
	selectable: true
	columns: [
		{key: "name", header: "Name", sortable: true},
		{key: "age", header: "Age", sortable: true, align: "right"},
	]
}
`

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}
