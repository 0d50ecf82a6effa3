package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_TextSortAndPage(t *testing.T) {
	rows := writeFile(t, t.TempDir(), "people.json", peopleJSON)

	out, err := execute(t, "view", rows, "--sort", "age", "--page-size", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Cid")
	assert.NotContains(t, out, "Bob", "Bob sorts onto page 2")
	assert.Contains(t, out, "age ▲")
	assert.Contains(t, out, "Page 1 of 2")
}

func TestView_Search(t *testing.T) {
	rows := writeFile(t, t.TempDir(), "people.json", peopleJSON)

	out, err := execute(t, "view", rows, "--search", "ci")
	require.NoError(t, err)
	assert.Contains(t, out, "Cid")
	assert.NotContains(t, out, "Ann")
	assert.NotContains(t, out, "Bob")
}

func TestView_JSON(t *testing.T) {
	rows := writeFile(t, t.TempDir(), "people.json", peopleJSON)

	out, err := execute(t, "view", rows,
		"--format", "json", "--sort", "age", "--sort", "age", "--page-size", "2", "--page", "9")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["current_page"], "page is clamped")
	assert.Equal(t, float64(2), pagination["total_pages"])
	assert.Equal(t, float64(3), pagination["total_items"])

	sort := data["sort"].(map[string]any)
	assert.Equal(t, "age", sort["key"])
	assert.Equal(t, "desc", sort["direction"])

	cells := data["cells"].([]any)
	require.Len(t, cells, 1)
	assert.Equal(t, []any{"3", "25", "Cid"}, cells[0])
}

func TestView_Layout(t *testing.T) {
	dir := t.TempDir()
	rows := writeFile(t, dir, "people.json", peopleJSON)
	layout := writeFile(t, dir, "layouts/people.cue", peopleLayout)

	out, err := execute(t, "view", rows,
		"--schema", filepath.Dir(layout), "--layout", "people", "--select", "1", "--format", "json")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, true, data["selectable"])
	assert.Equal(t, []any{float64(1)}, data["selected_ids"])

	columns := data["columns"].([]any)
	require.Len(t, columns, 2)
	assert.Equal(t, "Name", columns[0].(map[string]any)["header"])
	assert.Equal(t, "right", columns[1].(map[string]any)["align"])

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["page_size"], "page size from layout")
}

func TestView_Errors(t *testing.T) {
	dir := t.TempDir()
	rows := writeFile(t, dir, "people.json", peopleJSON)
	layout := writeFile(t, dir, "people.cue", peopleLayout)

	tests := []struct {
		name    string
		args    []string
		code    string
		message string
	}{
		{
			name:    "select without selection",
			args:    []string{"view", rows, "--select", "1"},
			code:    ErrCodeInvalidFlag,
			message: "not selectable",
		},
		{
			name:    "unknown sort key",
			args:    []string{"view", rows, "--sort", "salary"},
			code:    ErrCodeInvalidFlag,
			message: "--sort",
		},
		{
			name:    "unknown sort direction",
			args:    []string{"view", rows, "--sort", "age:up"},
			code:    ErrCodeInvalidFlag,
			message: "--sort",
		},
		{
			name:    "select unknown id",
			args:    []string{"view", rows, "--schema", layout, "--select", "1", "--select", "99"},
			code:    ErrCodeInvalidFlag,
			message: "no row with id 99",
		},
		{
			name:    "missing rows file",
			args:    []string{"view", filepath.Join(dir, "nope.json")},
			code:    ErrCodeNotFound,
			message: "rows file not found",
		},
		{
			name:    "no source",
			args:    []string{"view"},
			code:    ErrCodeInvalidFlag,
			message: "rows file or --dataset is required",
		},
		{
			name:    "layout without schema",
			args:    []string{"view", rows, "--layout", "people"},
			code:    ErrCodeInvalidFlag,
			message: "--layout requires --schema",
		},
		{
			name:    "unknown layout",
			args:    []string{"view", rows, "--schema", layout, "--layout", "orders"},
			code:    ErrCodeSchema,
			message: "failed to select layout",
		},
		{
			name:    "bad page size",
			args:    []string{"view", rows, "--page-size=-1"},
			code:    ErrCodeTable,
			message: "failed to create table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.message)
		})
	}
}

func TestView_TextError(t *testing.T) {
	out, err := execute(t, "view", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]: rows file not found")
}

func TestView_SortDirection(t *testing.T) {
	rows := writeFile(t, t.TempDir(), "people.json", peopleJSON)

	tests := []struct {
		sort []string
		want string
	}{
		{[]string{"age:desc"}, "desc"},
		{[]string{"age:asc"}, "asc"},
		{[]string{"age", "age:desc"}, "desc"},
		{[]string{"age", "age:asc"}, "asc"},
	}
	for _, tt := range tests {
		args := []string{"view", rows, "--format", "json"}
		for _, s := range tt.sort {
			args = append(args, "--sort", s)
		}
		out, err := execute(t, args...)
		require.NoError(t, err, "%v", tt.sort)

		data := decodeResponse(t, out).Data.(map[string]any)
		sort := data["sort"].(map[string]any)
		assert.Equal(t, "age", sort["key"], "%v", tt.sort)
		assert.Equal(t, tt.want, sort["direction"], "%v", tt.sort)
	}
}

func TestView_SelectKeepsCellText(t *testing.T) {
	dir := t.TempDir()
	rows := writeFile(t, dir, "agents.csv", "id,name,zip\n007,Bond,02134\n7,Seven,10001\n")

	out, err := execute(t, "view", rows, "--search", "02134", "--format", "json", "--config",
		writeFile(t, dir, "config.yaml", "table:\n  selectable: true\n"), "--select", "007")
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, []any{"007"}, data["selected_ids"])
	cells := data["cells"].([]any)
	require.Len(t, cells, 1)
	assert.Equal(t, []any{"007", "Bond", "02134"}, cells[0])
}
