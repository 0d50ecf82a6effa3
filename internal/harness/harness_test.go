package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Steps))
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	s, err := LoadScenario("testdata/failing/wrong_page.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "steps[0] (next): page mismatch")
	assert.Equal(t, DefaultTableID, result.TableID)
}

func TestRun_InferredColumnsAndDeterminism(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: inferred
description: "columns come from the first row"
rows:
  - { id: b, name: Zed }
  - { id: a, name: amy }
options:
  selectable: true
steps:
  - do: sort
    value: name
    expect:
      visible: [a, b]
  - do: toggle
    value: a
    expect:
      selected: [a]
`))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.True(t, first.Pass, "errors: %v", first.Errors)
	assert.Equal(t, first.TraceText(s.Name), second.TraceText(s.Name))
}

func TestRun_RowsWithoutIdentity(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: anonymous
description: "rows without an id are visible but never selectable"
rows:
  - { name: x }
  - { id: 7, name: y }
options:
  selectable: true
steps:
  - do: toggle_all
    expect:
      visible: ["-", "7"]
      selected: ["7"]
      all_selected: true
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_PageWithoutIdentities(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: all_anonymous
description: "a page of rows without ids counts as all selected"
rows:
  - { name: x }
  - { name: y }
options:
  selectable: true
steps:
  - do: search
    value: x
    expect:
      visible: ["-"]
      selected: []
      all_selected: true
  - do: search
    value: zzz
    expect:
      visible: []
      all_selected: false
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MalformedStepValue(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad_value
description: "page needs an integer"
rows: [{ id: 1 }]
steps:
  - do: page
    value: two
`))
	require.NoError(t, err)

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0] (page)")
}

func TestRun_InvalidOptions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad_options
description: "page size below one is rejected"
rows: [{ id: 1 }]
options:
  page_size: 0
steps:
  - do: next
`))
	require.NoError(t, err)

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_OPTION")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: y\nstepz: []\n",
			want: "field stepz not found",
		},
		{
			name: "missing name",
			yaml: "description: y\nsteps: [{do: next}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\nsteps: [{do: next}]\n",
			want: "description is required",
		},
		{
			name: "no steps",
			yaml: "name: x\ndescription: y\n",
			want: "steps list is required",
		},
		{
			name: "unknown operation",
			yaml: "name: x\ndescription: y\nsteps: [{do: jump}]\n",
			want: `unknown operation "jump"`,
		},
		{
			name: "missing value",
			yaml: "name: x\ndescription: y\nsteps: [{do: search}]\n",
			want: "search requires a value",
		},
		{
			name: "rows and rows_file",
			yaml: "name: x\ndescription: y\nrows: [{id: 1}]\nrows_file: r.csv\nsteps: [{do: next}]\n",
			want: "mutually exclusive",
		},
		{
			name: "column without key",
			yaml: "name: x\ndescription: y\ncolumns: [{header: H}]\nsteps: [{do: next}]\n",
			want: "columns[0]: key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingRowsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"name: x\ndescription: y\nrows_file: nope.json\nsteps: [{do: next}]\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, "nope.json"))
}

func TestRunDir(t *testing.T) {
	outcomes, err := RunDir(context.Background(), "testdata")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	byName := map[string]Outcome{}
	for _, o := range outcomes {
		require.NoError(t, o.Err, o.Path)
		byName[o.Scenario.Name] = o
	}
	assert.False(t, byName["wrong_page"].Passed())
	assert.True(t, byName["people_paging"].Passed())
	assert.True(t, byName["products_layout"].Passed())

	for i := 1; i < len(outcomes); i++ {
		assert.Less(t, outcomes[i-1].Path, outcomes[i].Path)
	}
}

func TestRunDir_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunDir(ctx, "testdata/scenarios")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTraceEvent_String(t *testing.T) {
	ev := TraceEvent{
		Seq: 3, Op: "toggle", Arg: "7",
		Page: 1, TotalPages: 2, TotalItems: 4,
		Visible: []string{"7", "8"}, Selected: []string{"7"},
		SortKey: "name", SortDir: "desc",
		Notified: 1, Error: "NO_SELECTION",
	}
	assert.Equal(t,
		"3 toggle 7 -> page 1/2 items 4 visible [7 8] selected [7] sort name:desc notified 1 error NO_SELECTION",
		ev.String())
}
