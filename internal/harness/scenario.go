package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: a dataset, a table
// configuration and a sequence of steps with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// TableID is a fixed table id for deterministic traces.
	// If empty, defaults to "test-table-default".
	TableID string `yaml:"table_id,omitempty"`

	// Rows is the inline dataset. Mutually exclusive with RowsFile.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// RowsFile is a .json, .yaml or .csv dataset, relative to the
	// scenario file.
	RowsFile string `yaml:"rows_file,omitempty"`

	// Layout is a CUE layout file, relative to the scenario file. When
	// set, its columns and options are used; Options still override.
	Layout string `yaml:"layout,omitempty"`

	// LayoutName selects a table from Layout when it declares several.
	LayoutName string `yaml:"layout_name,omitempty"`

	// Columns are inline column definitions. If neither Columns nor
	// Layout is given, columns are inferred from the first row.
	Columns []ColumnDef `yaml:"columns,omitempty"`

	// Options configure the table.
	Options Options `yaml:"options,omitempty"`

	// Actions are bulk action labels; invocations are recorded.
	Actions []string `yaml:"actions,omitempty"`

	// Steps are executed in order against one table.
	Steps []Step `yaml:"steps"`

	// dir is the directory holding the scenario file.
	dir string
}

// ColumnDef is an inline column.
type ColumnDef struct {
	Key      string `yaml:"key"`
	Header   string `yaml:"header,omitempty"`
	Sortable bool   `yaml:"sortable,omitempty"`
	Align    string `yaml:"align,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	Render   string `yaml:"render,omitempty"`
}

// Options mirror the table options. Nil fields keep the table default.
type Options struct {
	PageSize     *int    `yaml:"page_size,omitempty"`
	Searchable   *bool   `yaml:"searchable,omitempty"`
	Selectable   *bool   `yaml:"selectable,omitempty"`
	EmptyMessage *string `yaml:"empty_message,omitempty"`
	IDField      string  `yaml:"id_field,omitempty"`
	Locale       string  `yaml:"locale,omitempty"`
	Loading      bool    `yaml:"loading,omitempty"`
}

// Step is one operation. Value carries the operation argument:
//
//	search          text
//	sort            column key
//	page            page number
//	toggle          row identity (integer or string)
//	toggle_all      checked (default true)
//	replace_rows    list of row objects
//	action          action label
//	click           index on the visible page
//	loading         flag
type Step struct {
	Do     string  `yaml:"do"`
	Value  any     `yaml:"value,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the observable state after a step. Only the fields that are
// set are compared.
type Expect struct {
	Visible       []string `yaml:"visible,omitempty"`
	Page          *int     `yaml:"page,omitempty"`
	TotalPages    *int     `yaml:"total_pages,omitempty"`
	TotalItems    *int     `yaml:"total_items,omitempty"`
	Selected      []string `yaml:"selected,omitempty"`
	AllSelected   *bool    `yaml:"all_selected,omitempty"`
	SortKey       *string  `yaml:"sort_key,omitempty"`
	SortDir       *string  `yaml:"sort_dir,omitempty"`
	Notifications *int     `yaml:"notifications,omitempty"`
	Error         *string  `yaml:"error,omitempty"`
	Invoked       []string `yaml:"invoked,omitempty"`
}

// Step operations.
const (
	OpSearch         = "search"
	OpSort           = "sort"
	OpClearSort      = "clear_sort"
	OpPage           = "page"
	OpNext           = "next"
	OpPrev           = "prev"
	OpFirst          = "first"
	OpLast           = "last"
	OpClamp          = "clamp"
	OpToggle         = "toggle"
	OpToggleAll      = "toggle_all"
	OpClearSelection = "clear_selection"
	OpReset          = "reset"
	OpReplaceRows    = "replace_rows"
	OpAction         = "action"
	OpClick          = "click"
	OpLoading        = "loading"
)

var knownOps = []string{
	OpSearch, OpSort, OpClearSort, OpPage, OpNext, OpPrev, OpFirst, OpLast,
	OpClamp, OpToggle, OpToggleAll, OpClearSelection, OpReset, OpReplaceRows,
	OpAction, OpClick, OpLoading,
}

// opsWithValue require a value.
var opsWithValue = []string{OpSearch, OpSort, OpPage, OpToggle, OpReplaceRows, OpAction, OpClick, OpLoading}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := decodeScenario(data)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)

	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

// ParseScenario parses scenario YAML. Relative paths resolve against the
// working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	s, err := decodeScenario(data)
	if err != nil {
		return nil, err
	}
	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

func decodeScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// resolve returns path relative to the scenario file.
func (s *Scenario) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Rows) > 0 && s.RowsFile != "" {
		return fmt.Errorf("rows and rows_file are mutually exclusive")
	}
	if len(s.Columns) > 0 && s.Layout != "" {
		return fmt.Errorf("columns and layout are mutually exclusive")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, path := range []string{s.RowsFile, s.Layout} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(s.resolve(path)); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", s.resolve(path))
		}
	}

	for i, c := range s.Columns {
		if c.Key == "" {
			return fmt.Errorf("columns[%d]: key is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Do == "" {
			return fmt.Errorf("steps[%d]: do is required", i)
		}
		if !slices.Contains(knownOps, step.Do) {
			return fmt.Errorf("steps[%d]: unknown operation %q", i, step.Do)
		}
		if step.Value == nil && slices.Contains(opsWithValue, step.Do) {
			return fmt.Errorf("steps[%d]: %s requires a value", i, step.Do)
		}
	}

	return nil
}
