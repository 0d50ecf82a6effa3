package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/datatable/internal/render"
	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/table"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	*RootOptions
	SourceOptions

	Search string
	Sort   []string // each use is one header click
	Page   int
	Select []string
	Color  bool
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "view [rows-file]",
		Short: "Print one page of a table",
		Long: `Load rows, apply search, sort, selection and paging, and print the
visible page.

Rows come from a .json, .yaml or .csv file, or from a stored dataset with
--dataset. Columns come from a CUE layout (--schema, --layout) or are
inferred from the first row. Each --sort is one click on that column's
header: the first click sorts ascending, a second click on the same column
sorts descending. --sort key:desc (or key:asc) clicks until the column is
sorted that way.

Examples:
  datatable view people.csv --search ann
  datatable view people.json --schema layouts/ --layout people --sort age:desc
  datatable view --db data.db --dataset people --page 2 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rowsFile string
			if len(args) == 1 {
				rowsFile = args[0]
			}
			return runView(opts, rowsFile, cmd)
		},
	}

	addSourceFlags(cmd, &opts.SourceOptions)
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search")
	cmd.Flags().StringArrayVar(&opts.Sort, "sort", nil, "click a column header, optionally key:asc|key:desc (repeatable)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number (clamped to the last page)")
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "row ids to select")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "colored text output")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, src *SourceOptions) {
	cmd.Flags().StringVar(&src.Dataset, "dataset", "", "stored dataset to load instead of a rows file")
	cmd.Flags().StringVar(&src.Database, "db", "", "path to SQLite dataset store (default store.path)")
	cmd.Flags().StringVar(&src.Schema, "schema", "", "CUE layout file or directory")
	cmd.Flags().StringVar(&src.Layout, "layout", "", "table name within --schema")
	cmd.Flags().IntVar(&src.PageSize, "page-size", 0, "rows per page (default table.page_size)")
}

func runView(opts *ViewOptions, rowsFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := buildTable(cmd.Context(), opts.Config, opts.SourceOptions, rowsFile)
	if err != nil {
		return fail(formatter, err)
	}
	t := loaded.Table
	formatter.VerboseLog("Loaded %d rows", loaded.Rows)

	if err := applyQuery(t, opts); err != nil {
		return fail(formatter, err)
	}

	v := t.View()
	slog.Debug("view rendered",
		"table_id", v.TableID,
		"page", v.Pagination.CurrentPage,
		"total_pages", v.Pagination.TotalPages,
		"visible", len(v.Rows),
	)

	if opts.Format == "json" {
		data, err := render.JSON(v)
		if err != nil {
			return fail(formatter, err)
		}
		return formatter.Success(json.RawMessage(data))
	}

	styles := render.PlainStyles()
	if opts.Color {
		styles = render.DefaultStyles()
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Text(v, render.WithStyles(styles)))
	return nil
}

// applyQuery replays the query flags as intents, in the order a user would
// click: search, sort headers, selection, then page.
func applyQuery(t *table.Table, opts *ViewOptions) error {
	if opts.Search != "" {
		if !t.View().Searchable {
			return &LoadError{Code: ErrCodeInvalidFlag, Message: "--search: table is not searchable"}
		}
		t.Dispatch(table.SetSearch{Text: opts.Search})
	}

	for _, spec := range opts.Sort {
		key, dir, err := parseSortFlag(t, spec)
		if err != nil {
			return err
		}
		t.Dispatch(table.SortBy{Key: key})
		if dir != nil && t.View().SortDirection != *dir {
			t.Dispatch(table.SortBy{Key: key})
		}
	}

	if len(opts.Select) > 0 {
		if !t.View().Selectable {
			return &LoadError{Code: ErrCodeInvalidFlag, Message: "--select: table is not selectable"}
		}
		for _, id := range opts.Select {
			t.Dispatch(table.Toggle(row.ParseID(id)))
		}
		if err := checkSelection(t); err != nil {
			return err
		}
	}

	if opts.Page != 1 {
		t.Dispatch(table.GoToPage{Page: opts.Page})
	}
	return nil
}

// parseSortFlag splits "key" or "key:asc|desc". dir is nil for a plain
// header click.
func parseSortFlag(t *table.Table, spec string) (string, *table.Direction, error) {
	key, dirText, hasDir := spec, "", false
	if _, ok := t.Columns().Lookup(spec); !ok {
		key, dirText, hasDir = strings.Cut(spec, ":")
	}

	if _, ok := t.Columns().Lookup(key); !ok {
		return "", nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "--sort", Err: t.Columns().UnknownKeyError(key)}
	}
	if !t.Columns().IsSortable(key) {
		return "", nil, &LoadError{Code: ErrCodeInvalidFlag, Message: fmt.Sprintf("--sort: column %q is not sortable", key)}
	}
	if !hasDir {
		return key, nil, nil
	}
	dir, err := table.ParseDirection(dirText)
	if err != nil {
		return "", nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "--sort", Err: err}
	}
	return key, &dir, nil
}

// checkSelection rejects selected ids that match no row, so the selection
// count always equals the rows an action would receive.
func checkSelection(t *table.Table) error {
	found := make(map[row.ID]bool)
	for _, r := range t.SelectedRows() {
		if id, ok := r.IDOf(t.IDField()); ok {
			found[id] = true
		}
	}
	for _, id := range t.View().SelectedIDs {
		if !found[id] {
			return &LoadError{Code: ErrCodeInvalidFlag, Message: fmt.Sprintf("--select: no row with id %s", id)}
		}
	}
	return nil
}
