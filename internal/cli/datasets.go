package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/datatable/internal/store"
)

// StoreOptions holds flags for commands that work on the dataset store.
type StoreOptions struct {
	*RootOptions
	Database string
}

func addStoreFlag(cmd *cobra.Command, opts *StoreOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite dataset store (default store.path)")
}

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	Dataset string `json:"dataset"`
	Rows    int    `json:"rows"`
	Seq     int64  `json:"seq"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <name> <rows-file>",
		Short: "Save a rows file as a named dataset",
		Long: `Load rows from a .json, .yaml or .csv file and store them under a
name, replacing any dataset with the same name. Row order is kept.

Example:
  datatable import people people.csv --db data.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1], cmd)
		},
	}

	addStoreFlag(cmd, opts)
	return cmd
}

func runImport(opts *StoreOptions, name, rowsFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	rows, err := loadRows(ctx, opts.Config, SourceOptions{}, rowsFile)
	if err != nil {
		return fail(formatter, err)
	}

	st, err := openStore(opts.Config, opts.Database)
	if err != nil {
		return fail(formatter, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	seq, err := st.SaveDataset(ctx, name, rows)
	if err != nil {
		return fail(formatter, &LoadError{Code: ErrCodeStore, Message: "failed to save dataset", Err: err})
	}
	slog.Info("dataset saved", "dataset", name, "rows", len(rows), "seq", seq)

	if opts.Format == "json" {
		return formatter.Success(ImportResult{Dataset: name, Rows: len(rows), Seq: seq})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d rows into %s\n", len(rows), name)
	return nil
}

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "datasets",
		Short:         "List stored datasets",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(opts, cmd)
		},
	}

	addStoreFlag(cmd, opts)
	return cmd
}

func runDatasets(opts *StoreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.Config, opts.Database)
	if err != nil {
		return fail(formatter, err)
	}
	defer st.Close()

	datasets, err := st.ListDatasets(cmd.Context())
	if err != nil {
		return fail(formatter, &LoadError{Code: ErrCodeStore, Message: "failed to list datasets", Err: err})
	}

	if opts.Format == "json" {
		return formatter.Success(datasets)
	}

	w := cmd.OutOrStdout()
	if len(datasets) == 0 {
		fmt.Fprintln(w, "No datasets.")
		return nil
	}
	fmt.Fprint(w, datasetList(datasets))
	return nil
}

// datasetList lays out one dataset per line with aligned columns.
func datasetList(datasets []store.Dataset) string {
	nameWidth := lipgloss.Width("NAME")
	for _, d := range datasets {
		nameWidth = max(nameWidth, lipgloss.Width(d.Name))
	}
	name := lipgloss.NewStyle().Width(nameWidth + 2)
	count := lipgloss.NewStyle().Width(6).Align(lipgloss.Right)

	var out string
	out += name.Render("NAME") + count.Render("ROWS") + "\n"
	for _, d := range datasets {
		out += name.Render(d.Name) + count.Render(fmt.Sprint(d.RowCount)) + "\n"
	}
	return out
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "drop <name>",
		Short:         "Delete a stored dataset",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(opts, args[0], cmd)
		},
	}

	addStoreFlag(cmd, opts)
	return cmd
}

func runDrop(opts *StoreOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.Config, opts.Database)
	if err != nil {
		return fail(formatter, err)
	}
	defer st.Close()

	err = st.DeleteDataset(cmd.Context(), name)
	if errors.Is(err, store.ErrDatasetNotFound) {
		return fail(formatter, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset %q not found", name)})
	}
	if err != nil {
		return fail(formatter, &LoadError{Code: ErrCodeStore, Message: "failed to delete dataset", Err: err})
	}
	slog.Info("dataset deleted", "dataset", name)

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"dropped": name})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Dropped %s\n", name)
	return nil
}
