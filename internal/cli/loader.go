package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/config"
	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/schema"
	"github.com/roach88/datatable/internal/store"
	"github.com/roach88/datatable/internal/table"
)

// LoadError represents an error that occurred while loading rows, layouts
// or datasets. Code is one of the ErrCode constants.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SourceOptions are the flags shared by commands that build a table.
type SourceOptions struct {
	Dataset  string // dataset name in the store, instead of a rows file
	Database string // store path; defaults to store.path from config
	Schema   string // CUE layout file or directory
	Layout   string // table name within Schema
	PageSize int    // 0 keeps the config or layout value
}

// LoadedTable is a table plus what it was built from.
type LoadedTable struct {
	Table  *table.Table
	Layout *schema.Layout // nil when columns were inferred
	Rows   int
}

// loadRows reads rows from a file, or from the dataset store when
// src.Dataset is set.
func loadRows(ctx context.Context, cfg config.Config, src SourceOptions, rowsFile string) ([]row.Row, error) {
	if src.Dataset != "" {
		if rowsFile != "" {
			return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "give either a rows file or --dataset, not both"}
		}
		st, err := openStore(cfg, src.Database)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		rows, err := st.LoadDataset(ctx, src.Dataset)
		if errors.Is(err, store.ErrDatasetNotFound) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset %q not found", src.Dataset)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: "failed to load dataset", Err: err}
		}
		slog.Debug("dataset loaded", "dataset", src.Dataset, "rows", len(rows))
		return rows, nil
	}

	if rowsFile == "" {
		return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "a rows file or --dataset is required"}
	}
	if _, err := os.Stat(rowsFile); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rows file not found: %s", rowsFile)}
	}
	rows, err := row.LoadFile(rowsFile)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadRows, Message: "failed to load rows", Err: err}
	}
	slog.Debug("rows loaded", "file", rowsFile, "rows", len(rows))
	return rows, nil
}

// loadLayout compiles src.Schema and selects src.Layout. No schema means
// no layout.
func loadLayout(src SourceOptions) (*schema.Layout, error) {
	if src.Schema == "" {
		if src.Layout != "" {
			return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "--layout requires --schema"}
		}
		return nil, nil
	}
	layouts, err := schema.Load(src.Schema)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "failed to compile layout", Err: err}
	}
	layout, err := schema.Select(layouts, src.Layout)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "failed to select layout", Err: err}
	}
	return layout, nil
}

// buildTable loads rows and layout and creates the table. Options apply in
// order config, layout, flags, extra.
func buildTable(ctx context.Context, cfg config.Config, src SourceOptions, rowsFile string, extra ...table.Option) (*LoadedTable, error) {
	rows, err := loadRows(ctx, cfg, src, rowsFile)
	if err != nil {
		return nil, err
	}
	layout, err := loadLayout(src)
	if err != nil {
		return nil, err
	}

	opts := cfg.Table.Options()
	idField := cfg.Table.IDField
	var cols []column.Column
	if layout != nil {
		opts = append(opts, layout.Options()...)
		cols = layout.Columns
		if layout.IDField != "" {
			idField = layout.IDField
		}
	} else {
		cols = column.Infer(rows, idField)
		if len(cols) == 0 {
			cols = []column.Column{{Key: idField, Header: idField, Sortable: true}}
		}
	}
	if src.PageSize != 0 {
		opts = append(opts, table.WithPageSize(src.PageSize))
	}
	opts = append(opts, extra...)

	t, err := table.New(rows, cols, opts...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeTable, Message: "failed to create table", Err: err}
	}
	return &LoadedTable{Table: t, Layout: layout, Rows: len(rows)}, nil
}

// openStore opens the dataset store at path, or at store.path from config.
func openStore(cfg config.Config, path string) (*store.Store, error) {
	if path == "" {
		path = cfg.Store.Path
	}
	if path == "" {
		return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: "no dataset store: pass --db or set store.path"}
	}
	slog.Debug("opening database", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: "failed to open database", Err: err}
	}
	return st, nil
}

// fail reports err through f and converts it to an ExitError. LoadErrors
// keep their code; anything else is a generic command error.
func fail(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, loadErr.Err)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut, // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
