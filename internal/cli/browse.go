package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/table"
	"github.com/roach88/datatable/internal/tui"
)

// printAction is the bulk action offered by browse. Rows it is run on are
// written to stdout as JSON once the browser exits.
const printAction = "Print"

// BrowseOptions holds flags for the browse command.
type BrowseOptions struct {
	*RootOptions
	SourceOptions
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BrowseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "browse [rows-file]",
		Short: "Browse a table interactively",
		Long: `Open an interactive terminal browser over the table.

Press / to search, tab and s to sort, n/p to page, space to select, and x
to run the Print action: the selected rows are written to stdout as JSON
when the browser exits. Press ? for all keys.

Examples:
  datatable browse people.csv --schema people.cue
  datatable browse --db data.db --dataset people > picked.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rowsFile string
			if len(args) == 1 {
				rowsFile = args[0]
			}
			return runBrowse(opts, rowsFile, cmd)
		},
	}

	addSourceFlags(cmd, &opts.SourceOptions)
	return cmd
}

// printed collects rows passed to the Print action.
type printed struct {
	mu   sync.Mutex
	rows []row.Row
}

func (p *printed) add(rows []row.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append(p.rows, rows...)
}

func runBrowse(opts *BrowseOptions, rowsFile string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	out := &printed{}
	loaded, err := buildTable(cmd.Context(), opts.Config, opts.SourceOptions, rowsFile,
		table.WithSelectable(true),
		table.WithActions(table.Action{Label: printAction, OnClick: out.add}),
		table.WithOnRowClick(func(r row.Row) {
			slog.Debug("row clicked", "fields", len(r))
		}),
	)
	if err != nil {
		return fail(formatter, err)
	}

	if err := tui.Run(loaded.Table); err != nil {
		return WrapExitError(ExitFailure, "browser error", err)
	}

	if len(out.rows) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(out.rows, "", "  ")
	if err != nil {
		return fail(formatter, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
