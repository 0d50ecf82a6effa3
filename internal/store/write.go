package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/datatable/internal/row"
)

// ErrDatasetNotFound is returned when a named dataset does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// SaveDataset stores rows under name, replacing any previous dataset with
// the same name. Row order is preserved. Returns the new save sequence.
func (s *Store) SaveDataset(ctx context.Context, name string, rows []row.Row) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("save dataset: name must not be empty")
	}

	bodies := make([]string, len(rows))
	for i, r := range rows {
		body, err := marshalRow(r)
		if err != nil {
			return 0, fmt.Errorf("save dataset %q: row %d: %w", name, i, err)
		}
		bodies[i] = body
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save dataset: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM datasets`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("save dataset: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_rows WHERE dataset = ?`, name); err != nil {
		return 0, fmt.Errorf("save dataset: clear rows: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, row_count, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET row_count = excluded.row_count, seq = excluded.seq
	`, name, len(rows), seq)
	if err != nil {
		return 0, fmt.Errorf("save dataset: upsert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dataset_rows (dataset, ord, body) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("save dataset: prepare: %w", err)
	}
	defer stmt.Close()

	for i, body := range bodies {
		if _, err := stmt.ExecContext(ctx, name, i, body); err != nil {
			return 0, fmt.Errorf("save dataset: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save dataset: commit: %w", err)
	}
	return seq, nil
}

// DeleteDataset removes a dataset and its rows.
// Returns ErrDatasetNotFound if no dataset has that name.
func (s *Store) DeleteDataset(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete dataset %q: %w", name, ErrDatasetNotFound)
	}
	return nil
}
