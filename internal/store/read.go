package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/datatable/internal/row"
)

// Dataset describes a stored dataset.
type Dataset struct {
	Name     string `json:"name"`
	RowCount int    `json:"row_count"`
	Seq      int64  `json:"seq"`
}

// LoadDataset returns the rows saved under name in insertion order.
// Returns ErrDatasetNotFound if no dataset has that name, and an empty
// slice (not nil) for a dataset saved with no rows.
func (s *Store) LoadDataset(ctx context.Context, name string) ([]row.Row, error) {
	if _, err := s.GetDataset(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT body
		FROM dataset_rows
		WHERE dataset = ?
		ORDER BY ord ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("query dataset rows: %w", err)
	}
	defer rows.Close()

	out := []row.Row{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		r, err := unmarshalRow(body)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset rows: %w", err)
	}
	return out, nil
}

// GetDataset returns the metadata of one dataset.
func (s *Store) GetDataset(ctx context.Context, name string) (Dataset, error) {
	var d Dataset
	err := s.db.QueryRowContext(ctx, `
		SELECT name, row_count, seq FROM datasets WHERE name = ?
	`, name).Scan(&d.Name, &d.RowCount, &d.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("dataset %q: %w", name, ErrDatasetNotFound)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("query dataset: %w", err)
	}
	return d, nil
}

// ListDatasets returns every stored dataset ordered by name.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, row_count, seq
		FROM datasets
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	out := []Dataset{}
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.Name, &d.RowCount, &d.Seq); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}
	return out, nil
}
