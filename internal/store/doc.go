// Package store provides SQLite-backed storage for named datasets.
//
// A dataset is an ordered list of rows saved under a name. The store keeps
// two tables:
//   - datasets: one record per name with its row count and save sequence
//   - dataset_rows: one record per row, keyed by (dataset, ord)
//
// # Patterns
//
// Insertion order is the dataset order:
//   - rows are written with ord 0..n-1 and read back ORDER BY ord ASC
//   - the table engine treats this order as "unsorted", so it must survive
//     a round trip exactly
//
// Logical save sequence:
//   - datasets.seq is a counter incremented on every save, NEVER a timestamp
//   - ListDatasets orders by name; seq tells which dataset was saved last
//
// Saves replace:
//   - SaveDataset deletes the previous rows and writes the new ones in one
//     transaction, so readers never see a half-written dataset
//
// Query state (search, sort, page, selection) is never persisted.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: dataset_rows cascade when a dataset is deleted
package store
