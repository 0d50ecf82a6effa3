package row

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads rows from a .json, .yaml/.yml or .csv file.
func LoadFile(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		return UnmarshalRows(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		return UnmarshalYAMLRows(data)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported rows file %q: want .json, .yaml, .yml or .csv", path)
	}
}

// UnmarshalYAMLRows decodes a YAML sequence of mappings.
func UnmarshalYAMLRows(data []byte) ([]Row, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return fromMaps(raw)
}

// ReadCSV reads rows from CSV with a header line. Cells are trimmed;
// empty cells are left out of the row, integer and decimal text becomes
// numeric, "true"/"false" become booleans.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		r := make(Row, len(header))
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v, ok := ParseCell(cell); ok {
				r[header[i]] = v
			}
		}
		rows = append(rows, r)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// ParseCell converts CSV cell text into a Value. Empty cells report false.
// A cell becomes a number only when Text of that number gives back the cell,
// so "02134" and "1e3" stay strings and can still be searched as written.
func ParseCell(cell string) (Value, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return Int(n), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && formatFloat(f) == s {
		return Float(f), true
	}
	switch s {
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	}
	return String(s), true
}
