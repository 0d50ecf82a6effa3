package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadFile compiles every layout declared under "table" in a CUE file, in
// declaration order.
func LoadFile(path string) ([]*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	return compileSource(cuecontext.New(), data, path)
}

// LoadDir walks dir and compiles every .cue file found. Files are visited
// in lexical order; a table name declared twice is an error.
func LoadDir(dir string) ([]*Layout, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("accessing layout directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning layout directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	var layouts []*Layout
	seen := make(map[string]string)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading layout file: %w", err)
		}
		found, err := compileSource(ctx, data, path)
		if err != nil {
			return nil, err
		}
		for _, l := range found {
			if prev, dup := seen[l.Name]; dup {
				return nil, &CompileError{
					Field:   "table." + l.Name,
					Message: fmt.Sprintf("table %q already declared in %s", l.Name, prev),
					Pos:     l.Pos,
				}
			}
			seen[l.Name] = path
		}
		layouts = append(layouts, found...)
	}
	return layouts, nil
}

// Load dispatches to LoadDir or LoadFile depending on what path names.
func Load(path string) ([]*Layout, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing layout path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// FindCUEFiles walks the directory and returns all .cue file paths, sorted.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// Select returns the layout called name. An empty name selects the only
// layout when exactly one exists.
func Select(layouts []*Layout, name string) (*Layout, error) {
	if name == "" {
		if len(layouts) == 1 {
			return layouts[0], nil
		}
		return nil, fmt.Errorf("%d layouts found; choose one with --layout", len(layouts))
	}
	for _, l := range layouts {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("layout %q not found", name)
}

func compileSource(ctx *cue.Context, data []byte, path string) ([]*Layout, error) {
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tablesVal := v.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, &CompileError{Field: "table", Message: "no table layouts declared", Pos: v.Pos()}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var layouts []*Layout
	for iter.Next() {
		layout, err := Compile(iter.Value())
		if err != nil {
			return nil, err
		}
		layout.Name = iter.Label()
		layouts = append(layouts, layout)
	}
	if len(layouts) == 0 {
		return nil, &CompileError{Field: "table", Message: "no table layouts declared", Pos: tablesVal.Pos()}
	}
	return layouts, nil
}
