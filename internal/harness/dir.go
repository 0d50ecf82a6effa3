package harness

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one scenario file in a directory run.
// Err is set when the file could not be loaded or executed.
type Outcome struct {
	Path     string
	Scenario *Scenario
	Result   *Result
	Err      error
}

// Passed reports whether the scenario loaded, ran and met every expectation.
func (o Outcome) Passed() bool {
	return o.Err == nil && o.Result != nil && o.Result.Pass
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// A file path is returned as is.
func FindScenarios(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// RunDir loads and runs every scenario under dir. Scenarios run
// concurrently, each against its own table; outcomes are returned in path
// order. Per-scenario failures are reported in the outcomes, so the error
// is only for a directory that cannot be read or a cancelled context.
func RunDir(ctx context.Context, dir string) ([]Outcome, error) {
	files, err := FindScenarios(dir)
	if err != nil {
		return nil, err
	}
	return RunFiles(ctx, files)
}

// RunFiles loads and runs the given scenario files concurrently. Outcomes
// are returned in the order of files.
func RunFiles(ctx context.Context, files []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := Outcome{Path: path}
			out.Scenario, out.Err = LoadScenario(path)
			if out.Err == nil {
				out.Result, out.Err = Run(out.Scenario)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
