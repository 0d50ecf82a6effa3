package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/datatable/internal/schema"
)

// ValidationError is one layout problem, with its source line when known.
type ValidationError struct {
	File    string `json:"file,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// LayoutSummary describes a layout that compiled.
type LayoutSummary struct {
	Name     string   `json:"name"`
	File     string   `json:"file"`
	Columns  []string `json:"columns"`
	PageSize int      `json:"page_size,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Layouts []LayoutSummary   `json:"layouts"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-file-or-dir>",
		Short: "Validate CUE table layouts",
		Long: `Compile CUE table layouts and report every problem found.

Every .cue file under a directory is checked; errors in one file do not
stop the others. A table name declared in two files is an error.

Exit codes:
  0 - All layouts valid
  1 - One or more layouts invalid
  2 - Command error (path not found, no CUE files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := layoutFiles(path)
	if err != nil {
		return fail(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", len(files), path)

	result := validateFiles(files, formatter)
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// layoutFiles resolves path to the CUE files to validate.
func layoutFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "error accessing schema path", Err: err}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := schema.FindCUEFiles(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "error scanning directory", Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}
	return files, nil
}

// validateFiles compiles each file separately so that every file's first
// error is reported.
func validateFiles(files []string, formatter *OutputFormatter) ValidationResult {
	result := ValidationResult{Layouts: []LayoutSummary{}}
	seen := make(map[string]string)

	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)

		layouts, err := schema.LoadFile(file)
		if err != nil {
			result.Errors = append(result.Errors, toValidationError(file, err))
			continue
		}

		for _, l := range layouts {
			if prev, dup := seen[l.Name]; dup {
				result.Errors = append(result.Errors, ValidationError{
					File:    file,
					Field:   "table." + l.Name,
					Message: fmt.Sprintf("table %q already declared in %s", l.Name, prev),
					Code:    ErrCodeSchema,
					Line:    l.Pos.Line(),
				})
				continue
			}
			seen[l.Name] = file

			summary := LayoutSummary{Name: l.Name, File: file, PageSize: l.PageSize}
			for _, c := range l.Columns {
				summary.Columns = append(summary.Columns, c.Key)
			}
			result.Layouts = append(result.Layouts, summary)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func toValidationError(file string, err error) ValidationError {
	var cErr *schema.CompileError
	if errors.As(err, &cErr) {
		ve := ValidationError{File: file, Field: cErr.Field, Message: cErr.Message, Code: ErrCodeSchema}
		if cErr.Pos.IsValid() {
			ve.Line = cErr.Pos.Line()
		}
		return ve
	}
	return ValidationError{File: file, Field: "load", Message: err.Error(), Code: ErrCodeGeneric}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, l := range result.Layouts {
		fmt.Fprintf(formatter.Writer, "✓ %s (%d columns)\n", l.Name, len(l.Columns))
	}
	fmt.Fprintln(formatter.Writer, "✓ All layouts valid")
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.File, err.Line)
		} else {
			fmt.Fprintln(formatter.Writer, err.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
