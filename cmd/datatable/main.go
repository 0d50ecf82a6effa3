// Command datatable searches, sorts, pages and selects tabular data.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/datatable/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
