package main

import (
	"context"
	"fmt"
	"os"

	"github.com/longkedev/lk-export-excel/internal/cli"
)

var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	err := cli.Execute(context.Background(),
		version,
		commit,
		date,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
