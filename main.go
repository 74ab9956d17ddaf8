package main

import (
	"os"

	"github.com/anchore/anchore-ctl/cmd"
	"github.com/anchore/anchore-ctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
