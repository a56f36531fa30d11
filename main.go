package main

import (
	"fmt"
	"os"

	"github.com/thorsten-klein/git-subrepo/cmd/cli"
	"github.com/thorsten-klein/git-subrepo/internal/subrepo"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the git-subrepo command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(subrepo.ExitCodeFor(executionError))
	}
}
