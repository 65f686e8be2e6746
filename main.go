package main

import (
	"fmt"
	"os"

	"github.com/temirov/gitshell/cmd/cli"
)

const errorOutputTemplateConstant = "%v\n"

func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, errorOutputTemplateConstant, executionError)
		os.Exit(1)
	}
}
