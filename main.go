package main

import (
	"errors"
	"fmt"
	"os"

	"subfont/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
