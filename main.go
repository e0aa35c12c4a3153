package main

import (
	"context"
	"os"

	"zettaboard/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// exit is swapped out by tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the CLI with the process arguments and exits with its status.
func RealMain() {
	root := service.NewRootCommand(CliVersion)
	exit(service.Execute(context.Background(), root, os.Args[1:]))
}
