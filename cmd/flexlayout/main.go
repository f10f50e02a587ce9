// Package main provides the command-line front end for the layout engine.
//
// Usage:
//
//	flexlayout run [options] scenario.toml...    Lay out scenarios, print JSON
//	flexlayout check scenario.toml...            Validate scenarios
//	flexlayout help                              Show help
//
// Examples:
//
//	flexlayout run testdata/sidebar.toml
//	flexlayout run -log /tmp/flex.log -v a.toml b.toml
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

const usage = `flexlayout - incremental flexbox layout for element trees

Usage:
  flexlayout <command> [options] [scenario.toml...]

Commands:
  run         Lay out each scenario and print one JSON document per line
  check       Parse and validate scenarios without laying them out
  version     Print version information
  help        Show this help message

Options (run):
  -config     Engine config file (TOML)
  -log        Path to log file for debugging
  -v          Verbose (debug-level) logging

Examples:
  flexlayout run sidebar.toml               Print element rects as JSON
  flexlayout run -v -log flex.log ./a.toml  Trace every layout pass to flex.log
  flexlayout check a.toml b.toml            Validate scenario files
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		if err := runRun(args, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("flexlayout version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}
