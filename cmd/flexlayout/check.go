package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	gui "github.com/dgellow/zig-gui-sub000"
)

// runCheck implements the check subcommand.
// It parses scenarios and builds their trees without laying them out.
func runCheck(args []string) error {
	verbose := false
	var paths []string

	// Parse arguments
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
		} else {
			paths = append(paths, arg)
		}
	}

	if len(paths) == 0 {
		return errors.New("no scenario files given")
	}

	var errorCount int
	for _, path := range paths {
		if verbose {
			fmt.Printf("Checking %s\n", path)
		}
		if err := checkScenario(path); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return errors.Errorf("%d file(s) had errors", errorCount)
	}
	if verbose {
		fmt.Printf("All %d file(s) passed checks\n", len(paths))
	}
	return nil
}

func checkScenario(path string) error {
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}
	cfg := gui.DefaultConfig()
	cfg.MaxElements = max(1, len(sc.Elements))
	_, _, err = buildEngine(sc, cfg, zap.NewNop())
	return err
}
