// Command stmrun is a minimal CLI wrapper around the STM pipeline. CLI
// parsing is explicitly out of scope for the core (spec.md §1); this is
// the external collaborator that supplies rays, a config, and a sink for
// the approved matches.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/paugier/stm-core/internal/rayio"
	"github.com/paugier/stm-core/stm"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML pipeline config (required)")
	raysPath := flag.String("rays", "", "path to a CSV ray file (required)")
	outPath := flag.String("out", "matches.csv", "path to write approved matches as CSV")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *raysPath, *outPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "stmrun:", err)
		os.Exit(1)
	}
}

func run(configPath, raysPath, outPath string, debug bool) error {
	if configPath == "" || raysPath == "" {
		return fmt.Errorf("both -config and -rays are required")
	}

	cfg, err := stm.LoadConfigYAML(configPath)
	if err != nil {
		return err
	}

	logger := stm.NewDefaultLogger("stmrun", debug)

	pipeline, err := stm.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	rays, err := rayio.ReadCSV(raysPath)
	if err != nil {
		return err
	}

	matches, counters, err := pipeline.Run(rays)
	if err != nil {
		return err
	}

	if err := rayio.WriteMatches(outPath, matches); err != nil {
		return err
	}

	logger.Infof("wrote %d matches to %s", len(matches), outPath)
	fmt.Print(counters.PrometheusText())
	return nil
}
