// Command acyclic reports retain cycles formed by shared-ownership fields in
// C++ sources.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Krantz-XRF/acyclic/reporter"
)

// exit codes
const (
	exitOK     = 0
	exitError  = 1
	exitCycles = 3
)

// errCyclesFound makes the command fail after a successful report
var errCyclesFound = errors.New("circular references found")

type options struct {
	configPath string
	verbose    string
	format     string
	color      string
	jobs       int
	neo4jURI   string
	neo4jUser  string
	neo4jPass  string
	clean      bool
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the root command and maps its outcome to an exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errCyclesFound):
		return exitCycles
	default:
		fmt.Fprintf(stderr, "acyclic: error: %v\n", err)
		return exitError
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "acyclic [flags] PATH...",
		Short: "Detect retain cycles formed by shared-ownership fields",
		Long: `acyclic scans C++ sources for member accesses on fields holding
shared-ownership wrappers (std::shared_ptr and friends), builds the graph of
types referencing each other through such fields and reports every cycle.

Objects on such a cycle keep each other alive and are never released.

Directories are walked for C++ sources; files are analysed as given.

Exit status is 0 when no cycle was found, 3 when cycles were reported and 1
on errors.

Examples:
  acyclic src/
  acyclic --format sarif --color never src/ include/ > acyclic.sarif
  acyclic --neo4j-uri bolt://localhost:7687 --neo4j-pass secret src/`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "path to the configuration file (default: .acyclic.yaml in the working directory)")
	f.StringVarP(&o.verbose, "verbose", "v", "info", "log level: trace, debug, info, warning, error, critical or off")
	f.StringVar(&o.format, "format", string(reporter.FormatText), "output format: text or sarif")
	f.StringVar(&o.color, "color", "auto", "colorize text output: auto, always or never")
	f.IntVarP(&o.jobs, "jobs", "j", 0, "number of files parsed concurrently (default: number of CPUs)")
	f.StringVar(&o.neo4jURI, "neo4j-uri", os.Getenv("ACYCLIC_NEO4J_URI"), "export the graph to this Neo4j bolt URI")
	f.StringVar(&o.neo4jUser, "neo4j-user", envOr("ACYCLIC_NEO4J_USER", "neo4j"), "Neo4j username")
	f.StringVar(&o.neo4jPass, "neo4j-pass", os.Getenv("ACYCLIC_NEO4J_PASS"), "Neo4j password")
	f.BoolVar(&o.clean, "clean", false, "remove previously exported data before exporting")

	return cmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
