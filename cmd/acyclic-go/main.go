package main

import (
	"fmt"
	"os"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/packages"

	"github.com/Krantz-XRF/acyclic"
	"github.com/Krantz-XRF/acyclic/reporter/sarif"
)

func main() {
	// Check if SARIF format is requested
	isSARIF := false
	for _, arg := range os.Args[1:] {
		if isFormatFlag(arg) {
			isSARIF = true
			break
		}
	}

	if !isSARIF {
		// Use standard singlechecker for text format
		singlechecker.Main(acyclic.Analyzer)
		return
	}

	// Cycles are per package, but the SARIF document must be single, so
	// load every package and aggregate the results.
	os.Exit(runSARIFMode(os.Args[1:]))
}

func isFormatFlag(arg string) bool {
	return arg == "-format=sarif" || arg == "--format=sarif"
}

func runSARIFMode(args []string) int {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get working directory: %v\n", err)
		return 1
	}

	var pkgPatterns []string
	for _, arg := range args {
		if !isFormatFlag(arg) {
			pkgPatterns = append(pkgPatterns, arg)
		}
	}
	if len(pkgPatterns) == 0 {
		fmt.Fprintln(os.Stderr, "usage: acyclic-go --format=sarif <package patterns>")
		return 1
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes |
			packages.NeedSyntax | packages.NeedTypesInfo,
		Tests: false,
		Dir:   workDir,
	}
	pkgs, err := packages.Load(cfg, pkgPatterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load packages: %v\n", err)
		return 1
	}

	// Report package errors to stderr but continue analysis
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			fmt.Fprintf(os.Stderr, "%v\n", pkgErr)
		}
	}

	agg := sarif.NewAggregatingReporter(workDir)
	for _, pkg := range pkgs {
		// Skip packages with type errors (e.g., import issues)
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}

		pass := &analysis.Pass{
			Analyzer:  acyclic.Analyzer,
			Fset:      pkg.Fset,
			Files:     pkg.Syntax,
			Pkg:       pkg.Types,
			TypesInfo: pkg.TypesInfo,
			ResultOf:  make(map[*analysis.Analyzer]interface{}),
			Report:    func(analysis.Diagnostic) {}, // Suppress individual reports
		}

		result, runErr := acyclic.Analyzer.Run(pass)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "analysis failed for %s: %v\n", pkg.PkgPath, runErr)
			continue
		}
		if rt, ok := result.(*acyclic.ResultType); ok {
			agg.AddCycles(rt.Cycles)
		}
	}

	if err := agg.Report(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write SARIF: %v\n", err)
		return 1
	}
	return 0
}
