package reporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Krantz-XRF/acyclic/detector"
	"github.com/Krantz-XRF/acyclic/reporter/sarif"
	"github.com/Krantz-XRF/acyclic/reporter/text"
)

// Format specifies the output format
type Format string

const (
	FormatText  Format = "text"
	FormatSARIF Format = "sarif"
)

// Reporter is the interface that all reporters must implement
type Reporter interface {
	Report(cycles []detector.Cycle) error
}

// Config configures the reporter
type Config struct {
	Format  Format
	WorkDir string     // For SARIF: base directory for relative paths
	Level   slog.Level // For text: minimum severity written
	Color   bool       // For text: ANSI colouring
}

// New creates a reporter based on the given configuration
func New(w io.Writer, config Config) (Reporter, error) {
	switch config.Format {
	case FormatText, "":
		return text.NewReporter(w, text.WithLevel(config.Level), text.WithColor(config.Color)), nil
	case FormatSARIF:
		if config.WorkDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			config.WorkDir = wd
		}
		return sarif.NewReporter(w, config.WorkDir), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", config.Format)
	}
}
