package acyclic

import (
	"fmt"

	"golang.org/x/tools/go/analysis"
)

// AnalyzerPlugin is the plugin interface for golangci-lint
type AnalyzerPlugin struct{}

// GetAnalyzers returns analyzers (golangci-lint v1.55.0 and later)
func (*AnalyzerPlugin) GetAnalyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		Analyzer,
	}
}

// New creates a golangci-lint plugin. The settings may name a
// configuration file:
//
//	settings:
//	  config: .acyclic.yaml
func New(conf any) ([]*analysis.Analyzer, error) {
	if settings, ok := conf.(map[string]any); ok {
		if v, ok := settings["config"]; ok {
			path, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("acyclic: setting 'config' must be a string, got %T", v)
			}
			configPath = path
		}
	}
	return []*analysis.Analyzer{Analyzer}, nil
}
