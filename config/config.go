package config

import (
	"fmt"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// defaultConfigFile is the default configuration file name
	defaultConfigFile = ".acyclic.yaml"

	// maxConfigSize is the maximum allowed configuration file size (1MB)
	maxConfigSize = 1 * 1024 * 1024

	// Configuration limits to prevent abuse
	maxSharedTypes = 50  // Maximum number of wrapper type names
	maxExclude     = 100 // Maximum number of exclude patterns
)

// DefaultSharedTypes are the wrapper names used when none are configured:
// std::shared_ptr for C++, Shared and Rc for Go reference-counting wrappers.
var DefaultSharedTypes = []string{"shared_ptr", "Shared", "Rc"}

// Config represents the configuration file structure
type Config struct {
	// SharedTypes names the shared-ownership wrapper types. An entry is a
	// plain name ("shared_ptr"), a C++ qualified name ("std::shared_ptr") or
	// a Go package-qualified name ("github.com/acme/rc.Ref").
	SharedTypes []string `yaml:"shared_types,omitempty"`

	// FollowPointers also treats plain Go pointer fields (*T) as owning.
	FollowPointers bool `yaml:"follow_pointers,omitempty"`

	// Exclude lists doublestar globs of source paths to skip.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{SharedTypes: slices.Clone(DefaultSharedTypes)}
}

var packagePathPattern = regexp.MustCompile(`^[a-z0-9.\-_/]+$`)

// LoadConfig loads the configuration file from the specified path.
// If path is empty, it looks for the default configuration file in the current directory.
// Returns the default Config if the file does not exist and no path was specified.
// Returns an empty Config and an error if loading or validation fails.
func LoadConfig(path string) (Config, error) {
	// If no path specified, try default file
	if path == "" {
		path = defaultConfigFile
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}
	}

	// Validate path to prevent path traversal for relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve config path: %w", err)
	}

	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get working directory: %w", err)
		}

		relPath, err := filepath.Rel(wd, absPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return Config{}, fmt.Errorf("config file must be within the working directory: %s", path)
		}
	}

	// Check file size before reading
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}

	if fileInfo.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config file size (%d bytes) exceeds maximum allowed size (%d bytes)", fileInfo.Size(), maxConfigSize)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return decode(io.LimitReader(file, maxConfigSize))
}

func decode(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Reject unknown fields

	var config Config
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(config.SharedTypes) == 0 {
		config.SharedTypes = slices.Clone(DefaultSharedTypes)
	}

	if err := ValidateConfig(&config); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration structure and content
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if len(config.SharedTypes) > maxSharedTypes {
		return fmt.Errorf("too many shared types: %d (max: %d)", len(config.SharedTypes), maxSharedTypes)
	}

	for i, name := range config.SharedTypes {
		if err := validateTypeName(name); err != nil {
			return fmt.Errorf("shared_types[%d]: %w", i, err)
		}
	}

	if len(config.Exclude) > maxExclude {
		return fmt.Errorf("too many exclude patterns: %d (max: %d)", len(config.Exclude), maxExclude)
	}

	for i, pattern := range config.Exclude {
		if err := validatePattern(pattern); err != nil {
			return fmt.Errorf("exclude[%d]: %w", i, err)
		}
	}

	return nil
}

// validateTypeName accepts "Name", "ns::Name" and "pkg/path.Name"
func validateTypeName(name string) error {
	if name == "" {
		return fmt.Errorf("type name is required")
	}

	if strings.Contains(name, "::") {
		for _, seg := range strings.Split(strings.TrimPrefix(name, "::"), "::") {
			if err := validateIdentifier(seg); err != nil {
				return fmt.Errorf("invalid qualified name '%s': %w", name, err)
			}
		}
		return nil
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		if err := validatePackagePath(name[:i]); err != nil {
			return fmt.Errorf("invalid type name '%s': %w", name, err)
		}
		name = name[i+1:]
	}

	return validateIdentifier(name)
}

// validatePackagePath validates that the package path contains only allowed characters
func validatePackagePath(pkg string) error {
	if !packagePathPattern.MatchString(pkg) {
		return fmt.Errorf("invalid package path: %s (must match pattern: %s)", pkg, packagePathPattern.String())
	}
	return nil
}

// validateIdentifier validates that the name is a valid identifier
func validateIdentifier(name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("invalid identifier: %s", name)
	}
	return nil
}

// validatePattern rejects empty and malformed glob patterns
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is empty")
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	return nil
}
