// Package frameworks runs the structural comparison once per build
// configuration and merges the results. C# sources gate declarations
// behind preprocessor conditions, so a single parse sees only one of
// the possible shapes of the file; comparing per configuration and
// attributing configuration-specific changes recovers the rest.
package frameworks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

// FrameworksDeclarationFile is the default filename for configuration
// declarations.
const FrameworksDeclarationFile = "FRAMEWORKS.toml"

// Configuration is one declared build configuration: a name and the
// preprocessor symbols defined under it.
type Configuration struct {
	// Name is the configuration identifier, e.g. "net8.0" or "DEBUG".
	Name string `toml:"name"`

	// Symbols are the preprocessor symbols defined for this configuration.
	Symbols []string `toml:"symbols,omitempty"`
}

// Defined returns the symbol set as a lookup map.
func (c Configuration) Defined() map[string]bool {
	defined := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		defined[s] = true
	}
	return defined
}

// FrameworksFile is the root structure of FRAMEWORKS.toml.
type FrameworksFile struct {
	// Version is the schema version.
	Version int `toml:"version"`

	// Configurations is the list of declared configurations.
	Configurations []Configuration `toml:"configuration"`
}

// ParseFrameworksFile parses a FRAMEWORKS.toml file from the given path.
func ParseFrameworksFile(filePath string) (*FrameworksFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read FRAMEWORKS.toml: %w", err)
	}

	var file FrameworksFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse FRAMEWORKS.toml: %w", err)
	}

	if file.Version < 1 {
		file.Version = 1
	}

	for i, cfg := range file.Configurations {
		if cfg.Name == "" {
			return nil, fmt.Errorf("configuration %d missing required 'name' field", i)
		}
	}

	return &file, nil
}

// LoadConfigurations loads declared configurations from FRAMEWORKS.toml
// under root if it exists. A missing file is not an error; it returns
// nil and the caller falls back to scanning the sources.
func LoadConfigurations(root, declarationFile string) ([]Configuration, error) {
	if declarationFile == "" {
		declarationFile = FrameworksDeclarationFile
	}

	filePath := filepath.Join(root, declarationFile)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}

	file, err := ParseFrameworksFile(filePath)
	if err != nil {
		return nil, err
	}
	return file.Configurations, nil
}

// ConfigurationsFromSymbols synthesizes configurations from scanned
// preprocessor symbols when no FRAMEWORKS.toml exists: one baseline
// configuration with nothing defined, plus one per symbol.
func ConfigurationsFromSymbols(symbols []string) []Configuration {
	if len(symbols) == 0 {
		return []Configuration{{Name: "default"}}
	}

	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)

	configs := make([]Configuration, 0, len(sorted)+1)
	configs = append(configs, Configuration{Name: "default"})
	for _, s := range sorted {
		configs = append(configs, Configuration{Name: s, Symbols: []string{s}})
	}
	return configs
}
