package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mlsvc/pkg/types"
)

// registryFile is the on-disk shape of a registry override.
type registryFile struct {
	Models []types.ModelInfo `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads a model registry from a YAML, JSON or TOML file.
// The file must contain a top-level "models" list with at least one entry;
// each entry needs a non-empty id, type and version.
func LoadFile(path string) ([]types.ModelInfo, error) {
	base, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(base)
	if err != nil {
		return nil, err
	}
	var rf registryFile
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &rf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &rf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &rf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry extension: %s", ext)
	}
	if len(rf.Models) == 0 {
		return nil, fmt.Errorf("registry file %s contains no models", base)
	}
	for i, m := range rf.Models {
		if m.ID == "" || m.Type == "" || m.Version == "" {
			return nil, fmt.Errorf("registry entry %d: id, type and version are required", i)
		}
	}
	return rf.Models, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
