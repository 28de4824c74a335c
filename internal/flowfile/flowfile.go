// Package flowfile loads flow definitions from YAML or JSON
// documents, for the CLI and for seeding stores.
package flowfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emberflow/emberflow/pkg/domain"
)

// Load reads a flow definition from path. The format follows the file
// extension: .yaml/.yml or .json.
func Load(path string) (*domain.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}

	var flow domain.Flow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &flow); err != nil {
			return nil, fmt.Errorf("failed to parse yaml flow %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &flow); err != nil {
			return nil, fmt.Errorf("failed to parse json flow %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported flow file extension: %s", filepath.Ext(path))
	}

	if flow.ID == "" {
		// Fall back to the file name so ad-hoc files stay runnable.
		flow.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(flow.Nodes) == 0 {
		return nil, fmt.Errorf("flow %s defines no nodes", flow.ID)
	}
	return &flow, nil
}
