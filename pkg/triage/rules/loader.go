package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carelane/triage/pkg/triage/internalerr"
)

// Load reads and validates a rule catalog from a YAML file. A catalog
// that fails to parse or validate is a startup error; the engine must
// not serve without a valid catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document. Failures wrap
// internalerr.ErrInvalidConfig.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: parse rules: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if cat.Labels == nil {
		cat.Labels = map[string]LabelInfo{}
	}
	return &cat, nil
}
