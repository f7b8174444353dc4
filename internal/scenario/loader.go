package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/valuation"
)

// presetFile is the on-disk form of a scenario. When Extends names a built-in
// preset, its parameters are the starting point and the file only overrides the
// groups and fields it sets.
type presetFile struct {
	Extends         string `yaml:"extends"`
	models.Scenario `yaml:",inline"`
}

// LoadFile reads a single scenario YAML file.
func LoadFile(path string) (models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Scenario{}, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (models.Scenario, error) {
	var head struct {
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return models.Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}

	var file presetFile
	if head.Extends != "" {
		parent, ok := Lookup(head.Extends)
		if !ok {
			return models.Scenario{}, fmt.Errorf("extends %q: %w", head.Extends, models.ErrScenarioNotFound)
		}
		file.Params = parent.Params
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := valuation.ValidateScenario(file.Scenario); err != nil {
		return models.Scenario{}, err
	}
	return file.Scenario, nil
}

// LoadDir returns the built-in presets merged with every *.yaml / *.yml file in
// dir. A file whose id matches a preset replaces it; new ids are appended in
// file name order. An empty dir returns the presets alone.
func LoadDir(dir string) ([]models.Scenario, error) {
	scenarios := Presets()
	if dir == "" {
		return scenarios, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	index := make(map[string]int, len(scenarios))
	for i, s := range scenarios {
		index[s.ID] = i
	}

	for _, name := range names {
		s, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if i, ok := index[s.ID]; ok {
			scenarios[i] = s
			continue
		}
		index[s.ID] = len(scenarios)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
