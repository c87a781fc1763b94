package engine

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the static seed data the engine starts from.
type Catalog struct {
	Tests        []models.CognitiveTest   `yaml:"tests"`
	Achievements []models.Achievement     `yaml:"achievements"`
	Programs     []models.TrainingProgram `yaml:"programs"`
}

// ParseCatalog decodes and validates a YAML catalog. Programs without explicit
// test ids receive every catalog test of their focus area.
func ParseCatalog(raw []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Tests))
	for _, t := range c.Tests {
		if t.ID == "" {
			return Catalog{}, fmt.Errorf("test %q has no id", t.Name)
		}
		if !t.Category.Valid() {
			return Catalog{}, fmt.Errorf("test %s: unknown category %q", t.ID, t.Category)
		}
		if !t.Difficulty.Valid() {
			return Catalog{}, fmt.Errorf("test %s: unknown difficulty %q", t.ID, t.Difficulty)
		}
		if _, dup := seen[t.ID]; dup {
			return Catalog{}, fmt.Errorf("duplicate test id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	for _, a := range c.Achievements {
		if _, ok := achievementRules[a.Rule]; !ok {
			return Catalog{}, fmt.Errorf("achievement %s: unknown rule %q", a.ID, a.Rule)
		}
	}

	for i := range c.Programs {
		p := &c.Programs[i]
		if len(p.TestIDs) > 0 {
			continue
		}
		for _, t := range c.Tests {
			if t.Category == p.FocusArea {
				p.TestIDs = append(p.TestIDs, t.ID)
			}
		}
	}
	return c, nil
}

// DefaultCatalog returns the embedded catalog. It panics if the embedded file is malformed.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Test looks up a catalog test by id.
func (c Catalog) Test(id string) (models.CognitiveTest, bool) {
	for _, t := range c.Tests {
		if t.ID == id {
			return t, true
		}
	}
	return models.CognitiveTest{}, false
}
