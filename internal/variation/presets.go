package variation

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Category is a named style with its pool of generation instructions. One
// instruction is chosen uniformly at random per request.
type Category struct {
	Name         string   `yaml:"name"`
	Label        string   `yaml:"label"`
	Instructions []string `yaml:"instructions"`
}

// Catalog is the per-category instruction presets for ad-creative variations.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCatalog parses the embedded preset document.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultPresets)
}

// LoadCatalog reads presets from a YAML file, falling back to the embedded
// defaults when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("variation: read presets: %w", err)
	}
	return parseCatalog(raw)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("variation: parse presets: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("variation: presets define no categories")
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("variation: preset category without a name")
		}
		if _, dup := seen[cat.Name]; dup {
			return nil, fmt.Errorf("variation: duplicate preset category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if len(cat.Instructions) == 0 {
			return nil, fmt.Errorf("variation: preset category %q has no instructions", cat.Name)
		}
	}
	return &c, nil
}

// Category looks a category up by name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Names lists the category names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat.Name
	}
	return out
}

// RandomInstruction picks one instruction uniformly from the named category.
func (c *Catalog) RandomInstruction(name string) (string, error) {
	cat, ok := c.Category(name)
	if !ok {
		return "", fmt.Errorf("variation: unknown category %q", name)
	}
	return cat.Instructions[rand.Intn(len(cat.Instructions))], nil
}

// SampleCategories picks up to n distinct categories uniformly without
// replacement.
func (c *Catalog) SampleCategories(n int) []Category {
	if n > len(c.Categories) {
		n = len(c.Categories)
	}
	idx := rand.Perm(len(c.Categories))[:n]
	out := make([]Category, n)
	for i, j := range idx {
		out[i] = c.Categories[j]
	}
	return out
}
