package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCategory is the catch-all category.
	DefaultCategory = "Miscellaneous"
	// DefaultIcon is returned for categories missing from the registry.
	DefaultIcon = "plus-circle"
)

// Category maps an expense category name to its display icon.
type Category struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

//go:embed categories.yaml
var categoriesYAML []byte

var (
	registry      []Category
	registryIndex map[string]Category
)

func init() {
	cats, err := parseCategories(categoriesYAML)
	if err != nil {
		panic(err)
	}

	registry = cats
	registryIndex = make(map[string]Category, len(cats))
	for _, c := range cats {
		registryIndex[c.Name] = c
	}
}

func parseCategories(data []byte) ([]Category, error) {
	var cats []Category
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parsing category registry: %w", err)
	}

	for i, c := range cats {
		if c.Name == "" || c.Icon == "" {
			return nil, fmt.Errorf("category registry entry %d is incomplete", i)
		}
	}

	return cats, nil
}

// Categories returns the registry in display order.
func Categories() []Category {
	out := make([]Category, len(registry))
	copy(out, registry)
	return out
}

// LookupCategory finds a category by exact name.
func LookupCategory(name string) (Category, bool) {
	c, ok := registryIndex[name]
	return c, ok
}

// IconFor returns the icon of the named category, or DefaultIcon when the
// name is not registered.
func IconFor(name string) string {
	if c, ok := registryIndex[name]; ok {
		return c.Icon
	}
	return DefaultIcon
}
