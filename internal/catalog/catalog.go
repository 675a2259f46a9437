package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PriceInfo is the unit label and price per unit of one ingredient.
type PriceInfo struct {
	Unit  string  `yaml:"unit" json:"unit"`
	Price float64 `yaml:"price" json:"price"`
}

// Prices maps ingredient name to its price entry.
type Prices map[string]PriceInfo

// Recipe maps ingredient name to the quantity one serving needs.
type Recipe map[string]Quantity

// IngredientNames returns the recipe's ingredients in name order.
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recipes maps recipe name to recipe.
type Recipes map[string]Recipe

// Catalog bundles the static price, conversion and recipe tables.
// A Catalog is built once at startup and never mutated afterwards.
type Catalog struct {
	Prices Prices `yaml:"prices" json:"prices"`
	// Conversions is kept for reference; aggregation does not consult it.
	Conversions map[string]float64 `yaml:"conversions" json:"conversions"`
	Juices      Recipes            `yaml:"juices" json:"juices"`
	Rebuild     Recipes            `yaml:"rebuild" json:"rebuild"`
}

// Lookup resolves a recipe name against the juice catalog first and the
// rebuild catalog second.
func (c *Catalog) Lookup(name string) (Recipe, bool) {
	if c == nil {
		return nil, false
	}
	if r, ok := c.Juices[name]; ok {
		return r, true
	}
	if r, ok := c.Rebuild[name]; ok {
		return r, true
	}
	return nil, false
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	for name, info := range c.Prices {
		if info.Price < 0 {
			return nil, fmt.Errorf("ingredient %q has a negative price", name)
		}
		if info.Unit == "" {
			return nil, fmt.Errorf("ingredient %q has no unit", name)
		}
	}
	if c.Prices == nil {
		c.Prices = Prices{}
	}
	if c.Juices == nil {
		c.Juices = Recipes{}
	}
	if c.Rebuild == nil {
		c.Rebuild = Recipes{}
	}
	return &c, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}
