package domain

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Flavor is a sellable catalog entry
type Flavor struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Catalog is the read-only product lookup shared by all requests.
type Catalog struct {
	currency string
	flavors  map[string]Flavor
}

type catalogDocument struct {
	Currency string `yaml:"currency"`
	Flavors  map[string]struct {
		Name  string `yaml:"name"`
		Price string `yaml:"price"`
	} `yaml:"flavors"`
}

// LoadCatalog reads the catalog from path, or the built-in storefront
// catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(doc.Currency))
	if currency == "" {
		return nil, fmt.Errorf("catalog currency is required")
	}
	if len(doc.Flavors) == 0 {
		return nil, fmt.Errorf("catalog has no flavors")
	}

	flavors := make(map[string]Flavor, len(doc.Flavors))
	for id, entry := range doc.Flavors {
		// prices were historically written as "$15.00"
		price, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(entry.Price), "$"))
		if err != nil {
			return nil, fmt.Errorf("flavor %q: invalid price %q: %w", id, entry.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("flavor %q: price must not be negative", id)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("flavor %q: name is required", id)
		}
		flavors[id] = Flavor{ID: id, Name: entry.Name, Price: price}
	}

	return &Catalog{currency: currency, flavors: flavors}, nil
}

// Currency is the ISO 4217 code every catalog price is expressed in.
func (c *Catalog) Currency() string {
	return c.currency
}

func (c *Catalog) Lookup(id string) (Flavor, bool) {
	f, ok := c.flavors[id]
	return f, ok
}

// Flavors returns all entries ordered by ID.
func (c *Catalog) Flavors() []Flavor {
	out := make([]Flavor, 0, len(c.flavors))
	for _, f := range c.flavors {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
