package shoppinglist

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// ErrInvalidSeed is returned when a seed document contains an unusable entry.
var ErrInvalidSeed = errors.New("invalid seed item")

// SeedItem is one entry of a seed document.
type SeedItem struct {
	Name      string  `yaml:"name"`
	Quantity  int     `yaml:"quantity"`
	Notes     *string `yaml:"notes,omitempty"`
	Purchased bool    `yaml:"purchased,omitempty"`
}

type seedDocument struct {
	Items []SeedItem `yaml:"items"`
}

// DemoItems returns the embedded demonstration items.
func DemoItems() ([]SeedItem, error) {
	items, err := LoadSeed(bytes.NewReader(demoYAML))
	if err != nil {
		return nil, fmt.Errorf("load demo items: %w", err)
	}
	return items, nil
}

// LoadSeedFile reads a YAML seed document from path.
func LoadSeedFile(path string) ([]SeedItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	items, err := LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}
	return items, nil
}

// LoadSeed parses a YAML seed document of the form
//
//	items:
//	  - name: Milk
//	    quantity: 2
//	    notes: Lactose-free
//	    purchased: false
//
// An empty document yields no items.
func LoadSeed(r io.Reader) ([]SeedItem, error) {
	var doc seedDocument

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []SeedItem{}, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	for i, item := range doc.Items {
		if item.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidSeed, i)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: entry %d has negative quantity", ErrInvalidSeed, i)
		}
	}

	if doc.Items == nil {
		return []SeedItem{}, nil
	}
	return doc.Items, nil
}
