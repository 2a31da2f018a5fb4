package menu

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed lunch.yaml
var lunchYAML []byte

var (
	// ErrEmptyKey is returned when a menu document contains an item without a key.
	ErrEmptyKey = errors.New("menu: item key is empty")

	// ErrNegativePrice is returned when an item price is below zero.
	ErrNegativePrice = errors.New("menu: item price is negative")
)

// DuplicateKeyError is returned when a menu document lists the same key twice.
type DuplicateKeyError struct{ Key string }

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	// Example: menu: duplicate item key "salad"
	return "menu: duplicate item key " + strconv.Quote(e.Key)
}

// document is the on-disk schema.
//
//	items:
//	  - key: salad
//	    name: Summer Salad
//	    price: "2.50"
//	    type: side
type document struct {
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Type        string `yaml:"type"`
}

// LoadYAML parses a menu document. Unknown fields are rejected.
// An empty document yields an empty catalog.
func LoadYAML(r io.Reader) (*MapCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMapCatalog(), nil
		}
		return nil, fmt.Errorf("menu: decode: %w", err)
	}

	cat := NewMapCatalog()
	for i, d := range doc.Items {
		it, err := d.item()
		if err != nil {
			return nil, fmt.Errorf("menu: item %d: %w", i, err)
		}
		if _, exists := cat.items[it.Key]; exists {
			return nil, DuplicateKeyError{Key: it.Key}
		}
		cat.Provide(it)
	}
	return cat, nil
}

// LoadFile reads a menu document from path.
func LoadFile(path string) (*MapCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("menu: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return LoadYAML(f)
}

// Default returns the built-in lunch menu.
func Default() *MapCatalog {
	cat, err := LoadYAML(bytes.NewReader(lunchYAML))
	if err != nil {
		// lunch.yaml ships with the binary; failing here is a build defect.
		panic(err)
	}
	return cat
}

func (d itemDoc) item() (Item, error) {
	key := strings.TrimSpace(d.Key)
	if key == "" {
		return Item{}, ErrEmptyKey
	}
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return Item{}, fmt.Errorf("price %q: %w", d.Price, err)
	}
	if price.IsNegative() {
		return Item{}, ErrNegativePrice
	}
	t, err := ParseType(strings.TrimSpace(d.Type))
	if err != nil {
		return Item{}, err
	}
	name := d.Name
	if name == "" {
		name = key
	}
	return Item{
		Key:         key,
		Name:        name,
		Description: d.Description,
		Price:       price,
		Type:        t,
	}, nil
}
