package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed taxonomy.json
var defaultTaxonomy []byte

// Taxonomy holds the closed value lists consumed by the core parser: the
// canonical display strings for methods, tags and categories, and the
// connective words kept lowercase by the title caser.
type Taxonomy struct {
	Methods     []string `json:"methods"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
	Connectives []string `json:"connectives"`
}

// LoadTaxonomy reads the taxonomy from path, or the embedded default when
// path is empty.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data := defaultTaxonomy
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read taxonomy file: %w", err)
		}
	}

	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate ensures every closed list has at least one entry.
func (t *Taxonomy) Validate() error {
	if len(t.Methods) == 0 {
		return fmt.Errorf("taxonomy: methods list is empty")
	}
	if len(t.Tags) == 0 {
		return fmt.Errorf("taxonomy: tags list is empty")
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("taxonomy: categories list is empty")
	}
	return nil
}
