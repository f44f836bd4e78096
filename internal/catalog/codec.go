package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses a stored document and checks it against the schema.
// Every failure wraps ErrStoreCorrupt.
func Decode(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrStoreCorrupt)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	c.normalize()
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate runs the schema checks applied at decode time.
func Validate(c *Catalog) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if _, dup := seen[cat.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %q", ErrStoreCorrupt, cat.ID)
		}
		seen[cat.ID] = struct{}{}
	}
	return nil
}

// Encode renders the document with two-space indentation, keeping non-ASCII text as is.
func Encode(c *Catalog) ([]byte, error) {
	if c == nil {
		c = Empty()
	}
	c.normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
