package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// leadingNumber matches the longest numeric prefix of a quantity string:
// optional whitespace, an optional sign, a decimal and an optional exponent.
var leadingNumber = regexp.MustCompile(`^\s*[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// Quantity is a single ingredient requirement inside a recipe.
// Only Magnitude takes part in aggregation; UnitHint is informational.
type Quantity struct {
	Magnitude float64
	UnitHint  string
	// Fallback is set when no numeric token could be extracted and the
	// magnitude defaulted to 1.
	Fallback bool
	// Raw is the original string form, empty for bare numbers.
	Raw string
}

// Count returns a bare numeric quantity.
func Count(n float64) Quantity {
	return Quantity{Magnitude: n}
}

// ParseQuantity extracts the leading magnitude from strings such as
// "0.25 bunch", "1 inch" or "8 cups". A string without a leading number
// ("a pinch") yields a magnitude of 1 with Fallback set.
func ParseQuantity(raw string) Quantity {
	token := leadingNumber.FindString(raw)
	if token == "" {
		return Quantity{Magnitude: 1, UnitHint: strings.TrimSpace(raw), Fallback: true, Raw: raw}
	}

	magnitude, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		// Only reachable on overflow ("1e999").
		return Quantity{Magnitude: 1, UnitHint: strings.TrimSpace(raw), Fallback: true, Raw: raw}
	}

	return Quantity{
		Magnitude: magnitude,
		UnitHint:  strings.TrimSpace(raw[len(token):]),
		Raw:       raw,
	}
}

// String renders the quantity the way it was written in the catalog.
func (q Quantity) String() string {
	if q.Raw != "" {
		return q.Raw
	}
	return strconv.FormatFloat(q.Magnitude, 'f', -1, 64)
}

// UnmarshalYAML accepts either a YAML number or a quantity string.
func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: quantity must be a number or a string", node.Line)
	}

	switch node.Tag {
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid numeric quantity %q: %w", node.Line, node.Value, err)
		}
		*q = Count(n)
	default:
		*q = ParseQuantity(node.Value)
	}
	return nil
}

// UnmarshalJSON accepts either a JSON number or a quantity string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*q = Count(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("quantity must be a number or a string: %s", data)
	}
	*q = ParseQuantity(s)
	return nil
}

// MarshalJSON writes bare numbers back as numbers and everything else as
// the original string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Raw == "" {
		return json.Marshal(q.Magnitude)
	}
	return json.Marshal(q.Raw)
}
