package shopping

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Cost is a USD amount rounded to cents. It serializes as a two-decimal
// string ("3.50").
type Cost float64

func roundCents(v float64) Cost {
	return Cost(math.Round(v*100) / 100)
}

func (c Cost) String() string {
	return strconv.FormatFloat(float64(c), 'f', 2, 64)
}

func (c Cost) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Cost) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid cost %q: %w", s, err)
		}
		*c = Cost(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid cost %s", data)
	}
	*c = Cost(v)
	return nil
}

// LineItem is one row of the grocery list.
type LineItem struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
	// EstCost is nil when the ingredient has no price.
	EstCost *Cost `json:"estCost"`
}

// AdvisoryKind classifies a data-quality note.
type AdvisoryKind string

const (
	AdvisoryUnresolvedRecipe   AdvisoryKind = "unresolved_recipe"
	AdvisoryUnparsableQuantity AdvisoryKind = "unparsable_quantity"
	AdvisoryMissingPrice       AdvisoryKind = "missing_price"
)

// Advisory is a non-fatal note produced while aggregating.
type Advisory struct {
	Kind       AdvisoryKind `json:"kind"`
	Day        int          `json:"day,omitempty"`
	Recipe     string       `json:"recipe,omitempty"`
	Ingredient string       `json:"ingredient,omitempty"`
}

func (a Advisory) String() string {
	switch a.Kind {
	case AdvisoryUnresolvedRecipe:
		return fmt.Sprintf("day %d: recipe %q not found in any catalog", a.Day, a.Recipe)
	case AdvisoryUnparsableQuantity:
		return fmt.Sprintf("recipe %q: quantity for %q has no number, counted as 1", a.Recipe, a.Ingredient)
	case AdvisoryMissingPrice:
		return fmt.Sprintf("ingredient %q has no price", a.Ingredient)
	default:
		return string(a.Kind)
	}
}

// Result is the output of GenerateGroceryList.
type Result struct {
	// Items are in first-encountered order.
	Items      []LineItem `json:"items"`
	Advisories []Advisory `json:"advisories,omitempty"`
}

// SortedByName returns a copy of the items ordered by ingredient name.
func (r Result) SortedByName() []LineItem {
	items := make([]LineItem, len(r.Items))
	copy(items, r.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// Item finds a line item by ingredient name.
func (r Result) Item(name string) (LineItem, bool) {
	for _, item := range r.Items {
		if item.Name == name {
			return item, true
		}
	}
	return LineItem{}, false
}

// Total sums the estimated cost of every priced item.
func (r Result) Total() Cost {
	var sum float64
	for _, item := range r.Items {
		if item.EstCost != nil {
			sum += float64(*item.EstCost)
		}
	}
	return roundCents(sum)
}

// Snapshot is a saved grocery list.
type Snapshot struct {
	ID        int64      `json:"id"`
	Items     []LineItem `json:"items"`
	Total     Cost       `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}
