package planner

import (
	"encoding/json"
	"errors"
	"fmt"

	"wellness-tracker/internal/catalog"
)

// ErrUnknownDay is returned when a day number is not part of the plan.
var ErrUnknownDay = errors.New("unknown plan day")

// DayContent describes what a day of the plan consumes. It is one of
// Fasting, Cleanse, Rebuild or Combined.
type DayContent interface {
	dayContent()
}

// Fasting is a day without recipes.
type Fasting struct{}

// Cleanse is a juice day.
type Cleanse struct {
	Juices []string
}

// Rebuild is a day of rebuild meals.
type Rebuild struct {
	Meals []string
}

// Combined is a day referencing both juices and meals.
type Combined struct {
	Juices []string
	Meals  []string
}

func (Fasting) dayContent()  {}
func (Cleanse) dayContent()  {}
func (Rebuild) dayContent()  {}
func (Combined) dayContent() {}

// ContentFor picks the variant matching which reference lists are populated.
func ContentFor(juices, meals []string) DayContent {
	switch {
	case len(juices) > 0 && len(meals) > 0:
		return Combined{Juices: juices, Meals: meals}
	case len(juices) > 0:
		return Cleanse{Juices: juices}
	case len(meals) > 0:
		return Rebuild{Meals: meals}
	default:
		return Fasting{}
	}
}

// RecipeRefs returns the recipe names a day references, juices before meals.
func RecipeRefs(c DayContent) []string {
	switch c := c.(type) {
	case nil, Fasting:
		return nil
	case Cleanse:
		return c.Juices
	case Rebuild:
		return c.Meals
	case Combined:
		refs := make([]string, 0, len(c.Juices)+len(c.Meals))
		refs = append(refs, c.Juices...)
		return append(refs, c.Meals...)
	default:
		panic(fmt.Sprintf("planner: unhandled day content %T", c))
	}
}

// Kind names the variant for display and serialization.
func Kind(c DayContent) string {
	switch c.(type) {
	case nil, Fasting:
		return "fasting"
	case Cleanse:
		return "cleanse"
	case Rebuild:
		return "rebuild"
	case Combined:
		return "combined"
	default:
		panic(fmt.Sprintf("planner: unhandled day content %T", c))
	}
}

// PhaseDay is a single day of the plan.
type PhaseDay struct {
	Day     int
	Content DayContent
	Note    string
}

type phaseDayJSON struct {
	Day    int      `json:"day"`
	Kind   string   `json:"kind"`
	Juices []string `json:"juices,omitempty"`
	Meals  []string `json:"meals,omitempty"`
	Note   string   `json:"note"`
}

// MarshalJSON flattens the content variant into juices/meals fields.
func (d PhaseDay) MarshalJSON() ([]byte, error) {
	juices, meals := Lists(d.Content)
	return json.Marshal(phaseDayJSON{
		Day:    d.Day,
		Kind:   Kind(d.Content),
		Juices: juices,
		Meals:  meals,
		Note:   d.Note,
	})
}

// Lists returns the juice and meal reference lists of c separately.
func Lists(c DayContent) (juices, meals []string) {
	switch c := c.(type) {
	case Cleanse:
		return c.Juices, nil
	case Rebuild:
		return nil, c.Meals
	case Combined:
		return c.Juices, c.Meals
	}
	return nil, nil
}

// Phase is a named stage of the plan.
type Phase struct {
	Name string     `json:"name"`
	Days []PhaseDay `json:"days"`
}

// MealPlan is the ordered list of phases plus the recipe catalog the days
// refer to. It is read-only once built.
type MealPlan struct {
	Phases  []Phase          `json:"phases"`
	Catalog *catalog.Catalog `json:"-"`
}

// DayRef locates a day inside its phase.
type DayRef struct {
	Phase string
	PhaseDay
}

// Days flattens the plan in display order.
func (p *MealPlan) Days() []DayRef {
	var refs []DayRef
	for _, phase := range p.Phases {
		for _, day := range phase.Days {
			refs = append(refs, DayRef{Phase: phase.Name, PhaseDay: day})
		}
	}
	return refs
}

// Day finds a day by number.
func (p *MealPlan) Day(n int) (DayRef, error) {
	for _, phase := range p.Phases {
		for _, day := range phase.Days {
			if day.Day == n {
				return DayRef{Phase: phase.Name, PhaseDay: day}, nil
			}
		}
	}
	return DayRef{}, fmt.Errorf("%w: %d", ErrUnknownDay, n)
}

// Validate checks that day numbers are positive and unique across phases.
func (p *MealPlan) Validate() error {
	seen := make(map[int]string)
	for _, phase := range p.Phases {
		if phase.Name == "" {
			return fmt.Errorf("phase without a name")
		}
		for _, day := range phase.Days {
			if day.Day <= 0 {
				return fmt.Errorf("phase %s: day number must be positive, got %d", phase.Name, day.Day)
			}
			if other, ok := seen[day.Day]; ok {
				return fmt.Errorf("day %d appears in both %s and %s", day.Day, other, phase.Name)
			}
			seen[day.Day] = phase.Name
		}
	}
	return nil
}
