package planner

import (
	"fmt"
	"os"

	"wellness-tracker/internal/catalog"

	"gopkg.in/yaml.v3"
)

type planFile struct {
	Phases []struct {
		Name string `yaml:"name"`
		Days []struct {
			Day    int      `yaml:"day"`
			Juices []string `yaml:"juices"`
			Meals  []string `yaml:"meals"`
			Note   string   `yaml:"note"`
		} `yaml:"days"`
	} `yaml:"phases"`
}

// Parse decodes a YAML plan and binds it to the given catalog.
func Parse(data []byte, cat *catalog.Catalog) (*MealPlan, error) {
	var f planFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}

	plan := &MealPlan{Catalog: cat}
	for _, fp := range f.Phases {
		phase := Phase{Name: fp.Name}
		for _, fd := range fp.Days {
			phase.Days = append(phase.Days, PhaseDay{
				Day:     fd.Day,
				Content: ContentFor(fd.Juices, fd.Meals),
				Note:    fd.Note,
			})
		}
		plan.Phases = append(plan.Phases, phase)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid meal plan: %w", err)
	}
	return plan, nil
}

// LoadFile reads a YAML plan from disk.
func LoadFile(path string, cat *catalog.Catalog) (*MealPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read meal plan file: %w", err)
	}
	return Parse(data, cat)
}

// Default returns the built-in FAST / CLEANSE / REBUILD plan.
func Default(cat *catalog.Catalog) *MealPlan {
	return &MealPlan{
		Catalog: cat,
		Phases: []Phase{
			{
				Name: "FAST",
				Days: []PhaseDay{
					{Day: 1, Content: Fasting{}},
					{Day: 2, Content: Fasting{}},
				},
			},
			{
				Name: "CLEANSE",
				Days: []PhaseDay{
					{Day: 3, Content: Cleanse{Juices: []string{"Melon Mint Morning", "Green Glow", "Sunrise Roots"}}},
					{Day: 4, Content: Cleanse{Juices: []string{"Green Glow", "Tropical Cleanse", "Spiced Lemonade"}}},
					{Day: 5, Content: Cleanse{Juices: []string{"Melon Mint Morning", "Sunrise Roots", "Green Glow"}}},
					{Day: 6, Content: Cleanse{Juices: []string{"Tropical Cleanse", "Green Glow", "Spiced Lemonade"}}},
					{Day: 7, Content: Cleanse{Juices: []string{"Melon Mint Morning", "Green Glow", "Sunrise Roots"}}},
				},
			},
			{
				Name: "REBUILD",
				Days: []PhaseDay{
					{Day: 8, Content: Rebuild{Meals: []string{"Berry Almond Smoothie", "Lentil Veggie Soup"}}},
					{Day: 9, Content: Rebuild{Meals: []string{"Berry Almond Smoothie", "Avocado Quinoa Bowl", "Lentil Veggie Soup"}}},
					{Day: 10, Content: Rebuild{Meals: []string{"Zucchini Ribbon Salad", "Roasted Sweet Potato Plate"}}},
				},
			},
		},
	}
}
