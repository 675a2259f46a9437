package shopping

import (
	"encoding/json"
	"math"
	"testing"

	"wellness-tracker/internal/catalog"
	"wellness-tracker/internal/planner"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func melonCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Prices: catalog.Prices{
			"melon": {Unit: "each", Price: 3.50},
			"mint":  {Unit: "bunch", Price: 1.50},
			"lime":  {Unit: "each", Price: 0.45},
		},
		Juices: catalog.Recipes{
			"Melon Mint Morning": {
				"melon": catalog.Count(1),
				"mint":  catalog.ParseQuantity("0.5 bunch"),
				"lime":  catalog.Count(1),
			},
		},
		Rebuild: catalog.Recipes{},
	}
}

func planOf(cat *catalog.Catalog, days ...planner.DayContent) *planner.MealPlan {
	phase := planner.Phase{Name: "CLEANSE"}
	for i, c := range days {
		phase.Days = append(phase.Days, planner.PhaseDay{Day: i + 1, Content: c})
	}
	return &planner.MealPlan{Phases: []planner.Phase{phase}, Catalog: cat}
}

func cost(v float64) *Cost {
	c := Cost(v)
	return &c
}

var byName = cmpopts.SortSlices(func(a, b LineItem) bool { return a.Name < b.Name })

func TestGenerateGroceryList_MelonMintMorning(t *testing.T) {
	cat := melonCatalog()
	plan := planOf(cat, planner.Cleanse{Juices: []string{"Melon Mint Morning"}})

	res := GenerateGroceryList(plan, cat.Prices)

	want := []LineItem{
		{Name: "melon", Qty: 1, Unit: "each", EstCost: cost(3.50)},
		{Name: "mint", Qty: 0.5, Unit: "bunch", EstCost: cost(0.75)},
		{Name: "lime", Qty: 1, Unit: "each", EstCost: cost(0.45)},
	}
	if diff := cmp.Diff(want, res.Items, byName); diff != "" {
		t.Errorf("GenerateGroceryList() mismatch (-want +got):\n%s", diff)
	}
	if len(res.Advisories) != 0 {
		t.Errorf("Expected no advisories, got %v", res.Advisories)
	}

	// estCost renders as a two-decimal string.
	mint, _ := res.Item("mint")
	out, err := json.Marshal(mint)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(out) != `{"name":"mint","qty":0.5,"unit":"bunch","estCost":"0.75"}` {
		t.Errorf("Unexpected JSON: %s", out)
	}
	melon, _ := res.Item("melon")
	if melon.EstCost.String() != "3.50" {
		t.Errorf("Expected 3.50, got %s", melon.EstCost)
	}
}

func TestGenerateGroceryList_TwoDaysDouble(t *testing.T) {
	cat := melonCatalog()
	day := planner.Cleanse{Juices: []string{"Melon Mint Morning"}}

	single := GenerateGroceryList(planOf(cat, day), cat.Prices)
	double := GenerateGroceryList(planOf(cat, day, day), cat.Prices)

	for _, one := range single.Items {
		two, ok := double.Item(one.Name)
		if !ok {
			t.Fatalf("Expected %s in the two-day list", one.Name)
		}
		if two.Qty != 2*one.Qty {
			t.Errorf("%s: expected qty %v, got %v", one.Name, 2*one.Qty, two.Qty)
		}
		if float64(*two.EstCost) != math.Round(2*float64(*one.EstCost)*100)/100 {
			t.Errorf("%s: expected cost %v, got %v", one.Name, 2*float64(*one.EstCost), *two.EstCost)
		}
	}
	if double.Total() != 9.40 {
		t.Errorf("Expected total 9.40, got %s", double.Total())
	}
}

func TestGenerateGroceryList_UnknownMeal(t *testing.T) {
	cat := melonCatalog()
	plan := planOf(cat, planner.Rebuild{Meals: []string{"UnknownMeal"}})

	res := GenerateGroceryList(plan, cat.Prices)

	if len(res.Items) != 0 {
		t.Errorf("Expected no items, got %v", res.Items)
	}
	want := []Advisory{{Kind: AdvisoryUnresolvedRecipe, Day: 1, Recipe: "UnknownMeal"}}
	if diff := cmp.Diff(want, res.Advisories); diff != "" {
		t.Errorf("Advisories mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateGroceryList_UnknownRecipeDoesNotAlterOthers(t *testing.T) {
	cat := melonCatalog()
	base := GenerateGroceryList(planOf(cat, planner.Cleanse{Juices: []string{"Melon Mint Morning"}}), cat.Prices)
	mixed := GenerateGroceryList(planOf(cat, planner.Combined{
		Juices: []string{"Melon Mint Morning", "Ghost Juice"},
		Meals:  []string{"UnknownMeal"},
	}), cat.Prices)

	if diff := cmp.Diff(base.Items, mixed.Items, byName); diff != "" {
		t.Errorf("Unknown recipes changed the totals (-want +got):\n%s", diff)
	}
	if len(mixed.Advisories) != 2 {
		t.Errorf("Expected 2 unresolved advisories, got %v", mixed.Advisories)
	}
}

func TestGenerateGroceryList_Fallbacks(t *testing.T) {
	cat := &catalog.Catalog{
		Prices: catalog.Prices{"lemon": {Unit: "each", Price: 0.5}},
		Juices: catalog.Recipes{
			"Spicy": {
				"lemon":   catalog.Count(2),
				"cayenne": catalog.ParseQuantity("a pinch"),
				"saffron": catalog.ParseQuantity("3 threads"),
			},
		},
	}
	plan := planOf(cat,
		planner.Cleanse{Juices: []string{"Spicy"}},
		planner.Cleanse{Juices: []string{"Spicy"}},
	)

	res := GenerateGroceryList(plan, cat.Prices)

	t.Run("UnparsableCountsAsOne", func(t *testing.T) {
		item, ok := res.Item("cayenne")
		if !ok {
			t.Fatal("Expected cayenne in the list")
		}
		if item.Qty != 2 {
			t.Errorf("Expected 'a pinch' twice to total 2, got %v", item.Qty)
		}
	})

	t.Run("MissingPrice", func(t *testing.T) {
		for _, name := range []string{"cayenne", "saffron"} {
			item, _ := res.Item(name)
			if item.Unit != "each" {
				t.Errorf("%s: expected unit 'each', got %q", name, item.Unit)
			}
			if item.EstCost != nil {
				t.Errorf("%s: expected no cost, got %s", name, item.EstCost)
			}
		}
		saffron, _ := res.Item("saffron")
		if saffron.Qty != 6 {
			t.Errorf("Expected saffron qty 6, got %v", saffron.Qty)
		}
	})

	t.Run("Advisories", func(t *testing.T) {
		want := []Advisory{
			{Kind: AdvisoryUnparsableQuantity, Recipe: "Spicy", Ingredient: "cayenne"},
			{Kind: AdvisoryMissingPrice, Ingredient: "cayenne"},
			{Kind: AdvisoryMissingPrice, Ingredient: "saffron"},
		}
		if diff := cmp.Diff(want, res.Advisories); diff != "" {
			t.Errorf("Advisories mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("TotalSkipsUnpriced", func(t *testing.T) {
		if res.Total() != 2.00 {
			t.Errorf("Expected total 2.00, got %s", res.Total())
		}
	})
}

func TestGenerateGroceryList_Idempotent(t *testing.T) {
	cat := catalog.Default()
	plan := planner.Default(cat)

	first := GenerateGroceryList(plan, cat.Prices)
	second := GenerateGroceryList(plan, cat.Prices)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Repeated calls differ (-first +second):\n%s", diff)
	}
}

func TestGenerateGroceryList_SumsEveryOccurrence(t *testing.T) {
	cat := catalog.Default()
	plan := planner.Default(cat)

	want := make(map[string]float64)
	for _, day := range plan.Days() {
		for _, ref := range planner.RecipeRefs(day.Content) {
			recipe, ok := cat.Lookup(ref)
			if !ok {
				continue
			}
			for ingredient, q := range recipe {
				want[ingredient] += q.Magnitude
			}
		}
	}

	res := GenerateGroceryList(plan, cat.Prices)
	if len(res.Items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(res.Items))
	}
	for _, item := range res.Items {
		if math.Abs(item.Qty-want[item.Name]) > 1e-9 {
			t.Errorf("%s: expected qty %v, got %v", item.Name, want[item.Name], item.Qty)
		}
		if info, ok := cat.Prices[item.Name]; ok {
			if item.EstCost == nil || *item.EstCost != roundCents(info.Price*item.Qty) {
				t.Errorf("%s: expected cost %v, got %v", item.Name, roundCents(info.Price*item.Qty), item.EstCost)
			}
		}
	}
}

func TestGenerateGroceryList_NilInputs(t *testing.T) {
	if res := GenerateGroceryList(nil, nil); len(res.Items) != 0 {
		t.Errorf("Expected empty result for a nil plan, got %v", res.Items)
	}

	plan := planOf(nil, planner.Cleanse{Juices: []string{"Melon Mint Morning"}})
	res := GenerateGroceryList(plan, nil)
	if len(res.Items) != 0 || len(res.Advisories) != 1 {
		t.Errorf("Expected one unresolved advisory and no items, got %+v", res)
	}
}

func TestResultSortedByName(t *testing.T) {
	res := Result{Items: []LineItem{{Name: "mint"}, {Name: "apple"}, {Name: "kale"}}}

	sorted := res.SortedByName()
	got := []string{sorted[0].Name, sorted[1].Name, sorted[2].Name}
	if diff := cmp.Diff([]string{"apple", "kale", "mint"}, got); diff != "" {
		t.Errorf("SortedByName mismatch (-want +got):\n%s", diff)
	}
	if res.Items[0].Name != "mint" {
		t.Error("SortedByName must not reorder the original items")
	}
}
