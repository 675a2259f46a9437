package shopping

import (
	"wellness-tracker/internal/catalog"
	"wellness-tracker/internal/planner"
)

// fallbackUnit labels ingredients that have no price entry.
const fallbackUnit = "each"

// GenerateGroceryList walks every day of the plan, expands the referenced
// recipes and sums the quantity of each ingredient, then prices the totals.
//
// It never fails: unknown recipes are skipped, quantities without a number
// count as 1 and unpriced ingredients get unit "each" and no cost. Each of
// those cases is reported as an Advisory without changing the items.
func GenerateGroceryList(plan *planner.MealPlan, prices catalog.Prices) Result {
	var res Result
	if plan == nil {
		return res
	}

	totals := make(map[string]float64)
	var order []string
	flagged := make(map[[2]string]bool)

	for _, phase := range plan.Phases {
		for _, day := range phase.Days {
			for _, name := range planner.RecipeRefs(day.Content) {
				recipe, ok := plan.Catalog.Lookup(name)
				if !ok {
					res.Advisories = append(res.Advisories, Advisory{
						Kind:   AdvisoryUnresolvedRecipe,
						Day:    day.Day,
						Recipe: name,
					})
					continue
				}

				for _, ingredient := range recipe.IngredientNames() {
					qty := recipe[ingredient]
					if qty.Fallback && !flagged[[2]string{name, ingredient}] {
						flagged[[2]string{name, ingredient}] = true
						res.Advisories = append(res.Advisories, Advisory{
							Kind:       AdvisoryUnparsableQuantity,
							Recipe:     name,
							Ingredient: ingredient,
						})
					}

					if _, seen := totals[ingredient]; !seen {
						order = append(order, ingredient)
					}
					totals[ingredient] += qty.Magnitude
				}
			}
		}
	}

	res.Items = make([]LineItem, 0, len(order))
	for _, name := range order {
		total := totals[name]
		info, ok := prices[name]
		if !ok {
			res.Items = append(res.Items, LineItem{Name: name, Qty: total, Unit: fallbackUnit})
			res.Advisories = append(res.Advisories, Advisory{Kind: AdvisoryMissingPrice, Ingredient: name})
			continue
		}

		cost := roundCents(info.Price * total)
		res.Items = append(res.Items, LineItem{
			Name:    name,
			Qty:     total,
			Unit:    info.Unit,
			EstCost: &cost,
		})
	}

	return res
}
