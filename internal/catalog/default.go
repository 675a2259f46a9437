package catalog

// Default returns the built-in catalog. Each call builds a fresh value.
func Default() *Catalog {
	return &Catalog{
		Prices:      defaultPrices(),
		Conversions: defaultConversions(),
		Juices:      defaultJuices(),
		Rebuild:     defaultRebuild(),
	}
}

func defaultPrices() Prices {
	return Prices{
		"melon":           {Unit: "each", Price: 3.50},
		"mint":            {Unit: "bunch", Price: 1.50},
		"lime":            {Unit: "each", Price: 0.45},
		"lemon":           {Unit: "each", Price: 0.50},
		"cucumber":        {Unit: "each", Price: 0.80},
		"celery":          {Unit: "bunch", Price: 2.00},
		"kale":            {Unit: "bunch", Price: 2.50},
		"apple":           {Unit: "each", Price: 0.90},
		"carrot":          {Unit: "lb", Price: 1.20},
		"beet":            {Unit: "each", Price: 1.00},
		"ginger":          {Unit: "lb", Price: 4.00},
		"pineapple":       {Unit: "each", Price: 3.00},
		"coconut water":   {Unit: "qt", Price: 4.50},
		"turmeric":        {Unit: "oz", Price: 1.10},
		"spinach":         {Unit: "lb", Price: 3.00},
		"quinoa":          {Unit: "cup", Price: 0.90},
		"avocado":         {Unit: "each", Price: 1.50},
		"olive oil":       {Unit: "oz", Price: 0.40},
		"lentils":         {Unit: "cup", Price: 0.70},
		"vegetable broth": {Unit: "qt", Price: 3.25},
		"parsley":         {Unit: "bunch", Price: 1.25},
		"sweet potato":    {Unit: "lb", Price: 1.30},
		"broccoli":        {Unit: "lb", Price: 2.20},
		"berries":         {Unit: "cup", Price: 2.00},
		"almond milk":     {Unit: "qt", Price: 3.75},
		"zucchini":        {Unit: "each", Price: 0.95},
	}
}

func defaultConversions() map[string]float64 {
	return map[string]float64{
		"lbToG":    453.592,
		"ozToG":    28.3495,
		"cupToMl":  236.588,
		"qtToMl":   946.353,
		"qtToCups": 4,
	}
}

func defaultJuices() Recipes {
	return Recipes{
		"Melon Mint Morning": {
			"melon": Count(1),
			"mint":  ParseQuantity("0.5 bunch"),
			"lime":  Count(1),
		},
		"Green Glow": {
			"cucumber": Count(1),
			"celery":   ParseQuantity("0.5 bunch"),
			"kale":     ParseQuantity("0.25 bunch"),
			"apple":    Count(1),
			"lemon":    Count(1),
		},
		"Sunrise Roots": {
			"carrot": ParseQuantity("1 lb"),
			"beet":   Count(1),
			"apple":  Count(1),
			"ginger": ParseQuantity("1 inch"),
		},
		"Tropical Cleanse": {
			"pineapple":     ParseQuantity("0.5"),
			"coconut water": ParseQuantity("0.25 qt"),
			"mint":          ParseQuantity("0.25 bunch"),
			"lime":          Count(1),
		},
		"Spiced Lemonade": {
			"lemon":    Count(2),
			"turmeric": ParseQuantity("0.1 oz"),
			"cayenne":  ParseQuantity("a pinch"),
		},
	}
}

func defaultRebuild() Recipes {
	return Recipes{
		"Avocado Quinoa Bowl": {
			"quinoa":    ParseQuantity("1 cup"),
			"avocado":   Count(1),
			"spinach":   ParseQuantity("0.25 lb"),
			"lime":      Count(1),
			"olive oil": ParseQuantity("1 oz"),
		},
		"Lentil Veggie Soup": {
			"lentils":         ParseQuantity("1 cup"),
			"carrot":          ParseQuantity("0.5 lb"),
			"celery":          ParseQuantity("0.25 bunch"),
			"vegetable broth": ParseQuantity("8 cups"),
			"parsley":         ParseQuantity("0.25 bunch"),
		},
		"Roasted Sweet Potato Plate": {
			"sweet potato": ParseQuantity("1 lb"),
			"broccoli":     ParseQuantity("0.5 lb"),
			"olive oil":    ParseQuantity("1 oz"),
			"lemon":        Count(1),
		},
		"Berry Almond Smoothie": {
			"berries":     ParseQuantity("1 cup"),
			"almond milk": ParseQuantity("0.25 qt"),
			"spinach":     ParseQuantity("0.125 lb"),
		},
		"Zucchini Ribbon Salad": {
			"zucchini":  Count(2),
			"mint":      ParseQuantity("0.25 bunch"),
			"lemon":     Count(1),
			"olive oil": ParseQuantity("0.5 oz"),
		},
	}
}
