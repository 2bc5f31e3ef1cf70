package chef

import (
	"strings"

	"kitchen-assistant/internal/recipe"
)

// mockModel is reported as the model name for mock generations.
const mockModel = "mock"

var mockKeywords = []string{"breakfast", "dessert", "soup", "salad"}

var mockRecipes = map[string]recipe.Draft{
	"pasta": {
		Title:         "Simple Garlic Pasta",
		Description:   "A quick and easy pasta dish with garlic and olive oil.",
		EstimatedTime: "20 minutes",
		Ingredients: []string{
			"8 oz pasta",
			"4 cloves garlic, minced",
			"1/4 cup olive oil",
			"1/4 cup grated Parmesan cheese",
			"Red pepper flakes (optional)",
			"Salt and pepper to taste",
		},
		Procedure: "1. Cook pasta according to package instructions.\n2. While pasta cooks, heat olive oil in a pan over medium heat.\n3. Add minced garlic and cook until fragrant, about 1 minute.\n4. Drain pasta and add to the pan with garlic oil.\n5. Toss to coat, then add Parmesan, salt, pepper, and red pepper flakes if using.\n6. Serve immediately.",
	},
	"breakfast": {
		Title:         "Quick Breakfast Scramble",
		Description:   "A nutritious breakfast scramble that's ready in minutes.",
		EstimatedTime: "15 minutes",
		Ingredients: []string{
			"4 eggs",
			"1/4 cup milk",
			"1/2 cup diced vegetables (bell peppers, onions, spinach)",
			"1/4 cup shredded cheese",
			"Salt and pepper to taste",
		},
		Procedure: "1. Whisk eggs and milk together in a bowl.\n2. Heat a non-stick pan over medium heat.\n3. Add diced vegetables and cook until softened, about 2 minutes.\n4. Pour egg mixture over vegetables and scramble until eggs are cooked through.\n5. Sprinkle cheese on top and let melt.\n6. Season with salt and pepper and serve hot.",
	},
	"dessert": {
		Title:         "Easy Fruit Crumble",
		Description:   "A simple fruit crumble that works with almost any fruit.",
		EstimatedTime: "45 minutes",
		Ingredients: []string{
			"2 cups mixed berries or diced fruit",
			"1/4 cup sugar",
			"1 cup rolled oats",
			"1/2 cup flour",
			"1/2 cup brown sugar",
			"1/2 cup cold butter, diced",
			"1 tsp cinnamon",
		},
		Procedure: "1. Preheat oven to 350°F (175°C).\n2. Place fruit in a baking dish and sprinkle with sugar.\n3. In a bowl, mix oats, flour, brown sugar, and cinnamon.\n4. Cut in butter until mixture is crumbly.\n5. Sprinkle oat mixture over fruit.\n6. Bake for 30-35 minutes until golden and bubbly.\n7. Let cool slightly before serving.",
	},
	"soup": {
		Title:         "Simple Vegetable Soup",
		Description:   "A hearty vegetable soup that's perfect for any season.",
		EstimatedTime: "30 minutes",
		Ingredients: []string{
			"1 onion, diced",
			"2 carrots, diced",
			"2 celery stalks, diced",
			"2 cloves garlic, minced",
			"4 cups vegetable broth",
			"1 can diced tomatoes",
			"1 cup mixed vegetables",
			"1 tsp dried herbs (thyme, rosemary, oregano)",
			"Salt and pepper to taste",
		},
		Procedure: "1. Heat oil in a large pot over medium heat.\n2. Add onion, carrots, and celery. Cook until softened, about 5 minutes.\n3. Add garlic and cook for 1 minute more.\n4. Pour in broth and tomatoes, then add mixed vegetables and herbs.\n5. Bring to a boil, then reduce heat and simmer for 15-20 minutes.\n6. Season with salt and pepper before serving.",
	},
	"salad": {
		Title:         "Quick Mediterranean Salad",
		Description:   "A refreshing salad with Mediterranean flavors.",
		EstimatedTime: "15 minutes",
		Ingredients: []string{
			"2 cups mixed greens",
			"1 cucumber, diced",
			"1 cup cherry tomatoes, halved",
			"1/2 red onion, thinly sliced",
			"1/2 cup feta cheese, crumbled",
			"1/4 cup kalamata olives",
			"2 tbsp olive oil",
			"1 tbsp lemon juice",
			"1 tsp dried oregano",
			"Salt and pepper to taste",
		},
		Procedure: "1. Combine mixed greens, cucumber, tomatoes, red onion, feta, and olives in a large bowl.\n2. In a small bowl, whisk together olive oil, lemon juice, oregano, salt, and pepper.\n3. Pour dressing over salad and toss gently to combine.\n4. Serve immediately.",
	},
}

// MockDraft picks a canned recipe by the first keyword found in the user
// prompt, checked in a fixed order. Pasta is the default.
func MockDraft(userPrompt string) recipe.Draft {
	kind := "pasta"
	lower := strings.ToLower(userPrompt)
	for _, kw := range mockKeywords {
		if strings.Contains(lower, kw) {
			kind = kw
			break
		}
	}

	d := mockRecipes[kind]
	d.Ingredients = append([]string(nil), d.Ingredients...)
	return d
}
