package recipe

import (
	"fmt"
	"strings"

	"github.com/socialchef/sous/internal/services/ai"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultCuisine = "International"

var fallbackIngredients = []Ingredient{
	{Name: "Olive oil", Amount: "2", Unit: "tbsp"},
	{Name: "Onion, diced", Amount: "1", Unit: "medium"},
	{Name: "Garlic, minced", Amount: "3", Unit: "cloves"},
	{Name: "Mixed veggies", Amount: "2", Unit: "cups", Notes: "fresh or frozen"},
	{Name: "Protein of choice", Amount: "300", Unit: "g", Notes: "tofu/chicken/beans"},
	{Name: "Salt", Amount: "1", Unit: "tsp", Notes: "to taste"},
	{Name: "Black pepper", Amount: "1/2", Unit: "tsp"},
}

var fallbackSteps = []string{
	"Heat olive oil in a pan over medium heat.",
	"Sauté onion until translucent, then add garlic and cook 30 seconds.",
	"Add protein and cook until done; season with salt and pepper.",
	"Stir in mixed veggies and cook until tender-crisp.",
	"Adjust seasoning and serve warm.",
}

// Synthesize builds a complete recipe from a title seed and whatever
// preferences the caller sent, without any network call. It cannot fail.
func Synthesize(seed string, prefs ai.Preferences) Draft {
	cuisine := strings.TrimSpace(prefs.Cuisine)

	servings := defaultServings
	if n, ok := prefs.Servings.Positive(); ok {
		servings = n
	}

	var tags []string
	if cuisine != "" {
		tags = append(tags, strings.ToLower(cuisine))
	}
	if diet := strings.TrimSpace(prefs.DietaryRestrictions); diet != "" {
		tags = append(tags, diet)
	}
	if tags == nil {
		tags = []string{}
	}

	displayCuisine := cuisine
	if displayCuisine == "" {
		displayCuisine = defaultCuisine
	}

	ingredients := make([]Ingredient, len(fallbackIngredients))
	copy(ingredients, fallbackIngredients)

	steps := make([]Instruction, 0, len(fallbackSteps))
	for i, s := range fallbackSteps {
		steps = append(steps, Instruction{StepNumber: i + 1, Description: s})
	}

	return Draft{
		Title:        SynthesizedTitle(seed),
		Description:  collapseSpaces(fmt.Sprintf("A tasty, easy-to-make %s dish generated as a fallback when AI is unavailable.", cuisine)),
		PrepTime:     defaultPrepTime,
		CookTime:     defaultCookTime,
		Servings:     servings,
		Difficulty:   NormalizeDifficulty(prefs.Difficulty),
		Category:     NormalizeCategory(prefs.Category),
		Cuisine:      displayCuisine,
		Tags:         tags,
		Calories:     420,
		Protein:      20,
		Carbs:        50,
		Fat:          15,
		Ingredients:  ingredients,
		Instructions: steps,
	}
}

// SynthesizedTitle trims and collapses whitespace in seed, title-cases each
// word and cuts the result to MaxTitleLength runes. A blank seed yields the
// placeholder title.
func SynthesizedTitle(seed string) string {
	s := collapseSpaces(seed)
	if s == "" {
		return PlaceholderTitle
	}
	s = cases.Title(language.Und).String(s)

	runes := []rune(s)
	if len(runes) > MaxTitleLength {
		s = strings.TrimSpace(string(runes[:MaxTitleLength]))
	}
	return s
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
