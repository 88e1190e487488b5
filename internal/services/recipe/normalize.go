package recipe

import "strings"

const (
	PlaceholderTitle = "Chef's Special"
	MaxTitleLength   = 60

	defaultServings = 4
	defaultPrepTime = 15
	defaultCookTime = 20
)

// NormalizeDifficulty maps raw input onto the difficulty enum. Anything that
// is not MEDIUM or HARD, case-insensitively, becomes EASY.
func NormalizeDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(raw))) {
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// NormalizeCategory maps raw input onto the category enum with DINNER as the
// default.
func NormalizeCategory(raw string) Category {
	v := Category(strings.ToUpper(strings.TrimSpace(raw)))
	for _, c := range Categories {
		if c == v {
			return c
		}
	}
	return CategoryDinner
}

// Normalize coerces a draft into the shape the rest of the service relies
// on: enums from the fixed sets, a title, positive counts, and instructions
// numbered 1..N in their given order with blank steps removed.
func Normalize(d *Draft) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		d.Title = PlaceholderTitle
	}
	d.Difficulty = NormalizeDifficulty(string(d.Difficulty))
	d.Category = NormalizeCategory(string(d.Category))

	if d.Servings <= 0 {
		d.Servings = defaultServings
	}
	if d.PrepTime <= 0 {
		d.PrepTime = defaultPrepTime
	}
	if d.CookTime <= 0 {
		d.CookTime = defaultCookTime
	}

	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	d.Tags = tags

	ingredients := make([]Ingredient, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if strings.TrimSpace(ing.Name) != "" {
			ingredients = append(ingredients, ing)
		}
	}
	d.Ingredients = ingredients

	d.Instructions = NumberSteps(d.Instructions)
}

// NumberSteps drops blank instructions and renumbers the rest from 1.
func NumberSteps(steps []Instruction) []Instruction {
	out := make([]Instruction, 0, len(steps))
	for _, s := range steps {
		desc := strings.TrimSpace(s.Description)
		if desc == "" {
			continue
		}
		out = append(out, Instruction{StepNumber: len(out) + 1, Description: desc})
	}
	return out
}
