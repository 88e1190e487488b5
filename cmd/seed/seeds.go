package main

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/socialchef/sous/internal/db"
)

//go:embed recipes.yaml
var seedRecipes []byte

type seedIngredient struct {
	Name   string `yaml:"name"`
	Amount string `yaml:"amount"`
	Unit   string `yaml:"unit"`
	Notes  string `yaml:"notes"`
}

type seedRecipe struct {
	Title        string           `yaml:"title"`
	Description  string           `yaml:"description"`
	PrepTime     int              `yaml:"prep_time"`
	CookTime     int              `yaml:"cook_time"`
	Servings     int              `yaml:"servings"`
	Difficulty   string           `yaml:"difficulty"`
	Category     string           `yaml:"category"`
	Cuisine      string           `yaml:"cuisine"`
	Tags         []string         `yaml:"tags"`
	Calories     *float64         `yaml:"calories"`
	Protein      *float64         `yaml:"protein"`
	Carbs        *float64         `yaml:"carbs"`
	Fat          *float64         `yaml:"fat"`
	Ingredients  []seedIngredient `yaml:"ingredients"`
	Instructions []string         `yaml:"instructions"`
}

// loadSeeds decodes the seed file into create params owned by authorID.
// Instructions are numbered in file order.
func loadSeeds(data []byte, authorID uuid.UUID) ([]db.CreateRecipeParams, error) {
	var recipes []seedRecipe
	if err := yaml.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode seed recipes: %w", err)
	}

	out := make([]db.CreateRecipeParams, 0, len(recipes))
	for i, r := range recipes {
		if r.Title == "" || len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
			return nil, fmt.Errorf("seed recipe %d is incomplete", i)
		}

		p := db.CreateRecipeParams{
			AuthorID:    authorID,
			Title:       r.Title,
			Description: r.Description,
			PrepTime:    r.PrepTime,
			CookTime:    r.CookTime,
			Servings:    r.Servings,
			Difficulty:  r.Difficulty,
			Category:    r.Category,
			Cuisine:     r.Cuisine,
			Tags:        r.Tags,
			Calories:    r.Calories,
			Protein:     r.Protein,
			Carbs:       r.Carbs,
			Fat:         r.Fat,
		}
		for _, ing := range r.Ingredients {
			p.Ingredients = append(p.Ingredients, db.IngredientParams(ing))
		}
		for n, step := range r.Instructions {
			p.Instructions = append(p.Instructions, db.InstructionParams{StepNumber: n + 1, Description: step})
		}
		out = append(out, p)
	}
	return out, nil
}
