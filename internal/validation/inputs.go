package validation

import (
	"strings"

	"github.com/socialchef/sous/internal/services/recipe"
)

type IngredientInput struct {
	Name   string `json:"name" validate:"required,max=200,no_markup"`
	Amount string `json:"amount" validate:"max=50"`
	Unit   string `json:"unit" validate:"max=50"`
	Notes  string `json:"notes" validate:"max=500"`
}

type InstructionInput struct {
	StepNumber  int    `json:"stepNumber" validate:"gt=0"`
	Description string `json:"description" validate:"required,max=2000"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

// RecipeInput is the body of a recipe create request.
type RecipeInput struct {
	Title        string             `json:"title" validate:"required,max=200,no_markup"`
	Description  string             `json:"description" validate:"max=2000"`
	ImageURL     string             `json:"imageUrl" validate:"omitempty,url"`
	PrepTime     int                `json:"prepTime" validate:"gte=0,lte=10000"`
	CookTime     int                `json:"cookTime" validate:"gte=0,lte=10000"`
	Servings     int                `json:"servings" validate:"gt=0,lte=10000"`
	Difficulty   string             `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
	Category     string             `json:"category" validate:"required,recipe_category"`
	Cuisine      string             `json:"cuisine" validate:"max=100"`
	Tags         []string           `json:"tags" validate:"max=20,dive,max=50"`
	Calories     *float64           `json:"calories" validate:"omitempty,gte=0"`
	Protein      *float64           `json:"protein" validate:"omitempty,gte=0"`
	Carbs        *float64           `json:"carbs" validate:"omitempty,gte=0"`
	Fat          *float64           `json:"fat" validate:"omitempty,gte=0"`
	Ingredients  []IngredientInput  `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []InstructionInput `json:"instructions" validate:"required,min=1,dive"`
}

// RecipeUpdateInput is the body of a partial recipe update. Absent fields
// are nil and left unchanged.
type RecipeUpdateInput struct {
	Title        *string            `json:"title" validate:"omitempty,min=1,max=200,no_markup"`
	Description  *string            `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string            `json:"imageUrl" validate:"omitempty,url"`
	PrepTime     *int               `json:"prepTime" validate:"omitempty,gte=0,lte=10000"`
	CookTime     *int               `json:"cookTime" validate:"omitempty,gte=0,lte=10000"`
	Servings     *int               `json:"servings" validate:"omitempty,gt=0,lte=10000"`
	Difficulty   *string            `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Category     *string            `json:"category" validate:"omitempty,recipe_category"`
	Cuisine      *string            `json:"cuisine" validate:"omitempty,max=100"`
	Tags         []string           `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Calories     *float64           `json:"calories" validate:"omitempty,gte=0"`
	Protein      *float64           `json:"protein" validate:"omitempty,gte=0"`
	Carbs        *float64           `json:"carbs" validate:"omitempty,gte=0"`
	Fat          *float64           `json:"fat" validate:"omitempty,gte=0"`
	Ingredients  []IngredientInput  `json:"ingredients" validate:"omitempty,min=1,dive"`
	Instructions []InstructionInput `json:"instructions" validate:"omitempty,min=1,dive"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (in *RecipeInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Difficulty = string(recipe.NormalizeDifficulty(in.Difficulty))
	in.Category = string(recipe.NormalizeCategory(in.Category))
	in.Cuisine = strings.TrimSpace(in.Cuisine)
	for i := range in.Ingredients {
		in.Ingredients[i].Name = strings.TrimSpace(in.Ingredients[i].Name)
	}
	for i := range in.Instructions {
		in.Instructions[i].Description = strings.TrimSpace(in.Instructions[i].Description)
	}
}

func (in *RecipeUpdateInput) trim() {
	for _, p := range []*string{in.Title, in.Description, in.Cuisine} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if in.Difficulty != nil {
		*in.Difficulty = string(recipe.NormalizeDifficulty(*in.Difficulty))
	}
	if in.Category != nil {
		*in.Category = string(recipe.NormalizeCategory(*in.Category))
	}
	for i := range in.Ingredients {
		in.Ingredients[i].Name = strings.TrimSpace(in.Ingredients[i].Name)
	}
	for i := range in.Instructions {
		in.Instructions[i].Description = strings.TrimSpace(in.Instructions[i].Description)
	}
}

// Recipe trims and validates a create request in place. Unknown difficulty
// and category values are replaced by their defaults, not rejected.
func Recipe(in *RecipeInput) error {
	in.trim()
	return Struct(in, "Invalid recipe data", "INVALID_RECIPE")
}

// RecipeUpdate trims and validates a partial update in place.
func RecipeUpdate(in *RecipeUpdateInput) error {
	in.trim()
	return Struct(in, "Invalid recipe data", "INVALID_RECIPE")
}

func Review(in *ReviewInput) error {
	in.Comment = strings.TrimSpace(in.Comment)
	return Struct(in, "Rating must be between 1 and 5", "INVALID_REVIEW")
}
