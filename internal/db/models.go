package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Author struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Ingredient struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount string    `json:"amount"`
	Unit   string    `json:"unit"`
	Notes  string    `json:"notes,omitempty"`
}

type Instruction struct {
	ID          uuid.UUID `json:"id"`
	StepNumber  int       `json:"stepNumber"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  uuid.UUID `json:"recipeId"`
	User      Author    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recipe is a stored recipe with its children and aggregates. Reviews is
// only populated by GetRecipe.
type Recipe struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	PrepTime      int           `json:"prepTime"`
	CookTime      int           `json:"cookTime"`
	Servings      int           `json:"servings"`
	Difficulty    string        `json:"difficulty"`
	Category      string        `json:"category"`
	Cuisine       string        `json:"cuisine"`
	Tags          []string      `json:"tags"`
	Calories      *float64      `json:"calories"`
	Protein       *float64      `json:"protein"`
	Carbs         *float64      `json:"carbs"`
	Fat           *float64      `json:"fat"`
	Author        Author        `json:"author"`
	Ingredients   []Ingredient  `json:"ingredients"`
	Instructions  []Instruction `json:"instructions"`
	Reviews       []Review      `json:"reviews,omitempty"`
	ReviewCount   int           `json:"reviewCount"`
	AverageRating float64       `json:"averageRating"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type IngredientParams struct {
	Name   string
	Amount string
	Unit   string
	Notes  string
}

type InstructionParams struct {
	StepNumber  int
	Description string
	ImageURL    string
}

type CreateRecipeParams struct {
	AuthorID     uuid.UUID
	Title        string
	Description  string
	ImageURL     string
	PrepTime     int
	CookTime     int
	Servings     int
	Difficulty   string
	Category     string
	Cuisine      string
	Tags         []string
	Calories     *float64
	Protein      *float64
	Carbs        *float64
	Fat          *float64
	Ingredients  []IngredientParams
	Instructions []InstructionParams
}

// UpdateRecipeParams carries a partial update. Nil scalar fields keep their
// stored value. Ingredients and Instructions replace the stored children
// only when non-nil.
type UpdateRecipeParams struct {
	Title        *string
	Description  *string
	ImageURL     *string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	Category     *string
	Cuisine      *string
	Tags         []string
	Calories     *float64
	Protein      *float64
	Carbs        *float64
	Fat          *float64
	Ingredients  []IngredientParams
	Instructions []InstructionParams
}

type ListRecipesParams struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type UpsertReviewParams struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Rating   int
	Comment  string
}
