package api

import (
	"github.com/google/uuid"

	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/services/recipe"
	"github.com/socialchef/sous/internal/validation"
)

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}

func optionalFloat(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// draftParams maps a generated draft onto a create. Zero nutrition values
// are stored as unknown.
func draftParams(d recipe.Draft, authorID uuid.UUID) db.CreateRecipeParams {
	p := db.CreateRecipeParams{
		AuthorID:    authorID,
		Title:       d.Title,
		Description: d.Description,
		PrepTime:    d.PrepTime,
		CookTime:    d.CookTime,
		Servings:    d.Servings,
		Difficulty:  string(d.Difficulty),
		Category:    string(d.Category),
		Cuisine:     d.Cuisine,
		Tags:        d.Tags,
		Calories:    optionalFloat(d.Calories),
		Protein:     optionalFloat(d.Protein),
		Carbs:       optionalFloat(d.Carbs),
		Fat:         optionalFloat(d.Fat),
	}
	for _, ing := range d.Ingredients {
		p.Ingredients = append(p.Ingredients, db.IngredientParams{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Notes:  ing.Notes,
		})
	}
	for _, st := range d.Instructions {
		p.Instructions = append(p.Instructions, db.InstructionParams{
			StepNumber:  st.StepNumber,
			Description: st.Description,
		})
	}
	return p
}

func ingredientParams(in []validation.IngredientInput) []db.IngredientParams {
	if in == nil {
		return nil
	}
	out := make([]db.IngredientParams, 0, len(in))
	for _, ing := range in {
		out = append(out, db.IngredientParams(ing))
	}
	return out
}

func instructionParams(in []validation.InstructionInput) []db.InstructionParams {
	if in == nil {
		return nil
	}
	out := make([]db.InstructionParams, 0, len(in))
	for _, st := range in {
		out = append(out, db.InstructionParams(st))
	}
	return out
}

func createParams(in validation.RecipeInput, authorID uuid.UUID) db.CreateRecipeParams {
	return db.CreateRecipeParams{
		AuthorID:     authorID,
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
		Difficulty:   in.Difficulty,
		Category:     in.Category,
		Cuisine:      in.Cuisine,
		Tags:         in.Tags,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Carbs:        in.Carbs,
		Fat:          in.Fat,
		Ingredients:  ingredientParams(in.Ingredients),
		Instructions: instructionParams(in.Instructions),
	}
}

func updateParams(in validation.RecipeUpdateInput) db.UpdateRecipeParams {
	return db.UpdateRecipeParams{
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
		Difficulty:   in.Difficulty,
		Category:     in.Category,
		Cuisine:      in.Cuisine,
		Tags:         in.Tags,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Carbs:        in.Carbs,
		Fat:          in.Fat,
		Ingredients:  ingredientParams(in.Ingredients),
		Instructions: instructionParams(in.Instructions),
	}
}
