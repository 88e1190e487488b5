package ai

import (
	"strings"

	"github.com/socialchef/sous/internal/errors"
)

const roleSection = `You are a professional chef and recipe developer. Create a detailed recipe based on the user's request.`

const outputFormatSection = `Format your response as a JSON object with the following structure:
{
  "title": "Recipe Title",
  "description": "Brief description of the recipe",
  "prepTime": number (in minutes),
  "cookTime": number (in minutes),
  "servings": number,
  "difficulty": "EASY" | "MEDIUM" | "HARD",
  "category": "BREAKFAST" | "LUNCH" | "DINNER" | "DESSERT" | "SNACK" | "BEVERAGE" | "APPETIZER" | "SOUP" | "SALAD" | "MAIN_COURSE" | "SIDE_DISH",
  "cuisine": "cuisine type",
  "tags": ["tag1", "tag2", "tag3"],
  "calories": number,
  "protein": number,
  "carbs": number,
  "fat": number,
  "ingredients": [
    {
      "name": "ingredient name",
      "amount": "amount",
      "unit": "unit",
      "notes": "optional notes"
    }
  ],
  "instructions": [
    {
      "stepNumber": 1,
      "description": "detailed step description"
    }
  ]
}`

const closingSection = `Make sure the recipe is practical, well-seasoned, and includes proper cooking techniques.`

// Prompt is the pair of chat messages sent to every provider in the chain.
type Prompt struct {
	System string
	User   string
}

// BuildRecipePrompt validates the request and renders the system and user
// instructions. The user instruction is the prompt exactly as submitted.
func BuildRecipePrompt(req Request) (Prompt, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return Prompt{}, errors.NewValidationError("Prompt is required", "PROMPT_REQUIRED", "Describe the dish you want to cook.")
	}

	var sb strings.Builder
	sb.WriteString(roleSection)
	sb.WriteString("\n\n")
	sb.WriteString(outputFormatSection)
	sb.WriteString("\n\n")
	sb.WriteString(preferencesSection(req.Preferences))
	sb.WriteString("\n\n")
	sb.WriteString(closingSection)

	return Prompt{System: sb.String(), User: req.Prompt}, nil
}

func preferencesSection(p Preferences) string {
	var sb strings.Builder
	sb.WriteString("Consider these preferences:\n")
	sb.WriteString("- Dietary restrictions: " + orDefault(p.DietaryRestrictions, "none") + "\n")
	sb.WriteString("- Cuisine: " + orDefault(p.Cuisine, "any") + "\n")
	sb.WriteString("- Difficulty: " + orDefault(p.Difficulty, "any") + "\n")
	sb.WriteString("- Servings: " + orDefault(p.Servings.String(), "4"))
	return sb.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
