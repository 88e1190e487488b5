package ai

import (
	"strings"
	"testing"

	"github.com/socialchef/sous/internal/errors"
)

func TestBuildRecipePrompt(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		contains []string
	}{
		{
			name: "No preferences",
			req:  Request{Prompt: "quick weeknight pasta"},
			contains: []string{
				"professional chef",
				`"difficulty": "EASY" | "MEDIUM" | "HARD"`,
				"MAIN_COURSE",
				"SIDE_DISH",
				`"stepNumber": 1`,
				`"notes": "optional notes"`,
				"- Dietary restrictions: none",
				"- Cuisine: any",
				"- Difficulty: any",
				"- Servings: 4",
			},
		},
		{
			name: "All preferences",
			req: Request{
				Prompt: "curry",
				Preferences: Preferences{
					DietaryRestrictions: "vegan",
					Cuisine:             "Thai",
					Difficulty:          "MEDIUM",
					Servings:            "6",
				},
			},
			contains: []string{
				"- Dietary restrictions: vegan",
				"- Cuisine: Thai",
				"- Difficulty: MEDIUM",
				"- Servings: 6",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := BuildRecipePrompt(tt.req)
			if err != nil {
				t.Fatalf("BuildRecipePrompt() error = %v", err)
			}
			if prompt.User != tt.req.Prompt {
				t.Errorf("User = %q, want raw prompt %q", prompt.User, tt.req.Prompt)
			}
			for _, s := range tt.contains {
				if !strings.Contains(prompt.System, s) {
					t.Errorf("BuildRecipePrompt() did not contain expected string: %s", s)
				}
			}
		})
	}
}

func TestBuildRecipePromptRejectsEmpty(t *testing.T) {
	for _, p := range []string{"", "   ", "\n\t"} {
		_, err := BuildRecipePrompt(Request{Prompt: p})
		if err == nil {
			t.Errorf("BuildRecipePrompt(%q) expected error", p)
			continue
		}
		if !errors.IsType(err, errors.ErrorTypeValidation) {
			t.Errorf("BuildRecipePrompt(%q) error type = %v, want validation", p, err)
		}
	}
}
