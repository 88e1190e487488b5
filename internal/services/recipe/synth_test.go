package recipe

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/socialchef/sous/internal/services/ai"
)

func TestSynthesizedTitle(t *testing.T) {
	tests := []struct {
		seed string
		want string
	}{
		{"", PlaceholderTitle},
		{"   \t ", PlaceholderTitle},
		{"spicy thai   noodles", "Spicy Thai Noodles"},
		{"  CREAMY mushroom risotto ", "Creamy Mushroom Risotto"},
		{"crème brûlée", "Crème Brûlée"},
	}

	for _, tt := range tests {
		if got := SynthesizedTitle(tt.seed); got != tt.want {
			t.Errorf("SynthesizedTitle(%q) = %q; want %q", tt.seed, got, tt.want)
		}
	}
}

func TestSynthesizedTitleTruncates(t *testing.T) {
	seed := strings.Repeat("slow roasted ", 10)
	got := SynthesizedTitle(seed)
	if n := utf8.RuneCountInString(got); n > MaxTitleLength {
		t.Errorf("title has %d runes, want <= %d", n, MaxTitleLength)
	}
	if !strings.HasPrefix(got, "Slow Roasted Slow") {
		t.Errorf("unexpected title %q", got)
	}
	if strings.HasSuffix(got, " ") {
		t.Errorf("title ends with a space: %q", got)
	}

	long := strings.Repeat("é", 80)
	if n := utf8.RuneCountInString(SynthesizedTitle(long)); n != MaxTitleLength {
		t.Errorf("multibyte title has %d runes, want %d", n, MaxTitleLength)
	}
}

func TestSynthesize(t *testing.T) {
	d := Synthesize("spicy thai   noodles", ai.Preferences{
		Cuisine:             "Thai",
		DietaryRestrictions: "vegan",
		Difficulty:          "hard",
		Category:            "PASTA",
		Servings:            "2",
	})

	if d.Title != "Spicy Thai Noodles" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Difficulty != DifficultyHard {
		t.Errorf("Difficulty = %v; want HARD", d.Difficulty)
	}
	if d.Category != CategoryDinner {
		t.Errorf("Category = %v; want DINNER", d.Category)
	}
	if d.Servings != 2 {
		t.Errorf("Servings = %d; want 2", d.Servings)
	}
	if d.Cuisine != "Thai" {
		t.Errorf("Cuisine = %q", d.Cuisine)
	}
	if len(d.Tags) != 2 || d.Tags[0] != "thai" || d.Tags[1] != "vegan" {
		t.Errorf("Tags = %v", d.Tags)
	}
	if d.Description != "A tasty, easy-to-make Thai dish generated as a fallback when AI is unavailable." {
		t.Errorf("Description = %q", d.Description)
	}
	if d.PrepTime != 15 || d.CookTime != 20 {
		t.Errorf("times = %d/%d", d.PrepTime, d.CookTime)
	}
	if d.Calories != 420 || d.Protein != 20 || d.Carbs != 50 || d.Fat != 15 {
		t.Errorf("nutrition = %v/%v/%v/%v", d.Calories, d.Protein, d.Carbs, d.Fat)
	}
	if len(d.Ingredients) != 7 {
		t.Errorf("expected 7 ingredients, got %d", len(d.Ingredients))
	}
	if d.Ingredients[4].Notes != "tofu/chicken/beans" {
		t.Errorf("protein notes = %q", d.Ingredients[4].Notes)
	}
	if len(d.Instructions) != 5 {
		t.Fatalf("expected 5 instructions, got %d", len(d.Instructions))
	}
	for i, s := range d.Instructions {
		if s.StepNumber != i+1 {
			t.Errorf("step %d numbered %d", i, s.StepNumber)
		}
	}
}

func TestSynthesizeDefaults(t *testing.T) {
	d := Synthesize("", ai.Preferences{Servings: "plenty"})

	if d.Title != PlaceholderTitle {
		t.Errorf("Title = %q", d.Title)
	}
	if d.Servings != 4 {
		t.Errorf("Servings = %d; want 4", d.Servings)
	}
	if d.Difficulty != DifficultyEasy || d.Category != CategoryDinner {
		t.Errorf("enums = %v/%v", d.Difficulty, d.Category)
	}
	if d.Cuisine != "International" {
		t.Errorf("Cuisine = %q", d.Cuisine)
	}
	if d.Tags == nil || len(d.Tags) != 0 {
		t.Errorf("Tags = %#v; want empty", d.Tags)
	}
	if d.Description != "A tasty, easy-to-make dish generated as a fallback when AI is unavailable." {
		t.Errorf("Description = %q", d.Description)
	}
}

func TestSynthesizeReturnsFreshSlices(t *testing.T) {
	a := Synthesize("x", ai.Preferences{})
	a.Ingredients[0].Name = "changed"
	b := Synthesize("x", ai.Preferences{})
	if b.Ingredients[0].Name != "Olive oil" {
		t.Errorf("template mutated through returned draft")
	}
}

func TestSynthesizeServingsOutOfRange(t *testing.T) {
	for _, s := range []ai.Servings{"1e30", "-2", "a crowd"} {
		if d := Synthesize("stew", ai.Preferences{Servings: s}); d.Servings != defaultServings {
			t.Errorf("Synthesize(servings %q).Servings = %d; want %d", s, d.Servings, defaultServings)
		}
	}
}
