package recipe

// Difficulty is one of the three effort levels a recipe can carry.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Category is the meal slot a recipe belongs to.
type Category string

const (
	CategoryBreakfast  Category = "BREAKFAST"
	CategoryLunch      Category = "LUNCH"
	CategoryDinner     Category = "DINNER"
	CategoryDessert    Category = "DESSERT"
	CategorySnack      Category = "SNACK"
	CategoryBeverage   Category = "BEVERAGE"
	CategoryAppetizer  Category = "APPETIZER"
	CategorySoup       Category = "SOUP"
	CategorySalad      Category = "SALAD"
	CategoryMainCourse Category = "MAIN_COURSE"
	CategorySideDish   Category = "SIDE_DISH"
)

// Categories lists every allowed category in display order.
var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDessert,
	CategorySnack,
	CategoryBeverage,
	CategoryAppetizer,
	CategorySoup,
	CategorySalad,
	CategoryMainCourse,
	CategorySideDish,
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Notes  string `json:"notes,omitempty"`
}

type Instruction struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// Draft is a generated recipe that has not been persisted. It has no id;
// the store assigns one when the draft is saved.
type Draft struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	PrepTime     int           `json:"prepTime"`
	CookTime     int           `json:"cookTime"`
	Servings     int           `json:"servings"`
	Difficulty   Difficulty    `json:"difficulty"`
	Category     Category      `json:"category"`
	Cuisine      string        `json:"cuisine"`
	Tags         []string      `json:"tags"`
	Calories     float64       `json:"calories"`
	Protein      float64       `json:"protein"`
	Carbs        float64       `json:"carbs"`
	Fat          float64       `json:"fat"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
}
