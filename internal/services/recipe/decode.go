package recipe

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

// flexNumber accepts a JSON number or a string that starts with one
// ("25 minutes", "350 kcal"). Anything else decodes as zero.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = flexNumber(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(leadingNumber(str))
	return nil
}

func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

// flexTags accepts an array of strings or a single comma separated string.
type flexTags []string

func (t *flexTags) UnmarshalJSON(data []byte) error {
	var list []flexString
	if err := json.Unmarshal(data, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, string(v))
		}
		*t = out
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		*t = nil
		return nil
	}
	*t = strings.Split(str, ",")
	return nil
}

type wireIngredient struct {
	Name   flexString `json:"name"`
	Amount flexString `json:"amount"`
	Unit   flexString `json:"unit"`
	Notes  flexString `json:"notes"`
}

// UnmarshalJSON also accepts a bare string such as "1 lb shrimp", which
// becomes the ingredient name.
func (i *wireIngredient) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*i = wireIngredient{Name: flexString(name)}
		return nil
	}
	type plain wireIngredient
	return json.Unmarshal(data, (*plain)(i))
}

type wireInstruction struct {
	StepNumber  flexNumber `json:"stepNumber"`
	Description flexString `json:"description"`
}

// UnmarshalJSON also accepts a bare string, which becomes the step text.
// Numbering is left to NumberSteps.
func (i *wireInstruction) UnmarshalJSON(data []byte) error {
	var desc string
	if err := json.Unmarshal(data, &desc); err == nil {
		*i = wireInstruction{Description: flexString(desc)}
		return nil
	}
	type plain wireInstruction
	return json.Unmarshal(data, (*plain)(i))
}

// lenientList decodes a JSON array element by element and skips elements
// that do not decode. A value that is not an array decodes as empty.
type lenientList[T any] []T

func (l *lenientList[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

type wireDraft struct {
	Title        flexString                   `json:"title"`
	Description  flexString                   `json:"description"`
	PrepTime     flexNumber                   `json:"prepTime"`
	CookTime     flexNumber                   `json:"cookTime"`
	Servings     flexNumber                   `json:"servings"`
	Difficulty   flexString                   `json:"difficulty"`
	Category     flexString                   `json:"category"`
	Cuisine      flexString                   `json:"cuisine"`
	Tags         flexTags                     `json:"tags"`
	Calories     flexNumber                   `json:"calories"`
	Protein      flexNumber                   `json:"protein"`
	Carbs        flexNumber                   `json:"carbs"`
	Fat          flexNumber                   `json:"fat"`
	Ingredients  lenientList[wireIngredient]  `json:"ingredients"`
	Instructions lenientList[wireInstruction] `json:"instructions"`
}

// DecodeDraft turns a parsed recipe document into a Draft. Field types are
// read leniently since providers mix numbers and strings; the result is
// not normalized.
func DecodeDraft(doc json.RawMessage) (*Draft, error) {
	var w wireDraft
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, err
	}

	d := &Draft{
		Title:       strings.TrimSpace(string(w.Title)),
		Description: strings.TrimSpace(string(w.Description)),
		PrepTime:    roundInt(w.PrepTime),
		CookTime:    roundInt(w.CookTime),
		Servings:    roundInt(w.Servings),
		Difficulty:  Difficulty(w.Difficulty),
		Category:    Category(w.Category),
		Cuisine:     strings.TrimSpace(string(w.Cuisine)),
		Tags:        []string(w.Tags),
		Calories:    float64(w.Calories),
		Protein:     float64(w.Protein),
		Carbs:       float64(w.Carbs),
		Fat:         float64(w.Fat),
	}

	for _, ing := range w.Ingredients {
		d.Ingredients = append(d.Ingredients, Ingredient{
			Name:   strings.TrimSpace(string(ing.Name)),
			Amount: strings.TrimSpace(string(ing.Amount)),
			Unit:   strings.TrimSpace(string(ing.Unit)),
			Notes:  strings.TrimSpace(string(ing.Notes)),
		})
	}
	for _, ins := range w.Instructions {
		d.Instructions = append(d.Instructions, Instruction{
			StepNumber:  roundInt(ins.StepNumber),
			Description: string(ins.Description),
		})
	}

	return d, nil
}

// maxQuantity bounds decoded times and servings. Larger values decode as
// zero so Normalize replaces them with defaults.
const maxQuantity = 10000

func roundInt(n flexNumber) int {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxQuantity {
		return 0
	}
	return int(math.Round(f))
}
