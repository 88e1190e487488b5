package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Request is the body accepted by the generation endpoints.
type Request struct {
	Prompt string `json:"prompt"`
	Preferences
}

// Preferences are the optional knobs a user can set next to the prompt.
// Category is not rendered into the prompt; it only seeds offline synthesis.
type Preferences struct {
	DietaryRestrictions string   `json:"dietaryRestrictions,omitempty"`
	Cuisine             string   `json:"cuisine,omitempty"`
	Difficulty          string   `json:"difficulty,omitempty"`
	Servings            Servings `json:"servings,omitempty"`
	Category            string   `json:"category,omitempty"`
}

// Servings keeps the raw text of a servings value sent either as a JSON
// number or a JSON string.
type Servings string

// MaxServings is the largest servings count Positive accepts.
const MaxServings = 10000

func (s *Servings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Servings(strings.TrimSpace(str))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("servings must be a number or string: %w", err)
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*s = ""
		return nil
	}
	*s = Servings(n.String())
	return nil
}

func (s Servings) MarshalJSON() ([]byte, error) {
	if n, ok := s.Positive(); ok && strconv.Itoa(n) == string(s) {
		return []byte(string(s)), nil
	}
	return json.Marshal(string(s))
}

func (s Servings) String() string {
	return string(s)
}

// Positive reports the value as a whole number of servings when it parses
// as a positive number no larger than MaxServings. Fractions round to the
// nearest whole serving with a floor of one.
func (s Servings) Positive() (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > MaxServings {
		return 0, false
	}
	n := int(math.Round(f))
	if n < 1 {
		n = 1
	}
	return n, true
}
