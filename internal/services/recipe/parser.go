package recipe

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/socialchef/sous/internal/errors"
)

var errNoObjectSpan = stderrors.New("no {...} span in response")

// ParseWhole parses the entire provider text as a JSON object.
func ParseWhole(text string) (json.RawMessage, error) {
	return parseObject([]byte(strings.TrimSpace(text)))
}

// ExtractJSONSpan parses the substring from the first '{' to the last '}'.
// Providers often wrap the document in prose or markdown fences.
func ExtractJSONSpan(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, errNoObjectSpan
	}
	return parseObject([]byte(text[start : end+1]))
}

func parseObject(data []byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("document is null")
	}
	return json.RawMessage(bytes.Clone(data)), nil
}

// ParseResponse runs ParseWhole and then ExtractJSONSpan. Only syntax is
// checked; the document comes back exactly as the provider wrote it.
func ParseResponse(text string) (json.RawMessage, error) {
	if doc, err := ParseWhole(text); err == nil {
		return doc, nil
	}
	doc, err := ExtractJSONSpan(text)
	if err != nil {
		return nil, errors.NewParseError("could not extract recipe data", err)
	}
	return doc, nil
}

// ParseDraft parses provider text into a normalized Draft. A document
// without a single usable instruction is a parse failure.
func ParseDraft(text string) (*Draft, error) {
	doc, err := ParseResponse(text)
	if err != nil {
		return nil, err
	}
	d, err := DecodeDraft(doc)
	if err != nil {
		return nil, errors.NewParseError("could not extract recipe data", err)
	}
	Normalize(d)
	if len(d.Instructions) == 0 {
		return nil, errors.NewParseError("could not extract recipe data", fmt.Errorf("recipe has no instructions"))
	}
	return d, nil
}
