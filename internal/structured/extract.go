package structured

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/aulavia/aulavia-backend/internal/pkg/errors"
)

var codeFenceRe = regexp.MustCompile("```[a-zA-Z0-9]*")

// ExtractObject pulls the first syntactically complete JSON object out of
// raw model output. Models routinely wrap the payload in prose or code
// fences, so this is deliberately permissive: it takes the span from the
// first '{' to the last '}' and parses that, rather than requiring the
// whole response to be valid JSON.
func ExtractObject(raw string) (map[string]any, error) {
	text := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no object delimiters in %d bytes of output", pkgerrors.ErrNoStructuredPayload, len(raw))
	}

	island := text[start : end+1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(island), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrMalformedPayload, err)
	}
	return payload, nil
}
