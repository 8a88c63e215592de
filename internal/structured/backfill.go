package structured

import (
	"strings"

	"github.com/google/uuid"
)

// BackfillExamIDs assigns a fresh uuid to every question missing an id and
// a short id to every mcq option missing one. Ids already present are left
// untouched, so the pass is idempotent.
func BackfillExamIDs(payload map[string]any) {
	rawQuestions, ok := payload["questions"].([]any)
	if !ok {
		return
	}
	for _, rq := range rawQuestions {
		qm, ok := rq.(map[string]any)
		if !ok {
			continue
		}
		if stringField(qm, "id") == "" {
			qm["id"] = uuid.New().String()
		}
		rawOpts, ok := qm["options"].([]any)
		if !ok {
			continue
		}
		for _, ro := range rawOpts {
			om, ok := ro.(map[string]any)
			if !ok {
				continue
			}
			if stringField(om, "id") == "" {
				om["id"] = shortID()
			}
		}
	}
}

// shortID is the 4-char option identifier convention carried over from the
// existing exam payloads ("A"-style ids stay as the model wrote them).
func shortID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id[:4]
}
