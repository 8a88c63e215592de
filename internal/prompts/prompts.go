package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/aulavia/aulavia-backend/internal/platform/openai"
)

// Prompt is a ready-to-send rendering of a registered template.
type Prompt struct {
	Name    string
	Version int
	System  string
	User    string
}

// Messages lays the prompt out as the chat turns the generation
// provider expects.
func (p Prompt) Messages() []openai.Message {
	msgs := make([]openai.Message, 0, 2)
	if p.System != "" {
		msgs = append(msgs, openai.Message{Role: "system", Content: p.System})
	}
	msgs = append(msgs, openai.Message{Role: "user", Content: p.User})
	return msgs
}

func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(
		strings.TrimSpace(p.Name) + "|" +
			strconv.Itoa(p.Version) + "|" +
			strings.TrimSpace(p.System) + "|" +
			strings.TrimSpace(p.User),
	))
	return hex.EncodeToString(h[:])
}
