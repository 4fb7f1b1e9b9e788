package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/brd-service/internal/model"
)

// CleanReply strips a single leading/trailing markdown code fence (with an
// optional language tag such as "json") from a model reply and trims
// whitespace. Idempotent: already-clean JSON passes through unchanged. It
// deliberately does not hunt for braces inside prose; a reply wrapped in
// explanatory text is a parse failure, not something to salvage.
func CleanReply(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop the language tag up to the first newline, e.g. "json".
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if isFenceTag(tag) {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}

// isFenceTag reports whether s looks like a fence language tag rather than
// the start of content.
func isFenceTag(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Repair coerces a raw model reply into a BRD document. On a strict JSON
// parse of an object it computes the derived count and confidence fields;
// anything else degrades to the {"error": "Invalid JSON", "raw": ...}
// record carrying the original reply. Pure: no error return, no I/O.
func Repair(raw string) model.Document {
	cleaned := CleanReply(raw)

	var doc model.Document
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil || doc == nil {
		return model.ParseFailure(raw)
	}

	doc.Finalize()
	return doc
}
