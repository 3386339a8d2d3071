// Package extract pulls JSON-looking payloads out of free-text agent messages.
package extract

import "strings"

// JSONObject returns the first-`{`-to-last-`}` span of text, or text unchanged
// when no such span exists. The span is not depth-balanced: agents wrap their
// JSON in prose far more often than they emit multiple objects, so a greedy
// cut is the right trade. Callers must treat the result as untrusted and
// validate it with a JSON parse; the heuristic fallback tier absorbs the
// cases where this guess is wrong.
func JSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
