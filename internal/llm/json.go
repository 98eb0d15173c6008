package llm

import "strings"

// Model replies are free text that should contain a JSON payload, often
// wrapped in prose or markdown fences. These helpers do a best-effort
// extraction of that payload; callers treat a miss as a parse failure.

// StripFences removes a surrounding ```json / ``` markdown fence, if any.
func StripFences(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// ExtractObject returns the widest {...} substring of the reply.
func ExtractObject(s string) (string, bool) {
	return extractDelimited(StripFences(s), '{', '}')
}

// ExtractArray returns the widest [...] substring of the reply.
func ExtractArray(s string) (string, bool) {
	return extractDelimited(StripFences(s), '[', ']')
}

func extractDelimited(s string, open, closing byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
