package agent

import "regexp"

// tokenPatterns are tried in order; the first capture group of the first
// matching pattern wins. Specific phrasings come before the bare structural
// form of a Canvas token.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)token\s*=\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)token\s*:\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)token\s+([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)canvas\s+token\s*=\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)canvas\s+token\s*:\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)canvas\s+token\s+([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)access\s+token\s*=\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)access\s+token\s*:\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)access\s+token\s+([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)accessToken\s*=\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)accessToken\s*:\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)accessToken\s+([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`(?i)here\s+is\s+my\s+accessToken\s*:?\s*([a-zA-Z0-9~_-]+)`),
	regexp.MustCompile(`([0-9]+~[a-zA-Z0-9_-]{20,})`),
}

// ExtractToken pulls a Canvas API token out of free-form chat text.
// Returns the empty string when no pattern matches.
func ExtractToken(message string) string {
	for _, pattern := range tokenPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil && m[1] != "" {
			return m[1]
		}
	}
	return ""
}
