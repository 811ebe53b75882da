package youtube

import "regexp"

// videoIDPatterns cover the canonical watch URL, short link, embed and legacy
// /v/ forms. Order matters: the first capturing match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID returns the 11-character video identifier embedded in url,
// or an empty string when no known URL form matches. It never fails; callers
// treat an empty result as "metadata unavailable", not as an error.
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1]
		}
	}
	return ""
}
