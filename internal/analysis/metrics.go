package analysis

import (
	"math"
	"regexp"
	"strconv"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// DurationMinutes converts an ISO 8601 duration like "PT1H30M" to total whole
// minutes. Sub-minute remainders truncate. Malformed or empty input yields 0.
func DurationMinutes(duration string) int {
	if duration == "" {
		return 0
	}

	match := durationPattern.FindStringSubmatch(duration)
	if match == nil {
		return 0
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	return hours*60 + minutes + seconds/60
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// EngagementScore computes a 0-10 engagement score from like rate, comment
// rate and a duration bonus capped at 3 hours. Zero views always scores 0.
func EngagementScore(viewCount, likeCount, commentCount int64, durationMinutes int) float64 {
	if viewCount == 0 {
		return 0.0
	}

	likeRate := float64(likeCount) / float64(viewCount) * 100
	commentRate := float64(commentCount) / float64(viewCount) * 100

	durationFactor := math.Min(float64(durationMinutes)/60, 3)

	score := (likeRate*0.6 + commentRate*0.4) * (1 + durationFactor*0.1)

	score = math.Min(score, 10.0)
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}
