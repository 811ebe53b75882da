package analysis

import (
	"strings"
)

// Sentiment labels returned by AnalyzeSentiment.
const (
	SentimentPositive = "긍정적인 반응이 많은 스트림"
	SentimentNegative = "부정적인 반응이 있는 스트림"
	SentimentNeutral  = "중립적인 반응의 스트림"
)

var positiveWords = []string{"좋", "최고", "대박", "멋지", "훌륭", "완벽", "사랑", "감사", "재밌", "웃기"}

var negativeWords = []string{"싫", "별로", "최악", "나쁘", "화나", "짜증", "실망", "지루", "아쉽"}

// Sentiment classifies the overall viewer reaction from title, description
// and the first 20 comments. Positive wins when positive hits exceed 1.5x the
// negative hits, and vice versa. Always returns a label.
func Sentiment(title, description string, comments []string) string {
	if len(comments) > 20 {
		comments = comments[:20]
	}
	allText := title + " " + description + " " + strings.Join(comments, " ")

	positive := 0
	for _, word := range positiveWords {
		if strings.Contains(allText, word) {
			positive++
		}
	}
	negative := 0
	for _, word := range negativeWords {
		if strings.Contains(allText, word) {
			negative++
		}
	}

	switch {
	case float64(positive) > float64(negative)*1.5:
		return SentimentPositive
	case float64(negative) > float64(positive)*1.5:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

var highlightWords = []string{
	"대박", "최고", "웃겨", "재밌", "감동", "놀라", "신기", "멋지", "완벽", "훌륭",
	"funny", "amazing", "great", "awesome", "perfect", "incredible", "wow",
}

// Highlights picks up to 3 distinct comments containing excitement words from
// the first 20 comments, truncated to 50 characters each. When none match,
// falls back to title-triggered canned highlights, then a generic one.
func Highlights(comments []string, title string) []string {
	highlights := make([]string, 0, 3)

	scan := comments
	if len(scan) > 20 {
		scan = scan[:20]
	}

	for _, comment := range scan {
		lower := strings.ToLower(comment)
		matched := false
		for _, word := range highlightWords {
			if strings.Contains(lower, word) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		clean := strings.TrimSpace(comment)
		if len([]rune(clean)) > 50 {
			clean = string([]rune(clean)[:50])
		}
		if clean == "" || contains(highlights, clean) {
			continue
		}
		highlights = append(highlights, clean)
		if len(highlights) >= 3 {
			break
		}
	}

	if len(highlights) == 0 {
		lowerTitle := strings.ToLower(title)
		if strings.Contains(title, "게임") || strings.Contains(lowerTitle, "game") {
			highlights = append(highlights, "🎮 게임 스트리밍")
		}
		if strings.Contains(title, "채팅") || strings.Contains(lowerTitle, "chat") {
			highlights = append(highlights, "💬 시청자와 소통")
		}
		if len(highlights) == 0 {
			highlights = append(highlights, "📺 라이브 방송")
		}
	}

	return highlights
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// CategoryGeneral is the fallback when no category keywords match.
const CategoryGeneral = "📺 일반"

// categoryTable is ordered; earlier entries take priority on multiple matches.
var categoryTable = []struct {
	label    string
	keywords []string
}{
	{"🎮 게임", []string{"게임", "game", "플레이", "play", "rpg", "fps", "moba"}},
	{"🎵 음악", []string{"음악", "music", "노래", "song", "sing", "cover"}},
	{"🗣️ 토크", []string{"토크", "talk", "채팅", "chat", "소통", "qa", "질문"}},
	{"🎨 창작", []string{"그림", "draw", "art", "창작", "만들기", "diy"}},
	{"📚 교육", []string{"강의", "교육", "tutorial", "배우기", "learn", "study"}},
	{"🍳 요리", []string{"요리", "cook", "먹방", "food", "recipe"}},
	{"🏃 운동", []string{"운동", "workout", "fitness", "헬스", "스포츠"}},
	{"🎬 리뷰", []string{"리뷰", "review", "후기", "평가", "반응"}},
}

// Categorize assigns a stream category from title, tags and keywords. The
// first table entry with any substring hit wins.
func Categorize(title string, tags, keywords []string) string {
	allText := strings.ToLower(title + " " + strings.Join(tags, " ") + " " + strings.Join(keywords, " "))

	for _, category := range categoryTable {
		for _, keyword := range category.keywords {
			if strings.Contains(allText, keyword) {
				return category.label
			}
		}
	}
	return CategoryGeneral
}
