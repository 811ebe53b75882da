package llm

import (
	"fmt"
	"strings"
)

// englishLeakMarkers flag off-language model output that must be replaced by
// the deterministic fallback.
var englishLeakMarkers = []string{"Let me", "Based on", "The stream", "Okay"}

// NeedsFallback reports whether a cleaned summary is unusable: empty, shorter
// than 10 characters, or leaking English boilerplate.
func NeedsFallback(summary string) bool {
	trimmed := strings.TrimSpace(summary)
	if len([]rune(trimmed)) < 10 {
		return true
	}
	for _, marker := range englishLeakMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}

// FallbackSummary builds a deterministic Korean summary from title and tags
// when the model output is unusable.
func FallbackSummary(title string, tags []string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("에서 진행된 라이브 스트리밍입니다. ")
	if len(tags) > 0 {
		if len(tags) > 3 {
			tags = tags[:3]
		}
		b.WriteString("주요 내용은 ")
		b.WriteString(strings.Join(tags, ", "))
		b.WriteString(" 관련이며, ")
	}
	b.WriteString("시청자들과의 실시간 소통이 활발했습니다.")
	return b.String()
}

// StreamSummaryPrompt builds the per-stream summarization prompt.
func StreamSummaryPrompt(title, description string, comments, tags, keywords []string) string {
	if len(comments) > 10 {
		comments = comments[:10]
	}
	commentsText := truncateRunes(strings.Join(comments, " "), 300)

	allTags := strings.Join(append(append([]string{}, tags...), keywords...), ", ")
	description = truncateRunes(description, 200)

	return fmt.Sprintf(`다음 라이브 스트림 정보를 바탕으로 한국어로 2-3문장의 간결한 요약을 작성해주세요:

제목: %s
설명: %s
주요 태그/키워드: %s
시청자 댓글 요약: %s

요약 조건:
1. 스트림의 주요 내용과 특징을 간결하게 설명
2. 시청자들의 반응이나 하이라이트가 있다면 포함
3. 한국어로만 작성, 2-3문장 이내
4. 구체적이고 흥미로운 내용 위주로 작성

요약:`, title, description, allTags, commentsText)
}

// YearSummaryPrompt builds the whole-year summarization prompt.
func YearSummaryPrompt(year, totalStreams int, dates []string, additionalInfo string) string {
	if len(dates) > 20 {
		dates = dates[:20]
	}
	return fmt.Sprintf(`%d년에 총 %d회의 라이브 스트림이 진행되었습니다. 주요 날짜는 %s 등입니다.
%s

이 데이터를 바탕으로 다음을 한국어로 3-4문장으로 요약해주세요:
1. 월별 활동량과 패턴
2. 가장 활발했던 시기
3. 전체적인 스트리밍 특징
4. 시청자 반응 및 참여도 (데이터가 있는 경우)

답변은 한국어로만 작성하고 구체적인 수치를 포함해주세요.`, year, totalStreams, strings.Join(dates, ", "), additionalInfo)
}

// FallbackYearSummary builds a deterministic year summary from the parsed
// entry dates when the model output is unusable.
func FallbackYearSummary(year, totalStreams int, firstDate, lastDate string) string {
	return fmt.Sprintf(
		"%d년에 총 %d회의 라이브 스트림이 진행되었습니다. 활동 기간은 %s부터 %s까지이며, 꾸준한 방송 활동을 보여주었습니다.",
		year, totalStreams, lastDate, firstDate)
}

// SummarizeTextPrompt wraps free text for the plain summarization endpoint.
func SummarizeTextPrompt(content string) string {
	return "다음 텍스트를 2-3문장으로 간결하게 요약해주세요:\n\n" + content
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
