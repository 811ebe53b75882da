package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eun2ce/uha-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(&config.LLMConfig{
		URL:         server.URL,
		Model:       "qwen/qwen3-4b",
		MaxTokens:   500,
		Temperature: 0.4,
		Timeout:     5 * time.Second,
	})
}

func TestSummarize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"재미있는 게임 방송이었습니다."}}]}`))
	})

	summary, err := client.Summarize(context.Background(), "요약해주세요", 200, 0.4)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "재미있는 게임 방송이었습니다." {
		t.Errorf("Summarize() = %q", summary)
	}
}

func TestSummarizeStripsReasoningBlock(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"<think>reasoning here</think>시청자들과 소통한 방송입니다."}}]}`))
	})

	summary, err := client.Summarize(context.Background(), "요약", 200, 0.4)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "시청자들과 소통한 방송입니다." {
		t.Errorf("Summarize() = %q", summary)
	}
}

func TestSummarizeUnavailable(t *testing.T) {
	client := New(&config.LLMConfig{
		URL:     "http://127.0.0.1:1", // nothing listens here
		Timeout: time.Second,
	})

	_, err := client.Summarize(context.Background(), "요약", 200, 0.4)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestSummarizeNon200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Summarize(context.Background(), "요약", 200, 0.4)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[]}`))
	})

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain text",
			raw:      "  간결한 요약입니다.  ",
			expected: "간결한 요약입니다.",
		},
		{
			name:     "leading think block removed",
			raw:      "<think>let me reason about this</think>요약 결과입니다.",
			expected: "요약 결과입니다.",
		},
		{
			name:     "residual tags stripped",
			raw:      "요약 <b>결과</b>입니다.",
			expected: "요약 결과입니다.",
		},
		{
			name:     "truncated to four sentences",
			raw:      "하나. 둘. 셋. 넷. 다섯. 여섯.",
			expected: "하나. 둘. 셋. 넷.",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.raw); got != tt.expected {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestNeedsFallback(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		expected bool
	}{
		{"empty", "", true},
		{"too short", "짧음", true},
		{"english leak", "Let me summarize this stream for you", true},
		{"valid korean summary", "시청자들과 즐겁게 소통한 게임 방송이었습니다.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsFallback(tt.summary); got != tt.expected {
				t.Errorf("NeedsFallback(%q) = %v, want %v", tt.summary, got, tt.expected)
			}
		})
	}
}

func TestFallbackSummary(t *testing.T) {
	got := FallbackSummary("심야 방송", []string{"게임", "토크", "음악", "기타"})

	if !strings.Contains(got, "심야 방송에서 진행된 라이브 스트리밍입니다.") {
		t.Errorf("missing title sentence: %q", got)
	}
	if !strings.Contains(got, "게임, 토크, 음악") {
		t.Errorf("expected first three tags: %q", got)
	}
	if strings.Contains(got, "기타") {
		t.Errorf("tags should cap at three: %q", got)
	}

	noTags := FallbackSummary("방송", nil)
	if strings.Contains(noTags, "주요 내용은") {
		t.Errorf("tag sentence should be omitted without tags: %q", noTags)
	}
}
