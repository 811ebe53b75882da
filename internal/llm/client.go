package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eun2ce/uha-backend/pkg/config"
	"github.com/eun2ce/uha-backend/pkg/logging"
	"github.com/eun2ce/uha-backend/pkg/telemetry"
)

var (
	// ErrUnavailable is returned when the inference server cannot be reached.
	ErrUnavailable = errors.New("llm: server unavailable")
	// ErrTimeout is returned when the request exceeds the configured timeout.
	ErrTimeout = errors.New("llm: request timed out")
)

// systemMessage forces Korean-only output from the model.
const systemMessage = "You must respond ONLY in Korean. 당신은 한국어 전문 분석가입니다. " +
	"반드시 한국어로만 답변하세요. 영어나 다른 언어는 절대 사용 금지입니다. 2-3문장으로 간결하게 요약해주세요."

// Client talks to an OpenAI-compatible local inference server (LM Studio).
type Client struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	http        *http.Client
	logger      *zap.Logger
}

// New creates a new summarization client
func New(cfg *config.LLMConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.URL, "/"),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		http:        &http.Client{Timeout: timeout},
		logger:      logging.GetLogger().With(zap.String("component", "llm-client")),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stop        []string      `json:"stop"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize sends a single chat completion request and returns the cleaned
// response text. No retry; failures map to ErrUnavailable or ErrTimeout.
func (c *Client) Summarize(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "llm.summarize")
	defer span.End()

	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Stop:        []string{"\n\n", "요약:", "Summary:"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("llm: empty choices: %w", ErrUnavailable)
	}

	return CleanResponse(decoded.Choices[0].Message.Content), nil
}

// Health probes the /models endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llm: status %d: %w", resp.StatusCode, ErrUnavailable)
	}
	return nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanResponse normalizes raw model output: strips a leading reasoning block
// delimited by <think></think>, removes residual markup tags, and keeps only
// the first 4 sentences.
func CleanResponse(raw string) string {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "<think>") {
		if end := strings.Index(content, "</think>"); end != -1 {
			content = strings.TrimSpace(content[end+len("</think>"):])
		}
	}

	content = strings.TrimSpace(tagPattern.ReplaceAllString(content, ""))

	sentences := strings.Split(content, ".")
	if len(sentences) > 4 {
		trimmed := make([]string, 0, 4)
		for _, s := range sentences[:4] {
			trimmed = append(trimmed, strings.TrimSpace(s))
		}
		content = strings.Join(trimmed, ". ") + "."
	}

	return strings.TrimSpace(content)
}
