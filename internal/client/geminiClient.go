package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"food-marketplace/internal/config"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrPlannerNotConfigured is returned when no API key is set.
var ErrPlannerNotConfigured = errors.New("workout planner not configured")

// WorkoutPlanner turns a prompt into a JSON workout plan.
type WorkoutPlanner interface {
	GeneratePlan(ctx context.Context, prompt string) (json.RawMessage, error)
}

type geminiClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	model      string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewWorkoutPlanner returns nil when no API key is configured, which callers
// treat as the planner being switched off.
func NewWorkoutPlanner(cfg config.Gemini) WorkoutPlanner {
	if cfg.APIKey == "" {
		return nil
	}
	return NewGeminiClient(cfg)
}

func NewGeminiClient(cfg config.Gemini) WorkoutPlanner {
	return &geminiClientImpl{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseApiURL: strings.TrimRight(cfg.BaseApiURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

func (c *geminiClientImpl) GeneratePlan(ctx context.Context, prompt string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrPlannerNotConfigured
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseApiURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr geminiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("gemini api error %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("gemini api error %d", resp.StatusCode)
	}

	var res geminiResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no candidates in gemini response")
	}

	text := strings.TrimSpace(res.Candidates[0].Content.Parts[0].Text)
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	// the model ignored the mime type; hand the text back as a JSON string
	wrapped, err := json.Marshal(map[string]string{"plan": text})
	if err != nil {
		return nil, fmt.Errorf("wrap plan text: %w", err)
	}
	return wrapped, nil
}
