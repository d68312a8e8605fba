package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RunwayBackend drives RunwayML's text-to-video API. The same client
// serves both generation tiers; the tag chooses the model.
type RunwayBackend struct {
	tag        string
	model      string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

const (
	ModelRunwayGen4 = "runway_gen4"
	ModelRunwayGen3 = "runway_gen3"
)

func NewRunwayBackend(tag, baseURL, apiKey string) *RunwayBackend {
	model := "gen4:turbo"
	if tag == ModelRunwayGen3 {
		model = "gen3:alpha:turbo"
	}
	return &RunwayBackend{
		tag:     tag,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (b *RunwayBackend) Name() string {
	return b.tag
}

type runwaySubmitRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Duration  int    `json:"duration"`
	Ratio     string `json:"ratio"`
	Watermark bool   `json:"watermark"`
}

type runwaySubmitResponse struct {
	ID string `json:"id"`
}

type runwayStatusResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
}

func (b *RunwayBackend) Submit(ctx context.Context, planBlob json.RawMessage) (string, error) {
	if b.apiKey == "" {
		return "", fmt.Errorf("runwayml api key not configured")
	}

	payload := runwaySubmitRequest{
		Model:     b.model,
		Prompt:    planPrompt(planBlob),
		Duration:  10,
		Ratio:     "9:16",
		Watermark: false,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/generations", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("runwayml api error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result runwaySubmitResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	if result.ID == "" {
		return "", fmt.Errorf("no generation id in response, body: %s", string(body))
	}

	return result.ID, nil
}

func (b *RunwayBackend) Poll(ctx context.Context, jobID string) (PollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/generations/"+jobID, nil)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return PollResult{}, fmt.Errorf("runwayml status check error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var status runwayStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return PollResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	switch status.Status {
	case "completed":
		return PollResult{State: JobCompleted, VideoURL: status.VideoURL}, nil
	case "failed":
		message := status.Error
		if message == "" {
			message = "generation failed"
		}
		return PollResult{State: JobFailed, Error: message}, nil
	case "processing", "running":
		return PollResult{State: JobProcessing}, nil
	default:
		return PollResult{State: JobPending}, nil
	}
}
