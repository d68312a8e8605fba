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

const (
	ModelVeo2 = "veo2"
	ModelVeo3 = "veo3"
)

// VeoBackend drives Google's Veo preview API. The preview tier is
// unreliable; the orchestrator registers it with a fallback so failed
// submissions retry against RunwayML.
type VeoBackend struct {
	tag        string
	model      string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewVeoBackend(tag, baseURL, apiKey string) *VeoBackend {
	model := "veo-2"
	if tag == ModelVeo3 {
		model = "veo-3"
	}
	return &VeoBackend{
		tag:     tag,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (b *VeoBackend) Name() string {
	return b.tag
}

type veoSubmitRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Duration    int    `json:"duration_seconds"`
	AspectRatio string `json:"aspect_ratio"`
}

type veoJobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
}

func (b *VeoBackend) Submit(ctx context.Context, planBlob json.RawMessage) (string, error) {
	if b.baseURL == "" || b.apiKey == "" {
		return "", fmt.Errorf("veo backend not configured")
	}

	payload := veoSubmitRequest{
		Model:       b.model,
		Prompt:      planPrompt(planBlob),
		Duration:    10,
		AspectRatio: "9:16",
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/videos:generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", b.apiKey)
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
		return "", fmt.Errorf("veo api error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result veoJobResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	if result.JobID == "" {
		return "", fmt.Errorf("no job id in response, body: %s", string(body))
	}

	return result.JobID, nil
}

func (b *VeoBackend) Poll(ctx context.Context, jobID string) (PollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/videos/"+jobID, nil)
	if err != nil {
		return PollResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", b.apiKey)

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
		return PollResult{}, fmt.Errorf("veo status check error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var status veoJobResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return PollResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	switch status.Status {
	case "succeeded", "completed":
		return PollResult{State: JobCompleted, VideoURL: status.VideoURL}, nil
	case "failed":
		message := status.Error
		if message == "" {
			message = "generation failed"
		}
		return PollResult{State: JobFailed, Error: message}, nil
	case "running", "processing":
		return PollResult{State: JobProcessing}, nil
	default:
		return PollResult{State: JobPending}, nil
	}
}
