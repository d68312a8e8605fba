package generation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-forge-backend/internal/generation"
)

func TestRunwayBackend_Submit(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]string{"id": "gen-123"})
	}))
	defer server.Close()

	backend := generation.NewRunwayBackend(generation.ModelRunwayGen4, server.URL, "test-key")
	plan := json.RawMessage(`{"description":"a dancing robot","scenes":["wide shot","close up"]}`)

	jobID, err := backend.Submit(context.Background(), plan)

	require.NoError(t, err)
	assert.Equal(t, "gen-123", jobID)
	assert.Equal(t, "gen4:turbo", captured["model"])
	assert.Equal(t, "9:16", captured["ratio"])
	assert.Equal(t, float64(10), captured["duration"])
	assert.Contains(t, captured["prompt"], "a dancing robot")
	assert.Contains(t, captured["prompt"], "Scene 1: wide shot")
}

func TestRunwayBackend_SubmitRequiresAPIKey(t *testing.T) {
	backend := generation.NewRunwayBackend(generation.ModelRunwayGen4, "https://api.runwayml.com/v1", "")

	_, err := backend.Submit(context.Background(), json.RawMessage(`{}`))

	assert.Error(t, err)
}

func TestRunwayBackend_SubmitUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid prompt"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	backend := generation.NewRunwayBackend(generation.ModelRunwayGen3, server.URL, "test-key")
	_, err := backend.Submit(context.Background(), json.RawMessage(`{"description":"x"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestRunwayBackend_Poll(t *testing.T) {
	responses := map[string]string{
		"/generations/done":    `{"status":"completed","video_url":"https://cdn.runwayml.com/out.mp4"}`,
		"/generations/running": `{"status":"running"}`,
		"/generations/broken":  `{"status":"failed","error":"internal error"}`,
		"/generations/queued":  `{"status":"queued"}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responses[r.URL.Path]))
	}))
	defer server.Close()

	backend := generation.NewRunwayBackend(generation.ModelRunwayGen4, server.URL, "test-key")

	result, err := backend.Poll(context.Background(), "done")
	require.NoError(t, err)
	assert.Equal(t, generation.JobCompleted, result.State)
	assert.Equal(t, "https://cdn.runwayml.com/out.mp4", result.VideoURL)

	result, err = backend.Poll(context.Background(), "running")
	require.NoError(t, err)
	assert.Equal(t, generation.JobProcessing, result.State)

	result, err = backend.Poll(context.Background(), "broken")
	require.NoError(t, err)
	assert.Equal(t, generation.JobFailed, result.State)
	assert.Equal(t, "internal error", result.Error)

	result, err = backend.Poll(context.Background(), "queued")
	require.NoError(t, err)
	assert.Equal(t, generation.JobPending, result.State)
}

func TestVeoBackend_SubmitUnconfigured(t *testing.T) {
	backend := generation.NewVeoBackend(generation.ModelVeo2, "", "")

	_, err := backend.Submit(context.Background(), json.RawMessage(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestVeoBackend_Submit(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos:generate", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]string{"job_id": "veo-77"})
	}))
	defer server.Close()

	backend := generation.NewVeoBackend(generation.ModelVeo3, server.URL, "test-key")
	jobID, err := backend.Submit(context.Background(), json.RawMessage(`{"description":"sunset timelapse"}`))

	require.NoError(t, err)
	assert.Equal(t, "veo-77", jobID)
	assert.Equal(t, "veo-3", captured["model"])
	assert.Equal(t, "9:16", captured["aspect_ratio"])
}
