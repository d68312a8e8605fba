package store_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildProjectUpdate_Empty(t *testing.T) {
	setClause, args := store.BuildProjectUpdate(store.ProjectUpdate{})

	assert.Equal(t, "", setClause)
	assert.Nil(t, args)
}

func TestBuildProjectUpdate_SetFields(t *testing.T) {
	setClause, args := store.BuildProjectUpdate(store.ProjectUpdate{
		Status:   ptr(models.StatusAnalyzing),
		Progress: ptr(0.2),
	})

	assert.Equal(t, "status = $1, progress = $2, updated_at = CURRENT_TIMESTAMP", setClause)
	assert.Equal(t, []any{models.StatusAnalyzing, 0.2}, args)
}

func TestBuildProjectUpdate_JSONCast(t *testing.T) {
	plan := json.RawMessage(`{"description":"a plan"}`)
	setClause, args := store.BuildProjectUpdate(store.ProjectUpdate{
		GenerationPlan: plan,
	})

	assert.Equal(t, "generation_plan = $1::jsonb, updated_at = CURRENT_TIMESTAMP", setClause)
	assert.Equal(t, []any{[]byte(plan)}, args)
}

func TestBuildProjectUpdate_IncrementDownloads(t *testing.T) {
	setClause, args := store.BuildProjectUpdate(store.ProjectUpdate{
		IncrementDownloads: true,
	})

	assert.Equal(t, "download_count = download_count + 1, updated_at = CURRENT_TIMESTAMP", setClause)
	assert.Empty(t, args)
}

func TestBuildProjectUpdate_MixedSetAndIncrement(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	setClause, args := store.BuildProjectUpdate(store.ProjectUpdate{
		Status:                ptr(models.StatusCompleted),
		Progress:              ptr(1.0),
		GeneratedVideoURL:     ptr("https://cdn.example.com/video.mp4"),
		GenerationCompletedAt: &now,
		IncrementDownloads:    true,
	})

	assert.Equal(t,
		"status = $1, progress = $2, generated_video_url = $3, "+
			"generation_completed_at = $4, download_count = download_count + 1, "+
			"updated_at = CURRENT_TIMESTAMP",
		setClause)
	assert.Len(t, args, 4)
}
