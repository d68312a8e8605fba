package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"video-forge-backend/internal/models"
)

// ProjectUpdate is a partial update for a project row. Nil fields are
// left untouched. JSON blobs are written as-is; the store never inspects
// their contents. IncrementDownloads adds one to download_count rather
// than replacing it.
type ProjectUpdate struct {
	Status                 *models.Status
	Progress               *float64
	EstimatedTimeRemaining *int
	SampleVideoPath        *string
	CharacterImagePath     *string
	AudioPath              *string
	VideoAnalysis          json.RawMessage
	GenerationPlan         json.RawMessage
	ChatHistory            json.RawMessage
	SelectedModel          *string
	GenerationJobID        *string
	GeneratedVideoURL      *string
	GenerationStartedAt    *time.Time
	GenerationCompletedAt  *time.Time
	ErrorMessage           *string
	IncrementDownloads     bool
}

// BuildProjectUpdate renders the SET clause and argument list for a
// partial update. updated_at is always refreshed. Placeholders start at
// $1; the caller appends its WHERE arguments after these.
func BuildProjectUpdate(u ProjectUpdate) (string, []any) {
	var clauses []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setJSON := func(column string, value json.RawMessage) {
		args = append(args, []byte(value))
		clauses = append(clauses, fmt.Sprintf("%s = $%d::jsonb", column, len(args)))
	}

	if u.Status != nil {
		set("status", *u.Status)
	}
	if u.Progress != nil {
		set("progress", *u.Progress)
	}
	if u.EstimatedTimeRemaining != nil {
		set("estimated_time_remaining", *u.EstimatedTimeRemaining)
	}
	if u.SampleVideoPath != nil {
		set("sample_video_path", *u.SampleVideoPath)
	}
	if u.CharacterImagePath != nil {
		set("character_image_path", *u.CharacterImagePath)
	}
	if u.AudioPath != nil {
		set("audio_path", *u.AudioPath)
	}
	if u.VideoAnalysis != nil {
		setJSON("video_analysis", u.VideoAnalysis)
	}
	if u.GenerationPlan != nil {
		setJSON("generation_plan", u.GenerationPlan)
	}
	if u.ChatHistory != nil {
		setJSON("chat_history", u.ChatHistory)
	}
	if u.SelectedModel != nil {
		set("selected_model", *u.SelectedModel)
	}
	if u.GenerationJobID != nil {
		set("generation_job_id", *u.GenerationJobID)
	}
	if u.GeneratedVideoURL != nil {
		set("generated_video_url", *u.GeneratedVideoURL)
	}
	if u.GenerationStartedAt != nil {
		set("generation_started_at", *u.GenerationStartedAt)
	}
	if u.GenerationCompletedAt != nil {
		set("generation_completed_at", *u.GenerationCompletedAt)
	}
	if u.ErrorMessage != nil {
		set("error_message", *u.ErrorMessage)
	}
	if u.IncrementDownloads {
		clauses = append(clauses, "download_count = download_count + 1")
	}

	if len(clauses) == 0 {
		return "", nil
	}

	clauses = append(clauses, "updated_at = CURRENT_TIMESTAMP")
	return strings.Join(clauses, ", "), args
}
