package realtime

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// Publisher pushes project lifecycle events to clients subscribed over
// Supabase Realtime.
type Publisher struct {
	client *supabase.Client
}

func NewPublisher(supabaseURL, serviceRoleKey string) (*Publisher, error) {
	client, err := supabase.NewClient(supabaseURL, serviceRoleKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Publisher{client: client}, nil
}

func (p *Publisher) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// Supabase Go client has no direct Realtime publish. Status changes
	// reach subscribers through postgres_changes on the projects table;
	// this hook exists for explicit broadcast once the client grows one.
	return nil
}

func (p *Publisher) PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("project:%s", projectID.String())
	return p.PublishEvent(channel, event, payload)
}

// Event payloads
func AnalysisStartedPayload(projectID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "analyzing",
	}
}

func AnalysisCompletedPayload(projectID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "planning",
	}
}

func AnalysisFailedPayload(projectID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "failed",
		"error":      errorMsg,
	}
}

func GenerationStartedPayload(projectID uuid.UUID, jobID, model string) map[string]interface{} {
	return map[string]interface{}{
		"project_id":    projectID.String(),
		"status":        "processing",
		"generation_id": jobID,
		"model":         model,
	}
}

func GenerationCompletedPayload(projectID uuid.UUID, videoURL string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "completed",
		"video_url":  videoURL,
	}
}

func GenerationFailedPayload(projectID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "failed",
		"error":      errorMsg,
	}
}
