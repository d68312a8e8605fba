package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RetentionWindow is how long a project's artifacts are kept after creation.
const RetentionWindow = 7 * 24 * time.Hour

type Project struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	Status                 Status
	Progress               float64
	EstimatedTimeRemaining int
	DownloadCount          int
	SampleVideoPath        sql.NullString
	CharacterImagePath     sql.NullString
	AudioPath              sql.NullString
	VideoAnalysis          json.RawMessage
	GenerationPlan         json.RawMessage
	ChatHistory            json.RawMessage
	SelectedModel          sql.NullString
	GenerationJobID        sql.NullString
	GeneratedVideoURL      sql.NullString
	GenerationStartedAt    sql.NullTime
	GenerationCompletedAt  sql.NullTime
	ErrorMessage           sql.NullString
	CreatedAt              time.Time
	UpdatedAt              time.Time
	ExpiresAt              time.Time
}

type User struct {
	ID                 uuid.UUID
	Email              string
	SubscriptionStatus string
	Metadata           json.RawMessage
	CreatedAt          time.Time
	LastLogin          time.Time
}
