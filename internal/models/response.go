package models

import (
	"encoding/json"
	"time"
)

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type ProjectResponse struct {
	ID                 string          `json:"project_id"`
	Status             Status          `json:"status"`
	Progress           float64         `json:"progress"`
	SampleVideoPath    string          `json:"sample_video_path,omitempty"`
	CharacterImagePath string          `json:"character_image_path,omitempty"`
	AudioPath          string          `json:"audio_path,omitempty"`
	VideoAnalysis      json.RawMessage `json:"video_analysis,omitempty"`
	GenerationPlan     json.RawMessage `json:"generation_plan,omitempty"`
	ChatHistory        json.RawMessage `json:"chat_history,omitempty"`
	SelectedModel      string          `json:"selected_model,omitempty"`
	GeneratedVideoURL  string          `json:"generated_video_url,omitempty"`
	DownloadCount      int             `json:"download_count"`
	ErrorMessage       string          `json:"error_message,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ExpiresAt          time.Time       `json:"expires_at"`
}

type ProjectListResponse struct {
	Projects []ProjectSummary `json:"projects"`
}

type ProjectSummary struct {
	ID        string    `json:"project_id"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UploadResponse struct {
	ProjectID string `json:"project_id"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
}

type AnalyzeResponse struct {
	ProjectID string          `json:"project_id"`
	Analysis  json.RawMessage `json:"analysis"`
	Plan      json.RawMessage `json:"plan"`
}

type ChatResponse struct {
	Response    string          `json:"response"`
	UpdatedPlan json.RawMessage `json:"updated_plan,omitempty"`
}

type GenerateResponse struct {
	ProjectID     string `json:"project_id"`
	Status        Status `json:"status"`
	GenerationID  string `json:"generation_id"`
	Model         string `json:"model"`
	EstimatedTime int    `json:"estimated_time"`
}

type StatusResponse struct {
	ProjectID              string    `json:"project_id"`
	Status                 Status    `json:"status"`
	Progress               float64   `json:"progress"`
	EstimatedTimeRemaining int       `json:"estimated_time_remaining"`
	ErrorMessage           string    `json:"error_message,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type DownloadResponse struct {
	ProjectID   string `json:"project_id"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
