// Package analysis implements the video analysis stage: probe the sample
// media, ask the text-generation backend for an analysis and a
// generation plan, and persist both.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/probe"
	"video-forge-backend/internal/realtime"
	"video-forge-backend/internal/store"
)

// ErrNoSampleVideo is returned when analysis is requested before a
// sample video has been uploaded.
var ErrNoSampleVideo = errors.New("no sample video uploaded")

// ErrProjectFinished is returned when a stage is invoked on a project
// that already reached a terminal status.
var ErrProjectFinished = errors.New("project is in a terminal state")

const systemInstruction = `You are an expert video analysis AI. You analyze sample videos in detail and create comprehensive plans for generating similar videos.

Provide a visual, audio, style, technical and content analysis of the video, then create a detailed generation plan with a scene breakdown, visual and audio requirements, transitions, overall structure and a recommended AI model for generation (runway_gen4, runway_gen3, veo2, veo3).

Return your answer in JSON format with 'analysis' and 'plan' keys.`

const analysisMaxTokens = 2000

type ProjectStore interface {
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, update store.ProjectUpdate) (int64, error)
}

type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

type Prober interface {
	Probe(path string) probe.Metadata
}

type EventPublisher interface {
	PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error
}

type Service struct {
	store  ProjectStore
	llm    Completer
	prober Prober
	events EventPublisher
}

func NewService(store ProjectStore, llm Completer, prober Prober, events EventPublisher) *Service {
	return &Service{
		store:  store,
		llm:    llm,
		prober: prober,
		events: events,
	}
}

type Result struct {
	Analysis json.RawMessage
	Plan     json.RawMessage
}

// AnalyzeProject runs the analysis stage for one project. A probe
// failure degrades the metadata but never fails the stage; a
// text-generation failure is fatal and drives the project to failed.
func (s *Service) AnalyzeProject(ctx context.Context, projectID, userID uuid.UUID) (*Result, error) {
	project, err := s.store.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, ErrProjectFinished
	}
	if !project.SampleVideoPath.Valid || project.SampleVideoPath.String == "" {
		return nil, ErrNoSampleVideo
	}

	if _, err := s.store.UpdateProject(ctx, projectID, userID, store.ProjectUpdate{
		Status:   ptr(models.StatusAnalyzing),
		Progress: ptr(0.2),
	}); err != nil {
		return nil, err
	}
	s.events.PublishProjectEvent(projectID, "analysis_started", realtime.AnalysisStartedPayload(projectID))

	metadata := s.prober.Probe(project.SampleVideoPath.String)
	if metadata.Error != "" {
		log.Printf("Probe failed for project %s, continuing with degraded metadata: %s",
			projectID, metadata.Error)
	}

	prompt := buildAnalysisPrompt(metadata,
		project.CharacterImagePath.Valid && project.CharacterImagePath.String != "",
		project.AudioPath.Valid && project.AudioPath.String != "")

	reply, err := s.llm.Complete(ctx, systemInstruction, prompt, analysisMaxTokens)
	if err != nil {
		s.failProject(ctx, projectID, userID, fmt.Sprintf("video analysis failed: %v", err))
		return nil, fmt.Errorf("video analysis failed: %w", err)
	}

	result := parseAnalysisReply(reply, metadata)

	if _, err := s.store.UpdateProject(ctx, projectID, userID, store.ProjectUpdate{
		Status:         ptr(models.StatusPlanning),
		Progress:       ptr(0.5),
		VideoAnalysis:  result.Analysis,
		GenerationPlan: result.Plan,
	}); err != nil {
		return nil, err
	}
	s.events.PublishProjectEvent(projectID, "analysis_completed", realtime.AnalysisCompletedPayload(projectID))

	return result, nil
}

func (s *Service) failProject(ctx context.Context, projectID, userID uuid.UUID, message string) {
	if _, err := s.store.UpdateProject(ctx, projectID, userID, store.ProjectUpdate{
		Status:       ptr(models.StatusFailed),
		ErrorMessage: ptr(message),
	}); err != nil {
		log.Printf("Failed to mark project %s as failed: %v", projectID, err)
	}
	s.events.PublishProjectEvent(projectID, "analysis_failed", realtime.AnalysisFailedPayload(projectID, message))
}

func buildAnalysisPrompt(metadata probe.Metadata, hasCharacterImage, hasAudio bool) string {
	metadataJSON, _ := json.Marshal(metadata)

	prompt := fmt.Sprintf(`Please analyze this video based on the metadata provided: %s

Provide a comprehensive analysis covering visual elements, audio elements, style and mood, technical aspects, and content. Then create a detailed generation plan for a similar video with a scene-by-scene breakdown, visual and audio requirements, transitions, overall structure, and a suggested AI model for generation (runway_gen4, runway_gen3, veo2, veo3).
`, metadataJSON)

	if hasCharacterImage {
		prompt += "\nCharacter image provided for reference."
	} else {
		prompt += "\nNo character image provided."
	}
	if hasAudio {
		prompt += "\nAudio file provided for reference."
	} else {
		prompt += "\nNo audio file provided."
	}

	prompt += "\n\nReturn response in JSON format with 'analysis' and 'plan' keys."
	return prompt
}

// parseAnalysisReply decodes the expected {"analysis": ..., "plan": ...}
// shape. A reply that does not parse is wrapped rather than rejected: the
// raw text and probe metadata become the analysis, and a default plan is
// substituted.
func parseAnalysisReply(reply string, metadata probe.Metadata) *Result {
	var parsed struct {
		Analysis json.RawMessage `json:"analysis"`
		Plan     json.RawMessage `json:"plan"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err == nil &&
		parsed.Analysis != nil && parsed.Plan != nil {
		return &Result{Analysis: parsed.Analysis, Plan: parsed.Plan}
	}

	fallbackAnalysis, _ := json.Marshal(map[string]interface{}{
		"raw_response": reply,
		"metadata":     metadata,
	})
	fallbackPlan, _ := json.Marshal(map[string]interface{}{
		"description":       "Plan extracted from analysis",
		"recommended_model": "runway_gen4",
		"scenes":            []string{},
	})
	return &Result{Analysis: fallbackAnalysis, Plan: fallbackPlan}
}

func ptr[T any](v T) *T {
	return &v
}
