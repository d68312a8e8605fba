// Package chat implements plan refinement: a free-form conversation that
// may replace a project's generation plan. Chat never changes project
// status; a backend failure is reported to the caller and leaves the
// project untouched.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/store"
)

const systemInstruction = `You are an AI assistant helping users modify video generation plans.

You receive the current generation plan and user requests for modifications. Understand what the user wants to change, provide helpful suggestions, and update the generation plan if requested. When updating plans, maintain the JSON structure and only modify relevant sections.

Always return your response in JSON format with 'response' and 'updated_plan' keys (updated_plan is optional).`

const chatMaxTokens = 1000

// contextExchanges is how many recent exchanges are fed back into the
// prompt. The persisted history itself is capped at
// models.MaxChatHistory.
const contextExchanges = 3

type ProjectStore interface {
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, update store.ProjectUpdate) (int64, error)
}

type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

type Service struct {
	store ProjectStore
	llm   Completer
}

func NewService(store ProjectStore, llm Completer) *Service {
	return &Service{store: store, llm: llm}
}

type Result struct {
	Response    string
	UpdatedPlan json.RawMessage
}

// SendMessage runs one refinement exchange. A reply that does not parse
// as the documented shape is returned verbatim with the stored plan left
// unchanged; a parsed updated_plan replaces the stored plan outright.
func (s *Service) SendMessage(ctx context.Context, projectID, userID uuid.UUID, message string) (*Result, error) {
	project, err := s.store.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	var history []models.ChatEntry
	if len(project.ChatHistory) > 0 {
		// A malformed history blob is ignored rather than blocking chat.
		_ = json.Unmarshal(project.ChatHistory, &history)
	}

	prompt := buildChatPrompt(message, project.GenerationPlan, history)

	reply, err := s.llm.Complete(ctx, systemInstruction, prompt, chatMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	result := parseChatReply(reply)

	history = models.AppendChatEntry(history, models.ChatEntry{
		UserMessage: message,
		AIResponse:  result.Response,
		Timestamp:   time.Now().UTC(),
	})
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat history: %w", err)
	}

	update := store.ProjectUpdate{ChatHistory: historyJSON}
	if result.UpdatedPlan != nil {
		update.GenerationPlan = result.UpdatedPlan
	}
	if _, err := s.store.UpdateProject(ctx, projectID, userID, update); err != nil {
		return nil, err
	}

	return result, nil
}

func buildChatPrompt(message string, plan json.RawMessage, history []models.ChatEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User message: %s\n", message)

	if len(plan) > 0 {
		fmt.Fprintf(&b, "\nCurrent generation plan:\n%s\n", plan)
	}

	if len(history) > 0 {
		recent := history
		if len(recent) > contextExchanges {
			recent = recent[len(recent)-contextExchanges:]
		}
		b.WriteString("\nRecent conversation:\n")
		for _, entry := range recent {
			fmt.Fprintf(&b, "User: %s\n", entry.UserMessage)
			fmt.Fprintf(&b, "AI: %s\n", entry.AIResponse)
		}
	}

	b.WriteString("\nPlease provide a helpful response about modifying the video generation plan. If the user wants to change something specific, provide updated plan suggestions.\n")
	b.WriteString("\nReturn response in JSON format with 'response' and optionally 'updated_plan' keys.")

	return b.String()
}

func parseChatReply(reply string) *Result {
	var parsed struct {
		Response    string          `json:"response"`
		UpdatedPlan json.RawMessage `json:"updated_plan"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil || parsed.Response == "" {
		return &Result{Response: reply}
	}
	return &Result{Response: parsed.Response, UpdatedPlan: parsed.UpdatedPlan}
}
