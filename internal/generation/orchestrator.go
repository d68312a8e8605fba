package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"video-forge-backend/internal/models"
	"video-forge-backend/internal/realtime"
	"video-forge-backend/internal/store"
)

// ErrNoPlan is returned when generation is requested before a plan has
// been committed.
var ErrNoPlan = errors.New("no generation plan available")

// ErrProjectFinished is returned when generation is invoked on a project
// that already reached a terminal status.
var ErrProjectFinished = errors.New("project is in a terminal state")

const estimatedGenerationSeconds = 120

type ProjectStore interface {
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, update store.ProjectUpdate) (int64, error)
}

type EventPublisher interface {
	PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error
}

// Orchestrator submits generation jobs and owns the background pollers
// that drive projects to a terminal status. Submission is request-scoped;
// polling is not: a poller outlives the request that started it and is
// bounded only by pollInterval times maxAttempts.
type Orchestrator struct {
	store        ProjectStore
	registry     *Registry
	events       EventPublisher
	pollInterval time.Duration
	maxAttempts  int

	pollers sync.WaitGroup
}

func NewOrchestrator(store ProjectStore, registry *Registry, events EventPublisher,
	pollInterval time.Duration, maxAttempts int) *Orchestrator {
	return &Orchestrator{
		store:        store,
		registry:     registry,
		events:       events,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

type StartResult struct {
	JobID         string
	Model         string
	EstimatedTime int
}

// StartGeneration submits the project's plan to the requested backend
// (falling back where the registry says so), records the job handle and
// the backend that actually accepted it, and spawns the poller.
func (o *Orchestrator) StartGeneration(ctx context.Context, projectID, userID uuid.UUID, modelTag string) (*StartResult, error) {
	requested, err := o.registry.Get(modelTag)
	if err != nil {
		return nil, err
	}

	project, err := o.store.GetProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project.Status.IsTerminal() {
		return nil, ErrProjectFinished
	}
	if len(project.GenerationPlan) == 0 {
		return nil, ErrNoPlan
	}

	now := time.Now().UTC()
	if _, err := o.store.UpdateProject(ctx, projectID, userID, store.ProjectUpdate{
		Status:              ptr(models.StatusGenerating),
		Progress:            ptr(0.6),
		SelectedModel:       ptr(modelTag),
		GenerationStartedAt: &now,
	}); err != nil {
		return nil, err
	}

	jobID, backend, err := o.submitWithFallback(ctx, requested, project)
	if err != nil {
		o.writeTerminal(projectID, userID, store.ProjectUpdate{
			Status:       ptr(models.StatusFailed),
			ErrorMessage: ptr(err.Error()),
		}, "generation_failed", realtime.GenerationFailedPayload(projectID, err.Error()))
		return nil, err
	}

	if _, err := o.store.UpdateProject(ctx, projectID, userID, store.ProjectUpdate{
		Status:                 ptr(models.StatusProcessing),
		Progress:               ptr(0.7),
		SelectedModel:          ptr(backend.Name()),
		GenerationJobID:        ptr(jobID),
		EstimatedTimeRemaining: ptr(estimatedGenerationSeconds),
	}); err != nil {
		return nil, err
	}

	o.events.PublishProjectEvent(projectID, "generation_started",
		realtime.GenerationStartedPayload(projectID, jobID, backend.Name()))

	o.pollers.Add(1)
	go func() {
		defer o.pollers.Done()
		o.pollUntilTerminal(projectID, userID, backend, jobID)
	}()

	return &StartResult{
		JobID:         jobID,
		Model:         backend.Name(),
		EstimatedTime: estimatedGenerationSeconds,
	}, nil
}

// submitWithFallback tries the requested backend first. If submission
// fails and a fallback is registered for it, the same plan is submitted
// to the fallback; the returned backend is whichever one accepted the
// job, never the one that was merely requested.
func (o *Orchestrator) submitWithFallback(ctx context.Context, requested Backend, project *models.Project) (string, Backend, error) {
	jobID, err := requested.Submit(ctx, project.GenerationPlan)
	if err == nil {
		return jobID, requested, nil
	}

	fallback, ok := o.registry.Fallback(requested.Name())
	if !ok {
		return "", nil, fmt.Errorf("submission to %s failed: %w", requested.Name(), err)
	}

	log.Printf("Submission to %s failed for project %s, falling back to %s: %v",
		requested.Name(), project.ID, fallback.Name(), err)

	jobID, fbErr := fallback.Submit(ctx, project.GenerationPlan)
	if fbErr != nil {
		return "", nil, fmt.Errorf("submission to %s failed (%v); fallback %s failed: %w",
			requested.Name(), err, fallback.Name(), fbErr)
	}
	return jobID, fallback, nil
}

// pollUntilTerminal polls the backend at a fixed interval for a bounded
// number of attempts and performs exactly one terminal write. It runs on
// a background context so it survives the request that triggered it.
func (o *Orchestrator) pollUntilTerminal(projectID, userID uuid.UUID, backend Backend, jobID string) {
	ctx := context.Background()

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(o.pollInterval)
		}

		result, err := backend.Poll(ctx, jobID)
		if err != nil {
			// Transient poll failures consume an attempt and continue.
			log.Printf("Poll %d/%d for project %s failed: %v", attempt+1, o.maxAttempts, projectID, err)
		} else {
			switch result.State {
			case JobCompleted:
				now := time.Now().UTC()
				o.writeTerminal(projectID, userID, store.ProjectUpdate{
					Status:                 ptr(models.StatusCompleted),
					Progress:               ptr(1.0),
					GeneratedVideoURL:      ptr(result.VideoURL),
					GenerationCompletedAt:  &now,
					EstimatedTimeRemaining: ptr(0),
				}, "generation_completed", realtime.GenerationCompletedPayload(projectID, result.VideoURL))
				return
			case JobFailed:
				o.writeTerminal(projectID, userID, store.ProjectUpdate{
					Status:       ptr(models.StatusFailed),
					ErrorMessage: ptr(result.Error),
				}, "generation_failed", realtime.GenerationFailedPayload(projectID, result.Error))
				return
			}
		}
	}

	message := "generation timeout"
	o.writeTerminal(projectID, userID, store.ProjectUpdate{
		Status:       ptr(models.StatusFailed),
		ErrorMessage: ptr(message),
	}, "generation_failed", realtime.GenerationFailedPayload(projectID, message))
}

// writeTerminal performs the single terminal write for a generation
// attempt. A project that already reached a terminal status is left
// alone, so a stale poller cannot overwrite a newer outcome.
func (o *Orchestrator) writeTerminal(projectID, userID uuid.UUID, update store.ProjectUpdate, event string, payload map[string]interface{}) {
	ctx := context.Background()

	project, err := o.store.GetProject(ctx, projectID, userID)
	if err != nil {
		log.Printf("Terminal write for project %s skipped: %v", projectID, err)
		return
	}
	if project.Status.IsTerminal() {
		log.Printf("Project %s already %s, skipping terminal write", projectID, project.Status)
		return
	}

	if _, err := o.store.UpdateProject(ctx, projectID, userID, update); err != nil {
		log.Printf("Terminal write for project %s failed: %v", projectID, err)
		return
	}

	o.events.PublishProjectEvent(projectID, event, payload)
}

// Wait blocks until all background pollers have finished. In-flight
// polls are not persisted and do not survive a restart.
func (o *Orchestrator) Wait() {
	o.pollers.Wait()
}

func ptr[T any](v T) *T {
	return &v
}
