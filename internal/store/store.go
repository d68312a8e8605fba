// Package store provides owner-scoped persistence for users and video
// projects over PostgreSQL. Point lookups and mutations always match on
// (id, user_id) so that a caller can never touch another owner's row.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"video-forge-backend/internal/models"
)

// ErrNotFound is returned when a row does not exist for the given
// (id, owner) pair. An ownership mismatch is indistinguishable from a
// missing row.
var ErrNotFound = errors.New("not found")

const projectColumns = `id, user_id, status, progress, estimated_time_remaining,
	download_count, sample_video_path, character_image_path, audio_path,
	video_analysis, generation_plan, chat_history, selected_model,
	generation_job_id, generated_video_url, generation_started_at,
	generation_completed_at, error_message, created_at, updated_at, expires_at`

type Store struct {
	db *sql.DB
}

func New(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an already opened connection pool.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateProject(ctx context.Context, userID uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO video_projects (id, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING `+projectColumns, uuid.New(), userID, models.StatusUploading)

	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *Store) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM video_projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)

	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *Store) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM video_projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	return projects, rows.Err()
}

// UpdateProject applies a partial update to the (id, owner) row and
// returns the number of rows matched. Zero rows means the project does
// not exist for that owner; that is not an error here, callers decide.
func (s *Store) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, update ProjectUpdate) (int64, error) {
	setClause, args := BuildProjectUpdate(update)
	if setClause == "" {
		return 0, fmt.Errorf("empty project update")
	}

	args = append(args, projectID, userID)
	query := fmt.Sprintf(`
		UPDATE video_projects
		SET %s
		WHERE id = $%d AND user_id = $%d
	`, setClause, len(args)-1, len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows, nil
}

// DeleteProject removes the (id, owner) row. The first call for an
// existing project returns true, any later call returns false.
func (s *Store) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM video_projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// nullableJSON scans a jsonb column that may be NULL. A NULL leaves the
// destination nil so that "no plan yet" stays distinguishable from an
// empty document.
type nullableJSON struct {
	dst *json.RawMessage
}

func (n nullableJSON) Scan(src any) error {
	if src == nil {
		*n.dst = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		buf := make(json.RawMessage, len(v))
		copy(buf, v)
		*n.dst = buf
		return nil
	case string:
		*n.dst = json.RawMessage(v)
		return nil
	}
	return fmt.Errorf("unsupported jsonb value of type %T", src)
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.UserID, &p.Status, &p.Progress, &p.EstimatedTimeRemaining,
		&p.DownloadCount, &p.SampleVideoPath, &p.CharacterImagePath, &p.AudioPath,
		nullableJSON{&p.VideoAnalysis}, nullableJSON{&p.GenerationPlan}, &p.ChatHistory, &p.SelectedModel,
		&p.GenerationJobID, &p.GeneratedVideoURL, &p.GenerationStartedAt,
		&p.GenerationCompletedAt, &p.ErrorMessage, &p.CreatedAt, &p.UpdatedAt, &p.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
