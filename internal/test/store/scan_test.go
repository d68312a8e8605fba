package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-forge-backend/internal/store"
)

// projectRowDriver serves a single canned video_projects row so that
// reads run through database/sql's conversion layer. The DSN selects
// whether the jsonb analysis and plan columns hold documents or NULL.
type projectRowDriver struct{}

func (projectRowDriver) Open(name string) (driver.Conn, error) {
	return &projectRowConn{withJSON: name == "populated"}, nil
}

type projectRowConn struct {
	withJSON bool
}

func (c *projectRowConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *projectRowConn) Close() error { return nil }

func (c *projectRowConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *projectRowConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	return &projectRows{withJSON: c.withJSON}, nil
}

var projectRowColumns = []string{
	"id", "user_id", "status", "progress", "estimated_time_remaining",
	"download_count", "sample_video_path", "character_image_path", "audio_path",
	"video_analysis", "generation_plan", "chat_history", "selected_model",
	"generation_job_id", "generated_video_url", "generation_started_at",
	"generation_completed_at", "error_message", "created_at", "updated_at", "expires_at",
}

const (
	cannedProjectID = "0f3c1a52-7d4e-4b8a-9c21-55e6a1b0d4f7"
	cannedOwnerID   = "9b82e6d0-14af-47c3-8d5b-3f0c92a71e64"
)

type projectRows struct {
	withJSON bool
	served   bool
}

func (r *projectRows) Columns() []string { return projectRowColumns }

func (r *projectRows) Close() error { return nil }

func (r *projectRows) Next(dest []driver.Value) error {
	if r.served {
		return io.EOF
	}
	r.served = true

	var analysis, plan driver.Value
	if r.withJSON {
		analysis = []byte(`{"style": "cinematic", "pacing": "fast"}`)
		plan = []byte(`{"scenes": [{"description": "wide shot"}]}`)
	}

	now := time.Now()
	values := []driver.Value{
		cannedProjectID, cannedOwnerID, "uploading", float64(0), int64(0),
		int64(0), nil, nil, nil,
		analysis, plan, []byte(`[]`), nil,
		nil, nil, nil,
		nil, nil, now, now, now.Add(7 * 24 * time.Hour),
	}
	copy(dest, values)
	return nil
}

func init() {
	sql.Register("projectrow", projectRowDriver{})
}

func openProjectRowStore(t *testing.T, dsn string) *store.Store {
	db, err := sql.Open("projectrow", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewWithDB(db)
}

func TestCreateProject_ScansNullJSONColumns(t *testing.T) {
	s := openProjectRowStore(t, "null")

	project, err := s.CreateProject(context.Background(), uuid.MustParse(cannedOwnerID))
	require.NoError(t, err)

	assert.Equal(t, cannedProjectID, project.ID.String())
	assert.Nil(t, project.VideoAnalysis)
	assert.Nil(t, project.GenerationPlan)
	assert.Equal(t, `[]`, string(project.ChatHistory))
	assert.False(t, project.SampleVideoPath.Valid)
	assert.False(t, project.GenerationStartedAt.Valid)
}

func TestGetProject_ScansJSONDocuments(t *testing.T) {
	s := openProjectRowStore(t, "populated")

	project, err := s.GetProject(context.Background(),
		uuid.MustParse(cannedProjectID), uuid.MustParse(cannedOwnerID))
	require.NoError(t, err)

	assert.JSONEq(t, `{"style": "cinematic", "pacing": "fast"}`, string(project.VideoAnalysis))
	assert.JSONEq(t, `{"scenes": [{"description": "wide shot"}]}`, string(project.GenerationPlan))
}

func TestListProjects_ScansNullJSONColumns(t *testing.T) {
	s := openProjectRowStore(t, "null")

	projects, err := s.ListProjects(context.Background(), uuid.MustParse(cannedOwnerID))
	require.NoError(t, err)
	require.Len(t, projects, 1)

	assert.Nil(t, projects[0].VideoAnalysis)
	assert.Nil(t, projects[0].GenerationPlan)
}
