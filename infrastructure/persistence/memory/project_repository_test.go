package memory

import (
	"context"
	"testing"
	"time"

	"buildflow-backend/application/ports"
	"buildflow-backend/domain/project"
	apperrors "buildflow-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(userID, projectID string) *ports.ProjectRecord {
	store := project.NewStore(nil)
	return &ports.ProjectRecord{
		ProjectID: projectID,
		UserID:    userID,
		Name:      "Test Project",
		Snapshot:  store.GetProject(),
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))

	record, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Test Project", record.Name)

	// Timestamps are stored as RFC3339 strings.
	_, err = time.Parse(time.RFC3339, record.CreatedAt)
	assert.NoError(t, err)
	_, err = time.Parse(time.RFC3339, record.UpdatedAt)
	assert.NoError(t, err)
}

func TestGet_Missing(t *testing.T) {
	repo := NewProjectRepository()

	_, err := repo.Get(context.Background(), "u1", "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSave_PreservesCreatedAt(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))
	first, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)

	updated := testRecord("u1", "p1")
	updated.Name = "Renamed"
	require.NoError(t, repo.Save(ctx, updated))

	second, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Renamed", second.Name)
}

func TestGet_ReturnsACopy(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))

	record, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	record.Name = "mutated"

	fresh, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Test Project", fresh.Name)
}

func TestList_ScopedToUser(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))
	require.NoError(t, repo.Save(ctx, testRecord("u1", "p2")))
	require.NoError(t, repo.Save(ctx, testRecord("u2", "p3")))

	records, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = repo.List(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDelete_MissingIsNotAnError(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))
	require.NoError(t, repo.Delete(ctx, "u1", "p1"))
	require.NoError(t, repo.Delete(ctx, "u1", "p1"))

	_, err := repo.Get(ctx, "u1", "p1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSaveDeployment(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	err := repo.SaveDeployment(ctx, "u1", "p1", map[string]interface{}{"projectName": "x"})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, repo.Save(ctx, testRecord("u1", "p1")))
	require.NoError(t, repo.SaveDeployment(ctx, "u1", "p1", map[string]interface{}{"projectName": "x"}))

	record, err := repo.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "x", record.Deployment["projectName"])
}
