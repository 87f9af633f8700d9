package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nihi-lo/tempura/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.MigrateUp(context.Background())
	require.NoError(t, err)
	return database
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := OpenInMemory()
	require.NoError(t, err)
	defer database.Close()

	applied, err := database.MigrateUp(ctx)
	require.NoError(t, err)
	require.Equal(t, len(migrations), applied)

	applied, err = database.MigrateUp(ctx)
	require.NoError(t, err)
	require.Zero(t, applied)
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	require.Equal(t, path, database.Path())
	_, err = database.MigrateUp(context.Background())
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestMaterializationRepositoryCreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterializationRepository(setupTestDB(t))

	rec := &models.Materialization{
		Template:    "nextjs-approuter-ts",
		Destination: "/tmp/demo",
		Status:      models.MaterializationSucceeded,
		FileCount:   12,
		Variables:   map[string]string{"projectName": "demo"},
		Duration:    1500 * time.Millisecond,
	}
	require.NoError(t, repo.Create(ctx, rec))
	require.NotEmpty(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Template, got.Template)
	require.Equal(t, rec.Destination, got.Destination)
	require.Equal(t, models.MaterializationSucceeded, got.Status)
	require.Equal(t, 12, got.FileCount)
	require.Equal(t, "demo", got.Variables["projectName"])
	require.Equal(t, 1500*time.Millisecond, got.Duration)
	require.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	require.Empty(t, got.ErrorKind)
}

func TestMaterializationRepositoryGetMissing(t *testing.T) {
	repo := NewMaterializationRepository(setupTestDB(t))
	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrMaterializationNotFound)
}

func TestMaterializationRepositoryCreateInvalid(t *testing.T) {
	repo := NewMaterializationRepository(setupTestDB(t))
	err := repo.Create(context.Background(), &models.Materialization{Template: "x"})
	require.ErrorIs(t, err, ErrInvalidMaterialization)
}

func TestMaterializationRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterializationRepository(setupTestDB(t))
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	records := []*models.Materialization{
		{Template: "vite-react-tw-ts", Destination: "/a", Status: models.MaterializationSucceeded, CreatedAt: base},
		{Template: "vite-react-tw-ts", Destination: "/a", Status: models.MaterializationFailed, ErrorKind: "DestinationNotEmpty", Error: "destination /a is not empty", CreatedAt: base.Add(time.Minute)},
		{Template: "nextjs-approuter-ts", Destination: "/b", Status: models.MaterializationSucceeded, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		require.NoError(t, repo.Create(ctx, rec))
	}

	all, err := repo.List(ctx, MaterializationQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "nextjs-approuter-ts", all[0].Template)

	vite, err := repo.List(ctx, MaterializationQuery{Template: "vite-react-tw-ts"})
	require.NoError(t, err)
	require.Len(t, vite, 2)
	require.Equal(t, models.MaterializationFailed, vite[0].Status)
	require.Equal(t, "DestinationNotEmpty", vite[0].ErrorKind)

	failed, err := repo.List(ctx, MaterializationQuery{Status: models.MaterializationFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)

	limited, err := repo.List(ctx, MaterializationQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
