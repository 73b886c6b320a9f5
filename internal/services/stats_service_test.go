// filepath: internal/services/stats_service_test.go
package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"filedrop/internal/config"
	"filedrop/internal/models"
	"filedrop/internal/repository"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDatasource reports a fixed size and fails on demand.
type stubDatasource struct {
	size int64
	err  error
}

func (d *stubDatasource) Save(string, io.Reader) (int64, error) { return 0, nil }
func (d *stubDatasource) Open(string) (io.ReadCloser, error)    { return nil, nil }
func (d *stubDatasource) Delete(string) error                   { return nil }
func (d *stubDatasource) FullSize() (int64, error)              { return d.size, d.err }

func setupTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(t.TempDir(), "test.db"),
		},
	}
	require.NoError(t, cfg.ParseAndValidate())

	repo, err := repository.NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.MigrateUp(context.Background()))
	return repo
}

func seedStatsFile(t *testing.T, repo *repository.Repository, userID int64, mimetype string, views int64) {
	t.Helper()
	require.NoError(t, repo.CreateFile(&models.File{
		ID:        ulid.Make().String(),
		Name:      ulid.Make().String(),
		MimeType:  mimetype,
		Size:      64,
		Views:     views,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}))
}

func TestComputeUsageReport_EmptyStore(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewStatsService(repo, &stubDatasource{size: 0})

	report, err := svc.ComputeUsageReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), report.SizeNum)
	assert.Equal(t, int64(0), report.Count)
	assert.Equal(t, int64(0), report.CountUsers)
	assert.Equal(t, int64(0), report.ViewsCount)
	assert.Empty(t, report.CountByUser)
	assert.Empty(t, report.TypesCount)
}

func TestComputeUsageReport_Breakdowns(t *testing.T) {
	repo := setupTestRepo(t)

	userA, err := repo.CreateUser(&repository.UserCreateArgs{Username: "a", Password: "pw"})
	require.NoError(t, err)
	userB, err := repo.CreateUser(&repository.UserCreateArgs{Username: "b", Password: "pw"})
	require.NoError(t, err)

	// User A: two png files. User B: one json file.
	seedStatsFile(t, repo, userA.ID, "image/png", 4)
	seedStatsFile(t, repo, userA.ID, "image/png", 0)
	seedStatsFile(t, repo, userB.ID, "application/json", 6)

	svc := NewStatsService(repo, &stubDatasource{size: 1 << 20})
	report, err := svc.ComputeUsageReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1<<20), report.SizeNum)
	assert.NotEmpty(t, report.Size)
	assert.Equal(t, int64(3), report.Count)
	assert.Equal(t, int64(2), report.CountUsers)
	assert.Equal(t, int64(10), report.ViewsCount)

	require.Len(t, report.CountByUser, 2)
	assert.Equal(t, models.UserCount{Username: "a", Count: 2}, report.CountByUser[0])
	assert.Equal(t, models.UserCount{Username: "b", Count: 1}, report.CountByUser[1])

	require.Len(t, report.TypesCount, 2)
	assert.Equal(t, models.TypeCount{MimeType: "image/png", Count: 2}, report.TypesCount[0])
	assert.Equal(t, models.TypeCount{MimeType: "application/json", Count: 1}, report.TypesCount[1])
}

func TestComputeUsageReport_ViewsSumIsOrderIndependent(t *testing.T) {
	repo := setupTestRepo(t)
	user, err := repo.CreateUser(&repository.UserCreateArgs{Username: "u", Password: "pw"})
	require.NoError(t, err)

	// Views distribution must not matter, only the total.
	for _, views := range []int64{7, 0, 1, 12} {
		seedStatsFile(t, repo, user.ID, "text/plain", views)
	}

	svc := NewStatsService(repo, &stubDatasource{})
	report, err := svc.ComputeUsageReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20), report.ViewsCount)
}

func TestComputeUsageReport_StableOrdering(t *testing.T) {
	repo := setupTestRepo(t)

	userA, err := repo.CreateUser(&repository.UserCreateArgs{Username: "a", Password: "pw"})
	require.NoError(t, err)
	userB, err := repo.CreateUser(&repository.UserCreateArgs{Username: "b", Password: "pw"})
	require.NoError(t, err)
	seedStatsFile(t, repo, userA.ID, "image/png", 0)
	seedStatsFile(t, repo, userB.ID, "image/gif", 0)

	svc := NewStatsService(repo, &stubDatasource{})

	// Identical data in, identical order out, run after run.
	first, err := svc.ComputeUsageReport(context.Background())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		next, err := svc.ComputeUsageReport(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first.CountByUser, next.CountByUser)
		assert.Equal(t, first.TypesCount, next.TypesCount)
	}
}

func TestComputeUsageReport_NoPartialReport(t *testing.T) {
	repo := setupTestRepo(t)
	svc := NewStatsService(repo, &stubDatasource{err: errors.New("backend down")})

	report, err := svc.ComputeUsageReport(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}
