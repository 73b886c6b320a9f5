// filepath: internal/services/stats_service.go
package services

import (
	"context"
	"fmt"
	"sort"

	"filedrop/internal/logging"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/storage"

	"github.com/dustin/go-humanize"
)

var _ StatsService = (*statsService)(nil)

// statsService assembles the usage report from a fixed set of
// aggregate queries. It holds no state between calls and is safe for
// concurrent use; every call recomputes the report from scratch.
type statsService struct {
	Repo       *repository.Repository
	Datasource storage.Datasource
}

// NewStatsService creates a new StatsService.
func NewStatsService(repo *repository.Repository, datasource storage.Datasource) *statsService {
	return &statsService{
		Repo:       repo,
		Datasource: datasource,
	}
}

// ComputeUsageReport produces a point-in-time usage snapshot. The
// sub-queries are independent; small cross-query drift under
// concurrent writes is accepted. Any failed sub-query fails the whole
// call with no partial report.
func (s *statsService) ComputeUsageReport(ctx context.Context) (*models.UsageReport, error) {
	// Total bytes come from the storage backend's own accounting, not
	// from summing row metadata. The two may diverge and that is fine.
	size, err := s.Datasource.FullSize()
	if err != nil {
		return nil, fmt.Errorf("failed to measure storage size: %w", err)
	}

	ownerCounts, err := s.Repo.CountFilesByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count files by user: %w", err)
	}

	// Resolve each distinct owner one at a time instead of joining in
	// the store. The owner set is expected to be small and the user
	// cache absorbs repeated lookups.
	countByUser := make([]models.UserCount, 0, len(ownerCounts))
	for _, oc := range ownerCounts {
		user, err := s.Repo.GetUserByID(oc.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve owner %d: %w", oc.UserID, err)
		}
		countByUser = append(countByUser, models.UserCount{
			Username: user.Username,
			Count:    oc.Count,
		})
	}

	countUsers, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	count, err := s.Repo.CountFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	views, err := s.Repo.SumFileViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum views: %w", err)
	}

	typesCount, err := s.Repo.CountFilesByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count files by type: %w", err)
	}

	// Both breakdowns are sorted by count descending. The sort is
	// stable so ties keep the order the grouping produced.
	sort.SliceStable(countByUser, func(i, j int) bool {
		return countByUser[i].Count > countByUser[j].Count
	})
	sort.SliceStable(typesCount, func(i, j int) bool {
		return typesCount[i].Count > typesCount[j].Count
	})

	logging.Log.Debugf("Computed usage report: %d files, %d users, %d views", count, countUsers, views)

	return &models.UsageReport{
		Size:        humanize.Bytes(uint64(size)),
		SizeNum:     size,
		Count:       count,
		CountUsers:  countUsers,
		ViewsCount:  views,
		CountByUser: countByUser,
		TypesCount:  typesCount,
	}, nil
}
