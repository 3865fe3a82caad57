package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

type snapshotService struct {
	repo        ports.SnapshotRepository
	api         ports.PostAPI
	concurrency int
	logger      *zap.Logger
}

func NewSnapshotService(repo ports.SnapshotRepository, api ports.PostAPI, concurrency int, logger *zap.Logger) ports.SnapshotService {
	if concurrency < 1 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &snapshotService{
		repo:        repo,
		api:         api,
		concurrency: concurrency,
		logger:      logger,
	}
}

// RefreshAll re-fetches every stored post and overwrites its snapshot.
// Posts the remote no longer knows are marked deleted. Per-post failures
// are collected in the report and do not stop the run.
func (s *snapshotService) RefreshAll(ctx context.Context) (ports.SyncReport, error) {
	ids, err := s.repo.ListPostIDs(ctx)
	if err != nil {
		return ports.SyncReport{}, fmt.Errorf("failed to list stored posts: %w", err)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report = ports.SyncReport{Failed: make(map[string]error)}
		sem    = make(chan struct{}, s.concurrency)
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				report.Failed[id] = ctx.Err()
				mu.Unlock()
				return
			}
			defer func() { <-sem }()

			err := s.refresh(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[id] = err
				return
			}
			report.Refreshed++
		}(id)
	}

	wg.Wait()
	s.logger.Info("snapshot refresh finished",
		zap.Int("refreshed", report.Refreshed),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *snapshotService) refresh(ctx context.Context, id string) error {
	post, err := s.api.GetPost(ctx, id)
	if errors.Is(err, domain.ErrPostNotFound) {
		if err := s.repo.MarkDeleted(ctx, id); err != nil {
			return fmt.Errorf("failed to mark post %s deleted: %w", id, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch post %s: %w", id, err)
	}
	if err := post.Validate(); err != nil {
		return err
	}
	if err := s.repo.SavePost(ctx, post); err != nil {
		return fmt.Errorf("failed to store post %s: %w", id, err)
	}
	return nil
}
