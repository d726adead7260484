package service

import (
	"context"
	"sync"
	"time"

	"learnpath/internal/domain"
	"learnpath/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BatchService regenerates learning paths for the whole student population.
type BatchService interface {
	// RegenerateAll runs curation for every classified student. Students
	// without a completed diagnostic are skipped. Each student runs in
	// isolation: a failure is recorded in the report, never aborts the
	// batch. Context cancellation stops scheduling new students; in-flight
	// ones finish independently.
	RegenerateAll(ctx context.Context) (*dto.RegenerateReportResponse, error)
}

type batchService struct {
	students    domain.StudentRepository
	curation    CurationService
	concurrency int64
	logger      *zap.Logger
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(
	students domain.StudentRepository,
	curation CurationService,
	concurrency int,
	logger *zap.Logger,
) BatchService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &batchService{
		students:    students,
		curation:    curation,
		concurrency: int64(concurrency),
		logger:      logger,
	}
}

func (s *batchService) RegenerateAll(ctx context.Context) (*dto.RegenerateReportResponse, error) {
	start := time.Now()
	s.logger.Info("Starting batch path regeneration", zap.Int64("concurrency", s.concurrency))

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list students", err)
	}

	report := &dto.RegenerateReportResponse{Failed: []dto.BatchFailureResponse{}}
	var mu sync.Mutex

	// Concurrency is bounded to avoid overwhelming the external AI
	// endpoint. Workers never return an error into the group: per-student
	// failures belong in the report.
	sem := semaphore.NewWeighted(s.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for _, student := range students {
		if !student.Classified() {
			report.Skipped++
			continue
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			// Context cancelled: stop scheduling, let in-flight jobs finish.
			break
		}
		student := student
		g.Go(func() error {
			defer sem.Release(1)
			if _, err := s.curation.RegeneratePath(gctx, student.ID); err != nil {
				s.logger.Error("Path regeneration failed for student",
					zap.String("student_id", student.ID), zap.Error(err))
				mu.Lock()
				report.Failed = append(report.Failed, dto.BatchFailureResponse{
					StudentID: student.ID,
					Error:     err.Error(),
				})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			report.Succeeded++
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	s.logger.Info("Batch path regeneration completed",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}
