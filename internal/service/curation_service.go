package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnpath/internal/cache"
	"learnpath/internal/domain"
	"learnpath/internal/dto"
	"learnpath/internal/util"

	"go.uber.org/zap"
)

// BaseSetRatio is the share of the prioritized catalog assigned as the base
// set. Deliberate under-assignment: leaves headroom for AI-recommended
// additions and avoids overwhelming the student. Rounded up, never down.
const BaseSetRatio = 0.7

// visualPreferenceOptions are the section-1 option indices that indicate a
// visual learning preference.
var visualPreferenceOptions = map[int]bool{0: true, 2: true}

// Regeneration replaces assigned content wholesale: base entries outside the
// new filtered set are dropped, progress markers included. Re-diagnosis
// resets the path. Pinned by TestRegeneratePath_ReplacesAssignedContent.
const replaceOnRegenerate = true

// CurationService builds and persists individualized learning paths.
type CurationService interface {
	// RegeneratePath recomputes the student's path from the catalog and
	// persists it, replacing any previous assignment.
	RegeneratePath(ctx context.Context, studentID string) (*domain.StudentPath, error)

	// GetPath returns the persisted path for a student.
	GetPath(ctx context.Context, studentID string) (*dto.StudentPathResponse, error)
}

type curationService struct {
	students domain.StudentRepository
	results  domain.TestResultRepository
	answers  domain.AnswerSetRepository
	catalog  domain.ContentCatalog
	paths    domain.StudentPathRepository
	ranker   domain.Ranker
	cache    domain.Cache
	poolSize int
	logger   *zap.Logger
}

// NewCurationService creates a new instance of curationService.
func NewCurationService(
	students domain.StudentRepository,
	results domain.TestResultRepository,
	answers domain.AnswerSetRepository,
	catalog domain.ContentCatalog,
	paths domain.StudentPathRepository,
	ranker domain.Ranker,
	cacheAdapter domain.Cache,
	poolSize int,
	logger *zap.Logger,
) CurationService {
	return &curationService{
		students: students,
		results:  results,
		answers:  answers,
		catalog:  catalog,
		paths:    paths,
		ranker:   ranker,
		cache:    cacheAdapter,
		poolSize: poolSize,
		logger:   logger,
	}
}

func (s *curationService) RegeneratePath(ctx context.Context, studentID string) (*domain.StudentPath, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get student", err)
	}
	if student == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("student %s not found", studentID))
	}
	if !student.Classified() {
		return nil, domain.NewError(domain.CodeValidation,
			"student has no completed diagnostic test", nil)
	}

	baseItems, err := s.curateBaseSet(ctx, student)
	if err != nil {
		return nil, err
	}

	aiIDs := s.recommendAI(ctx, student, baseItems)

	curriculumPath, err := s.catalog.GetPathByType(ctx, student.DeterminedType)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get curriculum path", err)
	}

	path, err := s.writePath(ctx, student.ID, curriculumPath.ID, baseItems, aiIDs)
	if err != nil {
		return nil, err
	}

	// Stale path reads are worse than a cold cache.
	if err := s.cache.Delete(ctx, cache.StudentPathKey(student.ID)); err != nil {
		s.logger.Warn("Failed to invalidate student path cache",
			zap.String("student_id", student.ID), zap.Error(err))
	}

	s.logger.Info("Regenerated student path",
		zap.String("student_id", student.ID),
		zap.Int("base_count", len(baseItems)),
		zap.Int("ai_count", len(aiIDs)),
	)
	return path, nil
}

// curateBaseSet filters the catalog to the student's exact (type, band)
// partition, prioritizes by stylistic preference and takes the 70% head.
// An empty catalog yields a valid empty base set, not an error.
func (s *curationService) curateBaseSet(ctx context.Context, student *domain.Student) ([]*domain.ContentItem, error) {
	items, err := s.catalog.FindPublished(ctx, student.DeterminedType, student.CurrentDifficulty)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to query content catalog", err)
	}
	if len(items) == 0 {
		s.logger.Info("No content available for student partition",
			zap.String("student_id", student.ID),
			zap.String("type", string(student.DeterminedType)),
			zap.String("difficulty", string(student.CurrentDifficulty)),
		)
		return nil, nil
	}

	preferred := s.preferredContentType(ctx, student.ID)
	prioritized := stablePartitionByType(items, preferred)

	baseSize := util.CeilPortion(len(prioritized), BaseSetRatio)
	return prioritized[:baseSize], nil
}

// preferredContentType extracts the stylistic preference signal from the
// student's section-1 answers. Any visual-indicator option selected means
// video content sorts first. Missing answers degrade to no preference.
func (s *curationService) preferredContentType(ctx context.Context, studentID string) domain.ContentType {
	answerSet, err := s.answers.GetByStudentID(ctx, studentID)
	if err != nil || answerSet == nil {
		if err != nil {
			s.logger.Warn("Failed to load answer set for preference signals",
				zap.String("student_id", studentID), zap.Error(err))
		}
		return ""
	}
	for _, selected := range answerSet.Section1 {
		if visualPreferenceOptions[selected] {
			return domain.ContentTypeVideo
		}
	}
	return ""
}

// stablePartitionByType puts items of the preferred content type first while
// preserving relative order within both groups. A stable partition, not a
// re-sort: ties keep catalog order.
func stablePartitionByType(items []*domain.ContentItem, preferred domain.ContentType) []*domain.ContentItem {
	if preferred == "" {
		return items
	}
	out := make([]*domain.ContentItem, 0, len(items))
	for _, it := range items {
		if it.ContentType == preferred {
			out = append(out, it)
		}
	}
	for _, it := range items {
		if it.ContentType != preferred {
			out = append(out, it)
		}
	}
	return out
}

// recommendAI asks the ranker for supplementary content. Best-effort: any
// failure degrades to no recommendations and never blocks curation.
func (s *curationService) recommendAI(ctx context.Context, student *domain.Student, baseItems []*domain.ContentItem) []string {
	pool, err := s.catalog.FindCandidatePool(ctx, student.CurrentDifficulty, s.poolSize)
	if err != nil {
		s.logger.Warn("Failed to query AI candidate pool, continuing with base set only",
			zap.String("student_id", student.ID), zap.Error(err))
		return nil
	}
	if len(pool) == 0 {
		return nil
	}

	input := domain.RankInput{
		StudentType: student.DeterminedType,
		Candidates:  pool,
		BaseIDs:     contentIDs(baseItems),
	}
	if result, err := s.results.GetByStudentID(ctx, student.ID); err == nil && result != nil {
		input.AutismScore = result.AutismScore
		input.DownSyndromeScore = result.DownSyndromeScore
		input.Accuracy = result.Accuracy
	}

	ids, err := s.ranker.Recommend(ctx, input)
	if err != nil {
		s.logger.Warn("AI ranking degraded, continuing with base set only",
			zap.String("student_id", student.ID), zap.Error(err))
		return nil
	}
	return ids
}

// writePath upserts the student path. AI entries are prepended as
// high-priority; base entries carry normal priority. Idempotent under
// repeated calls with identical inputs, modulo AddedDate timestamps.
func (s *curationService) writePath(ctx context.Context, studentID, curriculumPathID string, baseItems []*domain.ContentItem, aiIDs []string) (*domain.StudentPath, error) {
	now := time.Now()

	baseIDs := make(map[string]bool, len(baseItems))
	for _, it := range baseItems {
		baseIDs[it.ID] = true
	}

	entries := make([]domain.AssignedContentEntry, 0, len(baseItems)+len(aiIDs))
	for _, id := range aiIDs {
		// The ranker already excludes base ids; guard again here so the
		// written path never carries duplicates.
		if baseIDs[id] {
			continue
		}
		entries = append(entries, domain.AssignedContentEntry{
			ContentID:     id,
			Status:        domain.EntryStatusPending,
			Priority:      domain.PriorityHigh,
			AIRecommended: true,
			AddedDate:     now,
		})
	}
	for _, it := range baseItems {
		entries = append(entries, domain.AssignedContentEntry{
			ContentID: it.ID,
			Status:    domain.EntryStatusPending,
			Priority:  domain.PriorityNormal,
			AddedDate: now,
		})
	}

	path, err := s.paths.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get student path", err)
	}
	if path == nil {
		path = &domain.StudentPath{
			ID:        util.NewULID(),
			StudentID: studentID,
			CreatedAt: now,
		}
	}
	path.CurriculumPathID = curriculumPathID
	if replaceOnRegenerate {
		path.AssignedContent = entries
	}
	path.Status = domain.PathStatusInProgress
	path.UpdatedAt = now

	if err := s.paths.Save(ctx, path); err != nil {
		return nil, domain.NewPersistenceError("failed to save student path", err)
	}
	return path, nil
}

func (s *curationService) GetPath(ctx context.Context, studentID string) (*dto.StudentPathResponse, error) {
	if cached, err := s.cache.Get(ctx, cache.StudentPathKey(studentID)); err == nil {
		var resp dto.StudentPathResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	path, err := s.paths.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get student path", err)
	}
	if path == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("no learning path for student %s", studentID))
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to get student", err)
	}

	resp := &dto.StudentPathResponse{
		CurriculumPathID: path.CurriculumPathID,
		Status:           string(path.Status),
	}
	if student != nil {
		resp.PathType = string(student.DeterminedType)
		resp.CurrentDifficulty = string(student.CurrentDifficulty)
		if curriculumPath, err := s.catalog.GetPathByType(ctx, student.DeterminedType); err == nil && curriculumPath != nil {
			resp.Title = curriculumPath.Title
		}
	}
	for _, e := range path.AssignedContent {
		resp.AssignedContent = append(resp.AssignedContent, dto.AssignedContentEntryResponse{
			ContentID:     e.ContentID,
			Status:        string(e.Status),
			Priority:      string(e.Priority),
			AIRecommended: e.AIRecommended,
			AddedDate:     e.AddedDate,
		})
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, cache.StudentPathKey(studentID), string(payload), cache.StudentPathTTL); err != nil {
			s.logger.Warn("Failed to cache student path", zap.String("student_id", studentID), zap.Error(err))
		}
	}
	return resp, nil
}

func contentIDs(items []*domain.ContentItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
