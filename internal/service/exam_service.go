package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
)

type examRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Exam, error)
	Create(ctx context.Context, courseID string, in dto.ExamInput) (*models.Exam, error)
	Update(ctx context.Context, id string, in dto.ExamInput) (*models.Exam, error)
	Delete(ctx context.Context, id string) error
}

var examMessages = map[string]string{"Name": "Exam name is required."}

// ExamService manages the exams of the selected course.
type ExamService struct {
	repo examRepository
	list *ListController[models.Exam, struct{}]

	mu       sync.RWMutex
	courseID string
}

// NewExamService constructs an ExamService.
func NewExamService(repo examRepository, deps ListDeps) *ExamService {
	s := &ExamService{repo: repo}
	s.list = NewListController[models.Exam, struct{}]("exams", s.fetch, deps)
	return s
}

func (s *ExamService) fetch(ctx context.Context, _ struct{}) ([]models.Exam, error) {
	courseID := s.CourseID()
	if courseID == "" {
		return []models.Exam{}, nil
	}
	return s.repo.ListByCourse(ctx, courseID)
}

// Use selects a course and loads its exams.
func (s *ExamService) Use(ctx context.Context, courseID string) error {
	s.mu.Lock()
	s.courseID = strings.TrimSpace(courseID)
	s.mu.Unlock()
	s.list.Reset()
	return s.list.Load(ctx)
}

// Reset drops the selected course and its exams.
func (s *ExamService) Reset() {
	s.mu.Lock()
	s.courseID = ""
	s.mu.Unlock()
	s.list.Reset()
}

// CourseID returns the selected course.
func (s *ExamService) CourseID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseID
}

// Load reloads the exams.
func (s *ExamService) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Items returns the exams in stored order.
func (s *ExamService) Items() []models.Exam {
	return s.list.Items()
}

// Create schedules an exam in the selected course.
func (s *ExamService) Create(ctx context.Context, in dto.ExamInput) (*models.Exam, error) {
	in = trimExam(in)
	courseID := s.CourseID()
	return s.list.Create(ctx, Mutation{
		Input:          in,
		Messages:       examMessages,
		SuccessMessage: "Exam added.",
		FailureMessage: "Failed to add exam.",
	}, func(ctx context.Context) (*models.Exam, error) {
		return s.repo.Create(ctx, courseID, in)
	})
}

// Update edits an exam in place.
func (s *ExamService) Update(ctx context.Context, id string, in dto.ExamInput) (*models.Exam, error) {
	in = trimExam(in)
	return s.list.Update(ctx, id, Mutation{
		Input:          in,
		Messages:       examMessages,
		SuccessMessage: "Exam updated.",
		FailureMessage: "Failed to update exam.",
	}, func(ctx context.Context) (*models.Exam, error) {
		return s.repo.Update(ctx, id, in)
	})
}

// Delete removes an exam after confirmation.
func (s *ExamService) Delete(ctx context.Context, id string) (bool, error) {
	return s.list.Delete(ctx, id, Removal{
		Confirm: notify.ConfirmRequest{
			Title:       "Delete Exam",
			Message:     "Are you sure you want to delete this exam? This cannot be undone.",
			ConfirmText: "Delete",
			CancelText:  "Cancel",
			Danger:      true,
		},
		SuccessMessage: "Exam deleted.",
		FailureMessage: "Failed to delete exam.",
	}, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// EditInput returns the current values of an exam as an editable form.
func (s *ExamService) EditInput(id string) (dto.ExamInput, bool) {
	exam, ok := s.list.Find(id)
	if !ok {
		return dto.ExamInput{}, false
	}
	return dto.ExamInput{Name: exam.Name, ExamAt: exam.ExamAt, BatchName: exam.BatchName, IsLocked: exam.IsLocked}, true
}

// SortedByDate returns the exams latest first; undated exams go last.
func (s *ExamService) SortedByDate() []models.Exam {
	return SortExamsByDate(s.list.Items())
}

// Close stops pending work.
func (s *ExamService) Close() {
	s.list.Close()
}

// SortExamsByDate orders exams by exam_at descending with undated ones last.
func SortExamsByDate(exams []models.Exam) []models.Exam {
	out := make([]models.Exam, len(exams))
	copy(out, exams)
	sort.SliceStable(out, func(i, j int) bool {
		a := models.ParseTimestamp(out[i].ExamAt)
		b := models.ParseTimestamp(out[j].ExamAt)
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})
	return out
}

func trimExam(in dto.ExamInput) dto.ExamInput {
	in.Name = strings.TrimSpace(in.Name)
	in.ExamAt = strings.TrimSpace(in.ExamAt)
	in.BatchName = strings.TrimSpace(in.BatchName)
	return in
}
