package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// InMemoryExamRepository stands in for the exam endpoints until the backend
// ships them. Exams are kept per course in insertion order.
type InMemoryExamRepository struct {
	mu       sync.RWMutex
	byCourse map[string][]models.Exam
	newID    func() string
}

// NewInMemoryExamRepository constructs an empty exam repository.
func NewInMemoryExamRepository() *InMemoryExamRepository {
	return &InMemoryExamRepository{
		byCourse: map[string][]models.Exam{},
		newID:    uuid.NewString,
	}
}

// Seed adds placeholder exams to a course the first time it is listed.
func (r *InMemoryExamRepository) Seed(courseID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCourse[courseID]; ok {
		return
	}
	r.byCourse[courseID] = []models.Exam{
		{ID: r.newID(), CourseID: courseID, Name: "Weekly Test 01", ExamAt: now.AddDate(0, 0, 7).Format("2006-01-02"), BatchName: "Morning"},
		{ID: r.newID(), CourseID: courseID, Name: "Model Test", ExamAt: now.AddDate(0, 0, -14).Format("2006-01-02"), IsLocked: true},
	}
}

// ListByCourse returns a copy of the course's exams.
func (r *InMemoryExamRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.Seed(courseID, time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Exam, len(r.byCourse[courseID]))
	copy(out, r.byCourse[courseID])
	return out, nil
}

// Create stores an exam and assigns its id.
func (r *InMemoryExamRepository) Create(ctx context.Context, courseID string, in dto.ExamInput) (*models.Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	exam := models.Exam{
		ID:        r.newID(),
		CourseID:  courseID,
		Name:      strings.TrimSpace(in.Name),
		ExamAt:    strings.TrimSpace(in.ExamAt),
		BatchName: strings.TrimSpace(in.BatchName),
		IsLocked:  in.IsLocked,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCourse[courseID] = append(r.byCourse[courseID], exam)
	return &exam, nil
}

// Update replaces the editable fields of an exam.
func (r *InMemoryExamRepository) Update(ctx context.Context, id string, in dto.ExamInput) (*models.Exam, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for courseID, exams := range r.byCourse {
		for i := range exams {
			if exams[i].ID != id {
				continue
			}
			exams[i].Name = strings.TrimSpace(in.Name)
			exams[i].ExamAt = strings.TrimSpace(in.ExamAt)
			exams[i].BatchName = strings.TrimSpace(in.BatchName)
			exams[i].IsLocked = in.IsLocked
			r.byCourse[courseID] = exams
			updated := exams[i]
			return &updated, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Exam not found")
}

// Delete removes an exam.
func (r *InMemoryExamRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for courseID, exams := range r.byCourse {
		for i := range exams {
			if exams[i].ID == id {
				r.byCourse[courseID] = append(exams[:i:i], exams[i+1:]...)
				return nil
			}
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "Exam not found")
}
