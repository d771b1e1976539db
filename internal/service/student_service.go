package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
	"github.com/noah-isme/scanova-console/pkg/export"
)

type studentRepository interface {
	ListByCourse(ctx context.Context, courseID string, q dto.StudentListQuery) ([]models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type fileStorage interface {
	Save(filename string, data []byte, perm os.FileMode) (string, error)
}

// StudentListLimit is the page size requested for a roster.
const StudentListLimit = 1000

var studentMessages = map[string]string{
	"Roll":     "Roll is required.",
	"CourseID": "Select a course first.",
}

// StudentService manages the roster of the selected course.
type StudentService struct {
	repo    studentRepository
	storage fileStorage
	logger  *zap.Logger
	list    *ListController[models.Student, models.StudentFilter]

	mu       sync.RWMutex
	courseID string
}

// NewStudentService constructs a StudentService. storage may be nil when
// exports are not needed.
func NewStudentService(repo studentRepository, storage fileStorage, deps ListDeps) *StudentService {
	deps = deps.withDefaults()
	s := &StudentService{repo: repo, storage: storage, logger: deps.Logger}
	s.list = NewListController[models.Student, models.StudentFilter]("students", s.fetch, deps)
	return s
}

func (s *StudentService) fetch(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	courseID := s.CourseID()
	if courseID == "" {
		return []models.Student{}, nil
	}
	return s.repo.ListByCourse(ctx, courseID, dto.StudentListQuery{
		Skip:      0,
		Limit:     StudentListLimit,
		Roll:      strings.TrimSpace(f.Roll),
		BatchName: strings.TrimSpace(f.BatchName),
	})
}

// Use selects a course, clears its filters and loads its roster.
func (s *StudentService) Use(ctx context.Context, courseID string) error {
	s.mu.Lock()
	s.courseID = strings.TrimSpace(courseID)
	s.mu.Unlock()

	s.list.Reset()
	s.list.SetFiltersNow(models.StudentFilter{})
	return s.list.Load(ctx)
}

// Reset drops the selected course, its roster and filters, and any pending
// filter reload.
func (s *StudentService) Reset() {
	s.mu.Lock()
	s.courseID = ""
	s.mu.Unlock()
	s.list.Reset()
	s.list.SetFiltersNow(models.StudentFilter{})
}

// CourseID returns the selected course.
func (s *StudentService) CourseID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courseID
}

// Load reloads the roster with the current filters.
func (s *StudentService) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// SetFilters schedules a debounced reload with f.
func (s *StudentService) SetFilters(ctx context.Context, f models.StudentFilter) {
	s.list.SetFilters(ctx, f)
}

// Filters returns the active filters.
func (s *StudentService) Filters() models.StudentFilter {
	return s.list.Filters()
}

// ReloadPending reports whether a filter reload is still waiting.
func (s *StudentService) ReloadPending() bool {
	return s.list.ReloadPending()
}

// Items returns the roster.
func (s *StudentService) Items() []models.Student {
	return s.list.Items()
}

// Loading reports whether a reload is in flight.
func (s *StudentService) Loading() bool {
	return s.list.Loading()
}

// EditInput returns the current values of a student as an editable form.
func (s *StudentService) EditInput(id string) (dto.StudentInput, bool) {
	st, ok := s.list.Find(id)
	if !ok {
		return dto.StudentInput{}, false
	}
	return dto.StudentInput{
		Roll:          st.Roll,
		Registration:  models.StringOr(st.Registration, ""),
		Phone:         models.StringOr(st.Phone, ""),
		GuardianPhone: models.StringOr(st.GuardianPhone, ""),
		BatchName:     models.StringOr(st.BatchName, ""),
		ExtraDetails:  st.ExtraDetails,
	}, true
}

// Create enrolls a student in the selected course.
func (s *StudentService) Create(ctx context.Context, in dto.StudentInput) (*models.Student, error) {
	req := dto.NewCreateStudentRequest(s.CourseID(), in)
	return s.list.Create(ctx, Mutation{
		Input:          req,
		Messages:       studentMessages,
		SuccessMessage: "Student added.",
		FailureMessage: "Failed to add student.",
	}, func(ctx context.Context) (*models.Student, error) {
		return s.repo.Create(ctx, req)
	})
}

// Update patches a student. Blank fields are left unchanged on the backend.
func (s *StudentService) Update(ctx context.Context, id string, in dto.StudentInput) (*models.Student, error) {
	req := dto.NewUpdateStudentRequest(in)
	return s.list.Update(ctx, id, Mutation{
		Input:          req,
		Messages:       studentMessages,
		SuccessMessage: "Student updated.",
		FailureMessage: "Failed to update student.",
	}, func(ctx context.Context) (*models.Student, error) {
		return s.repo.Update(ctx, id, req)
	})
}

// Delete removes a student after confirmation.
func (s *StudentService) Delete(ctx context.Context, id string) (bool, error) {
	return s.list.Delete(ctx, id, Removal{
		Confirm: notify.ConfirmRequest{
			Title:       "Delete Student",
			Message:     "Are you sure you want to delete this student? This cannot be undone.",
			ConfirmText: "Delete",
			CancelText:  "Cancel",
			Danger:      true,
		},
		SuccessMessage: "Student deleted.",
		FailureMessage: "Failed to delete student.",
	}, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// Batches returns the distinct batch names in roster order.
func (s *StudentService) Batches() []string {
	seen := map[string]bool{}
	var out []string
	for _, st := range s.list.Items() {
		name := models.StringOr(st.BatchName, "")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

var rosterColumns = []string{"Roll", "Registration", "Phone", "Guardian Phone", "Batch", "Created"}

// Export renders the loaded roster and writes it to filename. It returns
// the written path.
func (s *StudentService) Export(format, filename string) (string, error) {
	if s.storage == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "exports are not configured")
	}
	renderer, err := export.ForFormat(format)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	courseID := s.CourseID()
	dataset := export.Dataset{Title: fmt.Sprintf("Roster %s", courseID), Columns: rosterColumns}
	for _, st := range s.list.Items() {
		dataset.Rows = append(dataset.Rows, []string{
			st.Roll,
			models.StringOr(st.Registration, ""),
			models.StringOr(st.Phone, ""),
			models.StringOr(st.GuardianPhone, ""),
			models.StringOr(st.BatchName, ""),
			st.CreatedAt,
		})
	}

	payload, err := renderer.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	if strings.TrimSpace(filename) == "" {
		filename = fmt.Sprintf("roster_%s_%s", sanitizeFilename(courseID), time.Now().UTC().Format("20060102_150405"))
	}
	if !strings.HasSuffix(strings.ToLower(filename), renderer.Extension()) {
		filename += renderer.Extension()
	}
	path, err := s.storage.Save(filename, payload, 0o644)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write roster")
	}
	s.logger.Info("roster exported", zap.String("course_id", courseID), zap.String("path", path), zap.Int("rows", len(dataset.Rows)))
	return path, nil
}

// Close stops pending work.
func (s *StudentService) Close() {
	s.list.Close()
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
