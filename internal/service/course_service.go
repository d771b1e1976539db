package service

import (
	"context"
	"sort"
	"strings"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
)

type courseRepository interface {
	List(ctx context.Context, q dto.CourseListQuery) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, in dto.CourseInput) (*models.Course, error)
	Update(ctx context.Context, id string, in dto.CourseInput) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// identitySource yields the signed-in user, or nil.
type identitySource interface {
	Identity() *models.User
}

// CourseListLimit is the page size requested for the course list.
const CourseListLimit = 500

// DefaultRecentCourses is how many courses the overview shows.
const DefaultRecentCourses = 6

var courseMessages = map[string]string{"Name": "Course name is required."}

// CourseService manages the organization's course list.
type CourseService struct {
	repo    courseRepository
	session identitySource
	list    *ListController[models.Course, struct{}]
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, session identitySource, deps ListDeps) *CourseService {
	s := &CourseService{repo: repo, session: session}
	s.list = NewListController[models.Course, struct{}]("courses", s.fetch, deps)
	return s
}

func (s *CourseService) fetch(ctx context.Context, _ struct{}) ([]models.Course, error) {
	return s.repo.List(ctx, dto.CourseListQuery{Skip: 0, Limit: CourseListLimit})
}

// Load reloads the course list. Guests get an empty list without a request.
func (s *CourseService) Load(ctx context.Context) error {
	if s.session.Identity().IsGuest() {
		s.list.Reset()
		return nil
	}
	return s.list.Load(ctx)
}

// Reset empties the list locally.
func (s *CourseService) Reset() {
	s.list.Reset()
}

// Items returns the loaded courses in backend order.
func (s *CourseService) Items() []models.Course {
	return s.list.Items()
}

// Find returns a loaded course by id.
func (s *CourseService) Find(id string) (models.Course, bool) {
	return s.list.Find(id)
}

// Loading reports whether a reload is in flight.
func (s *CourseService) Loading() bool {
	return s.list.Loading()
}

// Get loads a single course for the detail view.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a course and prepends it.
func (s *CourseService) Create(ctx context.Context, in dto.CourseInput) (*models.Course, error) {
	in = trimCourse(in)
	return s.list.Create(ctx, Mutation{
		Input:          in,
		Messages:       courseMessages,
		SuccessMessage: "Course created successfully!",
		FailureMessage: "Failed to create course.",
	}, func(ctx context.Context) (*models.Course, error) {
		return s.repo.Create(ctx, in)
	})
}

// Update replaces a course in place.
func (s *CourseService) Update(ctx context.Context, id string, in dto.CourseInput) (*models.Course, error) {
	in = trimCourse(in)
	return s.list.Update(ctx, id, Mutation{
		Input:          in,
		Messages:       courseMessages,
		SuccessMessage: "Course updated successfully!",
		FailureMessage: "Failed to update course.",
	}, func(ctx context.Context) (*models.Course, error) {
		return s.repo.Update(ctx, id, in)
	})
}

// Delete removes a course after confirmation.
func (s *CourseService) Delete(ctx context.Context, id string) (bool, error) {
	return s.list.Delete(ctx, id, Removal{
		Confirm: notify.ConfirmRequest{
			Title:       "Delete Course",
			Message:     "Are you sure you want to delete this course? This action cannot be undone.",
			ConfirmText: "Delete",
			CancelText:  "Cancel",
			Danger:      true,
		},
		SuccessMessage: "Course deleted successfully!",
		FailureMessage: "Failed to delete course.",
	}, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// SortedByCreated returns the courses newest first. Missing dates sort last.
func (s *CourseService) SortedByCreated() []models.Course {
	return SortCoursesByCreated(s.list.Items())
}

// Recent returns the newest limit courses.
func (s *CourseService) Recent(limit int) []models.Course {
	if limit <= 0 {
		limit = DefaultRecentCourses
	}
	sorted := s.SortedByCreated()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Close stops pending work.
func (s *CourseService) Close() {
	s.list.Close()
}

// SortCoursesByCreated orders courses by created_at, newest first.
func SortCoursesByCreated(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	copy(out, courses)
	sort.SliceStable(out, func(i, j int) bool {
		return models.ParseTimestamp(out[i].CreatedAt).After(models.ParseTimestamp(out[j].CreatedAt))
	})
	return out
}

func trimCourse(in dto.CourseInput) dto.CourseInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.MessageTemplate = strings.TrimSpace(in.MessageTemplate)
	return in
}
