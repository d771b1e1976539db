package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
)

// CourseRepository wraps /courses.
type CourseRepository struct {
	api API
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(api API) *CourseRepository {
	return &CourseRepository{api: api}
}

// List returns one page of the organization's courses.
func (r *CourseRepository) List(ctx context.Context, q dto.CourseListQuery) ([]models.Course, error) {
	return list[models.Course](ctx, r.api, "/courses", "/courses", apiclient.Params{
		"skip":  q.Skip,
		"limit": q.Limit,
	})
}

// Get loads a single course.
func (r *CourseRepository) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.api.Do(ctx, http.MethodGet, "/courses/"+url.PathEscape(id), apiclient.RequestOptions{Route: "/courses/{id}"}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create adds a course and returns it with its backend id.
func (r *CourseRepository) Create(ctx context.Context, in dto.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := r.api.Do(ctx, http.MethodPost, "/courses", apiclient.RequestOptions{Body: in}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Update replaces a course.
func (r *CourseRepository) Update(ctx context.Context, id string, in dto.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := r.api.Do(ctx, http.MethodPut, "/courses/"+url.PathEscape(id), apiclient.RequestOptions{Body: in, Route: "/courses/{id}"}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.api.Do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(id), apiclient.RequestOptions{Route: "/courses/{id}"}, nil)
}
