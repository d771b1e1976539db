package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
)

// StudentRepository wraps /students.
type StudentRepository struct {
	api API
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(api API) *StudentRepository {
	return &StudentRepository{api: api}
}

// ListByCourse returns the roster of a course, optionally filtered.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string, q dto.StudentListQuery) ([]models.Student, error) {
	return list[models.Student](ctx, r.api, "/students/course/"+url.PathEscape(courseID), "/students/course/{courseId}", apiclient.Params{
		"skip":       q.Skip,
		"limit":      q.Limit,
		"roll":       q.Roll,
		"batch_name": q.BatchName,
	})
}

// Create enrolls a student.
func (r *StudentRepository) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := r.api.Do(ctx, http.MethodPost, "/students/", apiclient.RequestOptions{Body: req}, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update patches a student.
func (r *StudentRepository) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := r.api.Do(ctx, http.MethodPatch, "/students/"+url.PathEscape(id), apiclient.RequestOptions{Body: req, Route: "/students/{id}"}, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.api.Do(ctx, http.MethodDelete, "/students/"+url.PathEscape(id), apiclient.RequestOptions{Route: "/students/{id}"}, nil)
}
