package handler

import (
	"context"
	"strings"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/service"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

var errNoCourse = appErrors.Clone(appErrors.ErrValidation, "Select a course first: students use <courseId>.")

// StudentHandler exposes roster commands for the selected course.
type StudentHandler struct {
	console  *Console
	students *service.StudentService
	exams    *service.ExamService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(console *Console, students *service.StudentService, exams *service.ExamService) *StudentHandler {
	return &StudentHandler{console: console, students: students, exams: exams}
}

// Use selects the course whose students and exams the other commands act on.
func (h *StudentHandler) Use(ctx context.Context, in *Input) error {
	courseID := in.Arg(0)
	if courseID == "" {
		return &UsageError{Usage: "students use <courseId>"}
	}
	if err := h.students.Use(ctx, courseID); err != nil {
		return errReported
	}
	if h.exams != nil {
		if err := h.exams.Use(ctx, courseID); err != nil {
			return errReported
		}
	}
	h.console.Printf("Course %s selected: %d students.\n", courseID, len(h.students.Items()))
	return nil
}

func (h *StudentHandler) requireCourse() error {
	if h.students.CourseID() == "" {
		return errNoCourse
	}
	return nil
}

// List prints the roster as last loaded. "students list reload" fetches again.
func (h *StudentHandler) List(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	if strings.EqualFold(in.Arg(0), "reload") {
		if err := h.students.Load(ctx); err != nil {
			return errReported
		}
	}
	if h.students.ReloadPending() || h.students.Loading() {
		h.console.Println("Roster is reloading; showing the previous result.")
	}
	items := h.students.Items()
	if len(items) == 0 {
		h.console.Println("No students found.")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, st := range items {
		rows = append(rows, []string{
			st.ID,
			st.Roll,
			orDash(models.StringOr(st.Registration, "")),
			orDash(models.StringOr(st.Phone, "")),
			orDash(models.StringOr(st.GuardianPhone, "")),
			orDash(models.StringOr(st.BatchName, "")),
		})
	}
	h.console.Table([]string{"ID", "ROLL", "REGISTRATION", "PHONE", "GUARDIAN", "BATCH"}, rows)
	return nil
}

// Filter updates the roll and batch filters; the reload is debounced.
func (h *StudentHandler) Filter(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	filter := h.students.Filters()
	if in.Has("roll") {
		filter.Roll = in.Value("roll")
	}
	if in.Has("batch") {
		filter.BatchName = in.Value("batch")
	}
	if in.Has("batch_name") {
		filter.BatchName = in.Value("batch_name")
	}
	if strings.EqualFold(in.Arg(0), "clear") {
		filter = models.StudentFilter{}
	}
	h.students.SetFilters(ctx, filter)
	h.console.Printf("Filtering by roll=%q batch=%q.\n", filter.Roll, filter.BatchName)
	return nil
}

// Add enrolls a student.
func (h *StudentHandler) Add(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	if _, err := h.students.Create(ctx, studentInput(in, dto.StudentInput{})); err != nil {
		return errReported
	}
	return nil
}

// Update edits a student; omitted fields keep their current value.
func (h *StudentHandler) Update(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "student update <studentId> [roll=] [registration=] [phone=] [guardian=] [batch=] [extra.<key>=]"}
	}
	base, _ := h.students.EditInput(id)
	if _, err := h.students.Update(ctx, id, studentInput(in, base)); err != nil {
		return errReported
	}
	return nil
}

// Delete removes a student after confirmation.
func (h *StudentHandler) Delete(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "student delete <studentId>"}
	}
	if _, err := h.students.Delete(ctx, id); err != nil {
		return errReported
	}
	return nil
}

// Export writes the roster to a CSV or PDF file.
func (h *StudentHandler) Export(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	format := in.Arg(0)
	if format == "" {
		return &UsageError{Usage: "students export <csv|pdf> [file]"}
	}
	path, err := h.students.Export(format, in.Arg(1))
	if err != nil {
		return err
	}
	h.console.Printf("Roster written to %s.\n", path)
	return nil
}

func studentInput(in *Input, base dto.StudentInput) dto.StudentInput {
	fields := map[string]*string{
		"roll":           &base.Roll,
		"registration":   &base.Registration,
		"phone":          &base.Phone,
		"guardian":       &base.GuardianPhone,
		"guardian_phone": &base.GuardianPhone,
		"batch":          &base.BatchName,
		"batch_name":     &base.BatchName,
	}
	for key, target := range fields {
		if in.Has(key) {
			*target = in.Value(key)
		}
	}
	if extra := in.Prefixed("extra."); len(extra) > 0 {
		merged := map[string]interface{}{}
		for k, v := range base.ExtraDetails {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		base.ExtraDetails = merged
	}
	return base
}
