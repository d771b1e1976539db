package handler

import (
	"context"
	"strconv"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/service"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// ExamHandler exposes the exam schedule of the selected course.
type ExamHandler struct {
	console *Console
	exams   *service.ExamService
}

// NewExamHandler constructs an exam handler.
func NewExamHandler(console *Console, exams *service.ExamService) *ExamHandler {
	return &ExamHandler{console: console, exams: exams}
}

func (h *ExamHandler) requireCourse() error {
	if h.exams.CourseID() == "" {
		return errNoCourse
	}
	return nil
}

// List prints exams latest first.
func (h *ExamHandler) List(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	items := h.exams.SortedByDate()
	if len(items) == 0 {
		h.console.Println("No exams scheduled.")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		locked := ""
		if e.IsLocked {
			locked = "locked"
		}
		rows = append(rows, []string{e.ID, e.Name, orDash(e.ExamAt), orDash(e.BatchName), orDash(locked)})
	}
	h.console.Table([]string{"ID", "NAME", "DATE", "BATCH", "STATE"}, rows)
	return nil
}

// Add schedules an exam.
func (h *ExamHandler) Add(ctx context.Context, in *Input) error {
	if err := h.requireCourse(); err != nil {
		return err
	}
	input, err := examInput(in, dto.ExamInput{})
	if err != nil {
		return err
	}
	if _, err := h.exams.Create(ctx, input); err != nil {
		return errReported
	}
	return nil
}

// Update edits an exam; omitted fields keep their current value.
func (h *ExamHandler) Update(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "exam update <examId> [name=] [date=] [batch=] [locked=true|false]"}
	}
	base, _ := h.exams.EditInput(id)
	input, err := examInput(in, base)
	if err != nil {
		return err
	}
	if _, err := h.exams.Update(ctx, id, input); err != nil {
		return errReported
	}
	return nil
}

// Delete removes an exam after confirmation.
func (h *ExamHandler) Delete(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "exam delete <examId>"}
	}
	if _, err := h.exams.Delete(ctx, id); err != nil {
		return errReported
	}
	return nil
}

func examInput(in *Input, base dto.ExamInput) (dto.ExamInput, error) {
	if in.Has("name") {
		base.Name = in.Value("name")
	}
	if in.Has("date") {
		base.ExamAt = in.Value("date")
	}
	if in.Has("batch") {
		base.BatchName = in.Value("batch")
	}
	if in.Has("locked") {
		locked, err := strconv.ParseBool(in.Value("locked"))
		if err != nil {
			return base, appErrors.Clone(appErrors.ErrValidation, "locked must be true or false.")
		}
		base.IsLocked = locked
	}
	return base, nil
}
