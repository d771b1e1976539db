package handler

import (
	"context"
	"strings"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/service"
)

// CourseHandler exposes course commands.
type CourseHandler struct {
	console *Console
	courses *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(console *Console, courses *service.CourseService) *CourseHandler {
	return &CourseHandler{console: console, courses: courses}
}

// List reloads courses and prints the most recent ones, or all with "courses all".
func (h *CourseHandler) List(ctx context.Context, in *Input) error {
	if err := h.courses.Load(ctx); err != nil {
		return errReported
	}
	var items []models.Course
	if strings.EqualFold(in.Arg(0), "all") {
		items = h.courses.SortedByCreated()
	} else {
		items = h.courses.Recent(service.DefaultRecentCourses)
	}
	if len(items) == 0 {
		h.console.Println("No courses yet.")
		return nil
	}
	h.printCourses(items)
	if total := len(h.courses.Items()); total > len(items) {
		h.console.Printf("%d of %d courses shown; use \"courses all\".\n", len(items), total)
	}
	return nil
}

func (h *CourseHandler) printCourses(items []models.Course) {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{c.ID, c.Name, orDash(c.Description), orDash(c.CreatedAt)})
	}
	h.console.Table([]string{"ID", "NAME", "DESCRIPTION", "CREATED"}, rows)
}

// Show prints one course.
func (h *CourseHandler) Show(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "course show <courseId>"}
	}
	course, err := h.courses.Get(ctx, id)
	if err != nil {
		return err
	}
	h.console.Table(nil, [][]string{
		{"id", course.ID},
		{"name", course.Name},
		{"description", orDash(course.Description)},
		{"message template", orDash(course.MessageTemplate)},
		{"created", orDash(course.CreatedAt)},
	})
	return nil
}

// Create adds a course from name=, description= and template=.
func (h *CourseHandler) Create(ctx context.Context, in *Input) error {
	if _, err := h.courses.Create(ctx, courseInput(in, dto.CourseInput{})); err != nil {
		return errReported
	}
	return nil
}

// Update edits a course; omitted fields keep their current value.
func (h *CourseHandler) Update(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "course update <courseId> [name=] [description=] [template=]"}
	}
	base := dto.CourseInput{}
	if current, ok := h.courses.Find(id); ok {
		base = dto.CourseInput{Name: current.Name, Description: current.Description, MessageTemplate: current.MessageTemplate}
	}
	if _, err := h.courses.Update(ctx, id, courseInput(in, base)); err != nil {
		return errReported
	}
	return nil
}

// Delete removes a course after confirmation.
func (h *CourseHandler) Delete(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "course delete <courseId>"}
	}
	if _, err := h.courses.Delete(ctx, id); err != nil {
		return errReported
	}
	return nil
}

func courseInput(in *Input, base dto.CourseInput) dto.CourseInput {
	if in.Has("name") {
		base.Name = in.Value("name")
	}
	if in.Has("description") {
		base.Description = in.Value("description")
	}
	if in.Has("template") {
		base.MessageTemplate = in.Value("template")
	}
	if in.Has("message_template") {
		base.MessageTemplate = in.Value("message_template")
	}
	return base
}
