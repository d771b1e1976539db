package dto

// CourseInput is the body of POST /courses and PUT /courses/{id}.
type CourseInput struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	MessageTemplate string `json:"message_template"`
}

// CourseListQuery pages through GET /courses.
type CourseListQuery struct {
	Skip  int
	Limit int
}
