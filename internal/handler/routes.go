package handler

import (
	"context"

	"github.com/noah-isme/scanova-console/internal/notify"
)

// Handlers groups every command handler the console serves.
type Handlers struct {
	Session      *SessionHandler
	Organization *OrganizationHandler
	Course       *CourseHandler
	Student      *StudentHandler
	Exam         *ExamHandler
	Toasts       *notify.Toaster
}

// Register wires all commands into the console. Everything except the session
// commands requires a signed-in user.
func Register(c *Console, h Handlers) {
	auth := h.Session.Authenticated

	c.Register("register", "register full_name= phone= [email=] [password=]", "Create an account", h.Session.Register)
	c.Register("login", "login phone=<phone> [password=]", "Sign in", h.Session.Login)
	c.Register("logout", "logout", "Sign out", h.Session.Logout)
	c.Register("whoami", "whoami", "Show the signed-in user", h.Session.WhoAmI)
	c.Register("token", "token", "Inspect the stored access token", h.Session.Token)

	if h.Organization != nil {
		c.Register("org", "org", "Show your organization", auth(h.Organization.Show))
		c.Register("org refresh", "org refresh", "Reload organization, courses, members and invitations", auth(h.Organization.Refresh))
		c.Register("org leave", "org leave", "Leave your organization", auth(h.Organization.Leave))
		c.Register("roles", "roles", "List invitable roles (owner)", auth(h.Organization.Roles))
		c.Register("members", "members", "List organization members (owner)", auth(h.Organization.Members))
		c.Register("member remove", "member remove <userId>", "Remove a member (owner)", auth(h.Organization.RemoveMember))
		c.Register("invites", "invites [org]", "List received or sent invitations", auth(h.Organization.Invitations))
		c.Register("invite", "invite identifier=<phone|email> [role=] [message=]", "Invite a user (owner)", auth(h.Organization.Invite))
		c.Register("invite accept", "invite accept <invitationId>", "Accept an invitation", auth(h.Organization.Respond("accept")))
		c.Register("invite reject", "invite reject <invitationId>", "Reject an invitation", auth(h.Organization.Respond("reject")))
	}

	if h.Course != nil {
		c.Register("courses", "courses [all]", "List recent or all courses", auth(h.Course.List))
		c.Register("course show", "course show <courseId>", "Show a course", auth(h.Course.Show))
		c.Register("course create", "course create name= [description=] [template=]", "Create a course", auth(h.Course.Create))
		c.Register("course update", "course update <courseId> [name=] [description=] [template=]", "Edit a course", auth(h.Course.Update))
		c.Register("course delete", "course delete <courseId>", "Delete a course", auth(h.Course.Delete))
	}

	if h.Student != nil {
		c.Register("students use", "students use <courseId>", "Select a course", auth(h.Student.Use))
		c.Register("students", "students [reload]", "List students of the selected course", auth(h.Student.List))
		c.Register("students list", "students list [reload]", "List students of the selected course", auth(h.Student.List))
		c.Register("students filter", "students filter [roll=] [batch=] | clear", "Filter the roster", auth(h.Student.Filter))
		c.Register("students export", "students export <csv|pdf> [file]", "Export the roster", auth(h.Student.Export))
		c.Register("student add", "student add roll= [registration=] [phone=] [guardian=] [batch=] [extra.<key>=]", "Add a student", auth(h.Student.Add))
		c.Register("student update", "student update <studentId> [roll=] ...", "Edit a student", auth(h.Student.Update))
		c.Register("student delete", "student delete <studentId>", "Delete a student", auth(h.Student.Delete))
	}

	if h.Exam != nil {
		c.Register("exams", "exams", "List exams of the selected course", auth(h.Exam.List))
		c.Register("exam add", "exam add name= [date=] [batch=] [locked=]", "Schedule an exam", auth(h.Exam.Add))
		c.Register("exam update", "exam update <examId> [name=] [date=] [batch=] [locked=]", "Edit an exam", auth(h.Exam.Update))
		c.Register("exam delete", "exam delete <examId>", "Delete an exam", auth(h.Exam.Delete))
	}

	if h.Toasts != nil {
		c.Register("toasts", "toasts", "Show recent notifications", func(ctx context.Context, in *Input) error {
			items := h.Toasts.List()
			if len(items) == 0 {
				c.Println("No notifications.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, t := range items {
				rows = append(rows, []string{t.CreatedAt.Format("15:04:05"), string(t.Kind), t.Message})
			}
			c.Table(nil, rows)
			return nil
		})
	}
}
