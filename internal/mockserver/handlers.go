package mockserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/middleware"
	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
	"github.com/noah-isme/scanova-console/pkg/response"
)

const defaultPageLimit = 100

func (s *Server) login(c *gin.Context) {
	var req dto.LoginRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.store.Authenticate(req.Phone, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	access, refresh, err := s.tokens.Issue(user.ID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token"))
		return
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	response.JSON(c, http.StatusOK, dto.LoginResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"})
}

func (s *Server) signup(c *gin.Context) {
	var req dto.SignupRequest
	if !s.bind(c, &req) {
		return
	}
	user, err := s.store.CreateAccount(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

func (s *Server) me(c *gin.Context) {
	user, err := s.store.User(middleware.CurrentPrincipal(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

func (s *Server) myOrganization(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	if p.OrgID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Organization not found"))
		return
	}
	org, err := s.store.Organization(p.OrgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, org)
}

func (s *Server) listCourses(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	response.JSON(c, http.StatusOK, s.store.Courses(p.OrgID, queryInt(c, "skip", 0), queryInt(c, "limit", defaultPageLimit)))
}

func (s *Server) getCourse(c *gin.Context) {
	course, err := s.store.Course(middleware.CurrentPrincipal(c).OrgID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

func (s *Server) createCourse(c *gin.Context) {
	var req dto.CourseInput
	if !s.bind(c, &req) {
		return
	}
	response.Created(c, s.store.CreateCourse(middleware.CurrentPrincipal(c).OrgID, req))
}

func (s *Server) updateCourse(c *gin.Context) {
	var req dto.CourseInput
	if !s.bind(c, &req) {
		return
	}
	course, err := s.store.UpdateCourse(middleware.CurrentPrincipal(c).OrgID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

func (s *Server) deleteCourse(c *gin.Context) {
	if err := s.store.DeleteCourse(middleware.CurrentPrincipal(c).OrgID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (s *Server) listStudents(c *gin.Context) {
	students, err := s.store.Students(middleware.CurrentPrincipal(c).OrgID, c.Param("courseId"), StudentQuery{
		Skip:      queryInt(c, "skip", 0),
		Limit:     queryInt(c, "limit", defaultPageLimit),
		Roll:      c.Query("roll"),
		BatchName: c.Query("batch_name"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

func (s *Server) createStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !s.bind(c, &req) {
		return
	}
	student, err := s.store.CreateStudent(middleware.CurrentPrincipal(c).OrgID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// patchStudent decodes without struct validation: every field is optional,
// but a roll that is sent must not be blank.
func (s *Server) patchStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}
	if req.Roll != nil && strings.TrimSpace(*req.Roll) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Roll cannot be empty"))
		return
	}
	student, err := s.store.PatchStudent(middleware.CurrentPrincipal(c).OrgID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

func (s *Server) deleteStudent(c *gin.Context) {
	if err := s.store.DeleteStudent(middleware.CurrentPrincipal(c).OrgID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (s *Server) roles(c *gin.Context) {
	response.JSON(c, http.StatusOK, invitableRoles)
}

func (s *Server) members(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.Members(middleware.CurrentPrincipal(c).OrgID))
}

func (s *Server) removeMember(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	if err := s.store.RemoveMember(p.OrgID, p.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Member removed")
}

func (s *Server) myInvitations(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.MyInvitations(middleware.CurrentPrincipal(c).UserID))
}

func (s *Server) orgInvitations(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.OrgInvitations(middleware.CurrentPrincipal(c).OrgID))
}

func (s *Server) invite(c *gin.Context) {
	var req dto.InviteRequest
	if !s.bind(c, &req) {
		return
	}
	inv, err := s.store.Invite(middleware.CurrentPrincipal(c).OrgID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inv)
}

func (s *Server) respondInvitation(c *gin.Context) {
	var req dto.RespondInvitationRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.store.Respond(middleware.CurrentPrincipal(c).UserID, c.Param("id"), req.Action); err != nil {
		response.Error(c, err)
		return
	}
	status := models.InvitationRejected
	if req.Action == dto.ActionApprove {
		status = models.InvitationApproved
	}
	response.Message(c, http.StatusOK, "Invitation "+status)
}

func (s *Server) leave(c *gin.Context) {
	if err := s.store.Leave(middleware.CurrentPrincipal(c).UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "You left the organization")
}
