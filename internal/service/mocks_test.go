package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
)

type recordingToasts struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recordingToasts) Success(message string) notify.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
	return notify.Toast{Message: message, Kind: notify.KindSuccess}
}

func (r *recordingToasts) Error(message string) notify.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
	return notify.Toast{Message: message, Kind: notify.KindError}
}

func (r *recordingToasts) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func (r *recordingToasts) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

type stubConfirm struct {
	answer   bool
	err      error
	requests []notify.ConfirmRequest
}

func (s *stubConfirm) Confirm(ctx context.Context, req notify.ConfirmRequest) (bool, error) {
	s.requests = append(s.requests, req)
	return s.answer, s.err
}

func testDeps(toasts *recordingToasts, confirm *stubConfirm) ListDeps {
	return ListDeps{Toasts: toasts, Confirm: confirm, Logger: zap.NewNop()}
}

type fixedIdentity struct {
	user *models.User
}

func (f *fixedIdentity) Identity() *models.User { return f.user }

func (f *fixedIdentity) Refresh(ctx context.Context) SessionState {
	if f.user == nil {
		return SessionAnonymous
	}
	return SessionAuthenticated
}

var ownerUser = &models.User{ID: "u1", FullName: "Jane Doe", RoleName: "owner", OrgID: "o1"}

type mockCourseRepo struct {
	mu        sync.Mutex
	courses   []models.Course
	listErr   error
	created   *models.Course
	createErr error
	updated   *models.Course
	updateErr error
	deleteErr error
	calls     []string
}

func (m *mockCourseRepo) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockCourseRepo) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockCourseRepo) List(ctx context.Context, q dto.CourseListQuery) ([]models.Course, error) {
	m.record("list")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Course(nil), m.courses...), nil
}

func (m *mockCourseRepo) Get(ctx context.Context, id string) (*models.Course, error) {
	m.record("get " + id)
	for _, c := range m.courses {
		if c.ID == id {
			course := c
			return &course, nil
		}
	}
	return nil, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, in dto.CourseInput) (*models.Course, error) {
	m.record("create")
	return m.created, m.createErr
}

func (m *mockCourseRepo) Update(ctx context.Context, id string, in dto.CourseInput) (*models.Course, error) {
	m.record("update " + id)
	return m.updated, m.updateErr
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.record("delete " + id)
	return m.deleteErr
}

type mockStudentRepo struct {
	mu       sync.Mutex
	students []models.Student
	queries  []dto.StudentListQuery
	courses  []string
	created  []dto.CreateStudentRequest
	patches  []dto.UpdateStudentRequest
	deleted  []string
}

func (m *mockStudentRepo) ListByCourse(ctx context.Context, courseID string, q dto.StudentListQuery) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = append(m.courses, courseID)
	m.queries = append(m.queries, q)
	return append([]models.Student(nil), m.students...), nil
}

func (m *mockStudentRepo) Queries() []dto.StudentListQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.StudentListQuery(nil), m.queries...)
}

func (m *mockStudentRepo) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, req)
	return &models.Student{ID: "new", CourseID: req.CourseID, Roll: req.Roll, Phone: req.Phone}, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, req)
	return &models.Student{ID: id, Roll: *req.Roll}, nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAuthRepo struct {
	me       *models.User
	meErr    error
	meCalls  int
	login    *dto.LoginResponse
	loginErr error
	logins   []dto.LoginRequest
	signups  []dto.SignupRequest
}

func (m *mockAuthRepo) Me(ctx context.Context) (*models.User, error) {
	m.meCalls++
	if m.meErr != nil {
		return nil, m.meErr
	}
	return m.me, nil
}

func (m *mockAuthRepo) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	m.logins = append(m.logins, req)
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.login, nil
}

func (m *mockAuthRepo) Signup(ctx context.Context, req dto.SignupRequest) (map[string]interface{}, error) {
	m.signups = append(m.signups, req)
	return map[string]interface{}{"id": "u9"}, nil
}

type mockMembershipRepo struct {
	mu         sync.Mutex
	members    []models.Member
	membersErr error
	mine       []models.Invitation
	org        []models.Invitation
	roles      []string
	inviteErr  error
	invites    []dto.InviteRequest
	responses  []string
	removed    []string
	leaveCalls int
	calls      []string
}

func (m *mockMembershipRepo) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockMembershipRepo) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockMembershipRepo) Members(ctx context.Context) ([]models.Member, error) {
	m.record("members")
	return m.members, m.membersErr
}

func (m *mockMembershipRepo) RemoveMember(ctx context.Context, userID string) error {
	m.record("remove " + userID)
	m.removed = append(m.removed, userID)
	return nil
}

func (m *mockMembershipRepo) MyInvitations(ctx context.Context) ([]models.Invitation, error) {
	m.record("mine")
	return m.mine, nil
}

func (m *mockMembershipRepo) OrgInvitations(ctx context.Context) ([]models.Invitation, error) {
	m.record("org")
	return m.org, nil
}

func (m *mockMembershipRepo) Invite(ctx context.Context, req dto.InviteRequest) (*models.Invitation, error) {
	m.record("invite")
	m.invites = append(m.invites, req)
	if m.inviteErr != nil {
		return nil, m.inviteErr
	}
	return &models.Invitation{ID: "i1"}, nil
}

func (m *mockMembershipRepo) Respond(ctx context.Context, id string, req dto.RespondInvitationRequest) error {
	m.record("respond " + id + " " + req.Action)
	return nil
}

func (m *mockMembershipRepo) Roles(ctx context.Context) ([]string, error) {
	m.record("roles")
	return m.roles, nil
}

func (m *mockMembershipRepo) Leave(ctx context.Context) error {
	m.record("leave")
	m.leaveCalls++
	return nil
}

type mockOrgRepo struct {
	org   *models.Organization
	calls int
}

func (m *mockOrgRepo) Mine(ctx context.Context) (*models.Organization, error) {
	m.calls++
	return m.org, nil
}
