package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeBackend struct {
	calls     []recordedCall
	responses map[string]string
}

func newFakeBackend(t *testing.T, responses map[string]string) (*fakeBackend, API) {
	t.Helper()
	fb := &fakeBackend{responses: responses}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.calls = append(fb.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		w.Header().Set("Content-Type", "application/json")
		resp, ok := fb.responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
			return
		}
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return fb, client
}

func TestCourseRepositoryEndpoints(t *testing.T) {
	fb, api := newFakeBackend(t, map[string]string{
		"GET /courses":       `[{"id":"c1","name":"Physics"}]`,
		"POST /courses":      `{"id":"c2","name":"Chemistry"}`,
		"PUT /courses/c2":    `{"id":"c2","name":"Chem"}`,
		"DELETE /courses/c2": `null`,
		"GET /courses/c1":    `{"id":"c1","name":"Physics","message_template":"hi"}`,
	})
	repo := NewCourseRepository(api)
	ctx := context.Background()

	courses, err := repo.List(ctx, dto.CourseListQuery{Skip: 0, Limit: 500})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Physics", courses[0].Name)
	assert.Equal(t, "limit=500&skip=0", fb.calls[0].Query)

	created, err := repo.Create(ctx, dto.CourseInput{Name: "Chemistry"})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)

	updated, err := repo.Update(ctx, "c2", dto.CourseInput{Name: "Chem"})
	require.NoError(t, err)
	assert.Equal(t, "Chem", updated.Name)

	one, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "hi", one.MessageTemplate)

	require.NoError(t, repo.Delete(ctx, "c2"))
	assert.Equal(t, http.MethodDelete, fb.calls[len(fb.calls)-1].Method)
}

func TestStudentRepositoryFiltersAndPayloads(t *testing.T) {
	fb, api := newFakeBackend(t, map[string]string{
		"GET /students/course/c1": `[{"id":"s1","roll":"101","batch_name":"A"}]`,
		"POST /students/":         `{"id":"s2","roll":"7"}`,
		"PATCH /students/s2":      `{"id":"s2","roll":"8"}`,
	})
	repo := NewStudentRepository(api)
	ctx := context.Background()

	students, err := repo.ListByCourse(ctx, "c1", dto.StudentListQuery{Limit: 1000, Roll: "101"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "A", *students[0].BatchName)
	assert.Equal(t, "limit=1000&roll=101&skip=0", fb.calls[0].Query)

	_, err = repo.Create(ctx, dto.NewCreateStudentRequest("c1", dto.StudentInput{Roll: "7"}))
	require.NoError(t, err)
	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fb.calls[1].Body), &sent))
	assert.Nil(t, sent["phone"])
	assert.Contains(t, sent, "phone")

	updated, err := repo.Update(ctx, "s2", dto.NewUpdateStudentRequest(dto.StudentInput{Roll: "8"}))
	require.NoError(t, err)
	assert.Equal(t, "8", updated.Roll)
	assert.JSONEq(t, `{"roll":"8"}`, fb.calls[2].Body)
}

func TestMembershipRepository(t *testing.T) {
	fb, api := newFakeBackend(t, map[string]string{
		"GET /membership/roles":                   `["organization_admin","scan_operator"]`,
		"GET /membership/members":                 `[{"id":"u1","full_name":"Jane"}]`,
		"GET /membership/invitations/my":          `[{"request_id":"r1","org_name":"Acme"}]`,
		"GET /membership/invitations/org":         `{"unexpected":"shape"}`,
		"POST /membership/invite":                 `{"message":"Invitation sent"}`,
		"POST /membership/invitations/r1/respond": `{"ok":true}`,
		"POST /membership/leave":                  `{"ok":true}`,
		"DELETE /membership/members/u2":           `{"ok":true}`,
	})
	repo := NewMembershipRepository(api)
	ctx := context.Background()

	roles, err := repo.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"organization_admin", "scan_operator"}, roles)

	members, err := repo.Members(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", members[0].FullName)

	mine, err := repo.MyInvitations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", mine[0].EntityID())

	org, err := repo.OrgInvitations(ctx)
	require.NoError(t, err)
	assert.Empty(t, org)

	_, err = repo.Invite(ctx, dto.InviteRequest{Identifier: "017", RoleName: "scan_operator"})
	require.NoError(t, err)

	require.NoError(t, repo.Respond(ctx, "r1", dto.RespondInvitationRequest{Action: dto.ActionApprove}))
	assert.JSONEq(t, `{"action":"approve"}`, fb.calls[5].Body)

	require.NoError(t, repo.RemoveMember(ctx, "u2"))
	require.NoError(t, repo.Leave(ctx))

	err = repo.RemoveMember(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))
}

func TestAuthAndOrganizationRepositories(t *testing.T) {
	_, api := newFakeBackend(t, map[string]string{
		"POST /auth/login":      `{"access_token":"a","refresh_token":"r"}`,
		"GET /auth/me":          `{"id":"u1","full_name":"Jane Doe"}`,
		"POST /auth/signup":     `{"id":"u9"}`,
		"GET /organizations/me": `{"id":"o1","name":"Acme"}`,
	})
	auth := NewAuthRepository(api)
	ctx := context.Background()

	tokens, err := auth.Login(ctx, dto.LoginRequest{Phone: "017", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "a", tokens.AccessToken)
	assert.Equal(t, "r", tokens.RefreshToken)

	me, err := auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", me.FullName)

	signup, err := auth.Signup(ctx, dto.SignupRequest{FullName: "N", Phone: "1", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "u9", signup["id"])

	org, err := NewOrganizationRepository(api).Mine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Name)
}

func TestInMemoryExamRepository(t *testing.T) {
	repo := NewInMemoryExamRepository()
	ctx := context.Background()

	seeded, err := repo.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, seeded, 2)

	exam, err := repo.Create(ctx, "c1", dto.ExamInput{Name: " Final ", ExamAt: "2026-12-01"})
	require.NoError(t, err)
	assert.Equal(t, "Final", exam.Name)
	assert.NotEmpty(t, exam.ID)

	updated, err := repo.Update(ctx, exam.ID, dto.ExamInput{Name: "Final Exam", IsLocked: true})
	require.NoError(t, err)
	assert.True(t, updated.IsLocked)

	require.NoError(t, repo.Delete(ctx, exam.ID))
	all, err := repo.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Error(t, repo.Delete(ctx, exam.ID))
	_, err = repo.Update(ctx, "nope", dto.ExamInput{Name: "x"})
	assert.Error(t, err)
}
