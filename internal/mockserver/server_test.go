package mockserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/service"
)

type fixture struct {
	server *Server
	router *gin.Engine
	seeded *Seeded
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics := service.NewNamespacedMetricsService("scanova_mock")
	srv := New(Options{BcryptCost: bcrypt.MinCost, Metrics: metrics, MetricsHandler: metrics.Handler()})
	seeded, err := Seed(srv.Store())
	require.NoError(t, err)
	return &fixture{server: srv, router: srv.Router(), seeded: seeded}
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T, phone string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Phone: phone, Password: DemoPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken
}

func detail(t *testing.T, w *httptest.ResponseRecorder) interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["detail"]
}

func TestAuthErrorsUseDetailShape(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", detail(t, w))

	w = f.do(t, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Could not validate credentials", detail(t, w))

	w = f.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Phone: DemoOwnerPhone, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect phone or password", detail(t, w))
}

func TestSignupValidationListsFields(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"phone": "0111", "password": "123"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	items, ok := detail(t, w).([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"body", "full_name"}, first["loc"])
	assert.Equal(t, "Field required", first["msg"])
	second := items[1].(map[string]interface{})
	assert.Equal(t, "string_too_short", second["type"])

	w = f.do(t, http.MethodPost, "/auth/signup", "", dto.SignupRequest{FullName: "Dup", Phone: DemoOwnerPhone, Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Phone already registered", detail(t, w))

	w = f.do(t, http.MethodPost, "/auth/signup", "", dto.SignupRequest{FullName: "New", Phone: "01799999999", Password: "secret1"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMeReflectsMembership(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, DemoOwnerPhone)

	w := f.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role_name":"owner"`)
	assert.Contains(t, w.Body.String(), f.seeded.Organization.ID)

	guest := f.login(t, DemoGuestPhone)
	w = f.do(t, http.MethodGet, "/organizations/me", guest, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, http.MethodGet, "/courses", guest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOwnerOnlyRoutes(t *testing.T) {
	f := newFixture(t)
	operator := f.login(t, DemoOperatorPhone)
	owner := f.login(t, DemoOwnerPhone)

	w := f.do(t, http.MethodGet, "/membership/members", operator, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, detail(t, w), "permission")

	w = f.do(t, http.MethodGet, "/membership/members", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo Operator")

	w = f.do(t, http.MethodDelete, "/membership/members/"+f.seeded.Owner.ID, owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot remove yourself", detail(t, w))

	w = f.do(t, http.MethodPost, "/membership/invite", owner, dto.InviteRequest{Identifier: "nobody", RoleName: "scan_operator"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/membership/invite", owner, dto.InviteRequest{Identifier: DemoGuestPhone, RoleName: "scan_operator"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Invitation already pending", detail(t, w))

	w = f.do(t, http.MethodDelete, "/membership/members/"+f.seeded.Operator.ID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/courses", operator, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStudentRoutes(t *testing.T) {
	f := newFixture(t)
	owner := f.login(t, DemoOwnerPhone)
	course := f.seeded.Course.ID

	w := f.do(t, http.MethodGet, "/students/course/"+course+"?roll=10&skip=0&limit=1000", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var students []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	assert.Len(t, students, 2)

	w = f.do(t, http.MethodGet, "/students/course/"+course+"?batch_name=Evening", owner, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "201", students[0]["roll"])

	w = f.do(t, http.MethodPost, "/students/", owner, dto.NewCreateStudentRequest(course, dto.StudentInput{Roll: "101"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, "/students/"+students[0]["id"].(string), owner, map[string]string{"batch_name": "Morning"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"roll":"201"`)
	assert.Contains(t, w.Body.String(), `"batch_name":"Morning"`)

	w = f.do(t, http.MethodPatch, "/students/"+students[0]["id"].(string), owner, map[string]string{"roll": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, http.MethodDelete, "/courses/"+course, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodGet, "/students/course/"+course, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", detail(t, w))
}

func TestRespondAndLeave(t *testing.T) {
	f := newFixture(t)
	guest := f.login(t, DemoGuestPhone)
	owner := f.login(t, DemoOwnerPhone)

	w := f.do(t, http.MethodPost, "/membership/invitations/"+f.seeded.Invitation.ID+"/respond", guest, map[string]string{"action": "maybe"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, http.MethodPost, "/membership/invitations/"+f.seeded.Invitation.ID+"/respond", guest, dto.RespondInvitationRequest{Action: dto.ActionApprove})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/courses", guest, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/membership/invitations/"+f.seeded.Invitation.ID+"/respond", guest, dto.RespondInvitationRequest{Action: dto.ActionReject})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/membership/leave", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Owner cannot leave the organization", detail(t, w))

	w = f.do(t, http.MethodPost, "/membership/leave", guest, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/organizations/me", guest, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", detail(t, w))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `scanova_mock_requests_total{method="GET",route="unmatched",status="404"} 1`))
}
