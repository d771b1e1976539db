package mockserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// Roles an owner may invite with.
var invitableRoles = []string{models.RoleOrgAdmin, models.RoleScanOperator}

const timestampLayout = "2006-01-02T15:04:05.000000"

type account struct {
	user         models.User
	passwordHash []byte
}

type invitation struct {
	models.Invitation
	orgID     string
	inviteeID string
}

// Store holds every backend record in memory.
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	bcryptCost  int
	accounts    map[string]*account
	orgs        map[string]models.Organization
	courses     []models.Course
	students    []models.Student
	invitations []*invitation
}

// NewStore builds an empty store.
func NewStore(bcryptCost int) *Store {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{
		now:        time.Now,
		bcryptCost: bcryptCost,
		accounts:   map[string]*account{},
		orgs:       map[string]models.Organization{},
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// CreateAccount registers a user without an organization.
func (s *Store) CreateAccount(req dto.SignupRequest) (*models.User, error) {
	phone := strings.TrimSpace(req.Phone)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.Phone == phone {
			return nil, appErrors.Clone(appErrors.ErrRequestFailed, "Phone already registered")
		}
		if email != "" && acc.user.Email == email {
			return nil, appErrors.Clone(appErrors.ErrRequestFailed, "Email already registered")
		}
	}
	user := models.User{
		ID:       uuid.NewString(),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    phone,
		Email:    email,
		RoleName: models.RoleGuest,
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	return &user, nil
}

// Authenticate checks a phone/password pair.
func (s *Store) Authenticate(phone, password string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	s.mu.RLock()
	var found *account
	for _, acc := range s.accounts {
		if acc.user.Phone == phone {
			found = acc
			break
		}
	}
	s.mu.RUnlock()

	invalid := appErrors.Clone(appErrors.ErrUnauthorized, "Incorrect phone or password")
	if found == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)); err != nil {
		return nil, invalid
	}
	user := found.user
	return &user, nil
}

// User returns a copy of the stored user.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Could not validate credentials")
	}
	user := acc.user
	return &user, nil
}

// CreateOrganization creates an organization owned by ownerID.
func (s *Store) CreateOrganization(name, description, ownerID string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.accounts[ownerID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	if owner.user.OrgID != "" {
		return nil, appErrors.Clone(appErrors.ErrRequestFailed, "You already belong to an organization")
	}
	org := models.Organization{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		CreatedAt:   s.timestamp(),
	}
	s.orgs[org.ID] = org
	owner.user.OrgID = org.ID
	owner.user.RoleName = models.RoleOwner
	return &org, nil
}

// Organization returns the organization with id.
func (s *Store) Organization(id string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Organization not found")
	}
	return &org, nil
}

// Courses lists an organization's courses in creation order.
func (s *Store) Courses(orgID string, skip, limit int) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Course{}
	for _, c := range s.courses {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return page(out, skip, limit)
}

func (s *Store) courseIndex(orgID, id string) int {
	for i, c := range s.courses {
		if c.ID == id && c.OrgID == orgID {
			return i
		}
	}
	return -1
}

// Course returns one course of the organization.
func (s *Store) Course(orgID, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.courseIndex(orgID, id)
	if i < 0 {
		return nil, errCourseNotFound
	}
	course := s.courses[i]
	return &course, nil
}

var (
	errCourseNotFound  = appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	errStudentNotFound = appErrors.Clone(appErrors.ErrNotFound, "Student not found")
)

// CreateCourse adds a course to the organization.
func (s *Store) CreateCourse(orgID string, in dto.CourseInput) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	course := models.Course{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		MessageTemplate: strings.TrimSpace(in.MessageTemplate),
		OrgID:           orgID,
		CreatedAt:       s.timestamp(),
	}
	s.courses = append(s.courses, course)
	return course
}

// UpdateCourse replaces the editable fields of a course.
func (s *Store) UpdateCourse(orgID, id string, in dto.CourseInput) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.courseIndex(orgID, id)
	if i < 0 {
		return nil, errCourseNotFound
	}
	s.courses[i].Name = strings.TrimSpace(in.Name)
	s.courses[i].Description = strings.TrimSpace(in.Description)
	s.courses[i].MessageTemplate = strings.TrimSpace(in.MessageTemplate)
	course := s.courses[i]
	return &course, nil
}

// DeleteCourse removes a course and its students.
func (s *Store) DeleteCourse(orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.courseIndex(orgID, id)
	if i < 0 {
		return errCourseNotFound
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	kept := s.students[:0]
	for _, st := range s.students {
		if st.CourseID != id {
			kept = append(kept, st)
		}
	}
	s.students = kept
	return nil
}

// StudentQuery narrows a roster listing.
type StudentQuery struct {
	Skip      int
	Limit     int
	Roll      string
	BatchName string
}

// Students lists a course roster. Roll matches by prefix, batch exactly.
func (s *Store) Students(orgID, courseID string, q StudentQuery) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.courseIndex(orgID, courseID) < 0 {
		return nil, errCourseNotFound
	}
	roll := strings.ToLower(strings.TrimSpace(q.Roll))
	batch := strings.TrimSpace(q.BatchName)
	out := []models.Student{}
	for _, st := range s.students {
		if st.CourseID != courseID {
			continue
		}
		if roll != "" && !strings.HasPrefix(strings.ToLower(st.Roll), roll) {
			continue
		}
		if batch != "" && models.StringOr(st.BatchName, "") != batch {
			continue
		}
		out = append(out, st)
	}
	return page(out, q.Skip, q.Limit), nil
}

// CreateStudent enrolls a student; rolls are unique per course.
func (s *Store) CreateStudent(orgID string, req dto.CreateStudentRequest) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.courseIndex(orgID, req.CourseID) < 0 {
		return nil, errCourseNotFound
	}
	roll := strings.TrimSpace(req.Roll)
	for _, st := range s.students {
		if st.CourseID == req.CourseID && st.Roll == roll {
			return nil, appErrors.Clone(appErrors.ErrRequestFailed, "Roll already exists in this course")
		}
	}
	st := models.Student{
		ID:            uuid.NewString(),
		CourseID:      req.CourseID,
		Roll:          roll,
		Registration:  req.Registration,
		Phone:         req.Phone,
		GuardianPhone: req.GuardianPhone,
		BatchName:     req.BatchName,
		ExtraDetails:  req.ExtraDetails,
		CreatedAt:     s.timestamp(),
	}
	s.students = append(s.students, st)
	return &st, nil
}

func (s *Store) studentIndex(orgID, id string) int {
	for i, st := range s.students {
		if st.ID == id && s.courseIndex(orgID, st.CourseID) >= 0 {
			return i
		}
	}
	return -1
}

// PatchStudent applies the fields present in req.
func (s *Store) PatchStudent(orgID, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.studentIndex(orgID, id)
	if i < 0 {
		return nil, errStudentNotFound
	}
	st := &s.students[i]
	if req.Roll != nil {
		roll := strings.TrimSpace(*req.Roll)
		for j, other := range s.students {
			if j != i && other.CourseID == st.CourseID && other.Roll == roll {
				return nil, appErrors.Clone(appErrors.ErrRequestFailed, "Roll already exists in this course")
			}
		}
		st.Roll = roll
	}
	if req.Registration != nil {
		st.Registration = req.Registration
	}
	if req.Phone != nil {
		st.Phone = req.Phone
	}
	if req.GuardianPhone != nil {
		st.GuardianPhone = req.GuardianPhone
	}
	if req.BatchName != nil {
		st.BatchName = req.BatchName
	}
	if req.ExtraDetails != nil {
		st.ExtraDetails = req.ExtraDetails
	}
	out := *st
	return &out, nil
}

// DeleteStudent removes a student.
func (s *Store) DeleteStudent(orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.studentIndex(orgID, id)
	if i < 0 {
		return errStudentNotFound
	}
	s.students = append(s.students[:i], s.students[i+1:]...)
	return nil
}

// Members lists the users of an organization, owner first.
func (s *Store) Members(orgID string) []models.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Member{}
	for _, acc := range s.accounts {
		if acc.user.OrgID != orgID {
			continue
		}
		out = append(out, models.Member{
			ID:       acc.user.ID,
			FullName: acc.user.FullName,
			Phone:    acc.user.Phone,
			Email:    acc.user.Email,
			RoleName: acc.user.RoleName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].RoleName == models.RoleOwner, out[j].RoleName == models.RoleOwner
		if oi != oj {
			return oi
		}
		return out[i].FullName < out[j].FullName
	})
	return out
}

// RemoveMember detaches a user from the organization.
func (s *Store) RemoveMember(orgID, callerID, userID string) error {
	if callerID == userID {
		return appErrors.Clone(appErrors.ErrRequestFailed, "You cannot remove yourself")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[userID]
	if !ok || acc.user.OrgID != orgID {
		return appErrors.Clone(appErrors.ErrNotFound, "Member not found")
	}
	acc.user.OrgID = ""
	acc.user.RoleName = models.RoleGuest
	return nil
}

// Leave detaches the caller from their organization. Owners cannot leave.
func (s *Store) Leave(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[userID]
	if !ok || acc.user.OrgID == "" {
		return appErrors.Clone(appErrors.ErrRequestFailed, "You do not belong to an organization")
	}
	if acc.user.RoleName == models.RoleOwner {
		return appErrors.Clone(appErrors.ErrRequestFailed, "Owner cannot leave the organization")
	}
	acc.user.OrgID = ""
	acc.user.RoleName = models.RoleGuest
	return nil
}

// Invite creates a pending invitation for the user matching identifier.
func (s *Store) Invite(orgID string, req dto.InviteRequest) (*models.Invitation, error) {
	identifier := strings.TrimSpace(req.Identifier)
	role := strings.TrimSpace(req.RoleName)
	if !validRole(role) {
		return nil, appErrors.Clone(appErrors.ErrRequestFailed, "Invalid role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[orgID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Organization not found")
	}
	var invitee *account
	for _, acc := range s.accounts {
		if acc.user.Phone == identifier || (acc.user.Email != "" && strings.EqualFold(acc.user.Email, identifier)) {
			invitee = acc
			break
		}
	}
	if invitee == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	if invitee.user.OrgID == orgID {
		return nil, appErrors.Clone(appErrors.ErrRequestFailed, "User is already a member of this organization")
	}
	for _, inv := range s.invitations {
		if inv.orgID == orgID && inv.inviteeID == invitee.user.ID && inv.Status == models.InvitationPending {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Invitation already pending")
		}
	}
	inv := &invitation{
		Invitation: models.Invitation{
			ID:             uuid.NewString(),
			RoleName:       role,
			OrgName:        org.Name,
			Message:        strings.TrimSpace(req.Message),
			Status:         models.InvitationPending,
			UserIdentifier: identifier,
			CreatedAt:      s.timestamp(),
		},
		orgID:     orgID,
		inviteeID: invitee.user.ID,
	}
	s.invitations = append(s.invitations, inv)
	out := inv.Invitation
	return &out, nil
}

// MyInvitations lists invitations addressed to userID, newest first.
func (s *Store) MyInvitations(userID string) []models.Invitation {
	return s.filterInvitations(func(inv *invitation) bool { return inv.inviteeID == userID })
}

// OrgInvitations lists invitations sent by orgID, newest first.
func (s *Store) OrgInvitations(orgID string) []models.Invitation {
	return s.filterInvitations(func(inv *invitation) bool { return inv.orgID == orgID })
}

func (s *Store) filterInvitations(keep func(*invitation) bool) []models.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Invitation{}
	for i := len(s.invitations) - 1; i >= 0; i-- {
		if keep(s.invitations[i]) {
			out = append(out, s.invitations[i].Invitation)
		}
	}
	return out
}

// Respond approves or rejects an invitation addressed to userID. Approval
// moves the user into the inviting organization.
func (s *Store) Respond(userID, id, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inv *invitation
	for _, candidate := range s.invitations {
		if candidate.ID == id && candidate.inviteeID == userID {
			inv = candidate
			break
		}
	}
	if inv == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "Invitation not found")
	}
	if inv.Status != models.InvitationPending {
		return appErrors.Clone(appErrors.ErrRequestFailed, "Invitation already responded")
	}
	if action == dto.ActionReject {
		inv.Status = models.InvitationRejected
		return nil
	}
	acc := s.accounts[userID]
	if acc.user.OrgID != "" {
		return appErrors.Clone(appErrors.ErrRequestFailed, "Leave your current organization first")
	}
	inv.Status = models.InvitationApproved
	acc.user.OrgID = inv.orgID
	acc.user.RoleName = inv.RoleName
	return nil
}

func validRole(role string) bool {
	for _, r := range invitableRoles {
		if r == role {
			return true
		}
	}
	return false
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
