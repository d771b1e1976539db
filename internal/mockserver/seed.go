package mockserver

import (
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
)

// Demo credentials created by Seed.
const (
	DemoOwnerPhone    = "01700000001"
	DemoOperatorPhone = "01700000002"
	DemoGuestPhone    = "01700000003"
	DemoPassword      = "scanova123"
	DemoOrganization  = "Scanova Demo School"
	demoCourseName    = "Physics 101"
	demoEmptyCourse   = "Chemistry"
	demoInviteMessage = "Join us to help with scanning."
)

// Seeded reports what Seed created.
type Seeded struct {
	Owner        *models.User
	Operator     *models.User
	Guest        *models.User
	Organization *models.Organization
	Course       models.Course
	Invitation   *models.Invitation
}

// Seed fills the store with an owner, an operator, a guest holding a pending
// invitation, and two courses.
func Seed(s *Store) (*Seeded, error) {
	owner, err := s.CreateAccount(dto.SignupRequest{FullName: "Demo Owner", Phone: DemoOwnerPhone, Email: "owner@scanova.test", Password: DemoPassword})
	if err != nil {
		return nil, err
	}
	org, err := s.CreateOrganization(DemoOrganization, "Seeded organization for local development", owner.ID)
	if err != nil {
		return nil, err
	}
	operator, err := s.CreateAccount(dto.SignupRequest{FullName: "Demo Operator", Phone: DemoOperatorPhone, Password: DemoPassword})
	if err != nil {
		return nil, err
	}
	if _, err := s.Invite(org.ID, dto.InviteRequest{Identifier: DemoOperatorPhone, RoleName: models.RoleScanOperator}); err != nil {
		return nil, err
	}
	for _, inv := range s.MyInvitations(operator.ID) {
		if err := s.Respond(operator.ID, inv.ID, dto.ActionApprove); err != nil {
			return nil, err
		}
	}
	guest, err := s.CreateAccount(dto.SignupRequest{FullName: "Demo Guest", Phone: DemoGuestPhone, Email: "guest@scanova.test", Password: DemoPassword})
	if err != nil {
		return nil, err
	}
	invite, err := s.Invite(org.ID, dto.InviteRequest{Identifier: DemoGuestPhone, RoleName: models.RoleOrgAdmin, Message: demoInviteMessage})
	if err != nil {
		return nil, err
	}

	course := s.CreateCourse(org.ID, dto.CourseInput{Name: demoCourseName, Description: "Morning batch physics", MessageTemplate: "Dear guardian, {roll} scored {marks}."})
	s.CreateCourse(org.ID, dto.CourseInput{Name: demoEmptyCourse})
	roster := []dto.StudentInput{
		{Roll: "101", Registration: "REG-101", Phone: "01800000101", BatchName: "Morning"},
		{Roll: "102", Registration: "REG-102", GuardianPhone: "01900000102", BatchName: "Morning"},
		{Roll: "201", BatchName: "Evening", ExtraDetails: map[string]interface{}{"section": "B"}},
	}
	for _, in := range roster {
		if _, err := s.CreateStudent(org.ID, dto.NewCreateStudentRequest(course.ID, in)); err != nil {
			return nil, err
		}
	}

	refreshedOperator, _ := s.User(operator.ID)
	refreshedOwner, _ := s.User(owner.ID)
	return &Seeded{
		Owner:        refreshedOwner,
		Operator:     refreshedOperator,
		Guest:        guest,
		Organization: org,
		Course:       course,
		Invitation:   invite,
	}, nil
}
