package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
)

// TeamServiceTestSuite defines the test suite for TeamService
type TeamServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TeamService
}

// SetupTest runs before each test
func (suite *TeamServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Team{},
		&models.TeamMembership{},
	)
	suite.Require().NoError(err)

	suite.service = NewTeamService(
		repository.NewTeamRepository(suite.db),
		repository.NewProfileRepository(suite.db),
	)
}

// TearDownTest runs after each test
func (suite *TeamServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TeamServiceTestSuite) createTestProfile(email string) *models.Profile {
	profile := &models.Profile{
		Email:        email,
		Username:     email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(profile).Error)
	return profile
}

// TestCreate_MakesCallerAdmin tests that the creator becomes the first
// admin member
func (suite *TeamServiceTestSuite) TestCreate_MakesCallerAdmin() {
	creator := suite.createTestProfile("creator@example.com")

	team, err := suite.service.Create("Equipo", creator.ID)
	suite.Require().NoError(err)
	suite.NotEmpty(team.ID)

	var member models.TeamMembership
	err = suite.db.Where("team_id = ? AND user_id = ?", team.ID, creator.ID).
		First(&member).Error
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, member.Role)
}

// TestCreate_EmptyName tests the name guard
func (suite *TeamServiceTestSuite) TestCreate_EmptyName() {
	creator := suite.createTestProfile("creator@example.com")

	_, err := suite.service.Create("   ", creator.ID)
	suite.ErrorIs(err, ErrTeamNameRequired)
}

// TestMembers tests the member listing with its profile preload
func (suite *TeamServiceTestSuite) TestMembers() {
	admin := suite.createTestProfile("admin@example.com")
	other := suite.createTestProfile("other@example.com")

	team, err := suite.service.Create("Equipo", admin.ID)
	suite.Require().NoError(err)
	_, err = suite.service.AddMember(team.ID, admin.ID, other.ID)
	suite.Require().NoError(err)

	members, err := suite.service.Members(team.ID, admin.ID)
	suite.Require().NoError(err)
	suite.Len(members, 2)
	for _, member := range members {
		suite.NotEmpty(member.Profile.Email)
	}
}

// TestMembers_NotMember tests listing by an outsider
func (suite *TeamServiceTestSuite) TestMembers_NotMember() {
	admin := suite.createTestProfile("admin@example.com")
	outsider := suite.createTestProfile("outsider@example.com")

	team, err := suite.service.Create("Equipo", admin.ID)
	suite.Require().NoError(err)

	_, err = suite.service.Members(team.ID, outsider.ID)
	suite.ErrorIs(err, ErrNotTeamMember)
}

// TestAddMember_ByNonAdmin tests that plain members cannot add
func (suite *TeamServiceTestSuite) TestAddMember_ByNonAdmin() {
	admin := suite.createTestProfile("admin@example.com")
	member := suite.createTestProfile("member@example.com")
	third := suite.createTestProfile("third@example.com")

	team, err := suite.service.Create("Equipo", admin.ID)
	suite.Require().NoError(err)
	_, err = suite.service.AddMember(team.ID, admin.ID, member.ID)
	suite.Require().NoError(err)

	_, err = suite.service.AddMember(team.ID, member.ID, third.ID)
	suite.ErrorIs(err, ErrNotTeamAdmin)
}

// TestAddMember_UnknownUser tests adding a profile that does not exist
func (suite *TeamServiceTestSuite) TestAddMember_UnknownUser() {
	admin := suite.createTestProfile("admin@example.com")

	team, err := suite.service.Create("Equipo", admin.ID)
	suite.Require().NoError(err)

	_, err = suite.service.AddMember(team.ID, admin.ID, "2c3d05c1-0000-0000-0000-000000000000")
	suite.ErrorIs(err, ErrUserNotFound)
}

// TestAddMember_AlreadyMember tests the duplicate guard
func (suite *TeamServiceTestSuite) TestAddMember_AlreadyMember() {
	admin := suite.createTestProfile("admin@example.com")
	member := suite.createTestProfile("member@example.com")

	team, err := suite.service.Create("Equipo", admin.ID)
	suite.Require().NoError(err)
	_, err = suite.service.AddMember(team.ID, admin.ID, member.ID)
	suite.Require().NoError(err)

	_, err = suite.service.AddMember(team.ID, admin.ID, member.ID)
	suite.ErrorIs(err, ErrAlreadyMember)
}

// TestTeamServiceTestSuite runs the test suite
func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}
