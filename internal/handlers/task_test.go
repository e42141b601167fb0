package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidmorenoc/taskboard-api/internal/constants"
	"github.com/davidmorenoc/taskboard-api/internal/database"
	"github.com/davidmorenoc/taskboard-api/internal/models"
	"github.com/davidmorenoc/taskboard-api/internal/realtime"
	"github.com/davidmorenoc/taskboard-api/internal/repository"
	"github.com/davidmorenoc/taskboard-api/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.Comment{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskService := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewTeamRepository(suite.db),
		realtime.NopPublisher{},
	)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestProfile(email string) *models.Profile {
	profile := &models.Profile{
		Email:        email,
		Username:     email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(profile).Error)
	return profile
}

func (suite *TaskHandlerTestSuite) createTestTeam(name string) *models.Team {
	team := &models.Team{Name: name}
	suite.Require().NoError(suite.db.Create(team).Error)
	return team
}

func (suite *TaskHandlerTestSuite) createTestMembership(teamID, userID string) {
	member := &models.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Role:   models.RoleMember,
	}
	suite.Require().NoError(suite.db.Create(member).Error)
}

func (suite *TaskHandlerTestSuite) createTestTask(title, teamID, creatorID string) *models.Task {
	task := &models.Task{
		Title:     title,
		Priority:  models.PriorityMedia,
		State:     models.StateBacklog,
		TeamID:    teamID,
		CreatedBy: creatorID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// TestListTasks_Success tests the default team-wide listing
func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, user.ID)
	task := suite.createTestTask("Tarea", team.ID, user.ID)

	c, w := suite.createAuthContext("GET", "/api/task", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), task.ID, response.Tasks[0].ID)
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/task", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestListTasks_NoTeamMemberships tests the team filter for a user outside
// every team
func (suite *TaskHandlerTestSuite) TestListTasks_NoTeamMemberships() {
	user := suite.createTestProfile("user@example.com")

	c, w := suite.createAuthContext("GET", "/api/task", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestListTasks_InvalidFilter tests an unknown filter value
func (suite *TaskHandlerTestSuite) TestListTasks_InvalidFilter() {
	user := suite.createTestProfile("user@example.com")

	c, w := suite.createAuthContext("GET", "/api/task?filter=everything", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasks_MyFilter tests the assignment-scoped listing
func (suite *TaskHandlerTestSuite) TestListTasks_MyFilter() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, user.ID)
	mine := suite.createTestTask("Mia", team.ID, user.ID)
	suite.createTestTask("Ajena", team.ID, user.ID)
	suite.Require().NoError(suite.db.Create(&models.TaskAssignee{
		TaskID: mine.ID,
		UserID: user.ID,
		Points: 3,
	}).Error)

	c, w := suite.createAuthContext("GET", "/api/task?filter=my", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []models.Task `json:"tasks"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), mine.ID, response.Tasks[0].ID)
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, user.ID)

	requestBody := map[string]interface{}{
		"title":  "Nueva tarea",
		"teamid": team.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/task", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		Task models.Task `json:"task"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Nueva tarea", response.Task.Title)
	assert.Equal(suite.T(), models.StateBacklog, response.Task.State)
	assert.Equal(suite.T(), models.PriorityMedia, response.Task.Priority)
}

// TestCreateTask_MissingTitle tests creation with a missing required field
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, user.ID)

	requestBody := map[string]interface{}{
		"teamid": team.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/task", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_NotTeamMember tests creation into a foreign team
func (suite *TaskHandlerTestSuite) TestCreateTask_NotTeamMember() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")

	requestBody := map[string]interface{}{
		"title":  "Nueva tarea",
		"teamid": team.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/task", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestUpdateTaskState_Success tests a lane transition
func (suite *TaskHandlerTestSuite) TestUpdateTaskState_Success() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, user.ID)
	task := suite.createTestTask("Tarea", team.ID, user.ID)

	body, _ := json.Marshal(map[string]string{"state": "en_progreso"})

	c, w := suite.createAuthContext("PATCH", "/api/task/"+task.ID, body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.UpdateTaskState(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Task models.Task `json:"task"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StateEnProgreso, response.Task.State)
	assert.Equal(suite.T(), task.Title, response.Task.Title)
}

// TestUpdateTaskState_InvalidState tests an unknown lane name
func (suite *TaskHandlerTestSuite) TestUpdateTaskState_InvalidState() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	task := suite.createTestTask("Tarea", team.ID, user.ID)

	body, _ := json.Marshal(map[string]string{"state": "archivado"})

	c, w := suite.createAuthContext("PATCH", "/api/task/"+task.ID, body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.UpdateTaskState(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTaskState_MissingState tests a body without the state field
func (suite *TaskHandlerTestSuite) TestUpdateTaskState_MissingState() {
	user := suite.createTestProfile("user@example.com")
	team := suite.createTestTeam("Equipo")
	task := suite.createTestTask("Tarea", team.ID, user.ID)

	body, _ := json.Marshal(map[string]string{"title": "Renombrada"})

	c, w := suite.createAuthContext("PATCH", "/api/task/"+task.ID, body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.UpdateTaskState(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpdateTaskState_NotFound tests a transition on a missing task
func (suite *TaskHandlerTestSuite) TestUpdateTaskState_NotFound() {
	user := suite.createTestProfile("user@example.com")

	body, _ := json.Marshal(map[string]string{"state": "finalizado"})

	c, w := suite.createAuthContext("PATCH", "/api/task/missing", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "2c3d05c1-0000-0000-0000-000000000000"}}

	suite.handler.UpdateTaskState(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestAssignUser_Success tests assignment with its counter response
func (suite *TaskHandlerTestSuite) TestAssignUser_Success() {
	caller := suite.createTestProfile("caller@example.com")
	assignee := suite.createTestProfile("assignee@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, caller.ID)
	suite.createTestMembership(team.ID, assignee.ID)
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": assignee.ID,
		"points": 10,
	})

	c, w := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(10), response["puntosAsign"])
	assert.Equal(suite.T(), float64(10), response["puntosTotal"])
}

// TestAssignUser_Accumulates tests that repeated assignment adds up
func (suite *TaskHandlerTestSuite) TestAssignUser_Accumulates() {
	caller := suite.createTestProfile("caller@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, caller.ID)
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	for _, points := range []int{10, 5} {
		body, _ := json.Marshal(map[string]interface{}{
			"userId": caller.ID,
			"points": points,
		})
		c, w := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
		c.Params = gin.Params{{Key: "id", Value: task.ID}}

		suite.handler.AssignUser(c)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.Equal(suite.T(), 15, reloaded.PuntosAsign)
	assert.Equal(suite.T(), 15, reloaded.PuntosTotal)
}

// TestAssignUser_MissingFields tests a body without userId or points
func (suite *TaskHandlerTestSuite) TestAssignUser_MissingFields() {
	caller := suite.createTestProfile("caller@example.com")

	body, _ := json.Marshal(map[string]interface{}{"userId": caller.ID})

	c, w := suite.createAuthContext("POST", "/api/task/any/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: "any"}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAssignUser_NegativePoints tests the non-negative guard
func (suite *TaskHandlerTestSuite) TestAssignUser_NegativePoints() {
	caller := suite.createTestProfile("caller@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, caller.ID)
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": caller.ID,
		"points": -5,
	})

	c, w := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAssignUser_CallerNotMember tests assignment by an outsider
func (suite *TaskHandlerTestSuite) TestAssignUser_CallerNotMember() {
	caller := suite.createTestProfile("caller@example.com")
	member := suite.createTestProfile("member@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, member.ID)
	task := suite.createTestTask("Tarea", team.ID, member.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": member.ID,
		"points": 5,
	})

	c, w := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestAssignUser_AssigneeNotMember tests assigning an outsider
func (suite *TaskHandlerTestSuite) TestAssignUser_AssigneeNotMember() {
	caller := suite.createTestProfile("caller@example.com")
	outsider := suite.createTestProfile("outsider@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, caller.ID)
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": outsider.ID,
		"points": 5,
	})

	c, w := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAssignUser_TaskNotFound tests assignment against a missing task
func (suite *TaskHandlerTestSuite) TestAssignUser_TaskNotFound() {
	caller := suite.createTestProfile("caller@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"userId": caller.ID,
		"points": 5,
	})

	c, w := suite.createAuthContext("POST", "/api/task/missing/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: "2c3d05c1-0000-0000-0000-000000000000"}}

	suite.handler.AssignUser(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUnassignUser_Success tests removing an assignment; the lifetime
// counter stays
func (suite *TaskHandlerTestSuite) TestUnassignUser_Success() {
	caller := suite.createTestProfile("caller@example.com")
	team := suite.createTestTeam("Equipo")
	suite.createTestMembership(team.ID, caller.ID)
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": caller.ID,
		"points": 10,
	})
	c, _ := suite.createAuthContext("POST", "/api/task/"+task.ID+"/assign", body, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}
	suite.handler.AssignUser(c)

	c, w := suite.createAuthContext("DELETE", "/api/task/"+task.ID+"/assign?userId="+caller.ID, nil, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.UnassignUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.Equal(suite.T(), 0, reloaded.PuntosAsign)
	assert.Equal(suite.T(), 10, reloaded.PuntosTotal)
}

// TestUnassignUser_MissingUserID tests the query parameter guard
func (suite *TaskHandlerTestSuite) TestUnassignUser_MissingUserID() {
	caller := suite.createTestProfile("caller@example.com")

	c, w := suite.createAuthContext("DELETE", "/api/task/any/assign", nil, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: "any"}}

	suite.handler.UnassignUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUnassignUser_AssignmentNotFound tests unassigning a user with no row
func (suite *TaskHandlerTestSuite) TestUnassignUser_AssignmentNotFound() {
	caller := suite.createTestProfile("caller@example.com")
	team := suite.createTestTeam("Equipo")
	task := suite.createTestTask("Tarea", team.ID, caller.ID)

	c, w := suite.createAuthContext("DELETE", "/api/task/"+task.ID+"/assign?userId="+caller.ID, nil, caller.ID)
	c.Params = gin.Params{{Key: "id", Value: task.ID}}

	suite.handler.UnassignUser(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
