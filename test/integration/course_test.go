package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"bootcamp_backend/internal/models"
	"bootcamp_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCourse(t *testing.T, ts *helpers.TestServer, token, bootcampID string, tuition float64) models.Course {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/bootcamps/"+bootcampID+"/courses", token, map[string]interface{}{
		"title":         "Full Stack Web Development",
		"description":   "Twelve weeks of everything web",
		"weeks":         12,
		"tuition":       tuition,
		"minimum_skill": "beginner",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "create course should succeed: %s", body)

	var resp struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Data
}

func bootcampAverageCost(t *testing.T, ts *helpers.TestServer, bootcampID string) float64 {
	t.Helper()

	var b models.Bootcamp
	require.NoError(t, ts.DB.First(&b, "id = ?", bootcampID).Error)
	return b.AverageCost
}

func TestCreateCourseUpdatesAverageCost(t *testing.T) {
	ts := GetTestServer(t)
	token, owner := helpers.CreateAndLoginUser(t, ts, "Course Owner", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)

	createCourse(t, ts, token, bootcamp.ID, 8000)
	assert.InDelta(t, 8000, bootcampAverageCost(t, ts, bootcamp.ID), 0.001)

	// 8000 and 10001 average to 9000.5, rounded up to the next ten.
	createCourse(t, ts, token, bootcamp.ID, 10001)
	assert.InDelta(t, 9010, bootcampAverageCost(t, ts, bootcamp.ID), 0.001)
}

func TestDeleteCourseResetsAverageCost(t *testing.T) {
	ts := GetTestServer(t)
	token, owner := helpers.CreateAndLoginUser(t, ts, "Course Deleter", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)

	course := createCourse(t, ts, token, bootcamp.ID, 6000)
	require.InDelta(t, 6000, bootcampAverageCost(t, ts, bootcamp.ID), 0.001)

	res, body := ts.SendRequest(t, http.MethodDelete, "/api/v1/courses/"+course.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "delete should succeed: %s", body)
	assert.Zero(t, bootcampAverageCost(t, ts, bootcamp.ID), "no courses means no average cost")
}

func TestCourseOwnershipEnforced(t *testing.T) {
	ts := GetTestServer(t)
	ownerToken, owner := helpers.CreateAndLoginUser(t, ts, "Course Author", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)
	course := createCourse(t, ts, ownerToken, bootcamp.ID, 5000)

	otherToken, _ := helpers.CreateAndLoginUser(t, ts, "Rival Publisher", models.UserRolePublisher)

	// A publisher cannot add courses to someone else's bootcamp.
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/bootcamps/"+bootcamp.ID+"/courses", otherToken, map[string]interface{}{
		"title":         "Intruder Course",
		"description":   "Should be rejected",
		"weeks":         4,
		"tuition":       1000,
		"minimum_skill": "beginner",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/courses/"+course.ID, otherToken, map[string]interface{}{
		"tuition": 1,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestCreateCourseValidation(t *testing.T) {
	ts := GetTestServer(t)
	token, owner := helpers.CreateAndLoginUser(t, ts, "Course Validator", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/bootcamps/"+bootcamp.ID+"/courses", token, map[string]interface{}{
		"title":         "Broken Course",
		"description":   "Unknown skill level",
		"weeks":         4,
		"tuition":       1000,
		"minimum_skill": "wizard",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "minimum_skill")
}

func TestListCoursesForBootcamp(t *testing.T) {
	ts := GetTestServer(t)
	token, owner := helpers.CreateAndLoginUser(t, ts, "Course Lister", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)
	createCourse(t, ts, token, bootcamp.ID, 7000)
	createCourse(t, ts, token, bootcamp.ID, 9000)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/bootcamps/"+bootcamp.ID+"/courses", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	env := helpers.ParseEnvelope(t, body)
	assert.Equal(t, 2, env.Count)

	var items []models.Course
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	for _, c := range items {
		assert.Equal(t, bootcamp.ID, c.BootcampID)
	}
}

func TestGetCourseIncludesBootcamp(t *testing.T) {
	ts := GetTestServer(t)
	token, owner := helpers.CreateAndLoginUser(t, ts, "Course Reader", models.UserRolePublisher)
	bootcamp := helpers.CreateBootcampFor(t, ts.DB, owner.ID)
	course := createCourse(t, ts, token, bootcamp.ID, 4000)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/courses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var resp struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotNil(t, resp.Data.Bootcamp, "single course fetch embeds its bootcamp")
	assert.Equal(t, bootcamp.Name, resp.Data.Bootcamp.Name)
}
