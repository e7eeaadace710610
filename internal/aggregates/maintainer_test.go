package aggregates_test

import (
	"fmt"
	"strings"
	"testing"

	"bootcamp_backend/internal/aggregates"
	"bootcamp_backend/internal/events"
	"bootcamp_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Bootcamp{}, &models.Course{}, &models.Review{}))
	return db
}

func seedBootcamp(t *testing.T, db *gorm.DB) *models.Bootcamp {
	t.Helper()
	b := &models.Bootcamp{
		Name:        "Devworks Bootcamp",
		Description: "Full stack web development",
		UserID:      "owner-1",
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func TestRecalcAverageCost_CeilsToNearestTen(t *testing.T) {
	db := openTestDB(t)
	b := seedBootcamp(t, db)
	m := aggregates.NewMaintainer()

	courses := []models.Course{
		{Title: "Front End Web Development", Weeks: 8, Tuition: 8001, BootcampID: b.ID, UserID: b.UserID},
		{Title: "Full Stack Web Development", Weeks: 12, Tuition: 10000, BootcampID: b.ID, UserID: b.UserID},
	}
	for i := range courses {
		require.NoError(t, db.Create(&courses[i]).Error)
	}

	require.NoError(t, m.RecalcAverageCost(db, b.ID))

	var got models.Bootcamp
	require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
	// avg(8001, 10000) = 9000.5, ceil to ten = 9010
	require.Equal(t, float64(9010), got.AverageCost)
}

func TestRecalcAverageCost_ResetsWhenNoCourses(t *testing.T) {
	db := openTestDB(t)
	b := seedBootcamp(t, db)
	m := aggregates.NewMaintainer()

	course := models.Course{Title: "Data Science", Weeks: 10, Tuition: 12000, BootcampID: b.ID, UserID: b.UserID}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, m.RecalcAverageCost(db, b.ID))

	require.NoError(t, db.Delete(&course).Error)
	require.NoError(t, m.RecalcAverageCost(db, b.ID))

	var got models.Bootcamp
	require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
	require.Zero(t, got.AverageCost)
}

func TestRecalcAverageRating_Unrounded(t *testing.T) {
	db := openTestDB(t)
	b := seedBootcamp(t, db)
	m := aggregates.NewMaintainer()

	reviews := []models.Review{
		{Title: "Great course", Text: "Learned a lot", Rating: 8, BootcampID: b.ID, UserID: "reviewer-1"},
		{Title: "Solid", Text: "Worth the money", Rating: 9, BootcampID: b.ID, UserID: "reviewer-2"},
	}
	for i := range reviews {
		require.NoError(t, db.Create(&reviews[i]).Error)
	}

	require.NoError(t, m.RecalcAverageRating(db, b.ID))

	var got models.Bootcamp
	require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
	require.InDelta(t, 8.5, got.AverageRating, 0.0001)
}

func TestMaintainer_RespondsToDispatchedEvents(t *testing.T) {
	db := openTestDB(t)
	b := seedBootcamp(t, db)

	dispatcher := events.NewDispatcher()
	aggregates.NewMaintainer().Register(dispatcher)

	course := models.Course{Title: "UI/UX", Weeks: 6, Tuition: 5000, BootcampID: b.ID, UserID: b.UserID}
	require.NoError(t, db.Create(&course).Error)
	dispatcher.Fire(events.Event{
		Entity:     events.EntityCourse,
		Action:     events.ActionWrite,
		BootcampID: b.ID,
		DB:         db,
	})

	review := models.Review{Title: "Good", Text: "Enjoyed it", Rating: 7, BootcampID: b.ID, UserID: "reviewer-1"}
	require.NoError(t, db.Create(&review).Error)
	dispatcher.Fire(events.Event{
		Entity:     events.EntityReview,
		Action:     events.ActionWrite,
		BootcampID: b.ID,
		DB:         db,
	})

	var got models.Bootcamp
	require.NoError(t, db.First(&got, "id = ?", b.ID).Error)
	require.Equal(t, float64(5000), got.AverageCost)
	require.InDelta(t, 7.0, got.AverageRating, 0.0001)
}
