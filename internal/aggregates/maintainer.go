// Package aggregates keeps the denormalized bootcamp rollups (average
// tuition cost, average review rating) in sync with their source rows.
package aggregates

import (
	"math"

	"bootcamp_backend/internal/events"
	"bootcamp_backend/internal/logger"
	"bootcamp_backend/internal/models"

	"gorm.io/gorm"
)

type Maintainer struct{}

func NewMaintainer() *Maintainer {
	return &Maintainer{}
}

// Register subscribes the maintainer to course and review write/delete
// events. Recalculation failures are logged and never propagated, so a
// rollup problem cannot fail the write that triggered it.
func (m *Maintainer) Register(d *events.Dispatcher) {
	d.Listen(events.EntityCourse, func(e events.Event) {
		if err := m.RecalcAverageCost(e.DB, e.BootcampID); err != nil {
			logger.WithError(err).Error("failed to recalculate average cost",
				"bootcamp_id", e.BootcampID)
		}
	})
	d.Listen(events.EntityReview, func(e events.Event) {
		if err := m.RecalcAverageRating(e.DB, e.BootcampID); err != nil {
			logger.WithError(err).Error("failed to recalculate average rating",
				"bootcamp_id", e.BootcampID)
		}
	})
}

// RecalcAverageCost averages course tuition for the bootcamp, rounded up
// to the nearest ten. With no courses left the rollup resets to zero.
func (m *Maintainer) RecalcAverageCost(db *gorm.DB, bootcampID string) error {
	var avg *float64
	err := db.Model(&models.Course{}).
		Where("bootcamp_id = ?", bootcampID).
		Select("AVG(tuition)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	var cost float64
	if avg != nil {
		cost = math.Ceil(*avg/10) * 10
	}
	return db.Model(&models.Bootcamp{}).
		Where("id = ?", bootcampID).
		Update("average_cost", cost).Error
}

// RecalcAverageRating averages review ratings for the bootcamp without
// rounding. With no reviews left the rollup resets to zero.
func (m *Maintainer) RecalcAverageRating(db *gorm.DB, bootcampID string) error {
	var avg *float64
	err := db.Model(&models.Review{}).
		Where("bootcamp_id = ?", bootcampID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	var rating float64
	if avg != nil {
		rating = *avg
	}
	return db.Model(&models.Bootcamp{}).
		Where("id = ?", bootcampID).
		Update("average_rating", rating).Error
}
