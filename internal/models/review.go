package models

type Review struct {
	BaseModel
	Title  string `gorm:"not null;size:100" json:"title"`
	Text   string `gorm:"not null" json:"text"`
	Rating int    `gorm:"not null;check:rating >= 1 AND rating <= 10" json:"rating"`

	// One review per user per bootcamp, enforced by the composite index.
	BootcampID string `gorm:"not null;index;uniqueIndex:idx_review_bootcamp_user" json:"bootcamp_id"`
	UserID     string `gorm:"not null;index;uniqueIndex:idx_review_bootcamp_user" json:"user_id"`

	// Relations
	Bootcamp *Bootcamp `gorm:"foreignKey:BootcampID" json:"bootcamp,omitempty"`
}
