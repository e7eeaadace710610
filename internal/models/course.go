package models

type Course struct {
	BaseModel
	Title                string  `gorm:"not null" json:"title"`
	Description          string  `gorm:"not null" json:"description"`
	Weeks                int     `gorm:"not null" json:"weeks"`
	Tuition              float64 `gorm:"not null" json:"tuition"`
	MinimumSkill         string  `gorm:"type:varchar(20);not null" json:"minimum_skill"`
	ScholarshipAvailable bool    `gorm:"default:false" json:"scholarship_available"`

	BootcampID string `gorm:"not null;index" json:"bootcamp_id"`
	UserID     string `gorm:"not null;index" json:"user_id"`

	// Relations
	Bootcamp *Bootcamp `gorm:"foreignKey:BootcampID" json:"bootcamp,omitempty"`
}
