package models

type Bootcamp struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Slug        string `gorm:"index" json:"slug"`
	Description string `gorm:"not null;size:500" json:"description"`
	Website     string `json:"website,omitempty"`
	Phone       string `gorm:"size:20" json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `gorm:"not null" json:"address"`

	// Geocoded location, filled by the service before first persistence.
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Street           string  `json:"street,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Zipcode          string  `json:"zipcode,omitempty"`
	Country          string  `json:"country,omitempty"`

	Careers []string `gorm:"serializer:json;type:text" json:"careers"`

	// Derived statistics, maintained by the aggregates package.
	AverageRating float64 `json:"average_rating"`
	AverageCost   float64 `json:"average_cost"`

	Photo         string `gorm:"default:'no-photo.jpg'" json:"photo"`
	Housing       bool   `gorm:"default:false" json:"housing"`
	JobAssistance bool   `gorm:"default:false" json:"job_assistance"`
	JobGuarantee  bool   `gorm:"default:false" json:"job_guarantee"`
	AcceptGi      bool   `gorm:"default:false" json:"accept_gi"`

	UserID string `gorm:"not null;index" json:"user_id"`

	// Relations
	Courses []Course `gorm:"foreignKey:BootcampID" json:"courses,omitempty"`
	Reviews []Review `gorm:"foreignKey:BootcampID" json:"reviews,omitempty"`
}
