package dto

// CreateCourseRequest - course creation payload
type CreateCourseRequest struct {
	Title                string  `json:"title" validate:"required"`
	Description          string  `json:"description" validate:"required"`
	Weeks                int     `json:"weeks" validate:"required,min=1"`
	Tuition              float64 `json:"tuition" validate:"required,min=0"`
	MinimumSkill         string  `json:"minimum_skill" validate:"required,is-minimum-skill"`
	ScholarshipAvailable bool    `json:"scholarship_available"`
}

// UpdateCourseRequest - partial course update
type UpdateCourseRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *int     `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,min=0"`
	MinimumSkill         *string  `json:"minimum_skill" validate:"omitempty,is-minimum-skill"`
	ScholarshipAvailable *bool    `json:"scholarship_available"`
}
