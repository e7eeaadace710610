package dto

// CreateBootcampRequest - bootcamp creation payload. The address is
// geocoded before persisting; location fields are never accepted from
// the client.
type CreateBootcampRequest struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,url"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,is-career"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"job_assistance"`
	JobGuarantee  bool     `json:"job_guarantee"`
	AcceptGi      bool     `json:"accept_gi"`
}

// UpdateBootcampRequest - partial bootcamp update; nil fields are left
// unchanged
type UpdateBootcampRequest struct {
	Name          *string  `json:"name" validate:"omitempty,max=50"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Website       *string  `json:"website" validate:"omitempty,url"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address"`
	Careers       []string `json:"careers" validate:"omitempty,min=1,dive,is-career"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"job_assistance"`
	JobGuarantee  *bool    `json:"job_guarantee"`
	AcceptGi      *bool    `json:"accept_gi"`
}
