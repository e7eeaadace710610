package models

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRolePublisher UserRole = "publisher"
	UserRoleAdmin     UserRole = "admin"
)

// Minimum skill levels for a course.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Career tags a bootcamp may advertise.
var ValidCareers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// IsValidCareer reports whether the tag is one of the known careers.
func IsValidCareer(career string) bool {
	for _, c := range ValidCareers {
		if c == career {
			return true
		}
	}
	return false
}
