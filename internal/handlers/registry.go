package handlers

// AppHandlers holds all route handlers of the application.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	BootcampHandler *BootcampHandler
	CourseHandler   *CourseHandler
	ReviewHandler   *ReviewHandler
}
