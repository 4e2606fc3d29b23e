package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Per-route middleware: the public course listing shares this prefix.
	instructorOnly := []fiber.Handler{middleware.Protected(h.JWTSecret), middleware.InstructorRequired()}
	api.Get("/courses/instructor", append(instructorOnly, h.ListInstructorCourses)...)
	api.Post("/courses", append(instructorOnly, h.CreateCourse)...)
	api.Put("/courses/:courseId", append(instructorOnly, h.UpdateCourse)...)
	api.Delete("/courses/:courseId", append(instructorOnly, h.DeleteCourse)...)
	api.Post("/courses/:courseId/submit", append(instructorOnly, h.SubmitCourse)...)
}
