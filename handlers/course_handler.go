package handlers

import (
	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateCourseRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"required,len=3"`
}

func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	instructorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	course, err := h.Courses.CreateCourse(c.UserContext(), services.CreateCourseInput{
		InstructorID: instructorID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     req.Currency,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

type UpdateCourseRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"required,len=3"`
}

func (h *Handler) UpdateCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	var req UpdateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	instructorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	course, err := h.Courses.UpdateCourse(c.UserContext(), courseID, instructorID, services.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) DeleteCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	instructorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	if err := h.Courses.DeleteCourse(c.UserContext(), courseID, instructorID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListInstructorCourses(c *fiber.Ctx) error {
	instructorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}
	courses, err := h.Courses.ListInstructorCourses(c.UserContext(), instructorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

func (h *Handler) SubmitCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	instructorID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	course, err := h.Courses.SubmitForApproval(c.UserContext(), courseID, instructorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) ApproveCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	course, err := h.Courses.ApproveCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) RejectCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	course, err := h.Courses.RejectCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

func (h *Handler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.Courses.ListPublishedCourses(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(courses)
}

func (h *Handler) GetCourse(c *fiber.Ctx) error {
	courseID, ok := paramUUID(c, "courseId")
	if !ok {
		return badRequest(c, "Invalid course ID format")
	}
	course, err := h.Courses.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}
