package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type CreateCourseInput struct {
	InstructorID uuid.UUID
	Title        string
	Description  string
	Price        decimal.Decimal
	Currency     string
}

type courseDetails struct {
	title    string
	currency string
}

func validateCourseDetails(title string, price decimal.Decimal, currency string) (*courseDetails, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationErrorf("title is required")
	}
	if !price.IsPositive() {
		return nil, validationErrorf("price must be greater than zero")
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if err := validate.Var(code, "required,iso4217"); err != nil {
		return nil, validationErrorf("unsupported currency %q", currency)
	}
	return &courseDetails{title: strings.TrimSpace(title), currency: code}, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*models.Course, error) {
	details, err := validateCourseDetails(in.Title, in.Price, in.Currency)
	if err != nil {
		return nil, err
	}

	course := models.Course{
		InstructorID: in.InstructorID,
		Title:        details.title,
		Description:  in.Description,
		Price:        in.Price.Round(2),
		Currency:     details.currency,
		Status:       models.CourseDraft,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&course).Error; err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return &course, nil
}

type UpdateCourseInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Currency    string
}

// UpdateCourse edits a course its instructor has not yet had published. Once
// a course is under review or on sale its price and title are fixed.
func (s *CourseService) UpdateCourse(ctx context.Context, courseID, instructorID uuid.UUID, in UpdateCourseInput) (*models.Course, error) {
	details, err := validateCourseDetails(in.Title, in.Price, in.Currency)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, courseID, func(c *models.Course) error {
		if err := ownEditable(c, courseID, instructorID); err != nil {
			return err
		}
		c.Title = details.title
		c.Description = in.Description
		c.Price = in.Price.Round(2)
		c.Currency = details.currency
		return nil
	})
}

// DeleteCourse removes a Draft or Rejected course owned by instructorID.
func (s *CourseService) DeleteCourse(ctx context.Context, courseID, instructorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("course %s", courseID)
			}
			return err
		}
		if err := ownEditable(&course, courseID, instructorID); err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, "id = ?", courseID).Error
	})
}

func ownEditable(c *models.Course, courseID, instructorID uuid.UUID) error {
	if c.InstructorID != instructorID {
		return notFoundf("course %s", courseID)
	}
	if c.Status != models.CourseDraft && c.Status != models.CourseRejected {
		return fmt.Errorf("%w: course is %s", ErrInvalidTransition, c.Status)
	}
	return nil
}

// SubmitForApproval moves a draft (or a rejected course being resubmitted) to
// PendingApproval. Only the owning instructor may submit.
func (s *CourseService) SubmitForApproval(ctx context.Context, courseID, instructorID uuid.UUID) (*models.Course, error) {
	return s.transition(ctx, courseID, func(c *models.Course) error {
		if c.InstructorID != instructorID {
			return notFoundf("course %s", courseID)
		}
		if c.Status != models.CourseDraft && c.Status != models.CourseRejected {
			return fmt.Errorf("%w: course is %s", ErrInvalidTransition, c.Status)
		}
		c.Status = models.CoursePendingApproval
		return nil
	})
}

func (s *CourseService) ApproveCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return s.transition(ctx, courseID, func(c *models.Course) error {
		if c.Status != models.CoursePendingApproval {
			return fmt.Errorf("%w: course is %s", ErrInvalidTransition, c.Status)
		}
		now := s.now()
		c.Status = models.CoursePublished
		c.PublishedAt = &now
		return nil
	})
}

func (s *CourseService) RejectCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return s.transition(ctx, courseID, func(c *models.Course) error {
		if c.Status != models.CoursePendingApproval {
			return fmt.Errorf("%w: course is %s", ErrInvalidTransition, c.Status)
		}
		c.Status = models.CourseRejected
		return nil
	})
}

func (s *CourseService) transition(ctx context.Context, courseID uuid.UUID, apply func(*models.Course) error) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, "id = ?", courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("course %s", courseID)
			}
			return err
		}
		if err := apply(&course); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&course).Error
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("course %s", courseID)
		}
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) ListInstructorCourses(ctx context.Context, instructorID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

func (s *CourseService) ListPublishedCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("status = ?", models.CoursePublished).
		Order("published_at desc").
		Find(&courses).Error
	return courses, err
}
