// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/eduplatform/database"
	"github.com/anjiri1684/eduplatform/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
// A single connection keeps every query on the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role string) models.User {
	t.Helper()
	u := models.User{
		FullName: "Test " + role,
		Email:    uuid.NewString() + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreatePublishedCourse creates an instructor and a published course priced at 49.99 USD.
func CreatePublishedCourse(t testing.TB, db *gorm.DB) models.Course {
	t.Helper()
	instructor := CreateUser(t, db, models.RoleInstructor)
	now := time.Now().UTC()
	c := models.Course{
		InstructorID: instructor.ID,
		Title:        "Practical Go",
		Description:  "Services, tests and tooling",
		Price:        decimal.RequireFromString("49.99"),
		Currency:     "USD",
		Status:       models.CoursePublished,
		PublishedAt:  &now,
	}
	require.NoError(t, db.Omit("Instructor").Create(&c).Error)
	return c
}
