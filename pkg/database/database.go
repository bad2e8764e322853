package database

import (
	"fmt"
	"log"

	"mls_backend/internal/config"
	"mls_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate runs the schema migration; shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.School{},
		&model.Course{},
		&model.Intake{},
		&model.Semester{},
		&model.CourseGroup{},
		&model.Unit{},
		&model.StudentEnrollment{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.AttendanceRecord{},
		&model.Resource{},
		&model.Assessment{},
		&model.Question{},
		&model.QuestionOption{},
		&model.Submission{},
		&model.StudentAnswer{},
		&model.Notification{},
		&model.NotificationRecipient{},
	)
}
