package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"
	"mls_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fixture wires the full service stack over an in-memory database with one
// course group, one unit, and one user per role.
type fixture struct {
	db *gorm.DB

	Lessons       *LessonService
	Attendance    *AttendanceService
	Progress      *ProgressService
	Assessments   *AssessmentService
	Notifications *NotificationService
	Schools       *SchoolService
	Users         *UserService

	admin   *model.User
	master  *model.User
	hod     *model.User
	trainer *model.User
	student *model.User

	group *model.CourseGroup
	unit  *model.Unit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	f := &fixture{db: db}
	f.Attendance = NewAttendanceService(attendanceRepo, lessonRepo, unitRepo, enrollRepo, assessmentRepo)
	f.Lessons = NewLessonService(lessonRepo, unitRepo, assessmentRepo, enrollRepo, f.Attendance)
	f.Progress = NewProgressService(lessonRepo, enrollRepo, nil)
	f.Assessments = NewAssessmentService(assessmentRepo, unitRepo, enrollRepo)
	f.Notifications = NewNotificationService(notificationRepo, userRepo)
	f.Schools = NewSchoolService(schoolRepo, unitRepo, enrollRepo, userRepo)
	f.Users = NewUserService(userRepo)

	f.admin = f.createUser(t, "admin", model.Admin)
	f.master = f.createUser(t, "master", model.CourseMaster)
	f.hod = f.createUser(t, "hod", model.HOD)
	f.trainer = f.createUser(t, "trainer", model.Trainer)
	f.student = f.createUser(t, "student", model.Student)

	school := model.School{Name: "School of Computing"}
	require.NoError(t, db.Create(&school).Error)
	course := model.Course{Name: "Information Technology", Code: "ICT", SchoolID: school.ID}
	require.NoError(t, db.Create(&course).Error)
	intake := model.Intake{CourseID: course.ID, Name: "February 2026", GroupCode: "0226"}
	require.NoError(t, db.Create(&intake).Error)
	semester := model.Semester{IntakeID: intake.ID, Name: "Semester 1", StartDate: time.Now(), EndDate: time.Now().AddDate(0, 4, 0)}
	require.NoError(t, db.Create(&semester).Error)

	group := model.CourseGroup{CourseID: course.ID, IntakeID: intake.ID, SemesterID: semester.ID, CourseCode: "ICT 0226"}
	require.NoError(t, db.Create(&group).Error)
	f.group = &group

	unit := model.Unit{
		CourseGroupID:  group.ID,
		TrainerID:      &f.trainer.ID,
		Name:           "Networking Essentials",
		Code:           "ICT-101",
		SemesterNumber: 1,
		TotalLessons:   10,
		CatFrequency:   5,
		CatTotalPoints: 30,
	}
	require.NoError(t, db.Create(&unit).Error)
	f.unit = &unit

	f.enroll(t, f.student)
	return f
}

func (f *fixture) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	u := model.User{
		Username:    name,
		Email:       name + "@example.com",
		Password:    "irrelevant",
		FirstName:   name,
		LastName:    "Test",
		Role:        role,
		IsActivated: true,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return &u
}

func (f *fixture) enroll(t *testing.T, student *model.User) {
	t.Helper()
	e := model.StudentEnrollment{StudentID: student.ID, CourseGroupID: f.group.ID, IsActive: true}
	require.NoError(t, f.db.Create(&e).Error)
}

func (f *fixture) actor(u *model.User) util.Actor {
	return util.Actor{UserID: u.ID, Role: u.Role}
}

// createLesson inserts a lesson directly, bypassing the workflow, for tests
// that need a starting state.
func (f *fixture) createLesson(t *testing.T, order uint, taught, approved bool, feedback string) *model.Lesson {
	t.Helper()
	l := model.Lesson{
		UnitID:        f.unit.ID,
		TrainerID:     &f.trainer.ID,
		Title:         fmt.Sprintf("Lesson %d", order),
		Order:         order,
		IsTaught:      taught,
		IsApproved:    approved,
		IsActive:      true,
		AuditFeedback: feedback,
	}
	require.NoError(t, f.db.Create(&l).Error)
	return &l
}
