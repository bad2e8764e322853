package service

import (
	"errors"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"gorm.io/gorm"
)

// SchoolService manages the administrative hierarchy and unit setup:
// schools, courses, intakes, semesters, course groups, units, trainer
// assignment and student enrollment. All of it is CourseMaster/Admin
// territory.
type SchoolService struct {
	SchoolRepo *repository.SchoolRepository
	UnitRepo   *repository.UnitRepository
	EnrollRepo *repository.EnrollmentRepository
	UserRepo   *repository.UserRepository
}

func NewSchoolService(
	schoolRepo *repository.SchoolRepository,
	unitRepo *repository.UnitRepository,
	enrollRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
) *SchoolService {
	return &SchoolService{
		SchoolRepo: schoolRepo,
		UnitRepo:   unitRepo,
		EnrollRepo: enrollRepo,
		UserRepo:   userRepo,
	}
}

func canCurate(actor util.Actor) bool {
	return actor.Role == model.Admin || actor.Role == model.CourseMaster
}

func (s *SchoolService) CreateSchool(actor util.Actor, name, description string) (*model.School, error) {
	if !canCurate(actor) {
		return nil, util.Forbidden("only a CourseMaster or Admin may manage schools")
	}
	if name == "" {
		return nil, util.Validation("school name is required")
	}
	school := &model.School{Name: name, Description: description}
	if err := s.SchoolRepo.CreateSchool(school); err != nil {
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) ListSchools() ([]model.School, error) {
	return s.SchoolRepo.ListSchools()
}

func (s *SchoolService) CreateCourse(actor util.Actor, c *model.Course) error {
	if !canCurate(actor) {
		return util.Forbidden("only a CourseMaster or Admin may manage courses")
	}
	if c.Name == "" {
		return util.Validation("course name is required")
	}
	return s.SchoolRepo.CreateCourse(c)
}

func (s *SchoolService) ListCourses(schoolID uint) ([]model.Course, error) {
	return s.SchoolRepo.ListCourses(schoolID)
}

func (s *SchoolService) CreateIntake(actor util.Actor, i *model.Intake) error {
	if !canCurate(actor) {
		return util.Forbidden("only a CourseMaster or Admin may manage intakes")
	}
	if i.Name == "" {
		return util.Validation("intake name is required")
	}
	return s.SchoolRepo.CreateIntake(i)
}

func (s *SchoolService) ListIntakes(courseID uint) ([]model.Intake, error) {
	return s.SchoolRepo.ListIntakes(courseID)
}

func (s *SchoolService) CreateSemester(actor util.Actor, sem *model.Semester) error {
	if !canCurate(actor) {
		return util.Forbidden("only a CourseMaster or Admin may manage semesters")
	}
	if sem.EndDate.Before(sem.StartDate) {
		return util.Validation("semester ends before it starts")
	}
	return s.SchoolRepo.CreateSemester(sem)
}

func (s *SchoolService) CreateCourseGroup(actor util.Actor, g *model.CourseGroup) error {
	if !canCurate(actor) {
		return util.Forbidden("only a CourseMaster or Admin may manage course groups")
	}
	return s.SchoolRepo.CreateCourseGroup(g)
}

func (s *SchoolService) ListCourseGroups() ([]model.CourseGroup, error) {
	return s.SchoolRepo.ListCourseGroups()
}

func (s *SchoolService) CreateUnit(actor util.Actor, unit *model.Unit) error {
	if !canCurate(actor) {
		return util.Forbidden("only a CourseMaster or Admin may manage units")
	}
	if unit.Name == "" || unit.Code == "" {
		return util.Validation("unit name and code are required")
	}
	if unit.TotalLessons == 0 {
		return util.Validation("a unit needs at least one lesson slot")
	}
	if _, err := s.SchoolRepo.FindCourseGroup(unit.CourseGroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("course group not found")
		}
		return err
	}
	return s.UnitRepo.Create(unit)
}

// AssignTrainer binds a trainer to a unit; the trainer must hold the
// Trainer role and an activated account.
func (s *SchoolService) AssignTrainer(actor util.Actor, unitID, trainerID uint) (*model.Unit, error) {
	if !canCurate(actor) {
		return nil, util.Forbidden("only a CourseMaster or Admin may assign trainers")
	}
	unit, err := s.UnitRepo.FindByID(unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("unit not found")
		}
		return nil, err
	}
	trainer, err := s.UserRepo.FindByID(trainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("trainer not found")
		}
		return nil, err
	}
	if trainer.Role != model.Trainer {
		return nil, util.Validation("user is not a trainer")
	}
	if !trainer.IsActivated || trainer.IsArchived {
		return nil, util.Validation("trainer account is not active")
	}

	unit.TrainerID = &trainer.ID
	if err := s.UnitRepo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *SchoolService) ListUnits(courseGroupID uint) ([]model.Unit, error) {
	return s.UnitRepo.ListByCourseGroup(courseGroupID)
}

func (s *SchoolService) ListTrainerUnits(trainerID uint) ([]model.Unit, error) {
	return s.UnitRepo.ListByTrainer(trainerID)
}

// Enroll adds a student to a course group. The unique pair index makes a
// repeat enrollment fail at the database, surfaced as a validation error.
func (s *SchoolService) Enroll(actor util.Actor, studentID, courseGroupID uint) (*model.StudentEnrollment, error) {
	if !canCurate(actor) {
		return nil, util.Forbidden("only a CourseMaster or Admin may enroll students")
	}
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("student not found")
		}
		return nil, err
	}
	if student.Role != model.Student {
		return nil, util.Validation("user is not a student")
	}
	if _, err := s.SchoolRepo.FindCourseGroup(courseGroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("course group not found")
		}
		return nil, err
	}

	e := &model.StudentEnrollment{StudentID: studentID, CourseGroupID: courseGroupID, IsActive: true}
	if err := s.EnrollRepo.Create(e); err != nil {
		return nil, util.Validation("student is already enrolled in this course group")
	}
	return e, nil
}

func (s *SchoolService) Roster(courseGroupID uint) ([]model.StudentEnrollment, error) {
	return s.EnrollRepo.ListByCourseGroup(courseGroupID)
}
