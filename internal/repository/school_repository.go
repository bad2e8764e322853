package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
)

// SchoolRepository covers the administrative hierarchy above units:
// schools, courses, intakes, semesters and course groups.
type SchoolRepository struct {
	DB *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{DB: db}
}

func (r *SchoolRepository) CreateSchool(s *model.School) error {
	return r.DB.Create(s).Error
}

func (r *SchoolRepository) ListSchools() ([]model.School, error) {
	var ss []model.School
	err := r.DB.Order("name asc").Find(&ss).Error
	return ss, err
}

func (r *SchoolRepository) CreateCourse(c *model.Course) error {
	return r.DB.Create(c).Error
}

func (r *SchoolRepository) ListCourses(schoolID uint) ([]model.Course, error) {
	query := r.DB.Model(&model.Course{})
	if schoolID > 0 {
		query = query.Where("school_id = ?", schoolID)
	}
	var cs []model.Course
	err := query.Order("code asc").Find(&cs).Error
	return cs, err
}

func (r *SchoolRepository) CreateIntake(i *model.Intake) error {
	return r.DB.Create(i).Error
}

func (r *SchoolRepository) ListIntakes(courseID uint) ([]model.Intake, error) {
	query := r.DB.Model(&model.Intake{})
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	var is []model.Intake
	err := query.Order("start_date desc").Find(&is).Error
	return is, err
}

func (r *SchoolRepository) CreateSemester(s *model.Semester) error {
	return r.DB.Create(s).Error
}

func (r *SchoolRepository) CreateCourseGroup(g *model.CourseGroup) error {
	return r.DB.Create(g).Error
}

func (r *SchoolRepository) FindCourseGroup(id uint) (*model.CourseGroup, error) {
	var g model.CourseGroup
	err := r.DB.Preload("Course").Preload("Intake").First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SchoolRepository) ListCourseGroups() ([]model.CourseGroup, error) {
	var gs []model.CourseGroup
	err := r.DB.Preload("Course").Preload("Intake").Find(&gs).Error
	return gs, err
}
