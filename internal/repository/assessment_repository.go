package repository

import (
	"mls_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(a *model.Assessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListByUnit(unitID uint) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.Where("unit_id = ?", unitID).Order("due_date asc").Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) CountByUnitAndType(unitID uint, t model.AssessmentType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Assessment{}).
		Where("unit_id = ? AND assessment_type = ?", unitID, t).
		Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) Update(a *model.Assessment) error {
	return r.DB.Save(a).Error
}

func (r *AssessmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assessment{}, id).Error
}

func (r *AssessmentRepository) ListQuestions(assessmentID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.`order` asc")
	}).Where("assessment_id = ?", assessmentID).
		Order("`order` asc").Find(&qs).Error
	return qs, err
}

// ReplaceQuestions deletes the assessment's question set and writes the new
// one inside a single transaction, so a failure partway through leaves the
// previous set intact.
func (r *AssessmentRepository) ReplaceQuestions(assessmentID uint, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&model.Question{}).
			Where("assessment_id = ?", assessmentID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("question_id IN ?", ids).
				Delete(&model.QuestionOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("assessment_id = ?", assessmentID).
				Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].AssessmentID = assessmentID
			for j := range questions[i].Options {
				questions[i].Options[j].ID = 0
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AssessmentRepository) CreateSubmission(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *AssessmentRepository) FindSubmissionByID(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Preload("Student").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssessmentRepository) FindSubmissionByPair(assessmentID, studentID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("assessment_id = ? AND student_id = ?", assessmentID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssessmentRepository) ListSubmissions(assessmentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	err := r.DB.Preload("Student").
		Where("assessment_id = ?", assessmentID).
		Order("submitted_at desc").Find(&ss).Error
	return ss, err
}

func (r *AssessmentRepository) ListSubmissionsByStudent(studentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	err := r.DB.Where("student_id = ?", studentID).Order("submitted_at desc").Find(&ss).Error
	return ss, err
}

func (r *AssessmentRepository) UpdateSubmission(s *model.Submission) error {
	return r.DB.Save(s).Error
}

func (r *AssessmentRepository) CreateAnswers(answers []model.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Create(&answers).Error
}

func (r *AssessmentRepository) ListAnswers(submissionID uint) ([]model.StudentAnswer, error) {
	var as []model.StudentAnswer
	err := r.DB.Where("submission_id = ?", submissionID).Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) FindOption(id uint) (*model.QuestionOption, error) {
	var o model.QuestionOption
	err := r.DB.First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
