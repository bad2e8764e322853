package model

import "time"

type AssessmentType string

const (
	AssessmentCAT        AssessmentType = "CAT"
	AssessmentTest       AssessmentType = "Test"
	AssessmentAssignment AssessmentType = "Assignment"
	AssessmentLabTask    AssessmentType = "LabTask"
	AssessmentLesson     AssessmentType = "LessonAssessment"
)

func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentCAT, AssessmentTest, AssessmentAssignment, AssessmentLabTask, AssessmentLesson:
		return true
	default:
		return false
	}
}

// GateState classifies an assessment against the clock. Only scheduled_at
// gates the start; due_date is informational and never blocks a submission.
type GateState string

const (
	GateNotYetOpen GateState = "NotYetOpen"
	GateOpen       GateState = "Open"
)

type Assessment struct {
	BaseModel
	UnitID          uint           `gorm:"not null;index" json:"unitId"`
	LessonID        *uint          `gorm:"index" json:"lessonId"`
	TrainerID       *uint          `gorm:"index" json:"trainerId"`
	AssessmentType  AssessmentType `gorm:"size:20;not null" json:"assessmentType"`
	Title           string         `gorm:"size:255;default:'Untitled Assessment'" json:"title"`
	Instructions    string         `gorm:"type:text" json:"instructions"`
	Points          uint           `gorm:"not null" json:"points"`
	DueDate         time.Time      `json:"dueDate"`
	ScheduledAt     *time.Time     `json:"scheduledAt"`
	DurationMinutes *uint          `json:"durationMinutes"`
	ShowAnswers     bool           `gorm:"default:false" json:"showAnswersAfterSubmission"`
}

type QuestionType string

const (
	QuestionMCQ   QuestionType = "MCQ"
	QuestionTF    QuestionType = "TF"
	QuestionShort QuestionType = "SHORT"
	QuestionEssay QuestionType = "ESSAY"
	QuestionFill  QuestionType = "FILL"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionTF, QuestionShort, QuestionEssay, QuestionFill:
		return true
	default:
		return false
	}
}

type Question struct {
	BaseModel
	AssessmentID uint         `gorm:"not null;index" json:"assessmentId"`
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:10;not null" json:"questionType"`
	Points       uint         `gorm:"default:1" json:"points"`
	Order        uint         `gorm:"default:1" json:"order"`
	// TF answer key; nil for other types.
	AnswerBool *bool `json:"answerBool,omitempty"`
	// Reference answer for SHORT/ESSAY/FILL, used only as grading guidance.
	AnswerText string           `gorm:"type:text" json:"answerText,omitempty"`
	Options    []QuestionOption `gorm:"constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	OptionText string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Order      uint   `gorm:"default:1" json:"order"`
}

type Submission struct {
	BaseModel
	AssessmentID   uint       `gorm:"not null;uniqueIndex:idx_submission_pair" json:"assessmentId"`
	StudentID      uint       `gorm:"not null;uniqueIndex:idx_submission_pair" json:"studentId"`
	Student        *User      `json:"student,omitempty"`
	Content        string     `gorm:"type:text" json:"content"`
	Grade          *float64   `json:"grade"`
	AutoGradedScore *float64  `json:"autoGradedScore"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	IsGraded       bool       `gorm:"default:false" json:"isGraded"`
}

type StudentAnswer struct {
	BaseModel
	SubmissionID     uint     `gorm:"not null;index" json:"submissionId"`
	QuestionID       uint     `gorm:"not null" json:"questionId"`
	SelectedOptionID *uint    `json:"selectedOptionId"`
	AnswerText       string   `gorm:"type:text" json:"answerText"`
	PointsEarned     *float64 `json:"pointsEarned"`
	IsCorrect        *bool    `json:"isCorrect"`
	Feedback         string   `gorm:"type:text" json:"feedback"`
}
