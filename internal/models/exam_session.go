package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionExpired    SessionStatus = "expired"
)

// IsTerminal reports whether no further transition is allowed.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionExpired
}

type ExamSession struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	UserID        string `json:"user_id" gorm:"not null;size:255;index"`
	Subject       string `json:"subject" gorm:"size:100"`
	QuestionSetID string `json:"question_set_id" gorm:"size:100"`

	TimeBudgetSeconds int `json:"time_budget_seconds" gorm:"not null"`
	TimeSpentSeconds  int `json:"time_spent_seconds"`

	TotalScore int           `json:"total_score"`
	MaxScore   int           `json:"max_score"`
	IsPassed   bool          `json:"is_passed"`
	Status     SessionStatus `json:"status" gorm:"size:20;default:in_progress;index"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Answers []ExamAnswer `json:"answers,omitempty" gorm:"foreignKey:ExamSessionID"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}

type ExamAnswer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ExamSessionID    uint      `json:"exam_session_id" gorm:"not null;uniqueIndex:idx_exam_answer_session_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_exam_answer_session_question"`
	SelectedAnswer   string    `json:"selected_answer" gorm:"type:text"`
	IsCorrect        bool      `json:"is_correct"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ExamAnswer) TableName() string {
	return "exam_answers"
}

// SkillLevel is one point on the skill radar chart.
type SkillLevel struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

type StudentAnalytics struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_student_analytics_scope"`
	Chapter    string `json:"chapter" gorm:"not null;size:200;uniqueIndex:idx_student_analytics_scope"`
	SubChapter string `json:"sub_chapter" gorm:"not null;size:200;uniqueIndex:idx_student_analytics_scope"`

	TotalQuestionsAttempted int            `json:"total_questions_attempted"`
	CorrectAnswers          int            `json:"correct_answers"`
	MasteryLevel            float64        `json:"mastery_level"`                      // 0.0 - 1.0
	SkillRadarData          datatypes.JSON `json:"skill_radar_data" gorm:"type:jsonb"` // []SkillLevel
	LastUpdated             time.Time      `json:"last_updated"`
}

func (StudentAnalytics) TableName() string {
	return "student_analytics"
}
