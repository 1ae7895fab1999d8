package gormrepos

import "time"

type roleRecord struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func (roleRecord) TableName() string { return "roles" }

type userRecord struct {
	ID           int `gorm:"primaryKey"`
	Username     string
	Email        string
	PasswordHash []byte
	RoleID       int
	Role         roleRecord `gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type subjectRecord struct {
	ID          int `gorm:"primaryKey"`
	Name        string
	Description string
}

func (subjectRecord) TableName() string { return "subjects" }

type gradeRecord struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func (gradeRecord) TableName() string { return "grades" }

type lessonRecord struct {
	ID        int `gorm:"primaryKey"`
	Title     string
	Content   string
	SubjectID int
	Subject   subjectRecord `gorm:"foreignKey:SubjectID"`
	GradeID   int
}

func (lessonRecord) TableName() string { return "lessons" }

type testRecord struct {
	ID        int `gorm:"primaryKey"`
	Title     string
	LessonID  int
	Questions []questionRecord `gorm:"foreignKey:TestID"`
}

func (testRecord) TableName() string { return "tests" }

type questionRecord struct {
	ID      int `gorm:"primaryKey"`
	Text    string
	TestID  int
	Answers []answerRecord `gorm:"foreignKey:QuestionID"`
}

func (questionRecord) TableName() string { return "questions" }

type answerRecord struct {
	ID         int `gorm:"primaryKey"`
	Text       string
	IsCorrect  bool
	QuestionID int
}

func (answerRecord) TableName() string { return "answers" }

type resultRecord struct {
	ID          int `gorm:"primaryKey"`
	UserID      int
	TestID      int
	Score       int
	CompletedAt time.Time
}

func (resultRecord) TableName() string { return "test_results" }
