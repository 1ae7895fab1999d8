package quiz

import (
	"time"

	"github.com/Djaner15/EduPlatform/core"
)

type Answer struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID      int      `json:"id"`
	TestID  int      `json:"testId"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

type Test struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	LessonID  int        `json:"lessonId"`
	Questions []Question `json:"questions"`
}

// Result is one scored submission of a Test. Results are never updated.
type Result struct {
	ID          int       `json:"id" db:"id"`
	TestID      int       `json:"testId" db:"test_id"`
	UserID      int       `json:"userId" db:"user_id"`
	Score       int       `json:"scorePercentage" db:"score"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"` // UTC
}

// ResultDetail is a Result joined with its user and test, for reporting.
type ResultDetail struct {
	Result
	Username  string `json:"username" db:"username"`
	TestTitle string `json:"testTitle" db:"test_title"`
}

type Statistics struct {
	TotalUsers   int     `json:"totalUsers" db:"total_users"`
	TotalTests   int     `json:"totalTests" db:"total_tests"`
	TotalResults int     `json:"totalResults" db:"total_results"`
	AverageScore float64 `json:"averageScore" db:"average_score"`
}

// NewTest contains information needed to create or update a Test.
type NewTest struct {
	Title    string `json:"title" validate:"required"`
	LessonID int    `json:"lessonId"`
}

func (nt *NewTest) Validate(v *core.Validator) error {
	nt.Title = core.CleanString(nt.Title)
	return v.Struct(nt)
}

type NewAnswer struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// NewQuestion is a question with its answers. At least one answer is required.
type NewQuestion struct {
	Text    string      `json:"text" validate:"required"`
	Answers []NewAnswer `json:"answers" validate:"dive"`
}

func (nq *NewQuestion) Validate(v *core.Validator) error {
	nq.Text = core.CleanString(nq.Text)
	for i := range nq.Answers {
		nq.Answers[i].Text = core.CleanString(nq.Answers[i].Text)
	}

	err := v.Struct(nq)
	if len(nq.Answers) > 0 {
		return err
	}
	noAnswers := core.FieldError{Field: "answers", Error: errNoAnswersText}
	if vErr, ok := core.AsError(err); ok {
		return core.NewValidationError(vErr.Msg+"; "+errNoAnswersText, append(vErr.Fields, noAnswers)...)
	} else if err != nil {
		return err
	}
	return core.NewValidationError(errNoAnswersText, noAnswers)
}

type SubmittedAnswer struct {
	QuestionID int `json:"questionId"`
	AnswerID   int `json:"answerId"`
}

type Submission struct {
	Answers []SubmittedAnswer `json:"answers"`
}
