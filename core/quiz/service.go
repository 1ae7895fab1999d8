package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("test not found")
	ErrHasResults  = core.NewConflictError("test has results and cannot be deleted")
	ErrNoQuestion  = core.NewValidationError("test has no questions")
	ErrUnknownUser = core.NewUnauthorizedError("user no longer exists")

	ErrUnknownLesson = core.NewValidationError("lesson not found",
		core.FieldError{Field: "lessonId", Error: "lesson not found"})

	errNoAnswersText = "at least one answer is required"

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateTest(ctx context.Context, t Test) (Test, error)
		UpdateTest(ctx context.Context, t Test) (Test, error)
		// DeleteTest removes the test with its questions and answers.
		// It returns ErrHasResults when results reference the test.
		DeleteTest(ctx context.Context, id int) error
		// GetTestByID returns the test with its questions and their answers.
		GetTestByID(ctx context.Context, id int) (Test, error)
		QueryAllTests(ctx context.Context) ([]Test, error)
		LessonExists(ctx context.Context, id int) (bool, error)
		// CreateQuestion stores the question and its answers atomically.
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		CreateResult(ctx context.Context, r Result) (Result, error)
		QueryResultsByUser(ctx context.Context, userID int) ([]Result, error)
	}

	// Reporter runs the read-only aggregate queries of the admin dashboard.
	Reporter interface {
		Statistics(ctx context.Context) (Statistics, error)
		QueryAllResults(ctx context.Context) ([]ResultDetail, error)
	}

	Service struct {
		repo      Repository
		reports   Reporter
		validator *core.Validator
	}
)

func NewService(repo Repository, reports Reporter, validator *core.Validator) *Service {
	return &Service{repo: repo, reports: reports, validator: validator}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Test, error) {
	return svc.repo.QueryAllTests(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Test, error) {
	return svc.repo.GetTestByID(ctx, id)
}

func (svc *Service) checkLesson(ctx context.Context, lessonID int) error {
	exists, err := svc.repo.LessonExists(ctx, lessonID)
	if err != nil {
		return errors.Wrap(err, "checking lesson")
	}
	if !exists {
		return ErrUnknownLesson
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTest) (Test, error) {
	if err := nt.Validate(svc.validator); err != nil {
		return Test{}, err
	}
	if err := svc.checkLesson(ctx, nt.LessonID); err != nil {
		return Test{}, err
	}
	return svc.repo.CreateTest(ctx, Test{Title: nt.Title, LessonID: nt.LessonID})
}

func (svc *Service) Update(ctx context.Context, id int, ut NewTest) (Test, error) {
	t, err := svc.repo.GetTestByID(ctx, id)
	if err != nil {
		return Test{}, err
	}
	if err := ut.Validate(svc.validator); err != nil {
		return Test{}, err
	}
	if err := svc.checkLesson(ctx, ut.LessonID); err != nil {
		return Test{}, err
	}
	t.Title = ut.Title
	t.LessonID = ut.LessonID
	return svc.repo.UpdateTest(ctx, t)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteTest(ctx, id)
}

func (svc *Service) AddQuestion(ctx context.Context, testID int, nq NewQuestion) (Question, error) {
	if _, err := svc.repo.GetTestByID(ctx, testID); err != nil {
		return Question{}, err
	}
	if err := nq.Validate(svc.validator); err != nil {
		return Question{}, err
	}

	q := Question{
		TestID:  testID,
		Text:    nq.Text,
		Answers: make([]Answer, 0, len(nq.Answers)),
	}
	for _, na := range nq.Answers {
		q.Answers = append(q.Answers, Answer{Text: na.Text, IsCorrect: na.IsCorrect})
	}
	return svc.repo.CreateQuestion(ctx, q)
}

// Submit scores sub against the test and records the result.
// Every submission is recorded; earlier results are never replaced.
func (svc *Service) Submit(ctx context.Context, testID, userID int, sub Submission) (Result, error) {
	t, err := svc.repo.GetTestByID(ctx, testID)
	if err != nil {
		return Result{}, err
	}
	if len(t.Questions) == 0 {
		return Result{}, ErrNoQuestion
	}

	res := Result{
		TestID:      t.ID,
		UserID:      userID,
		Score:       Score(CountCorrect(t, sub), len(t.Questions)),
		CompletedAt: NowFunc().UTC(),
	}
	return svc.repo.CreateResult(ctx, res)
}

func (svc *Service) QueryResults(ctx context.Context, userID int) ([]Result, error) {
	return svc.repo.QueryResultsByUser(ctx, userID)
}

func (svc *Service) QueryAllResults(ctx context.Context) ([]ResultDetail, error) {
	return svc.reports.QueryAllResults(ctx)
}

func (svc *Service) Statistics(ctx context.Context) (Statistics, error) {
	return svc.reports.Statistics(ctx)
}
