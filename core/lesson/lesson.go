package lesson

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("lesson not found")
	ErrSubjectNotFound = core.NewNotFoundError("subject not found")
	ErrHasTests        = core.NewConflictError("lesson has tests and cannot be deleted")

	ErrUnknownSubject = core.NewValidationError("subject not found",
		core.FieldError{Field: "subjectId", Error: "subject not found"})
	ErrUnknownGrade = core.NewValidationError("grade not found",
		core.FieldError{Field: "gradeId", Error: "grade not found"})
)

type Grade struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Lesson struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	SubjectID   int    `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	GradeID     int    `json:"gradeId"`
}

// NewLesson contains information needed to create or update a Lesson.
type NewLesson struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	SubjectID int    `json:"subjectId"`
	GradeID   int    `json:"gradeId"`
}

func (nl *NewLesson) Validate(v *core.Validator) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Content = core.CleanString(nl.Content)
	return v.Struct(nl)
}

type (
	Repository interface {
		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		UpdateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		// DeleteLesson returns ErrHasTests when tests still reference the lesson.
		DeleteLesson(ctx context.Context, id int) error
		GetLessonByID(ctx context.Context, id int) (Lesson, error)
		QueryAllLessons(ctx context.Context) ([]Lesson, error)
		QueryLessonsBySubject(ctx context.Context, subjectID int) ([]Lesson, error)
		SubjectExists(ctx context.Context, id int) (bool, error)
		GradeExists(ctx context.Context, id int) (bool, error)
		QueryAllGrades(ctx context.Context) ([]Grade, error)
	}

	Service struct {
		repo      Repository
		validator *core.Validator
	}
)

func NewService(repo Repository, validator *core.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Lesson, error) {
	return svc.repo.QueryAllLessons(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *Service) QueryBySubject(ctx context.Context, subjectID int) ([]Lesson, error) {
	exists, err := svc.repo.SubjectExists(ctx, subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "checking subject")
	}
	if !exists {
		return nil, ErrSubjectNotFound
	}
	return svc.repo.QueryLessonsBySubject(ctx, subjectID)
}

func (svc *Service) QueryGrades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryAllGrades(ctx)
}

// checkReferences verifies that the subject and grade of nl exist.
func (svc *Service) checkReferences(ctx context.Context, nl NewLesson) error {
	exists, err := svc.repo.SubjectExists(ctx, nl.SubjectID)
	if err != nil {
		return errors.Wrap(err, "checking subject")
	}
	if !exists {
		return ErrUnknownSubject
	}
	if exists, err = svc.repo.GradeExists(ctx, nl.GradeID); err != nil {
		return errors.Wrap(err, "checking grade")
	}
	if !exists {
		return ErrUnknownGrade
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nl NewLesson) (Lesson, error) {
	if err := nl.Validate(svc.validator); err != nil {
		return Lesson{}, err
	}
	if err := svc.checkReferences(ctx, nl); err != nil {
		return Lesson{}, err
	}
	return svc.repo.CreateLesson(ctx, Lesson{
		Title:     nl.Title,
		Content:   nl.Content,
		SubjectID: nl.SubjectID,
		GradeID:   nl.GradeID,
	})
}

func (svc *Service) Update(ctx context.Context, id int, ul NewLesson) (Lesson, error) {
	lsn, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if err := ul.Validate(svc.validator); err != nil {
		return Lesson{}, err
	}
	if err := svc.checkReferences(ctx, ul); err != nil {
		return Lesson{}, err
	}
	lsn.Title = ul.Title
	lsn.Content = ul.Content
	lsn.SubjectID = ul.SubjectID
	lsn.GradeID = ul.GradeID
	return svc.repo.UpdateLesson(ctx, lsn)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteLesson(ctx, id)
}
