package subject

import (
	"context"

	"github.com/Djaner15/EduPlatform/core"
)

var (
	// errors
	ErrNotFound   = core.NewNotFoundError("subject not found")
	ErrNameExists = core.NewConflictError("subject with this name already exists",
		core.FieldError{Field: "name", Error: "subject with this name already exists"})
	ErrHasLessons = core.NewConflictError("subject has lessons and cannot be deleted")
)

type Subject struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewSubject contains information needed to create or update a Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (ns *NewSubject) Validate(v *core.Validator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	return v.Struct(ns)
}

type (
	Repository interface {
		// CheckNameUniqueness returns ErrNameExists when a subject other than excludedID has the name.
		CheckNameUniqueness(ctx context.Context, name string, excludedID int) error
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		// DeleteSubject returns ErrHasLessons when lessons still reference the subject.
		DeleteSubject(ctx context.Context, id int) error
		GetSubjectByID(ctx context.Context, id int) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
	}

	Service struct {
		repo      Repository
		validator *core.Validator
	}
)

func NewService(repo Repository, validator *core.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validator); err != nil {
		return Subject{}, err
	}
	if err := svc.repo.CheckNameUniqueness(ctx, ns.Name, 0); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{Name: ns.Name, Description: ns.Description})
}

func (svc *Service) Update(ctx context.Context, id int, us NewSubject) (Subject, error) {
	sub, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if err := us.Validate(svc.validator); err != nil {
		return Subject{}, err
	}
	if err := svc.repo.CheckNameUniqueness(ctx, us.Name, sub.ID); err != nil {
		return Subject{}, err
	}
	sub.Name = us.Name
	sub.Description = us.Description
	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteSubject(ctx, id)
}
