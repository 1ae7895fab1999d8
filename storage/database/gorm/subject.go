package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Djaner15/EduPlatform/core/subject"
	"github.com/Djaner15/EduPlatform/storage/database"
)

type subjectRepository struct {
	db *gorm.DB
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *gorm.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func toSubject(rec subjectRecord) subject.Subject {
	return subject.Subject{ID: rec.ID, Name: rec.Name, Description: rec.Description}
}

func (repo *subjectRepository) CheckNameUniqueness(ctx context.Context, name string, excludedID int) error {
	q := repo.db.WithContext(ctx).Model(&subjectRecord{}).Where("name = ?", name)
	if excludedID > 0 {
		q = q.Where("id <> ?", excludedID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking subject name")
	}
	if count > 0 {
		return subject.ErrNameExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	rec := subjectRecord{Name: sub.Name, Description: sub.Description}
	if err := repo.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if database.TranslateError(err) == database.ErrDuplicate {
			return subject.Subject{}, subject.ErrNameExists
		}
		return subject.Subject{}, errors.Wrap(err, "creating subject")
	}
	return toSubject(rec), nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	res := repo.db.WithContext(ctx).
		Model(&subjectRecord{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{"name": sub.Name, "description": sub.Description})
	if err := res.Error; err != nil {
		if database.TranslateError(err) == database.ErrDuplicate {
			return subject.Subject{}, subject.ErrNameExists
		}
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	if res.RowsAffected == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id int) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&subjectRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking subject")
		}
		if count == 0 {
			return subject.ErrNotFound
		}

		if err := tx.Model(&lessonRecord{}).Where("subject_id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting lessons")
		}
		if count > 0 {
			return subject.ErrHasLessons
		}

		if err := tx.Delete(&subjectRecord{}, id).Error; err != nil {
			// a lesson created since the check
			if database.TranslateError(err) == database.ErrReferenced {
				return subject.ErrHasLessons
			}
			return errors.Wrap(err, "deleting subject")
		}
		return nil
	})
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id int) (subject.Subject, error) {
	var rec subjectRecord
	if err := repo.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject")
	}
	return toSubject(rec), nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	var recs []subjectRecord
	if err := repo.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(recs))
	for _, rec := range recs {
		subjects = append(subjects, toSubject(rec))
	}
	return subjects, nil
}
