package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Djaner15/EduPlatform/core/lesson"
	"github.com/Djaner15/EduPlatform/storage/database"
)

type lessonRepository struct {
	db *gorm.DB
}

var _ lesson.Repository = (*lessonRepository)(nil)

func NewLessonRepository(db *gorm.DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func toLesson(rec lessonRecord) lesson.Lesson {
	return lesson.Lesson{
		ID:          rec.ID,
		Title:       rec.Title,
		Content:     rec.Content,
		SubjectID:   rec.SubjectID,
		SubjectName: rec.Subject.Name,
		GradeID:     rec.GradeID,
	}
}

func toLessons(recs []lessonRecord) []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0, len(recs))
	for _, rec := range recs {
		lessons = append(lessons, toLesson(rec))
	}
	return lessons
}

// referenceError maps a foreign key violation of a lesson write to the
// reference that disappeared since the service checked it.
func (repo *lessonRepository) referenceError(ctx context.Context, err error, lsn lesson.Lesson) (error, bool) {
	if database.TranslateError(err) != database.ErrReferenced {
		return nil, false
	}
	if ok, _ := repo.SubjectExists(ctx, lsn.SubjectID); !ok {
		return lesson.ErrUnknownSubject, true
	}
	return lesson.ErrUnknownGrade, true
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, lsn lesson.Lesson) (lesson.Lesson, error) {
	rec := lessonRecord{
		Title:     lsn.Title,
		Content:   lsn.Content,
		SubjectID: lsn.SubjectID,
		GradeID:   lsn.GradeID,
	}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if rErr, ok := repo.referenceError(ctx, err, lsn); ok {
			return lesson.Lesson{}, rErr
		}
		return lesson.Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return repo.GetLessonByID(ctx, rec.ID)
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, lsn lesson.Lesson) (lesson.Lesson, error) {
	res := repo.db.WithContext(ctx).
		Model(&lessonRecord{}).
		Where("id = ?", lsn.ID).
		Updates(map[string]interface{}{
			"title":      lsn.Title,
			"content":    lsn.Content,
			"subject_id": lsn.SubjectID,
			"grade_id":   lsn.GradeID,
		})
	if err := res.Error; err != nil {
		if rErr, ok := repo.referenceError(ctx, err, lsn); ok {
			return lesson.Lesson{}, rErr
		}
		return lesson.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if res.RowsAffected == 0 {
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	return repo.GetLessonByID(ctx, lsn.ID)
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id int) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&lessonRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking lesson")
		}
		if count == 0 {
			return lesson.ErrNotFound
		}

		if err := tx.Model(&testRecord{}).Where("lesson_id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting tests")
		}
		if count > 0 {
			return lesson.ErrHasTests
		}

		if err := tx.Delete(&lessonRecord{}, id).Error; err != nil {
			if database.TranslateError(err) == database.ErrReferenced {
				return lesson.ErrHasTests
			}
			return errors.Wrap(err, "deleting lesson")
		}
		return nil
	})
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id int) (lesson.Lesson, error) {
	var rec lessonRecord
	if err := repo.db.WithContext(ctx).Preload("Subject").First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lesson.Lesson{}, lesson.ErrNotFound
		}
		return lesson.Lesson{}, errors.Wrap(err, "getting lesson")
	}
	return toLesson(rec), nil
}

func (repo *lessonRepository) QueryAllLessons(ctx context.Context) ([]lesson.Lesson, error) {
	var recs []lessonRecord
	if err := repo.db.WithContext(ctx).Preload("Subject").Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	return toLessons(recs), nil
}

func (repo *lessonRepository) QueryLessonsBySubject(ctx context.Context, subjectID int) ([]lesson.Lesson, error) {
	var recs []lessonRecord
	err := repo.db.WithContext(ctx).
		Preload("Subject").
		Where("subject_id = ?", subjectID).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying lessons by subject")
	}
	return toLessons(recs), nil
}

func (repo *lessonRepository) exists(ctx context.Context, model interface{}, id int) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *lessonRepository) SubjectExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, &subjectRecord{}, id)
}

func (repo *lessonRepository) GradeExists(ctx context.Context, id int) (bool, error) {
	return repo.exists(ctx, &gradeRecord{}, id)
}

func (repo *lessonRepository) QueryAllGrades(ctx context.Context) ([]lesson.Grade, error) {
	var recs []gradeRecord
	if err := repo.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]lesson.Grade, 0, len(recs))
	for _, rec := range recs {
		grades = append(grades, lesson.Grade{ID: rec.ID, Name: rec.Name})
	}
	return grades, nil
}
