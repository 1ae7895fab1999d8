package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/storage/database"
)

type quizRepository struct {
	db *gorm.DB
}

var _ quiz.Repository = (*quizRepository)(nil)

func NewQuizRepository(db *gorm.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func toQuestion(rec questionRecord) quiz.Question {
	q := quiz.Question{
		ID:      rec.ID,
		TestID:  rec.TestID,
		Text:    rec.Text,
		Answers: make([]quiz.Answer, 0, len(rec.Answers)),
	}
	for _, a := range rec.Answers {
		q.Answers = append(q.Answers, quiz.Answer{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect})
	}
	return q
}

func toTest(rec testRecord) quiz.Test {
	t := quiz.Test{
		ID:        rec.ID,
		Title:     rec.Title,
		LessonID:  rec.LessonID,
		Questions: make([]quiz.Question, 0, len(rec.Questions)),
	}
	for _, q := range rec.Questions {
		t.Questions = append(t.Questions, toQuestion(q))
	}
	return t
}

func toResult(rec resultRecord) quiz.Result {
	return quiz.Result{
		ID:          rec.ID,
		TestID:      rec.TestID,
		UserID:      rec.UserID,
		Score:       rec.Score,
		CompletedAt: rec.CompletedAt.UTC(),
	}
}

// withQuestions preloads the questions of a test and their answers, in insertion order.
func withQuestions(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") })
}

func (repo *quizRepository) CreateTest(ctx context.Context, t quiz.Test) (quiz.Test, error) {
	rec := testRecord{Title: t.Title, LessonID: t.LessonID}
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if database.TranslateError(err) == database.ErrReferenced {
			return quiz.Test{}, quiz.ErrUnknownLesson
		}
		return quiz.Test{}, errors.Wrap(err, "creating test")
	}
	return toTest(rec), nil
}

func (repo *quizRepository) UpdateTest(ctx context.Context, t quiz.Test) (quiz.Test, error) {
	res := repo.db.WithContext(ctx).
		Model(&testRecord{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{"title": t.Title, "lesson_id": t.LessonID})
	if err := res.Error; err != nil {
		if database.TranslateError(err) == database.ErrReferenced {
			return quiz.Test{}, quiz.ErrUnknownLesson
		}
		return quiz.Test{}, errors.Wrap(err, "updating test")
	}
	if res.RowsAffected == 0 {
		return quiz.Test{}, quiz.ErrNotFound
	}
	return repo.GetTestByID(ctx, t.ID)
}

func (repo *quizRepository) DeleteTest(ctx context.Context, id int) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&testRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking test")
		}
		if count == 0 {
			return quiz.ErrNotFound
		}

		if err := tx.Model(&resultRecord{}).Where("test_id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting results")
		}
		if count > 0 {
			return quiz.ErrHasResults
		}

		questionIDs := tx.Model(&questionRecord{}).Select("id").Where("test_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&answerRecord{}).Error; err != nil {
			return errors.Wrap(err, "deleting answers")
		}
		if err := tx.Where("test_id = ?", id).Delete(&questionRecord{}).Error; err != nil {
			return errors.Wrap(err, "deleting questions")
		}
		if err := tx.Delete(&testRecord{}, id).Error; err != nil {
			if database.TranslateError(err) == database.ErrReferenced {
				return quiz.ErrHasResults
			}
			return errors.Wrap(err, "deleting test")
		}
		return nil
	})
}

func (repo *quizRepository) GetTestByID(ctx context.Context, id int) (quiz.Test, error) {
	var rec testRecord
	if err := withQuestions(repo.db.WithContext(ctx)).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quiz.Test{}, quiz.ErrNotFound
		}
		return quiz.Test{}, errors.Wrap(err, "getting test")
	}
	return toTest(rec), nil
}

func (repo *quizRepository) QueryAllTests(ctx context.Context) ([]quiz.Test, error) {
	var recs []testRecord
	if err := withQuestions(repo.db.WithContext(ctx)).Order("id").Find(&recs).Error; err != nil {
		return nil, errors.Wrap(err, "querying tests")
	}
	tests := make([]quiz.Test, 0, len(recs))
	for _, rec := range recs {
		tests = append(tests, toTest(rec))
	}
	return tests, nil
}

func (repo *quizRepository) LessonExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&lessonRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *quizRepository) CreateQuestion(ctx context.Context, q quiz.Question) (quiz.Question, error) {
	rec := questionRecord{Text: q.Text, TestID: q.TestID}
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		if len(q.Answers) == 0 {
			return nil
		}
		rec.Answers = make([]answerRecord, 0, len(q.Answers))
		for _, a := range q.Answers {
			rec.Answers = append(rec.Answers, answerRecord{Text: a.Text, IsCorrect: a.IsCorrect, QuestionID: rec.ID})
		}
		return tx.Create(&rec.Answers).Error
	})
	if err != nil {
		if database.TranslateError(err) == database.ErrReferenced {
			return quiz.Question{}, quiz.ErrNotFound
		}
		return quiz.Question{}, errors.Wrap(err, "creating question")
	}
	return toQuestion(rec), nil
}

func (repo *quizRepository) CreateResult(ctx context.Context, r quiz.Result) (quiz.Result, error) {
	rec := resultRecord{
		UserID:      r.UserID,
		TestID:      r.TestID,
		Score:       r.Score,
		CompletedAt: r.CompletedAt,
	}
	if err := repo.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if database.TranslateError(err) == database.ErrReferenced {
			if _, tErr := repo.GetTestByID(ctx, r.TestID); tErr == quiz.ErrNotFound {
				return quiz.Result{}, quiz.ErrNotFound
			}
			return quiz.Result{}, quiz.ErrUnknownUser
		}
		return quiz.Result{}, errors.Wrap(err, "creating result")
	}
	return toResult(rec), nil
}

func (repo *quizRepository) QueryResultsByUser(ctx context.Context, userID int) ([]quiz.Result, error) {
	var recs []resultRecord
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]quiz.Result, 0, len(recs))
	for _, rec := range recs {
		results = append(results, toResult(rec))
	}
	return results, nil
}
