package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/lesson"
	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/core/subject"
	"github.com/Djaner15/EduPlatform/core/user"
	"github.com/Djaner15/EduPlatform/storage/database"
)

// seeded by the migrations
const (
	AdminRoleID   = 1
	TeacherRoleID = 2
	StudentRoleID = 3
)

// NewConfig returns the configuration of a test run backed by the sqlite file at dbPath.
func NewConfig(dbPath string) *core.Config {
	return &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "EduPlatform",
		Build:              "test",
		SecretKey:          "test-secret-key",
		JWTExpirationDelta: 7 * 24 * time.Hour,
		Server: core.ServerConfig{
			Host:            "localhost",
			Address:         ":0",
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Cors: core.CorsConfig{AllowOrigins: []string{"*"}},
		Database: core.DatabaseConfig{
			Engine: "sqlite",
			Path:   dbPath,
		},
	}
}

// PrepareDB opens a fresh, migrated sqlite database. It is removed with the test.
func PrepareDB(t *testing.T) (*gorm.DB, *core.Config) {
	t.Helper()
	conf := NewConfig(filepath.Join(t.TempDir(), "test.db"))

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("database.Close() failed: %v", err)
		}
	})

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() failed: %v", err)
	}
	if err = database.Migrate(sqlDB, conf.Database.Engine); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db, conf
}

func NewValidator() *core.Validator {
	v := core.NewValidator()
	user.InitValidators(v)
	return v
}

func CreateUser(t *testing.T, repo user.Repository, uname, email, pwd string, roleID int) user.User {
	t.Helper()
	usr := user.User{
		Username:  uname,
		Email:     email,
		RoleID:    roleID,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSubject(t *testing.T, repo subject.Repository, name string) subject.Subject {
	t.Helper()
	sub, err := repo.CreateSubject(context.Background(), subject.Subject{Name: name, Description: name + " lessons"})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreateLesson(t *testing.T, repo lesson.Repository, title string, subjectID, gradeID int) lesson.Lesson {
	t.Helper()
	lsn, err := repo.CreateLesson(context.Background(), lesson.Lesson{
		Title:     title,
		Content:   "Content of " + title,
		SubjectID: subjectID,
		GradeID:   gradeID,
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return lsn
}

// CreateTest creates a test with nQuestions questions of two answers each; the first answer is correct.
func CreateTest(t *testing.T, repo quiz.Repository, title string, lessonID, nQuestions int) quiz.Test {
	t.Helper()
	ctx := context.Background()
	tst, err := repo.CreateTest(ctx, quiz.Test{Title: title, LessonID: lessonID})
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	for i := 0; i < nQuestions; i++ {
		_, err = repo.CreateQuestion(ctx, quiz.Question{
			TestID: tst.ID,
			Text:   "question",
			Answers: []quiz.Answer{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		})
		if err != nil {
			t.Fatalf("CreateQuestion() failed: %v", err)
		}
	}
	if tst, err = repo.GetTestByID(ctx, tst.ID); err != nil {
		t.Fatalf("GetTestByID() failed: %v", err)
	}
	return tst
}

// Answers returns a submission answering the first k questions of tst correctly and the rest wrongly.
func Answers(tst quiz.Test, k int) quiz.Submission {
	var sub quiz.Submission
	for i, q := range tst.Questions {
		for _, a := range q.Answers {
			if a.IsCorrect == (i < k) {
				sub.Answers = append(sub.Answers, quiz.SubmittedAnswer{QuestionID: q.ID, AnswerID: a.ID})
				break
			}
		}
	}
	return sub
}
