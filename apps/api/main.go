package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	echoapi "github.com/Djaner15/EduPlatform/apps/api/echo"
	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/lesson"
	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/core/subject"
	"github.com/Djaner15/EduPlatform/core/user"
	logsvc "github.com/Djaner15/EduPlatform/services/logger"
	"github.com/Djaner15/EduPlatform/storage/database"
	gormrepos "github.com/Djaner15/EduPlatform/storage/database/gorm"
	sqlxrepos "github.com/Djaner15/EduPlatform/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(reportErrors(conf))

	if err := run(conf, logger); err != nil {
		logger.Fatal(fmt.Sprintf("%v", err), err)
	}
}

func run(conf *core.Config, logger core.Logger) error {
	// =========================================================================
	// Set up DB

	db, err := setUpDB(conf)
	if err != nil {
		return errors.Wrap(err, "setting up database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("closing database", err)
		}
	}()

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting database pool")
	}

	// =========================================================================
	// Set up services

	validator := core.NewValidator()
	user.InitValidators(validator)

	usrRepo := gormrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, validator)
	authSvc := user.NewAuthService(usrRepo, echoapi.NewTokenIssuer(conf), validator)
	subjectSvc := subject.NewService(gormrepos.NewSubjectRepository(db), validator)
	lessonSvc := lesson.NewService(gormrepos.NewLessonRepository(db), validator)
	quizSvc := quiz.NewService(
		gormrepos.NewQuizRepository(db),
		sqlxrepos.NewReportRepository(sqlDB, sqlxrepos.DriverName(conf.Database.Engine)),
		validator,
	)

	if err = bootstrapAdmin(conf, usrSvc, logger); err != nil {
		return err
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{Conf: conf, Logger: logger},
		&echoapi.Deps{
			AuthSvc:    authSvc,
			UserSvc:    usrSvc,
			SubjectSvc: subjectSvc,
			LessonSvc:  lessonSvc,
			QuizSvc:    quizSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}

func setUpDB(conf *core.Config) (*gorm.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(sqlDB, conf.Database.Engine); err != nil {
		return nil, err
	}
	return db, nil
}

// reportErrors tells whether log entries are sent to Rollbar.
func reportErrors(conf *core.Config) bool {
	return conf.RollbarToken != "" && !conf.Debug && !conf.TestMode
}

// bootstrapAdmin seeds the configured admin account, if any.
func bootstrapAdmin(conf *core.Config, svc *user.Service, logger core.Logger) error {
	acc := conf.BootstrapAdmin
	if acc.Username == "" || acc.Password == "" {
		return nil
	}
	usr, err := svc.EnsureAdmin(context.Background(), user.AdminAccount{
		Username: acc.Username,
		Email:    acc.Email,
		Password: acc.Password,
	})
	if err != nil {
		return errors.Wrap(err, "seeding admin")
	}
	logger.Info(fmt.Sprintf("admin %q is ready", usr.Username))
	return nil
}
