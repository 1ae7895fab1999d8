package main

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/user"
	"github.com/Djaner15/EduPlatform/storage/database"
	gormrepos "github.com/Djaner15/EduPlatform/storage/database/gorm"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	sqlDB, err := db.DB()
	errAndDie(err)

	validator := core.NewValidator()
	user.InitValidators(validator)

	// start CLI
	cli := commandLine{
		db:     sqlDB,
		engine: conf.Database.Engine,
		usrSvc: user.NewService(gormrepos.NewUserRepository(db), validator),
	}
	err = cli.run(os.Args)
	if cErr := database.Close(db); cErr != nil {
		logger.Printf("closing database: %v", cErr)
	}
	if err != nil {
		if !errors.Is(err, errHelp) {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
