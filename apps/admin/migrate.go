package main

import (
	"github.com/pressly/goose/v3"

	"github.com/Djaner15/EduPlatform/storage/database"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	dir, err := database.SetupGoose(cli.engine)
	if err != nil {
		return err
	}
	return gooseRunFunc(args[0], cli.db, dir, args[1:]...)
}
