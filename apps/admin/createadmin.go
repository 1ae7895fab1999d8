package main

import (
	"context"

	"github.com/Djaner15/EduPlatform/core/user"
)

// createAdmin creates an Admin user, or promotes the user holding the username.
func (cli *commandLine) createAdmin(uname, email, pwd string) error {
	usr, err := cli.usrSvc.EnsureAdmin(context.Background(), user.AdminAccount{
		Username: uname,
		Email:    email,
		Password: pwd,
	})
	if err != nil {
		return err
	}
	logger.Printf("admin %q is ready", usr.Username)
	return nil
}
