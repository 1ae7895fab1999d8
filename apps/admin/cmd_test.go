package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"

	"github.com/Djaner15/EduPlatform/core/user"
	gormrepos "github.com/Djaner15/EduPlatform/storage/database/gorm"
	"github.com/Djaner15/EduPlatform/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db, conf := testutil.PrepareDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() failed: %v", err)
	}
	usrRepo = gormrepos.NewUserRepository(db)

	// start CLI
	return &commandLine{
		db:     sqlDB,
		engine: conf.Database.Engine,
		usrSvc: user.NewService(usrRepo, testutil.NewValidator()),
	}
}

// mockPassword makes the password prompt answer pwd.
func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err == nil || err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
		}
	case err != nil:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		if db != cli.db {
			return fmt.Errorf("unexpected connection pool")
		}
		if dir != "migrations/sqlite" {
			return fmt.Errorf("unexpected migrations dir %q", dir)
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	t.Cleanup(func() { gooseRunFunc = goose.Run })

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	t.Run("real goose on the embedded migrations", func(t *testing.T) {
		gooseRunFunc = goose.Run
		assert.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
		assert.NoError(t, cli.run([]string{"admin", "migrate", "version"}))
	})
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	student := testutil.CreateUser(t, usrRepo, "student", "student@example.com", "Str0ngPassw0rd!", testutil.StudentRoleID)

	type extra struct {
		pwd   string
		uname string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"createadmin"}, wantErr: errHelp},
		{name: "no email", args: []string{"createadmin", "-username", "root"}, extra: extra{pwd: "s3cret"}, wantErr: errHelp},
		{name: "no password", args: []string{"createadmin", "-username", "root", "-email", "root@example.com"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"createadmin", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{
			name:  "new admin",
			args:  []string{"createadmin", "-username", "Root", "-email", "root@example.com"},
			extra: extra{pwd: "Adm1nPassw0rd!", uname: "root"},
		},
		{
			name:  "promote existing user",
			args:  []string{"createadmin", "-username", student.Username, "-email", student.Email},
			extra: extra{pwd: "n3w-Passw0rd!", uname: student.Username},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			ex, _ := tt.extra.(extra)
			mockPassword(t, ex.pwd)

			err := cli.run(args)
			checkErr(t, tt, err)
			if err != nil || ex.uname == "" {
				return
			}

			usr, err := usrRepo.GetUser(ctx, user.GetFilter{Username: ex.uname})
			if err != nil {
				t.Fatalf("GetUser() failed: %v", err)
			}
			assert.True(t, usr.IsAdmin())
			assert.NoError(t, usr.CheckPassword(ex.pwd))
		})
	}

	t.Run("promoting keeps the user", func(t *testing.T) {
		usr, err := usrRepo.GetUser(ctx, user.GetFilter{ID: student.ID})
		if assert.NoError(t, err) {
			assert.Equal(t, student.Email, usr.Email)
			assert.Equal(t, testutil.AdminRoleID, usr.RoleID)
		}
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "mdr", testutil.StudentRoleID)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "N3wPassw0rd!"}, wantErr: user.ErrNotFound},
		{
			name: "weak password", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"},
			wantErrStr: "password must contain at least 8 characters",
		},
		{
			name: "password like the email", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "awe@test.c"},
			wantErrStr: "password cannot be similar to the username or email",
		},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "N3wPassw0rd!"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", "AWE@test.cd"}, extra: extra{pwd: "Other-Passw0rd1"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			ex, _ := tt.extra.(extra)
			mockPassword(t, ex.pwd)

			err := cli.run(args)
			checkErr(t, tt, err)
			if err != nil {
				return
			}

			refreshedUsr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
			if err != nil {
				t.Fatalf("GetUser() failed, %v", err)
			}
			if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
				t.Error("failed to update new password")
			}
			assert.NoError(t, refreshedUsr.CheckPassword(ex.pwd))
		})
	}
}
