package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/Djaner15/EduPlatform/apps/api/echo"
	"github.com/Djaner15/EduPlatform/core/user"
	"github.com/Djaner15/EduPlatform/tests"
)

func Test_authApi_register(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.usrRepo, "taken", "taken@example.com", pwd, testutil.StudentRoleID)

	path := "/api/auth/register"
	body := func(uname, email, pass string) []byte {
		return marchallObj(t, user.NewRegistration{Username: uname, Email: email, Password: pass})
	}

	app.run(t, []httpTest{
		{
			name: "blank fields", method: http.MethodPost, path: path, body: body(" ", "", ""),
			wantErr: &ErrorResponse{StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR"},
		},
		{
			name: "invalid email", method: http.MethodPost, path: path, body: body("alice", "not-an-email", pwd),
			wantErr: &ErrorResponse{StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR"},
		},
		{
			name: "duplicate username", method: http.MethodPost, path: path, body: body("Taken", "other@example.com", pwd),
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_OPERATION", Message: "username already exists",
			},
		},
		{
			name: "duplicate email", method: http.MethodPost, path: path, body: body("other", "TAKEN@example.com", pwd),
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_OPERATION", Message: "email already exists",
			},
		},
		{
			name: "malformed body", method: http.MethodPost, path: path, body: []byte(`{"username":`),
			wantErr: &ErrorResponse{StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR"},
		},
	})

	t.Run("success", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPost, path: path, body: body(" Alice ", "Alice@Example.com", pwd)})
		if !assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String()) {
			return
		}

		var resp user.AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, user.RoleStudent, resp.Role)

		usr, err := app.usrRepo.GetUser(context.Background(), user.GetFilter{ID: resp.UserID})
		if assert.NoError(t, err) {
			assert.Equal(t, "alice@example.com", usr.Email)
			assert.NoError(t, usr.CheckPassword(pwd))
		}

		// the token authenticates its owner
		rec = app.do(httpTest{path: "/api/auth/me", token: resp.Token})
		checkCodeAndData(t, httpTest{
			wantData: marchallObj(t, MeResponse{UserID: resp.UserID, Username: "alice", Role: user.RoleStudent}),
		}, rec)
	})
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.usrRepo, "teacher", "teacher@example.com", pwd, testutil.TeacherRoleID)

	path := "/api/auth/login"
	body := func(uname, pass string) []byte {
		return marchallObj(t, LoginRequest{Username: uname, Password: pass})
	}
	errCredentials := &ErrorResponse{
		StatusCode: http.StatusUnauthorized, ErrorCode: "UNAUTHORIZED", Message: "invalid credentials",
	}

	app.run(t, []httpTest{
		{name: "blank", method: http.MethodPost, path: path, body: body("", ""), wantErr: errCredentials},
		{name: "unknown user", method: http.MethodPost, path: path, body: body("nobody", pwd), wantErr: errCredentials},
		{name: "wrong password", method: http.MethodPost, path: path, body: body("teacher", "wrong"), wantErr: errCredentials},
	})

	t.Run("success", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodPost, path: path, body: body(" TEACHER ", pwd)})
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}

		var resp user.AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.AuthResponse{Token: resp.Token, Username: "teacher", Role: user.RoleTeacher, UserID: usr.ID}, resp)
	})
}

func Test_authApi_me(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.usrRepo, "student", "student@example.com", pwd, testutil.StudentRoleID)

	path := "/api/auth/me"

	app.run(t, []httpTest{
		{name: "no token", path: path, wantErr: errMissingToken},
		{name: "invalid token", path: path, token: "not.a.token", wantErr: errMissingToken},
		{name: "expired token", path: path, token: app.getExpiredToken(t, usr), wantErr: errMissingToken},
		{
			name:     "valid token",
			path:     path,
			token:    app.getToken(t, usr),
			wantData: marchallObj(t, MeResponse{UserID: usr.ID, Username: usr.Username, Role: user.RoleStudent}),
		},
	})
}
