package echoapi_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/tests"
)

func Test_adminApi_statistics(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@example.com", pwd, testutil.AdminRoleID)
	token := app.getToken(t, admin)

	app.run(t, []httpTest{
		{
			name: "empty", path: "/api/admin/statistics", token: token,
			wantData: marchallObj(t, quiz.Statistics{TotalUsers: 1}),
		},
	})

	alice := testutil.CreateUser(t, app.usrRepo, "alice", "alice@example.com", pwd, testutil.StudentRoleID)
	bob := testutil.CreateUser(t, app.usrRepo, "bob", "bob@example.com", pwd, testutil.StudentRoleID)
	maths := testutil.CreateSubject(t, app.subRepo, "Maths")
	fractions := testutil.CreateLesson(t, app.lsnRepo, "Fractions", maths.ID, 5)
	tst := testutil.CreateTest(t, app.quizRepo, "Fractions quiz", fractions.ID, 2)
	testutil.CreateTest(t, app.quizRepo, "Decimals quiz", fractions.ID, 1)

	svc := quiz.NewService(app.quizRepo, nil, testutil.NewValidator())
	for _, sub := range []struct {
		userID, correct int
	}{
		{alice.ID, 2}, // 100
		{alice.ID, 1}, // 50
		{bob.ID, 0},   // 0
	} {
		if _, err := svc.Submit(context.Background(), tst.ID, sub.userID, testutil.Answers(tst, sub.correct)); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	app.run(t, []httpTest{
		{
			name: "with results", path: "/api/admin/statistics", token: token,
			wantData: marchallObj(t, quiz.Statistics{TotalUsers: 3, TotalTests: 2, TotalResults: 3, AverageScore: 50}),
		},
	})

	t.Run("test results", func(t *testing.T) {
		rec := app.do(httpTest{path: "/api/admin/test-results", token: token})
		if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
			return
		}
		var got []quiz.ResultDetail
		decode(t, rec.Body.Bytes(), &got)
		if !assert.Len(t, got, 3) {
			return
		}

		// newest first
		want := []struct {
			username string
			score    int
		}{{"bob", 0}, {"alice", 50}, {"alice", 100}}
		for i, w := range want {
			assert.Equal(t, w.username, got[i].Username)
			assert.Equal(t, w.score, got[i].Score)
			assert.Equal(t, "Fractions quiz", got[i].TestTitle)
			assert.Equal(t, tst.ID, got[i].TestID)
		}
	})

	t.Run("deleting a user removes their results", func(t *testing.T) {
		rec := app.do(httpTest{method: http.MethodDelete, path: "/api/admin/users/" + strconv.Itoa(bob.ID), token: token})
		if !assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String()) {
			return
		}
		checkCodeAndData(t, httpTest{
			wantData: marchallObj(t, quiz.Statistics{TotalUsers: 2, TotalTests: 2, TotalResults: 2, AverageScore: 75}),
		}, app.do(httpTest{path: "/api/admin/statistics", token: token}))
	})
}
