package echoapi_test

import (
	"net/http"
	"strconv"
	"testing"

	. "github.com/Djaner15/EduPlatform/apps/api/echo"
	"github.com/Djaner15/EduPlatform/core/lesson"
	"github.com/Djaner15/EduPlatform/core/subject"
	"github.com/Djaner15/EduPlatform/tests"
)

func Test_subjectApi(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@example.com", pwd, testutil.AdminRoleID)
	student := testutil.CreateUser(t, app.usrRepo, "student", "student@example.com", pwd, testutil.StudentRoleID)
	token := app.getToken(t, admin)

	maths := testutil.CreateSubject(t, app.subRepo, "Maths")
	physics := testutil.CreateSubject(t, app.subRepo, "Physics")
	testutil.CreateLesson(t, app.lsnRepo, "Fractions", maths.ID, 5)

	mathsPath := "/api/subjects/" + strconv.Itoa(maths.ID)
	physicsPath := "/api/subjects/" + strconv.Itoa(physics.ID)
	body := func(name, desc string) []byte {
		return marchallObj(t, subject.NewSubject{Name: name, Description: desc})
	}
	errNameExists := &ErrorResponse{
		StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_OPERATION",
		Message: "subject with this name already exists",
		Fields:  map[string]string{"name": "subject with this name already exists"},
	}

	app.run(t, []httpTest{
		{name: "query anonymous", path: "/api/subjects", wantData: marchallList(t, maths, physics)},
		{name: "retrieve anonymous", path: mathsPath, wantData: marchallObj(t, maths)},
		{
			name: "retrieve unknown", path: "/api/subjects/999",
			wantErr: &ErrorResponse{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "subject not found"},
		},
		{
			name: "create anonymous", method: http.MethodPost, path: "/api/subjects", body: body("History", "Past"),
			wantErr: errMissingToken,
		},
		{
			name: "create student", method: http.MethodPost, path: "/api/subjects", body: body("History", "Past"),
			token: app.getToken(t, student), wantErr: errPermission,
		},
		{
			name: "create blank", method: http.MethodPost, path: "/api/subjects", body: body(" ", ""), token: token,
			wantErr: &ErrorResponse{StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR"},
		},
		{
			name: "create duplicate", method: http.MethodPost, path: "/api/subjects", body: body(" Maths ", "Again"),
			token: token, wantErr: errNameExists,
		},
		{
			name: "create", method: http.MethodPost, path: "/api/subjects", body: body(" History ", "The past"),
			token: token, wantCode: http.StatusCreated,
			wantData: marchallObj(t, subject.Subject{ID: physics.ID + 1, Name: "History", Description: "The past"}),
		},
		{
			name: "update to taken name", method: http.MethodPut, path: physicsPath, body: body("Maths", "x"),
			token: token, wantErr: errNameExists,
		},
		{
			name: "update keeping its name", method: http.MethodPut, path: physicsPath, body: body("Physics", "Forces"),
			token: token, wantData: marchallObj(t, subject.Subject{ID: physics.ID, Name: "Physics", Description: "Forces"}),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/api/subjects/999", body: body("Art", "Paint"),
			token:   token,
			wantErr: &ErrorResponse{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "subject not found"},
		},
		{
			name: "delete with lessons", method: http.MethodDelete, path: mathsPath, token: token,
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_OPERATION",
				Message: "subject has lessons and cannot be deleted",
			},
		},
		{name: "delete", method: http.MethodDelete, path: physicsPath, token: token, wantCode: http.StatusNoContent},
		{
			name: "delete again", method: http.MethodDelete, path: physicsPath, token: token,
			wantErr: &ErrorResponse{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "subject not found"},
		},
	})
}

func Test_lessonApi(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "admin@example.com", pwd, testutil.AdminRoleID)
	student := testutil.CreateUser(t, app.usrRepo, "student", "student@example.com", pwd, testutil.StudentRoleID)
	token := app.getToken(t, admin)

	maths := testutil.CreateSubject(t, app.subRepo, "Maths")
	physics := testutil.CreateSubject(t, app.subRepo, "Physics")
	fractions := testutil.CreateLesson(t, app.lsnRepo, "Fractions", maths.ID, 5)
	forces := testutil.CreateLesson(t, app.lsnRepo, "Forces", physics.ID, 8)
	testutil.CreateTest(t, app.quizRepo, "Fractions quiz", fractions.ID, 1)

	fractionsPath := "/api/lessons/" + strconv.Itoa(fractions.ID)
	forcesPath := "/api/lessons/" + strconv.Itoa(forces.ID)
	body := func(title string, subjectID, gradeID int) []byte {
		return marchallObj(t, lesson.NewLesson{
			Title: title, Content: "About " + title, SubjectID: subjectID, GradeID: gradeID,
		})
	}

	var grades []lesson.Grade
	for i := 1; i <= 12; i++ {
		grades = append(grades, lesson.Grade{ID: i, Name: strconv.Itoa(i)})
	}
	gradeList := make([]interface{}, 0, len(grades))
	for _, g := range grades {
		gradeList = append(gradeList, g)
	}

	created := lesson.Lesson{
		ID: forces.ID + 1, Title: "Decimals", Content: "About Decimals",
		SubjectID: maths.ID, SubjectName: maths.Name, GradeID: 6,
	}
	updated := lesson.Lesson{
		ID: forces.ID, Title: "Motion", Content: "About Motion",
		SubjectID: maths.ID, SubjectName: maths.Name, GradeID: 9,
	}
	errLessonNotFound := &ErrorResponse{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "lesson not found"}

	app.run(t, []httpTest{
		{name: "grades", path: "/api/grades", wantData: marchallList(t, gradeList...)},
		{name: "query anonymous", path: "/api/lessons", wantData: marchallList(t, fractions, forces)},
		{name: "retrieve anonymous", path: forcesPath, wantData: marchallObj(t, forces)},
		{name: "retrieve unknown", path: "/api/lessons/999", wantErr: errLessonNotFound},
		{
			name: "by subject", path: "/api/lessons/subject/" + strconv.Itoa(physics.ID),
			wantData: marchallList(t, forces),
		},
		{
			name: "by unknown subject", path: "/api/lessons/subject/999",
			wantErr: &ErrorResponse{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: "subject not found"},
		},
		{
			name: "create student", method: http.MethodPost, path: "/api/lessons", body: body("Decimals", maths.ID, 6),
			token: app.getToken(t, student), wantErr: errPermission,
		},
		{
			name: "create unknown subject", method: http.MethodPost, path: "/api/lessons", body: body("Decimals", 999, 6),
			token: token,
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR", Message: "subject not found",
				Fields: map[string]string{"subjectId": "subject not found"},
			},
		},
		{
			name: "create unknown grade", method: http.MethodPost, path: "/api/lessons", body: body("Decimals", maths.ID, 13),
			token: token,
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "VALIDATION_ERROR", Message: "grade not found",
				Fields: map[string]string{"gradeId": "grade not found"},
			},
		},
		{
			name: "create", method: http.MethodPost, path: "/api/lessons", body: body("Decimals", maths.ID, 6),
			token: token, wantCode: http.StatusCreated, wantData: marchallObj(t, created),
		},
		{
			name: "update", method: http.MethodPut, path: forcesPath, body: body("Motion", maths.ID, 9),
			token: token, wantData: marchallObj(t, updated),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/api/lessons/999", body: body("Motion", maths.ID, 9),
			token: token, wantErr: errLessonNotFound,
		},
		{
			name: "delete with tests", method: http.MethodDelete, path: fractionsPath, token: token,
			wantErr: &ErrorResponse{
				StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_OPERATION",
				Message: "lesson has tests and cannot be deleted",
			},
		},
		{name: "delete", method: http.MethodDelete, path: forcesPath, token: token, wantCode: http.StatusNoContent},
		{name: "delete again", method: http.MethodDelete, path: forcesPath, token: token, wantErr: errLessonNotFound},
	})
}
