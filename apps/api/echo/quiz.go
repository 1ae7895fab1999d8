package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core/quiz"
)

type (
	// AnswerView hides IsCorrect from non-admin callers.
	AnswerView struct {
		ID        int    `json:"id"`
		Text      string `json:"text"`
		IsCorrect *bool  `json:"isCorrect,omitempty"`
	}

	QuestionView struct {
		ID      int          `json:"id"`
		TestID  int          `json:"testId"`
		Text    string       `json:"text"`
		Answers []AnswerView `json:"answers"`
	}

	TestView struct {
		ID        int            `json:"id"`
		Title     string         `json:"title"`
		LessonID  int            `json:"lessonId"`
		Questions []QuestionView `json:"questions"`
	}
)

func NewTestView(t quiz.Test, withSolution bool) TestView {
	tv := TestView{
		ID:        t.ID,
		Title:     t.Title,
		LessonID:  t.LessonID,
		Questions: make([]QuestionView, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		qv := QuestionView{
			ID:      q.ID,
			TestID:  q.TestID,
			Text:    q.Text,
			Answers: make([]AnswerView, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			av := AnswerView{ID: a.ID, Text: a.Text}
			if withSolution {
				isCorrect := a.IsCorrect
				av.IsCorrect = &isCorrect
			}
			qv.Answers = append(qv.Answers, av)
		}
		tv.Questions = append(tv.Questions, qv)
	}
	return tv
}

type quizApi struct {
	svc *quiz.Service
}

func registerQuizAPI(g *echo.Group, jwt, optJwt echo.MiddlewareFunc, admin []echo.MiddlewareFunc, svc *quiz.Service) {
	api := quizApi{svc: svc}

	tg := g.Group("/tests")
	tg.GET("", api.query, optJwt)
	tg.GET("/results", api.queryResults, jwt)
	tg.GET("/:id", api.retrieve, optJwt)
	tg.POST("/:id/submit", api.submit, jwt)
	tg.POST("", api.create, admin...)
	tg.PUT("/:id", api.update, admin...)
	tg.DELETE("/:id", api.destroy, admin...)
	tg.POST("/:id/questions", api.addQuestion, admin...)
}

// showSolution reports whether the caller may see which answers are correct.
func showSolution(ctx echo.Context) bool {
	claims, ok := getContextClaims(ctx)
	return ok && claims.IsAdmin()
}

func (api *quizApi) query(ctx echo.Context) error {
	tests, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	withSolution := showSolution(ctx)
	views := make([]TestView, 0, len(tests))
	for _, t := range tests {
		views = append(views, NewTestView(t, withSolution))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding test by ID")
	}
	return ctx.JSON(http.StatusOK, NewTestView(t, showSolution(ctx)))
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewTest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating test")
	}
	return ctx.JSON(http.StatusCreated, NewTestView(t, true))
}

func (api *quizApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewTest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	t, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating test")
	}
	return ctx.JSON(http.StatusOK, NewTestView(t, true))
}

func (api *quizApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting test")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) addQuestion(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data quiz.NewQuestion
	if err := bind(ctx, &data); err != nil {
		return err
	}
	q, err := api.svc.AddQuestion(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *quizApi) submit(ctx echo.Context) error {
	claims, ok := getContextClaims(ctx)
	if !ok {
		return errUnauthorized
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data quiz.Submission
	if err := bind(ctx, &data); err != nil {
		return err
	}
	res, err := api.svc.Submit(ctx.Request().Context(), id, claims.UserID, data)
	if err != nil {
		return errors.Wrap(err, "submitting test")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *quizApi) queryResults(ctx echo.Context) error {
	claims, ok := getContextClaims(ctx)
	if !ok {
		return errUnauthorized
	}
	results, err := api.svc.QueryResults(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	return ctx.JSON(http.StatusOK, results)
}
