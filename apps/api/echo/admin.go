package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/core/user"
)

// adminApi serves the admin dashboard.
type adminApi struct {
	users   userApi
	quizSvc *quiz.Service
}

func registerAdminAPI(g *echo.Group, admin []echo.MiddlewareFunc, usrSvc *user.Service, quizSvc *quiz.Service) {
	api := adminApi{users: userApi{svc: usrSvc}, quizSvc: quizSvc}

	ag := g.Group("/admin", admin...)
	ag.GET("/statistics", api.statistics)
	ag.GET("/test-results", api.testResults)
	ag.GET("/users", api.users.query)
	ag.DELETE("/users/:id", api.users.destroy)
}

func (api *adminApi) statistics(ctx echo.Context) error {
	stats, err := api.quizSvc.Statistics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) testResults(ctx echo.Context) error {
	results, err := api.quizSvc.QueryAllResults(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying test results")
	}
	return ctx.JSON(http.StatusOK, results)
}
