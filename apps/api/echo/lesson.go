package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core/lesson"
)

type lessonApi struct {
	svc *lesson.Service
}

func registerLessonAPI(g *echo.Group, admin []echo.MiddlewareFunc, svc *lesson.Service) {
	api := lessonApi{svc: svc}

	g.GET("/grades", api.queryGrades)

	lg := g.Group("/lessons")
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.GET("/subject/:id", api.queryBySubject)
	lg.POST("", api.create, admin...)
	lg.PUT("/:id", api.update, admin...)
	lg.DELETE("/:id", api.destroy, admin...)
}

func (api *lessonApi) queryGrades(ctx echo.Context) error {
	grades, err := api.svc.QueryGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *lessonApi) query(ctx echo.Context) error {
	lessons, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *lessonApi) queryBySubject(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	lessons, err := api.svc.QueryBySubject(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying lessons by subject")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *lessonApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	lsn, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *lessonApi) create(ctx echo.Context) error {
	var data lesson.NewLesson
	if err := bind(ctx, &data); err != nil {
		return err
	}
	lsn, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *lessonApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var data lesson.NewLesson
	if err := bind(ctx, &data); err != nil {
		return err
	}
	lsn, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *lessonApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}
