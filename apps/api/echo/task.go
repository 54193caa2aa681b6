package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core/project"
	"github.com/trezcool/fundi/core/task"
)

type taskApi struct {
	svc      task.Service
	validate *validator.Validate
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.Service, validate *validator.Validate) {
	api := taskApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/projects/:projectID/tasks", jwt)
	tg.GET("", api.query)
	tg.POST("", api.create, officeMiddleware())

	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, officeMiddleware())
	dg.DELETE("", api.destroy, officeMiddleware())
}

func trapTaskErr(err error, msg string) error {
	switch errors.Cause(err) {
	case project.ErrNotFound, task.ErrNotFound:
		return errHttpNotFound
	}
	return errors.Wrap(err, msg)
}

func (api *taskApi) query(ctx echo.Context) error {
	filter := new(task.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []task.Task{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tasks, err := api.svc.Query(ctx.Request().Context(), ctx.Param("projectID"), filter, ordering.Orderings)
	if err != nil {
		return trapTaskErr(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), ctx.Param("projectID"), data)
	if err != nil {
		return trapTaskErr(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapTaskErr(err, "finding task by ID")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapTaskErr(err, "finding task by ID")
	}

	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	tsk, err := api.svc.Update(ctx.Request().Context(), orig.ProjectID, orig.ID, data)
	if err != nil {
		return trapTaskErr(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id")); err != nil {
		return trapTaskErr(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}
