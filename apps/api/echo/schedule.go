package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core/project"
	"github.com/trezcool/fundi/core/schedule"
)

type scheduleApi struct {
	svc      schedule.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schedule.Service, validate *validator.Validate) {
	api := scheduleApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/projects/:projectID/schedule", jwt)
	sg.GET("", api.timeline)
	sg.GET("/critical-path", api.criticalPath)
	sg.GET("/lookahead", api.lookahead)
	sg.POST("/recompute", api.recompute, officeMiddleware())

	ig := sg.Group("/items")
	ig.POST("", api.createItem, officeMiddleware())
	ig.PATCH("", api.bulkUpdate, officeMiddleware())
	ig.GET("/:id", api.retrieveItem)
	ig.PUT("/:id", api.updateItem, officeMiddleware())
	ig.DELETE("/:id", api.destroyItem, officeMiddleware())
	ig.POST("/:id/move", api.moveItem, officeMiddleware())
	ig.POST("/:id/resize", api.resizeItem, officeMiddleware())

	deg := sg.Group("/dependencies")
	deg.GET("", api.dependencies)
	deg.POST("", api.addDependency, officeMiddleware())
	deg.DELETE("/:id", api.removeDependency, officeMiddleware())
}

// trapScheduleErr maps domain not-found errors to a 404.
func trapScheduleErr(err error, msg string) error {
	switch errors.Cause(err) {
	case project.ErrNotFound, schedule.ErrItemNotFound, schedule.ErrDependencyNotFound:
		return errHttpNotFound
	}
	return errors.Wrap(err, msg)
}

func (api *scheduleApi) timeline(ctx echo.Context) error {
	filter := new(schedule.ItemFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Item{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	items, err := api.svc.Timeline(ctx.Request().Context(), ctx.Param("projectID"), filter, ordering.Orderings)
	if err != nil {
		return trapScheduleErr(err, "querying schedule")
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *scheduleApi) createItem(ctx echo.Context) error {
	var data schedule.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	itm, err := api.svc.CreateItem(ctx.Request().Context(), ctx.Param("projectID"), data)
	if err != nil {
		return trapScheduleErr(err, "creating schedule item")
	}
	return ctx.JSON(http.StatusCreated, itm)
}

func (api *scheduleApi) retrieveItem(ctx echo.Context) error {
	itm, err := api.svc.GetItem(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapScheduleErr(err, "finding schedule item by ID")
	}
	return ctx.JSON(http.StatusOK, itm)
}

func (api *scheduleApi) updateItem(ctx echo.Context) error {
	orig, err := api.svc.GetItem(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapScheduleErr(err, "finding schedule item by ID")
	}

	var data schedule.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	itm, err := api.svc.UpdateItem(ctx.Request().Context(), orig.ProjectID, orig.ID, data)
	if err != nil {
		return trapScheduleErr(err, "updating schedule item")
	}
	return ctx.JSON(http.StatusOK, itm)
}

func (api *scheduleApi) moveItem(ctx echo.Context) error {
	var data schedule.MoveItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	itm, err := api.svc.MoveItem(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"), data)
	if err != nil {
		return trapScheduleErr(err, "moving schedule item")
	}
	return ctx.JSON(http.StatusOK, itm)
}

func (api *scheduleApi) resizeItem(ctx echo.Context) error {
	var data schedule.ResizeItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResizeItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	itm, err := api.svc.ResizeItem(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"), data)
	if err != nil {
		return trapScheduleErr(err, "resizing schedule item")
	}
	return ctx.JSON(http.StatusOK, itm)
}

func (api *scheduleApi) bulkUpdate(ctx echo.Context) error {
	var data schedule.BulkUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	items, err := api.svc.BulkUpdate(ctx.Request().Context(), ctx.Param("projectID"), data)
	if err != nil {
		return trapScheduleErr(err, "bulk updating schedule items")
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *scheduleApi) destroyItem(ctx echo.Context) error {
	if _, err := api.svc.DeleteItems(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id")); err != nil {
		return trapScheduleErr(err, "deleting schedule item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) dependencies(ctx echo.Context) error {
	deps, err := api.svc.Dependencies(ctx.Request().Context(), ctx.Param("projectID"))
	if err != nil {
		return trapScheduleErr(err, "querying dependencies")
	}
	if deps == nil {
		deps = []schedule.Dependency{}
	}
	return ctx.JSON(http.StatusOK, deps)
}

func (api *scheduleApi) addDependency(ctx echo.Context) error {
	var data schedule.NewDependency
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDependency")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dep, err := api.svc.AddDependency(ctx.Request().Context(), ctx.Param("projectID"), data)
	if err != nil {
		return trapScheduleErr(err, "adding dependency")
	}
	return ctx.JSON(http.StatusCreated, dep)
}

func (api *scheduleApi) removeDependency(ctx echo.Context) error {
	if err := api.svc.RemoveDependency(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id")); err != nil {
		return trapScheduleErr(err, "removing dependency")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *scheduleApi) recompute(ctx echo.Context) error {
	items, err := api.svc.Recompute(ctx.Request().Context(), ctx.Param("projectID"))
	if err != nil {
		return trapScheduleErr(err, "recomputing schedule")
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *scheduleApi) criticalPath(ctx echo.Context) error {
	items, err := api.svc.CriticalPath(ctx.Request().Context(), ctx.Param("projectID"))
	if err != nil {
		return trapScheduleErr(err, "computing critical path")
	}
	if items == nil {
		items = []schedule.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *scheduleApi) lookahead(ctx echo.Context) error {
	// a missing or bad weeks param comes out as 0 and the service default applies
	weeks, _ := strconv.Atoi(ctx.QueryParam("weeks"))

	la, err := api.svc.Lookahead(ctx.Request().Context(), ctx.Param("projectID"), weeks)
	if err != nil {
		return trapScheduleErr(err, "computing lookahead")
	}
	return ctx.JSON(http.StatusOK, la)
}
