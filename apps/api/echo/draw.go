package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core/draw"
	"github.com/trezcool/fundi/core/project"
)

type drawApi struct {
	svc      draw.Service
	validate *validator.Validate
}

func registerDrawAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc draw.Service, validate *validator.Validate) {
	api := drawApi{
		svc:      svc,
		validate: validate,
	}

	dg := g.Group("/projects/:projectID/draws", jwt)
	dg.GET("", api.query)
	dg.POST("", api.create, officeMiddleware())
	dg.GET("/:id", api.retrieve)
	dg.PUT("/:id", api.update, officeMiddleware())
	dg.DELETE("/:id", api.destroy, officeMiddleware())
}

func trapDrawErr(err error, msg string) error {
	switch errors.Cause(err) {
	case project.ErrNotFound, draw.ErrNotFound:
		return errHttpNotFound
	}
	return errors.Wrap(err, msg)
}

func (api *drawApi) query(ctx echo.Context) error {
	draws, err := api.svc.Query(ctx.Request().Context(), ctx.Param("projectID"))
	if err != nil {
		return trapDrawErr(err, "querying draws")
	}
	if draws == nil {
		draws = []draw.Draw{}
	}
	return ctx.JSON(http.StatusOK, draws)
}

func (api *drawApi) create(ctx echo.Context) error {
	var data draw.NewDraw
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDraw")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	drw, err := api.svc.Create(ctx.Request().Context(), ctx.Param("projectID"), data)
	if err != nil {
		return trapDrawErr(err, "creating draw")
	}
	return ctx.JSON(http.StatusCreated, drw)
}

func (api *drawApi) retrieve(ctx echo.Context) error {
	drw, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapDrawErr(err, "finding draw by ID")
	}
	return ctx.JSON(http.StatusOK, drw)
}

func (api *drawApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id"))
	if err != nil {
		return trapDrawErr(err, "finding draw by ID")
	}

	var data draw.UpdateDraw
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDraw")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	drw, err := api.svc.Update(ctx.Request().Context(), orig.ProjectID, orig.ID, data)
	if err != nil {
		return trapDrawErr(err, "updating draw")
	}
	return ctx.JSON(http.StatusOK, drw)
}

func (api *drawApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("projectID"), ctx.Param("id")); err != nil {
		return trapDrawErr(err, "deleting draw")
	}
	return ctx.NoContent(http.StatusNoContent)
}
