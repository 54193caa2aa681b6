package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core/directory"
)

type directoryApi struct {
	svc      directory.Service
	validate *validator.Validate
}

func registerDirectoryAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc directory.Service, validate *validator.Validate) {
	api := directoryApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/companies", jwt)
	cg.GET("", api.queryCompanies)
	cg.POST("", api.createCompany, officeMiddleware())
	cg.GET("/:id", api.retrieveCompany)
	cg.PUT("/:id", api.updateCompany, officeMiddleware())
	cg.DELETE("/:id", api.destroyCompany, officeMiddleware())
	cg.GET("/:id/contacts", api.queryContacts)

	ctg := g.Group("/contacts", jwt)
	ctg.POST("", api.createContact, officeMiddleware())
	ctg.GET("/:id", api.retrieveContact)
	ctg.PUT("/:id", api.updateContact, officeMiddleware())
	ctg.DELETE("/:id", api.destroyContact, officeMiddleware())
}

func trapDirectoryErr(err error, msg string) error {
	switch errors.Cause(err) {
	case directory.ErrCompanyNotFound, directory.ErrContactNotFound:
		return errHttpNotFound
	}
	return errors.Wrap(err, msg)
}

func (api *directoryApi) queryCompanies(ctx echo.Context) error {
	filter := new(directory.CompanyFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []directory.Company{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	companies, err := api.svc.QueryCompanies(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying companies")
	}
	if companies == nil {
		companies = []directory.Company{}
	}
	return ctx.JSON(http.StatusOK, companies)
}

func (api *directoryApi) createCompany(ctx echo.Context) error {
	var data directory.NewCompany
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCompany")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cpy, err := api.svc.CreateCompany(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating company")
	}
	return ctx.JSON(http.StatusCreated, cpy)
}

func (api *directoryApi) retrieveCompany(ctx echo.Context) error {
	cpy, err := api.svc.GetCompanyByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapDirectoryErr(err, "finding company by ID")
	}
	return ctx.JSON(http.StatusOK, cpy)
}

func (api *directoryApi) updateCompany(ctx echo.Context) error {
	orig, err := api.svc.GetCompanyByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapDirectoryErr(err, "finding company by ID")
	}

	var data directory.UpdateCompany
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCompany")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	cpy, err := api.svc.UpdateCompany(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return trapDirectoryErr(err, "updating company")
	}
	return ctx.JSON(http.StatusOK, cpy)
}

func (api *directoryApi) destroyCompany(ctx echo.Context) error {
	if _, err := api.svc.DeleteCompanies(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapDirectoryErr(err, "deleting company")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *directoryApi) queryContacts(ctx echo.Context) error {
	contacts, err := api.svc.QueryContacts(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapDirectoryErr(err, "querying contacts")
	}
	if contacts == nil {
		contacts = []directory.Contact{}
	}
	return ctx.JSON(http.StatusOK, contacts)
}

func (api *directoryApi) createContact(ctx echo.Context) error {
	var data directory.NewContact
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContact")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cnt, err := api.svc.CreateContact(ctx.Request().Context(), data)
	if err != nil {
		return trapDirectoryErr(err, "creating contact")
	}
	return ctx.JSON(http.StatusCreated, cnt)
}

func (api *directoryApi) retrieveContact(ctx echo.Context) error {
	cnt, err := api.svc.GetContactByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapDirectoryErr(err, "finding contact by ID")
	}
	return ctx.JSON(http.StatusOK, cnt)
}

func (api *directoryApi) updateContact(ctx echo.Context) error {
	orig, err := api.svc.GetContactByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapDirectoryErr(err, "finding contact by ID")
	}

	var data directory.UpdateContact
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateContact")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	cnt, err := api.svc.UpdateContact(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return trapDirectoryErr(err, "updating contact")
	}
	return ctx.JSON(http.StatusOK, cnt)
}

func (api *directoryApi) destroyContact(ctx echo.Context) error {
	if _, err := api.svc.DeleteContacts(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapDirectoryErr(err, "deleting contact")
	}
	return ctx.NoContent(http.StatusNoContent)
}
