package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

type poolApi struct {
	svc      *pool.Service
	validate *validator.Validate
}

func registerPoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := poolApi{
		svc:      deps.PoolSvc,
		validate: deps.Validate,
	}

	pg := g.Group("/pool", jwt)
	pg.GET("", api.listAvailable)
	pg.POST("/initialize", api.initialize, staffMiddleware)
	pg.POST("/release", api.release, staffMiddleware)
	pg.GET("/:id", api.retrieve, staffMiddleware)
}

// Handlers

func (api *poolApi) initialize(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	created, err := api.svc.Initialize(ctx.Request().Context(), id.OrganizationID)
	if err != nil {
		return errors.Wrap(err, "initializing pool")
	}

	code := http.StatusOK
	if created > 0 {
		code = http.StatusCreated
	}
	return ctx.JSON(code, initializeResponse{OrganizationID: id.OrganizationID, Created: created})
}

func (api *poolApi) listAvailable(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	if id.OrganizationID == "" {
		return errNoOrganization
	}

	entries, err := api.svc.ListAvailable(ctx.Request().Context(), id.OrganizationID)
	if err != nil {
		return errors.Wrap(err, "listing available entries")
	}
	if entries == nil {
		entries = []pool.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *poolApi) retrieve(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	entry, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting entry")
	}
	if entry.OrganizationID != id.OrganizationID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *poolApi) release(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	var data releaseRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to releaseRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	entry, err := api.svc.Release(ctx.Request().Context(), id.OrganizationID, data.CreatureID, data.StudentID)
	if err != nil {
		return errors.Wrap(err, "releasing creature")
	}
	return ctx.JSON(http.StatusOK, entry)
}
