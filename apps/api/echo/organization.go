package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
)

type organizationApi struct {
	svc      *organization.Service
	validate *validator.Validate
}

func registerOrganizationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := organizationApi{
		svc:      deps.OrgSvc,
		validate: deps.Validate,
	}

	og := g.Group("/organizations", jwt)
	og.POST("", api.create, adminMiddleware)
	og.GET("", api.query, adminMiddleware)
	og.GET("/:id", api.retrieve)
}

// Handlers

func (api *organizationApi) create(ctx echo.Context) error {
	var data organization.NewOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrganization")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	org, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating organization")
	}
	return ctx.JSON(http.StatusCreated, org)
}

func (api *organizationApi) query(ctx echo.Context) error {
	orgs, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying organizations")
	}
	return ctx.JSON(http.StatusOK, orgs)
}

// retrieve is open to admins and to members of the organization.
func (api *organizationApi) retrieve(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	orgID := ctx.Param("id")
	if !id.IsAdmin() && id.OrganizationID != orgID {
		return errHttpForbidden
	}

	org, err := api.svc.Get(ctx.Request().Context(), orgID)
	if err != nil {
		return errors.Wrap(err, "getting organization")
	}
	return ctx.JSON(http.StatusOK, org)
}
