package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

type wheelApi struct {
	svc *wheel.Service
}

func registerWheelAPI(sg *echo.Group, deps *Deps) {
	api := wheelApi{svc: deps.WheelSvc}

	wg := sg.Group("/wheel")
	wg.GET("", api.view)
	wg.POST("/spin", api.spin)
	wg.POST("/refresh", api.refresh)
}

// Handlers

func (api *wheelApi) view(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	view, err := api.svc.View(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "viewing wheel")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *wheelApi) spin(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	res, err := api.svc.Spin(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "spinning wheel")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *wheelApi) refresh(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	view, err := api.svc.Refresh(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "refreshing wheel")
	}
	return ctx.JSON(http.StatusOK, view)
}
