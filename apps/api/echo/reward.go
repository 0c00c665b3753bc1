package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
)

type rewardApi struct {
	svc      *reward.Service
	validate *validator.Validate
}

func registerRewardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := rewardApi{
		svc:      deps.RewardSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/rewards", jwt, staffMiddleware)
	rg.POST("", api.distribute)
	rg.GET("/:event", api.retrieve)
}

// Handlers

func (api *rewardApi) distribute(ctx echo.Context) error {
	var data reward.WinnerReward
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WinnerReward")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.DistributeWinnerReward(ctx.Request().Context(), data.EventID, data.WinnerID, data.Base, data.Participants)
	if err != nil {
		return errors.Wrap(err, "distributing reward")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *rewardApi) retrieve(ctx echo.Context) error {
	res, err := api.svc.Get(ctx.Request().Context(), ctx.Param("event"))
	if err != nil {
		return errors.Wrap(err, "getting reward")
	}
	return ctx.JSON(http.StatusOK, res)
}
