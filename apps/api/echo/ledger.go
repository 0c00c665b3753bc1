package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
)

type ledgerApi struct {
	svc      *ledger.Service
	validate *validator.Validate
}

func registerLedgerAPI(sg *echo.Group, deps *Deps) {
	api := ledgerApi{
		svc:      deps.LedgerSvc,
		validate: deps.Validate,
	}

	sg.GET("/balance", api.balance)
	sg.GET("/ledger", api.history)
	sg.POST("/credits", api.credit, staffMiddleware)
}

// Handlers

func (api *ledgerApi) balance(ctx echo.Context) error {
	acc, err := api.svc.GetBalance(ctx.Request().Context(), ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "getting balance")
	}
	return ctx.JSON(http.StatusOK, newBalanceResponse(acc.Earned, acc.Spent, ctx.Param(studentParam)))
}

func (api *ledgerApi) history(ctx echo.Context) error {
	var page Pagination
	if err := page.Bind(ctx); err != nil {
		return err
	}

	entries, err := api.svc.History(ctx.Request().Context(), ctx.Param(studentParam), page.Limit)
	if err != nil {
		return errors.Wrap(err, "querying ledger history")
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *ledgerApi) credit(ctx echo.Context) error {
	var data ledger.Transfer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Transfer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	acc, err := api.svc.Credit(ctx.Request().Context(), ctx.Param(studentParam), data.Amount, data.Reason)
	if err != nil {
		return errors.Wrap(err, "crediting student")
	}
	return ctx.JSON(http.StatusOK, newBalanceResponse(acc.Earned, acc.Spent, acc.StudentID))
}
