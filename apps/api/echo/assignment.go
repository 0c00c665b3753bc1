package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

// registerAssignmentAPI mounts on the per-student group.
func registerAssignmentAPI(sg *echo.Group, deps *Deps) {
	api := assignmentApi{
		svc:      deps.AssignmentSvc,
		validate: deps.Validate,
	}

	sg.GET("/creatures", api.holdings)
	sg.POST("/creatures", api.assign, staffMiddleware)
	sg.POST("/creatures/random", api.awardRandom, staffMiddleware)
	sg.DELETE("/creatures/random", api.revokeRandom, staffMiddleware)
	sg.DELETE("/creatures/:record", api.revoke, staffMiddleware)
}

// Handlers

func (api *assignmentApi) holdings(ctx echo.Context) error {
	recs, err := api.svc.Holdings(ctx.Request().Context(), ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "querying holdings")
	}
	if recs == nil {
		recs = []assignment.OwnershipRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *assignmentApi) assign(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}
	var data assignRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to assignRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	res, err := api.svc.Assign(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam), data.EntryID)
	if err != nil {
		return errors.Wrap(err, "assigning creature")
	}
	return ctx.JSON(resultCode(res), res)
}

func (api *assignmentApi) awardRandom(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	res, err := api.svc.AwardRandom(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "awarding random creature")
	}
	return ctx.JSON(resultCode(res), res)
}

func (api *assignmentApi) revoke(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	rec, err := api.svc.Revoke(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam), ctx.Param("record"))
	if err != nil {
		return errors.Wrap(err, "revoking creature")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *assignmentApi) revokeRandom(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context identity")
	}

	rec, err := api.svc.RevokeRandom(ctx.Request().Context(), id.OrganizationID, ctx.Param(studentParam))
	if err != nil {
		return errors.Wrap(err, "revoking random creature")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func resultCode(res assignment.Result) int {
	if res.Outcome == assignment.OutcomeNewCreature {
		return http.StatusCreated
	}
	return http.StatusOK
}
