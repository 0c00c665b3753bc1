package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := getContextIdentity(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context identity")
		}
		if id.IsAdmin() {
			return next(ctx)
		}
		return errHttpForbidden
	}
}

// staffMiddleware lets teachers and admins of an organization through.
func staffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := getContextIdentity(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context identity")
		}
		if id.OrganizationID == "" {
			return errNoOrganization
		}
		if id.IsStaff() {
			return next(ctx)
		}
		return errHttpForbidden
	}
}

// selfOrStaffMiddleware lets a student act on their own resources.
// Staff may act on any student of their organization.
func selfOrStaffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := getContextIdentity(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context identity")
		}
		if id.OrganizationID == "" {
			return errNoOrganization
		}
		if id.IsStaff() || id.UserID == ctx.Param(studentParam) {
			return next(ctx)
		}
		return errHttpForbidden
	}
}
